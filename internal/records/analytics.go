package records

import (
	"context"
	"slices"
)

// Analytics returns the current summary, or an empty one when none is stored.
func (r *Records) Analytics(ctx context.Context) (Analytics, error) {
	a, _, err := read[Analytics](ctx, r.kv, KeyAnalytics)
	if err != nil {
		return Analytics{}, err
	}
	a.normalize()
	return a, nil
}

// recordObservation folds o into the stored summary. Callers hold r.mu.
func (r *Records) recordObservation(ctx context.Context, o Observation) error {
	a, _, err := read[Analytics](ctx, r.kv, KeyAnalytics)
	if err != nil {
		return err
	}
	a.normalize()
	a.Record(o)
	return write(ctx, r.kv, KeyAnalytics, a)
}

// Record updates the summary with one observation.
func (a *Analytics) Record(o Observation) {
	a.TotalSearches++

	if i := slices.IndexFunc(a.MostVisitedCities, func(c CityCount) bool { return c.City == o.City }); i >= 0 {
		a.MostVisitedCities[i].Count++
	} else {
		a.MostVisitedCities = append(a.MostVisitedCities, CityCount{City: o.City, Count: 1})
	}

	if o.Mood != "" {
		i := slices.IndexFunc(a.MoodPatterns, func(m MoodPattern) bool {
			return m.Weather == o.Condition && m.Mood == o.Mood
		})
		if i >= 0 {
			a.MoodPatterns[i].Count++
		} else {
			a.MoodPatterns = append(a.MoodPatterns, MoodPattern{Weather: o.Condition, Mood: o.Mood, Count: 1})
		}
	}

	if o.Productivity != 0 {
		i := slices.IndexFunc(a.ProductivityData, func(p ProductivityStat) bool { return p.Weather == o.Condition })
		if i >= 0 {
			p := &a.ProductivityData[i]
			p.Productivity = (p.Productivity*float64(p.Count) + float64(o.Productivity)) / float64(p.Count+1)
			p.Count++
		} else {
			a.ProductivityData = append(a.ProductivityData, ProductivityStat{
				Weather:      o.Condition,
				Productivity: float64(o.Productivity),
				Count:        1,
			})
		}
	}

	a.recordWeather(o)
}

// recordWeather maintains AverageTemperature and MostCommonWeather. The
// sample count is the sum of WeatherCounts, so summaries written before
// these fields existed start a fresh mean.
func (a *Analytics) recordWeather(o Observation) {
	samples := 0
	for _, w := range a.WeatherCounts {
		samples += w.Count
	}
	a.AverageTemperature = (a.AverageTemperature*float64(samples) + o.Temperature) / float64(samples+1)

	i := slices.IndexFunc(a.WeatherCounts, func(w WeatherCount) bool { return w.Weather == o.Condition })
	if i >= 0 {
		a.WeatherCounts[i].Count++
	} else {
		a.WeatherCounts = append(a.WeatherCounts, WeatherCount{Weather: o.Condition, Count: 1})
		i = len(a.WeatherCounts) - 1
	}

	// The current leader keeps its place on ties.
	best := 0
	if a.MostCommonWeather != "" {
		if j := slices.IndexFunc(a.WeatherCounts, func(w WeatherCount) bool { return w.Weather == a.MostCommonWeather }); j >= 0 {
			best = a.WeatherCounts[j].Count
		}
	}
	if a.WeatherCounts[i].Count > best {
		a.MostCommonWeather = o.Condition
	}
}

// normalize replaces nil slices so the summary always encodes as arrays.
func (a *Analytics) normalize() {
	if a.MostVisitedCities == nil {
		a.MostVisitedCities = []CityCount{}
	}
	if a.MoodPatterns == nil {
		a.MoodPatterns = []MoodPattern{}
	}
	if a.ProductivityData == nil {
		a.ProductivityData = []ProductivityStat{}
	}
	if a.WeatherCounts == nil {
		a.WeatherCounts = []WeatherCount{}
	}
}
