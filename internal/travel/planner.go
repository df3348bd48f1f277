// Package travel compares the weather at two cities and produces travel advice.
package travel

import (
	"context"
	"fmt"
	"sync"

	"github.com/i474232898/weatherverse/internal/common"
	"github.com/i474232898/weatherverse/internal/weather"
)

// Fetcher returns the current weather for a query.
type Fetcher interface {
	Current(ctx context.Context, q weather.Query) (weather.Snapshot, error)
}

// Plan is the comparison of an origin and a destination.
type Plan struct {
	Origin           weather.Snapshot `json:"origin"`
	Destination      weather.Snapshot `json:"destination"`
	OriginScore      int              `json:"originScore"`
	DestinationScore int              `json:"destinationScore"`
	Advice           []string         `json:"advice"`
}

type Planner struct {
	fetcher Fetcher
}

func NewPlanner(fetcher Fetcher) *Planner {
	return &Planner{fetcher: fetcher}
}

// Plan fetches both cities concurrently. It fails if either lookup fails.
func (p *Planner) Plan(ctx context.Context, from, to string) (Plan, error) {
	var (
		wg                 sync.WaitGroup
		origin, dest       weather.Snapshot
		originErr, destErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		origin, originErr = p.fetcher.Current(ctx, weather.ByCity(from))
	}()
	go func() {
		defer wg.Done()
		dest, destErr = p.fetcher.Current(ctx, weather.ByCity(to))
	}()
	wg.Wait()

	if originErr != nil {
		return Plan{}, fmt.Errorf("origin %q: %w", from, originErr)
	}
	if destErr != nil {
		return Plan{}, fmt.Errorf("destination %q: %w", to, destErr)
	}

	return Plan{
		Origin:           origin,
		Destination:      dest,
		OriginScore:      Score(origin),
		DestinationScore: Score(dest),
		Advice:           Advice(origin, dest),
	}, nil
}

// Score rates travel weather from 0 (terrible) to 10 (ideal).
func Score(s weather.Snapshot) int {
	score := 10
	cond := string(s.Condition)

	if s.Temperature < 0 || s.Temperature > 35 {
		score -= 3
	}
	if s.Temperature < -10 || s.Temperature > 40 {
		score -= 2
	}

	if common.ContainsAny(cond, "rain") {
		score -= 2
	}
	if common.ContainsAny(cond, "snow") {
		score -= 3
	}
	if common.ContainsAny(cond, "storm") {
		score -= 4
	}

	if s.WindSpeed > 15 {
		score -= 2
	}
	if s.WindSpeed > 25 {
		score -= 2
	}

	return max(0, score)
}

// Advice lists packing and travel tips for going from origin to dest.
func Advice(origin, dest weather.Snapshot) []string {
	var advice []string
	cond := string(dest.Condition)

	switch diff := dest.Temperature - origin.Temperature; {
	case diff > 10:
		advice = append(advice, "It's significantly warmer at your destination. Pack lighter clothes!")
	case diff < -10:
		advice = append(advice, "It's much cooler at your destination. Bring warm clothing!")
	default:
		advice = append(advice, "Temperature is similar at both locations. Current clothing should be fine!")
	}

	if common.ContainsAny(cond, "rain") {
		advice = append(advice, "Rain expected at destination. Don't forget your umbrella!")
	}
	if common.ContainsAny(cond, "snow") {
		advice = append(advice, "Snow conditions at destination. Pack winter gear and check road conditions!")
	}
	if dest.WindSpeed > 15 {
		advice = append(advice, "High winds expected at destination. Secure loose items!")
	}

	originScore, destScore := Score(origin), Score(dest)
	switch {
	case originScore > 7 && destScore > 7:
		advice = append(advice, "Excellent weather conditions for travel today!")
	case originScore < 4 || destScore < 4:
		advice = append(advice, "Consider postponing travel due to poor weather conditions.")
	default:
		advice = append(advice, "Moderate weather conditions. Travel with caution.")
	}

	if dest.Humidity > 80 {
		advice = append(advice, "High humidity at destination. Stay hydrated and dress breathably!")
	}

	return advice
}
