package travel

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/i474232898/weatherverse/internal/weather"
)

// TestMain verifies that concurrent lookups leave no goroutines behind.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubFetcher map[string]weather.Snapshot

func (s stubFetcher) Current(_ context.Context, q weather.Query) (weather.Snapshot, error) {
	snap, ok := s[q.City]
	if !ok {
		return weather.Snapshot{}, fmt.Errorf("%w: %s", weather.ErrUnavailable, q.City)
	}
	return snap, nil
}

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		snap weather.Snapshot
		want int
	}{
		{"ideal", weather.Snapshot{Temperature: 22, Condition: weather.ConditionClear, WindSpeed: 3}, 10},
		{"freezing", weather.Snapshot{Temperature: -5, Condition: weather.ConditionClear}, 7},
		{"arctic", weather.Snapshot{Temperature: -15, Condition: weather.ConditionClear}, 5},
		{"rain", weather.Snapshot{Temperature: 15, Condition: weather.ConditionRain}, 8},
		{"thunderstorm", weather.Snapshot{Temperature: 15, Condition: weather.ConditionThunderstorm}, 6},
		{"gale", weather.Snapshot{Temperature: 15, Condition: weather.ConditionClear, WindSpeed: 30}, 6},
		{"floor", weather.Snapshot{Temperature: 45, Condition: "Snow storm", WindSpeed: 30}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.snap))
		})
	}
}

func TestAdvice(t *testing.T) {
	origin := weather.Snapshot{Temperature: 10, Condition: weather.ConditionClear}
	dest := weather.Snapshot{Temperature: 25, Condition: weather.ConditionRain, WindSpeed: 16, Humidity: 85}

	advice := Advice(origin, dest)
	assert.Equal(t, []string{
		"It's significantly warmer at your destination. Pack lighter clothes!",
		"Rain expected at destination. Don't forget your umbrella!",
		"High winds expected at destination. Secure loose items!",
		"Moderate weather conditions. Travel with caution.",
		"High humidity at destination. Stay hydrated and dress breathably!",
	}, advice)
}

func TestAdviceExcellentAndPostpone(t *testing.T) {
	nice := weather.Snapshot{Temperature: 20, Condition: weather.ConditionClear}
	assert.Contains(t, Advice(nice, nice), "Excellent weather conditions for travel today!")

	blizzard := weather.Snapshot{Temperature: -12, Condition: weather.ConditionSnow, WindSpeed: 20}
	advice := Advice(nice, blizzard)
	assert.Equal(t, "It's much cooler at your destination. Bring warm clothing!", advice[0])
	assert.Contains(t, advice, "Consider postponing travel due to poor weather conditions.")
}

func TestPlan(t *testing.T) {
	fetcher := stubFetcher{
		"London": {City: "London", Temperature: 12, Condition: weather.ConditionClouds},
		"Madrid": {City: "Madrid", Temperature: 30, Condition: weather.ConditionClear},
	}
	planner := NewPlanner(fetcher)

	plan, err := planner.Plan(context.Background(), "London", "Madrid")
	require.NoError(t, err)
	assert.Equal(t, "London", plan.Origin.City)
	assert.Equal(t, "Madrid", plan.Destination.City)
	assert.Equal(t, 10, plan.OriginScore)
	assert.Equal(t, 10, plan.DestinationScore)
	assert.NotEmpty(t, plan.Advice)

	_, err = planner.Plan(context.Background(), "London", "Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrUnavailable)
	assert.Contains(t, err.Error(), "destination")
}
