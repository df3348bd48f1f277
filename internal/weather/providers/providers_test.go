package providers

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weatherverse/internal/weather"
)

const openWeatherParis = `{
	"coord": {"lon": 2.3488, "lat": 48.8534},
	"weather": [{"id": 500, "main": "Rain", "description": "light rain", "icon": "10d"}],
	"main": {"temp": 14.56, "feels_like": 13.49, "temp_min": 13.0, "temp_max": 15.7, "pressure": 1012, "humidity": 81},
	"visibility": 9500,
	"wind": {"speed": 4.63, "deg": 250},
	"dt": 1714564800,
	"sys": {"country": "FR"},
	"name": "Paris"
}`

const weatherAPIOslo = `{
	"location": {"name": "Oslo", "country": "Norway", "lat": 59.91, "lon": 10.75, "localtime_epoch": 1714564800},
	"current": {
		"temp_c": -2.6, "feelslike_c": -7.4, "humidity": 86, "wind_kph": 20.2,
		"pressure_mb": 1003, "vis_km": 4.6,
		"condition": {"text": "Light snow showers"}
	}
}`

// setupHTTPMock returns an HTTP client whose transport is stubbed by httpmock.
func setupHTTPMock(t *testing.T) *http.Client {
	t.Helper()
	client := &http.Client{}
	httpmock.ActivateNonDefault(client)
	t.Cleanup(httpmock.DeactivateAndReset)
	return client
}

func TestOpenWeatherProvider_FetchByCity(t *testing.T) {
	client := setupHTTPMock(t)

	var gotQuery map[string][]string
	httpmock.RegisterResponder(http.MethodGet, openWeatherURL,
		func(req *http.Request) (*http.Response, error) {
			gotQuery = req.URL.Query()
			return httpmock.NewStringResponse(http.StatusOK, openWeatherParis), nil
		})

	p := NewOpenWeatherProvider(Options{Client: client, APIKey: "test-key"})
	snap, err := p.FetchByCity(context.Background(), "  New   York ")
	require.NoError(t, err)

	assert.Equal(t, []string{"New York"}, gotQuery["q"])
	assert.Equal(t, []string{"metric"}, gotQuery["units"])
	assert.Equal(t, []string{"test-key"}, gotQuery["appid"])

	assert.Equal(t, "Paris", snap.City)
	assert.Equal(t, "FR", snap.Country)
	assert.Equal(t, 15.0, snap.Temperature)
	assert.Equal(t, 13.0, snap.FeelsLike)
	assert.Equal(t, weather.ConditionRain, snap.Condition)
	assert.Equal(t, "light rain", snap.Description)
	assert.Equal(t, 81.0, snap.Humidity)
	assert.Equal(t, 4.6, snap.WindSpeed)
	assert.Equal(t, 10.0, snap.Visibility)
	assert.Equal(t, 1012.0, snap.Pressure)
	require.NotNil(t, snap.Coordinates)
	assert.InDelta(t, 48.8534, snap.Coordinates.Lat, 1e-6)
	assert.Equal(t, "openweathermap", snap.Provider)
}

func TestOpenWeatherProvider_FetchByCoordinates(t *testing.T) {
	client := setupHTTPMock(t)

	var gotQuery map[string][]string
	httpmock.RegisterResponder(http.MethodGet, openWeatherURL,
		func(req *http.Request) (*http.Response, error) {
			gotQuery = req.URL.Query()
			return httpmock.NewStringResponse(http.StatusOK, openWeatherParis), nil
		})

	p := NewOpenWeatherProvider(Options{Client: client, APIKey: "test-key"})
	_, err := p.FetchByCoordinates(context.Background(), 48.8534, 2.3488)
	require.NoError(t, err)

	assert.Equal(t, []string{"48.8534"}, gotQuery["lat"])
	assert.Equal(t, []string{"2.3488"}, gotQuery["lon"])
	assert.Empty(t, gotQuery["q"])
}

func TestOpenWeatherProvider_NoAPIKey(t *testing.T) {
	client := setupHTTPMock(t)

	p := NewOpenWeatherProvider(Options{Client: client})
	_, err := p.FetchByCity(context.Background(), "Paris")

	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrUnavailable)
	assert.Contains(t, err.Error(), "api key is not configured")
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestOpenWeatherProvider_HTTPError(t *testing.T) {
	client := setupHTTPMock(t)

	tests := []struct {
		name       string
		statusCode int
	}{
		{"unauthorized", http.StatusUnauthorized},
		{"not_found", http.StatusNotFound},
		{"too_many_requests", http.StatusTooManyRequests},
		{"internal_server_error", http.StatusInternalServerError},
		{"service_unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder(http.MethodGet, openWeatherURL,
				httpmock.NewStringResponder(tt.statusCode, `{"cod": "401", "message": "Invalid API key"}`))

			p := NewOpenWeatherProvider(Options{Client: client, APIKey: "test-key"})
			_, err := p.FetchByCity(context.Background(), "Paris")

			require.Error(t, err)
			assert.ErrorIs(t, err, weather.ErrUnavailable)
			assert.Equal(t, 1, httpmock.GetTotalCallCount(), "failures are not retried by default")
		})
	}
}

func TestOpenWeatherProvider_MalformedBody(t *testing.T) {
	client := setupHTTPMock(t)
	httpmock.RegisterResponder(http.MethodGet, openWeatherURL,
		httpmock.NewStringResponder(http.StatusOK, `{"main": `))

	p := NewOpenWeatherProvider(Options{Client: client, APIKey: "test-key"})
	_, err := p.FetchByCity(context.Background(), "Paris")

	require.Error(t, err)
	assert.ErrorIs(t, err, weather.ErrUnavailable)
}

func TestOpenWeatherProvider_RetriesWhenConfigured(t *testing.T) {
	client := setupHTTPMock(t)

	calls := 0
	httpmock.RegisterResponder(http.MethodGet, openWeatherURL,
		func(req *http.Request) (*http.Response, error) {
			calls++
			if calls == 1 {
				return httpmock.NewStringResponse(http.StatusServiceUnavailable, ""), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, openWeatherParis), nil
		})

	p := NewOpenWeatherProvider(Options{Client: client, APIKey: "test-key", MaxRetries: 1})
	snap, err := p.FetchByCity(context.Background(), "Paris")

	require.NoError(t, err)
	assert.Equal(t, "Paris", snap.City)
	assert.Equal(t, 2, calls)
}

func TestWeatherAPIProvider_FetchByCoordinates(t *testing.T) {
	client := setupHTTPMock(t)

	var gotQuery map[string][]string
	httpmock.RegisterResponder(http.MethodGet, weatherAPIURL,
		func(req *http.Request) (*http.Response, error) {
			gotQuery = req.URL.Query()
			return httpmock.NewStringResponse(http.StatusOK, weatherAPIOslo), nil
		})

	p := NewWeatherAPIProvider(Options{Client: client, APIKey: "wa-key"})
	snap, err := p.FetchByCoordinates(context.Background(), 59.91, 10.75)
	require.NoError(t, err)

	assert.Equal(t, []string{"59.910000,10.750000"}, gotQuery["q"])
	assert.Equal(t, "Oslo", snap.City)
	assert.Equal(t, -3.0, snap.Temperature)
	assert.Equal(t, -7.0, snap.FeelsLike)
	assert.Equal(t, weather.ConditionSnow, snap.Condition)
	assert.Equal(t, 5.6, snap.WindSpeed)
	assert.Equal(t, 5.0, snap.Visibility)
	assert.Equal(t, "weatherapi", snap.Provider)
}

func TestMapWeatherAPICondition(t *testing.T) {
	tests := map[string]weather.Condition{
		"":                           weather.ConditionUnknown,
		"Sunny":                      weather.ConditionClear,
		"Partly cloudy":              weather.ConditionClouds,
		"Overcast":                   weather.ConditionClouds,
		"Patchy light drizzle":       weather.ConditionDrizzle,
		"Moderate rain":              weather.ConditionRain,
		"Light rain shower":          weather.ConditionRain,
		"Heavy snow":                 weather.ConditionSnow,
		"Light snow showers":         weather.ConditionSnow,
		"Fog":                        weather.ConditionMist,
		"Moderate rain with thunder": weather.ConditionThunderstorm,
		"Something new from the API": weather.ConditionUnknown,
	}
	for text, want := range tests {
		assert.Equal(t, want, mapWeatherAPICondition(text), text)
	}
}
