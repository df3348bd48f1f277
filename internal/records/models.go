package records

import "time"

// Mood is the self-reported mood attached to an observation.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodNeutral   Mood = "neutral"
	MoodSad       Mood = "sad"
	MoodEnergetic Mood = "energetic"
	MoodCalm      Mood = "calm"
)

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad, MoodEnergetic, MoodCalm:
		return true
	}
	return false
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Preferences are the display settings of a user.
type Preferences struct {
	TemperatureUnit string `json:"temperatureUnit"` // celsius or fahrenheit
	Theme           string `json:"theme"`           // auto, light or dark
	Notifications   bool   `json:"notifications"`
}

// User is the single signed-in profile.
type User struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Preferences Preferences `json:"preferences"`
	LoginTime   time.Time   `json:"loginTime"`
}

// Observation is one recorded weather lookup, optionally annotated with
// mood and productivity. An empty Mood or a zero Productivity means absent.
type Observation struct {
	ID           string      `json:"id"`
	Date         time.Time   `json:"date"`
	City         string      `json:"city"`
	Country      string      `json:"country"`
	Temperature  float64     `json:"temperature"`
	Condition    string      `json:"condition"`
	Description  string      `json:"description"`
	Mood         Mood        `json:"mood,omitempty"`
	Productivity int         `json:"productivity,omitempty"`
	Coordinates  Coordinates `json:"coordinates"`
}

// FavoriteAlerts are the per-favorite notification switches.
type FavoriteAlerts struct {
	TemperatureAlerts bool    `json:"temperatureAlerts"`
	ConditionAlerts   bool    `json:"conditionAlerts"`
	Threshold         float64 `json:"threshold"`
}

// Favorite is a saved location, unique by (City, Country).
type Favorite struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	City          string         `json:"city"`
	Country       string         `json:"country"`
	CustomName    string         `json:"customName,omitempty"`
	Coordinates   Coordinates    `json:"coordinates"`
	Notifications FavoriteAlerts `json:"notifications"`
	AddedDate     time.Time      `json:"addedDate"`
}

// ForecastSnapshot is the weather captured when a calendar event was saved.
type ForecastSnapshot struct {
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Description string  `json:"description"`
}

// Event is a calendar entry, unique by ID.
type Event struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	Location        string            `json:"location"`
	Coordinates     *Coordinates      `json:"coordinates,omitempty"`
	WeatherForecast *ForecastSnapshot `json:"weatherForecast,omitempty"`
	Notes           string            `json:"notes,omitempty"`
}

// Thresholds bound the global temperature and condition alerts.
type Thresholds struct {
	HighTemp   float64  `json:"highTemp"`
	LowTemp    float64  `json:"lowTemp"`
	Conditions []string `json:"conditions"`
}

// NotificationPreferences are the global alert settings.
type NotificationPreferences struct {
	TemperatureAlerts      bool       `json:"temperatureAlerts"`
	ConditionAlerts        bool       `json:"conditionAlerts"`
	FavoriteLocationAlerts bool       `json:"favoriteLocationAlerts"`
	Thresholds             Thresholds `json:"thresholds"`
}

// DefaultNotificationPreferences is returned when no preferences are stored.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		TemperatureAlerts:      true,
		ConditionAlerts:        true,
		FavoriteLocationAlerts: true,
		Thresholds: Thresholds{
			HighTemp:   30,
			LowTemp:    5,
			Conditions: []string{"rain", "snow", "storm"},
		},
	}
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type MoodPattern struct {
	Weather string `json:"weather"`
	Mood    Mood   `json:"mood"`
	Count   int    `json:"count"`
}

// ProductivityStat holds the running mean of productivity under one condition.
type ProductivityStat struct {
	Weather      string  `json:"weather"`
	Productivity float64 `json:"productivity"`
	Count        int     `json:"count"`
}

type WeatherCount struct {
	Weather string `json:"weather"`
	Count   int    `json:"count"`
}

// Analytics is derived from observations and never the source of truth.
// TotalSearches counts every observation ever saved, including evicted ones.
type Analytics struct {
	MostVisitedCities  []CityCount        `json:"mostVisitedCities"`
	AverageTemperature float64            `json:"averageTemperature"`
	MostCommonWeather  string             `json:"mostCommonWeather"`
	MoodPatterns       []MoodPattern      `json:"moodPatterns"`
	ProductivityData   []ProductivityStat `json:"productivityData"`
	WeatherCounts      []WeatherCount     `json:"weatherCounts"`
	TotalSearches      int                `json:"totalSearches"`
}
