package httpapi

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/weather"
)

func (h *handlers) user(c *fiber.Ctx) error {
	u, err := h.Records.User(c.UserContext())
	if err != nil {
		return err
	}
	if u == nil {
		return fiber.NewError(fiber.StatusNotFound, "no user signed in")
	}
	return c.JSON(u)
}

type loginRequest struct {
	ID          string `json:"id"`
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Preferences struct {
		TemperatureUnit string `json:"temperatureUnit" validate:"omitempty,oneof=celsius fahrenheit"`
		Theme           string `json:"theme" validate:"omitempty,oneof=auto light dark"`
		Notifications   *bool  `json:"notifications"`
	} `json:"preferences"`
}

// login stores the profile, filling in the default preferences.
func (h *handlers) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	u := records.User{
		ID:       req.ID,
		Username: req.Username,
		Email:    req.Email,
		Preferences: records.Preferences{
			TemperatureUnit: req.Preferences.TemperatureUnit,
			Theme:           req.Preferences.Theme,
			Notifications:   true,
		},
		LoginTime: time.Now().UTC(),
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Preferences.TemperatureUnit == "" {
		u.Preferences.TemperatureUnit = "celsius"
	}
	if u.Preferences.Theme == "" {
		u.Preferences.Theme = "auto"
	}
	if req.Preferences.Notifications != nil {
		u.Preferences.Notifications = *req.Preferences.Notifications
	}

	if err := h.Records.SaveUser(c.UserContext(), u); err != nil {
		return err
	}
	return c.JSON(u)
}

func (h *handlers) logout(c *fiber.Ctx) error {
	if err := h.Records.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) favorites(c *fiber.Ctx) error {
	favorites, err := h.Records.Favorites(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(favorites)
}

type favoriteRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	City          string `json:"city" validate:"required"`
	CustomName    string `json:"customName"`
	Notifications struct {
		TemperatureAlerts *bool    `json:"temperatureAlerts"`
		ConditionAlerts   *bool    `json:"conditionAlerts"`
		Threshold         *float64 `json:"threshold"`
	} `json:"notifications"`
}

// Threshold of a new favorite unless the request sets one.
const defaultFavoriteThreshold = 25.0

// saveFavorite looks the city up and upserts a favorite under the provider's
// canonical city and country, so differently typed names share one entry.
func (h *handlers) saveFavorite(c *fiber.Ctx) error {
	var req favoriteRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	snap, err := h.Weather.Current(c.UserContext(), weather.ByCity(req.City))
	if errors.Is(err, weather.ErrUnavailable) {
		log.Warn().Err(err).Str("city", req.City).Msg("api: favorite lookup failed")
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("could not find weather data for %q, check the city name", req.City))
	}
	if err != nil {
		return err
	}

	f := records.Favorite{
		ID:         req.ID,
		Name:       req.Name,
		City:       snap.City,
		Country:    snap.Country,
		CustomName: req.CustomName,
		Notifications: records.FavoriteAlerts{
			TemperatureAlerts: true,
			ConditionAlerts:   true,
			Threshold:         defaultFavoriteThreshold,
		},
		AddedDate: time.Now().UTC(),
	}
	if snap.Coordinates != nil {
		f.Coordinates = *snap.Coordinates
	}
	if v := req.Notifications.TemperatureAlerts; v != nil {
		f.Notifications.TemperatureAlerts = *v
	}
	if v := req.Notifications.ConditionAlerts; v != nil {
		f.Notifications.ConditionAlerts = *v
	}
	if v := req.Notifications.Threshold; v != nil {
		f.Notifications.Threshold = *v
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.Name == "" {
		f.Name = weather.NormalizeCity(req.City)
	}

	if err := h.Records.SaveFavorite(c.UserContext(), f); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

func (h *handlers) removeFavorite(c *fiber.Ctx) error {
	if err := h.Records.RemoveFavorite(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) events(c *fiber.Ctx) error {
	events, err := h.Records.Events(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(events)
}

type eventRequest struct {
	ID             string               `json:"id"`
	Title          string               `json:"title" validate:"required"`
	Date           string               `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string               `json:"time" validate:"omitempty,datetime=15:04"`
	Location       string               `json:"location"`
	Coordinates    *records.Coordinates `json:"coordinates"`
	Notes          string               `json:"notes"`
	AttachForecast *bool                `json:"attachForecast"`
}

// saveEvent upserts a calendar event. The current weather at the event
// location is stored alongside it when available, unless attachForecast
// is false.
func (h *handlers) saveEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	e := records.Event{
		ID:          req.ID,
		Title:       req.Title,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Coordinates: req.Coordinates,
		Notes:       req.Notes,
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	attach := e.Location != "" || e.Coordinates != nil
	if req.AttachForecast != nil {
		attach = attach && *req.AttachForecast
	}
	if attach {
		var q weather.Query
		if e.Coordinates != nil {
			q = weather.ByCoordinates(e.Coordinates.Lat, e.Coordinates.Lon)
		} else {
			q = weather.ByCity(e.Location)
		}
		snap, err := h.Weather.Current(c.UserContext(), q)
		if err != nil {
			log.Warn().Err(err).Str("event", e.ID).Msg("api: saving event without forecast")
		} else {
			e.WeatherForecast = snap.Forecast()
		}
	}

	if err := h.Records.SaveEvent(c.UserContext(), e); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (h *handlers) removeEvent(c *fiber.Ctx) error {
	if err := h.Records.RemoveEvent(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) notificationPreferences(c *fiber.Ctx) error {
	p, err := h.Records.NotificationPreferences(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(p)
}

type preferencesRequest struct {
	TemperatureAlerts      bool `json:"temperatureAlerts"`
	ConditionAlerts        bool `json:"conditionAlerts"`
	FavoriteLocationAlerts bool `json:"favoriteLocationAlerts"`
	Thresholds             struct {
		HighTemp   float64  `json:"highTemp" validate:"gtefield=LowTemp"`
		LowTemp    float64  `json:"lowTemp"`
		Conditions []string `json:"conditions" validate:"dive,required"`
	} `json:"thresholds"`
}

func (h *handlers) saveNotificationPreferences(c *fiber.Ctx) error {
	var req preferencesRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p := records.NotificationPreferences{
		TemperatureAlerts:      req.TemperatureAlerts,
		ConditionAlerts:        req.ConditionAlerts,
		FavoriteLocationAlerts: req.FavoriteLocationAlerts,
		Thresholds: records.Thresholds{
			HighTemp:   req.Thresholds.HighTemp,
			LowTemp:    req.Thresholds.LowTemp,
			Conditions: req.Thresholds.Conditions,
		},
	}
	if p.Thresholds.Conditions == nil {
		p.Thresholds.Conditions = []string{}
	}

	if err := h.Records.SaveNotificationPreferences(c.UserContext(), p); err != nil {
		return err
	}
	return c.JSON(p)
}
