package httpapi

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/weather"
)

// locationQuery identifies a place by city name or by coordinates.
type locationQuery struct {
	City string   `validate:"required_without_all=Lat Lon"`
	Lat  *float64 `validate:"omitempty,latitude"`
	Lon  *float64 `validate:"omitempty,longitude"`
}

func (l locationQuery) toQuery() weather.Query {
	if l.Lat != nil && l.Lon != nil {
		return weather.ByCoordinates(*l.Lat, *l.Lon)
	}
	return weather.ByCity(l.City)
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery
	q.City = c.Query("city")

	var err error
	if q.Lat, err = parseFloat(c.Query("lat")); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "invalid lat")
	}
	if q.Lon, err = parseFloat(c.Query("lon")); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "invalid lon")
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func parseFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// currentWeather serves the cached or freshly fetched weather. City lookups
// are remembered as recent searches.
func (h *handlers) currentWeather(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}

	var snap weather.Snapshot
	if loc.Lat != nil && loc.Lon != nil {
		snap, err = h.Weather.Current(c.UserContext(), loc.toQuery())
	} else {
		snap, err = h.Weather.Search(c.UserContext(), loc.City)
	}
	if err != nil {
		return err
	}
	return c.JSON(snap)
}

func (h *handlers) recentSearches(c *fiber.Ctx) error {
	searches, err := h.Records.RecentSearches(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(searches)
}

type trackRequest struct {
	City         string   `json:"city" validate:"required_without_all=Lat Lon"`
	Lat          *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon          *float64 `json:"lon" validate:"omitempty,longitude"`
	Mood         string   `json:"mood" validate:"omitempty,oneof=happy neutral sad energetic calm"`
	Productivity int      `json:"productivity" validate:"omitempty,min=1,max=5"`
}

// trackObservation fetches the weather and records it with the optional
// mood and productivity annotations.
func (h *handlers) trackObservation(c *fiber.Ctx) error {
	var req trackRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	loc := locationQuery{City: req.City, Lat: req.Lat, Lon: req.Lon}
	obs, err := h.Weather.Track(c.UserContext(), loc.toQuery(), records.Mood(req.Mood), req.Productivity)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(obs)
}

func (h *handlers) observations(c *fiber.Ctx) error {
	history, err := h.Records.Observations(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(history)
}

func (h *handlers) analytics(c *fiber.Ctx) error {
	a, err := h.Records.Analytics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(a)
}

type travelQuery struct {
	From string `validate:"required"`
	To   string `validate:"required"`
}

func (h *handlers) travelPlan(c *fiber.Ctx) error {
	q := travelQuery{From: c.Query("from"), To: c.Query("to")}
	if err := validate.Struct(q); err != nil {
		return err
	}

	plan, err := h.Planner.Plan(c.UserContext(), q.From, q.To)
	if err != nil {
		return err
	}
	return c.JSON(plan)
}

type assistantRequest struct {
	Command string   `json:"command" validate:"required"`
	Lat     *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon     *float64 `json:"lon" validate:"omitempty,longitude"`
}

func (h *handlers) ask(c *fiber.Ctx) error {
	var req assistantRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	var here *records.Coordinates
	if req.Lat != nil && req.Lon != nil {
		here = &records.Coordinates{Lat: *req.Lat, Lon: *req.Lon}
	}
	return c.JSON(h.Assistant.Answer(c.UserContext(), req.Command, here))
}

// alerts returns the latest evaluation, or runs a new one with ?refresh=true.
func (h *handlers) alerts(c *fiber.Ctx) error {
	if !c.QueryBool("refresh") {
		return c.JSON(h.Alerts.Latest())
	}

	res, err := h.Alerts.Check(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(res)
}
