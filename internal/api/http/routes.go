package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/weatherverse/internal/alerts"
	"github.com/i474232898/weatherverse/internal/assistant"
	"github.com/i474232898/weatherverse/internal/records"
	"github.com/i474232898/weatherverse/internal/travel"
	"github.com/i474232898/weatherverse/internal/weather"
)

var validate = validator.New()

// Deps are the services behind the HTTP handlers.
type Deps struct {
	Records   *records.Records
	Weather   *weather.Service
	Planner   *travel.Planner
	Assistant *assistant.Assistant
	Alerts    *alerts.Monitor

	// Gatherer, when set, is served in the Prometheus text format on /metrics.
	Gatherer prometheus.Gatherer
}

type handlers struct {
	Deps
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	h := &handlers{Deps: d}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "weatherverse",
			"providers": d.Weather.Providers(),
		})
	})

	if d.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", h.currentWeather)
	v1.Get("/searches/recent", h.recentSearches)

	v1.Post("/observations", h.trackObservation)
	v1.Get("/observations", h.observations)
	v1.Get("/analytics", h.analytics)

	v1.Get("/user", h.user)
	v1.Put("/user", h.login)
	v1.Delete("/user", h.logout)

	v1.Get("/favorites", h.favorites)
	v1.Post("/favorites", h.saveFavorite)
	v1.Delete("/favorites/:id", h.removeFavorite)

	v1.Get("/calendar", h.events)
	v1.Post("/calendar", h.saveEvent)
	v1.Delete("/calendar/:id", h.removeEvent)

	v1.Get("/notifications/preferences", h.notificationPreferences)
	v1.Put("/notifications/preferences", h.saveNotificationPreferences)
	v1.Get("/alerts", h.alerts)

	v1.Get("/travel", h.travelPlan)
	v1.Post("/assistant", h.ask)
}

// ErrorHandler renders every handler error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var (
		fe  *fiber.Error
		ves validator.ValidationErrors
	)
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.As(err, &ves), errors.Is(err, weather.ErrInvalidQuery):
		code = fiber.StatusBadRequest
	case errors.Is(err, weather.ErrUnavailable):
		code = fiber.StatusBadGateway
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// bind parses the JSON body into v and validates it.
func bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return validate.Struct(v)
}
