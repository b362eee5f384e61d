package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/observability"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/service"
)

type TokenVerifier interface {
	Verify(token string) (auth.Principal, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, customerID uuid.UUID) error
}

// Deps are the collaborators of the HTTP API. Limiter and Ping may be nil.
type Deps struct {
	Services *service.Services
	Verifier TokenVerifier
	Limiter  RateLimiter
	Metrics  *observability.Metrics
	Clock    clockwork.Clock
	Ping     func(ctx context.Context) error
}

type handler struct {
	Deps
}

func Register(app *fiber.App, d Deps) {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	h := &handler{Deps: d}

	app.Get("/health", h.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api/v1", h.authenticate)

	api.Get("/readings", h.listReadings)
	api.Post("/readings", h.createReading)
	api.Get("/readings/latest", h.latestReadings)
	api.Get("/readings/failures", h.listFailures)
	api.Get("/readings/stats", h.readingStats)
	api.Post("/readings/export", h.exportReadings)

	api.Get("/customers/me", h.customerProfile)

	api.Get("/facilities", h.listFacilities)
	api.Post("/facilities", h.createFacility)
	api.Get("/facilities/:id", h.getFacility)
	api.Put("/facilities/:id", h.updateFacility)
	api.Get("/facilities/:id/units", h.listUnits)
	api.Post("/facilities/:id/units", h.createUnit)

	api.Put("/units/:id", h.updateUnit)
	api.Get("/units/:id/latest", h.unitLatest)
	api.Get("/units/:id/maintenance", h.predictMaintenance)

	api.Get("/admin/customers", h.listCustomers)
	api.Post("/admin/customers", h.createCustomer)
	api.Post("/admin/tokens", h.issueToken)
	api.Post("/admin/analytics", h.triggerAnalytics)
}

func (h *handler) health(c *fiber.Ctx) error {
	if h.Ping != nil {
		if err := h.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
