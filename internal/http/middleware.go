package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
)

const principalKey = "principal"

// authenticate verifies the bearer token, applies the per-customer rate
// limit and stores the caller in c.Locals.
func (h *handler) authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		h.Metrics.AccessDenied.WithLabelValues("token").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
	}

	p, err := h.Verifier.Verify(token)
	if err != nil {
		h.Metrics.AccessDenied.WithLabelValues("token").Inc()
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
	}

	if h.Limiter != nil {
		if err := h.Limiter.Allow(c.UserContext(), p.CustomerID); err != nil {
			h.Metrics.AccessDenied.WithLabelValues("rate_limit").Inc()
			return fail(c, err)
		}
	}

	c.Locals(principalKey, p)
	return c.Next()
}

func principal(c *fiber.Ctx) auth.Principal {
	p, _ := c.Locals(principalKey).(auth.Principal)
	return p
}
