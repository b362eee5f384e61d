package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/service"
)

func statusFor(err error) int {
	var derr *domain.Error
	switch {
	case errors.As(err, &derr):
		switch derr.Kind {
		case domain.KindValidation, domain.KindUnsupportedUnit:
			return fiber.StatusBadRequest
		case domain.KindPermissionDenied:
			return fiber.StatusForbidden
		case domain.KindNotFound:
			return fiber.StatusNotFound
		case domain.KindConflict:
			return fiber.StatusConflict
		case domain.KindRateLimited:
			return fiber.StatusTooManyRequests
		}
	case errors.Is(err, service.ErrCloudDisabled):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// fail writes err as {"error": ...}. Internal errors are logged and hidden.
func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	body := fiber.Map{"error": err.Error()}
	var derr *domain.Error
	if errors.As(err, &derr) {
		if derr.Field != "" {
			body["field"] = derr.Field
		}
		if derr.Permission != "" {
			body["required_permission"] = derr.Permission
		}
	}
	return c.Status(status).JSON(body)
}
