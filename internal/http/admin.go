package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
)

type issueTokenRequest struct {
	CustomerID   uuid.UUID `json:"customer_id"`
	Permissions  []string  `json:"permissions"`
	ExpiresHours *int      `json:"expires_hours"`
}

type analyticsRequest struct {
	Date       string     `json:"date"`
	FacilityID *uuid.UUID `json:"facility_id"`
}

func (h *handler) issueToken(c *fiber.Ctx) error {
	var req issueTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.CustomerID == uuid.Nil {
		return fail(c, domain.NewValidationError("customer_id", "customer id is required"))
	}

	hours := query.DefaultExpiresHours
	if req.ExpiresHours != nil {
		hours = *req.ExpiresHours
	}
	tr, err := query.NewTokenRequest(req.CustomerID, req.Permissions, hours)
	if err != nil {
		return fail(c, err)
	}
	tok, err := h.Services.Tokens.Issue(c.UserContext(), principal(c), tr)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":       tok.Token,
		"expires_at":  tok.ExpiresAt,
		"customer_id": tr.CustomerID(),
		"permissions": tr.Permissions(),
	})
}

// triggerAnalytics queues the daily job; date defaults to yesterday (UTC).
func (h *handler) triggerAnalytics(c *fiber.Ctx) error {
	var req analyticsRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	date := h.Clock.Now().UTC().AddDate(0, 0, -1)
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return fail(c, domain.NewValidationError("date", "must be YYYY-MM-DD"))
		}
		date = d
	}

	if err := h.Services.Analytics.TriggerDaily(c.UserContext(), principal(c), date, req.FacilityID); err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "queued", "date": date.Format("2006-01-02")})
}
