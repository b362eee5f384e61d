package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

type createReadingRequest struct {
	StorageUnitID   uuid.UUID  `json:"storage_unit_id"`
	Temperature     *float64   `json:"temperature"`
	TemperatureUnit string     `json:"temperature_unit"`
	RecordedAt      *time.Time `json:"recorded_at"`
	SensorID        *string    `json:"sensor_id"`
	QualityScore    *float64   `json:"quality_score"`
	EquipmentStatus string     `json:"equipment_status"`
}

func (h *handler) listReadings(c *fiber.Ctx) error {
	q, err := readingQuery(c, h.Clock.Now())
	if err != nil {
		return fail(c, err)
	}
	items, err := h.Services.Readings.Query(c.UserContext(), principal(c), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"readings": items,
		"count":    len(items),
		"limit":    q.Limit(),
		"offset":   q.Offset(),
	})
}

func (h *handler) listFailures(c *fiber.Ctx) error {
	customerID, err := queryUUID(c, "customer_id")
	if err != nil {
		return fail(c, err)
	}
	hours, err := queryInt(c, "hours")
	if err != nil {
		return fail(c, err)
	}
	items, err := h.Services.Readings.Failures(c.UserContext(), principal(c), customerID, hours)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"failures": items, "count": len(items)})
}

func (h *handler) readingStats(c *fiber.Ctx) error {
	customerID, err := queryUUID(c, "customer_id")
	if err != nil {
		return fail(c, err)
	}
	hours, err := queryInt(c, "hours")
	if err != nil {
		return fail(c, err)
	}
	st, err := h.Services.Readings.Statistics(c.UserContext(), principal(c), customerID, hours)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(st)
}

func (h *handler) exportReadings(c *fiber.Ctx) error {
	q, err := readingQuery(c, h.Clock.Now())
	if err != nil {
		return fail(c, err)
	}
	res, err := h.Services.Exports.Export(c.UserContext(), principal(c), q)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *handler) createReading(c *fiber.Ctx) error {
	var req createReadingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.StorageUnitID == uuid.Nil {
		return fail(c, domain.NewValidationError("storage_unit_id", "storage unit id is required"))
	}

	params := domain.ReadingParams{
		Temperature:     req.Temperature,
		TemperatureUnit: req.TemperatureUnit,
		SensorID:        req.SensorID,
		QualityScore:    req.QualityScore,
		EquipmentStatus: req.EquipmentStatus,
	}
	if req.RecordedAt != nil {
		params.RecordedAt = *req.RecordedAt
	}
	r, err := h.Services.Readings.Create(c.UserContext(), principal(c), req.StorageUnitID, params)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(r)
}

func (h *handler) latestReadings(c *fiber.Ctx) error {
	customerID, err := queryUUID(c, "customer_id")
	if err != nil {
		return fail(c, err)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return fail(c, err)
	}
	items, err := h.Services.Readings.Latest(c.UserContext(), principal(c), customerID, limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"readings": items, "count": len(items)})
}

func (h *handler) unitLatest(c *fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	r, err := h.Services.Readings.UnitLatest(c.UserContext(), principal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(r)
}
