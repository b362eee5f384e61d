package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

type createFacilityRequest struct {
	CustomerID   *uuid.UUID `json:"customer_id"`
	FacilityCode string     `json:"facility_code"`
	Name         *string    `json:"name"`
	City         *string    `json:"city"`
	Country      *string    `json:"country"`
	Latitude     *float64   `json:"latitude"`
	Longitude    *float64   `json:"longitude"`
}

type createUnitRequest struct {
	UnitCode        string   `json:"unit_code"`
	Name            *string  `json:"name"`
	SizeValue       float64  `json:"size_value"`
	SizeUnit        string   `json:"size_unit"`
	SetTemperature  *float64 `json:"set_temperature"`
	TemperatureUnit string   `json:"temperature_unit"`
	EquipmentType   string   `json:"equipment_type"`
}

type updateFacilityRequest struct {
	FacilityCode *string  `json:"facility_code"`
	Name         *string  `json:"name"`
	City         *string  `json:"city"`
	Country      *string  `json:"country"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type updateUnitRequest struct {
	UnitCode        *string  `json:"unit_code"`
	Name            *string  `json:"name"`
	SizeValue       *float64 `json:"size_value"`
	SizeUnit        *string  `json:"size_unit"`
	SetTemperature  *float64 `json:"set_temperature"`
	TemperatureUnit *string  `json:"temperature_unit"`
	EquipmentType   *string  `json:"equipment_type"`
}

func (h *handler) listFacilities(c *fiber.Ctx) error {
	customerID, err := queryUUID(c, "customer_id")
	if err != nil {
		return fail(c, err)
	}
	items, err := h.Services.Facilities.List(c.UserContext(), principal(c), customerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(items)
}

func (h *handler) getFacility(c *fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	f, err := h.Services.Facilities.Get(c.UserContext(), principal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"facility": f,
		"location": domain.LocationString(f),
	})
}

func (h *handler) createFacility(c *fiber.Ctx) error {
	var req createFacilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	p := principal(c)
	customerID := p.CustomerID
	if req.CustomerID != nil {
		customerID = *req.CustomerID
	}
	f, err := h.Services.Facilities.Create(c.UserContext(), p, domain.FacilityParams{
		CustomerID:   customerID,
		FacilityCode: req.FacilityCode,
		Name:         req.Name,
		City:         req.City,
		Country:      req.Country,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

func (h *handler) updateFacility(c *fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateFacilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	f, err := h.Services.Facilities.Update(c.UserContext(), principal(c), id, domain.FacilityUpdate{
		FacilityCode: req.FacilityCode,
		Name:         req.Name,
		City:         req.City,
		Country:      req.Country,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(f)
}

type unitView struct {
	domain.StorageUnit
	DisplayName string `json:"display_name"`
	Size        string `json:"size"`
	Target      string `json:"target"`
}

func (h *handler) listUnits(c *fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	units, err := h.Services.Facilities.Units(c.UserContext(), principal(c), id)
	if err != nil {
		return fail(c, err)
	}

	out := make([]unitView, 0, len(units))
	for _, u := range units {
		out = append(out, unitView{
			StorageUnit: u,
			DisplayName: domain.UnitDisplayName(u),
			Size:        domain.SizeDisplay(u),
			Target:      domain.TargetTemperatureDisplay(u),
		})
	}
	return c.JSON(out)
}

func (h *handler) createUnit(c *fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req createUnitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	u, err := h.Services.Facilities.CreateUnit(c.UserContext(), principal(c), id, domain.StorageUnitParams{
		UnitCode:        req.UnitCode,
		Name:            req.Name,
		SizeValue:       req.SizeValue,
		SizeUnit:        req.SizeUnit,
		SetTemperature:  req.SetTemperature,
		TemperatureUnit: req.TemperatureUnit,
		EquipmentType:   req.EquipmentType,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *handler) updateUnit(c *fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateUnitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	u, err := h.Services.Facilities.UpdateUnit(c.UserContext(), principal(c), id, domain.StorageUnitUpdate{
		UnitCode:        req.UnitCode,
		Name:            req.Name,
		SizeValue:       req.SizeValue,
		SizeUnit:        req.SizeUnit,
		SetTemperature:  req.SetTemperature,
		TemperatureUnit: req.TemperatureUnit,
		EquipmentType:   req.EquipmentType,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(u)
}

func (h *handler) predictMaintenance(c *fiber.Ctx) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	pred, err := h.Services.Maintenance.Predict(c.UserContext(), principal(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(pred)
}
