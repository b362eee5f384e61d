package http

import (
	"github.com/gofiber/fiber/v2"
)

func (h *handler) customerProfile(c *fiber.Ctx) error {
	cust, err := h.Services.Customers.Profile(c.UserContext(), principal(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(cust)
}

func (h *handler) listCustomers(c *fiber.Ctx) error {
	items, err := h.Services.Customers.List(c.UserContext(), principal(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"customers": items, "count": len(items)})
}

type createCustomerRequest struct {
	CustomerCode string `json:"customer_code"`
	Name         string `json:"name"`
}

func (h *handler) createCustomer(c *fiber.Ctx) error {
	var req createCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	cust, err := h.Services.Customers.Create(c.UserContext(), principal(c), req.CustomerCode, req.Name)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cust)
}
