package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer owns facilities and is the unit of data isolation.
type Customer struct {
	ID           uuid.UUID `db:"id" json:"id"`
	CustomerCode string    `db:"customer_code" json:"customer_code"`
	Name         string    `db:"name" json:"name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// NewCustomer builds an active customer. The code must be a single uppercase letter.
func NewCustomer(code, name string) (Customer, error) {
	if !ValidateCustomerCode(code) {
		return Customer{}, NewValidationError("customer_code", "invalid customer code %q", code)
	}
	return Customer{
		ID:           uuid.New(),
		CustomerCode: code,
		Name:         name,
		IsActive:     true,
		CreatedAt:    clock.Now().UTC(),
	}, nil
}
