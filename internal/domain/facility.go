package domain

import (
	"time"

	"github.com/google/uuid"
)

// Facility is a customer site housing storage units.
type Facility struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	CustomerID   uuid.UUID     `db:"customer_id" json:"customer_id"`
	FacilityCode string        `db:"facility_code" json:"facility_code"`
	Name         *string       `db:"name" json:"name,omitempty"`
	City         *string       `db:"city" json:"city,omitempty"`
	Country      *string       `db:"country" json:"country,omitempty"`
	Latitude     *float64      `db:"latitude" json:"latitude,omitempty"`
	Longitude    *float64      `db:"longitude" json:"longitude,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	StorageUnits []StorageUnit `db:"-" json:"storage_units,omitempty"`
}

// FacilityParams are the caller-supplied fields of a new facility.
type FacilityParams struct {
	CustomerID   uuid.UUID
	FacilityCode string
	Name         *string
	City         *string
	Country      *string
	Latitude     *float64
	Longitude    *float64
}

// NewFacility validates the facility code and coordinates and stamps identity
// and creation time.
func NewFacility(p FacilityParams) (Facility, error) {
	if p.CustomerID == uuid.Nil {
		return Facility{}, NewValidationError("customer_id", "customer id is required")
	}
	if !ValidateFacilityCode(p.FacilityCode) {
		return Facility{}, NewValidationError("facility_code", "invalid facility code %q", p.FacilityCode)
	}
	if p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90) {
		return Facility{}, NewValidationError("latitude", "must be within [-90, 90], got %g", *p.Latitude)
	}
	if p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180) {
		return Facility{}, NewValidationError("longitude", "must be within [-180, 180], got %g", *p.Longitude)
	}
	return Facility{
		ID:           uuid.New(),
		CustomerID:   p.CustomerID,
		FacilityCode: p.FacilityCode,
		Name:         p.Name,
		City:         p.City,
		Country:      p.Country,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		CreatedAt:    clock.Now().UTC(),
	}, nil
}

// WithStorageUnits returns a copy of f owning units, in order.
func (f Facility) WithStorageUnits(units []StorageUnit) Facility {
	f.StorageUnits = append([]StorageUnit(nil), units...)
	return f
}

// FacilityUpdate names the fields to override; nil fields keep their value.
type FacilityUpdate struct {
	FacilityCode *string
	Name         *string
	City         *string
	Country      *string
	Latitude     *float64
	Longitude    *float64
}

// Updated builds a new facility from f with u applied and revalidated.
// Identity, owner and creation time carry over; f itself is unchanged.
func (f Facility) Updated(u FacilityUpdate) (Facility, error) {
	p := FacilityParams{
		CustomerID:   f.CustomerID,
		FacilityCode: f.FacilityCode,
		Name:         override(f.Name, u.Name),
		City:         override(f.City, u.City),
		Country:      override(f.Country, u.Country),
		Latitude:     override(f.Latitude, u.Latitude),
		Longitude:    override(f.Longitude, u.Longitude),
	}
	if u.FacilityCode != nil {
		p.FacilityCode = *u.FacilityCode
	}
	next, err := NewFacility(p)
	if err != nil {
		return Facility{}, err
	}
	next.ID, next.CreatedAt = f.ID, f.CreatedAt
	return next, nil
}

func override[T any](cur, next *T) *T {
	if next != nil {
		return next
	}
	return cur
}
