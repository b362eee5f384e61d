package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Defaults for fields a new storage unit may omit.
const (
	DefaultEquipmentType  = "freezer"
	DefaultSetTemperature = -18.0
	DefaultSizeUnit       = SquareMeters
)

// StorageUnit is a temperature-controlled space inside a facility.
type StorageUnit struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	FacilityID      uuid.UUID       `db:"facility_id" json:"facility_id"`
	UnitCode        string          `db:"unit_code" json:"unit_code"`
	Name            *string         `db:"name" json:"name,omitempty"`
	SizeValue       float64         `db:"size_value" json:"size_value"`
	SizeUnit        SizeUnit        `db:"size_unit" json:"size_unit"`
	SetTemperature  float64         `db:"set_temperature" json:"set_temperature"`
	TemperatureUnit TemperatureUnit `db:"temperature_unit" json:"temperature_unit"`
	EquipmentType   string          `db:"equipment_type" json:"equipment_type"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// StorageUnitParams are the caller-supplied fields of a new storage unit.
// Units arrive as raw strings and are checked against their enumerations;
// empty units default to sqm and C, a nil SetTemperature to -18.
type StorageUnitParams struct {
	FacilityID      uuid.UUID
	UnitCode        string
	Name            *string
	SizeValue       float64
	SizeUnit        string
	SetTemperature  *float64
	TemperatureUnit string
	EquipmentType   string
}

func NewStorageUnit(p StorageUnitParams) (StorageUnit, error) {
	if p.FacilityID == uuid.Nil {
		return StorageUnit{}, NewValidationError("facility_id", "facility id is required")
	}
	if !ValidateUnitCode(p.UnitCode) {
		return StorageUnit{}, NewValidationError("unit_code", "invalid unit code %q", p.UnitCode)
	}
	if p.SizeValue < 0 || math.IsNaN(p.SizeValue) {
		return StorageUnit{}, NewValidationError("size_value", "must be non-negative, got %g", p.SizeValue)
	}
	sizeUnit := DefaultSizeUnit
	if p.SizeUnit != "" {
		var err error
		if sizeUnit, err = ParseSizeUnit(p.SizeUnit); err != nil {
			return StorageUnit{}, err
		}
	}
	tempUnit := Celsius
	if p.TemperatureUnit != "" {
		var err error
		if tempUnit, err = ParseTemperatureUnit(p.TemperatureUnit); err != nil {
			return StorageUnit{}, err
		}
	}
	setTemp := DefaultSetTemperature
	if p.SetTemperature != nil {
		setTemp = *p.SetTemperature
	}
	if math.IsNaN(setTemp) || math.IsInf(setTemp, 0) {
		return StorageUnit{}, NewValidationError("set_temperature", "must be a finite number")
	}
	equipment := p.EquipmentType
	if equipment == "" {
		equipment = DefaultEquipmentType
	}
	return StorageUnit{
		ID:              uuid.New(),
		FacilityID:      p.FacilityID,
		UnitCode:        p.UnitCode,
		Name:            p.Name,
		SizeValue:       p.SizeValue,
		SizeUnit:        sizeUnit,
		SetTemperature:  setTemp,
		TemperatureUnit: tempUnit,
		EquipmentType:   equipment,
		CreatedAt:       clock.Now().UTC(),
	}, nil
}

// SizeInSqm converts the unit's floor area to square meters.
func (u StorageUnit) SizeInSqm() (float64, error) {
	return ConvertSizeToSqm(u.SizeValue, u.SizeUnit)
}

// TargetCelsius converts the set temperature to Celsius.
func (u StorageUnit) TargetCelsius() (float64, error) {
	return ToCelsius(u.SetTemperature, u.TemperatureUnit)
}

// StorageUnitUpdate names the fields to override; nil fields keep their value.
type StorageUnitUpdate struct {
	UnitCode        *string
	Name            *string
	SizeValue       *float64
	SizeUnit        *string
	SetTemperature  *float64
	TemperatureUnit *string
	EquipmentType   *string
}

// Updated builds a new storage unit from u with the update applied and
// revalidated. Identity, facility and creation time carry over.
func (u StorageUnit) Updated(up StorageUnitUpdate) (StorageUnit, error) {
	setTemp := u.SetTemperature
	p := StorageUnitParams{
		FacilityID:      u.FacilityID,
		UnitCode:        u.UnitCode,
		Name:            override(u.Name, up.Name),
		SizeValue:       u.SizeValue,
		SizeUnit:        string(u.SizeUnit),
		SetTemperature:  override(&setTemp, up.SetTemperature),
		TemperatureUnit: string(u.TemperatureUnit),
		EquipmentType:   u.EquipmentType,
	}
	if up.UnitCode != nil {
		p.UnitCode = *up.UnitCode
	}
	if up.SizeValue != nil {
		p.SizeValue = *up.SizeValue
	}
	if up.SizeUnit != nil {
		p.SizeUnit = *up.SizeUnit
	}
	if up.TemperatureUnit != nil {
		p.TemperatureUnit = *up.TemperatureUnit
	}
	if up.EquipmentType != nil {
		p.EquipmentType = *up.EquipmentType
	}
	next, err := NewStorageUnit(p)
	if err != nil {
		return StorageUnit{}, err
	}
	next.ID, next.CreatedAt = u.ID, u.CreatedAt
	return next, nil
}
