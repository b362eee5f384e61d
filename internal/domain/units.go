package domain

// TemperatureUnit is one of C, F or K.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
	Kelvin     TemperatureUnit = "K"
)

func (u TemperatureUnit) Valid() bool {
	switch u {
	case Celsius, Fahrenheit, Kelvin:
		return true
	}
	return false
}

// ParseTemperatureUnit returns a validation error for anything outside C, F, K.
func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	u := TemperatureUnit(s)
	if !u.Valid() {
		return "", NewValidationError("temperature_unit", "invalid temperature unit %q", s)
	}
	return u, nil
}

// SizeUnit is the area unit of a storage unit.
type SizeUnit string

const (
	SquareMeters  SizeUnit = "sqm"
	SquareFeet    SizeUnit = "sqft"
	MetersSquared SizeUnit = "m2"
	FeetSquared   SizeUnit = "ft2"
)

const sqmPerSquareFoot = 0.092903

func (u SizeUnit) Valid() bool {
	switch u {
	case SquareMeters, SquareFeet, MetersSquared, FeetSquared:
		return true
	}
	return false
}

func ParseSizeUnit(s string) (SizeUnit, error) {
	u := SizeUnit(s)
	if !u.Valid() {
		return "", NewValidationError("size_unit", "invalid size unit %q", s)
	}
	return u, nil
}

// EquipmentStatus is the state a sensor reports alongside a reading.
type EquipmentStatus string

const (
	StatusNormal      EquipmentStatus = "normal"
	StatusFailure     EquipmentStatus = "failure"
	StatusMaintenance EquipmentStatus = "maintenance"
	StatusWarning     EquipmentStatus = "warning"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case StatusNormal, StatusFailure, StatusMaintenance, StatusWarning:
		return true
	}
	return false
}

func ParseEquipmentStatus(s string) (EquipmentStatus, error) {
	st := EquipmentStatus(s)
	if !st.Valid() {
		return "", NewValidationError("equipment_status", "invalid equipment status %q", s)
	}
	return st, nil
}

// Permission is a flat capability carried by an access token.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionAdmin Permission = "admin"
)

func (p Permission) Valid() bool {
	switch p {
	case PermissionRead, PermissionWrite, PermissionAdmin:
		return true
	}
	return false
}

func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	if !p.Valid() {
		return "", NewValidationError("permissions", "unknown permission %q", s)
	}
	return p, nil
}
