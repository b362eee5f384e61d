package domain

import (
	"fmt"
	"strings"
)

// FailureDisplay is shown in place of a temperature for readings without one.
const FailureDisplay = "N/A (Equipment Failure)"

// LocationString joins the non-empty name, city and country with ", ".
func LocationString(f Facility) string {
	parts := make([]string, 0, 3)
	for _, p := range []*string{f.Name, f.City, f.Country} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}

// HasCoordinates reports whether both latitude and longitude are set.
func HasCoordinates(f Facility) bool {
	return f.Latitude != nil && f.Longitude != nil
}

// UnitDisplayName falls back to "Unit <code>" for unnamed units.
func UnitDisplayName(u StorageUnit) string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return "Unit " + u.UnitCode
}

func SizeDisplay(u StorageUnit) string {
	return fmt.Sprintf("%.1f %s", u.SizeValue, u.SizeUnit)
}

func TargetTemperatureDisplay(u StorageUnit) string {
	return formatTemperature(u.SetTemperature, u.TemperatureUnit)
}

// TemperatureDisplay formats the reading's value, or FailureDisplay when absent.
func TemperatureDisplay(r TemperatureReading) string {
	if r.Temperature == nil {
		return FailureDisplay
	}
	return formatTemperature(*r.Temperature, r.TemperatureUnit)
}

func formatTemperature(v float64, u TemperatureUnit) string {
	return fmt.Sprintf("%.1f°%s", v, u)
}
