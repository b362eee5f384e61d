package domain

// ConvertTemperature converts v between C, F and K by normalizing to Celsius
// first. Equal units return v unchanged. Units outside the three supported
// ones fail with ErrUnsupportedUnit.
func ConvertTemperature(v float64, from, to TemperatureUnit) (float64, error) {
	if !from.Valid() {
		return 0, unsupportedUnit("from_unit", string(from))
	}
	if !to.Valid() {
		return 0, unsupportedUnit("to_unit", string(to))
	}
	if from == to {
		return v, nil
	}
	return fromCelsius(toCelsius(v, from), to), nil
}

// ToCelsius is ConvertTemperature with a Celsius target.
func ToCelsius(v float64, from TemperatureUnit) (float64, error) {
	return ConvertTemperature(v, from, Celsius)
}

func toCelsius(v float64, u TemperatureUnit) float64 {
	switch u {
	case Fahrenheit:
		return (v - 32) * 5.0 / 9.0
	case Kelvin:
		return v - 273.15
	default:
		return v
	}
}

func fromCelsius(c float64, u TemperatureUnit) float64 {
	switch u {
	case Fahrenheit:
		return c*9.0/5.0 + 32
	case Kelvin:
		return c + 273.15
	default:
		return c
	}
}

// ConvertSizeToSqm returns the area in square meters. Unknown units are
// rejected rather than passed through.
func ConvertSizeToSqm(v float64, unit SizeUnit) (float64, error) {
	switch unit {
	case SquareMeters, MetersSquared:
		return v, nil
	case SquareFeet, FeetSquared:
		return v * sqmPerSquareFoot, nil
	default:
		return 0, unsupportedUnit("size_unit", string(unit))
	}
}
