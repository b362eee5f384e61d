package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultQualityScore is assumed when a sensor does not report one.
const DefaultQualityScore = 1.0

// TemperatureReading is a single sensor sample. A nil Temperature means the
// sensor produced no value, which is treated as equipment failure.
type TemperatureReading struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	CustomerID      uuid.UUID       `db:"customer_id" json:"customer_id"`
	FacilityID      uuid.UUID       `db:"facility_id" json:"facility_id"`
	StorageUnitID   uuid.UUID       `db:"storage_unit_id" json:"storage_unit_id"`
	Temperature     *float64        `db:"temperature" json:"temperature"`
	TemperatureUnit TemperatureUnit `db:"temperature_unit" json:"temperature_unit"`
	RecordedAt      time.Time       `db:"recorded_at" json:"recorded_at"`
	SensorID        *string         `db:"sensor_id" json:"sensor_id,omitempty"`
	QualityScore    float64         `db:"quality_score" json:"quality_score"`
	EquipmentStatus EquipmentStatus `db:"equipment_status" json:"equipment_status"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// ReadingParams are the caller-supplied fields of a new reading. Zero
// RecordedAt means "now"; nil QualityScore means DefaultQualityScore; empty
// unit means Celsius; empty status means normal.
type ReadingParams struct {
	CustomerID      uuid.UUID
	FacilityID      uuid.UUID
	StorageUnitID   uuid.UUID
	Temperature     *float64
	TemperatureUnit string
	RecordedAt      time.Time
	SensorID        *string
	QualityScore    *float64
	EquipmentStatus string
}

// NewTemperatureReading validates unit, status and quality score. No
// partially valid reading is ever returned.
func NewTemperatureReading(p ReadingParams) (TemperatureReading, error) {
	unit := Celsius
	var err error
	if p.TemperatureUnit != "" {
		if unit, err = ParseTemperatureUnit(p.TemperatureUnit); err != nil {
			return TemperatureReading{}, err
		}
	}
	status := StatusNormal
	if p.EquipmentStatus != "" {
		if status, err = ParseEquipmentStatus(p.EquipmentStatus); err != nil {
			return TemperatureReading{}, err
		}
	}
	quality := DefaultQualityScore
	if p.QualityScore != nil {
		quality = *p.QualityScore
	}
	if !(quality >= 0 && quality <= 1) {
		return TemperatureReading{}, NewValidationError("quality_score", "must be within [0, 1], got %g", quality)
	}
	if p.Temperature != nil && (math.IsNaN(*p.Temperature) || math.IsInf(*p.Temperature, 0)) {
		return TemperatureReading{}, NewValidationError("temperature", "must be a finite number")
	}

	now := clock.Now().UTC()
	recorded := p.RecordedAt
	if recorded.IsZero() {
		recorded = now
	}
	return TemperatureReading{
		ID:              uuid.New(),
		CustomerID:      p.CustomerID,
		FacilityID:      p.FacilityID,
		StorageUnitID:   p.StorageUnitID,
		Temperature:     copyFloat(p.Temperature),
		TemperatureUnit: unit,
		RecordedAt:      recorded.UTC(),
		SensorID:        p.SensorID,
		QualityScore:    quality,
		EquipmentStatus: status,
		CreatedAt:       now,
	}, nil
}

// IsEquipmentFailure is true when there is no temperature or the status is
// failure. Either condition alone is enough.
func (r TemperatureReading) IsEquipmentFailure() bool {
	return r.Temperature == nil || r.EquipmentStatus == StatusFailure
}

// Celsius returns the temperature in Celsius, or nil when absent.
func (r TemperatureReading) Celsius() (*float64, error) {
	if r.Temperature == nil {
		return nil, nil
	}
	c, err := ToCelsius(*r.Temperature, r.TemperatureUnit)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ConvertedTo returns a copy of r expressed in unit. Readings without a
// temperature only change their unit label.
func (r TemperatureReading) ConvertedTo(unit TemperatureUnit) (TemperatureReading, error) {
	if r.Temperature != nil {
		v, err := ConvertTemperature(*r.Temperature, r.TemperatureUnit, unit)
		if err != nil {
			return TemperatureReading{}, err
		}
		r.Temperature = &v
	} else if !unit.Valid() {
		return TemperatureReading{}, unsupportedUnit("to_unit", string(unit))
	}
	r.TemperatureUnit = unit
	return r, nil
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
