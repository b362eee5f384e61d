package ingest

import "time"

// Message is the JSON payload published by facility sensors. Temperature is
// null when the sensor could not take a reading.
type Message struct {
	CustomerCode    string    `json:"customer_code"`
	FacilityCode    string    `json:"facility_code"`
	UnitCode        string    `json:"unit_code"`
	Temperature     *float64  `json:"temperature"`
	TemperatureUnit string    `json:"temperature_unit"`
	RecordedAt      time.Time `json:"recorded_at"`
	SensorID        *string   `json:"sensor_id,omitempty"`
	QualityScore    *float64  `json:"quality_score,omitempty"`
	EquipmentStatus string    `json:"equipment_status,omitempty"`
}
