package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/ingest"
)

type simUnit struct {
	customerCode string
	facilityCode string
	unitCode     string
	target       float64
	sizeSqm      float64
	sensorID     string
	drift        float64
}

type fleet struct {
	customerCode string
	units        []*simUnit
}

// Freezers hold -18C and chillers 4C; every third unit is a chiller.
func newFleet(customerCode string, facilities, unitsPer int) (*fleet, error) {
	if !domain.ValidateCustomerCode(customerCode) {
		return nil, fmt.Errorf("invalid customer code %q", customerCode)
	}
	if facilities < 1 || unitsPer < 1 {
		return nil, fmt.Errorf("need at least one facility and unit, got %d and %d", facilities, unitsPer)
	}

	f := &fleet{customerCode: customerCode}
	for i := 1; i <= facilities; i++ {
		fc := fmt.Sprintf("facility_%s_%d", customerCode, i)
		for j := 1; j <= unitsPer; j++ {
			target := -18.0
			if j%3 == 0 {
				target = 4.0
			}
			f.units = append(f.units, &simUnit{
				customerCode: customerCode,
				facilityCode: fc,
				unitCode:     fmt.Sprintf("unit_%s_%d_%d", customerCode, i, j),
				target:       target,
				sizeSqm:      float64(10 * j),
				sensorID:     fmt.Sprintf("sensor-%s-%d-%d", customerCode, i, j),
			})
		}
	}
	return f, nil
}

func (f *fleet) facilityCodes() []string {
	var out []string
	seen := map[string]bool{}
	for _, u := range f.units {
		if !seen[u.facilityCode] {
			seen[u.facilityCode] = true
			out = append(out, u.facilityCode)
		}
	}
	return out
}

func (f *fleet) unitsOf(facilityCode string) []*simUnit {
	var out []*simUnit
	for _, u := range f.units {
		if u.facilityCode == facilityCode {
			out = append(out, u)
		}
	}
	return out
}

// next produces the unit's next sensor message. With probability
// failureRate the sensor reports a failure, half the time without a value.
func (u *simUnit) next(rng *rand.Rand, now time.Time, failureRate float64) ingest.Message {
	msg := ingest.Message{
		CustomerCode:    u.customerCode,
		FacilityCode:    u.facilityCode,
		UnitCode:        u.unitCode,
		TemperatureUnit: string(domain.Celsius),
		RecordedAt:      now,
		SensorID:        &u.sensorID,
		EquipmentStatus: string(domain.StatusNormal),
	}

	if rng.Float64() < failureRate {
		msg.EquipmentStatus = string(domain.StatusFailure)
		if rng.Intn(2) == 0 {
			return msg
		}
	}

	u.drift = math.Max(-2, math.Min(2, u.drift+rng.NormFloat64()*0.2))
	temp := math.Round((u.target+u.drift+rng.NormFloat64()*0.3)*10) / 10
	quality := math.Round((0.9+rng.Float64()*0.1)*100) / 100
	msg.Temperature = &temp
	msg.QualityScore = &quality
	if math.Abs(u.drift) > 1.5 && msg.EquipmentStatus == string(domain.StatusNormal) {
		msg.EquipmentStatus = string(domain.StatusWarning)
	}
	return msg
}
