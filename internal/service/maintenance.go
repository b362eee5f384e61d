package service

import (
	"context"
	"sync"
	"time"

	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/maintenance"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/observability"
)

const (
	maintenanceWindow  = 30 * 24 * time.Hour
	serviceInterval    = 180 * 24 * time.Hour
	alertRiskThreshold = 0.5
)

// MaintenanceService predicts storage unit servicing from failure history.
// A unit is alerted on once when its risk crosses the threshold and again
// only after it has dropped back below.
type MaintenanceService struct {
	store    FacilityReadingStore
	notifier MaintenanceNotifier
	guard    guard
	metrics  *observability.Metrics
	clock    clockwork.Clock
	log      zerolog.Logger

	mu      sync.Mutex
	alerted map[uuid.UUID]bool
}

// FacilityReadingStore is the subset of Store the predictor reads.
type FacilityReadingStore interface {
	GetStorageUnit(ctx context.Context, id uuid.UUID) (domain.StorageUnit, error)
	GetFacility(ctx context.Context, id uuid.UUID) (domain.Facility, error)
	UnitReadingsSince(ctx context.Context, unitID uuid.UUID, since time.Time) ([]domain.TemperatureReading, error)
}

type MaintenancePrediction struct {
	UnitID             uuid.UUID `json:"unit_id"`
	UnitCode           string    `json:"unit_code"`
	FailureEvents30d   int       `json:"failure_events_30_days"`
	FailureRatePerYear float64   `json:"failure_rate_per_year"`
	FailureRisk30Days  float64   `json:"failure_risk_30_days"`
	FailureRisk90Days  float64   `json:"failure_risk_90_days"`
	NextServiceDate    time.Time `json:"next_service_date"`
	DaysUntilService   int       `json:"days_until_service"`
	Recommendation     string    `json:"recommendation"`
	AlertSent          bool      `json:"alert_sent"`
}

// Predict estimates failure risk for a storage unit. The yearly failure rate
// is extrapolated from failure events in the last 30 days, where a run of
// consecutive failure readings counts as one event. Risks are percentages.
func (s *MaintenanceService) Predict(ctx context.Context, p auth.Principal, unitID uuid.UUID) (MaintenancePrediction, error) {
	if err := s.guard.permission(p, domain.PermissionRead); err != nil {
		return MaintenancePrediction{}, err
	}
	unit, err := s.store.GetStorageUnit(ctx, unitID)
	if err != nil {
		return MaintenancePrediction{}, err
	}
	facility, err := s.store.GetFacility(ctx, unit.FacilityID)
	if err != nil {
		return MaintenancePrediction{}, err
	}
	if err := s.guard.ownedBy(p, domain.PermissionRead, facility.CustomerID, "storage unit", unitID); err != nil {
		return MaintenancePrediction{}, err
	}

	now := s.clock.Now()
	readings, err := s.store.UnitReadingsSince(ctx, unitID, now.Add(-maintenanceWindow))
	if err != nil {
		return MaintenancePrediction{}, err
	}

	events := failureEvents(readings)
	rate := float64(events) * (365 * 24 * time.Hour).Hours() / maintenanceWindow.Hours()

	// Refrigeration runs continuously, so hours run is time since commissioning.
	health := maintenance.AssetHealth{
		HoursRun:           now.Sub(unit.CreatedAt).Hours(),
		FailureRatePerYear: rate,
		LastService:        unit.CreatedAt,
		ServiceInterval:    serviceInterval,
	}
	risk30 := maintenance.FailureRisk(health.FailureRatePerYear, 30*24*time.Hour)
	risk90 := maintenance.FailureRisk(health.FailureRatePerYear, 90*24*time.Hour)
	next := maintenance.NextServiceDate(health)

	pred := MaintenancePrediction{
		UnitID:             unit.ID,
		UnitCode:           unit.UnitCode,
		FailureEvents30d:   events,
		FailureRatePerYear: round2(rate),
		FailureRisk30Days:  round2(risk30 * 100),
		FailureRisk90Days:  round2(risk90 * 100),
		NextServiceDate:    next,
		DaysUntilService:   int(next.Sub(now).Hours() / 24),
		Recommendation:     recommendation(risk30, events),
	}

	if s.notifier != nil && s.transition(unitID, risk30 > alertRiskThreshold) {
		if _, err := s.notifier.SendMaintenanceAlert(ctx, unit.UnitCode, risk30, next); err != nil {
			s.log.Error().Err(err).Str("unit_id", unitID.String()).Msg("maintenance alert failed")
			s.transition(unitID, false)
		} else {
			pred.AlertSent = true
			s.metrics.AlertsSent.Inc()
		}
	}
	return pred, nil
}

// transition records whether unitID is above the alert threshold and
// reports whether it just crossed it.
func (s *MaintenanceService) transition(unitID uuid.UUID, high bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.alerted[unitID]
	if high {
		s.alerted[unitID] = true
	} else {
		delete(s.alerted, unitID)
	}
	return high && !was
}

// failureEvents counts runs of consecutive failure readings. readings must
// be oldest first.
func failureEvents(readings []domain.TemperatureReading) int {
	events, inFailure := 0, false
	for _, r := range readings {
		failed := r.IsEquipmentFailure()
		if failed && !inFailure {
			events++
		}
		inFailure = failed
	}
	return events
}

func recommendation(risk30 float64, events int) string {
	switch {
	case risk30 > 0.5:
		return "URGENT: Schedule immediate maintenance inspection"
	case risk30 > 0.3 || events >= 3:
		return "Schedule maintenance within next 30 days"
	case risk30 > 0.15 || events > 0:
		return "Plan maintenance within next 90 days"
	default:
		return "Unit operating normally"
	}
}
