package service

import (
	"context"
	"math"
	"time"

	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/aggregator"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/observability"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/repository"
)

const (
	DefaultWindowHours = 24
	MaxWindowHours     = 168

	DefaultLatestLimit = 20
	MaxLatestLimit     = 100
)

type TemperatureService struct {
	store   Store
	latest  LatestCache
	guard   guard
	metrics *observability.Metrics
	clock   clockwork.Clock
	log     zerolog.Logger
}

// ReadingView is a reading as served to API clients.
type ReadingView struct {
	domain.TemperatureReading
	Display          string `json:"display"`
	EquipmentFailure bool   `json:"equipment_failure"`
}

// Query runs q for p. Callers without admin only ever see their own
// customer: a query naming another customer is refused and an unscoped one
// is narrowed to the caller's customer.
func (s *TemperatureService) Query(ctx context.Context, p auth.Principal, q query.TemperatureQuery) ([]ReadingView, error) {
	if err := s.guard.permission(p, domain.PermissionRead); err != nil {
		return nil, err
	}
	if id, ok := q.CustomerID(); ok {
		if err := s.guard.authorize(p, domain.PermissionRead, id); err != nil {
			return nil, err
		}
	} else if !p.IsAdmin() {
		scoped, err := q.With(query.WithCustomer(p.CustomerID))
		if err != nil {
			return nil, err
		}
		q = scoped
	}

	timer := prometheus.NewTimer(s.metrics.QueryDuration.WithLabelValues("readings"))
	readings, err := s.store.QueryReadings(ctx, q)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}

	unit, convert := q.OutputUnit()
	out := make([]ReadingView, 0, len(readings))
	for _, r := range readings {
		if convert {
			if r, err = r.ConvertedTo(unit); err != nil {
				return nil, err
			}
		}
		out = append(out, view(r))
	}
	return out, nil
}

func view(r domain.TemperatureReading) ReadingView {
	return ReadingView{
		TemperatureReading: r,
		Display:            domain.TemperatureDisplay(r),
		EquipmentFailure:   r.IsEquipmentFailure(),
	}
}

// Create records a reading for a storage unit the caller may write to.
// Customer and facility are taken from the unit, never from the caller.
func (s *TemperatureService) Create(ctx context.Context, p auth.Principal, unitID uuid.UUID, params domain.ReadingParams) (ReadingView, error) {
	unit, facility, err := s.locate(ctx, p, domain.PermissionWrite, unitID)
	if err != nil {
		return ReadingView{}, err
	}
	params.CustomerID = facility.CustomerID
	params.FacilityID = facility.ID
	params.StorageUnitID = unit.ID
	r, err := domain.NewTemperatureReading(params)
	if err != nil {
		return ReadingView{}, err
	}
	if err := s.store.InsertReading(ctx, r); err != nil {
		return ReadingView{}, err
	}

	if s.latest != nil {
		if err := s.latest.PutLatestReading(ctx, r, unit.UnitCode); err != nil {
			s.log.Warn().Err(err).Str("unit_id", unitID.String()).Msg("latest reading mirror failed")
		}
	}
	return view(r), nil
}

// Latest returns the newest reading of each storage unit of customerID, or
// of the caller's customer when customerID is nil. limit of 0 means 20.
func (s *TemperatureService) Latest(ctx context.Context, p auth.Principal, customerID *uuid.UUID, limit int) ([]ReadingView, error) {
	if limit == 0 {
		limit = DefaultLatestLimit
	}
	if limit < 1 || limit > MaxLatestLimit {
		return nil, domain.NewValidationError("limit", "must be between 1 and %d, got %d", MaxLatestLimit, limit)
	}
	id, err := s.guard.customerOrOwn(p, domain.PermissionRead, customerID)
	if err != nil {
		return nil, err
	}

	timer := prometheus.NewTimer(s.metrics.QueryDuration.WithLabelValues("latest"))
	readings, err := s.store.LatestReadings(ctx, id, limit)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}
	out := make([]ReadingView, 0, len(readings))
	for _, r := range readings {
		out = append(out, view(r))
	}
	return out, nil
}

// UnitLatestView is a unit's newest reading with where it was served from.
type UnitLatestView struct {
	ReadingView
	UnitCode string `json:"unit_code"`
	Source   string `json:"source"`
}

// UnitLatest returns the newest reading of one storage unit. The DynamoDB
// mirror is consulted first when configured; a miss or error falls back to
// the database.
func (s *TemperatureService) UnitLatest(ctx context.Context, p auth.Principal, unitID uuid.UUID) (UnitLatestView, error) {
	unit, _, err := s.locate(ctx, p, domain.PermissionRead, unitID)
	if err != nil {
		return UnitLatestView{}, err
	}

	if s.latest != nil {
		lr, ok, err := s.latest.GetLatestReading(ctx, unitID)
		if err == nil && ok {
			var r domain.TemperatureReading
			if r, err = lr.Reading(); err == nil {
				return UnitLatestView{ReadingView: view(r), UnitCode: unit.UnitCode, Source: "cache"}, nil
			}
		}
		if err != nil {
			s.log.Warn().Err(err).Str("unit_id", unitID.String()).Msg("latest reading cache lookup failed")
		}
	}

	r, err := s.store.LatestUnitReading(ctx, unitID)
	if err != nil {
		return UnitLatestView{}, err
	}
	return UnitLatestView{ReadingView: view(r), UnitCode: unit.UnitCode, Source: "database"}, nil
}

// locate loads a storage unit and its facility and checks p may act on it.
func (s *TemperatureService) locate(ctx context.Context, p auth.Principal, required domain.Permission, unitID uuid.UUID) (domain.StorageUnit, domain.Facility, error) {
	if err := s.guard.permission(p, required); err != nil {
		return domain.StorageUnit{}, domain.Facility{}, err
	}
	unit, err := s.store.GetStorageUnit(ctx, unitID)
	if err != nil {
		return domain.StorageUnit{}, domain.Facility{}, err
	}
	facility, err := s.store.GetFacility(ctx, unit.FacilityID)
	if err != nil {
		return domain.StorageUnit{}, domain.Facility{}, err
	}
	if err := s.guard.ownedBy(p, required, facility.CustomerID, "storage unit", unitID); err != nil {
		return domain.StorageUnit{}, domain.Facility{}, err
	}
	return unit, facility, nil
}

// Failures lists equipment failures in the last hours. Admins may omit
// customerID to see every customer.
func (s *TemperatureService) Failures(ctx context.Context, p auth.Principal, customerID *uuid.UUID, hours int) ([]repository.FailureRecord, error) {
	since, err := s.windowStart(hours)
	if err != nil {
		return nil, err
	}
	if customerID == nil && p.IsAdmin() {
		if err := s.guard.permission(p, domain.PermissionRead); err != nil {
			return nil, err
		}
	} else {
		id, err := s.guard.customerOrOwn(p, domain.PermissionRead, customerID)
		if err != nil {
			return nil, err
		}
		customerID = &id
	}

	timer := prometheus.NewTimer(s.metrics.QueryDuration.WithLabelValues("failures"))
	defer timer.ObserveDuration()
	return s.store.EquipmentFailures(ctx, customerID, since)
}

// Statistics summarises a customer's readings. Temperatures are reported
// in Celsius.
type Statistics struct {
	CustomerID         uuid.UUID `json:"customer_id"`
	Since              time.Time `json:"since"`
	TotalReadings      int       `json:"total_readings"`
	ValidReadings      int       `json:"valid_readings"`
	FailedReadings     int       `json:"failed_readings"`
	FailureRatePercent float64   `json:"failure_rate_percent"`
	MinCelsius         *float64  `json:"min_celsius"`
	MaxCelsius         *float64  `json:"max_celsius"`
	AvgCelsius         *float64  `json:"avg_celsius"`
	ActiveUnits        int       `json:"active_units"`
}

func (s *TemperatureService) Statistics(ctx context.Context, p auth.Principal, customerID *uuid.UUID, hours int) (Statistics, error) {
	since, err := s.windowStart(hours)
	if err != nil {
		return Statistics{}, err
	}
	id, err := s.guard.customerOrOwn(p, domain.PermissionRead, customerID)
	if err != nil {
		return Statistics{}, err
	}

	timer := prometheus.NewTimer(s.metrics.QueryDuration.WithLabelValues("statistics"))
	readings, err := s.store.ReadingsSince(ctx, id, since)
	timer.ObserveDuration()
	if err != nil {
		return Statistics{}, err
	}
	return summarise(id, since, readings)
}

func summarise(customerID uuid.UUID, since time.Time, readings []domain.TemperatureReading) (Statistics, error) {
	st := Statistics{CustomerID: customerID, Since: since, TotalReadings: len(readings)}
	units := make(map[uuid.UUID]struct{})
	points := make([]aggregator.Point, 0, len(readings))

	for _, r := range readings {
		units[r.StorageUnitID] = struct{}{}
		if r.IsEquipmentFailure() {
			st.FailedReadings++
			continue
		}
		c, err := r.Celsius()
		if err != nil {
			return Statistics{}, err
		}
		points = append(points, aggregator.Point{Value: *c, Timestamp: r.RecordedAt})
		if st.MinCelsius == nil || *c < *st.MinCelsius {
			st.MinCelsius = c
		}
		if st.MaxCelsius == nil || *c > *st.MaxCelsius {
			st.MaxCelsius = c
		}
	}

	st.ValidReadings = len(points)
	st.ActiveUnits = len(units)
	if st.TotalReadings > 0 {
		st.FailureRatePercent = round2(float64(st.FailedReadings) / float64(st.TotalReadings) * 100)
	}
	if len(points) > 0 {
		avg := round2(aggregator.Average(points))
		st.AvgCelsius = &avg
	}
	return st, nil
}

func (s *TemperatureService) windowStart(hours int) (time.Time, error) {
	if hours == 0 {
		hours = DefaultWindowHours
	}
	if hours < 1 || hours > MaxWindowHours {
		return time.Time{}, domain.NewValidationError("hours", "must be between 1 and %d, got %d", MaxWindowHours, hours)
	}
	return s.clock.Now().Add(-time.Duration(hours) * time.Hour), nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
