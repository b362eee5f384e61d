// Package query holds validated request descriptors. Every value here is
// checked when it is built; a TimeRange, TemperatureQuery or TokenRequest
// that exists is valid.
package query

import (
	"time"

	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

const (
	DefaultLimit = 100
	MinLimit     = 1
	MaxLimit     = 10000
)

// TimeRange is an interval whose end is strictly after its start.
type TimeRange struct {
	start time.Time
	end   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if !end.After(start) {
		return TimeRange{}, domain.NewValidationError("end_time", "must be after start_time")
	}
	return TimeRange{start: start, end: end}, nil
}

func (r TimeRange) Start() time.Time { return r.start }
func (r TimeRange) End() time.Time   { return r.end }

// TemperatureQuery filters readings. Execution belongs to the repository.
type TemperatureQuery struct {
	customerID      *uuid.UUID
	facilityID      *uuid.UUID
	unitID          *uuid.UUID
	timeRange       *TimeRange
	outputUnit      *domain.TemperatureUnit
	limit           int
	offset          int
	includeFailures bool
}

// Option sets one field of a TemperatureQuery.
type Option func(*TemperatureQuery)

func WithCustomer(id uuid.UUID) Option { return func(q *TemperatureQuery) { q.customerID = &id } }
func WithFacility(id uuid.UUID) Option { return func(q *TemperatureQuery) { q.facilityID = &id } }
func WithUnit(id uuid.UUID) Option     { return func(q *TemperatureQuery) { q.unitID = &id } }

func WithTimeRange(r TimeRange) Option { return func(q *TemperatureQuery) { q.timeRange = &r } }

func WithOutputUnit(u domain.TemperatureUnit) Option {
	return func(q *TemperatureQuery) { q.outputUnit = &u }
}

func WithLimit(n int) Option            { return func(q *TemperatureQuery) { q.limit = n } }
func WithOffset(n int) Option           { return func(q *TemperatureQuery) { q.offset = n } }
func WithIncludeFailures(b bool) Option { return func(q *TemperatureQuery) { q.includeFailures = b } }

// NewTemperatureQuery applies opts over the defaults (limit 100, offset 0,
// failures included) and validates the result.
func NewTemperatureQuery(opts ...Option) (TemperatureQuery, error) {
	q := TemperatureQuery{limit: DefaultLimit, includeFailures: true}
	for _, opt := range opts {
		opt(&q)
	}
	if err := q.validate(); err != nil {
		return TemperatureQuery{}, err
	}
	return q, nil
}

func (q TemperatureQuery) validate() error {
	if q.limit < MinLimit {
		return domain.NewValidationError("limit", "must be at least %d, got %d", MinLimit, q.limit)
	}
	if q.limit > MaxLimit {
		return domain.NewValidationError("limit", "must be at most %d, got %d", MaxLimit, q.limit)
	}
	if q.offset < 0 {
		return domain.NewValidationError("offset", "must be at least 0, got %d", q.offset)
	}
	if q.outputUnit != nil && !q.outputUnit.Valid() {
		return domain.NewValidationError("temperature_unit", "invalid temperature unit %q", *q.outputUnit)
	}
	return nil
}

// With returns a validated copy of q with opts applied on top.
func (q TemperatureQuery) With(opts ...Option) (TemperatureQuery, error) {
	for _, opt := range opts {
		opt(&q)
	}
	if err := q.validate(); err != nil {
		return TemperatureQuery{}, err
	}
	return q, nil
}

func (q TemperatureQuery) CustomerID() (uuid.UUID, bool) { return deref(q.customerID) }
func (q TemperatureQuery) FacilityID() (uuid.UUID, bool) { return deref(q.facilityID) }
func (q TemperatureQuery) UnitID() (uuid.UUID, bool)     { return deref(q.unitID) }
func (q TemperatureQuery) TimeRange() (TimeRange, bool)  { return deref(q.timeRange) }

func (q TemperatureQuery) OutputUnit() (domain.TemperatureUnit, bool) { return deref(q.outputUnit) }

func (q TemperatureQuery) Limit() int            { return q.limit }
func (q TemperatureQuery) Offset() int           { return q.offset }
func (q TemperatureQuery) IncludeFailures() bool { return q.includeFailures }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
