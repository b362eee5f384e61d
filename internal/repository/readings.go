package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
)

const readingColumns = `id, customer_id, facility_id, storage_unit_id, temperature, temperature_unit,
	recorded_at, sensor_id, quality_score, equipment_status, created_at`

// failurePredicate mirrors TemperatureReading.IsEquipmentFailure.
const failurePredicate = `(temperature IS NULL OR equipment_status = 'failure')`

// FailureRecord is an equipment-failure reading joined with its location.
type FailureRecord struct {
	ReadingID     uuid.UUID              `db:"reading_id" json:"reading_id"`
	CustomerID    uuid.UUID              `db:"customer_id" json:"customer_id"`
	FacilityID    uuid.UUID              `db:"facility_id" json:"facility_id"`
	FacilityCode  string                 `db:"facility_code" json:"facility_code"`
	FacilityName  *string                `db:"facility_name" json:"facility_name,omitempty"`
	StorageUnitID uuid.UUID              `db:"storage_unit_id" json:"storage_unit_id"`
	UnitCode      string                 `db:"unit_code" json:"unit_code"`
	UnitName      *string                `db:"unit_name" json:"unit_name,omitempty"`
	OccurredAt    time.Time              `db:"recorded_at" json:"occurred_at"`
	Status        domain.EquipmentStatus `db:"equipment_status" json:"status"`
}

func (r *Repos) InsertReading(ctx context.Context, rd domain.TemperatureReading) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO temperature_readings (`+readingColumns+`)
		VALUES (:id, :customer_id, :facility_id, :storage_unit_id, :temperature, :temperature_unit,
		        :recorded_at, :sensor_id, :quality_score, :equipment_status, :created_at)`, rd)
	if err != nil {
		return fmt.Errorf("insert reading: %w", err)
	}
	return nil
}

// QueryReadings executes q, newest first. Time range bounds are inclusive.
func (r *Repos) QueryReadings(ctx context.Context, q query.TemperatureQuery) ([]domain.TemperatureReading, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if id, ok := q.CustomerID(); ok {
		add("customer_id = $%d", id)
	}
	if id, ok := q.FacilityID(); ok {
		add("facility_id = $%d", id)
	}
	if id, ok := q.UnitID(); ok {
		add("storage_unit_id = $%d", id)
	}
	if tr, ok := q.TimeRange(); ok {
		add("recorded_at >= $%d", tr.Start())
		add("recorded_at <= $%d", tr.End())
	}
	if !q.IncludeFailures() {
		where = append(where, "NOT "+failurePredicate)
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + readingColumns + ` FROM temperature_readings`)
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	args = append(args, q.Limit(), q.Offset())
	fmt.Fprintf(&sb, " ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	out := []domain.TemperatureReading{}
	if err := r.db.SelectContext(ctx, &out, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("query readings: %w", err)
	}
	return out, nil
}

// ReadingsSince returns a customer's readings recorded after since, oldest first.
func (r *Repos) ReadingsSince(ctx context.Context, customerID uuid.UUID, since time.Time) ([]domain.TemperatureReading, error) {
	out := []domain.TemperatureReading{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+readingColumns+` FROM temperature_readings
		WHERE customer_id = $1 AND recorded_at > $2 ORDER BY recorded_at ASC`, customerID, since)
	if err != nil {
		return nil, fmt.Errorf("readings since: %w", err)
	}
	return out, nil
}

// UnitReadingsSince returns a storage unit's readings recorded after since, oldest first.
func (r *Repos) UnitReadingsSince(ctx context.Context, unitID uuid.UUID, since time.Time) ([]domain.TemperatureReading, error) {
	out := []domain.TemperatureReading{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+readingColumns+` FROM temperature_readings
		WHERE storage_unit_id = $1 AND recorded_at > $2 ORDER BY recorded_at ASC`, unitID, since)
	if err != nil {
		return nil, fmt.Errorf("unit readings since: %w", err)
	}
	return out, nil
}

// EquipmentFailures lists failure readings after since, newest first. A nil
// customerID lists every customer.
func (r *Repos) EquipmentFailures(ctx context.Context, customerID *uuid.UUID, since time.Time) ([]FailureRecord, error) {
	q := `SELECT tr.id AS reading_id, tr.customer_id, tr.facility_id, f.facility_code, f.name AS facility_name,
		tr.storage_unit_id, su.unit_code, su.name AS unit_name, tr.recorded_at, tr.equipment_status
		FROM temperature_readings tr
		JOIN facilities f ON tr.facility_id = f.id
		JOIN storage_units su ON tr.storage_unit_id = su.id
		WHERE (tr.temperature IS NULL OR tr.equipment_status = 'failure') AND tr.recorded_at > $1`
	args := []any{since}
	if customerID != nil {
		q += ` AND tr.customer_id = $2`
		args = append(args, *customerID)
	}
	q += ` ORDER BY tr.recorded_at DESC`

	out := []FailureRecord{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("equipment failures: %w", err)
	}
	return out, nil
}

// ReadingsBetween returns readings recorded in [start, end), oldest first. A
// nil facilityID covers every facility.
func (r *Repos) ReadingsBetween(ctx context.Context, facilityID *uuid.UUID, start, end time.Time) ([]domain.TemperatureReading, error) {
	q := `SELECT ` + readingColumns + ` FROM temperature_readings
		WHERE recorded_at >= $1 AND recorded_at < $2`
	args := []any{start, end}
	if facilityID != nil {
		q += ` AND facility_id = $3`
		args = append(args, *facilityID)
	}
	q += ` ORDER BY recorded_at ASC`

	out := []domain.TemperatureReading{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("readings between: %w", err)
	}
	return out, nil
}

// LatestReadings returns the newest reading of each of the customer's
// storage units, newest first.
func (r *Repos) LatestReadings(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.TemperatureReading, error) {
	out := []domain.TemperatureReading{}
	err := r.db.SelectContext(ctx, &out, `SELECT * FROM (
			SELECT DISTINCT ON (storage_unit_id) `+readingColumns+`
			FROM temperature_readings
			WHERE customer_id = $1
			ORDER BY storage_unit_id, recorded_at DESC
		) latest
		ORDER BY recorded_at DESC
		LIMIT $2`, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("latest readings: %w", err)
	}
	return out, nil
}

func (r *Repos) LatestUnitReading(ctx context.Context, unitID uuid.UUID) (domain.TemperatureReading, error) {
	var rd domain.TemperatureReading
	err := r.db.GetContext(ctx, &rd, `SELECT `+readingColumns+` FROM temperature_readings
		WHERE storage_unit_id = $1 ORDER BY recorded_at DESC LIMIT 1`, unitID)
	return rd, notFound(err, "reading for storage unit", unitID.String())
}
