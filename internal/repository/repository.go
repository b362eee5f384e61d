package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }

// Ping reports whether the database is reachable.
func (r *Repos) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

const (
	customerColumns = `id, customer_code, name, is_active, created_at`
	facilityColumns = `id, customer_id, facility_code, name, city, country, latitude, longitude, created_at`
	unitColumns     = `id, facility_id, unit_code, name, size_value, size_unit, set_temperature, temperature_unit, equipment_type, created_at`
)

func (r *Repos) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	out := []domain.Customer{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+customerColumns+` FROM customers ORDER BY customer_code`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

func (r *Repos) GetCustomer(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.GetContext(ctx, &c, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return c, notFound(err, "customer", id.String())
}

func (r *Repos) GetCustomerByCode(ctx context.Context, code string) (domain.Customer, error) {
	var c domain.Customer
	err := r.db.GetContext(ctx, &c, `SELECT `+customerColumns+` FROM customers WHERE customer_code = $1`, code)
	return c, notFound(err, "customer", code)
}

func (r *Repos) InsertCustomer(ctx context.Context, c domain.Customer) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO customers (`+customerColumns+`)
		VALUES (:id, :customer_code, :name, :is_active, :created_at)`, c)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *Repos) ListFacilities(ctx context.Context, customerID uuid.UUID) ([]domain.Facility, error) {
	out := []domain.Facility{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+facilityColumns+` FROM facilities WHERE customer_id = $1 ORDER BY facility_code`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	return out, nil
}

func (r *Repos) GetFacility(ctx context.Context, id uuid.UUID) (domain.Facility, error) {
	var f domain.Facility
	err := r.db.GetContext(ctx, &f, `SELECT `+facilityColumns+` FROM facilities WHERE id = $1`, id)
	return f, notFound(err, "facility", id.String())
}

func (r *Repos) GetFacilityByCode(ctx context.Context, customerID uuid.UUID, code string) (domain.Facility, error) {
	var f domain.Facility
	err := r.db.GetContext(ctx, &f,
		`SELECT `+facilityColumns+` FROM facilities WHERE customer_id = $1 AND facility_code = $2`, customerID, code)
	return f, notFound(err, "facility", code)
}

func (r *Repos) InsertFacility(ctx context.Context, f domain.Facility) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO facilities (`+facilityColumns+`)
		VALUES (:id, :customer_id, :facility_code, :name, :city, :country, :latitude, :longitude, :created_at)`, f)
	if err != nil {
		return fmt.Errorf("insert facility: %w", err)
	}
	return nil
}

// UpdateFacility overwrites the mutable columns of f; identity, owner and
// creation time are left alone.
func (r *Repos) UpdateFacility(ctx context.Context, f domain.Facility) error {
	res, err := r.db.NamedExecContext(ctx, `UPDATE facilities
		SET facility_code = :facility_code, name = :name, city = :city, country = :country,
		    latitude = :latitude, longitude = :longitude
		WHERE id = :id`, f)
	if err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	return affected(res, "facility", f.ID.String())
}

func (r *Repos) ListStorageUnits(ctx context.Context, facilityID uuid.UUID) ([]domain.StorageUnit, error) {
	out := []domain.StorageUnit{}
	err := r.db.SelectContext(ctx, &out,
		`SELECT `+unitColumns+` FROM storage_units WHERE facility_id = $1 ORDER BY unit_code`, facilityID)
	if err != nil {
		return nil, fmt.Errorf("list storage units: %w", err)
	}
	return out, nil
}

func (r *Repos) GetStorageUnit(ctx context.Context, id uuid.UUID) (domain.StorageUnit, error) {
	var u domain.StorageUnit
	err := r.db.GetContext(ctx, &u, `SELECT `+unitColumns+` FROM storage_units WHERE id = $1`, id)
	return u, notFound(err, "storage unit", id.String())
}

func (r *Repos) GetStorageUnitByCode(ctx context.Context, facilityID uuid.UUID, code string) (domain.StorageUnit, error) {
	var u domain.StorageUnit
	err := r.db.GetContext(ctx, &u,
		`SELECT `+unitColumns+` FROM storage_units WHERE facility_id = $1 AND unit_code = $2`, facilityID, code)
	return u, notFound(err, "storage unit", code)
}

func (r *Repos) InsertStorageUnit(ctx context.Context, u domain.StorageUnit) error {
	_, err := r.db.NamedExecContext(ctx, `INSERT INTO storage_units (`+unitColumns+`)
		VALUES (:id, :facility_id, :unit_code, :name, :size_value, :size_unit, :set_temperature,
		        :temperature_unit, :equipment_type, :created_at)`, u)
	if err != nil {
		return fmt.Errorf("insert storage unit: %w", err)
	}
	return nil
}

func (r *Repos) UpdateStorageUnit(ctx context.Context, u domain.StorageUnit) error {
	res, err := r.db.NamedExecContext(ctx, `UPDATE storage_units
		SET unit_code = :unit_code, name = :name, size_value = :size_value, size_unit = :size_unit,
		    set_temperature = :set_temperature, temperature_unit = :temperature_unit,
		    equipment_type = :equipment_type
		WHERE id = :id`, u)
	if err != nil {
		return fmt.Errorf("update storage unit: %w", err)
	}
	return affected(res, "storage unit", u.ID.String())
}

// affected maps an UPDATE that matched no row to a not-found error.
func affected(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", resource, err)
	}
	if n == 0 {
		return domain.NewNotFound(resource, id)
	}
	return nil
}

func notFound(err error, resource, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.NewNotFound(resource, id)
	default:
		return fmt.Errorf("get %s: %w", resource, err)
	}
}
