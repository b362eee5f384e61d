package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

type FacilityService struct {
	store FacilityStore
	guard guard
	log   zerolog.Logger
}

// List returns the facilities of customerID, or of the caller's customer
// when customerID is nil.
func (s *FacilityService) List(ctx context.Context, p auth.Principal, customerID *uuid.UUID) ([]domain.Facility, error) {
	id, err := s.guard.customerOrOwn(p, domain.PermissionRead, customerID)
	if err != nil {
		return nil, err
	}
	return s.store.ListFacilities(ctx, id)
}

// Get returns a facility with its storage units.
func (s *FacilityService) Get(ctx context.Context, p auth.Principal, id uuid.UUID) (domain.Facility, error) {
	f, err := s.owned(ctx, p, domain.PermissionRead, id)
	if err != nil {
		return domain.Facility{}, err
	}
	units, err := s.store.ListStorageUnits(ctx, id)
	if err != nil {
		return domain.Facility{}, err
	}
	return f.WithStorageUnits(units), nil
}

func (s *FacilityService) Units(ctx context.Context, p auth.Principal, facilityID uuid.UUID) ([]domain.StorageUnit, error) {
	if _, err := s.owned(ctx, p, domain.PermissionRead, facilityID); err != nil {
		return nil, err
	}
	return s.store.ListStorageUnits(ctx, facilityID)
}

func (s *FacilityService) Create(ctx context.Context, p auth.Principal, params domain.FacilityParams) (domain.Facility, error) {
	if err := s.guard.authorize(p, domain.PermissionWrite, params.CustomerID); err != nil {
		return domain.Facility{}, err
	}
	f, err := domain.NewFacility(params)
	if err != nil {
		return domain.Facility{}, err
	}
	if err := s.store.InsertFacility(ctx, f); err != nil {
		return domain.Facility{}, err
	}

	s.log.Info().
		Str("customer_id", f.CustomerID.String()).
		Str("facility_code", f.FacilityCode).
		Msg("facility created")
	return f, nil
}

// CreateUnit adds a storage unit to facilityID; params.FacilityID is ignored.
func (s *FacilityService) CreateUnit(ctx context.Context, p auth.Principal, facilityID uuid.UUID, params domain.StorageUnitParams) (domain.StorageUnit, error) {
	if _, err := s.owned(ctx, p, domain.PermissionWrite, facilityID); err != nil {
		return domain.StorageUnit{}, err
	}
	params.FacilityID = facilityID
	u, err := domain.NewStorageUnit(params)
	if err != nil {
		return domain.StorageUnit{}, err
	}
	if err := s.store.InsertStorageUnit(ctx, u); err != nil {
		return domain.StorageUnit{}, err
	}

	s.log.Info().
		Str("facility_id", facilityID.String()).
		Str("unit_code", u.UnitCode).
		Msg("storage unit created")
	return u, nil
}

// Update replaces the facility with a copy that has u applied.
func (s *FacilityService) Update(ctx context.Context, p auth.Principal, id uuid.UUID, u domain.FacilityUpdate) (domain.Facility, error) {
	cur, err := s.owned(ctx, p, domain.PermissionWrite, id)
	if err != nil {
		return domain.Facility{}, err
	}
	next, err := cur.Updated(u)
	if err != nil {
		return domain.Facility{}, err
	}
	if err := s.store.UpdateFacility(ctx, next); err != nil {
		return domain.Facility{}, err
	}

	s.log.Info().Str("facility_id", id.String()).Msg("facility updated")
	return next, nil
}

// UpdateUnit replaces the storage unit with a copy that has u applied.
func (s *FacilityService) UpdateUnit(ctx context.Context, p auth.Principal, unitID uuid.UUID, u domain.StorageUnitUpdate) (domain.StorageUnit, error) {
	if err := s.guard.permission(p, domain.PermissionWrite); err != nil {
		return domain.StorageUnit{}, err
	}
	cur, err := s.store.GetStorageUnit(ctx, unitID)
	if err != nil {
		return domain.StorageUnit{}, err
	}
	f, err := s.store.GetFacility(ctx, cur.FacilityID)
	if err != nil {
		return domain.StorageUnit{}, err
	}
	if err := s.guard.ownedBy(p, domain.PermissionWrite, f.CustomerID, "storage unit", unitID); err != nil {
		return domain.StorageUnit{}, err
	}
	next, err := cur.Updated(u)
	if err != nil {
		return domain.StorageUnit{}, err
	}
	if err := s.store.UpdateStorageUnit(ctx, next); err != nil {
		return domain.StorageUnit{}, err
	}

	s.log.Info().Str("unit_id", unitID.String()).Msg("storage unit updated")
	return next, nil
}

// owned loads a facility and checks p may act on its customer.
func (s *FacilityService) owned(ctx context.Context, p auth.Principal, required domain.Permission, id uuid.UUID) (domain.Facility, error) {
	if err := s.guard.permission(p, required); err != nil {
		return domain.Facility{}, err
	}
	f, err := s.store.GetFacility(ctx, id)
	if err != nil {
		return domain.Facility{}, err
	}
	if err := s.guard.ownedBy(p, required, f.CustomerID, "facility", id); err != nil {
		return domain.Facility{}, err
	}
	return f, nil
}
