package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

func TestFacilityService_GetIncludesUnits(t *testing.T) {
	fx := newFixture(false)
	own := uuid.New()
	fac := fx.store.addFacility(own, "facility_A_1")
	fx.store.addUnit(fac.ID, "unit_A_1_1", testNow)
	fx.store.addUnit(uuid.New(), "unit_A_2_1", testNow)

	got, err := fx.svcs.Facilities.Get(context.Background(), principal(own, domain.PermissionRead), fac.ID)
	require.NoError(t, err)
	assert.Equal(t, "facility_A_1", got.FacilityCode)
	require.Len(t, got.StorageUnits, 1)
	assert.Equal(t, "unit_A_1_1", got.StorageUnits[0].UnitCode)
}

func TestFacilityService_OtherCustomer(t *testing.T) {
	fx := newFixture(false)
	fac := fx.store.addFacility(uuid.New(), "facility_B_1")
	caller := principal(uuid.New(), domain.PermissionRead, domain.PermissionWrite)

	// Another customer's facility is indistinguishable from a missing one.
	_, err := fx.svcs.Facilities.Get(context.Background(), caller, fac.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, missing := fx.svcs.Facilities.Get(context.Background(), caller, uuid.New())
	assert.ErrorIs(t, missing, domain.ErrNotFound)

	_, err = fx.svcs.Facilities.Units(context.Background(), caller, fac.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.svcs.Facilities.CreateUnit(context.Background(), caller, fac.ID, domain.StorageUnitParams{
		UnitCode: "unit_B_1_1", SizeUnit: "sqm", TemperatureUnit: "C",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, fx.store.units)

	_, err = fx.svcs.Facilities.Update(context.Background(), caller, fac.ID, domain.FacilityUpdate{Name: ptr("Mine now")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, fx.store.facilities[fac.ID].Name)

	// Missing permission is still reported as such.
	_, err = fx.svcs.Facilities.Get(context.Background(), principal(uuid.New()), fac.ID)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	admin := principal(uuid.New(), domain.PermissionAdmin)
	_, err = fx.svcs.Facilities.Get(context.Background(), admin, fac.ID)
	assert.NoError(t, err)
}

func TestFacilityService_NotFound(t *testing.T) {
	fx := newFixture(false)
	_, err := fx.svcs.Facilities.Get(context.Background(), principal(uuid.New(), domain.PermissionAdmin), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFacilityService_Create(t *testing.T) {
	own := uuid.New()

	tests := []struct {
		name    string
		perms   []domain.Permission
		params  domain.FacilityParams
		wantErr error
	}{
		{
			name:   "write on own customer",
			perms:  []domain.Permission{domain.PermissionWrite},
			params: domain.FacilityParams{CustomerID: own, FacilityCode: "facility_A_3"},
		},
		{
			name:    "read only",
			perms:   []domain.Permission{domain.PermissionRead},
			params:  domain.FacilityParams{CustomerID: own, FacilityCode: "facility_A_3"},
			wantErr: domain.ErrPermissionDenied,
		},
		{
			name:    "bad code",
			perms:   []domain.Permission{domain.PermissionWrite},
			params:  domain.FacilityParams{CustomerID: own, FacilityCode: "warehouse-3"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "other customer",
			perms:   []domain.Permission{domain.PermissionWrite},
			params:  domain.FacilityParams{CustomerID: uuid.New(), FacilityCode: "facility_B_3"},
			wantErr: domain.ErrPermissionDenied,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(false)
			f, err := fx.svcs.Facilities.Create(context.Background(), principal(own, tc.perms...), tc.params)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, fx.store.facilities)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, fx.store.facilities, f.ID)
		})
	}
}

func TestFacilityService_CreateUnit(t *testing.T) {
	fx := newFixture(false)
	own := uuid.New()
	fac := fx.store.addFacility(own, "facility_A_1")

	u, err := fx.svcs.Facilities.CreateUnit(context.Background(), principal(own, domain.PermissionWrite), fac.ID, domain.StorageUnitParams{
		FacilityID:      uuid.New(),
		UnitCode:        "unit_A_1_4",
		SizeValue:       100,
		SizeUnit:        "sqft",
		SetTemperature:  ptr(0.0),
		TemperatureUnit: "F",
	})
	require.NoError(t, err)
	assert.Equal(t, fac.ID, u.FacilityID)

	units, err := fx.svcs.Facilities.Units(context.Background(), principal(own, domain.PermissionRead), fac.ID)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, domain.DefaultEquipmentType, units[0].EquipmentType)
}

func TestFacilityService_List(t *testing.T) {
	fx := newFixture(false)
	own, other := uuid.New(), uuid.New()
	fx.store.addFacility(own, "facility_A_1")
	fx.store.addFacility(other, "facility_B_1")

	got, err := fx.svcs.Facilities.List(context.Background(), principal(own, domain.PermissionRead), nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "facility_A_1", got[0].FacilityCode)

	_, err = fx.svcs.Facilities.List(context.Background(), principal(own, domain.PermissionRead), &other)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestFacilityService_Update(t *testing.T) {
	fx := newFixture(false)
	own := uuid.New()
	fac := fx.store.addFacility(own, "facility_A_1")
	writer := principal(own, domain.PermissionRead, domain.PermissionWrite)

	got, err := fx.svcs.Facilities.Update(context.Background(), writer, fac.ID, domain.FacilityUpdate{City: ptr("Galway")})
	require.NoError(t, err)
	assert.Equal(t, fac.ID, got.ID)
	assert.Equal(t, "Galway", *fx.store.facilities[fac.ID].City)

	_, err = fx.svcs.Facilities.Update(context.Background(), writer, fac.ID, domain.FacilityUpdate{FacilityCode: ptr("site-1")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "facility_A_1", fx.store.facilities[fac.ID].FacilityCode)

	_, err = fx.svcs.Facilities.Update(context.Background(), principal(own, domain.PermissionRead), fac.ID, domain.FacilityUpdate{})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestFacilityService_UpdateUnit(t *testing.T) {
	fx := newFixture(false)
	own := uuid.New()
	fac := fx.store.addFacility(own, "facility_A_1")
	unit := fx.store.addUnit(fac.ID, "unit_A_1_1", testNow)

	got, err := fx.svcs.Facilities.UpdateUnit(context.Background(), principal(own, domain.PermissionWrite), unit.ID,
		domain.StorageUnitUpdate{SetTemperature: ptr(-25.0), EquipmentType: ptr("blast chiller")})
	require.NoError(t, err)
	assert.Equal(t, -25.0, got.SetTemperature)
	assert.Equal(t, "blast chiller", fx.store.units[unit.ID].EquipmentType)
	assert.Equal(t, unit.CreatedAt, fx.store.units[unit.ID].CreatedAt)

	_, err = fx.svcs.Facilities.UpdateUnit(context.Background(), principal(uuid.New(), domain.PermissionWrite), unit.ID,
		domain.StorageUnitUpdate{SetTemperature: ptr(5.0)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, -25.0, fx.store.units[unit.ID].SetTemperature)

	_, err = fx.svcs.Facilities.UpdateUnit(context.Background(), principal(own, domain.PermissionWrite), unit.ID,
		domain.StorageUnitUpdate{TemperatureUnit: ptr("R")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
