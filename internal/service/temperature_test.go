package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/repository"
)

func reading(customerID, unitID uuid.UUID, temp *float64, unit domain.TemperatureUnit, status domain.EquipmentStatus, at time.Time) domain.TemperatureReading {
	return domain.TemperatureReading{
		ID:              uuid.New(),
		CustomerID:      customerID,
		StorageUnitID:   unitID,
		Temperature:     temp,
		TemperatureUnit: unit,
		RecordedAt:      at,
		QualityScore:    1,
		EquipmentStatus: status,
	}
}

func TestQuery_ScopesNonAdminToOwnCustomer(t *testing.T) {
	fx := newFixture(false)
	own := uuid.New()

	q, err := query.NewTemperatureQuery()
	require.NoError(t, err)
	_, err = fx.svcs.Readings.Query(context.Background(), principal(own, domain.PermissionRead), q)
	require.NoError(t, err)

	require.NotNil(t, fx.store.lastQuery)
	got, ok := fx.store.lastQuery.CustomerID()
	require.True(t, ok)
	assert.Equal(t, own, got)
}

func TestQuery_AdminUnscoped(t *testing.T) {
	fx := newFixture(false)

	q, err := query.NewTemperatureQuery()
	require.NoError(t, err)
	_, err = fx.svcs.Readings.Query(context.Background(), principal(uuid.New(), domain.PermissionAdmin), q)
	require.NoError(t, err)

	_, ok := fx.store.lastQuery.CustomerID()
	assert.False(t, ok)
}

func TestQuery_Denials(t *testing.T) {
	own, other := uuid.New(), uuid.New()

	tests := []struct {
		name   string
		perms  []domain.Permission
		target uuid.UUID
		reason string
	}{
		{name: "missing read", perms: []domain.Permission{domain.PermissionWrite}, target: own, reason: "permission"},
		{name: "other customer", perms: []domain.Permission{domain.PermissionRead}, target: other, reason: "customer_scope"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fx := newFixture(false)
			q, err := query.NewTemperatureQuery(query.WithCustomer(tc.target))
			require.NoError(t, err)

			_, err = fx.svcs.Readings.Query(context.Background(), principal(own, tc.perms...), q)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrPermissionDenied)
			assert.Nil(t, fx.store.lastQuery)
			assert.Equal(t, 1.0, testutil.ToFloat64(fx.metrics.AccessDenied.WithLabelValues(tc.reason)))
		})
	}
}

func TestQuery_ConvertsToOutputUnit(t *testing.T) {
	fx := newFixture(false)
	own, unit := uuid.New(), uuid.New()
	fx.store.readings = []domain.TemperatureReading{
		reading(own, unit, ptr(-18.0), domain.Celsius, domain.StatusNormal, testNow),
		reading(own, unit, nil, domain.Celsius, domain.StatusFailure, testNow),
	}

	q, err := query.NewTemperatureQuery(query.WithOutputUnit(domain.Fahrenheit))
	require.NoError(t, err)
	views, err := fx.svcs.Readings.Query(context.Background(), principal(own, domain.PermissionRead), q)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, domain.Fahrenheit, views[0].TemperatureUnit)
	assert.InDelta(t, -0.4, *views[0].Temperature, 1e-9)
	assert.Equal(t, "-0.4°F", views[0].Display)
	assert.False(t, views[0].EquipmentFailure)

	assert.Nil(t, views[1].Temperature)
	assert.True(t, views[1].EquipmentFailure)
	assert.Equal(t, domain.FailureDisplay, views[1].Display)
}

func TestFailures_Window(t *testing.T) {
	own := uuid.New()

	t.Run("defaults to 24 hours for own customer", func(t *testing.T) {
		fx := newFixture(false)
		fx.store.failures = []repository.FailureRecord{{UnitCode: "unit_A_1_1"}}

		got, err := fx.svcs.Readings.Failures(context.Background(), principal(own, domain.PermissionRead), nil, 0)
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, testNow.Add(-24*time.Hour), fx.store.lastSince)
		require.NotNil(t, fx.store.lastFailureCustomer)
		assert.Equal(t, own, *fx.store.lastFailureCustomer)
	})

	t.Run("admin sees every customer", func(t *testing.T) {
		fx := newFixture(false)
		_, err := fx.svcs.Readings.Failures(context.Background(), principal(own, domain.PermissionAdmin), nil, 168)
		require.NoError(t, err)
		assert.Nil(t, fx.store.lastFailureCustomer)
		assert.Equal(t, testNow.Add(-168*time.Hour), fx.store.lastSince)
	})

	for _, hours := range []int{-1, 169} {
		fx := newFixture(false)
		_, err := fx.svcs.Readings.Failures(context.Background(), principal(own, domain.PermissionRead), nil, hours)
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.KindValidation, derr.Kind)
		assert.Equal(t, "hours", derr.Field)
	}
}

func TestStatistics(t *testing.T) {
	fx := newFixture(false)
	own, unitA, unitB := uuid.New(), uuid.New(), uuid.New()
	fx.store.readings = []domain.TemperatureReading{
		reading(own, unitA, ptr(-18.0), domain.Celsius, domain.StatusNormal, testNow.Add(-3*time.Hour)),
		reading(own, unitB, ptr(0.0), domain.Fahrenheit, domain.StatusWarning, testNow.Add(-2*time.Hour)),
		reading(own, unitB, nil, domain.Celsius, domain.StatusFailure, testNow.Add(-time.Hour)),
		reading(uuid.New(), unitA, ptr(5.0), domain.Celsius, domain.StatusNormal, testNow),
	}

	st, err := fx.svcs.Readings.Statistics(context.Background(), principal(own, domain.PermissionRead), nil, 0)
	require.NoError(t, err)

	assert.Equal(t, own, st.CustomerID)
	assert.Equal(t, 3, st.TotalReadings)
	assert.Equal(t, 2, st.ValidReadings)
	assert.Equal(t, 1, st.FailedReadings)
	assert.InDelta(t, 33.33, st.FailureRatePercent, 1e-9)
	assert.Equal(t, 2, st.ActiveUnits)
	require.NotNil(t, st.MinCelsius)
	require.NotNil(t, st.MaxCelsius)
	require.NotNil(t, st.AvgCelsius)
	assert.InDelta(t, -18.0, *st.MinCelsius, 1e-9)
	assert.InDelta(t, -17.7778, *st.MaxCelsius, 1e-4)
	assert.InDelta(t, -17.89, *st.AvgCelsius, 1e-9)
}

func TestStatistics_Empty(t *testing.T) {
	fx := newFixture(false)
	st, err := fx.svcs.Readings.Statistics(context.Background(), principal(uuid.New(), domain.PermissionRead), nil, 12)
	require.NoError(t, err)
	assert.Zero(t, st.TotalReadings)
	assert.Zero(t, st.FailureRatePercent)
	assert.Nil(t, st.AvgCelsius)
	assert.Nil(t, st.MinCelsius)
}

func TestCreate_RecordsReadingForOwnUnit(t *testing.T) {
	fx := newFixture(true)
	own := uuid.New()
	fac := fx.store.addFacility(own, "facility_A_1")
	unit := fx.store.addUnit(fac.ID, "unit_A_1_1", testNow)
	writer := principal(own, domain.PermissionWrite)

	got, err := fx.svcs.Readings.Create(context.Background(), writer, unit.ID, domain.ReadingParams{
		CustomerID:  uuid.New(),
		Temperature: ptr(-19.5),
		RecordedAt:  testNow,
	})
	require.NoError(t, err)
	assert.Equal(t, own, got.CustomerID)
	assert.Equal(t, fac.ID, got.FacilityID)
	assert.Equal(t, domain.Celsius, got.TemperatureUnit)
	assert.Equal(t, "-19.5°C", got.Display)
	require.Len(t, fx.store.readings, 1)
	assert.Equal(t, "unit_A_1_1", fx.latest.items[unit.ID].UnitCode)

	_, err = fx.svcs.Readings.Create(context.Background(), principal(own, domain.PermissionRead), unit.ID, domain.ReadingParams{})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	_, err = fx.svcs.Readings.Create(context.Background(), principal(uuid.New(), domain.PermissionWrite), unit.ID, domain.ReadingParams{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = fx.svcs.Readings.Create(context.Background(), writer, unit.ID, domain.ReadingParams{QualityScore: ptr(2.0)})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, fx.store.readings, 1)
}

func TestLatest(t *testing.T) {
	fx := newFixture(false)
	own, other := uuid.New(), uuid.New()
	unitA, unitB := uuid.New(), uuid.New()
	fx.store.readings = []domain.TemperatureReading{
		reading(own, unitA, ptr(-18.0), domain.Celsius, domain.StatusNormal, testNow.Add(-2*time.Hour)),
		reading(own, unitA, ptr(-17.0), domain.Celsius, domain.StatusNormal, testNow.Add(-time.Hour)),
		reading(own, unitB, nil, domain.Celsius, domain.StatusFailure, testNow.Add(-3*time.Hour)),
		reading(other, uuid.New(), ptr(4.0), domain.Celsius, domain.StatusNormal, testNow),
	}
	caller := principal(own, domain.PermissionRead)

	got, err := fx.svcs.Readings.Latest(context.Background(), caller, nil, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, unitA, got[0].StorageUnitID)
	assert.Equal(t, -17.0, *got[0].Temperature)
	assert.True(t, got[1].EquipmentFailure)

	_, err = fx.svcs.Readings.Latest(context.Background(), caller, nil, MaxLatestLimit+1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = fx.svcs.Readings.Latest(context.Background(), caller, &other, 10)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
}

func TestUnitLatest(t *testing.T) {
	own := uuid.New()

	t.Run("database when cloud is off", func(t *testing.T) {
		fx := newFixture(false)
		fac := fx.store.addFacility(own, "facility_A_1")
		unit := fx.store.addUnit(fac.ID, "unit_A_1_1", testNow)

		_, err := fx.svcs.Readings.UnitLatest(context.Background(), principal(own, domain.PermissionRead), unit.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		fx.store.readings = []domain.TemperatureReading{
			reading(own, unit.ID, ptr(-18.0), domain.Celsius, domain.StatusNormal, testNow),
		}
		got, err := fx.svcs.Readings.UnitLatest(context.Background(), principal(own, domain.PermissionRead), unit.ID)
		require.NoError(t, err)
		assert.Equal(t, "database", got.Source)
		assert.Equal(t, "unit_A_1_1", got.UnitCode)
	})

	t.Run("cache hit", func(t *testing.T) {
		fx := newFixture(true)
		fac := fx.store.addFacility(own, "facility_A_1")
		unit := fx.store.addUnit(fac.ID, "unit_A_1_2", testNow)
		r := reading(own, unit.ID, ptr(-21.0), domain.Celsius, domain.StatusNormal, testNow)
		r.FacilityID = fac.ID
		require.NoError(t, fx.latest.PutLatestReading(context.Background(), r, unit.UnitCode))

		got, err := fx.svcs.Readings.UnitLatest(context.Background(), principal(own, domain.PermissionRead), unit.ID)
		require.NoError(t, err)
		assert.Equal(t, "cache", got.Source)
		assert.Equal(t, -21.0, *got.Temperature)
	})

	t.Run("cache error falls back", func(t *testing.T) {
		fx := newFixture(true)
		fx.latest.err = assert.AnError
		fac := fx.store.addFacility(own, "facility_A_1")
		unit := fx.store.addUnit(fac.ID, "unit_A_1_3", testNow)
		fx.store.readings = []domain.TemperatureReading{
			reading(own, unit.ID, ptr(-18.0), domain.Celsius, domain.StatusNormal, testNow),
		}

		got, err := fx.svcs.Readings.UnitLatest(context.Background(), principal(own, domain.PermissionRead), unit.ID)
		require.NoError(t, err)
		assert.Equal(t, "database", got.Source)
	})

	t.Run("other customer's unit looks missing", func(t *testing.T) {
		fx := newFixture(false)
		fac := fx.store.addFacility(uuid.New(), "facility_B_1")
		unit := fx.store.addUnit(fac.ID, "unit_B_1_1", testNow)

		_, err := fx.svcs.Readings.UnitLatest(context.Background(), principal(own, domain.PermissionRead), unit.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
