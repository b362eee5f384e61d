package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/cloud"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/observability"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/repository"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	customers  map[uuid.UUID]domain.Customer
	facilities map[uuid.UUID]domain.Facility
	units      map[uuid.UUID]domain.StorageUnit
	readings   []domain.TemperatureReading
	failures   []repository.FailureRecord

	lastQuery           *query.TemperatureQuery
	lastFailureCustomer *uuid.UUID
	lastSince           time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:  map[uuid.UUID]domain.Customer{},
		facilities: map[uuid.UUID]domain.Facility{},
		units:      map[uuid.UUID]domain.StorageUnit{},
	}
}

func (f *fakeStore) QueryReadings(_ context.Context, q query.TemperatureQuery) ([]domain.TemperatureReading, error) {
	f.lastQuery = &q
	return f.readings, nil
}

func (f *fakeStore) EquipmentFailures(_ context.Context, customerID *uuid.UUID, since time.Time) ([]repository.FailureRecord, error) {
	f.lastFailureCustomer = customerID
	f.lastSince = since
	return f.failures, nil
}

func (f *fakeStore) ReadingsSince(_ context.Context, customerID uuid.UUID, since time.Time) ([]domain.TemperatureReading, error) {
	f.lastSince = since
	var out []domain.TemperatureReading
	for _, r := range f.readings {
		if r.CustomerID == customerID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) UnitReadingsSince(_ context.Context, unitID uuid.UUID, since time.Time) ([]domain.TemperatureReading, error) {
	var out []domain.TemperatureReading
	for _, r := range f.readings {
		if r.StorageUnitID == unitID && r.RecordedAt.After(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertReading(_ context.Context, r domain.TemperatureReading) error {
	f.readings = append(f.readings, r)
	return nil
}

func (f *fakeStore) LatestReadings(_ context.Context, customerID uuid.UUID, limit int) ([]domain.TemperatureReading, error) {
	latest := map[uuid.UUID]domain.TemperatureReading{}
	for _, r := range f.readings {
		if cur, ok := latest[r.StorageUnitID]; r.CustomerID == customerID && (!ok || r.RecordedAt.After(cur.RecordedAt)) {
			latest[r.StorageUnitID] = r
		}
	}
	out := []domain.TemperatureReading{}
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) LatestUnitReading(_ context.Context, unitID uuid.UUID) (domain.TemperatureReading, error) {
	var (
		best  domain.TemperatureReading
		found bool
	)
	for _, r := range f.readings {
		if r.StorageUnitID == unitID && (!found || r.RecordedAt.After(best.RecordedAt)) {
			best, found = r, true
		}
	}
	if !found {
		return domain.TemperatureReading{}, domain.NewNotFound("reading for storage unit", unitID.String())
	}
	return best, nil
}

func (f *fakeStore) ListCustomers(context.Context) ([]domain.Customer, error) {
	out := []domain.Customer{}
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) GetCustomer(_ context.Context, id uuid.UUID) (domain.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return domain.Customer{}, domain.NewNotFound("customer", id.String())
	}
	return c, nil
}

func (f *fakeStore) GetCustomerByCode(_ context.Context, code string) (domain.Customer, error) {
	for _, c := range f.customers {
		if c.CustomerCode == code {
			return c, nil
		}
	}
	return domain.Customer{}, domain.NewNotFound("customer", code)
}

func (f *fakeStore) InsertCustomer(_ context.Context, c domain.Customer) error {
	f.customers[c.ID] = c
	return nil
}

func (f *fakeStore) ListFacilities(_ context.Context, customerID uuid.UUID) ([]domain.Facility, error) {
	var out []domain.Facility
	for _, fac := range f.facilities {
		if fac.CustomerID == customerID {
			out = append(out, fac)
		}
	}
	return out, nil
}

func (f *fakeStore) GetFacility(_ context.Context, id uuid.UUID) (domain.Facility, error) {
	fac, ok := f.facilities[id]
	if !ok {
		return domain.Facility{}, domain.NewNotFound("facility", id.String())
	}
	return fac, nil
}

func (f *fakeStore) InsertFacility(_ context.Context, fac domain.Facility) error {
	f.facilities[fac.ID] = fac
	return nil
}

func (f *fakeStore) ListStorageUnits(_ context.Context, facilityID uuid.UUID) ([]domain.StorageUnit, error) {
	var out []domain.StorageUnit
	for _, u := range f.units {
		if u.FacilityID == facilityID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) GetStorageUnit(_ context.Context, id uuid.UUID) (domain.StorageUnit, error) {
	u, ok := f.units[id]
	if !ok {
		return domain.StorageUnit{}, domain.NewNotFound("storage unit", id.String())
	}
	return u, nil
}

func (f *fakeStore) InsertStorageUnit(_ context.Context, u domain.StorageUnit) error {
	f.units[u.ID] = u
	return nil
}

func (f *fakeStore) UpdateFacility(_ context.Context, fac domain.Facility) error {
	if _, ok := f.facilities[fac.ID]; !ok {
		return domain.NewNotFound("facility", fac.ID.String())
	}
	f.facilities[fac.ID] = fac
	return nil
}

func (f *fakeStore) UpdateStorageUnit(_ context.Context, u domain.StorageUnit) error {
	if _, ok := f.units[u.ID]; !ok {
		return domain.NewNotFound("storage unit", u.ID.String())
	}
	f.units[u.ID] = u
	return nil
}

func (f *fakeStore) addFacility(customerID uuid.UUID, code string) domain.Facility {
	fac := domain.Facility{ID: uuid.New(), CustomerID: customerID, FacilityCode: code, CreatedAt: testNow}
	f.facilities[fac.ID] = fac
	return fac
}

func (f *fakeStore) addUnit(facilityID uuid.UUID, code string, createdAt time.Time) domain.StorageUnit {
	u := domain.StorageUnit{
		ID:              uuid.New(),
		FacilityID:      facilityID,
		UnitCode:        code,
		SizeValue:       20,
		SizeUnit:        domain.SquareMeters,
		SetTemperature:  -18,
		TemperatureUnit: domain.Celsius,
		EquipmentType:   domain.DefaultEquipmentType,
		CreatedAt:       createdAt,
	}
	f.units[u.ID] = u
	return u
}

type fakeExporter struct {
	key  string
	data []byte
}

func (f *fakeExporter) UploadExport(_ context.Context, key string, data []byte) (string, error) {
	f.key, f.data = key, data
	return "https://exports.example/" + key, nil
}

type fakeNotifier struct {
	units []string
}

func (f *fakeNotifier) SendMaintenanceAlert(_ context.Context, unitCode string, _ float64, _ time.Time) (string, error) {
	f.units = append(f.units, unitCode)
	return "msg-1", nil
}

type fakeLatest struct {
	items map[uuid.UUID]cloud.LatestReading
	err   error
}

func (f *fakeLatest) GetLatestReading(_ context.Context, unitID uuid.UUID) (cloud.LatestReading, bool, error) {
	if f.err != nil {
		return cloud.LatestReading{}, false, f.err
	}
	lr, ok := f.items[unitID]
	return lr, ok, nil
}

func (f *fakeLatest) PutLatestReading(_ context.Context, r domain.TemperatureReading, unitCode string) error {
	if f.items == nil {
		f.items = map[uuid.UUID]cloud.LatestReading{}
	}
	f.items[r.StorageUnitID] = cloud.LatestReading{
		UnitID:          r.StorageUnitID.String(),
		UnitCode:        unitCode,
		FacilityID:      r.FacilityID.String(),
		CustomerID:      r.CustomerID.String(),
		Timestamp:       r.RecordedAt.Unix(),
		Temperature:     r.Temperature,
		TemperatureUnit: string(r.TemperatureUnit),
		Status:          string(r.EquipmentStatus),
		QualityScore:    r.QualityScore,
	}
	return nil
}

type fakeInvoker struct {
	payloads []cloud.AnalyticsPayload
}

func (f *fakeInvoker) InvokeAnalyticsAsync(_ context.Context, p cloud.AnalyticsPayload) error {
	f.payloads = append(f.payloads, p)
	return nil
}

type fixture struct {
	store    *fakeStore
	metrics  *observability.Metrics
	exporter *fakeExporter
	notifier *fakeNotifier
	latest   *fakeLatest
	invoker  *fakeInvoker
	svcs     *Services
}

func newFixture(cloudEnabled bool) *fixture {
	fx := &fixture{
		store:    newFakeStore(),
		metrics:  observability.NewMetricsForTesting(),
		exporter: &fakeExporter{},
		notifier: &fakeNotifier{},
		latest:   &fakeLatest{},
		invoker:  &fakeInvoker{},
	}
	cfg := Config{
		Store:   fx.store,
		Issuer:  auth.NewTokenIssuer([]byte("0123456789abcdef0123456789abcdef"), "coldchain-test", clockwork.NewFakeClockAt(testNow)),
		Metrics: fx.metrics,
		Logger:  zerolog.Nop(),
		Clock:   clockwork.NewFakeClockAt(testNow),
	}
	if cloudEnabled {
		cfg.Exporter = fx.exporter
		cfg.Notifier = fx.notifier
		cfg.Latest = fx.latest
		cfg.Analytics = fx.invoker
	}
	fx.svcs = New(cfg)
	return fx
}

func principal(customerID uuid.UUID, perms ...domain.Permission) auth.Principal {
	return auth.Principal{CustomerID: customerID, Permissions: perms}
}

func ptr[T any](v T) *T { return &v }
