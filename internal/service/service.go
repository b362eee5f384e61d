package service

import (
	"context"
	"errors"
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

// ErrCloudDisabled is returned by operations that need AWS when
// USE_CLOUD_SERVICES is off.
var ErrCloudDisabled = errors.New("cloud services not enabled")

type ReadingStore interface {
	QueryReadings(ctx context.Context, q query.TemperatureQuery) ([]domain.TemperatureReading, error)
	EquipmentFailures(ctx context.Context, customerID *uuid.UUID, since time.Time) ([]repository.FailureRecord, error)
	ReadingsSince(ctx context.Context, customerID uuid.UUID, since time.Time) ([]domain.TemperatureReading, error)
	UnitReadingsSince(ctx context.Context, unitID uuid.UUID, since time.Time) ([]domain.TemperatureReading, error)
	InsertReading(ctx context.Context, r domain.TemperatureReading) error
	LatestReadings(ctx context.Context, customerID uuid.UUID, limit int) ([]domain.TemperatureReading, error)
	LatestUnitReading(ctx context.Context, unitID uuid.UUID) (domain.TemperatureReading, error)
}

type FacilityStore interface {
	ListFacilities(ctx context.Context, customerID uuid.UUID) ([]domain.Facility, error)
	GetFacility(ctx context.Context, id uuid.UUID) (domain.Facility, error)
	InsertFacility(ctx context.Context, f domain.Facility) error
	ListStorageUnits(ctx context.Context, facilityID uuid.UUID) ([]domain.StorageUnit, error)
	GetStorageUnit(ctx context.Context, id uuid.UUID) (domain.StorageUnit, error)
	InsertStorageUnit(ctx context.Context, u domain.StorageUnit) error
	UpdateFacility(ctx context.Context, f domain.Facility) error
	UpdateStorageUnit(ctx context.Context, u domain.StorageUnit) error
}

type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (domain.Customer, error)
	GetCustomerByCode(ctx context.Context, code string) (domain.Customer, error)
	InsertCustomer(ctx context.Context, c domain.Customer) error
}

// Store is satisfied by *repository.Repos.
type Store interface {
	ReadingStore
	FacilityStore
	CustomerStore
}

type Exporter interface {
	UploadExport(ctx context.Context, key string, data []byte) (string, error)
}

type MaintenanceNotifier interface {
	SendMaintenanceAlert(ctx context.Context, unitCode string, risk30Days float64, nextService time.Time) (string, error)
}

// LatestCache is the per-unit latest reading mirror kept in DynamoDB.
type LatestCache interface {
	GetLatestReading(ctx context.Context, unitID uuid.UUID) (cloud.LatestReading, bool, error)
	PutLatestReading(ctx context.Context, r domain.TemperatureReading, unitCode string) error
}

type AnalyticsInvoker interface {
	InvokeAnalyticsAsync(ctx context.Context, p cloud.AnalyticsPayload) error
}

// Config wires the services. Exporter, Notifier, Latest and Analytics stay
// nil when cloud services are disabled.
type Config struct {
	Store     Store
	Issuer    *auth.TokenIssuer
	Metrics   *observability.Metrics
	Logger    zerolog.Logger
	Clock     clockwork.Clock
	Exporter  Exporter
	Notifier  MaintenanceNotifier
	Latest    LatestCache
	Analytics AnalyticsInvoker
}

type Services struct {
	Readings    *TemperatureService
	Customers   *CustomerService
	Facilities  *FacilityService
	Tokens      *TokenService
	Maintenance *MaintenanceService
	Exports     *ExportService
	Analytics   *AnalyticsService
}

func New(cfg Config) *Services {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	g := guard{metrics: cfg.Metrics}

	readings := &TemperatureService{
		store:   cfg.Store,
		latest:  cfg.Latest,
		guard:   g,
		metrics: cfg.Metrics,
		clock:   cfg.Clock,
		log:     cfg.Logger,
	}
	return &Services{
		Readings:   readings,
		Customers:  &CustomerService{store: cfg.Store, guard: g, log: cfg.Logger},
		Facilities: &FacilityService{store: cfg.Store, guard: g, log: cfg.Logger},
		Tokens:     &TokenService{issuer: cfg.Issuer, guard: g, log: cfg.Logger},
		Maintenance: &MaintenanceService{
			store:    cfg.Store,
			notifier: cfg.Notifier,
			guard:    g,
			metrics:  cfg.Metrics,
			clock:    cfg.Clock,
			log:      cfg.Logger,
			alerted:  make(map[uuid.UUID]bool),
		},
		Exports:   &ExportService{readings: readings, exporter: cfg.Exporter, clock: cfg.Clock, log: cfg.Logger},
		Analytics: &AnalyticsService{invoker: cfg.Analytics, guard: g, log: cfg.Logger},
	}
}

// guard runs access checks and counts refusals.
type guard struct {
	metrics *observability.Metrics
}

func (g guard) permission(p auth.Principal, required domain.Permission) error {
	if err := auth.CheckPermission(p.Permissions, required); err != nil {
		g.metrics.AccessDenied.WithLabelValues("permission").Inc()
		return err
	}
	return nil
}

func (g guard) authorize(p auth.Principal, required domain.Permission, customerID uuid.UUID) error {
	if err := g.permission(p, required); err != nil {
		return err
	}
	if err := auth.CheckCustomerAccess(p.CustomerID, customerID, p.Permissions); err != nil {
		g.metrics.AccessDenied.WithLabelValues("customer_scope").Inc()
		return err
	}
	return nil
}

// ownedBy authorizes access to a single resource of customerID. A resource
// of another customer is reported as not found, the same as a missing one.
func (g guard) ownedBy(p auth.Principal, required domain.Permission, customerID uuid.UUID, resource string, id uuid.UUID) error {
	if err := g.permission(p, required); err != nil {
		return err
	}
	if err := auth.CheckCustomerAccess(p.CustomerID, customerID, p.Permissions); err != nil {
		g.metrics.AccessDenied.WithLabelValues("customer_scope").Inc()
		return domain.NewNotFound(resource, id.String())
	}
	return nil
}

// customerOrOwn authorizes access to requested, defaulting to the caller's
// own customer.
func (g guard) customerOrOwn(p auth.Principal, required domain.Permission, requested *uuid.UUID) (uuid.UUID, error) {
	id := p.CustomerID
	if requested != nil {
		id = *requested
	}
	return id, g.authorize(p, required, id)
}
