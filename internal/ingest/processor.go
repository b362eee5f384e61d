package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/cloud"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/observability"
)

type Store interface {
	GetCustomerByCode(ctx context.Context, code string) (domain.Customer, error)
	GetFacilityByCode(ctx context.Context, customerID uuid.UUID, code string) (domain.Facility, error)
	GetStorageUnitByCode(ctx context.Context, facilityID uuid.UUID, code string) (domain.StorageUnit, error)
	InsertReading(ctx context.Context, r domain.TemperatureReading) error
}

type LatestReadingWriter interface {
	PutLatestReading(ctx context.Context, r domain.TemperatureReading, unitCode string) error
}

type AlertRecorder interface {
	CreateAlert(ctx context.Context, facilityID, unitID uuid.UUID, severity, alertType, message string, at time.Time) (string, error)
}

type FailureNotifier interface {
	SendFailureAlert(ctx context.Context, n cloud.FailureNotice) (string, error)
}

// Config wires a Processor. The cloud sinks are optional.
type Config struct {
	Store    Store
	Latest   LatestReadingWriter
	Alerts   AlertRecorder
	Notifier FailureNotifier
	Metrics  *observability.Metrics
	Logger   zerolog.Logger
}

type location struct {
	customerID uuid.UUID
	facilityID uuid.UUID
	unitID     uuid.UUID
}

// Processor turns sensor messages into stored readings.
type Processor struct {
	cfg Config

	mu      sync.RWMutex
	codes   map[string]location
	failing map[uuid.UUID]bool
}

func NewProcessor(cfg Config) *Processor {
	return &Processor{
		cfg:     cfg,
		codes:   make(map[string]location),
		failing: make(map[uuid.UUID]bool),
	}
}

// Handle decodes and stores one message. Equipment failures raise an alert
// when a unit enters the failed state, not on every failed reading.
func (p *Processor) Handle(ctx context.Context, topic string, payload []byte) error {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		p.reject("decode")
		return fmt.Errorf("decode %s payload: %w", topic, err)
	}

	loc, err := p.resolve(ctx, msg)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			p.reject("lookup")
		} else {
			p.reject("store")
		}
		return err
	}

	r, err := domain.NewTemperatureReading(domain.ReadingParams{
		CustomerID:      loc.customerID,
		FacilityID:      loc.facilityID,
		StorageUnitID:   loc.unitID,
		Temperature:     msg.Temperature,
		TemperatureUnit: msg.TemperatureUnit,
		RecordedAt:      msg.RecordedAt,
		SensorID:        msg.SensorID,
		QualityScore:    msg.QualityScore,
		EquipmentStatus: msg.EquipmentStatus,
	})
	if err != nil {
		p.reject("invalid")
		return err
	}

	if err := p.cfg.Store.InsertReading(ctx, r); err != nil {
		p.reject("store")
		return err
	}
	p.cfg.Metrics.ReadingsIngested.Inc()

	if p.cfg.Latest != nil {
		if err := p.cfg.Latest.PutLatestReading(ctx, r, msg.UnitCode); err != nil {
			p.cfg.Logger.Warn().Err(err).Str("unit_id", loc.unitID.String()).Msg("latest reading mirror failed")
		}
	}

	failed := r.IsEquipmentFailure()
	if failed {
		p.cfg.Metrics.EquipmentFailures.Inc()
	}
	if p.transition(loc.unitID, failed) {
		p.alert(ctx, msg, r)
	}
	return nil
}

// resolve maps the message's codes to IDs, caching hits.
func (p *Processor) resolve(ctx context.Context, msg Message) (location, error) {
	key := msg.CustomerCode + "/" + msg.FacilityCode + "/" + msg.UnitCode
	p.mu.RLock()
	loc, ok := p.codes[key]
	p.mu.RUnlock()
	if ok {
		return loc, nil
	}

	c, err := p.cfg.Store.GetCustomerByCode(ctx, msg.CustomerCode)
	if err != nil {
		return location{}, err
	}
	f, err := p.cfg.Store.GetFacilityByCode(ctx, c.ID, msg.FacilityCode)
	if err != nil {
		return location{}, err
	}
	u, err := p.cfg.Store.GetStorageUnitByCode(ctx, f.ID, msg.UnitCode)
	if err != nil {
		return location{}, err
	}

	loc = location{customerID: c.ID, facilityID: f.ID, unitID: u.ID}
	p.mu.Lock()
	p.codes[key] = loc
	p.mu.Unlock()
	return loc, nil
}

// transition records the unit's state and reports whether it just failed.
func (p *Processor) transition(unitID uuid.UUID, failed bool) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	was := p.failing[unitID]
	p.failing[unitID] = failed
	return failed && !was
}

func (p *Processor) alert(ctx context.Context, msg Message, r domain.TemperatureReading) {
	log := p.cfg.Logger.With().
		Str("customer_code", msg.CustomerCode).
		Str("facility_code", msg.FacilityCode).
		Str("unit_code", msg.UnitCode).
		Logger()
	log.Warn().Str("status", string(r.EquipmentStatus)).Msg("equipment failure")

	if p.cfg.Alerts != nil {
		text := fmt.Sprintf("%s reported %s", domain.UnitDisplayName(domain.StorageUnit{UnitCode: msg.UnitCode}), domain.TemperatureDisplay(r))
		if _, err := p.cfg.Alerts.CreateAlert(ctx, r.FacilityID, r.StorageUnitID, "critical", "equipment_failure", text, r.RecordedAt); err != nil {
			log.Error().Err(err).Msg("alert record failed")
		}
	}
	if p.cfg.Notifier != nil {
		n := cloud.FailureNotice{
			CustomerCode: msg.CustomerCode,
			FacilityCode: msg.FacilityCode,
			UnitCode:     msg.UnitCode,
			Status:       string(r.EquipmentStatus),
			RecordedAt:   r.RecordedAt,
		}
		if r.SensorID != nil {
			n.SensorID = *r.SensorID
		}
		if _, err := p.cfg.Notifier.SendFailureAlert(ctx, n); err != nil {
			log.Error().Err(err).Msg("failure alert failed")
			return
		}
		p.cfg.Metrics.AlertsSent.Inc()
	}
}

func (p *Processor) reject(reason string) {
	p.cfg.Metrics.IngestErrors.WithLabelValues(reason).Inc()
}
