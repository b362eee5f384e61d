// Package analytics builds the daily cold-chain report: per-unit temperature
// summaries, set-point excursions and equipment failures for one UTC day.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/aggregator"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/cloud"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

const (
	DateLayout = "2006-01-02"

	// ExcursionToleranceCelsius is how far a reading may drift from its
	// unit's set point before it counts as an excursion.
	ExcursionToleranceCelsius = 2.0

	trendWindow          = 12
	excursionRateWarning = 10.0
	failureRateCritical  = 5.0
	allFacilities        = "all"
)

type Store interface {
	ReadingsBetween(ctx context.Context, facilityID *uuid.UUID, start, end time.Time) ([]domain.TemperatureReading, error)
	GetStorageUnit(ctx context.Context, id uuid.UUID) (domain.StorageUnit, error)
}

type ReportUploader interface {
	UploadExport(ctx context.Context, key string, data []byte) (string, error)
}

type SummaryWriter interface {
	PutDailySummary(ctx context.Context, s cloud.DailySummary) error
}

// Config wires a Processor. Reports and Summaries are optional.
type Config struct {
	Store     Store
	Reports   ReportUploader
	Summaries SummaryWriter
	Clock     clockwork.Clock
	Logger    zerolog.Logger
}

type Processor struct {
	cfg Config
}

func NewProcessor(cfg Config) *Processor {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return &Processor{cfg: cfg}
}

type UnitSummary struct {
	UnitID         uuid.UUID `json:"unit_id"`
	UnitCode       string    `json:"unit_code"`
	SetCelsius     float64   `json:"set_celsius"`
	ReadingCount   int       `json:"reading_count"`
	FailedReadings int       `json:"failed_readings"`
	Excursions     int       `json:"excursions"`
	ExcursionRate  float64   `json:"excursion_rate_percent"`
	FailureRate    float64   `json:"failure_rate_percent"`
	MinCelsius     *float64  `json:"min_celsius"`
	MaxCelsius     *float64  `json:"max_celsius"`
	AvgCelsius     *float64  `json:"avg_celsius"`
	Trend          []float64 `json:"trend,omitempty"`
}

type HourlyData struct {
	Count      int     `json:"count"`
	Failures   int     `json:"failures"`
	AvgCelsius float64 `json:"avg_celsius"`

	total float64
	valid int
}

type Recommendation struct {
	Priority string `json:"priority"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

type DailyReport struct {
	Date            string                `json:"date"`
	FacilityID      string                `json:"facility_id"`
	GeneratedAt     time.Time             `json:"generated_at"`
	ReadingCount    int                   `json:"reading_count"`
	FailedReadings  int                   `json:"failed_readings"`
	Excursions      int                   `json:"excursions"`
	MinCelsius      *float64              `json:"min_celsius"`
	MaxCelsius      *float64              `json:"max_celsius"`
	AvgCelsius      *float64              `json:"avg_celsius"`
	Units           []UnitSummary         `json:"units"`
	Hourly          map[string]HourlyData `json:"hourly"`
	Recommendations []Recommendation      `json:"recommendations"`
}

// Result is what the job returns to its invoker.
type Result struct {
	Date         string `json:"date"`
	FacilityID   string `json:"facility_id"`
	ReadingCount int    `json:"reading_count"`
	ReportKey    string `json:"report_key,omitempty"`
	ReportURL    string `json:"report_url,omitempty"`
}

// Handle runs the report for the payload's day, defaulting to yesterday
// (UTC). Days without readings produce no report.
func (p *Processor) Handle(ctx context.Context, ev cloud.AnalyticsPayload) (Result, error) {
	day, err := p.day(ev.Date)
	if err != nil {
		return Result{}, err
	}
	var facilityID *uuid.UUID
	scope := allFacilities
	if ev.FacilityID != "" {
		id, err := uuid.Parse(ev.FacilityID)
		if err != nil {
			return Result{}, domain.NewValidationError("facility_id", "invalid facility id %q", ev.FacilityID)
		}
		facilityID = &id
		scope = id.String()
	}
	res := Result{Date: day.Format(DateLayout), FacilityID: scope}
	log := p.cfg.Logger.With().Str("date", res.Date).Str("facility_id", scope).Logger()

	readings, err := p.cfg.Store.ReadingsBetween(ctx, facilityID, day, day.Add(24*time.Hour))
	if err != nil {
		return Result{}, err
	}
	res.ReadingCount = len(readings)
	if len(readings) == 0 {
		log.Info().Msg("no readings to process")
		return res, nil
	}

	report, err := p.Build(ctx, res.Date, scope, readings)
	if err != nil {
		return Result{}, err
	}

	res.ReportKey = fmt.Sprintf("reports/%s/%s-analytics.json", scope, res.Date)
	if p.cfg.Reports != nil {
		body, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return Result{}, fmt.Errorf("marshal report: %w", err)
		}
		if res.ReportURL, err = p.cfg.Reports.UploadExport(ctx, res.ReportKey, body); err != nil {
			return Result{}, err
		}
	}
	if p.cfg.Summaries != nil {
		if err := p.cfg.Summaries.PutDailySummary(ctx, summaryItem(report, res.ReportKey)); err != nil {
			log.Error().Err(err).Msg("store analytics summary")
		}
	}

	log.Info().Int("readings", report.ReadingCount).Int("excursions", report.Excursions).
		Int("failures", report.FailedReadings).Msg("analytics processed")
	return res, nil
}

func (p *Processor) day(date string) (time.Time, error) {
	if date == "" {
		return p.cfg.Clock.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -1), nil
	}
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, domain.NewValidationError("date", "expected YYYY-MM-DD, got %q", date)
	}
	return d, nil
}

// Build summarises readings, which must be oldest first, into a report.
func (p *Processor) Build(ctx context.Context, date, scope string, readings []domain.TemperatureReading) (DailyReport, error) {
	report := DailyReport{
		Date:         date,
		FacilityID:   scope,
		GeneratedAt:  p.cfg.Clock.Now().UTC(),
		ReadingCount: len(readings),
		Hourly:       make(map[string]HourlyData),
	}

	byUnit := make(map[uuid.UUID][]domain.TemperatureReading)
	for _, r := range readings {
		byUnit[r.StorageUnitID] = append(byUnit[r.StorageUnitID], r)
	}

	all := make([]aggregator.Point, 0, len(readings))
	for unitID, rs := range byUnit {
		unit, err := p.cfg.Store.GetStorageUnit(ctx, unitID)
		if err != nil {
			return DailyReport{}, err
		}
		sum, points, err := summariseUnit(unit, rs, report.Hourly)
		if err != nil {
			return DailyReport{}, err
		}
		report.Units = append(report.Units, sum)
		report.FailedReadings += sum.FailedReadings
		report.Excursions += sum.Excursions
		report.MinCelsius = lower(report.MinCelsius, sum.MinCelsius)
		report.MaxCelsius = higher(report.MaxCelsius, sum.MaxCelsius)
		all = append(all, points...)
	}
	sort.Slice(report.Units, func(i, j int) bool { return report.Units[i].UnitCode < report.Units[j].UnitCode })

	if len(all) > 0 {
		avg := round2(aggregator.Average(all))
		report.AvgCelsius = &avg
	}
	for hour, h := range report.Hourly {
		if h.valid > 0 {
			h.AvgCelsius = round2(h.total / float64(h.valid))
			report.Hourly[hour] = h
		}
	}
	report.Recommendations = recommendations(report.Units)
	return report, nil
}

func summariseUnit(unit domain.StorageUnit, readings []domain.TemperatureReading, hourly map[string]HourlyData) (UnitSummary, []aggregator.Point, error) {
	set, err := unit.TargetCelsius()
	if err != nil {
		return UnitSummary{}, nil, err
	}
	sum := UnitSummary{
		UnitID:       unit.ID,
		UnitCode:     unit.UnitCode,
		SetCelsius:   round2(set),
		ReadingCount: len(readings),
	}
	points := make([]aggregator.Point, 0, len(readings))

	for _, r := range readings {
		hour := r.RecordedAt.UTC().Format("15")
		h := hourly[hour]
		h.Count++
		if r.IsEquipmentFailure() {
			sum.FailedReadings++
			h.Failures++
			hourly[hour] = h
			continue
		}
		c, err := r.Celsius()
		if err != nil {
			return UnitSummary{}, nil, err
		}
		h.total += *c
		h.valid++
		hourly[hour] = h

		if math.Abs(*c-set) > ExcursionToleranceCelsius {
			sum.Excursions++
		}
		sum.MinCelsius = lower(sum.MinCelsius, c)
		sum.MaxCelsius = higher(sum.MaxCelsius, c)
		points = append(points, aggregator.Point{Value: *c, Timestamp: r.RecordedAt})
	}

	if len(points) > 0 {
		avg := round2(aggregator.Average(points))
		sum.AvgCelsius = &avg
		sum.ExcursionRate = round2(float64(sum.Excursions) / float64(len(points)) * 100)
	}
	if len(points) >= trendWindow {
		sum.Trend = aggregator.MovingAverage(points, trendWindow)
	}
	sum.FailureRate = round2(float64(sum.FailedReadings) / float64(sum.ReadingCount) * 100)
	return sum, points, nil
}

func recommendations(units []UnitSummary) []Recommendation {
	recs := []Recommendation{}
	for _, u := range units {
		if u.ExcursionRate > excursionRateWarning {
			recs = append(recs, Recommendation{
				Priority: "high",
				Category: "temperature_control",
				Message: fmt.Sprintf("Unit %s was more than %.1fC from its %.1fC set point in %.1f%% of readings. Check door seals and compressor load.",
					u.UnitCode, ExcursionToleranceCelsius, u.SetCelsius, u.ExcursionRate),
			})
		}
		if u.FailedReadings > 0 {
			priority := "medium"
			if u.FailureRate > failureRateCritical {
				priority = "high"
			}
			recs = append(recs, Recommendation{
				Priority: priority,
				Category: "reliability",
				Message:  fmt.Sprintf("Unit %s reported %d failed readings. Inspect the sensor and schedule a service visit.", u.UnitCode, u.FailedReadings),
			})
		}
	}
	return recs
}

func summaryItem(r DailyReport, key string) cloud.DailySummary {
	return cloud.DailySummary{
		FacilityID:     r.FacilityID,
		Date:           r.Date,
		UnitCount:      len(r.Units),
		ReadingCount:   r.ReadingCount,
		FailedReadings: r.FailedReadings,
		Excursions:     r.Excursions,
		AvgCelsius:     r.AvgCelsius,
		MinCelsius:     r.MinCelsius,
		MaxCelsius:     r.MaxCelsius,
		ReportKey:      key,
		CreatedAt:      r.GeneratedAt.Unix(),
	}
}

func lower(cur, v *float64) *float64 {
	if v == nil || (cur != nil && *cur <= *v) {
		return cur
	}
	out := *v
	return &out
}

func higher(cur, v *float64) *float64 {
	if v == nil || (cur != nil && *cur >= *v) {
		return cur
	}
	out := *v
	return &out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
