package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/query"
)

type ExportService struct {
	readings *TemperatureService
	exporter Exporter
	clock    clockwork.Clock
	log      zerolog.Logger
}

type ExportResult struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Readings int    `json:"readings"`
}

// Export runs q with the same access rules as Query and uploads the result
// as JSON.
func (s *ExportService) Export(ctx context.Context, p auth.Principal, q query.TemperatureQuery) (ExportResult, error) {
	if s.exporter == nil {
		return ExportResult{}, ErrCloudDisabled
	}
	views, err := s.readings.Query(ctx, p, q)
	if err != nil {
		return ExportResult{}, err
	}

	data, err := json.Marshal(views)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to marshal export: %w", err)
	}

	scope := "all"
	if id, ok := q.CustomerID(); ok {
		scope = id.String()
	} else if !p.IsAdmin() {
		scope = p.CustomerID.String()
	}
	key := fmt.Sprintf("exports/%s/%s-%s.json", scope, s.clock.Now().UTC().Format("20060102T150405Z"), uuid.NewString()[:8])

	url, err := s.exporter.UploadExport(ctx, key, data)
	if err != nil {
		return ExportResult{}, err
	}

	s.log.Info().Str("key", key).Int("readings", len(views)).Msg("readings exported")
	return ExportResult{Key: key, URL: url, Readings: len(views)}, nil
}
