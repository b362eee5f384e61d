package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/auth"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/cloud"
	"github.com/aryan-at-ul/temperature-monitoring-system-sub001/internal/domain"
)

type AnalyticsService struct {
	invoker AnalyticsInvoker
	guard   guard
	log     zerolog.Logger
}

// TriggerDaily queues the daily analytics job for date. A nil facilityID
// covers every facility.
func (s *AnalyticsService) TriggerDaily(ctx context.Context, p auth.Principal, date time.Time, facilityID *uuid.UUID) error {
	if err := s.guard.permission(p, domain.PermissionAdmin); err != nil {
		return err
	}
	if s.invoker == nil {
		return ErrCloudDisabled
	}

	payload := cloud.AnalyticsPayload{Date: date.Format("2006-01-02")}
	if facilityID != nil {
		payload.FacilityID = facilityID.String()
	}
	if err := s.invoker.InvokeAnalyticsAsync(ctx, payload); err != nil {
		return err
	}

	s.log.Info().Str("date", payload.Date).Str("facility_id", payload.FacilityID).Msg("analytics queued")
	return nil
}
