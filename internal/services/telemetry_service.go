package services

import (
	"context"
	"encoding/json"

	"github.com/petdex/analytics/internal/analytics"
	"github.com/petdex/analytics/internal/cache"
	"github.com/petdex/analytics/internal/logging"
	"github.com/petdex/analytics/internal/models"
	"github.com/petdex/analytics/internal/observability"
	"github.com/petdex/analytics/internal/upstream"
)

// Fetcher reads raw telemetry pages from the upstream source
type Fetcher interface {
	FetchPage(ctx context.Context, kind models.TelemetryKind, page, size int) (*upstream.Page, error)
	FetchAll(ctx context.Context, kind models.TelemetryKind) ([]json.RawMessage, error)
}

// TelemetryService loads and decodes telemetry collections.
// It logs through the request logger carried by ctx.
type TelemetryService struct {
	fetcher   Fetcher
	snapshots *cache.Snapshots
	limits    analytics.Limits
}

// NewTelemetryService creates a new TelemetryService. snapshots may be nil.
func NewTelemetryService(
	fetcher Fetcher,
	snapshots *cache.Snapshots,
	limits analytics.Limits,
) *TelemetryService {
	return &TelemetryService{
		fetcher:   fetcher,
		snapshots: snapshots,
		limits:    limits,
	}
}

// HeartRates returns every heart-rate record of the animal
func (s *TelemetryService) HeartRates(ctx context.Context) ([]models.HeartRateRecord, error) {
	raw, err := s.collection(ctx, models.KindHeartRate)
	if err != nil {
		return nil, err
	}

	records, dropped := models.DecodeHeartRates(raw, s.limits.Zone())
	logDropped(ctx, models.KindHeartRate, dropped, len(raw))
	return records, nil
}

// Motions returns every motion record of the animal
func (s *TelemetryService) Motions(ctx context.Context) ([]models.MotionRecord, error) {
	raw, err := s.collection(ctx, models.KindMotion)
	if err != nil {
		return nil, err
	}

	records, dropped := models.DecodeMotions(raw, s.limits.Zone())
	logDropped(ctx, models.KindMotion, dropped, len(raw))
	return records, nil
}

// HeartRatePage returns one decoded upstream page of heart-rate records
func (s *TelemetryService) HeartRatePage(ctx context.Context, page, size int) (*models.PageResponse[models.HeartRateRecord], error) {
	p, err := s.fetcher.FetchPage(ctx, models.KindHeartRate, page, size)
	if err != nil {
		return nil, fetchError(err)
	}

	records, dropped := models.DecodeHeartRates(p.Content, s.limits.Zone())
	return &models.PageResponse[models.HeartRateRecord]{
		Data:          records,
		Page:          p.Number,
		Size:          p.Size,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
		Dropped:       dropped,
	}, nil
}

// MotionPage returns one decoded upstream page of motion records
func (s *TelemetryService) MotionPage(ctx context.Context, page, size int) (*models.PageResponse[models.MotionRecord], error) {
	p, err := s.fetcher.FetchPage(ctx, models.KindMotion, page, size)
	if err != nil {
		return nil, fetchError(err)
	}

	records, dropped := models.DecodeMotions(p.Content, s.limits.Zone())
	return &models.PageResponse[models.MotionRecord]{
		Data:          records,
		Page:          p.Number,
		Size:          p.Size,
		TotalPages:    p.TotalPages,
		TotalElements: p.TotalElements,
		Dropped:       dropped,
	}, nil
}

// collection returns the raw records of kind, from the snapshot cache when possible
func (s *TelemetryService) collection(ctx context.Context, kind models.TelemetryKind) ([]json.RawMessage, error) {
	key := string(kind)

	if s.snapshots != nil {
		var cached []json.RawMessage
		hit, err := s.snapshots.Load(ctx, key, &cached)
		if err != nil {
			logging.WarnCtx(ctx, "Snapshot cache read failed", "kind", key, "error", err)
			if err := s.snapshots.Invalidate(ctx, key); err != nil {
				logging.WarnCtx(ctx, "Snapshot cache invalidate failed", "kind", key, "error", err)
			}
		}
		observability.RecordCacheLookup(key, hit)
		if hit {
			return cached, nil
		}
	}

	raw, err := s.fetcher.FetchAll(ctx, kind)
	if err != nil {
		logging.ErrorCtx(ctx, "Failed to fetch telemetry", "kind", key, "error", err)
		return nil, fetchError(err)
	}

	if s.snapshots != nil {
		if err := s.snapshots.Save(ctx, key, raw); err != nil {
			logging.WarnCtx(ctx, "Snapshot cache write failed", "kind", key, "error", err)
		} else {
			logging.InfoCtx(ctx, "Cached telemetry snapshot", "kind", key, "records", len(raw))
		}
	}
	return raw, nil
}

func logDropped(ctx context.Context, kind models.TelemetryKind, dropped, total int) {
	if dropped == 0 {
		return
	}
	logging.WarnCtx(ctx, "Dropped malformed records",
		"kind", string(kind),
		"dropped", dropped,
		"total", total)
}
