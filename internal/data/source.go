package data

import (
	"context"
	"time"

	"ev-charge-planner/internal/logger"
	"ev-charge-planner/internal/metrics"
	"ev-charge-planner/internal/model"
)

// CachedSource serves fetches from Cache when possible and records outcomes.
type CachedSource struct {
	Upstream Source
	Cache    Cache
	Metrics  metrics.Recorder
	Log      logger.Logger
}

func NewCachedSource(upstream Source, cache Cache, rec metrics.Recorder, log logger.Logger) *CachedSource {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &CachedSource{Upstream: upstream, Cache: cache, Metrics: rec, Log: log}
}

func (s *CachedSource) Fetch(ctx context.Context, start, end time.Time) ([]model.PriceSlot, error) {
	key := CacheKey(start, end)
	if s.Cache != nil {
		if slots, ok := s.Cache.Get(ctx, key); ok {
			s.Metrics.RecordCache(true)
			return slots, nil
		}
		s.Metrics.RecordCache(false)
	}

	slots, err := s.Upstream.Fetch(ctx, start, end)
	if err != nil {
		s.Metrics.RecordFetch(metrics.FetchError)
		return nil, err
	}
	s.Metrics.RecordFetch(metrics.FetchOK)

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, key, slots); err != nil {
			s.Log.Warnf("price cache set: %v", err)
		}
	}
	return slots, nil
}

// StaticSource always returns the same series. Useful for offline data files.
type StaticSource []model.PriceSlot

func (s StaticSource) Fetch(context.Context, time.Time, time.Time) ([]model.PriceSlot, error) {
	return append([]model.PriceSlot(nil), s...), nil
}
