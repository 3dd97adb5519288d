package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/leettrack-backend/internal/domain"
	"github.com/yungbote/leettrack-backend/internal/observability"
	"github.com/yungbote/leettrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
	"github.com/yungbote/leettrack-backend/internal/statcache"
)

const cacheDailyProblem = "daily_problem"

type DailyProblemService interface {
	GetProblemOfTheDay(ctx context.Context) (*domain.DailyProblemRecord, error)
	GetProblemOfTheDayView(ctx context.Context) (*DailyProblemView, error)
}

type DailyProblemConfig struct {
	CoalesceRefresh bool
	Now             func() time.Time
}

type dailyProblemService struct {
	log      *logger.Logger
	store    DailyProblemStore
	upstream DailyProblemUpstream
	days     *statcache.DayKeyer
	metrics  *observability.Metrics
	coalesce bool
	now      func() time.Time
	group    singleflight.Group
}

func NewDailyProblemService(log *logger.Logger, store DailyProblemStore, upstream DailyProblemUpstream, days *statcache.DayKeyer, metrics *observability.Metrics, cfg DailyProblemConfig) DailyProblemService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &dailyProblemService{
		log:      log.With("service", "DailyProblemService"),
		store:    store,
		upstream: upstream,
		days:     days,
		metrics:  metrics,
		coalesce: cfg.CoalesceRefresh,
		now:      cfg.Now,
	}
}

func (s *dailyProblemService) GetProblemOfTheDay(ctx context.Context) (*domain.DailyProblemRecord, error) {
	ctx = ctxutil.Default(ctx)
	ctx, span := tracer.Start(ctx, "DailyProblemService.GetProblemOfTheDay")
	defer span.End()

	now := s.now()
	dayKey := s.days.DayKey(now)
	span.SetAttributes(attribute.String("leettrack.day_key", dayKey))
	log := s.log.With(append([]interface{}{"day_key", dayKey}, ctxutil.LogFields(ctx)...)...)

	rec, err := s.store.FindByDayKey(ctx, dayKey)
	if err != nil {
		log.Warn("daily problem read failed; treating as miss", "error", err)
		s.metrics.IncStoreError(cacheDailyProblem, "find")
		rec = nil
	}
	if rec != nil {
		s.metrics.IncCacheOutcome(cacheDailyProblem, "hit")
		return rec, nil
	}

	if s.coalesce {
		v, err, _ := s.group.Do(dayKey, func() (interface{}, error) {
			return s.fetch(context.WithoutCancel(ctx), log, dayKey, now)
		})
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}
		return v.(*domain.DailyProblemRecord), nil
	}
	rec, err = s.fetch(ctx, log, dayKey, now)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	return rec, nil
}

func (s *dailyProblemService) fetch(ctx context.Context, log *logger.Logger, dayKey string, now time.Time) (*domain.DailyProblemRecord, error) {
	raw, err := s.upstream.FetchDailyProblem(ctx)
	if err != nil {
		s.metrics.IncCacheOutcome(cacheDailyProblem, "upstream_error")
		log.Error("upstream daily problem fetch failed", "error", err)
		return nil, fmt.Errorf("%w: fetch daily problem: %w", ErrUpstreamUnavailable, err)
	}
	rec, err := statcache.ParseDailyProblem(raw)
	if err != nil {
		s.metrics.IncCacheOutcome(cacheDailyProblem, "upstream_error")
		log.Error("upstream daily problem payload rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	rec.DayKey = dayKey
	rec.FetchedAt = now.UTC().Truncate(time.Microsecond)

	if err := s.store.Upsert(ctx, rec); err != nil {
		s.metrics.IncStoreError(cacheDailyProblem, "upsert")
		log.Error("daily problem write failed", "error", err)
	}
	s.metrics.IncCacheOutcome(cacheDailyProblem, "refreshed")
	log.Info("daily problem cached", "title", rec.Title)
	return rec, nil
}

func (s *dailyProblemService) GetProblemOfTheDayView(ctx context.Context) (*DailyProblemView, error) {
	rec, err := s.GetProblemOfTheDay(ctx)
	if err != nil {
		return nil, err
	}
	return NewDailyProblemView(rec), nil
}
