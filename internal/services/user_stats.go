package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/yungbote/leettrack-backend/internal/clients/leetcode"
	"github.com/yungbote/leettrack-backend/internal/domain"
	"github.com/yungbote/leettrack-backend/internal/observability"
	"github.com/yungbote/leettrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
	"github.com/yungbote/leettrack-backend/internal/statcache"
)

const cacheUserStats = "user_stats"

var tracer = otel.Tracer("github.com/yungbote/leettrack-backend/internal/services")

type UserStatsService interface {
	GetUserStats(ctx context.Context, username string) (*domain.UserCacheRecord, error)
	GetStatsView(ctx context.Context, username string) (*StatsView, error)
	GetDifficultyView(ctx context.Context, username string, d domain.Difficulty) (*DifficultyView, error)
	GetRecentSubmissions(ctx context.Context, username string) (*RecentSubmissionsView, error)
}

type UserStatsConfig struct {
	TTL time.Duration
	// CoalesceRefresh shares one upstream refresh between concurrent misses
	// for the same username.
	CoalesceRefresh bool
	Now             func() time.Time
}

type userStatsService struct {
	log      *logger.Logger
	store    UserStatsStore
	upstream StatsUpstream
	metrics  *observability.Metrics
	ttl      time.Duration
	coalesce bool
	now      func() time.Time
	group    singleflight.Group
}

func NewUserStatsService(log *logger.Logger, store UserStatsStore, upstream StatsUpstream, metrics *observability.Metrics, cfg UserStatsConfig) UserStatsService {
	if cfg.TTL <= 0 {
		cfg.TTL = statcache.DefaultStatsTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &userStatsService{
		log:      log.With("service", "UserStatsService"),
		store:    store,
		upstream: upstream,
		metrics:  metrics,
		ttl:      cfg.TTL,
		coalesce: cfg.CoalesceRefresh,
		now:      cfg.Now,
	}
}

func (s *userStatsService) GetUserStats(ctx context.Context, username string) (*domain.UserCacheRecord, error) {
	ctx = ctxutil.Default(ctx)
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	ctx, span := tracer.Start(ctx, "UserStatsService.GetUserStats")
	defer span.End()
	span.SetAttributes(attribute.String("leettrack.username", username))

	log := s.log.With(append([]interface{}{"username", username}, ctxutil.LogFields(ctx)...)...)

	prev, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		log.Warn("user stats read failed; treating as miss", "error", err)
		s.metrics.IncStoreError(cacheUserStats, "find")
		prev = nil
	}

	freshness := statcache.Classify(prev, s.now(), s.ttl)
	span.SetAttributes(attribute.String("leettrack.freshness", freshness.String()))
	if freshness == statcache.Fresh {
		if prev.NotFound {
			s.metrics.IncCacheOutcome(cacheUserStats, "negative_hit")
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		s.metrics.IncCacheOutcome(cacheUserStats, "hit")
		return prev, nil
	}

	var rec *domain.UserCacheRecord
	if s.coalesce {
		v, err, shared := s.group.Do(username, func() (interface{}, error) {
			return s.refresh(context.WithoutCancel(ctx), log, username, prev)
		})
		if shared {
			log.Debug("user stats refresh shared")
		}
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}
		rec = v.(*domain.UserCacheRecord)
	} else {
		rec, err = s.refresh(ctx, log, username, prev)
		if err != nil {
			recordSpanError(span, err)
			return nil, err
		}
	}
	return rec, nil
}

// refresh fetches both upstream payloads and writes exactly one record, either
// the normalized stats or a negative entry.
func (s *userStatsService) refresh(ctx context.Context, log *logger.Logger, username string, prev *domain.UserCacheRecord) (*domain.UserCacheRecord, error) {
	var (
		solved, recent       json.RawMessage
		solvedErr, recentErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		solved, solvedErr = s.upstream.FetchSolved(gctx, username)
		return nil
	})
	g.Go(func() error {
		recent, recentErr = s.upstream.FetchRecentSubmissions(gctx, username)
		return nil
	})
	_ = g.Wait()

	now := s.now().UTC().Truncate(time.Microsecond)

	if solvedErr != nil {
		if errors.Is(solvedErr, leetcode.ErrNotFound) {
			neg := &domain.UserCacheRecord{Username: username, CachedAt: now, NotFound: true}
			s.write(ctx, log, neg)
			s.metrics.IncCacheOutcome(cacheUserStats, "negative_stored")
			log.Info("user not found upstream; negative entry stored")
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		if prev != nil {
			s.metrics.IncCacheOutcome(cacheUserStats, "stale_served")
			log.Warn("upstream solved fetch failed; serving stale record", "error", solvedErr, "cached_at", prev.CachedAt)
			if prev.NotFound {
				return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
			}
			return prev, nil
		}
		s.metrics.IncCacheOutcome(cacheUserStats, "upstream_error")
		log.Error("upstream solved fetch failed; nothing cached", "error", solvedErr)
		return nil, fmt.Errorf("%w: fetch solved for %s: %w", ErrUpstreamUnavailable, username, solvedErr)
	}
	if recentErr != nil {
		log.Warn("upstream recent submissions fetch failed; keeping previous list", "error", recentErr)
	}

	rec, err := statcache.Normalize(statcache.NormalizeInput{
		Username:  username,
		Now:       now,
		Solved:    solved,
		Recent:    recent,
		RecentErr: recentErr,
		Previous:  prev,
	})
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", username, err)
	}
	s.write(ctx, log, rec)
	s.metrics.IncCacheOutcome(cacheUserStats, "refreshed")
	return rec, nil
}

// write logs store failures; the caller still returns what it fetched.
func (s *userStatsService) write(ctx context.Context, log *logger.Logger, rec *domain.UserCacheRecord) {
	if err := s.store.Upsert(ctx, rec); err != nil {
		s.metrics.IncStoreError(cacheUserStats, "upsert")
		log.Error("user stats write failed", "error", err, "not_found", rec.NotFound)
	}
}

func (s *userStatsService) GetStatsView(ctx context.Context, username string) (*StatsView, error) {
	rec, err := s.GetUserStats(ctx, username)
	if err != nil {
		return nil, err
	}
	return NewStatsView(rec), nil
}

func (s *userStatsService) GetDifficultyView(ctx context.Context, username string, d domain.Difficulty) (*DifficultyView, error) {
	if d == domain.DifficultyAll {
		return nil, fmt.Errorf("difficulty view requires easy, medium or hard")
	}
	rec, err := s.GetUserStats(ctx, username)
	if err != nil {
		return nil, err
	}
	return NewDifficultyView(rec, d), nil
}

func (s *userStatsService) GetRecentSubmissions(ctx context.Context, username string) (*RecentSubmissionsView, error) {
	rec, err := s.GetUserStats(ctx, username)
	if err != nil {
		return nil, err
	}
	return NewRecentSubmissionsView(rec), nil
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
