package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/leettrack-backend/internal/domain"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
)

const (
	userStatsCollection    = "data"
	dailyProblemCollection = "dailyproblem"
)

// documents stores one JSON document per key with no expiry. Freshness is
// decided by the caller from timestamps inside the document.
type documents[T any] struct {
	rdb    goredis.UniversalClient
	prefix string
}

func (d documents[T]) key(collection, id string) string {
	return d.prefix + collection + ":" + id
}

func (d documents[T]) get(ctx context.Context, key string) (*T, error) {
	raw, err := d.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &doc, nil
}

func (d documents[T]) set(ctx context.Context, key string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := d.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

type UserStatsStore struct {
	log  *logger.Logger
	docs documents[domain.UserCacheRecord]
}

func NewUserStatsStore(log *logger.Logger, rdb goredis.UniversalClient, prefix string) *UserStatsStore {
	return &UserStatsStore{
		log:  log.With("store", "RedisUserStatsStore"),
		docs: documents[domain.UserCacheRecord]{rdb: rdb, prefix: prefix},
	}
}

func (s *UserStatsStore) Key(username string) string {
	return s.docs.key(userStatsCollection, username)
}

func (s *UserStatsStore) FindByUsername(ctx context.Context, username string) (*domain.UserCacheRecord, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	return s.docs.get(ctx, s.Key(username))
}

func (s *UserStatsStore) Upsert(ctx context.Context, rec *domain.UserCacheRecord) error {
	if rec == nil || strings.TrimSpace(rec.Username) == "" {
		return fmt.Errorf("upsert user stats: username required")
	}
	if err := s.docs.set(ctx, s.Key(rec.Username), rec); err != nil {
		return err
	}
	s.log.Debug("user stats document written", "username", rec.Username, "not_found", rec.NotFound)
	return nil
}

type DailyProblemStore struct {
	log  *logger.Logger
	docs documents[domain.DailyProblemRecord]
}

func NewDailyProblemStore(log *logger.Logger, rdb goredis.UniversalClient, prefix string) *DailyProblemStore {
	return &DailyProblemStore{
		log:  log.With("store", "RedisDailyProblemStore"),
		docs: documents[domain.DailyProblemRecord]{rdb: rdb, prefix: prefix},
	}
}

func (s *DailyProblemStore) Key(dayKey string) string {
	return s.docs.key(dailyProblemCollection, dayKey)
}

func (s *DailyProblemStore) FindByDayKey(ctx context.Context, dayKey string) (*domain.DailyProblemRecord, error) {
	dayKey = strings.TrimSpace(dayKey)
	if dayKey == "" {
		return nil, nil
	}
	return s.docs.get(ctx, s.Key(dayKey))
}

func (s *DailyProblemStore) Upsert(ctx context.Context, rec *domain.DailyProblemRecord) error {
	if rec == nil || strings.TrimSpace(rec.DayKey) == "" {
		return fmt.Errorf("upsert daily problem: day key required")
	}
	if err := s.docs.set(ctx, s.Key(rec.DayKey), rec); err != nil {
		return err
	}
	s.log.Debug("daily problem document written", "day_key", rec.DayKey)
	return nil
}
