package services

import (
	"context"
	"encoding/json"

	"github.com/yungbote/leettrack-backend/internal/domain"
)

// UserStatsStore persists one document per username. FindByUsername returns
// (nil, nil) when nothing is stored.
type UserStatsStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.UserCacheRecord, error)
	Upsert(ctx context.Context, rec *domain.UserCacheRecord) error
}

// DailyProblemStore persists one document per day key.
type DailyProblemStore interface {
	FindByDayKey(ctx context.Context, dayKey string) (*domain.DailyProblemRecord, error)
	Upsert(ctx context.Context, rec *domain.DailyProblemRecord) error
}

// StatsUpstream is the slice of the upstream client the user stats engine uses.
type StatsUpstream interface {
	FetchSolved(ctx context.Context, username string) (json.RawMessage, error)
	FetchRecentSubmissions(ctx context.Context, username string) (json.RawMessage, error)
}

type DailyProblemUpstream interface {
	FetchDailyProblem(ctx context.Context) (json.RawMessage, error)
}
