package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/leettrack-backend/internal/domain"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
)

func TestDocumentKeys(t *testing.T) {
	users := NewUserStatsStore(logger.Nop(), nil, "leettrack:")
	if got := users.Key("alice"); got != "leettrack:data:alice" {
		t.Fatalf("user key=%s", got)
	}
	days := NewDailyProblemStore(logger.Nop(), nil, "lt:")
	if got := days.Key("2024-05-01"); got != "lt:dailyproblem:2024-05-01" {
		t.Fatalf("day key=%s", got)
	}
}

func testClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis store tests")
	}
	rdb, err := NewClient(context.Background(), Config{Addr: addr})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestUserStatsStoreRoundTrip(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()
	prefix := fmt.Sprintf("leettrack-test-%d:", time.Now().UnixNano())
	store := NewUserStatsStore(logger.Nop(), rdb, prefix)
	t.Cleanup(func() { _ = rdb.Del(context.Background(), store.Key("alice")).Err() })

	got, err := store.FindByUsername(ctx, "alice")
	if err != nil || got != nil {
		t.Fatalf("FindByUsername(missing)=%v, %v", got, err)
	}

	solved := 42
	cachedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Upsert(ctx, &domain.UserCacheRecord{Username: "alice", CachedAt: cachedAt, TotalSolved: &solved}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err = store.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got == nil || !got.CachedAt.Equal(cachedAt) || *got.TotalSolved != 42 {
		t.Fatalf("got=%+v", got)
	}

	if err := store.Upsert(ctx, &domain.UserCacheRecord{Username: "alice", CachedAt: cachedAt.Add(time.Minute), NotFound: true}); err != nil {
		t.Fatalf("Upsert negative: %v", err)
	}
	got, err = store.FindByUsername(ctx, "alice")
	if err != nil || !got.NotFound || got.TotalSolved != nil {
		t.Fatalf("negative got=%+v err=%v", got, err)
	}
}

func TestDailyProblemStoreRoundTrip(t *testing.T) {
	rdb := testClient(t)
	ctx := context.Background()
	prefix := fmt.Sprintf("leettrack-test-%d:", time.Now().UnixNano())
	store := NewDailyProblemStore(logger.Nop(), rdb, prefix)
	t.Cleanup(func() { _ = rdb.Del(context.Background(), store.Key("2024-05-01")).Err() })

	rec := &domain.DailyProblemRecord{DayKey: "2024-05-01", Title: "Two Sum", Link: "https://leetcode.com/problems/two-sum/", FetchedAt: time.Now().UTC()}
	if err := store.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := store.FindByDayKey(ctx, "2024-05-01")
	if err != nil || got == nil || got.Title != "Two Sum" {
		t.Fatalf("got=%+v err=%v", got, err)
	}
}
