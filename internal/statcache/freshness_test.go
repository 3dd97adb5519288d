package statcache

import (
	"testing"
	"time"

	"github.com/yungbote/leettrack-backend/internal/domain"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		rec  *domain.UserCacheRecord
		ttl  time.Duration
		want Freshness
	}{
		{name: "nil_record", rec: nil, ttl: time.Minute, want: Missing},
		{name: "unset_cached_at", rec: &domain.UserCacheRecord{Username: "alice"}, ttl: time.Minute, want: Missing},
		{name: "two_minutes_old", rec: &domain.UserCacheRecord{CachedAt: now.Add(-2 * time.Minute)}, ttl: 5 * time.Minute, want: Fresh},
		{name: "exactly_ttl_is_stale", rec: &domain.UserCacheRecord{CachedAt: now.Add(-5 * time.Minute)}, ttl: 5 * time.Minute, want: Stale},
		{name: "six_minutes_old", rec: &domain.UserCacheRecord{CachedAt: now.Add(-6 * time.Minute)}, ttl: 5 * time.Minute, want: Stale},
		{name: "negative_follows_same_ttl", rec: &domain.UserCacheRecord{CachedAt: now.Add(-6 * time.Minute), NotFound: true}, ttl: 5 * time.Minute, want: Stale},
		{name: "zero_ttl_uses_default", rec: &domain.UserCacheRecord{CachedAt: now.Add(-4 * time.Minute)}, ttl: 0, want: Fresh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.rec, now, tc.ttl); got != tc.want {
				t.Fatalf("Classify=%s, want %s", got, tc.want)
			}
		})
	}
}
