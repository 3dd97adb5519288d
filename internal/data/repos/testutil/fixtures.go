package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/leettrack-backend/internal/domain"
)

func IntPtr(n int) *int { return &n }

func StrPtr(s string) *string { return &s }

func SeedUserStats(tb testing.TB, ctx context.Context, tx *gorm.DB, username string, cachedAt time.Time) *domain.UserCacheRecord {
	tb.Helper()
	ts := int64(1700000000)
	rec := &domain.UserCacheRecord{
		Username:     username,
		CachedAt:     cachedAt.UTC().Truncate(time.Microsecond),
		TotalSolved:  IntPtr(42),
		EasySolved:   IntPtr(20),
		MediumSolved: IntPtr(15),
		HardSolved:   IntPtr(7),
		SubmissionsByDifficulty: []domain.DifficultyCount{
			{Difficulty: domain.DifficultyAll, Count: IntPtr(50), Submissions: IntPtr(130)},
		},
		RecentSubmissions: []domain.RecentSubmission{
			{Title: "Two Sum", TitleSlug: StrPtr("two-sum"), Status: StrPtr("Accepted"), TimestampSeconds: &ts},
		},
	}
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		tb.Fatalf("seed user stats: %v", err)
	}
	return rec
}
