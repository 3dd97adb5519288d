package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Difficulty is one of the upstream breakdown buckets.
type Difficulty string

const (
	DifficultyAll    Difficulty = "All"
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty accepts any casing of easy/medium/hard/all.
func ParseDifficulty(raw string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "all":
		return DifficultyAll, true
	case "easy":
		return DifficultyEasy, true
	case "medium":
		return DifficultyMedium, true
	case "hard":
		return DifficultyHard, true
	default:
		return "", false
	}
}

// DifficultyCount is one row of an upstream per-difficulty breakdown.
// Count is unique problems, Submissions is attempts.
type DifficultyCount struct {
	Difficulty  Difficulty `json:"difficulty"`
	Count       *int       `json:"count"`
	Submissions *int       `json:"submissions"`
}

type RecentSubmission struct {
	Title            string  `json:"title"`
	TitleSlug        *string `json:"titleSlug"`
	Status           *string `json:"status"`
	Language         *string `json:"language"`
	TimestampSeconds *int64  `json:"timestampSeconds"`
}

// UserCacheRecord is the cached view of one upstream user. A record with
// NotFound set carries no statistics and acts as a negative cache entry.
type UserCacheRecord struct {
	Username string    `gorm:"column:username;primaryKey;size:128" json:"username"`
	CachedAt time.Time `gorm:"column:cached_at;not null;index" json:"cachedAt"`
	NotFound bool      `gorm:"column:not_found;not null" json:"notFound"`

	TotalSolved  *int `gorm:"column:total_solved" json:"totalSolved"`
	EasySolved   *int `gorm:"column:easy_solved" json:"easySolved"`
	MediumSolved *int `gorm:"column:medium_solved" json:"mediumSolved"`
	HardSolved   *int `gorm:"column:hard_solved" json:"hardSolved"`

	TotalEasy   *int `gorm:"column:total_easy" json:"totalEasy"`
	TotalMedium *int `gorm:"column:total_medium" json:"totalMedium"`
	TotalHard   *int `gorm:"column:total_hard" json:"totalHard"`

	TotalSubmissions *int `gorm:"column:total_submissions" json:"totalSubmissions"`

	SubmissionsByDifficulty datatypes.JSONSlice[DifficultyCount]  `gorm:"column:submissions_by_difficulty" json:"submissionsByDifficulty"`
	AcceptedByDifficulty    datatypes.JSONSlice[DifficultyCount]  `gorm:"column:accepted_by_difficulty" json:"acceptedByDifficulty"`
	RecentSubmissions       datatypes.JSONSlice[RecentSubmission] `gorm:"column:recent_submissions" json:"recentSubmissions"`
}

func (UserCacheRecord) TableName() string { return "user_stats_cache" }

// SolvedFor returns the solved count and accepted-attempt count for d.
func (r *UserCacheRecord) SolvedFor(d Difficulty) (solved *int, total *int) {
	if r == nil {
		return nil, nil
	}
	switch d {
	case DifficultyEasy:
		return r.EasySolved, r.TotalEasy
	case DifficultyMedium:
		return r.MediumSolved, r.TotalMedium
	case DifficultyHard:
		return r.HardSolved, r.TotalHard
	case DifficultyAll:
		return r.TotalSolved, r.TotalSubmissions
	default:
		return nil, nil
	}
}

// FindDifficulty returns the row for d, or nil.
func FindDifficulty(rows []DifficultyCount, d Difficulty) *DifficultyCount {
	for i := range rows {
		if rows[i].Difficulty == d {
			return &rows[i]
		}
	}
	return nil
}
