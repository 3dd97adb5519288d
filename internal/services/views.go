package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/yungbote/leettrack-backend/internal/domain"
)

const recentSubmissionsLimit = 10

// StatsView is the /stats response body. Ranking is always null.
type StatsView struct {
	Username                     string                   `json:"username"`
	TotalSolved                  *int                     `json:"totalSolved"`
	Ranking                      *int                     `json:"ranking"`
	TotalSubmissionsCount        *int                     `json:"totalSubmissionsCount"`
	TotalSubmissionsAttempts     *int                     `json:"totalSubmissionsAttempts"`
	TotalSubmissionsByDifficulty []domain.DifficultyCount `json:"totalSubmissionsByDifficulty"`
}

func NewStatsView(rec *domain.UserCacheRecord) *StatsView {
	v := &StatsView{
		Username:    rec.Username,
		TotalSolved: rec.TotalSolved,
	}
	if rec.SubmissionsByDifficulty != nil {
		v.TotalSubmissionsByDifficulty = []domain.DifficultyCount(rec.SubmissionsByDifficulty)
	}
	if all := domain.FindDifficulty(rec.SubmissionsByDifficulty, domain.DifficultyAll); all != nil {
		v.TotalSubmissionsCount = all.Count
		v.TotalSubmissionsAttempts = all.Submissions
	}
	if v.TotalSubmissionsAttempts == nil && len(rec.SubmissionsByDifficulty) == 0 {
		v.TotalSubmissionsAttempts = rec.TotalSubmissions
	}
	return v
}

// DifficultyView renders as {username, <d>Solved, total<D>}.
type DifficultyView struct {
	Username   string
	Difficulty domain.Difficulty
	Solved     *int
	Total      *int
}

func NewDifficultyView(rec *domain.UserCacheRecord, d domain.Difficulty) *DifficultyView {
	solved, total := rec.SolvedFor(d)
	return &DifficultyView{Username: rec.Username, Difficulty: d, Solved: solved, Total: total}
}

func (v DifficultyView) MarshalJSON() ([]byte, error) {
	name := string(v.Difficulty)
	out := map[string]any{"username": v.Username}
	out[strings.ToLower(name)+"Solved"] = v.Solved
	out["total"+name] = v.Total
	return json.Marshal(out)
}

type RecentSubmissionView struct {
	Title     string  `json:"title"`
	TitleSlug *string `json:"titleSlug"`
	Status    *string `json:"status"`
	Language  *string `json:"language"`
	Timestamp *string `json:"timestamp"`
}

type RecentSubmissionsView struct {
	Username    string                 `json:"username"`
	Submissions []RecentSubmissionView `json:"submissions"`
}

func NewRecentSubmissionsView(rec *domain.UserCacheRecord) *RecentSubmissionsView {
	subs := rec.RecentSubmissions
	if len(subs) > recentSubmissionsLimit {
		subs = subs[:recentSubmissionsLimit]
	}
	out := make([]RecentSubmissionView, 0, len(subs))
	for _, sub := range subs {
		out = append(out, RecentSubmissionView{
			Title:     sub.Title,
			TitleSlug: sub.TitleSlug,
			Status:    sub.Status,
			Language:  sub.Language,
			Timestamp: formatUnixSeconds(sub.TimestampSeconds),
		})
	}
	return &RecentSubmissionsView{Username: rec.Username, Submissions: out}
}

// formatUnixSeconds renders seconds as ISO-8601 UTC with milliseconds. Zero
// is treated as absent.
func formatUnixSeconds(secs *int64) *string {
	if secs == nil || *secs == 0 {
		return nil
	}
	s := time.Unix(*secs, 0).UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return &s
}

type DailyProblemView struct {
	Link       string `json:"link"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	Date       string `json:"date"`
}

func NewDailyProblemView(rec *domain.DailyProblemRecord) *DailyProblemView {
	return &DailyProblemView{
		Link:       rec.Link,
		Title:      rec.Title,
		Difficulty: rec.Difficulty,
		Date:       rec.Date,
	}
}
