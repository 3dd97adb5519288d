package statcache

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/leettrack-backend/internal/domain"
	"gorm.io/datatypes"
)

var ErrMissingUsername = errors.New("statcache: username is required")

type NormalizeInput struct {
	Username string
	Now      time.Time

	Solved json.RawMessage

	// Recent is ignored when RecentErr is set.
	Recent    json.RawMessage
	RecentErr error

	Previous *domain.UserCacheRecord
}

// Normalize maps the upstream payloads onto a cache record. Missing or
// malformed optional data yields null fields, never an error.
func Normalize(in NormalizeInput) (*domain.UserCacheRecord, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrMissingUsername
	}

	solved := decodeSolved(in.Solved)
	accepted := solved.AcSubmissionNum.rows
	acAll := domain.FindDifficulty(accepted, domain.DifficultyAll)
	acEasy := domain.FindDifficulty(accepted, domain.DifficultyEasy)
	acMedium := domain.FindDifficulty(accepted, domain.DifficultyMedium)
	acHard := domain.FindDifficulty(accepted, domain.DifficultyHard)

	rec := &domain.UserCacheRecord{
		Username: username,
		CachedAt: in.Now,
		NotFound: false,

		TotalSolved:  firstInt(solved.SolvedProblem.Int(), countOf(acAll)),
		EasySolved:   firstInt(solved.EasySolved.Int(), countOf(acEasy)),
		MediumSolved: firstInt(solved.MediumSolved.Int(), countOf(acMedium)),
		HardSolved:   firstInt(solved.HardSolved.Int(), countOf(acHard)),

		TotalEasy:   submissionsOf(acEasy),
		TotalMedium: submissionsOf(acMedium),
		TotalHard:   submissionsOf(acHard),

		TotalSubmissions: solved.TotalSubmissionNum.aggregate.Int(),
	}
	if total := solved.TotalSubmissionNum.breakdown; total.set {
		rec.SubmissionsByDifficulty = datatypes.JSONSlice[domain.DifficultyCount](total.rows)
	}
	if solved.AcSubmissionNum.set {
		rec.AcceptedByDifficulty = datatypes.JSONSlice[domain.DifficultyCount](accepted)
	}
	rec.RecentSubmissions = recentSubmissions(in)
	return rec, nil
}

func recentSubmissions(in NormalizeInput) datatypes.JSONSlice[domain.RecentSubmission] {
	if in.RecentErr == nil {
		if list, ok := decodeRecent(in.Recent); ok {
			return datatypes.JSONSlice[domain.RecentSubmission](list)
		}
	}
	out := make([]domain.RecentSubmission, 0)
	if in.Previous != nil && !in.Previous.NotFound {
		out = append(out, in.Previous.RecentSubmissions...)
	}
	return datatypes.JSONSlice[domain.RecentSubmission](out)
}

func firstInt(vals ...*int) *int {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func countOf(row *domain.DifficultyCount) *int {
	if row == nil {
		return nil
	}
	return row.Count
}

func submissionsOf(row *domain.DifficultyCount) *int {
	if row == nil {
		return nil
	}
	return row.Submissions
}
