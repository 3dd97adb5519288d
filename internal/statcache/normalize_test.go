package statcache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/leettrack-backend/internal/domain"
)

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func assertInt(t *testing.T, field string, got *int, want *int) {
	t.Helper()
	switch {
	case got == nil && want == nil:
	case got == nil || want == nil:
		t.Fatalf("%s=%v, want %v", field, got, want)
	case *got != *want:
		t.Fatalf("%s=%d, want %d", field, *got, *want)
	}
}

func TestNormalizeDirectFields(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec, err := Normalize(NormalizeInput{
		Username: "alice",
		Now:      now,
		Solved:   json.RawMessage(`{"solvedProblem":42,"easySolved":20,"mediumSolved":15,"hardSolved":7}`),
		Recent:   json.RawMessage(`{"submission":[]}`),
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if rec.Username != "alice" || rec.NotFound || !rec.CachedAt.Equal(now) {
		t.Fatalf("unexpected header fields: %+v", rec)
	}
	assertInt(t, "totalSolved", rec.TotalSolved, intPtr(42))
	assertInt(t, "easySolved", rec.EasySolved, intPtr(20))
	assertInt(t, "mediumSolved", rec.MediumSolved, intPtr(15))
	assertInt(t, "hardSolved", rec.HardSolved, intPtr(7))
	assertInt(t, "totalEasy", rec.TotalEasy, nil)
	assertInt(t, "totalSubmissions", rec.TotalSubmissions, nil)
	if rec.SubmissionsByDifficulty != nil {
		t.Fatalf("submissionsByDifficulty=%v, want nil", rec.SubmissionsByDifficulty)
	}
	if rec.RecentSubmissions == nil || len(rec.RecentSubmissions) != 0 {
		t.Fatalf("recentSubmissions=%v, want empty", rec.RecentSubmissions)
	}
}

func TestNormalizeAcceptedFallbacks(t *testing.T) {
	solved := `{
		"acSubmissionNum": [
			{"difficulty":"All","count":30,"submissions":55},
			{"difficulty":"Easy","count":"12","submissions":20},
			{"difficulty":"Medium","count":14,"submissions":25},
			{"difficulty":"Hard","count":4,"submissions":10}
		],
		"totalSubmissionNum": [
			{"difficulty":"All","count":35,"submissions":120},
			{"difficulty":"Easy","count":13,"submissions":40}
		],
		"hardSolved": 5
	}`
	rec, err := Normalize(NormalizeInput{Username: "bob", Solved: json.RawMessage(solved), Recent: json.RawMessage(`[]`)})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	assertInt(t, "totalSolved", rec.TotalSolved, intPtr(30))
	assertInt(t, "easySolved", rec.EasySolved, intPtr(12))
	assertInt(t, "mediumSolved", rec.MediumSolved, intPtr(14))
	assertInt(t, "hardSolved", rec.HardSolved, intPtr(5))
	assertInt(t, "totalEasy", rec.TotalEasy, intPtr(20))
	assertInt(t, "totalMedium", rec.TotalMedium, intPtr(25))
	assertInt(t, "totalHard", rec.TotalHard, intPtr(10))
	assertInt(t, "totalSubmissions", rec.TotalSubmissions, nil)
	if len(rec.SubmissionsByDifficulty) != 2 {
		t.Fatalf("submissionsByDifficulty len=%d, want 2", len(rec.SubmissionsByDifficulty))
	}
	all := domain.FindDifficulty(rec.SubmissionsByDifficulty, domain.DifficultyAll)
	if all == nil {
		t.Fatalf("missing All row")
	}
	assertInt(t, "All.submissions", all.Submissions, intPtr(120))
	if len(rec.AcceptedByDifficulty) != 4 {
		t.Fatalf("acceptedByDifficulty len=%d, want 4", len(rec.AcceptedByDifficulty))
	}
}

func TestNormalizeNumericTotalSubmissions(t *testing.T) {
	rec, err := Normalize(NormalizeInput{
		Username: "carol",
		Solved:   json.RawMessage(`{"solvedProblem":3,"totalSubmissionNum":17}`),
		Recent:   json.RawMessage(`[]`),
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	assertInt(t, "totalSubmissions", rec.TotalSubmissions, intPtr(17))
	if rec.SubmissionsByDifficulty != nil {
		t.Fatalf("submissionsByDifficulty=%v, want nil", rec.SubmissionsByDifficulty)
	}
}

func TestNormalizeMalformedOptionalData(t *testing.T) {
	cases := []struct {
		name   string
		solved string
	}{
		{name: "not_json", solved: `<html>bad gateway</html>`},
		{name: "array_document", solved: `[1,2,3]`},
		{name: "wrong_types", solved: `{"solvedProblem":"many","easySolved":{"x":1},"acSubmissionNum":"nope","totalSubmissionNum":true}`},
		{name: "bad_rows", solved: `{"acSubmissionNum":[42,"x",{"count":3},{"difficulty":null}]}`},
		{name: "empty", solved: ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := Normalize(NormalizeInput{Username: "dave", Solved: json.RawMessage(tc.solved)})
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			assertInt(t, "totalSolved", rec.TotalSolved, nil)
			assertInt(t, "easySolved", rec.EasySolved, nil)
			assertInt(t, "totalSubmissions", rec.TotalSubmissions, nil)
			if len(rec.AcceptedByDifficulty) != 0 {
				t.Fatalf("acceptedByDifficulty=%v, want empty", rec.AcceptedByDifficulty)
			}
		})
	}
}

func TestNormalizeRejectsEmptyUsername(t *testing.T) {
	if _, err := Normalize(NormalizeInput{Username: "  "}); !errors.Is(err, ErrMissingUsername) {
		t.Fatalf("err=%v, want ErrMissingUsername", err)
	}
}

func TestNormalizeRecentShapes(t *testing.T) {
	item := `{"title":"Two Sum","titleSlug":"two-sum","statusDisplay":"Accepted","lang":"python3","timestamp":"1700000000"}`
	cases := []struct {
		name    string
		payload string
	}{
		{name: "submission_key", payload: `{"count":1,"submission":[` + item + `]}`},
		{name: "submissions_key", payload: `{"submissions":[` + item + `]}`},
		{name: "bare_list", payload: `[` + item + `]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := Normalize(NormalizeInput{Username: "alice", Recent: json.RawMessage(tc.payload)})
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if len(rec.RecentSubmissions) != 1 {
				t.Fatalf("recent len=%d, want 1", len(rec.RecentSubmissions))
			}
			got := rec.RecentSubmissions[0]
			if got.Title != "Two Sum" {
				t.Fatalf("title=%q", got.Title)
			}
			if got.TitleSlug == nil || *got.TitleSlug != "two-sum" {
				t.Fatalf("titleSlug=%v", got.TitleSlug)
			}
			if got.Status == nil || *got.Status != "Accepted" {
				t.Fatalf("status=%v", got.Status)
			}
			if got.Language == nil || *got.Language != "python3" {
				t.Fatalf("language=%v", got.Language)
			}
			if got.TimestampSeconds == nil || *got.TimestampSeconds != 1700000000 {
				t.Fatalf("timestamp=%v", got.TimestampSeconds)
			}
		})
	}
}

func TestNormalizeRecentItemFields(t *testing.T) {
	payload := `[
		{"title":"A","status":"Wrong Answer","language":"go","timestamp":1700000100},
		{"titleSlug":"no-title"},
		{"title":""},
		"garbage",
		{"title":"B","timestamp":"soon"}
	]`
	rec, err := Normalize(NormalizeInput{Username: "erin", Recent: json.RawMessage(payload)})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(rec.RecentSubmissions) != 2 {
		t.Fatalf("recent len=%d, want 2 (%+v)", len(rec.RecentSubmissions), rec.RecentSubmissions)
	}
	a, b := rec.RecentSubmissions[0], rec.RecentSubmissions[1]
	if a.Status == nil || *a.Status != "Wrong Answer" || a.Language == nil || *a.Language != "go" {
		t.Fatalf("fallback fields not used: %+v", a)
	}
	if a.TimestampSeconds == nil || *a.TimestampSeconds != 1700000100 {
		t.Fatalf("numeric timestamp=%v", a.TimestampSeconds)
	}
	if b.Title != "B" || b.TimestampSeconds != nil || b.TitleSlug != nil {
		t.Fatalf("unexpected second item: %+v", b)
	}
}

func TestNormalizeRecentReusesPrevious(t *testing.T) {
	prev := &domain.UserCacheRecord{
		Username:          "alice",
		CachedAt:          time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		RecentSubmissions: []domain.RecentSubmission{{Title: "Two Sum", Status: strPtr("Accepted")}},
	}
	cases := []struct {
		name string
		in   NormalizeInput
		want int
	}{
		{
			name: "fetch_failed",
			in:   NormalizeInput{Username: "alice", RecentErr: errors.New("timeout"), Recent: json.RawMessage(`[]`), Previous: prev},
			want: 1,
		},
		{
			name: "undecodable_payload",
			in:   NormalizeInput{Username: "alice", Recent: json.RawMessage(`{"errors":"rate limited"}`), Previous: prev},
			want: 1,
		},
		{
			name: "fetch_failed_no_previous",
			in:   NormalizeInput{Username: "alice", RecentErr: errors.New("timeout")},
			want: 0,
		},
		{
			name: "fresh_empty_list_replaces_previous",
			in:   NormalizeInput{Username: "alice", Recent: json.RawMessage(`{"submission":[]}`), Previous: prev},
			want: 0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := Normalize(tc.in)
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if rec.RecentSubmissions == nil {
				t.Fatalf("recentSubmissions is nil, want non-nil")
			}
			if len(rec.RecentSubmissions) != tc.want {
				t.Fatalf("recent len=%d, want %d", len(rec.RecentSubmissions), tc.want)
			}
		})
	}
}
