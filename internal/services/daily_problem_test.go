package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/leettrack-backend/internal/platform/logger"
	"github.com/yungbote/leettrack-backend/internal/statcache"
)

const twoSumDaily = `{"questionLink":"https://leetcode.com/problems/two-sum/","questionTitle":"Two Sum","questionId":"1","questionFrontendId":"1","difficulty":"Easy","date":"2024-05-01"}`

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestDailyService(t *testing.T, store DailyProblemStore, up DailyProblemUpstream, c *clock) DailyProblemService {
	t.Helper()
	days, err := statcache.NewDayKeyer(statcache.DefaultResetTimezone, statcache.DefaultResetHour)
	if err != nil {
		t.Fatalf("NewDayKeyer: %v", err)
	}
	return NewDailyProblemService(logger.Nop(), store, up, days, nil, DailyProblemConfig{Now: c.Now})
}

func TestProblemOfTheDaySameDayHitsUpstreamOnce(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, ny)}
	store := newFakeDailyStore()
	up := &fakeDailyUpstream{raw: json.RawMessage(twoSumDaily)}
	svc := newTestDailyService(t, store, up, c)

	first, err := svc.GetProblemOfTheDay(context.Background())
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	c.now = c.now.Add(6 * time.Hour)
	second, err := svc.GetProblemOfTheDay(context.Background())
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if up.calls != 1 {
		t.Fatalf("upstream calls=%d, want 1", up.calls)
	}
	if first.DayKey != "2024-05-01" || second.DayKey != first.DayKey {
		t.Fatalf("day keys %q/%q", first.DayKey, second.DayKey)
	}
	if *first != *second {
		t.Fatalf("records differ:\n%+v\n%+v", first, second)
	}
	if first.Title != "Two Sum" || first.QuestionID != "1" {
		t.Fatalf("unexpected record %+v", first)
	}
}

func TestProblemOfTheDayNewBucketAfterReset(t *testing.T) {
	ny, _ := time.LoadLocation("America/New_York")
	c := &clock{now: time.Date(2024, 5, 2, 2, 59, 0, 0, ny)}
	store := newFakeDailyStore()
	up := &fakeDailyUpstream{raw: json.RawMessage(twoSumDaily)}
	svc := newTestDailyService(t, store, up, c)

	before, err := svc.GetProblemOfTheDay(context.Background())
	if err != nil {
		t.Fatalf("before reset: %v", err)
	}
	if before.DayKey != "2024-05-01" {
		t.Fatalf("day key before reset=%s", before.DayKey)
	}
	c.now = time.Date(2024, 5, 2, 3, 0, 0, 0, ny)
	after, err := svc.GetProblemOfTheDay(context.Background())
	if err != nil {
		t.Fatalf("after reset: %v", err)
	}
	if after.DayKey != "2024-05-02" {
		t.Fatalf("day key after reset=%s", after.DayKey)
	}
	if up.calls != 2 || len(store.records) != 2 {
		t.Fatalf("calls=%d records=%d, want 2/2", up.calls, len(store.records))
	}
}

func TestProblemOfTheDayUpstreamFailures(t *testing.T) {
	cases := []struct {
		name string
		up   *fakeDailyUpstream
	}{
		{name: "fetch_error", up: &fakeDailyUpstream{err: errors.New("dial tcp: timeout")}},
		{name: "undecodable_payload", up: &fakeDailyUpstream{raw: json.RawMessage(`{"error":"busy"}`)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeDailyStore()
			svc := newTestDailyService(t, store, tc.up, &clock{now: testNow})
			if _, err := svc.GetProblemOfTheDay(context.Background()); !errors.Is(err, ErrUpstreamUnavailable) {
				t.Fatalf("err=%v, want ErrUpstreamUnavailable", err)
			}
			if store.upserts != 0 {
				t.Fatalf("upserts=%d, want 0", store.upserts)
			}
		})
	}
}

func TestProblemOfTheDayStoreFailures(t *testing.T) {
	store := newFakeDailyStore()
	store.findErr = errors.New("connection refused")
	store.upsertErr = errors.New("connection refused")
	up := &fakeDailyUpstream{raw: json.RawMessage(twoSumDaily)}
	svc := newTestDailyService(t, store, up, &clock{now: testNow})

	rec, err := svc.GetProblemOfTheDay(context.Background())
	if err != nil {
		t.Fatalf("GetProblemOfTheDay: %v", err)
	}
	if rec.Title != "Two Sum" || !rec.FetchedAt.Equal(testNow) {
		t.Fatalf("rec=%+v", rec)
	}
	if up.calls != 1 || store.upserts != 1 {
		t.Fatalf("calls=%d upserts=%d", up.calls, store.upserts)
	}
}

func TestProblemOfTheDayView(t *testing.T) {
	svc := newTestDailyService(t, newFakeDailyStore(), &fakeDailyUpstream{raw: json.RawMessage(twoSumDaily)}, &clock{now: testNow})
	view, err := svc.GetProblemOfTheDayView(context.Background())
	if err != nil {
		t.Fatalf("GetProblemOfTheDayView: %v", err)
	}
	b, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"link":"https://leetcode.com/problems/two-sum/","title":"Two Sum","difficulty":"Easy","date":"2024-05-01"}`
	if string(b) != want {
		t.Fatalf("view=%s\nwant %s", b, want)
	}
}
