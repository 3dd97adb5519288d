package services

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/yungbote/leettrack-backend/internal/domain"
)

type fakeStatsStore struct {
	mu        sync.Mutex
	records   map[string]*domain.UserCacheRecord
	finds     int32
	upserts   int32
	findErr   error
	upsertErr error
}

func newFakeStatsStore(recs ...*domain.UserCacheRecord) *fakeStatsStore {
	s := &fakeStatsStore{records: map[string]*domain.UserCacheRecord{}}
	for _, r := range recs {
		s.records[r.Username] = r
	}
	return s
}

func (s *fakeStatsStore) FindByUsername(ctx context.Context, username string) (*domain.UserCacheRecord, error) {
	atomic.AddInt32(&s.finds, 1)
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[username]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeStatsStore) Upsert(ctx context.Context, rec *domain.UserCacheRecord) error {
	atomic.AddInt32(&s.upserts, 1)
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.Username] = &cp
	return nil
}

func (s *fakeStatsStore) get(username string) *domain.UserCacheRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records[username]
}

type fakeStatsUpstream struct {
	solved    json.RawMessage
	solvedErr error
	recent    json.RawMessage
	recentErr error

	// release, when set, blocks FetchSolved until closed.
	release chan struct{}

	solvedCalls int32
	recentCalls int32
}

func (u *fakeStatsUpstream) FetchSolved(ctx context.Context, username string) (json.RawMessage, error) {
	atomic.AddInt32(&u.solvedCalls, 1)
	if u.release != nil {
		select {
		case <-u.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return u.solved, u.solvedErr
}

func (u *fakeStatsUpstream) FetchRecentSubmissions(ctx context.Context, username string) (json.RawMessage, error) {
	atomic.AddInt32(&u.recentCalls, 1)
	return u.recent, u.recentErr
}

func (u *fakeStatsUpstream) calls() int32 {
	return atomic.LoadInt32(&u.solvedCalls) + atomic.LoadInt32(&u.recentCalls)
}

type fakeDailyStore struct {
	mu        sync.Mutex
	records   map[string]*domain.DailyProblemRecord
	upserts   int32
	findErr   error
	upsertErr error
}

func newFakeDailyStore() *fakeDailyStore {
	return &fakeDailyStore{records: map[string]*domain.DailyProblemRecord{}}
}

func (s *fakeDailyStore) FindByDayKey(ctx context.Context, dayKey string) (*domain.DailyProblemRecord, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[dayKey]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeDailyStore) Upsert(ctx context.Context, rec *domain.DailyProblemRecord) error {
	atomic.AddInt32(&s.upserts, 1)
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.DayKey] = &cp
	return nil
}

type fakeDailyUpstream struct {
	raw   json.RawMessage
	err   error
	calls int32
}

func (u *fakeDailyUpstream) FetchDailyProblem(ctx context.Context) (json.RawMessage, error) {
	atomic.AddInt32(&u.calls, 1)
	return u.raw, u.err
}
