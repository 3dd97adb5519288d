package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leettrack-backend/internal/domain"
	httpH "github.com/yungbote/leettrack-backend/internal/http/handlers"
	"github.com/yungbote/leettrack-backend/internal/observability"
	"github.com/yungbote/leettrack-backend/internal/services"
)

type stubStats struct{}

func (stubStats) GetUserStats(ctx context.Context, username string) (*domain.UserCacheRecord, error) {
	if username == "ghost" {
		return nil, services.ErrUserNotFound
	}
	n := 1
	return &domain.UserCacheRecord{Username: username, TotalSolved: &n, EasySolved: &n, MediumSolved: &n, HardSolved: &n}, nil
}

func (s stubStats) GetStatsView(ctx context.Context, username string) (*services.StatsView, error) {
	rec, err := s.GetUserStats(ctx, username)
	if err != nil {
		return nil, err
	}
	return services.NewStatsView(rec), nil
}

func (s stubStats) GetDifficultyView(ctx context.Context, username string, d domain.Difficulty) (*services.DifficultyView, error) {
	rec, err := s.GetUserStats(ctx, username)
	if err != nil {
		return nil, err
	}
	return services.NewDifficultyView(rec, d), nil
}

func (s stubStats) GetRecentSubmissions(ctx context.Context, username string) (*services.RecentSubmissionsView, error) {
	rec, err := s.GetUserStats(ctx, username)
	if err != nil {
		return nil, err
	}
	return services.NewRecentSubmissionsView(rec), nil
}

type stubDaily struct{}

func (stubDaily) GetProblemOfTheDay(ctx context.Context) (*domain.DailyProblemRecord, error) {
	return &domain.DailyProblemRecord{DayKey: "2024-05-01", Title: "Two Sum", Link: "https://leetcode.com/problems/two-sum/"}, nil
}

func (s stubDaily) GetProblemOfTheDayView(ctx context.Context) (*services.DailyProblemView, error) {
	rec, _ := s.GetProblemOfTheDay(ctx)
	return services.NewDailyProblemView(rec), nil
}

func TestRouterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := NewRouter(RouterConfig{
		Metrics:          m,
		HealthHandler:    httpH.NewHealthHandler(),
		UserStatsHandler: httpH.NewUserStatsHandler(stubStats{}),
		ProblemHandler:   httpH.NewProblemHandler(stubDaily{}),
		MetricsHandler:   httpH.NewMetricsHandler(m),
	})

	cases := []struct {
		path string
		want int
	}{
		{"/healthcheck", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/user/alice/stats", http.StatusOK},
		{"/user/alice/easy", http.StatusOK},
		{"/user/alice/medium", http.StatusOK},
		{"/user/alice/hard", http.StatusOK},
		{"/user/alice/recent-submissions", http.StatusOK},
		{"/user/ghost/stats", http.StatusNotFound},
		{"/user/alice/all", http.StatusNotFound},
		{"/problems/problem-of-the-day", http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Code != tc.want {
				t.Fatalf("GET %s status=%d, want %d (%s)", tc.path, rec.Code, tc.want, rec.Body.String())
			}
			if rec.Header().Get("X-Request-Id") == "" {
				t.Fatalf("GET %s missing X-Request-Id", tc.path)
			}
		})
	}

	if got := m.APIRequests("GET", "/user/:userId/stats", "200"); got != 1 {
		t.Fatalf("api requests for stats=%v, want 1", got)
	}
}

func TestRouterRateLimitSkipsHealthcheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		RateLimitRPS:     0.001,
		RateLimitBurst:   1,
		HealthHandler:    httpH.NewHealthHandler(),
		UserStatsHandler: httpH.NewUserStatsHandler(stubStats{}),
	})

	get := func(path string) int {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	if code := get("/user/alice/stats"); code != http.StatusOK {
		t.Fatalf("first stats status=%d, want 200", code)
	}
	if code := get("/user/alice/stats"); code != http.StatusTooManyRequests {
		t.Fatalf("second stats status=%d, want 429", code)
	}
	for i := 0; i < 3; i++ {
		if code := get("/healthcheck"); code != http.StatusOK {
			t.Fatalf("healthcheck status=%d, want 200", code)
		}
	}
}
