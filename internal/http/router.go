package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/leettrack-backend/internal/domain"
	httpH "github.com/yungbote/leettrack-backend/internal/http/handlers"
	httpMW "github.com/yungbote/leettrack-backend/internal/http/middleware"
	"github.com/yungbote/leettrack-backend/internal/observability"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string

	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int

	HealthHandler    *httpH.HealthHandler
	UserStatsHandler *httpH.UserStatsHandler
	ProblemHandler   *httpH.ProblemHandler
	MetricsHandler   *httpH.MetricsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Metrics
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", cfg.MetricsHandler.Scrape)
	}

	api := r.Group("/")
	api.Use(httpMW.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		// User stats
		if cfg.UserStatsHandler != nil {
			api.GET("/user/:userId/stats", cfg.UserStatsHandler.GetStats)
			api.GET("/user/:userId/easy", cfg.UserStatsHandler.GetDifficulty(domain.DifficultyEasy))
			api.GET("/user/:userId/medium", cfg.UserStatsHandler.GetDifficulty(domain.DifficultyMedium))
			api.GET("/user/:userId/hard", cfg.UserStatsHandler.GetDifficulty(domain.DifficultyHard))
			api.GET("/user/:userId/recent-submissions", cfg.UserStatsHandler.GetRecentSubmissions)
		}

		// Problems
		if cfg.ProblemHandler != nil {
			api.GET("/problems/problem-of-the-day", cfg.ProblemHandler.GetProblemOfTheDay)
		}
	}

	return r
}
