package app

import (
	"github.com/yungbote/leettrack-backend/internal/http"
	httpH "github.com/yungbote/leettrack-backend/internal/http/handlers"
	"github.com/yungbote/leettrack-backend/internal/observability"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	UserStats *httpH.UserStatsHandler
	Problem   *httpH.ProblemHandler
	Metrics   *httpH.MetricsHandler
}

func wireHandlers(log *logger.Logger, services Services, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	h := Handlers{
		Health:    httpH.NewHealthHandler(),
		UserStats: httpH.NewUserStatsHandler(services.UserStats),
		Problem:   httpH.NewProblemHandler(services.DailyProblem),
	}
	if metrics != nil {
		h.Metrics = httpH.NewMetricsHandler(metrics)
	}
	return h
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.CORSOrigins,
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		HealthHandler:    handlers.Health,
		UserStatsHandler: handlers.UserStats,
		ProblemHandler:   handlers.Problem,
		MetricsHandler:   handlers.Metrics,
	})
}
