package app

import (
	"fmt"

	"github.com/yungbote/leettrack-backend/internal/clients/leetcode"
	"github.com/yungbote/leettrack-backend/internal/observability"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
	"github.com/yungbote/leettrack-backend/internal/services"
	"github.com/yungbote/leettrack-backend/internal/statcache"
)

type Services struct {
	UserStats    services.UserStatsService
	DailyProblem services.DailyProblemService
	Days         *statcache.DayKeyer
}

func wireServices(log *logger.Logger, cfg Config, stores *Stores, upstream leetcode.Client, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	days, err := statcache.NewDayKeyer(cfg.DailyResetTimezone, cfg.DailyResetHour)
	if err != nil {
		return Services{}, fmt.Errorf("init day keyer: %w", err)
	}

	userStats := services.NewUserStatsService(log, stores.UserStats, upstream, metrics, services.UserStatsConfig{
		TTL:             cfg.StatsCacheTTL,
		CoalesceRefresh: cfg.StatsCoalesceRefresh,
	})
	daily := services.NewDailyProblemService(log, stores.DailyProblem, upstream, days, metrics, services.DailyProblemConfig{
		CoalesceRefresh: cfg.StatsCoalesceRefresh,
	})

	return Services{
		UserStats:    userStats,
		DailyProblem: daily,
		Days:         days,
	}, nil
}
