package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leettrack-backend/internal/clients/leetcode"
	"github.com/yungbote/leettrack-backend/internal/clients/redis"
	"github.com/yungbote/leettrack-backend/internal/data/db"
	"github.com/yungbote/leettrack-backend/internal/observability"
	"github.com/yungbote/leettrack-backend/internal/platform/config"
	"github.com/yungbote/leettrack-backend/internal/statcache"
)

type Config struct {
	LogMode string `env:"LOG_MODE" envDefault:"development"`
	Port    string `env:"PORT" envDefault:"4000"`
	GinMode string `env:"GIN_MODE" envDefault:"release"`

	StoreDriver StoreDriver `env:"STORE_DRIVER" envDefault:"postgres"`

	StatsCacheTTL        time.Duration `env:"STATS_CACHE_TTL" envDefault:"5m"`
	StatsCoalesceRefresh bool          `env:"STATS_COALESCE_REFRESH" envDefault:"false"`
	DailyResetTimezone   string        `env:"DAILY_RESET_TIMEZONE" envDefault:"America/New_York"`
	DailyResetHour       int           `env:"DAILY_RESET_HOUR" envDefault:"3"`

	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"20"`
	CORSOrigins    []string `env:"CORS_ORIGINS" envSeparator:","`
	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"true"`

	Postgres db.PostgresConfig
	SQLite   db.SQLiteConfig
	Redis    redis.Config
	LeetCode leetcode.Config
	Otel     observability.OtelConfig
}

// LoadConfig reads the process environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// LoadConfigFrom reads an explicit environment map.
func LoadConfigFrom(environment map[string]string) (Config, error) {
	var cfg Config
	if err := config.ParseEnvWith(&cfg, environment); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if !c.StoreDriver.Valid() {
		return &StoreBootstrapError{
			Code:   StoreBootstrapErrorInvalidDriver,
			Driver: string(c.StoreDriver),
			Cause:  fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver),
		}
	}
	if c.StatsCacheTTL <= 0 {
		return fmt.Errorf("STATS_CACHE_TTL must be positive, got %s", c.StatsCacheTTL)
	}
	if _, err := statcache.NewDayKeyer(c.DailyResetTimezone, c.DailyResetHour); err != nil {
		return fmt.Errorf("daily reset: %w", err)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 1 when RATE_LIMIT_RPS is set")
	}
	switch c.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
	default:
		return fmt.Errorf("unsupported GIN_MODE %q", c.GinMode)
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("PORT is empty")
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
