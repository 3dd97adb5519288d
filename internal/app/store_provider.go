package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/leettrack-backend/internal/clients/redis"
	"github.com/yungbote/leettrack-backend/internal/data/db"
	"github.com/yungbote/leettrack-backend/internal/data/repos/stats"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
	"github.com/yungbote/leettrack-backend/internal/services"
)

type StoreDriver string

const (
	StoreDriverPostgres StoreDriver = "postgres"
	StoreDriverSQLite   StoreDriver = "sqlite"
	StoreDriverRedis    StoreDriver = "redis"
)

func (d StoreDriver) Valid() bool {
	switch d {
	case StoreDriverPostgres, StoreDriverSQLite, StoreDriverRedis:
		return true
	default:
		return false
	}
}

type StoreBootstrapErrorCode string

const (
	StoreBootstrapErrorInvalidDriver StoreBootstrapErrorCode = "invalid_driver"
	StoreBootstrapErrorConnectFailed StoreBootstrapErrorCode = "connect_failed"
	StoreBootstrapErrorMigrateFailed StoreBootstrapErrorCode = "migrate_failed"
)

type StoreBootstrapError struct {
	Code   StoreBootstrapErrorCode
	Driver string
	Cause  error
}

func (e *StoreBootstrapError) Error() string {
	if e == nil {
		return "store bootstrap failed"
	}
	return fmt.Sprintf("store bootstrap failed (code=%s driver=%q): %v", e.Code, e.Driver, e.Cause)
}

func (e *StoreBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Stores holds the two cache stores plus the connection that backs them.
// Exactly one of DB and Redis is set.
type Stores struct {
	Driver       StoreDriver
	UserStats    services.UserStatsStore
	DailyProblem services.DailyProblemStore

	DB    *gorm.DB
	Redis *goredis.Client
}

func (s *Stores) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.DB != nil {
		errs = append(errs, db.Close(s.DB))
	}
	if s.Redis != nil {
		errs = append(errs, s.Redis.Close())
	}
	return errors.Join(errs...)
}

func resolveStores(ctx context.Context, log *logger.Logger, cfg Config) (*Stores, error) {
	driver := StoreDriver(strings.ToLower(strings.TrimSpace(string(cfg.StoreDriver))))
	if !driver.Valid() {
		err := &StoreBootstrapError{
			Code:   StoreBootstrapErrorInvalidDriver,
			Driver: string(cfg.StoreDriver),
			Cause:  fmt.Errorf("unsupported store driver %q", cfg.StoreDriver),
		}
		log.Error("Store driver selection failed", "driver", cfg.StoreDriver, "error_code", err.Code, "error", err)
		return nil, err
	}

	log.Info("Selecting store driver", "driver", driver)

	switch driver {
	case StoreDriverRedis:
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, bootstrapFailure(log, driver, StoreBootstrapErrorConnectFailed, err)
		}
		return &Stores{
			Driver:       driver,
			UserStats:    redis.NewUserStatsStore(log, rdb, cfg.Redis.KeyPrefix),
			DailyProblem: redis.NewDailyProblemStore(log, rdb, cfg.Redis.KeyPrefix),
			Redis:        rdb,
		}, nil
	default:
		var (
			gdb *gorm.DB
			err error
		)
		if driver == StoreDriverSQLite {
			gdb, err = db.OpenSQLite(log, cfg.SQLite)
		} else {
			gdb, err = db.OpenPostgres(ctx, log, cfg.Postgres)
		}
		if err != nil {
			return nil, bootstrapFailure(log, driver, StoreBootstrapErrorConnectFailed, err)
		}
		if err := db.AutoMigrateAll(gdb); err != nil {
			_ = db.Close(gdb)
			return nil, bootstrapFailure(log, driver, StoreBootstrapErrorMigrateFailed, err)
		}
		return &Stores{
			Driver:       driver,
			UserStats:    stats.NewUserStatsRepo(gdb, log),
			DailyProblem: stats.NewDailyProblemRepo(gdb, log),
			DB:           gdb,
		}, nil
	}
}

func bootstrapFailure(log *logger.Logger, driver StoreDriver, code StoreBootstrapErrorCode, cause error) error {
	err := &StoreBootstrapError{Code: code, Driver: string(driver), Cause: cause}
	log.Error("Store bootstrap failed", "driver", driver, "error_code", code, "error", cause)
	return err
}

// StoreBootstrapCode extracts the failure code from err, defaulting to connect_failed.
func StoreBootstrapCode(err error) StoreBootstrapErrorCode {
	var bootstrapErr *StoreBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StoreBootstrapErrorConnectFailed
}
