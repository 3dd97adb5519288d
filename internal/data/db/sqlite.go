package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yungbote/leettrack-backend/internal/platform/logger"
)

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" envDefault:"leettrack.db"`
}

// OpenSQLite opens a single-connection sqlite database. Paths starting with
// "file:" are passed through untouched so tests can use shared in-memory dbs.
func OpenSQLite(log *logger.Logger, cfg SQLiteConfig) (*gorm.DB, error) {
	dsn := strings.TrimSpace(cfg.Path)
	if dsn == "" {
		return nil, fmt.Errorf("missing SQLITE_PATH")
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn += "?_busy_timeout=5000&_journal_mode=WAL"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", cfg.Path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	log.Info("sqlite opened", "path", cfg.Path)
	return db, nil
}
