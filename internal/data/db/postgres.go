package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/leettrack-backend/internal/platform/logger"
)

type PostgresConfig struct {
	URL          string `env:"DATABASE_URL"`
	Host         string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         string `env:"POSTGRES_PORT" envDefault:"5432"`
	User         string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password     string `env:"POSTGRES_PASSWORD"`
	Name         string `env:"POSTGRES_NAME" envDefault:"leettrack"`
	SSLMode      string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	MaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"10"`
}

// DSN returns DATABASE_URL when set, else a URL assembled from the parts.
func (c PostgresConfig) DSN() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Name,
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else if c.User != "" {
		u.User = url.User(c.User)
	}
	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}
	return u.String()
}

// OpenPostgres connects through pgx's database/sql adapter so pool settings
// and pgx connection parsing apply to the gorm handle.
func OpenPostgres(ctx context.Context, log *logger.Logger, cfg PostgresConfig) (*gorm.DB, error) {
	dsn := cfg.DSN()
	pgCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	sqlDB := stdlib.OpenDB(*pgCfg)
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}
	log.Info("postgres connected", "dsn", dsn, "database", pgCfg.Database)
	return db, nil
}
