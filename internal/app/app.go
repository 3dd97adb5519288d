package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/leettrack-backend/internal/clients/leetcode"
	"github.com/yungbote/leettrack-backend/internal/http"
	"github.com/yungbote/leettrack-backend/internal/observability"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Metrics  *observability.Metrics
	Stores   *Stores
	Upstream leetcode.Client
	Services Services
	Server   *http.Server

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New loads configuration from the environment and wires the whole service.
func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := NewWithConfig(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	gin.SetMode(cfg.GinMode)

	otelShutdown := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log, cfg.MetricsEnabled)

	stores, err := resolveStores(ctx, log, cfg)
	if err != nil {
		return nil, err
	}

	upstream, err := leetcode.New(log, cfg.LeetCode, metrics)
	if err != nil {
		_ = stores.Close()
		return nil, fmt.Errorf("init leetcode client: %w", err)
	}

	serviceset, err := wireServices(log, cfg, stores, upstream, metrics)
	if err != nil {
		_ = stores.Close()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, metrics)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Metrics:      metrics,
		Stores:       stores,
		Upstream:     upstream,
		Services:     serviceset,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background collectors. It is a no-op when already started.
func (a *App) Start(ctx context.Context) {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Metrics != nil && a.Stores != nil {
		if a.Stores.DB != nil {
			a.Metrics.StartDBCollector(ctx, a.Log, a.Stores.DB)
		}
		if a.Stores.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Stores.Redis)
		}
	}
}

// Run serves HTTP until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Start(ctx)
	return a.Server.Run(ctx, a.Cfg.Addr())
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	var errs []error
	if a.Stores != nil {
		errs = append(errs, a.Stores.Close())
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		errs = append(errs, a.otelShutdown(ctx))
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}
