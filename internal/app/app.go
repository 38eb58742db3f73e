// Package app wires configuration into the running components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	"news_review/internal/api"
	"news_review/internal/config"
	"news_review/internal/connectivity"
	"news_review/internal/publisher"
	"news_review/internal/review"
	"news_review/internal/scheduler"
	"news_review/internal/service"
	"news_review/internal/session"
	"news_review/internal/source/httpapi"
	"news_review/internal/source/simulated"
	"news_review/internal/status"
	"news_review/internal/storage/sqlstore"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger

	DB        *sqlx.DB
	Articles  *sqlstore.ArticleStore
	SyncState *sqlstore.SyncStateStore

	Network *connectivity.Monitor
	// Prober is nil when connectivity is forced offline.
	Prober *connectivity.Prober

	Source    service.Source
	Tracker   *status.Tracker
	Sync      *service.SyncService
	Scheduler *scheduler.Scheduler
	Review    *review.Workflow
	Session   *session.Manager

	publisher *publisher.RabbitMQ
}

// New opens the store, picks the remote source and builds the engine.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := sqlstore.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Info("connected to database", "driver", cfg.Store.Driver)

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Articles:  sqlstore.NewArticleStore(db),
		SyncState: sqlstore.NewSyncStateStore(db),
		Network:   connectivity.NewMonitor(!cfg.Connectivity.Offline),
		Tracker:   status.NewTracker(),
	}

	if !cfg.Connectivity.Offline {
		a.Prober = connectivity.NewProber(a.Network, connectivity.ProberConfig{
			Address:  cfg.Connectivity.ProbeAddress,
			Interval: cfg.Connectivity.ProbeInterval,
			Timeout:  cfg.Connectivity.ProbeTimeout,
		}, logger)
	}

	a.Source, err = newSource(cfg.Remote, a.Network, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		a.publisher, err = publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		pub = a.publisher
	}

	a.Sync = service.NewSyncService(
		a.Source,
		a.Articles,
		a.SyncState,
		sqlstore.NewTransactionManager(db),
		a.Tracker,
		pub,
		logger,
	)

	a.Scheduler = scheduler.NewScheduler(a.Sync, a.Network, scheduler.Config{
		Interval: cfg.Sync.Interval,
		Timeout:  cfg.Sync.Timeout,
	}, logger)

	a.Review = review.NewWorkflow(a.Articles, a.Network, cfg.Review.PageSize, logger)
	a.Session = session.NewManager(sqlstore.NewSessionStore(db), a.Articles, logger)

	return a, nil
}

func newSource(cfg config.RemoteConfig, network connectivity.Provider, logger *slog.Logger) (service.Source, error) {
	switch cfg.Mode {
	case config.RemoteSimulated:
		return simulated.New(simulated.Config{
			Latency:      cfg.Latency,
			FailArticles: cfg.FailArticles,
		}, simulated.DefaultDataset(), network, logger), nil
	case config.RemoteHTTP:
		return httpapi.New(httpapi.Config{
			BaseURL:        cfg.BaseURL,
			Timeout:        cfg.Timeout,
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
		}, network, logger), nil
	default:
		return nil, fmt.Errorf("unknown remote mode %q", cfg.Mode)
	}
}

// Router builds the HTTP status surface.
func (a *App) Router() http.Handler {
	return api.NewRouter(api.Deps{
		SourceID:  a.Sync.SourceID(),
		Status:    a.Tracker,
		Trigger:   a.Scheduler,
		Articles:  a.Articles,
		SyncState: a.SyncState,
		Network:   a.Network,
		Logger:    a.Logger,
	})
}

// CheckConnectivity runs one probe when a prober is configured.
func (a *App) CheckConnectivity(ctx context.Context) bool {
	if a.Prober == nil {
		return a.Network.IsReachable()
	}
	return a.Prober.Probe(ctx)
}

func (a *App) Close() error {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.Logger.Warn("failed to close publisher", "error", err)
		}
	}
	return a.DB.Close()
}
