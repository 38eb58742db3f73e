package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"news_review/internal/connectivity"
	"news_review/internal/domain"
)

// Syncer defines the interface for sync operations.
type Syncer interface {
	Sync(ctx context.Context, trigger domain.Trigger) (*domain.SyncResult, error)
}

type Config struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Scheduler fans in manual, periodic and reachability triggers and runs at
// most one sync pass at a time. Triggers arriving during a pass are dropped.
type Scheduler struct {
	syncer  Syncer
	network connectivity.Provider
	cfg     Config
	logger  *slog.Logger

	manual  chan domain.Trigger
	running atomic.Bool
	wg      sync.WaitGroup
}

func NewScheduler(syncer Syncer, network connectivity.Provider, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:  syncer,
		network: network,
		cfg:     cfg,
		logger:  logger.With("component", "scheduler"),
		manual:  make(chan domain.Trigger, 1),
	}
}

// Trigger requests a manual pass. It reports false when a pass is already
// running or another request is pending.
func (s *Scheduler) Trigger() bool {
	if s.running.Load() {
		return false
	}
	select {
	case s.manual <- domain.TriggerManual:
		return true
	default:
		return false
	}
}

// Running reports whether a pass is in flight.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Start runs the intake loop until ctx is done, then waits for an in-flight
// pass to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.cfg.Interval)
	defer s.wg.Wait()

	edges, unsubscribe := s.network.Subscribe()
	defer unsubscribe()

	if s.network.IsReachable() {
		s.dispatch(ctx, domain.TriggerStartup)
	} else {
		s.logger.Info("offline at start-up, waiting for connectivity")
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case trigger := <-s.manual:
			s.dispatch(ctx, trigger)
		case <-ticker.C:
			if !s.network.IsReachable() {
				s.logger.Debug("skipping periodic sync while offline")
				continue
			}
			s.dispatch(ctx, domain.TriggerPeriodic)
		case reachable := <-edges:
			if reachable {
				s.dispatch(ctx, domain.TriggerReachability)
			}
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, trigger domain.Trigger) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Info("sync already running, trigger dropped", "trigger", trigger)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		s.runSync(ctx, trigger)
	}()
}

func (s *Scheduler) runSync(ctx context.Context, trigger domain.Trigger) {
	syncCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if _, err := s.syncer.Sync(syncCtx, trigger); err != nil {
		s.logger.Error("sync failed", "trigger", trigger, "error", err)
	}
}
