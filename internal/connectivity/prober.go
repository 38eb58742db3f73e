package connectivity

import (
	"context"
	"log/slog"
	"net"
	"time"
)

type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type ProberConfig struct {
	Address  string
	Interval time.Duration
	Timeout  time.Duration
}

// Prober periodically dials a TCP address and feeds the result into a Monitor.
type Prober struct {
	monitor *Monitor
	cfg     ProberConfig
	dial    DialFunc
	logger  *slog.Logger
}

func NewProber(monitor *Monitor, cfg ProberConfig, logger *slog.Logger) *Prober {
	var d net.Dialer
	return &Prober{
		monitor: monitor,
		cfg:     cfg,
		dial:    d.DialContext,
		logger:  logger.With("component", "connectivity"),
	}
}

// WithDialer replaces the dial function, used by tests.
func (p *Prober) WithDialer(dial DialFunc) *Prober {
	p.dial = dial
	return p
}

// Run probes once immediately and then every interval until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	p.Probe(ctx)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}

// Probe performs a single reachability check and returns the result.
func (p *Prober) Probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	conn, err := p.dial(probeCtx, "tcp", p.cfg.Address)
	reachable := err == nil
	if conn != nil {
		_ = conn.Close()
	}

	if p.monitor.Set(reachable) {
		if reachable {
			p.logger.Info("connectivity restored", "address", p.cfg.Address)
		} else {
			p.logger.Warn("connectivity lost", "address", p.cfg.Address, "error", err)
		}
	}
	return reachable
}
