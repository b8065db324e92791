// Package health polls the API liveness endpoint and tracks a tri-state
// status: checking until the first probe completes, then up or down.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/zynor/internal/metrics"
)

// DefaultInterval is the time between probes.
const DefaultInterval = 10 * time.Second

// Status is the observed API state.
type Status string

const (
	StatusChecking Status = "checking"
	StatusUp       Status = "up"
	StatusDown     Status = "down"
)

var allStatuses = []Status{StatusChecking, StatusUp, StatusDown}

// Checker performs one liveness check. A nil error means the API is up.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) error

// Check implements Checker.
func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// Observer is called with the previous and the new status on every change.
type Observer func(prev, next Status)

// Probe runs a Checker periodically and publishes status changes.
type Probe struct {
	log      *slog.Logger
	checker  Checker
	interval time.Duration
	metrics  *metrics.Metrics

	mu        sync.RWMutex
	status    Status
	observers []Observer
}

// NewProbe creates a Probe in the checking state. A non-positive interval
// means DefaultInterval; m may be nil.
func NewProbe(log *slog.Logger, checker Checker, interval time.Duration, m *metrics.Metrics) *Probe {
	if interval <= 0 {
		interval = DefaultInterval
	}

	p := &Probe{
		log:      log,
		checker:  checker,
		interval: interval,
		metrics:  m,
		status:   StatusChecking,
	}
	p.exportStatus(StatusChecking)

	return p
}

// Status returns the current status.
func (p *Probe) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.status
}

// Subscribe registers fn for status changes. Observers run on the probe
// goroutine, in registration order.
func (p *Probe) Subscribe(fn Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.observers = append(p.observers, fn)
}

// Run probes immediately and then on every tick until ctx is done.
// The result of a probe that completes after cancellation is dropped.
func (p *Probe) Run(ctx context.Context) {
	p.log.DebugContext(ctx, "Health probe started", "interval", p.interval)

	p.CheckNow(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.CheckNow(ctx)
		case <-ctx.Done():
			p.log.DebugContext(ctx, "Health probe stopped")
			return
		}
	}
}

// CheckNow runs one probe and applies its result unless ctx is already done.
// It returns the status after the probe.
func (p *Probe) CheckNow(ctx context.Context) Status {
	err := p.checker.Check(ctx)
	if ctx.Err() != nil {
		return p.Status()
	}

	next := StatusUp
	if err != nil {
		next = StatusDown
		p.log.DebugContext(ctx, "Health check failed", "error", err)
	}

	p.set(ctx, next)
	return next
}

func (p *Probe) set(ctx context.Context, next Status) {
	p.mu.Lock()
	prev := p.status
	if prev == next {
		p.mu.Unlock()
		return
	}
	p.status = next
	observers := append([]Observer(nil), p.observers...)
	p.mu.Unlock()

	p.exportStatus(next)
	p.log.InfoContext(ctx, "API health changed", "from", prev, "to", next)

	for _, fn := range observers {
		fn(prev, next)
	}
}

func (p *Probe) exportStatus(current Status) {
	if p.metrics == nil {
		return
	}
	for _, s := range allStatuses {
		value := 0.0
		if s == current {
			value = 1
		}
		p.metrics.HealthStatus.WithLabelValues(string(s)).Set(value)
	}
}
