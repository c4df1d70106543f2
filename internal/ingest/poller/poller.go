// Package poller drives the ingestion cycle: one historical backfill at
// startup, then reconcile-and-scan on a fixed interval until cancelled.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/trungle-dev/ethtribute/internal/ingest/metrics"
)

// Reconciler runs one transfer reconciliation pass.
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

// Scanner runs donation log scans.
type Scanner interface {
	Backfill(ctx context.Context) error
	Incremental(ctx context.Context) error
}

// Loop is the long-lived ingestion task.
type Loop struct {
	reconciler Reconciler
	scanner    Scanner
	interval   time.Duration
	log        *slog.Logger
}

// New creates a poll loop with the given cycle interval.
func New(reconciler Reconciler, scanner Scanner, interval time.Duration) *Loop {
	return &Loop{
		reconciler: reconciler,
		scanner:    scanner,
		interval:   interval,
		log:        slog.Default(),
	}
}

// Run executes the loop until the context is cancelled. Step errors are
// logged and swallowed: persistence dedup makes re-processing safe, so every
// failure is retried by the next cycle rather than terminating the task. A
// failed backfill is likewise only logged; missed historical donations are an
// accepted limitation.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.scanner.Backfill(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.StepErrors.WithLabelValues("backfill").Inc()
		l.log.Error("Backfill failed, proceeding without full history", "error", err)
	}

	for {
		if err := l.reconciler.Reconcile(ctx); err != nil {
			metrics.StepErrors.WithLabelValues("reconcile").Inc()
			l.log.Error("Transfer reconciliation failed", "error", err)
		}
		if err := l.scanner.Incremental(ctx); err != nil {
			metrics.StepErrors.WithLabelValues("scan").Inc()
			l.log.Error("Incremental scan failed", "error", err)
		}
		metrics.PollCycles.Inc()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.interval):
		}
	}
}
