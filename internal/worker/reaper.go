// Package worker hosts the background jobs that keep booking state
// converging without request traffic.
package worker

import (
	"context"
	"log/slog"
	"time"

	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// HoldSweeper releases every expired, unpromoted hold in one statement.
type HoldSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// Reaper periodically frees windows still occupied by holds whose TTL
// lapsed without checkout. Hold creation also clears expired overlaps
// inline, so the reaper is a convergence floor, not the only path.
type Reaper struct {
	sweeper HoldSweeper
	clock   clock.Clock
	metrics *metrics.BookingMetrics
	cron    *cron.Cron
}

func NewReaper(sweeper HoldSweeper, clk clock.Clock, m *metrics.BookingMetrics) *Reaper {
	return &Reaper{sweeper: sweeper, clock: clk, metrics: m}
}

// Start schedules recurring sweeps. The schedule accepts standard cron
// specs and the @every shorthand.
func (r *Reaper) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		r.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	c.Start()
	r.cron = c
	return nil
}

func (r *Reaper) Stop() {
	if r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
}

// Sweep runs one pass immediately. Operators can also trigger it out of
// schedule through the admin endpoint.
func (r *Reaper) Sweep(ctx context.Context) int64 {
	now := r.clock.Now()
	released, err := r.sweeper.SweepExpired(ctx, now)
	if err != nil {
		slog.Error("hold sweep failed", "error", err)
		return 0
	}
	if released > 0 {
		slog.Info("released expired holds", "count", released)
		r.metrics.ObserveReaped(int(released))
	}
	return released
}
