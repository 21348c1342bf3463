//go:build unit

package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/metrics"
	"slotbook/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

type stubSweeper struct {
	released int64
	err      error
	calls    int
	lastNow  time.Time
}

func (s *stubSweeper) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	s.calls++
	s.lastNow = now
	return s.released, s.err
}

func TestSweep(t *testing.T) {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	m := metrics.NewBookingMetrics(prometheus.NewRegistry())

	t.Run("releases expired holds at the clock's now", func(t *testing.T) {
		sweeper := &stubSweeper{released: 3}
		reaper := worker.NewReaper(sweeper, clock.NewMockClock(now), m)

		released := reaper.Sweep(context.Background())

		assert.Equal(t, int64(3), released)
		assert.Equal(t, 1, sweeper.calls)
		assert.Equal(t, now, sweeper.lastNow)
	})

	t.Run("sweep failure reports zero", func(t *testing.T) {
		sweeper := &stubSweeper{err: errors.New("connection lost")}
		reaper := worker.NewReaper(sweeper, clock.NewMockClock(now), m)

		assert.Zero(t, reaper.Sweep(context.Background()))
	})

	t.Run("nothing expired is quiet", func(t *testing.T) {
		sweeper := &stubSweeper{released: 0}
		reaper := worker.NewReaper(sweeper, clock.NewMockClock(now), m)

		assert.Zero(t, reaper.Sweep(context.Background()))
	})
}

func TestStartRejectsBadSchedule(t *testing.T) {
	reaper := worker.NewReaper(&stubSweeper{}, clock.NewRealClock(), metrics.NewBookingMetrics(prometheus.NewRegistry()))
	assert.Error(t, reaper.Start("not a schedule"))
}
