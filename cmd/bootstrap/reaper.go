package bootstrap

import (
	"context"

	"slotbook/internal/infra/repository"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/config"
	"slotbook/internal/pkg/metrics"
	"slotbook/internal/worker"

	"go.uber.org/fx"
)

var ReaperModule = fx.Module("reaper",
	fx.Provide(
		NewReaper,
	),
	fx.Invoke(startReaper),
)

func NewReaper(holdRepo *repository.HoldRepository, clk clock.Clock, m *metrics.BookingMetrics) *worker.Reaper {
	return worker.NewReaper(holdRepo, clk, m)
}

func startReaper(lc fx.Lifecycle, reaper *worker.Reaper, cfg config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return reaper.Start(cfg.Booking.ReaperSchedule)
		},
		OnStop: func(_ context.Context) error {
			reaper.Stop()
			return nil
		},
	})
}
