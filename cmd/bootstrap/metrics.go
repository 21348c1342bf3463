package bootstrap

import (
	"slotbook/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		NewBookingMetrics,
	),
)

func NewBookingMetrics() *metrics.BookingMetrics {
	return metrics.NewBookingMetrics(prometheus.DefaultRegisterer)
}
