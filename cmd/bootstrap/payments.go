package bootstrap

import (
	"slotbook/internal/payment"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/config"

	"go.uber.org/fx"
)

var PaymentModule = fx.Module("payment",
	fx.Provide(
		NewReconciler,
	),
)

func NewReconciler(cfg config.Config, clk clock.Clock) *payment.Reconciler {
	return payment.NewReconciler(
		payment.NewStripepay(cfg.Payments.StripepaySecret, clk),
		payment.NewSquarepay(cfg.Payments.SquarepayKey, cfg.Payments.SquarepayNotifyURL),
	)
}
