package components

import (
	"slotbook/internal/handler"
	"slotbook/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAvailabilityHandler,
		api.NewHoldHandler,
		api.NewBookingHandler,
		api.NewWebhookHandler,
	),
	fx.Invoke(handler.NewRouter),
)
