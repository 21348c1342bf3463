package bootstrap

import (
	"slotbook/internal/calendar"
	"slotbook/internal/pkg/config"

	"go.uber.org/fx"
)

var CalendarModule = fx.Module("calendar",
	fx.Provide(
		fx.Annotate(
			NewCalendarClient,
			fx.As(new(calendar.BusySource)),
		),
	),
)

func NewCalendarClient(cfg config.Config) *calendar.HTTPClient {
	return calendar.NewHTTPClient(cfg.Calendar)
}
