package components

import (
	"slotbook/internal/domain/availability"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/config"
	"slotbook/internal/pkg/metrics"
	"slotbook/internal/pkg/session"
	"slotbook/internal/usecase/commands"
	"slotbook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) (*availability.Calculator, error) {
		return availability.NewCalculator(cfg.Booking.SlotGranularity)
	},
	func(s *session.Service) commands.SessionService {
		return s
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(
			holdRepo commands.HoldRepository,
			bookingRepo commands.BookingRepository,
			paymentRepo commands.PaymentRepository,
			catalogRepo commands.CatalogRepository,
			bookingReads commands.BookingReadStore,
			sessions commands.SessionService,
			pool *pgxpool.Pool,
			clk clock.Clock,
			cfg config.Config,
			m *metrics.BookingMetrics,
		) commands.HoldCommands {
			return commands.NewHoldCommands(
				holdRepo, bookingRepo, paymentRepo, catalogRepo,
				bookingReads, sessions, pool, clk, cfg.Booking.HoldTTL, m,
			)
		},
		commands.NewPaymentCommands,
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewBookingQueries,
	),
)
