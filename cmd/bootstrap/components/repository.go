package components

import (
	"slotbook/internal/infra/db"
	"slotbook/internal/infra/readstore"
	repo_impl "slotbook/internal/infra/repository"
	"slotbook/internal/usecase/commands"
	"slotbook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		repo_impl.NewHoldRepository,
		fx.Annotate(
			repo_impl.NewHoldRepository,
			fx.As(new(commands.HoldRepository)),
		),
		fx.Annotate(
			repo_impl.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			repo_impl.NewPaymentRepository,
			fx.As(new(commands.PaymentRepository)),
		),
		fx.Annotate(
			repo_impl.NewProfessionalRepository,
			fx.As(new(commands.CatalogRepository)),
			fx.As(new(queries.CatalogReader)),
		),
		// Read side
		fx.Annotate(
			readstore.NewHoldReadStore,
			fx.As(new(queries.HoldReadStore)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
			fx.As(new(commands.BookingReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
