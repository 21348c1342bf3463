package commands

import (
	"context"
	"log/slog"
	"time"

	"slotbook/internal/domain/booking"
	"slotbook/internal/domain/hold"
	"slotbook/internal/domain/timewindow"
	"slotbook/internal/infra"
	"slotbook/internal/pkg/canceltoken"
	"slotbook/internal/pkg/clock"
	"slotbook/internal/pkg/errs"
	"slotbook/internal/pkg/metrics"
	"slotbook/internal/pkg/session"
	"slotbook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProfessionalNotFound    = errs.New("professional not found")
	ErrServiceNotFound         = errs.New("service not found")
	ErrServiceMismatch         = errs.New("service does not belong to professional")
	ErrInvalidWindow           = errs.New("invalid time window")
	ErrSlotConflict            = errs.New("slot no longer available")
	ErrHoldNotFound            = errs.New("hold not found")
	ErrHoldExpired             = errs.New("hold expired")
	ErrSessionInvalid          = errs.New("session token invalid")
	ErrSessionMismatch         = errs.New("session token does not match hold")
	ErrInvalidClientInfo       = errs.New("invalid client info")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

type CreateHoldParams struct {
	ProfessionalID uuid.UUID
	ServiceID      uuid.UUID
	Start          time.Time
}

type CreateHoldResult struct {
	HoldID       uuid.UUID
	Start        time.Time
	End          time.Time
	ExpiresAt    time.Time
	SessionToken string
}

type CheckoutParams struct {
	HoldID       uuid.UUID
	SessionToken string
	ClientName   string
	ClientEmail  string
	ClientPhone  string
}

type CheckoutResult struct {
	Booking *queries.BookingView
	// CancellationToken is returned in plaintext exactly once.
	CancellationToken string
}

type HoldCommands interface {
	CreateHold(ctx context.Context, params CreateHoldParams) (*CreateHoldResult, error)
	ReleaseHold(ctx context.Context, holdID uuid.UUID, sessionToken string) error
	Checkout(ctx context.Context, params CheckoutParams) (*CheckoutResult, error)
}

type holdCommandsImpl struct {
	holdRepo     HoldRepository
	bookingRepo  BookingRepository
	paymentRepo  PaymentRepository
	catalogRepo  CatalogRepository
	bookingReads BookingReadStore
	sessions     SessionService
	db           *pgxpool.Pool
	clock        clock.Clock
	holdTTL      time.Duration
	metrics      *metrics.BookingMetrics
}

func NewHoldCommands(
	holdRepo HoldRepository,
	bookingRepo BookingRepository,
	paymentRepo PaymentRepository,
	catalogRepo CatalogRepository,
	bookingReads BookingReadStore,
	sessions SessionService,
	db *pgxpool.Pool,
	clk clock.Clock,
	holdTTL time.Duration,
	bookingMetrics *metrics.BookingMetrics,
) HoldCommands {
	return &holdCommandsImpl{
		holdRepo:     holdRepo,
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		catalogRepo:  catalogRepo,
		bookingReads: bookingReads,
		sessions:     sessions,
		db:           db,
		clock:        clk,
		holdTTL:      holdTTL,
		metrics:      bookingMetrics,
	}
}

// CreateHold reserves the window exclusively while the client checks out.
// The availability snapshot the client picked from may already be stale;
// the exclusion constraint is the arbiter, and a loss here is the expected
// "slot no longer available" outcome, not a system error.
func (c *holdCommandsImpl) CreateHold(ctx context.Context, params CreateHoldParams) (*CreateHoldResult, error) {
	if _, err := c.catalogRepo.FindByID(ctx, params.ProfessionalID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrProfessionalNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	svc, err := c.catalogRepo.FindServiceByID(ctx, params.ServiceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if svc.ProfessionalID != params.ProfessionalID {
		return nil, ErrServiceMismatch
	}

	window, err := timewindow.New(params.Start, params.Start.Add(svc.Duration))
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidWindow)
	}

	now := c.clock.Now()
	h, err := hold.NewHold(params.ProfessionalID, params.ServiceID, window, c.holdTTL, now)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidWindow)
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer rollback(ctx, tx)

	// Expired-but-unswept holds would otherwise block the window until
	// the next reaper cycle.
	if err := c.holdRepo.ReleaseExpiredOverlapping(ctx, tx, params.ProfessionalID, window, now); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := c.holdRepo.Create(ctx, tx, h); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			c.metrics.ObserveHoldConflict()
			return nil, ErrSlotConflict
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	token, err := c.sessions.IssueToken(h.SessionID(), h.ID())
	if err != nil {
		// The hold exists but the client cannot act on it; the reaper
		// reclaims it after the TTL.
		return nil, errs.Wrap(err, "failed to issue session token")
	}

	c.metrics.ObserveHoldCreated()

	return &CreateHoldResult{
		HoldID:       h.ID(),
		Start:        window.Start(),
		End:          window.End(),
		ExpiresAt:    h.ExpiresAt(),
		SessionToken: token,
	}, nil
}

// ReleaseHold is idempotent: releasing an already-released hold succeeds.
func (c *holdCommandsImpl) ReleaseHold(ctx context.Context, holdID uuid.UUID, sessionToken string) error {
	h, err := c.authorizeHold(ctx, holdID, sessionToken)
	if err != nil {
		return err
	}
	if h.IsPromoted() {
		// A promoted hold belongs to its booking now; releasing it goes
		// through the cancellation flow.
		return ErrHoldNotFound
	}

	if err := c.holdRepo.Release(ctx, c.db, holdID, c.clock.Now()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

// Checkout promotes the hold into a booking atomically. Expiry is decided
// by the storage-side compare-and-swap at this very moment, so a hold
// mid-promotion is either promoted or swept, never both.
func (c *holdCommandsImpl) Checkout(ctx context.Context, params CheckoutParams) (*CheckoutResult, error) {
	h, err := c.authorizeHold(ctx, params.HoldID, params.SessionToken)
	if err != nil {
		return nil, err
	}

	client, err := booking.NewClientInfo(params.ClientName, params.ClientEmail, params.ClientPhone)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidClientInfo)
	}

	svc, err := c.catalogRepo.FindServiceByID(ctx, h.ServiceID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	requiresPayment := svc.PriceCents > 0

	plainToken, tokenHash, err := canceltoken.Generate()
	if err != nil {
		return nil, errs.Wrap(err, "failed to generate cancellation token")
	}

	now := c.clock.Now()

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	defer rollback(ctx, tx)

	promoted, err := c.holdRepo.Promote(ctx, tx, params.HoldID, now)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !promoted {
		return nil, c.promotionFailure(ctx, params.HoldID, now)
	}

	// The booking window is exactly the hold's window.
	b := booking.NewBooking(
		h.ProfessionalID(), h.ServiceID(), h.ID(),
		h.Window(), client, tokenHash, requiresPayment, now,
	)
	if err := c.bookingRepo.Create(ctx, tx, b); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if requiresPayment {
		p, err := booking.NewPayment(b.ID(), svc.PriceCents, now)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := c.paymentRepo.Create(ctx, tx, p); err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	view, err := c.bookingReads.FindByID(ctx, b.ID())
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return &CheckoutResult{
		Booking:           view,
		CancellationToken: plainToken,
	}, nil
}

func (c *holdCommandsImpl) authorizeHold(ctx context.Context, holdID uuid.UUID, sessionToken string) (*hold.Hold, error) {
	claims, err := c.validateSession(sessionToken)
	if err != nil {
		return nil, err
	}
	if claims.HoldID != holdID {
		return nil, ErrSessionMismatch
	}

	h, err := c.holdRepo.FindByID(ctx, holdID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrHoldNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if claims.SessionID != h.SessionID() {
		return nil, ErrSessionMismatch
	}
	return h, nil
}

func (c *holdCommandsImpl) validateSession(token string) (*session.Claims, error) {
	claims, err := c.sessions.ValidateToken(token)
	if err != nil {
		return nil, errs.Mark(err, ErrSessionInvalid)
	}
	return claims, nil
}

// promotionFailure maps a lost promotion CAS to the precise client-facing
// reason by re-reading the row.
func (c *holdCommandsImpl) promotionFailure(ctx context.Context, holdID uuid.UUID, now time.Time) error {
	h, err := c.holdRepo.FindByID(ctx, holdID)
	if err != nil {
		return ErrHoldNotFound
	}
	switch checkErr := h.CheckPromotable(now); checkErr {
	case hold.ErrExpired:
		return ErrHoldExpired
	case nil:
		// The CAS lost but the row still looks promotable: another
		// transaction holds it. Treat as expired so the client restarts.
		slog.Warn("hold promotion lost a race", "hold_id", holdID)
		return ErrHoldExpired
	default:
		return ErrHoldNotFound
	}
}
