package booking

import (
	"errors"
	"strings"
	"time"

	"slotbook/internal/domain/timewindow"

	"github.com/google/uuid"
)

var (
	ErrInvalidClientInfo    = errors.New("client name and email are required")
	ErrAlreadyCancelled     = errors.New("booking is already cancelled")
	ErrNotAwaitingPayment   = errors.New("booking is not awaiting payment")
	ErrConflictingTerminal  = errors.New("conflicting terminal transition")
	ErrTransitionFromFinal  = errors.New("no transition exists out of a terminal state")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
)

type ClientInfo struct {
	Name  string
	Email string
	Phone string
}

func NewClientInfo(name, email, phone string) (ClientInfo, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return ClientInfo{}, ErrInvalidClientInfo
	}
	return ClientInfo{Name: name, Email: email, Phone: strings.TrimSpace(phone)}, nil
}

// Booking is the permanent record a hold is promoted into. Its window
// always equals the promoted hold's window; it is never hard-deleted,
// cancellation is a status transition.
type Booking struct {
	id              uuid.UUID
	professionalID  uuid.UUID
	serviceID       uuid.UUID
	holdID          uuid.UUID
	window          timewindow.Window
	client          ClientInfo
	status          Status
	cancelTokenHash string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBooking creates the booking a promoted hold becomes. Free services
// skip payment and confirm immediately.
func NewBooking(
	professionalID, serviceID, holdID uuid.UUID,
	window timewindow.Window,
	client ClientInfo,
	cancelTokenHash string,
	requiresPayment bool,
	now time.Time,
) *Booking {
	status := StatusConfirmed
	if requiresPayment {
		status = StatusPendingPayment
	}
	return &Booking{
		id:              uuid.New(),
		professionalID:  professionalID,
		serviceID:       serviceID,
		holdID:          holdID,
		window:          window,
		client:          client,
		status:          status,
		cancelTokenHash: cancelTokenHash,
		createdAt:       now,
		updatedAt:       now,
	}
}

func ReconstructBooking(
	id, professionalID, serviceID, holdID uuid.UUID,
	window timewindow.Window,
	client ClientInfo,
	status Status,
	cancelTokenHash string,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		professionalID:  professionalID,
		serviceID:       serviceID,
		holdID:          holdID,
		window:          window,
		client:          client,
		status:          status,
		cancelTokenHash: cancelTokenHash,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// CheckPaymentApproval validates the confirmed transition before the
// storage-side compare-and-transition is attempted.
func (b *Booking) CheckPaymentApproval() error {
	switch b.status {
	case StatusPendingPayment:
		return nil
	case StatusConfirmed:
		// Same outcome already applied; callers treat this as a replay.
		return nil
	case StatusCancelled, StatusDeclined:
		return ErrConflictingTerminal
	default:
		return ErrNotAwaitingPayment
	}
}

func (b *Booking) CheckPaymentDecline() error {
	switch b.status {
	case StatusPendingPayment:
		return nil
	case StatusDeclined:
		return nil
	case StatusCancelled, StatusConfirmed:
		return ErrConflictingTerminal
	default:
		return ErrNotAwaitingPayment
	}
}

// CheckCancellable allows cancellation from every state except cancelled
// itself; confirmed bookings cancel through the cancellation-token flow.
func (b *Booking) CheckCancellable() error {
	if b.status == StatusCancelled {
		return ErrAlreadyCancelled
	}
	return nil
}

func (b *Booking) IsConfirmed() bool {
	return b.status == StatusConfirmed
}

func (b *Booking) ID() uuid.UUID             { return b.id }
func (b *Booking) ProfessionalID() uuid.UUID { return b.professionalID }
func (b *Booking) ServiceID() uuid.UUID      { return b.serviceID }
func (b *Booking) HoldID() uuid.UUID         { return b.holdID }
func (b *Booking) Window() timewindow.Window { return b.window }
func (b *Booking) Client() ClientInfo        { return b.client }
func (b *Booking) Status() Status            { return b.status }
func (b *Booking) CancelTokenHash() string   { return b.cancelTokenHash }
func (b *Booking) CreatedAt() time.Time      { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time      { return b.updatedAt }
