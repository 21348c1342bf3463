package hold

import (
	"errors"
	"time"

	"slotbook/internal/domain/timewindow"

	"github.com/google/uuid"
)

var (
	ErrInvalidTTL      = errors.New("hold ttl must be positive")
	ErrAlreadyReleased = errors.New("hold is already released")
	ErrAlreadyPromoted = errors.New("hold is already promoted")
	ErrExpired         = errors.New("hold has expired")
)

// Hold is a short-lived exclusive soft-reservation of a window. It is
// created when a client picks a slot and either promoted into a booking,
// released explicitly, or reaped after expiry. The row persists after
// release for audit; only unreleased holds occupy the window.
type Hold struct {
	id             uuid.UUID
	professionalID uuid.UUID
	serviceID      uuid.UUID
	window         timewindow.Window
	sessionID      uuid.UUID
	createdAt      time.Time
	expiresAt      time.Time
	releasedAt     *time.Time
	promotedAt     *time.Time
}

func NewHold(professionalID, serviceID uuid.UUID, window timewindow.Window, ttl time.Duration, now time.Time) (*Hold, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	return &Hold{
		id:             uuid.New(),
		professionalID: professionalID,
		serviceID:      serviceID,
		window:         window,
		sessionID:      uuid.New(),
		createdAt:      now,
		expiresAt:      now.Add(ttl),
	}, nil
}

func ReconstructHold(
	id, professionalID, serviceID uuid.UUID,
	window timewindow.Window,
	sessionID uuid.UUID,
	createdAt, expiresAt time.Time,
	releasedAt, promotedAt *time.Time,
) *Hold {
	return &Hold{
		id:             id,
		professionalID: professionalID,
		serviceID:      serviceID,
		window:         window,
		sessionID:      sessionID,
		createdAt:      createdAt,
		expiresAt:      expiresAt,
		releasedAt:     releasedAt,
		promotedAt:     promotedAt,
	}
}

// IsActive reports whether the hold still reserves its window for checkout:
// not released, not promoted, and not past expiry at now.
func (h *Hold) IsActive(now time.Time) bool {
	return h.releasedAt == nil && h.promotedAt == nil && now.Before(h.expiresAt)
}

func (h *Hold) IsReleased() bool {
	return h.releasedAt != nil
}

func (h *Hold) IsPromoted() bool {
	return h.promotedAt != nil
}

func (h *Hold) HasExpired(now time.Time) bool {
	return !now.Before(h.expiresAt)
}

// CheckPromotable mirrors the storage-side compare-and-swap so callers can
// map a failed promotion to the precise reason.
func (h *Hold) CheckPromotable(now time.Time) error {
	switch {
	case h.releasedAt != nil:
		return ErrAlreadyReleased
	case h.promotedAt != nil:
		return ErrAlreadyPromoted
	case h.HasExpired(now):
		return ErrExpired
	default:
		return nil
	}
}

func (h *Hold) ID() uuid.UUID             { return h.id }
func (h *Hold) ProfessionalID() uuid.UUID { return h.professionalID }
func (h *Hold) ServiceID() uuid.UUID      { return h.serviceID }
func (h *Hold) Window() timewindow.Window { return h.window }
func (h *Hold) SessionID() uuid.UUID      { return h.sessionID }
func (h *Hold) CreatedAt() time.Time      { return h.createdAt }
func (h *Hold) ExpiresAt() time.Time      { return h.expiresAt }
func (h *Hold) ReleasedAt() *time.Time    { return h.releasedAt }
func (h *Hold) PromotedAt() *time.Time    { return h.promotedAt }
