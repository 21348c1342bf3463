package builder

import (
	"time"

	"slotbook/internal/domain/hold"
	"slotbook/internal/domain/timewindow"

	"github.com/google/uuid"
)

// HoldBuilder assembles hold entities for tests. Defaults describe a
// live, unpromoted hold created just now with a five minute TTL.
type HoldBuilder struct {
	id             uuid.UUID
	professionalID uuid.UUID
	serviceID      uuid.UUID
	start          time.Time
	end            time.Time
	sessionID      uuid.UUID
	createdAt      time.Time
	expiresAt      time.Time
	releasedAt     *time.Time
	promotedAt     *time.Time
}

func NewHoldBuilder() *HoldBuilder {
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return &HoldBuilder{
		id:             uuid.New(),
		professionalID: uuid.New(),
		serviceID:      uuid.New(),
		start:          now.Add(24 * time.Hour),
		end:            now.Add(24*time.Hour + 30*time.Minute),
		sessionID:      uuid.New(),
		createdAt:      now,
		expiresAt:      now.Add(5 * time.Minute),
	}
}

func (b *HoldBuilder) WithID(id uuid.UUID) *HoldBuilder {
	b.id = id
	return b
}

func (b *HoldBuilder) WithProfessionalID(id uuid.UUID) *HoldBuilder {
	b.professionalID = id
	return b
}

func (b *HoldBuilder) WithWindow(start, end time.Time) *HoldBuilder {
	b.start = start
	b.end = end
	return b
}

func (b *HoldBuilder) WithSessionID(id uuid.UUID) *HoldBuilder {
	b.sessionID = id
	return b
}

func (b *HoldBuilder) WithExpiresAt(t time.Time) *HoldBuilder {
	b.expiresAt = t
	return b
}

func (b *HoldBuilder) Released(at time.Time) *HoldBuilder {
	b.releasedAt = &at
	return b
}

func (b *HoldBuilder) Promoted(at time.Time) *HoldBuilder {
	b.promotedAt = &at
	return b
}

func (b *HoldBuilder) Build() *hold.Hold {
	return hold.ReconstructHold(
		b.id, b.professionalID, b.serviceID,
		timewindow.Reconstruct(b.start, b.end),
		b.sessionID,
		b.createdAt, b.expiresAt,
		b.releasedAt, b.promotedAt,
	)
}
