package response

import (
	"time"

	"slotbook/internal/usecase/commands"

	"github.com/google/uuid"
)

type HoldResponse struct {
	ID           uuid.UUID `json:"id"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	ExpiresAt    time.Time `json:"expiresAt"`
	SessionToken string    `json:"sessionToken"`
}

func FromCreateHoldResult(res *commands.CreateHoldResult) *HoldResponse {
	return &HoldResponse{
		ID:           res.HoldID,
		Start:        res.Start,
		End:          res.End,
		ExpiresAt:    res.ExpiresAt,
		SessionToken: res.SessionToken,
	}
}
