package response

import (
	"time"

	"slotbook/internal/usecase/queries"
)

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type AvailabilityResponse struct {
	Slots []SlotResponse `json:"slots"`
}

func FromSlots(slots []queries.Slot) *AvailabilityResponse {
	out := make([]SlotResponse, len(slots))
	for i, s := range slots {
		out[i] = SlotResponse{Start: s.Start, End: s.End}
	}
	return &AvailabilityResponse{Slots: out}
}
