package response

import (
	"time"

	"slotbook/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID             uuid.UUID `json:"id"`
	ProfessionalID uuid.UUID `json:"professionalId"`
	ServiceID      uuid.UUID `json:"serviceId"`
	ServiceName    string    `json:"serviceName"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Status         string    `json:"status"`
	ClientName     string    `json:"clientName"`
	ClientEmail    string    `json:"clientEmail"`
	PaymentStatus  *string   `json:"paymentStatus,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CheckoutResponse carries the cancellation token alongside the booking;
// the token is never retrievable again.
type CheckoutResponse struct {
	Booking           *BookingResponse `json:"booking"`
	CancellationToken string           `json:"cancellationToken"`
}

func FromBookingView(rm *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:             rm.ID,
		ProfessionalID: rm.ProfessionalID,
		ServiceID:      rm.ServiceID,
		ServiceName:    rm.ServiceName,
		Start:          rm.Start,
		End:            rm.End,
		Status:         rm.Status,
		ClientName:     rm.ClientName,
		ClientEmail:    rm.ClientEmail,
		PaymentStatus:  rm.PaymentStatus,
		CreatedAt:      rm.CreatedAt,
		UpdatedAt:      rm.UpdatedAt,
	}
}
