package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateHoldRequest struct {
	ProfessionalID uuid.UUID `json:"professional_id" binding:"required"`
	ServiceID      uuid.UUID `json:"service_id" binding:"required"`
	Start          time.Time `json:"start" binding:"required"`
}

type CheckoutRequest struct {
	ClientName  string `json:"client_name" binding:"required"`
	ClientEmail string `json:"client_email" binding:"required,email"`
	ClientPhone string `json:"client_phone,omitempty"`
}
