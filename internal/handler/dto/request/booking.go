package request

import "time"

type CancelBookingRequest struct {
	CancellationToken string `json:"cancellation_token" binding:"required"`
}

// AvailabilityQuery binds the query string of the availability listing.
type AvailabilityQuery struct {
	ServiceID string    `form:"service_id" binding:"required,uuid"`
	From      time.Time `form:"from" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	To        time.Time `form:"to" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}
