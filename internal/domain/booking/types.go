package booking

type Status string

const (
	StatusPendingHold    Status = "pending_hold"
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusDeclined       Status = "declined"
	StatusCancelled      Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingHold, StatusPendingPayment, StatusConfirmed, StatusDeclined, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsPaymentTerminal reports whether the payment outcome for this booking
// has been decided. Exactly one payment-terminal transition is ever applied.
func (s Status) IsPaymentTerminal() bool {
	switch s {
	case StatusConfirmed, StatusDeclined, StatusCancelled:
		return true
	default:
		return false
	}
}

// OccupiesWindow reports whether a booking in this status still claims its
// time window against new holds.
func (s Status) OccupiesWindow() bool {
	switch s {
	case StatusPendingHold, StatusPendingPayment, StatusConfirmed:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentDeclined PaymentStatus = "declined"
	PaymentError    PaymentStatus = "error"
)

func (s PaymentStatus) String() string {
	return string(s)
}

func (s PaymentStatus) IsTerminal() bool {
	switch s {
	case PaymentApproved, PaymentDeclined, PaymentError:
		return true
	default:
		return false
	}
}
