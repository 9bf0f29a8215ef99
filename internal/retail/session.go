package retail

import "github.com/google/uuid"

// Session is the caller-held association between a shopper and the order and
// payment created during one checkout. Workflows accept a Session and return
// the updated value; nothing about it is persisted.
type Session struct {
	// ID correlates log lines of one checkout. UUIDv7, time-sortable.
	ID string `json:"session_id"`

	Email           string `json:"email"`
	ActiveOrderID   int64  `json:"active_order_id,omitempty"`
	ActivePaymentID int64  `json:"active_payment_id,omitempty"`
}

// NewSession starts a session for the given email.
func NewSession(email string) Session {
	return Session{
		ID:    uuid.Must(uuid.NewV7()).String(),
		Email: NormalizeEmail(email),
	}
}

// WithOrder returns a copy of s pointing at orderID.
func (s Session) WithOrder(orderID int64) Session {
	s.ActiveOrderID = orderID
	return s
}

// WithPayment returns a copy of s pointing at paymentID.
func (s Session) WithPayment(paymentID int64) Session {
	s.ActivePaymentID = paymentID
	return s
}
