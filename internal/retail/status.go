package retail

import "fmt"

// OrderStatus is a row of the order_status lookup table.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderSuccessful OrderStatus = "Successful"
	OrderCancelled  OrderStatus = "Cancelled"
	OrderDelivered  OrderStatus = "Delivered"
)

// OrderStatuses lists every allowed order status in lookup-table order.
var OrderStatuses = []OrderStatus{OrderPending, OrderSuccessful, OrderCancelled, OrderDelivered}

// PaymentStatus is a row of the payment_status lookup table.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "Pending"
	PaymentSuccessful PaymentStatus = "Successful"
	PaymentFailed     PaymentStatus = "Failed"
	PaymentRefunded   PaymentStatus = "Refunded"
)

// PaymentStatuses lists every allowed payment status in lookup-table order.
var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentSuccessful, PaymentFailed, PaymentRefunded}

// ParseOrderStatus returns the status matching s exactly.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", NewValidationError("parse order status", fmt.Sprintf("unknown order status %q", s))
}

// ParsePaymentStatus returns the status matching s exactly.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for _, st := range PaymentStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", NewValidationError("parse payment status", fmt.Sprintf("unknown payment status %q", s))
}
