package retail

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the storage format for date columns.
const DateLayout = "2006-01-02"

// NoVoucher is displayed when a billing record carries no voucher.
// It is never written to the voucher_id column; absence is stored as NULL.
const NoVoucher = "No voucher applied"

// Item is a catalog entry.
type Item struct {
	ID       int64           `json:"item_id"`
	Name     string          `json:"item_name"`
	Category string          `json:"item_category"`
	MfgDate  *time.Time      `json:"mfg_date,omitempty"`
	ExpDate  *time.Time      `json:"exp_date,omitempty"`
	Price    decimal.Decimal `json:"item_price"`
}

// Customer is a registered shopper, keyed by email.
// Password holds a bcrypt hash for customers created through registration.
type Customer struct {
	Email     string `json:"email"`
	Password  string `json:"-"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Age       int    `json:"age"`
	Sex       string `json:"sex"`
	Phone     string `json:"phone_number"`
}

// Zipcode describes a postal area.
type Zipcode struct {
	Zip    int    `json:"zip"`
	City   string `json:"city"`
	State  string `json:"state"`
	County string `json:"county"`
}

// Address belongs to a customer; (Email, AddressID) identifies it.
type Address struct {
	AddressID   int64  `json:"address_id"`
	Email       string `json:"email"`
	Zip         int    `json:"zip"`
	FullAddress string `json:"full_address"`
}

// Order is a placed checkout.
type Order struct {
	OrderID     int64           `json:"order_id"`
	Email       string          `json:"email"`
	AddressID   int64           `json:"address_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"date_of_order"`
	ServiceDate time.Time       `json:"date_of_service"`
	Status      OrderStatus     `json:"status_of_order"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ItemID   int64           `json:"item_id"`
	OrderID  int64           `json:"order_id"`
	Email    string          `json:"email"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// Payment records how a customer paid.
// Payments are correlated with orders by email only.
type Payment struct {
	PaymentID  int64  `json:"payment_id"`
	Email      string `json:"email"`
	IsCash     bool   `json:"is_payment_cash"`
	CardNumber string `json:"credit_card_number"`
}

// Voucher is a fixed discount applied at billing.
type Voucher struct {
	VoucherID     string          `json:"voucher_id"`
	DiscountPrice decimal.Decimal `json:"discount_price"`
}

// Billing joins an order and a payment into the final charged amount.
// VoucherID is empty when no voucher was applied.
type Billing struct {
	BillingID   int64           `json:"billing_id"`
	OrderID     int64           `json:"order_id"`
	PaymentID   int64           `json:"payment_id"`
	Email       string          `json:"email"`
	VoucherID   string          `json:"voucher_id,omitempty"`
	FinalAmount decimal.Decimal `json:"final_amount"`
	Status      PaymentStatus   `json:"status_of_payment"`
}

// VoucherLabel returns the voucher id or the NoVoucher sentinel.
func (b Billing) VoucherLabel() string {
	if b.VoucherID == "" {
		return NoVoucher
	}
	return b.VoucherID
}
