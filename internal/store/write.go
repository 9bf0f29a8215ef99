package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

// InsertCategory inserts an item category.
func InsertCategory(ctx context.Context, q Querier, name string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO item_categories (item_category) VALUES (?)
	`, name)
	return classify("insert category", "item_categories", err)
}

// InsertItem inserts a catalog item.
// A negative price fails the CHECK constraint and no row is added.
func InsertItem(ctx context.Context, q Querier, it retail.Item) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO items
		(item_id, item_name, item_category, mfg_date, exp_date, item_price)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		it.ID,
		it.Name,
		nullString(it.Category),
		nullDate(it.MfgDate),
		nullDate(it.ExpDate),
		it.Price,
	)
	return classify("insert item", "items", err)
}

// InsertCustomer inserts a customer. The password is stored as given; callers
// hash it first.
func InsertCustomer(ctx context.Context, q Querier, c retail.Customer) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO customer
		(email, password, first_name, last_name, age, sex, phone_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		c.Email,
		c.Password,
		c.FirstName,
		nullString(c.LastName),
		c.Age,
		nullString(c.Sex),
		c.Phone,
	)
	return classify("insert customer", "customer", err)
}

// UpsertZipcode inserts a zipcode unless one with the same zip exists, in
// which case the stored row is kept.
func UpsertZipcode(ctx context.Context, q Querier, z retail.Zipcode) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO zipcode (zip, city, state, county)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(zip) DO NOTHING
	`, z.Zip, nullString(z.City), nullString(z.State), nullString(z.County))
	return classify("insert zipcode", "zipcode", err)
}

// InsertAddress inserts an address for an existing customer and zipcode.
func InsertAddress(ctx context.Context, q Querier, a retail.Address) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO address (address_id, email, zip, full_address)
		VALUES (?, ?, ?, ?)
	`, a.AddressID, a.Email, a.Zip, nullString(a.FullAddress))
	return classify("insert address", "address", err)
}

// InsertOrder inserts an order. (Email, AddressID) must reference an address.
func InsertOrder(ctx context.Context, q Querier, o retail.Order) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO orders
		(order_id, email, address_id, total_amount, date_of_order, date_of_service, status_of_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		o.OrderID,
		o.Email,
		o.AddressID,
		o.TotalAmount,
		formatDate(o.OrderDate),
		formatDate(o.ServiceDate),
		string(o.Status),
	)
	return classify("insert order", "orders", err)
}

// InsertOrderItem inserts one order line.
func InsertOrderItem(ctx context.Context, q Querier, oi retail.OrderItem) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO order_item (item_id, order_id, email, price, quantity)
		VALUES (?, ?, ?, ?, ?)
	`, oi.ItemID, oi.OrderID, oi.Email, oi.Price, oi.Quantity)
	return classify("insert order item", "order_item", err)
}

// InsertPayment inserts a payment.
func InsertPayment(ctx context.Context, q Querier, p retail.Payment) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO payment (payment_id, email, is_payment_cash, credit_card_number)
		VALUES (?, ?, ?, ?)
	`, p.PaymentID, p.Email, p.IsCash, p.CardNumber)
	return classify("insert payment", "payment", err)
}

// InsertVoucher inserts a voucher.
func InsertVoucher(ctx context.Context, q Querier, v retail.Voucher) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO voucher (voucher_id, discount_price) VALUES (?, ?)
	`, v.VoucherID, v.DiscountPrice)
	return classify("insert voucher", "voucher", err)
}

// InsertBilling inserts a billing record. An empty VoucherID stores NULL.
func InsertBilling(ctx context.Context, q Querier, b retail.Billing) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO billing
		(billing_id, order_id, payment_id, email, voucher_id, final_amount, status_of_payment)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		b.BillingID,
		b.OrderID,
		b.PaymentID,
		b.Email,
		nullString(b.VoucherID),
		b.FinalAmount,
		string(b.Status),
	)
	return classify("insert billing", "billing", err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(retail.DateLayout)
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}
