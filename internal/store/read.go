package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

const itemColumns = `item_id, item_name, item_category, mfg_date, exp_date, item_price`

const orderColumns = `order_id, email, address_id, total_amount, date_of_order, date_of_service, status_of_order`

const paymentColumns = `payment_id, email, is_payment_cash, credit_card_number`

const billingColumns = `billing_id, order_id, payment_id, email, voucher_id, final_amount, status_of_payment`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// CountWhere returns the number of rows in table whose column equals value.
// Table and column must appear in Tables.
func CountWhere(ctx context.Context, q Querier, table, column string, value any) (int, error) {
	t, ok := LookupTable(table)
	if !ok || !t.HasColumn(column) {
		return 0, fmt.Errorf("count: unknown column %s.%s", table, column)
	}
	var n int
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", t.Name, column), value,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// GetCustomer returns the customer with the given email, password hash included.
func GetCustomer(ctx context.Context, q Querier, email string) (retail.Customer, error) {
	var c retail.Customer
	var last, sex sql.NullString
	var age sql.NullInt64
	err := q.QueryRowContext(ctx, `
		SELECT email, password, first_name, last_name, age, sex, phone_number
		FROM customer WHERE email = ?
	`, email).Scan(&c.Email, &c.Password, &c.FirstName, &last, &age, &sex, &c.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return retail.Customer{}, retail.NewNotFoundError("get customer", "customer", fmt.Sprintf("no customer %s", email))
	}
	if err != nil {
		return retail.Customer{}, fmt.Errorf("get customer: %w", err)
	}
	c.LastName = last.String
	c.Sex = sex.String
	c.Age = int(age.Int64)
	return c, nil
}

// GetItem returns the item with the given id.
func GetItem(ctx context.Context, q Querier, id int64) (retail.Item, error) {
	row := q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE item_id = ?`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return retail.Item{}, retail.NewNotFoundError("get item", "items", fmt.Sprintf("no item with id %d", id))
	}
	return it, err
}

// ListCategories returns the distinct categories of items present, sorted.
// Categories with no items are not returned.
func ListCategories(ctx context.Context, q Querier) ([]string, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT DISTINCT item_category FROM items
		WHERE item_category IS NOT NULL
		ORDER BY item_category COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// ListItemsByCategory returns every item in category ordered by id.
func ListItemsByCategory(ctx context.Context, q Querier, category string) ([]retail.Item, error) {
	return queryItems(ctx, q, `
		SELECT `+itemColumns+` FROM items
		WHERE item_category = ?
		ORDER BY item_id ASC
	`, category)
}

// ListItems returns up to limit items ordered by id.
func ListItems(ctx context.Context, q Querier, limit int) ([]retail.Item, error) {
	return queryItems(ctx, q, `
		SELECT `+itemColumns+` FROM items
		ORDER BY item_id ASC
		LIMIT ?
	`, limit)
}

func queryItems(ctx context.Context, q Querier, query string, args ...any) ([]retail.Item, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := []retail.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// GetOrder returns the order with the given id.
func GetOrder(ctx context.Context, q Querier, orderID int64) (retail.Order, error) {
	row := q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, orderID)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return retail.Order{}, retail.NewNotFoundError("get order", "orders", fmt.Sprintf("no order with id %d", orderID))
	}
	return o, err
}

// LatestOrder returns the most recently inserted order for email.
func LatestOrder(ctx context.Context, q Querier, email string) (retail.Order, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE email = ?
		ORDER BY rowid DESC
		LIMIT 1
	`, email)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return retail.Order{}, retail.NewNotFoundError("latest order", "orders", fmt.Sprintf("no order for %s", email))
	}
	return o, err
}

// ListOrders returns every order for email in insertion order.
func ListOrders(ctx context.Context, q Querier, email string) ([]retail.Order, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE email = ?
		ORDER BY rowid ASC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []retail.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// ListOrderItems returns the lines of an order ordered by item id.
func ListOrderItems(ctx context.Context, q Querier, orderID int64) ([]retail.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT item_id, order_id, email, price, quantity FROM order_item
		WHERE order_id = ?
		ORDER BY item_id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	lines := []retail.OrderItem{}
	for rows.Next() {
		var oi retail.OrderItem
		if err := rows.Scan(&oi.ItemID, &oi.OrderID, &oi.Email, &oi.Price, &oi.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		lines = append(lines, oi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}
	return lines, nil
}

// GetPayment returns the payment with the given id.
func GetPayment(ctx context.Context, q Querier, paymentID int64) (retail.Payment, error) {
	row := q.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payment WHERE payment_id = ?`, paymentID)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return retail.Payment{}, retail.NewNotFoundError("get payment", "payment", fmt.Sprintf("no payment with id %d", paymentID))
	}
	return p, err
}

// LatestPayment returns the most recently inserted payment for email.
func LatestPayment(ctx context.Context, q Querier, email string) (retail.Payment, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+paymentColumns+` FROM payment
		WHERE email = ?
		ORDER BY rowid DESC
		LIMIT 1
	`, email)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return retail.Payment{}, retail.NewNotFoundError("latest payment", "payment", fmt.Sprintf("no payment for %s", email))
	}
	return p, err
}

// GetVoucher returns the voucher with the given id.
func GetVoucher(ctx context.Context, q Querier, voucherID string) (retail.Voucher, error) {
	var v retail.Voucher
	err := q.QueryRowContext(ctx, `
		SELECT voucher_id, discount_price FROM voucher WHERE voucher_id = ?
	`, voucherID).Scan(&v.VoucherID, &v.DiscountPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return retail.Voucher{}, retail.NewNotFoundError("get voucher", "voucher", fmt.Sprintf("no voucher %q", voucherID))
	}
	if err != nil {
		return retail.Voucher{}, fmt.Errorf("get voucher: %w", err)
	}
	return v, nil
}

// GetBilling returns the billing record with the given id.
func GetBilling(ctx context.Context, q Querier, billingID int64) (retail.Billing, error) {
	row := q.QueryRowContext(ctx, `SELECT `+billingColumns+` FROM billing WHERE billing_id = ?`, billingID)
	b, err := scanBilling(row)
	if errors.Is(err, sql.ErrNoRows) {
		return retail.Billing{}, retail.NewNotFoundError("get billing", "billing", fmt.Sprintf("no billing with id %d", billingID))
	}
	return b, err
}

// ListBillings returns every billing record for email in insertion order.
func ListBillings(ctx context.Context, q Querier, email string) ([]retail.Billing, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+billingColumns+` FROM billing
		WHERE email = ?
		ORDER BY rowid ASC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("query billings: %w", err)
	}
	defer rows.Close()

	billings := []retail.Billing{}
	for rows.Next() {
		b, err := scanBilling(rows)
		if err != nil {
			return nil, err
		}
		billings = append(billings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate billings: %w", err)
	}
	return billings, nil
}

func scanItem(r rowScanner) (retail.Item, error) {
	var it retail.Item
	var category sql.NullString
	var mfg, exp sql.NullTime
	if err := r.Scan(&it.ID, &it.Name, &category, &mfg, &exp, &it.Price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return it, err
		}
		return it, fmt.Errorf("scan item: %w", err)
	}
	it.Category = category.String
	it.MfgDate = timePtr(mfg)
	it.ExpDate = timePtr(exp)
	return it, nil
}

func scanOrder(r rowScanner) (retail.Order, error) {
	var o retail.Order
	var total decimal.NullDecimal
	var ordered, served sql.NullTime
	var status string
	if err := r.Scan(&o.OrderID, &o.Email, &o.AddressID, &total, &ordered, &served, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, err
		}
		return o, fmt.Errorf("scan order: %w", err)
	}
	o.TotalAmount = total.Decimal
	o.OrderDate = ordered.Time
	o.ServiceDate = served.Time
	o.Status = retail.OrderStatus(status)
	return o, nil
}

func scanPayment(r rowScanner) (retail.Payment, error) {
	var p retail.Payment
	if err := r.Scan(&p.PaymentID, &p.Email, &p.IsCash, &p.CardNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan payment: %w", err)
	}
	return p, nil
}

func scanBilling(r rowScanner) (retail.Billing, error) {
	var b retail.Billing
	var voucher sql.NullString
	var status string
	if err := r.Scan(&b.BillingID, &b.OrderID, &b.PaymentID, &b.Email, &voucher, &b.FinalAmount, &status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, fmt.Errorf("scan billing: %w", err)
	}
	b.VoucherID = voucher.String
	b.Status = retail.PaymentStatus(status)
	return b, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
