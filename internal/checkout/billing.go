package checkout

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/rakeshthota234/Online-Retail-Application/internal/idgen"
	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// BillingRequest selects what to bill.
//
// OrderID and PaymentID fall back to the session's active ids and then to the
// customer's most recent order and payment. VoucherID may be empty or
// retail.NoVoucher for no discount. An empty Status means
// retail.PaymentSuccessful.
type BillingRequest struct {
	OrderID   int64
	PaymentID int64
	VoucherID string
	Status    retail.PaymentStatus
}

// MsgNoOrderOrPayment is reported when billing cannot resolve both the order
// and the payment for the session's customer.
const MsgNoOrderOrPayment = "no order or payment found"

// FinalizeBilling inserts the billing record joining an order and a payment.
// The final amount is the order total less the voucher discount, never below
// zero. Orders and payments of other customers are treated as absent.
func (s *Service) FinalizeBilling(ctx context.Context, sess retail.Session, req BillingRequest) (retail.Billing, error) {
	ctx, span := s.start(ctx, WorkflowFinalizeBilling, sess)

	var b retail.Billing
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		b, err = s.finalizeBilling(ctx, tx, sess, req)
		return err
	})
	span.SetAttributes(
		attribute.Int64("billing.id", b.BillingID),
		attribute.Int64("order.id", b.OrderID),
		attribute.Int64("payment.id", b.PaymentID),
	)
	s.finish(span, WorkflowFinalizeBilling, sess, err,
		zap.Int64("billing_id", b.BillingID),
		zap.Int64("order_id", b.OrderID),
		zap.Int64("payment_id", b.PaymentID),
		zap.String("final_amount", b.FinalAmount.StringFixed(2)),
	)
	if err != nil {
		return retail.Billing{}, err
	}
	return b, nil
}

func (s *Service) finalizeBilling(ctx context.Context, q store.Querier, sess retail.Session, req BillingRequest) (retail.Billing, error) {
	if err := requireEmail("finalize billing", sess); err != nil {
		return retail.Billing{}, err
	}

	order, err := resolveOrder(ctx, q, sess, req.OrderID)
	if err != nil {
		return retail.Billing{}, err
	}
	payment, err := resolvePayment(ctx, q, sess, req.PaymentID)
	if err != nil {
		return retail.Billing{}, err
	}

	b := retail.Billing{
		OrderID:     order.OrderID,
		PaymentID:   payment.PaymentID,
		Email:       sess.Email,
		FinalAmount: order.TotalAmount,
		Status:      req.Status,
	}
	if req.VoucherID != "" && req.VoucherID != retail.NoVoucher {
		v, err := store.GetVoucher(ctx, q, req.VoucherID)
		if err != nil {
			return retail.Billing{}, err
		}
		b.VoucherID = v.VoucherID
		b.FinalAmount = FinalAmount(order.TotalAmount, v.DiscountPrice)
	}
	if b.Status == "" {
		b.Status = retail.PaymentSuccessful
	}

	b.BillingID, err = s.ids.Claim(ctx, q, "billing", "billing_id", idgen.BillingIDs, func(id int64) error {
		b.BillingID = id
		return store.InsertBilling(ctx, q, b)
	})
	if err != nil {
		return retail.Billing{}, err
	}
	return b, nil
}

// FinalAmount returns total less discount, clamped at zero.
func FinalAmount(total, discount decimal.Decimal) decimal.Decimal {
	final := total.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

func resolveOrder(ctx context.Context, q store.Querier, sess retail.Session, orderID int64) (retail.Order, error) {
	if orderID == 0 {
		orderID = sess.ActiveOrderID
	}
	var (
		o   retail.Order
		err error
	)
	if orderID == 0 {
		o, err = store.LatestOrder(ctx, q, sess.Email)
	} else {
		o, err = store.GetOrder(ctx, q, orderID)
	}
	if err != nil {
		if retail.IsNotFound(err) {
			return retail.Order{}, retail.NewNotFoundError("finalize billing", "orders", MsgNoOrderOrPayment)
		}
		return retail.Order{}, err
	}
	if o.Email != sess.Email {
		return retail.Order{}, retail.NewNotFoundError("finalize billing", "orders", MsgNoOrderOrPayment)
	}
	return o, nil
}

func resolvePayment(ctx context.Context, q store.Querier, sess retail.Session, paymentID int64) (retail.Payment, error) {
	if paymentID == 0 {
		paymentID = sess.ActivePaymentID
	}
	var (
		p   retail.Payment
		err error
	)
	if paymentID == 0 {
		p, err = store.LatestPayment(ctx, q, sess.Email)
	} else {
		p, err = store.GetPayment(ctx, q, paymentID)
	}
	if err != nil {
		if retail.IsNotFound(err) {
			return retail.Payment{}, retail.NewNotFoundError("finalize billing", "payment", MsgNoOrderOrPayment)
		}
		return retail.Payment{}, err
	}
	if p.Email != sess.Email {
		return retail.Payment{}, retail.NewNotFoundError("finalize billing", "payment", MsgNoOrderOrPayment)
	}
	return p, nil
}

// LatestOrder returns the most recently placed order for email.
func (s *Service) LatestOrder(ctx context.Context, email string) (retail.Order, error) {
	return store.LatestOrder(ctx, s.store.DB(), retail.NormalizeEmail(email))
}

// LatestPayment returns the most recently recorded payment for email.
func (s *Service) LatestPayment(ctx context.Context, email string) (retail.Payment, error) {
	return store.LatestPayment(ctx, s.store.DB(), retail.NormalizeEmail(email))
}

// Billings lists the billing records of email, oldest first.
func (s *Service) Billings(ctx context.Context, email string) ([]retail.Billing, error) {
	return store.ListBillings(ctx, s.store.DB(), retail.NormalizeEmail(email))
}

// AddVoucher stores a voucher. The id must not collide with retail.NoVoucher.
func (s *Service) AddVoucher(ctx context.Context, v retail.Voucher) error {
	sess := retail.Session{}
	ctx, span := s.start(ctx, WorkflowAddVoucher, sess, attribute.String("voucher.id", v.VoucherID))

	var err error
	switch {
	case v.VoucherID == "":
		err = retail.NewValidationError("add voucher", "voucher id is required")
	case v.VoucherID == retail.NoVoucher:
		err = retail.NewValidationError("add voucher", "voucher id is reserved")
	default:
		err = store.InsertVoucher(ctx, s.store.DB(), v)
	}
	s.finish(span, WorkflowAddVoucher, sess, err, zap.String("voucher_id", v.VoucherID))
	return err
}
