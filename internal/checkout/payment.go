package checkout

import (
	"context"
	"database/sql"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/rakeshthota234/Online-Retail-Application/internal/idgen"
	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// PaymentRequest describes how the session's customer pays.
// A zero PaymentID is allocated; a non-zero one is inserted as given.
type PaymentRequest struct {
	PaymentID  int64
	IsCash     bool
	CardNumber string
}

// RecordPayment inserts a payment for sess.Email and returns the session
// pointing at it. Cash payments must not carry a card number; card payments
// need a 16 digit number.
func (s *Service) RecordPayment(ctx context.Context, sess retail.Session, req PaymentRequest) (retail.Session, error) {
	ctx, span := s.start(ctx, WorkflowRecordPayment, sess, attribute.Bool("payment.cash", req.IsCash))

	paymentID, err := s.recordPayment(ctx, sess, req)
	span.SetAttributes(attribute.Int64("payment.id", paymentID))
	s.finish(span, WorkflowRecordPayment, sess, err, zap.Int64("payment_id", paymentID), zap.Bool("cash", req.IsCash))
	if err != nil {
		return sess, err
	}
	return sess.WithPayment(paymentID), nil
}

func (s *Service) recordPayment(ctx context.Context, sess retail.Session, req PaymentRequest) (int64, error) {
	if err := requireEmail("record payment", sess); err != nil {
		return 0, err
	}
	if err := retail.ValidatePayment(req.IsCash, req.CardNumber); err != nil {
		return 0, err
	}

	p := retail.Payment{
		PaymentID:  req.PaymentID,
		Email:      sess.Email,
		IsCash:     req.IsCash,
		CardNumber: req.CardNumber,
	}

	var paymentID int64
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if p.PaymentID != 0 {
			paymentID = p.PaymentID
			return store.InsertPayment(ctx, tx, p)
		}
		var err error
		paymentID, err = s.ids.Claim(ctx, tx, "payment", "payment_id", idgen.PaymentIDs, func(id int64) error {
			p.PaymentID = id
			return store.InsertPayment(ctx, tx, p)
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return paymentID, nil
}
