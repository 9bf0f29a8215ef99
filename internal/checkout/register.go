package checkout

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// Registration is the data collected on the checkout page for a new customer.
// Customer.Password is the plain-text password; it is hashed before storage.
type Registration struct {
	Customer    retail.Customer
	Zipcode     retail.Zipcode
	AddressID   int64
	FullAddress string
}

// Register stores the customer, their zipcode and address. An existing
// zipcode row is kept as is. The returned session is bound to the
// customer's normalized email.
func (s *Service) Register(ctx context.Context, reg Registration) (retail.Session, error) {
	sess := retail.NewSession(reg.Customer.Email)
	ctx, span := s.start(ctx, WorkflowRegister, sess)

	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		return s.register(ctx, tx, &reg)
	})
	s.finish(span, WorkflowRegister, sess, err, zap.Int64("address_id", reg.AddressID))
	if err != nil {
		return retail.Session{}, err
	}
	return sess, nil
}

// Checkout registers a new customer and places their first order in one
// transaction.
func (s *Service) Checkout(ctx context.Context, reg Registration, req OrderRequest) (retail.Session, int64, error) {
	sess := retail.NewSession(reg.Customer.Email)
	ctx, span := s.start(ctx, WorkflowCheckout, sess)

	req.AddressID = reg.AddressID
	var orderID int64
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		if err := s.register(ctx, tx, &reg); err != nil {
			return err
		}
		var err error
		orderID, err = s.placeOrder(ctx, tx, sess, req)
		return err
	})
	span.SetAttributes(attribute.Int64("order.id", orderID))
	s.finish(span, WorkflowCheckout, sess, err, zap.Int64("order_id", orderID))
	if err != nil {
		return retail.Session{}, 0, err
	}
	return sess.WithOrder(orderID), orderID, nil
}

func (s *Service) register(ctx context.Context, q store.Querier, reg *Registration) error {
	c := reg.Customer
	c.Email = retail.NormalizeEmail(c.Email)
	if err := retail.ValidateCustomer(c); err != nil {
		return err
	}
	if err := retail.ValidateZip(reg.Zipcode.Zip); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), s.hashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	c.Password = string(hash)

	if err := store.UpsertZipcode(ctx, q, reg.Zipcode); err != nil {
		return err
	}
	if err := store.InsertCustomer(ctx, q, c); err != nil {
		return err
	}
	return store.InsertAddress(ctx, q, retail.Address{
		AddressID:   reg.AddressID,
		Email:       c.Email,
		Zip:         reg.Zipcode.Zip,
		FullAddress: reg.FullAddress,
	})
}

// VerifyPassword reports whether password matches the stored hash for email.
func (s *Service) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	c, err := store.GetCustomer(ctx, s.store.DB(), retail.NormalizeEmail(email))
	if err != nil {
		return false, err
	}
	err = bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password))
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("verify password: %w", err)
	}
	return true, nil
}
