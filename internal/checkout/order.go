package checkout

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/rakeshthota234/Online-Retail-Application/internal/idgen"
	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// OrderRequest describes an order to place for the session's customer.
//
// When Items is non-empty one order_item row is written per distinct item,
// with repeated ids counted as quantity. A zero Total is then replaced by the
// sum of item prices. Zero dates default to today and an empty Status to
// retail.OrderSuccessful.
type OrderRequest struct {
	AddressID   int64
	Total       decimal.Decimal
	OrderDate   time.Time
	ServiceDate time.Time
	Status      retail.OrderStatus
	Items       []int64
}

// PlaceOrder inserts an order for sess.Email at req.AddressID and returns
// the session pointing at it. The (email, address) pair must exist.
func (s *Service) PlaceOrder(ctx context.Context, sess retail.Session, req OrderRequest) (retail.Session, int64, error) {
	ctx, span := s.start(ctx, WorkflowPlaceOrder, sess, attribute.Int64("address.id", req.AddressID))

	var orderID int64
	err := s.store.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		orderID, err = s.placeOrder(ctx, tx, sess, req)
		return err
	})
	span.SetAttributes(attribute.Int64("order.id", orderID))
	s.finish(span, WorkflowPlaceOrder, sess, err, zap.Int64("order_id", orderID), zap.Int64("address_id", req.AddressID))
	if err != nil {
		return sess, 0, err
	}
	return sess.WithOrder(orderID), orderID, nil
}

// Orders lists the orders placed by email, oldest first.
func (s *Service) Orders(ctx context.Context, email string) ([]retail.Order, error) {
	return store.ListOrders(ctx, s.store.DB(), retail.NormalizeEmail(email))
}

// OrderItems lists the lines of an order.
func (s *Service) OrderItems(ctx context.Context, orderID int64) ([]retail.OrderItem, error) {
	return store.ListOrderItems(ctx, s.store.DB(), orderID)
}

func (s *Service) placeOrder(ctx context.Context, q store.Querier, sess retail.Session, req OrderRequest) (int64, error) {
	if err := requireEmail("place order", sess); err != nil {
		return 0, err
	}

	lines, sum, err := resolveLines(ctx, q, req.Items)
	if err != nil {
		return 0, err
	}

	o := retail.Order{
		Email:       sess.Email,
		AddressID:   req.AddressID,
		TotalAmount: req.Total,
		OrderDate:   req.OrderDate,
		ServiceDate: req.ServiceDate,
		Status:      req.Status,
	}
	if len(lines) > 0 && o.TotalAmount.IsZero() {
		o.TotalAmount = sum
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = s.today()
	}
	if o.ServiceDate.IsZero() {
		o.ServiceDate = o.OrderDate
	}
	if o.Status == "" {
		o.Status = retail.OrderSuccessful
	}

	orderID, err := s.ids.Claim(ctx, q, "orders", "order_id", idgen.OrderIDs, func(id int64) error {
		o.OrderID = id
		return store.InsertOrder(ctx, q, o)
	})
	if err != nil {
		return 0, err
	}

	for _, line := range lines {
		line.OrderID = orderID
		line.Email = sess.Email
		if err := store.InsertOrderItem(ctx, q, line); err != nil {
			return 0, err
		}
	}
	return orderID, nil
}

// resolveLines prices each distinct item id, preserving first-seen order.
func resolveLines(ctx context.Context, q store.Querier, itemIDs []int64) ([]retail.OrderItem, decimal.Decimal, error) {
	var lines []retail.OrderItem
	index := make(map[int64]int)
	sum := decimal.Zero

	for _, id := range itemIDs {
		if i, ok := index[id]; ok {
			lines[i].Quantity++
			sum = sum.Add(lines[i].Price)
			continue
		}
		it, err := store.GetItem(ctx, q, id)
		if err != nil {
			return nil, decimal.Zero, err
		}
		index[id] = len(lines)
		lines = append(lines, retail.OrderItem{ItemID: id, Price: it.Price, Quantity: 1})
		sum = sum.Add(it.Price)
	}
	return lines, sum, nil
}
