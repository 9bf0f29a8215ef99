package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedCustomer inserts a zipcode, customer and address (address_id=1).
func seedCustomer(t *testing.T, s *Store, email string) {
	t.Helper()
	ctx := context.Background()
	if err := UpsertZipcode(ctx, s.db, retail.Zipcode{Zip: 10001, City: "New York", State: "NY", County: "New York"}); err != nil {
		t.Fatalf("UpsertZipcode() failed: %v", err)
	}
	if err := InsertCustomer(ctx, s.db, retail.Customer{
		Email: email, Password: "x", FirstName: "Ada", Age: 30, Sex: "F", Phone: "5551234567",
	}); err != nil {
		t.Fatalf("InsertCustomer() failed: %v", err)
	}
	if err := InsertAddress(ctx, s.db, retail.Address{AddressID: 1, Email: email, Zip: 10001, FullAddress: "1 Main St"}); err != nil {
		t.Fatalf("InsertAddress() failed: %v", err)
	}
}

// createTestOrder builds an order for address 1.
func createTestOrder(id int64, email, total string) retail.Order {
	return retail.Order{
		OrderID:     id,
		Email:       email,
		AddressID:   1,
		TotalAmount: decimal.RequireFromString(total),
		Status:      retail.OrderSuccessful,
	}
}
