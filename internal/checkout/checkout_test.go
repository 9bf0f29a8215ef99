package checkout

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakeshthota234/Online-Retail-Application/internal/idgen"
	"github.com/rakeshthota234/Online-Retail-Application/internal/metrics"
	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
	"github.com/rakeshthota234/Online-Retail-Application/internal/testutil"
)

type fixture struct {
	svc   *Service
	st    *store.Store
	clock *testutil.FixedClock
}

func newFixture(t *testing.T, ids *idgen.Generator, opts ...Option) *fixture {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "retail.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	if ids == nil {
		ids = idgen.NewRandom(0)
	}
	clock := testutil.NewFixedClockOn("2024-03-01")
	opts = append([]Option{WithClock(clock.Now), WithHashCost(bcrypt.MinCost)}, opts...)
	return &fixture{svc: New(st, ids, opts...), st: st, clock: clock}
}

func registration(email string) Registration {
	return Registration{
		Customer: retail.Customer{
			Email:     email,
			Password:  "hunter22",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Age:       36,
			Sex:       "F",
			Phone:     "5551234567",
		},
		Zipcode:     retail.Zipcode{Zip: 10001, City: "New York", State: "NY", County: "New York"},
		AddressID:   1,
		FullAddress: "1 Main St",
	}
}

func (f *fixture) register(t *testing.T, email string) retail.Session {
	t.Helper()
	sess, err := f.svc.Register(context.Background(), registration(email))
	require.NoError(t, err)
	return sess
}

func (f *fixture) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.st.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestRegister_StoresHashedPassword(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	sess, err := f.svc.Register(ctx, registration("  Ada@Example.COM "))
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sess.Email)
	assert.NotEmpty(t, sess.ID)

	c, err := store.GetCustomer(ctx, f.st.DB(), "ada@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", c.Password)

	ok, err := f.svc.VerifyPassword(ctx, "ada@example.com", "hunter22")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.VerifyPassword(ctx, "ada@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegister_ValidationLeavesNoRows(t *testing.T) {
	f := newFixture(t, nil)

	reg := registration("a@b.com")
	reg.Customer.Age = 0
	_, err := f.svc.Register(context.Background(), reg)
	require.Error(t, err)
	assert.True(t, retail.IsValidation(err))

	assert.Equal(t, 0, f.count(t, "customer"))
	assert.Equal(t, 0, f.count(t, "zipcode"))
}

func TestRegister_DuplicateCustomerRollsBack(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t, "a@b.com")

	reg := registration("a@b.com")
	reg.AddressID = 2
	_, err := f.svc.Register(context.Background(), reg)
	require.Error(t, err)
	assert.True(t, retail.IsConstraint(err))
	assert.Equal(t, 1, f.count(t, "address"))
}

func TestPlaceOrder_Succeeds(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sess := f.register(t, "a@b.com")

	sess, orderID, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("10.99")})
	require.NoError(t, err)
	assert.True(t, idgen.OrderIDs.Contains(orderID))
	assert.Equal(t, orderID, sess.ActiveOrderID)

	o, err := store.GetOrder(ctx, f.st.DB(), orderID)
	require.NoError(t, err)
	assertDecimal(t, "10.99", o.TotalAmount)
	assert.Equal(t, retail.OrderSuccessful, o.Status)
	assert.Equal(t, "2024-03-01", o.OrderDate.Format(retail.DateLayout))
	assert.Equal(t, "2024-03-01", o.ServiceDate.Format(retail.DateLayout))
}

func TestPlaceOrder_MissingAddress(t *testing.T) {
	f := newFixture(t, nil)
	sess := f.register(t, "a@b.com")

	_, _, err := f.svc.PlaceOrder(context.Background(), sess, OrderRequest{AddressID: 99, Total: dec("1.00")})
	require.Error(t, err)
	assert.True(t, retail.IsConstraint(err))

	var re *retail.Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "orders", re.Table)
	assert.Equal(t, retail.ConstraintForeignKey, re.Constraint)
	assert.Equal(t, 0, f.count(t, "orders"))
}

func TestPlaceOrder_ThousandDistinctIDs(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sess := f.register(t, "a@b.com")

	seen := make(map[int64]bool, 1000)
	for i := 0; i < 1000; i++ {
		_, id, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("1.00")})
		require.NoError(t, err)
		require.True(t, idgen.OrderIDs.Contains(id), "id %d out of range", id)
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, 1000)
	assert.Equal(t, 1000, f.count(t, "orders"))
}

func TestPlaceOrder_RedrawsTakenID(t *testing.T) {
	src := idgen.NewFixedSource(123456, 123456, 234567)
	f := newFixture(t, idgen.New(src, 0))
	ctx := context.Background()
	sess := f.register(t, "a@b.com")

	_, first, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("1.00")})
	require.NoError(t, err)
	assert.Equal(t, int64(123456), first)

	_, second, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("1.00")})
	require.NoError(t, err)
	assert.Equal(t, int64(234567), second)
	assert.Equal(t, 0, src.Remaining())
}

func TestPlaceOrder_IDExhausted(t *testing.T) {
	src := idgen.NewFixedSource(123456, 123456, 123456)
	f := newFixture(t, idgen.New(src, 2))
	ctx := context.Background()
	sess := f.register(t, "a@b.com")

	_, _, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("1.00")})
	require.NoError(t, err)

	_, _, err = f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("1.00")})
	require.Error(t, err)
	assert.Equal(t, retail.CodeIDExhausted, retail.CodeOf(err))
	assert.Equal(t, 1, f.count(t, "orders"))
}

func TestPlaceOrder_FromItems(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	db := f.st.DB()
	require.NoError(t, store.InsertCategory(ctx, db, "Snacks"))
	require.NoError(t, store.InsertItem(ctx, db, retail.Item{ID: 1, Name: "Chips", Category: "Snacks", Price: dec("2.50")}))
	require.NoError(t, store.InsertItem(ctx, db, retail.Item{ID: 2, Name: "Soda", Category: "Snacks", Price: dec("3.00")}))
	sess := f.register(t, "a@b.com")

	_, orderID, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Items: []int64{1, 2, 1}})
	require.NoError(t, err)

	o, err := store.GetOrder(ctx, db, orderID)
	require.NoError(t, err)
	assertDecimal(t, "8.00", o.TotalAmount)

	lines, err := f.svc.OrderItems(ctx, orderID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, int64(1), lines[0].ItemID)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, int64(2), lines[1].ItemID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestPlaceOrder_UnknownItem(t *testing.T) {
	f := newFixture(t, nil)
	sess := f.register(t, "a@b.com")

	_, _, err := f.svc.PlaceOrder(context.Background(), sess, OrderRequest{AddressID: 1, Items: []int64{42}})
	require.Error(t, err)
	assert.True(t, retail.IsNotFound(err))
	assert.Equal(t, 0, f.count(t, "orders"))
}

func TestCheckout_Atomic(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, _, err := f.svc.Checkout(ctx, registration("a@b.com"), OrderRequest{Items: []int64{42}})
	require.Error(t, err)
	assert.Equal(t, 0, f.count(t, "customer"))
	assert.Equal(t, 0, f.count(t, "address"))

	sess, orderID, err := f.svc.Checkout(ctx, registration("a@b.com"), OrderRequest{Total: dec("10.99")})
	require.NoError(t, err)
	assert.Equal(t, orderID, sess.ActiveOrderID)

	o, err := f.svc.LatestOrder(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, orderID, o.OrderID)
	assert.Equal(t, int64(1), o.AddressID)
}

func TestRecordPayment(t *testing.T) {
	tests := []struct {
		name    string
		req     PaymentRequest
		wantErr retail.ErrorCode
	}{
		{"cash", PaymentRequest{IsCash: true}, ""},
		{"card", PaymentRequest{CardNumber: "4111111111111111"}, ""},
		{"cash with card number", PaymentRequest{IsCash: true, CardNumber: "1234567890123456"}, retail.CodeValidation},
		{"short card", PaymentRequest{CardNumber: "411111111111111"}, retail.CodeValidation},
		{"card with letters", PaymentRequest{CardNumber: "4111-1111-1111-1"}, retail.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			sess := f.register(t, "a@b.com")

			sess, err := f.svc.RecordPayment(context.Background(), sess, tt.req)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, retail.CodeOf(err))
				assert.Equal(t, 0, f.count(t, "payment"))
				return
			}
			require.NoError(t, err)
			assert.True(t, idgen.PaymentIDs.Contains(sess.ActivePaymentID))

			p, err := f.svc.LatestPayment(context.Background(), "a@b.com")
			require.NoError(t, err)
			assert.Equal(t, sess.ActivePaymentID, p.PaymentID)
			assert.Equal(t, tt.req.IsCash, p.IsCash)
			assert.Equal(t, tt.req.CardNumber, p.CardNumber)
		})
	}
}

func TestRecordPayment_CallerSuppliedID(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sess := f.register(t, "a@b.com")

	sess, err := f.svc.RecordPayment(ctx, sess, PaymentRequest{PaymentID: 555555, IsCash: true})
	require.NoError(t, err)
	assert.Equal(t, int64(555555), sess.ActivePaymentID)

	_, err = f.svc.RecordPayment(ctx, sess, PaymentRequest{PaymentID: 555555, IsCash: true})
	require.Error(t, err)
	assert.True(t, retail.IsConstraint(err))
}

func TestFinalizeBilling_NoOrderOrPayment(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.FinalizeBilling(context.Background(), retail.NewSession("new@x.com"), BillingRequest{})
	require.Error(t, err)
	assert.True(t, retail.IsNotFound(err))
	assert.Contains(t, err.Error(), MsgNoOrderOrPayment)
	assert.Equal(t, 0, f.count(t, "billing"))
}

func TestFinalizeBilling_OrderWithoutPayment(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sess := f.register(t, "a@b.com")
	sess, _, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("10.99")})
	require.NoError(t, err)

	_, err = f.svc.FinalizeBilling(ctx, sess, BillingRequest{})
	require.Error(t, err)
	assert.True(t, retail.IsNotFound(err))
	assert.Equal(t, 0, f.count(t, "billing"))
}

// Customer a@b.com, address 1 at zip 10001, a 10.99 order and a cash payment
// bill to 10.99 with no voucher.
func TestFinalizeBilling_EndToEnd(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	sess := f.register(t, "a@b.com")
	sess, orderID, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("10.99"), Status: retail.OrderSuccessful})
	require.NoError(t, err)
	sess, err = f.svc.RecordPayment(ctx, sess, PaymentRequest{IsCash: true})
	require.NoError(t, err)

	b, err := f.svc.FinalizeBilling(ctx, sess, BillingRequest{})
	require.NoError(t, err)
	assert.True(t, idgen.BillingIDs.Contains(b.BillingID))
	assert.Equal(t, orderID, b.OrderID)
	assert.Equal(t, sess.ActivePaymentID, b.PaymentID)
	assertDecimal(t, "10.99", b.FinalAmount)
	assert.Equal(t, retail.PaymentSuccessful, b.Status)
	assert.Equal(t, retail.NoVoucher, b.VoucherLabel())

	stored, err := store.GetBilling(ctx, f.st.DB(), b.BillingID)
	require.NoError(t, err)
	assertDecimal(t, "10.99", stored.FinalAmount)
	assert.Equal(t, retail.PaymentSuccessful, stored.Status)
	assert.Empty(t, stored.VoucherID)

	var nulls int
	require.NoError(t, f.st.DB().QueryRow("SELECT COUNT(*) FROM billing WHERE voucher_id IS NULL").Scan(&nulls))
	assert.Equal(t, 1, nulls)
}

func TestFinalizeBilling_FallsBackToLatest(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sess := f.register(t, "a@b.com")

	_, _, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("1.00")})
	require.NoError(t, err)
	_, latest, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("2.00")})
	require.NoError(t, err)
	_, err = f.svc.RecordPayment(ctx, sess, PaymentRequest{IsCash: true})
	require.NoError(t, err)

	// A fresh session has no active ids, so the most recent rows are used.
	b, err := f.svc.FinalizeBilling(ctx, retail.NewSession("a@b.com"), BillingRequest{})
	require.NoError(t, err)
	assert.Equal(t, latest, b.OrderID)
	assertDecimal(t, "2.00", b.FinalAmount)
}

func TestFinalizeBilling_Voucher(t *testing.T) {
	tests := []struct {
		name     string
		discount string
		want     string
	}{
		{"partial discount", "5.00", "5.99"},
		{"discount exceeds total", "25.00", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			ctx := context.Background()
			require.NoError(t, f.svc.AddVoucher(ctx, retail.Voucher{VoucherID: "SAVE", DiscountPrice: dec(tt.discount)}))

			sess := f.register(t, "a@b.com")
			sess, _, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("10.99")})
			require.NoError(t, err)
			sess, err = f.svc.RecordPayment(ctx, sess, PaymentRequest{IsCash: true})
			require.NoError(t, err)

			b, err := f.svc.FinalizeBilling(ctx, sess, BillingRequest{VoucherID: "SAVE"})
			require.NoError(t, err)
			assertDecimal(t, tt.want, b.FinalAmount)
			assert.Equal(t, "SAVE", b.VoucherLabel())
		})
	}
}

func TestFinalizeBilling_UnknownVoucher(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sess := f.register(t, "a@b.com")
	sess, _, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("10.99")})
	require.NoError(t, err)
	sess, err = f.svc.RecordPayment(ctx, sess, PaymentRequest{IsCash: true})
	require.NoError(t, err)

	_, err = f.svc.FinalizeBilling(ctx, sess, BillingRequest{VoucherID: "NOPE"})
	require.Error(t, err)
	assert.True(t, retail.IsNotFound(err))
	assert.Equal(t, 0, f.count(t, "billing"))

	b, err := f.svc.FinalizeBilling(ctx, sess, BillingRequest{VoucherID: retail.NoVoucher})
	require.NoError(t, err)
	assertDecimal(t, "10.99", b.FinalAmount)
}

func TestFinalizeBilling_OtherCustomersOrder(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	owner := f.register(t, "a@b.com")
	_, orderID, err := f.svc.PlaceOrder(ctx, owner, OrderRequest{AddressID: 1, Total: dec("10.99")})
	require.NoError(t, err)

	other := f.register(t, "c@d.com")
	other, err = f.svc.RecordPayment(ctx, other, PaymentRequest{IsCash: true})
	require.NoError(t, err)

	_, err = f.svc.FinalizeBilling(ctx, other, BillingRequest{OrderID: orderID})
	require.Error(t, err)
	assert.True(t, retail.IsNotFound(err))
	assert.Equal(t, 0, f.count(t, "billing"))
}

func TestAddVoucher_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	assert.True(t, retail.IsValidation(f.svc.AddVoucher(ctx, retail.Voucher{DiscountPrice: dec("1")})))
	assert.True(t, retail.IsValidation(f.svc.AddVoucher(ctx, retail.Voucher{VoucherID: retail.NoVoucher, DiscountPrice: dec("1")})))
	assert.True(t, retail.IsConstraint(f.svc.AddVoucher(ctx, retail.Voucher{VoucherID: "NEG", DiscountPrice: dec("-1")})))
}

func TestFinalAmount(t *testing.T) {
	assertDecimal(t, "5.99", FinalAmount(dec("10.99"), dec("5.00")))
	assertDecimal(t, "0", FinalAmount(dec("1.00"), dec("2.00")))
	assertDecimal(t, "10.99", FinalAmount(dec("10.99"), decimal.Zero))
}

func TestService_ObservesWorkflows(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New("retail")
	f := newFixture(t, nil, WithLogger(zap.New(core)), WithMetrics(m))
	ctx := context.Background()

	sess := f.register(t, "a@b.com")
	_, orderID, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("10.99")})
	require.NoError(t, err)
	_, err = f.svc.FinalizeBilling(ctx, retail.NewSession("new@x.com"), BillingRequest{})
	require.Error(t, err)

	placed := logs.FilterMessage("place_order completed").All()
	require.Len(t, placed, 1)
	assert.Equal(t, orderID, placed[0].ContextMap()["order_id"])
	assert.Equal(t, sess.ID, placed[0].ContextMap()["session_id"])

	refused := logs.FilterMessage("finalize_billing refused").All()
	require.Len(t, refused, 1)
	assert.Equal(t, zapcore.WarnLevel, refused[0].Level)
	assert.Equal(t, string(retail.CodeNotFound), refused[0].ContextMap()["code"])

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	out := buf.String()
	assert.Contains(t, out, `retail_workflow_total{outcome="ok",workflow="place_order"} 1`)
	assert.Contains(t, out, `retail_workflow_total{outcome="rejected",workflow="finalize_billing"} 1`)
	assert.True(t, strings.Contains(out, `retail_id_allocation_attempts_count{table="orders"} 1`))
}

func TestService_ClockAdvance(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	sess := f.register(t, "a@b.com")

	f.clock.Advance(48 * time.Hour)
	_, orderID, err := f.svc.PlaceOrder(ctx, sess, OrderRequest{AddressID: 1, Total: dec("1.00")})
	require.NoError(t, err)

	o, err := store.GetOrder(ctx, f.st.DB(), orderID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-03", o.OrderDate.Format(retail.DateLayout))
}
