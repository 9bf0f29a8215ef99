package scenario

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakeshthota234/Online-Retail-Application/internal/checkout"
	"github.com/rakeshthota234/Online-Retail-Application/internal/idgen"
	"github.com/rakeshthota234/Online-Retail-Application/internal/report"
	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
	"github.com/rakeshthota234/Online-Retail-Application/internal/testutil"
)

// SnapshotTables are captured after the steps run, in this order.
var SnapshotTables = []string{"orders", "order_item", "payment", "billing"}

// StepResult records what one step did.
type StepResult struct {
	Step    int    `json:"step"`
	Kind    string `json:"kind"`
	Outcome string `json:"outcome"`
	ID      int64  `json:"id,omitempty"`
}

// TableSnapshot is the content of one table after the run.
type TableSnapshot struct {
	Table   string   `json:"table"`
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Snapshot is the deterministic outcome of a run, suitable for golden files.
type Snapshot struct {
	Scenario string          `json:"scenario"`
	Steps    []StepResult    `json:"steps"`
	Tables   []TableSnapshot `json:"tables"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every step matched its expectation and every
	// assertion held.
	Pass     bool     `json:"pass"`
	Errors   []string `json:"errors,omitempty"`
	Snapshot Snapshot `json:"snapshot"`
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Option configures Run.
type Option func(*runner)

// WithLogger logs workflow outcomes to l.
func WithLogger(l *zap.Logger) Option {
	return func(r *runner) { r.logger = l }
}

type runner struct {
	logger *zap.Logger
}

// Run executes sc on a fresh in-memory store. Step and assertion mismatches
// are reported in the Result; the error is non-nil only when the scenario
// could not be executed at all.
func Run(ctx context.Context, sc *Scenario, opts ...Option) (*Result, error) {
	cfg := runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("open scenario store: %w", err)
	}
	defer st.Close()

	for _, t := range store.Tables {
		rows, ok := sc.Seed[t.Name]
		if !ok {
			continue
		}
		if _, err := st.BulkInsert(ctx, t.Name, rows); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	date := sc.Date
	if date == "" {
		date = DefaultDate
	}
	clock := testutil.NewFixedClockOn(date)
	svc := checkout.New(st, idgen.New(newScriptedSource(sc.IDs), 0),
		checkout.WithClock(clock.Now),
		checkout.WithHashCost(bcrypt.MinCost),
		checkout.WithLogger(cfg.logger),
	)

	result := &Result{Pass: true, Snapshot: Snapshot{Scenario: sc.Name, Steps: []StepResult{}}}

	var sess retail.Session
	for i, step := range sc.Steps {
		var id int64
		sess, id, err = runStep(ctx, svc, sess, step)

		outcome := "ok"
		if err != nil {
			outcome = string(retail.CodeOf(err))
			if outcome == "" {
				outcome = "error"
			}
		}
		result.Snapshot.Steps = append(result.Snapshot.Steps, StepResult{Step: i + 1, Kind: step.Kind(), Outcome: outcome, ID: id})

		switch {
		case step.ExpectError == "" && err != nil:
			result.addError("step %d (%s): unexpected error: %v", i+1, step.Kind(), err)
		case step.ExpectError != "" && outcome != step.ExpectError:
			result.addError("step %d (%s): expected %s, got %s", i+1, step.Kind(), step.ExpectError, outcome)
		}
	}

	reports := report.New(st.DB(), report.DefaultMaxRows)
	for i, a := range sc.Assertions {
		if err := evaluate(ctx, reports, a); err != nil {
			result.addError("assertions[%d]: %v", i, err)
		}
	}

	for _, table := range SnapshotTables {
		tbl, err := reports.View(ctx, table)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", table, err)
		}
		result.Snapshot.Tables = append(result.Snapshot.Tables, TableSnapshot{Table: table, Columns: tbl.Columns, Rows: tbl.Rows})
	}
	return result, nil
}

// runStep executes one step and returns the updated session and the id of
// the row the step created, if any.
func runStep(ctx context.Context, svc *checkout.Service, sess retail.Session, step Step) (retail.Session, int64, error) {
	switch {
	case step.Register != nil:
		r := step.Register
		next, err := svc.Register(ctx, checkout.Registration{
			Customer: retail.Customer{
				Email:     r.Email,
				Password:  r.Password,
				FirstName: r.FirstName,
				LastName:  r.LastName,
				Age:       r.Age,
				Sex:       r.Sex,
				Phone:     r.Phone,
			},
			Zipcode:     retail.Zipcode{Zip: r.Zip, City: r.City, State: r.State, County: r.County},
			AddressID:   r.AddressID,
			FullAddress: r.FullAddress,
		})
		if err != nil {
			return sess, 0, err
		}
		return next, 0, nil

	case step.Session != nil:
		return retail.NewSession(step.Session.Email), 0, nil

	case step.Order != nil:
		o := step.Order
		req := checkout.OrderRequest{AddressID: o.AddressID, Status: retail.OrderStatus(o.Status), Items: o.Items}
		if o.Total != "" {
			total, err := decimal.NewFromString(o.Total)
			if err != nil {
				return sess, 0, retail.NewValidationError("order", fmt.Sprintf("total %q: %v", o.Total, err))
			}
			req.Total = total
		}
		return svc.PlaceOrder(ctx, sess, req)

	case step.Pay != nil:
		p := step.Pay
		next, err := svc.RecordPayment(ctx, sess, checkout.PaymentRequest{PaymentID: p.PaymentID, IsCash: p.Cash, CardNumber: p.Card})
		if err != nil {
			return sess, 0, err
		}
		return next, next.ActivePaymentID, nil

	case step.Bill != nil:
		b := step.Bill
		billing, err := svc.FinalizeBilling(ctx, sess, checkout.BillingRequest{
			OrderID:   b.OrderID,
			PaymentID: b.PaymentID,
			VoucherID: b.Voucher,
			Status:    retail.PaymentStatus(b.Status),
		})
		return sess, billing.BillingID, err

	case step.Voucher != nil:
		v := step.Voucher
		discount, err := decimal.NewFromString(v.Discount)
		if err != nil {
			return sess, 0, retail.NewValidationError("voucher", fmt.Sprintf("discount %q: %v", v.Discount, err))
		}
		return sess, 0, svc.AddVoucher(ctx, retail.Voucher{VoucherID: v.ID, DiscountPrice: discount})

	default:
		return sess, 0, fmt.Errorf("step has no workflow")
	}
}

// scriptedSource replays the scenario's ids. Once exhausted it draws 0,
// which lies outside every range and fails the allocation.
type scriptedSource struct {
	ids []int64
}

func newScriptedSource(ids []int64) *scriptedSource {
	return &scriptedSource{ids: ids}
}

func (s *scriptedSource) Draw(idgen.Range) int64 {
	if len(s.ids) == 0 {
		return 0
	}
	id := s.ids[0]
	s.ids = s.ids[1:]
	return id
}
