package scenario

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// DefaultDate is the clock date used when a scenario sets none.
const DefaultDate = "2024-01-01"

// Scenario is a scripted checkout session.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	Description string `yaml:"description"`

	// Date fixes the service clock (YYYY-MM-DD).
	Date string `yaml:"date,omitempty"`

	// IDs are returned in order by the identifier source. Every order,
	// payment and billing allocation consumes one or more of them.
	IDs []int64 `yaml:"ids,omitempty"`

	// Seed rows per table, inserted with bulk insert in dependency order.
	Seed map[string][]map[string]any `yaml:"seed,omitempty"`

	Steps []Step `yaml:"steps"`

	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step runs exactly one workflow.
type Step struct {
	Register *RegisterStep `yaml:"register,omitempty"`
	Session  *SessionStep  `yaml:"session,omitempty"`
	Order    *OrderStep    `yaml:"order,omitempty"`
	Pay      *PayStep      `yaml:"pay,omitempty"`
	Bill     *BillStep     `yaml:"bill,omitempty"`
	Voucher  *VoucherStep  `yaml:"voucher,omitempty"`

	// ExpectError is the error code the step must fail with. Empty means the
	// step must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// RegisterStep registers a customer and starts a session for them.
type RegisterStep struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name,omitempty"`
	Age         int    `yaml:"age"`
	Sex         string `yaml:"sex"`
	Phone       string `yaml:"phone"`
	Zip         int    `yaml:"zip"`
	City        string `yaml:"city,omitempty"`
	State       string `yaml:"state,omitempty"`
	County      string `yaml:"county,omitempty"`
	AddressID   int64  `yaml:"address_id"`
	FullAddress string `yaml:"full_address,omitempty"`
}

// SessionStep starts a session for an email without registering it.
type SessionStep struct {
	Email string `yaml:"email"`
}

// OrderStep places an order in the current session.
type OrderStep struct {
	AddressID int64   `yaml:"address_id"`
	Total     string  `yaml:"total,omitempty"`
	Status    string  `yaml:"status,omitempty"`
	Items     []int64 `yaml:"items,omitempty"`
}

// PayStep records a payment in the current session.
type PayStep struct {
	Cash      bool   `yaml:"cash"`
	Card      string `yaml:"card,omitempty"`
	PaymentID int64  `yaml:"payment_id,omitempty"`
}

// BillStep finalizes billing in the current session.
type BillStep struct {
	OrderID   int64  `yaml:"order_id,omitempty"`
	PaymentID int64  `yaml:"payment_id,omitempty"`
	Voucher   string `yaml:"voucher,omitempty"`
	Status    string `yaml:"status,omitempty"`
}

// VoucherStep adds a voucher.
type VoucherStep struct {
	ID       string `yaml:"id"`
	Discount string `yaml:"discount"`
}

// Assertion checks the final tables.
type Assertion struct {
	// Type is AssertCount or AssertFinalState.
	Type string `yaml:"type"`

	Table string `yaml:"table"`

	// Where filters rows by column equality.
	Where map[string]any `yaml:"where,omitempty"`

	// Count is the expected number of matching rows (count).
	Count int `yaml:"count,omitempty"`

	// Expect holds column values of the single matching row (final_state).
	// Only the listed columns are compared.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion types.
const (
	AssertCount      = "count"
	AssertFinalState = "final_state"
)

// Kind returns the name of the workflow the step runs.
func (s Step) Kind() string {
	switch {
	case s.Register != nil:
		return "register"
	case s.Session != nil:
		return "session"
	case s.Order != nil:
		return "order"
	case s.Pay != nil:
		return "pay"
	case s.Bill != nil:
		return "bill"
	case s.Voucher != nil:
		return "voucher"
	default:
		return ""
	}
}

func (s Step) kinds() int {
	n := 0
	for _, set := range []bool{s.Register != nil, s.Session != nil, s.Order != nil, s.Pay != nil, s.Bill != nil, s.Voucher != nil} {
		if set {
			n++
		}
	}
	return n
}

// Load reads and validates a scenario file. Unknown fields are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := Validate(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks required fields and step shapes.
func Validate(sc *Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Description == "" {
		return fmt.Errorf("description is required")
	}
	if sc.Date != "" {
		if _, err := time.Parse(retail.DateLayout, sc.Date); err != nil {
			return fmt.Errorf("date %q: %w", sc.Date, err)
		}
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for table := range sc.Seed {
		if _, ok := store.LookupTable(table); !ok {
			return fmt.Errorf("seed: unknown table %q", table)
		}
	}

	for i, step := range sc.Steps {
		if n := step.kinds(); n != 1 {
			return fmt.Errorf("steps[%d]: exactly one workflow is required, got %d", i, n)
		}
		switch retail.ErrorCode(step.ExpectError) {
		case "", retail.CodeConstraintViolation, retail.CodeNotFound, retail.CodeValidation, retail.CodeIDExhausted:
		default:
			return fmt.Errorf("steps[%d]: unknown error code %q", i, step.ExpectError)
		}
	}

	for i, a := range sc.Assertions {
		if _, ok := store.LookupTable(a.Table); !ok {
			return fmt.Errorf("assertions[%d]: unknown table %q", i, a.Table)
		}
		switch a.Type {
		case AssertCount:
			if a.Count < 0 {
				return fmt.Errorf("assertions[%d]: count must be non-negative", i)
			}
		case AssertFinalState:
			if len(a.Expect) == 0 {
				return fmt.Errorf("assertions[%d]: expect is required for final_state", i)
			}
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}
	return nil
}
