// Package idgen allocates random numeric identifiers for orders, payments and
// billing records.
//
// Identifiers are uniform random draws from a fixed Range. Two allocation
// modes exist:
//
//   - Unique: draw, count matching rows, repeat until absent. Two writers can
//     both observe "absent" for the same draw, so the caller's insert may still
//     collide.
//   - Claim: Unique followed by the caller's insert; a primary key or unique
//     conflict on that insert is treated as a collision and retried with a new
//     draw. Run inside the workflow transaction this makes allocation atomic.
//
// Both are bounded by the generator's attempt budget.
package idgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// Range is an inclusive identifier range.
type Range struct {
	Low  int64
	High int64
}

// Size returns the number of identifiers in r.
func (r Range) Size() int64 {
	return r.High - r.Low + 1
}

// Contains reports whether id lies in r.
func (r Range) Contains(id int64) bool {
	return id >= r.Low && id <= r.High
}

// Identifier ranges per table.
var (
	OrderIDs   = Range{Low: 100000, High: 999999}
	PaymentIDs = Range{Low: 100000, High: 999999}
	BillingIDs = Range{Low: 1000, High: 9999}
)

// DefaultMaxAttempts bounds allocation retries when no budget is configured.
const DefaultMaxAttempts = 64

// Source produces candidate identifiers within a range.
type Source interface {
	Draw(r Range) int64
}

// Generator allocates identifiers from a Source.
type Generator struct {
	src         Source
	maxAttempts int
	observe     func(table string, attempts int)
}

// New creates a generator. maxAttempts <= 0 selects DefaultMaxAttempts.
func New(src Source, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{src: src, maxAttempts: maxAttempts}
}

// NewRandom creates a generator backed by a freshly seeded RandSource.
func NewRandom(maxAttempts int) *Generator {
	return New(NewRandSource(), maxAttempts)
}

// OnAllocate registers fn to be called after every successful allocation with
// the number of draws it took.
func (g *Generator) OnAllocate(fn func(table string, attempts int)) {
	g.observe = fn
}

// Unique draws identifiers until one is absent from table.column.
func (g *Generator) Unique(ctx context.Context, q store.Querier, table, column string, r Range) (int64, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		id, err := g.draw(r)
		if err != nil {
			return 0, err
		}
		n, err := store.CountWhere(ctx, q, table, column, id)
		if err != nil {
			return 0, fmt.Errorf("unique id: %w", err)
		}
		if n == 0 {
			g.record(table, attempt)
			return id, nil
		}
	}
	return 0, g.exhausted(table)
}

// Claim allocates an identifier and inserts the row that uses it. insert is
// called with each candidate that passed the existence check; a key conflict
// on table means another writer took the id first and a new one is drawn.
// Any other insert error is returned as is.
func (g *Generator) Claim(ctx context.Context, q store.Querier, table, column string, r Range, insert func(id int64) error) (int64, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		id, err := g.draw(r)
		if err != nil {
			return 0, err
		}
		n, err := store.CountWhere(ctx, q, table, column, id)
		if err != nil {
			return 0, fmt.Errorf("claim id: %w", err)
		}
		if n > 0 {
			continue
		}
		err = insert(id)
		if err == nil {
			g.record(table, attempt)
			return id, nil
		}
		if isConflictOn(err, table) {
			continue
		}
		return 0, err
	}
	return 0, g.exhausted(table)
}

func (g *Generator) draw(r Range) (int64, error) {
	if r.Size() <= 0 {
		return 0, fmt.Errorf("invalid id range [%d, %d]", r.Low, r.High)
	}
	id := g.src.Draw(r)
	if !r.Contains(id) {
		return 0, fmt.Errorf("source drew %d outside [%d, %d]", id, r.Low, r.High)
	}
	return id, nil
}

func (g *Generator) record(table string, attempts int) {
	if g.observe != nil {
		g.observe(table, attempts)
	}
}

func (g *Generator) exhausted(table string) error {
	return &retail.Error{
		Code:    retail.CodeIDExhausted,
		Op:      "allocate id",
		Table:   table,
		Message: fmt.Sprintf("no free id after %d attempts", g.maxAttempts),
	}
}

func isConflictOn(err error, table string) bool {
	var re *retail.Error
	return errors.As(err, &re) && re.Table == table && retail.IsKeyConflict(err)
}
