package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// hidden columns are never returned by reports.
var hidden = map[string]bool{
	"customer.password": true,
}

// Tables returns the names of the tables reports can read, in dependency order.
func Tables() []string {
	return store.TableNames()
}

// VisibleColumns returns the columns of table a report may select.
func VisibleColumns(table string) ([]string, error) {
	t, ok := store.LookupTable(table)
	if !ok {
		return nil, invalid("unknown table %q", table)
	}
	var cols []string
	for _, c := range t.Columns {
		if !hidden[t.Name+"."+c] {
			cols = append(cols, c)
		}
	}
	return cols, nil
}

// Validate checks that q only names known tables and visible columns and
// that every filter value has a supported type.
func Validate(q Query) error {
	switch query := q.(type) {
	case Select:
		return validateSelect(query)
	case *Select:
		return validateSelect(*query)
	case Join:
		return validateJoin(query)
	case *Join:
		return validateJoin(*query)
	case nil:
		return invalid("nil query")
	default:
		return invalid("unsupported query type %T", q)
	}
}

// scope resolves column references against the tables of a query.
type scope struct {
	tables    []store.Table
	qualified bool
}

func newScope(qualified bool, names ...string) (scope, error) {
	s := scope{qualified: qualified}
	for _, name := range names {
		t, ok := store.LookupTable(name)
		if !ok {
			return scope{}, invalid("unknown table %q", name)
		}
		s.tables = append(s.tables, t)
	}
	return s, nil
}

// resolve returns the SQL spelling of ref.
func (s scope) resolve(ref string) (string, error) {
	table, column, found := strings.Cut(ref, ".")
	if !s.qualified {
		if found {
			return "", invalid("column %q must not be qualified", ref)
		}
		table, column = s.tables[0].Name, ref
	} else if !found {
		return "", invalid("column %q must be qualified as table.column", ref)
	}

	idx := slices.IndexFunc(s.tables, func(t store.Table) bool { return t.Name == table })
	if idx < 0 {
		return "", invalid("table %q is not part of the query", table)
	}
	if !s.tables[idx].HasColumn(column) {
		return "", invalid("unknown column %s.%s", table, column)
	}
	if hidden[table+"."+column] {
		return "", invalid("column %s.%s is not reportable", table, column)
	}
	if s.qualified {
		return table + "." + column, nil
	}
	return column, nil
}

func validateSelect(q Select) error {
	s, err := newScope(false, q.From)
	if err != nil {
		return err
	}
	return validateParts(s, q.Columns, q.Filter, q.OrderBy, q.Limit)
}

func validateJoin(q Join) error {
	if q.Left == q.Right {
		return invalid("self join on %q is not supported", q.Left)
	}
	s, err := newScope(true, q.Left, q.Right)
	if err != nil {
		return err
	}
	if _, err := s.resolve(q.Left + "." + q.On.LeftColumn); err != nil {
		return err
	}
	if _, err := s.resolve(q.Right + "." + q.On.RightColumn); err != nil {
		return err
	}
	return validateParts(s, q.Columns, q.Filter, q.OrderBy, q.Limit)
}

func validateParts(s scope, columns []string, filter Predicate, orderBy []Order, limit int) error {
	for _, c := range columns {
		if _, err := s.resolve(c); err != nil {
			return err
		}
	}
	if err := validatePredicate(s, filter); err != nil {
		return err
	}
	for _, o := range orderBy {
		if _, err := s.resolve(o.Column); err != nil {
			return err
		}
	}
	if limit < 0 {
		return invalid("negative limit %d", limit)
	}
	return nil
}

func validatePredicate(s scope, p Predicate) error {
	switch pred := p.(type) {
	case nil:
		return nil
	case Equals:
		return validateComparison(s, pred.Column, pred.Value)
	case *Equals:
		return validateComparison(s, pred.Column, pred.Value)
	case Compare:
		return validateCompare(s, pred)
	case *Compare:
		return validateCompare(s, *pred)
	case And:
		return validateAnd(s, pred)
	case *And:
		return validateAnd(s, *pred)
	default:
		return invalid("unsupported predicate type %T", p)
	}
}

func validateCompare(s scope, c Compare) error {
	switch c.Op {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual, OpNotEqual:
	default:
		return invalid("unsupported operator %q", c.Op)
	}
	return validateComparison(s, c.Column, c.Value)
}

func validateAnd(s scope, a And) error {
	for _, p := range a.Predicates {
		if err := validatePredicate(s, p); err != nil {
			return err
		}
	}
	return nil
}

func validateComparison(s scope, column string, value any) error {
	if _, err := s.resolve(column); err != nil {
		return err
	}
	switch value.(type) {
	case string, int, int64, bool, decimal.Decimal, time.Time:
		return nil
	case nil:
		return invalid("column %s compared to NULL", column)
	default:
		return invalid("unsupported value type %T for column %s", value, column)
	}
}

func invalid(format string, args ...any) error {
	return retail.NewValidationError("report", fmt.Sprintf(format, args...))
}
