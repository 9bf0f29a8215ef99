package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

// DefaultMaxRows caps result size when the runner has no limit configured.
const DefaultMaxRows = 500

// Compile validates q and converts it to parameterized SQL for SQLite.
//
// The result always ends in ORDER BY, with the table key as tiebreaker, and
// LIMIT ?, with the limit bound as the last parameter. No value is ever
// interpolated into the SQL text.
func Compile(q Query, maxRows int) (string, []any, error) {
	if err := Validate(q); err != nil {
		return "", nil, err
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	switch query := q.(type) {
	case Select:
		return compileSelect(query, maxRows)
	case *Select:
		return compileSelect(*query, maxRows)
	case Join:
		return compileJoin(query, maxRows)
	case *Join:
		return compileJoin(*query, maxRows)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func compileSelect(q Select, maxRows int) (string, []any, error) {
	s, _ := newScope(false, q.From)

	columns := q.Columns
	if len(columns) == 0 {
		columns, _ = VisibleColumns(q.From)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(columns, ", "), s.tables[0].Name)

	params, err := writeWhere(&b, s, q.Filter)
	if err != nil {
		return "", nil, err
	}
	writeOrderBy(&b, s, q.OrderBy)
	b.WriteString(" LIMIT ?")
	params = append(params, effectiveLimit(q.Limit, maxRows))
	return b.String(), params, nil
}

func compileJoin(q Join, maxRows int) (string, []any, error) {
	s, _ := newScope(true, q.Left, q.Right)

	columns := q.Columns
	if len(columns) == 0 {
		for _, t := range s.tables {
			visible, _ := VisibleColumns(t.Name)
			for _, c := range visible {
				columns = append(columns, t.Name+"."+c)
			}
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s INNER JOIN %s ON %s.%s = %s.%s",
		strings.Join(columns, ", "),
		q.Left, q.Right,
		q.Left, q.On.LeftColumn,
		q.Right, q.On.RightColumn,
	)

	params, err := writeWhere(&b, s, q.Filter)
	if err != nil {
		return "", nil, err
	}
	writeOrderBy(&b, s, q.OrderBy)
	b.WriteString(" LIMIT ?")
	params = append(params, effectiveLimit(q.Limit, maxRows))
	return b.String(), params, nil
}

func writeWhere(b *strings.Builder, s scope, filter Predicate) ([]any, error) {
	if filter == nil {
		return nil, nil
	}
	sql, params, err := compilePredicate(s, filter)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	b.WriteString(" WHERE ")
	b.WriteString(sql)
	return params, nil
}

// writeOrderBy appends the caller's terms followed by every key column not
// already listed, so row order never depends on the storage engine.
func writeOrderBy(b *strings.Builder, s scope, orderBy []Order) {
	var terms, seen []string
	for _, o := range orderBy {
		col, _ := s.resolve(o.Column)
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		terms = append(terms, col+" "+dir)
		seen = append(seen, col)
	}
	for _, t := range s.tables {
		for _, k := range t.Key {
			col := k
			if s.qualified {
				col = t.Name + "." + k
			}
			if !slices.Contains(seen, col) {
				terms = append(terms, col+" ASC")
				seen = append(seen, col)
			}
		}
	}
	b.WriteString(" ORDER BY ")
	b.WriteString(strings.Join(terms, ", "))
}

func effectiveLimit(limit, maxRows int) int {
	if limit > 0 && limit < maxRows {
		return limit
	}
	return maxRows
}

func compilePredicate(s scope, p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case Equals:
		return compareSQL(s, pred.Column, "=", pred.Value)
	case *Equals:
		return compareSQL(s, pred.Column, "=", pred.Value)
	case Compare:
		return compareSQL(s, pred.Column, string(pred.Op), pred.Value)
	case *Compare:
		return compareSQL(s, pred.Column, string(pred.Op), pred.Value)
	case And:
		return compileAnd(s, pred)
	case *And:
		return compileAnd(s, *pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func compareSQL(s scope, column, op string, value any) (string, []any, error) {
	col, err := s.resolve(column)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s %s ?", col, op), []any{param(value)}, nil
}

func compileAnd(s scope, and And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil
	}
	var parts []string
	var params []any
	for _, p := range and.Predicates {
		sql, ps, err := compilePredicate(s, p)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, ps...)
	}
	return strings.Join(parts, " AND "), params, nil
}

// param converts a filter value into the form stored in the column.
func param(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(retail.DateLayout)
	}
	return v
}
