package scenario

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rakeshthota234/Online-Retail-Application/internal/report"
)

// evaluate runs one assertion through the reporting endpoint.
func evaluate(ctx context.Context, reports *report.Runner, a Assertion) error {
	filter, err := whereFilter(a.Where)
	if err != nil {
		return err
	}
	tbl, err := reports.Run(ctx, report.Select{From: a.Table, Filter: filter})
	if err != nil {
		return fmt.Errorf("query %s: %w", a.Table, err)
	}

	switch a.Type {
	case AssertCount:
		if len(tbl.Rows) != a.Count {
			return fmt.Errorf("count %s where %s: expected %d, got %d", a.Table, describe(a.Where), a.Count, len(tbl.Rows))
		}
		return nil

	case AssertFinalState:
		if len(tbl.Rows) != 1 {
			return fmt.Errorf("final_state %s where %s: expected exactly one row, got %d", a.Table, describe(a.Where), len(tbl.Rows))
		}
		row := tbl.Rows[0]
		for _, col := range sortedKeys(a.Expect) {
			idx := slices.Index(tbl.Columns, col)
			if idx < 0 {
				return fmt.Errorf("final_state %s: column %q not in %v", a.Table, col, tbl.Columns)
			}
			want, got := render(a.Expect[col]), render(row[idx])
			if want != got {
				return fmt.Errorf("final_state %s: %s = %s, expected %s", a.Table, col, got, want)
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// whereFilter turns a column-value map into an And of Equals, in column order.
func whereFilter(where map[string]any) (report.Predicate, error) {
	if len(where) == 0 {
		return nil, nil
	}
	var preds []report.Predicate
	for _, col := range sortedKeys(where) {
		v := where[col]
		switch n := v.(type) {
		case float64:
			v = decimal.NewFromFloat(n)
		case nil:
			return nil, fmt.Errorf("where %s: null is not comparable", col)
		}
		preds = append(preds, report.Equals{Column: col, Value: v})
	}
	return report.And{Predicates: preds}, nil
}

// render formats expected and actual values the same way so YAML literals
// compare equal to SQLite results: 10.99 == 10.99, 5 == int64(5).
func render(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case float64:
		return decimal.NewFromFloat(val).String()
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case string:
		if d, err := decimal.NewFromString(val); err == nil {
			return d.String()
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}

func describe(where map[string]any) string {
	if len(where) == 0 {
		return "(all rows)"
	}
	s := ""
	for i, k := range sortedKeys(where) {
		if i > 0 {
			s += " AND "
		}
		s += fmt.Sprintf("%s = %v", k, where[k])
	}
	return s
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
