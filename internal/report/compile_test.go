package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

func TestCompile_SimpleSelect(t *testing.T) {
	sql, params, err := Compile(Select{
		From:    "orders",
		Columns: []string{"order_id", "total_amount"},
		Filter:  Equals{Column: "email", Value: "a@b.com"},
	}, 100)
	require.NoError(t, err)

	assert.Equal(t, "SELECT order_id, total_amount FROM orders WHERE email = ? ORDER BY order_id ASC LIMIT ?", sql)
	assert.NotContains(t, sql, "a@b.com")
	assert.Equal(t, []any{"a@b.com", 100}, params)
}

func TestCompile_PointerQuery(t *testing.T) {
	sql, params, err := Compile(&Select{
		From:   "items",
		Filter: &Equals{Column: "item_category", Value: "Snacks"},
	}, 10)
	require.NoError(t, err)
	assert.Contains(t, sql, "FROM items WHERE item_category = ?")
	assert.Equal(t, []any{"Snacks", 10}, params)
}

func TestCompile_DefaultColumnsHidePassword(t *testing.T) {
	sql, _, err := Compile(Select{From: "customer"}, 10)
	require.NoError(t, err)
	assert.Equal(t, "SELECT email, first_name, last_name, age, sex, phone_number FROM customer ORDER BY email ASC LIMIT ?", sql)

	_, _, err = Compile(Select{From: "customer", Columns: []string{"password"}}, 10)
	require.Error(t, err)
	assert.True(t, retail.IsValidation(err))
}

func TestCompile_OrderByAlwaysEndsInKey(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{
			name:  "no order",
			query: Select{From: "address", Columns: []string{"full_address"}},
			want:  " ORDER BY email ASC, address_id ASC LIMIT ?",
		},
		{
			name:  "caller order first",
			query: Select{From: "orders", Columns: []string{"order_id"}, OrderBy: []Order{{Column: "total_amount", Desc: true}}},
			want:  " ORDER BY total_amount DESC, order_id ASC LIMIT ?",
		},
		{
			name:  "key not repeated",
			query: Select{From: "orders", Columns: []string{"order_id"}, OrderBy: []Order{{Column: "order_id", Desc: true}}},
			want:  " ORDER BY order_id DESC LIMIT ?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _, err := Compile(tt.query, 10)
			require.NoError(t, err)
			assert.Contains(t, sql, tt.want)
		})
	}
}

func TestCompile_Predicates(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sql, params, err := Compile(Select{
		From:    "orders",
		Columns: []string{"order_id"},
		Filter: And{Predicates: []Predicate{
			Equals{Column: "email", Value: "a@b.com"},
			Compare{Column: "total_amount", Op: OpGreaterEqual, Value: decimal.RequireFromString("5.00")},
			Compare{Column: "date_of_order", Op: OpLess, Value: day},
		}},
	}, 50)
	require.NoError(t, err)

	assert.Contains(t, sql, "WHERE email = ? AND total_amount >= ? AND date_of_order < ?")
	require.Len(t, params, 4)
	assert.Equal(t, "a@b.com", params[0])
	assert.Equal(t, "2024-03-01", params[2])
	assert.Equal(t, 50, params[3])
}

func TestCompile_EmptyAnd(t *testing.T) {
	sql, params, err := Compile(Select{From: "voucher", Filter: And{}}, 5)
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE 1 = 1")
	assert.Equal(t, []any{5}, params)
}

func TestCompile_Limit(t *testing.T) {
	_, params, err := Compile(Select{From: "voucher", Limit: 3}, 100)
	require.NoError(t, err)
	assert.Equal(t, []any{3}, params)

	_, params, err = Compile(Select{From: "voucher", Limit: 1000}, 100)
	require.NoError(t, err)
	assert.Equal(t, []any{100}, params, "limit is capped")

	_, params, err = Compile(Select{From: "voucher"}, 0)
	require.NoError(t, err)
	assert.Equal(t, []any{DefaultMaxRows}, params)
}

func TestCompile_Join(t *testing.T) {
	sql, params, err := Compile(Join{
		Left:    "billing",
		Right:   "orders",
		On:      On{LeftColumn: "order_id", RightColumn: "order_id"},
		Columns: []string{"billing.billing_id", "orders.total_amount"},
		Filter:  Equals{Column: "billing.email", Value: "a@b.com"},
	}, 20)
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT billing.billing_id, orders.total_amount FROM billing INNER JOIN orders ON billing.order_id = orders.order_id"+
			" WHERE billing.email = ? ORDER BY billing.billing_id ASC, orders.order_id ASC LIMIT ?",
		sql)
	assert.Equal(t, []any{"a@b.com", 20}, params)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		query Query
	}{
		{"nil query", nil},
		{"unknown table", Select{From: "sqlite_master"}},
		{"injected table", Select{From: "orders; DROP TABLE orders"}},
		{"unknown column", Select{From: "orders", Columns: []string{"secret"}}},
		{"qualified column in select", Select{From: "orders", Columns: []string{"orders.order_id"}}},
		{"unknown filter column", Select{From: "orders", Filter: Equals{Column: "nope", Value: 1}}},
		{"null value", Select{From: "orders", Filter: Equals{Column: "email", Value: nil}}},
		{"unsupported value", Select{From: "orders", Filter: Equals{Column: "email", Value: []string{"x"}}}},
		{"bad operator", Select{From: "orders", Filter: Compare{Column: "total_amount", Op: "LIKE", Value: "1"}}},
		{"negative limit", Select{From: "orders", Limit: -1}},
		{"unknown order column", Select{From: "orders", OrderBy: []Order{{Column: "rowid"}}}},
		{"unqualified join column", Join{Left: "billing", Right: "orders", On: On{"order_id", "order_id"}, Columns: []string{"order_id"}}},
		{"bad join key", Join{Left: "billing", Right: "orders", On: On{"nope", "order_id"}}},
		{"foreign table in join", Join{Left: "billing", Right: "orders", On: On{"order_id", "order_id"}, Columns: []string{"items.item_id"}}},
		{"self join", Join{Left: "orders", Right: "orders", On: On{"order_id", "order_id"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.query)
			require.Error(t, err)
			assert.True(t, retail.IsValidation(err), "got %v", err)
		})
	}
}

func TestNamed_Build(t *testing.T) {
	n, ok := Lookup("customer-orders")
	require.True(t, ok)

	_, err := n.Build(map[string]string{})
	require.Error(t, err)
	assert.True(t, retail.IsValidation(err))

	q, err := n.Build(map[string]string{"email": " A@B.com "})
	require.NoError(t, err)
	_, params, err := Compile(q, 10)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", params[0])

	for _, r := range Reports {
		args := map[string]string{}
		for _, p := range r.Params {
			args[p] = "1"
		}
		q, err := r.Build(args)
		require.NoError(t, err, r.Name)
		require.NoError(t, Validate(q), r.Name)
	}

	_, ok = Lookup("drop-everything")
	assert.False(t, ok)
}
