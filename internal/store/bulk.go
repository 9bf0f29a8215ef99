package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

// BulkInsert appends rows to table in a single transaction and returns the
// number of rows written. Row keys must be columns of the table; columns a
// row omits take their schema defaults. Empty strings in nullable columns are
// stored as NULL, as is the NoVoucher sentinel in billing.voucher_id.
//
// Either every row is written or none is.
func (s *Store) BulkInsert(ctx context.Context, table string, rows []map[string]any) (int, error) {
	t, ok := LookupTable(table)
	if !ok {
		return 0, retail.NewValidationError("bulk insert", fmt.Sprintf("unknown table %q", table))
	}
	for i, row := range rows {
		for col := range row {
			if !t.HasColumn(col) {
				return 0, retail.NewValidationError("bulk insert",
					fmt.Sprintf("row %d: unknown column %s.%s", i, table, col))
			}
		}
	}

	written := 0
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		for i, row := range rows {
			if err := insertRow(ctx, tx, t, row); err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("bulk insert %s: %w", table, err)
	}
	return written, nil
}

func insertRow(ctx context.Context, q Querier, t Table, row map[string]any) error {
	cols := make([]string, 0, len(row))
	args := make([]any, 0, len(row))
	for _, col := range t.Columns {
		v, ok := row[col]
		if !ok {
			continue
		}
		cols = append(cols, col)
		args = append(args, bulkValue(t, col, v))
	}
	if len(cols) == 0 {
		return retail.NewValidationError("bulk insert", "row has no columns")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(cols, ", "), placeholders)
	_, err := q.ExecContext(ctx, query, args...)
	return classify("bulk insert", t.Name, err)
}

func bulkValue(t Table, col string, v any) any {
	s, isString := v.(string)
	if !isString {
		return v
	}
	if t.Name == "billing" && col == "voucher_id" && s == retail.NoVoucher {
		return nil
	}
	if s == "" && t.IsNullable(col) {
		return nil
	}
	return s
}
