package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

// Table is a tabular report result.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Runner executes report queries.
type Runner struct {
	db      *sql.DB
	maxRows int
	owned   bool
}

// Open opens a query-only handle on the database at path. Writes through the
// handle fail with SQLITE_READONLY.
func Open(path string, maxRows int) (*Runner, error) {
	dsn := path + "?_query_only=1&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open report database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect report database: %w", err)
	}
	r := New(db, maxRows)
	r.owned = true
	return r, nil
}

// New wraps an existing handle. The caller keeps ownership of db and is
// responsible for making it read-only.
func New(db *sql.DB, maxRows int) *Runner {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Runner{db: db, maxRows: maxRows}
}

// Close closes the handle if the runner opened it.
func (r *Runner) Close() error {
	if !r.owned || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// MaxRows returns the row cap applied to every query.
func (r *Runner) MaxRows() int {
	return r.maxRows
}

// Run executes q and returns its rows. Text comes back as string, dates as
// YYYY-MM-DD.
func (r *Runner) Run(ctx context.Context, q Query) (Table, error) {
	query, params, err := Compile(q, r.maxRows)
	if err != nil {
		return Table{}, err
	}

	rows, err := r.db.QueryContext(ctx, query, params...)
	if err != nil {
		return Table{}, fmt.Errorf("run report: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return Table{}, fmt.Errorf("report columns: %w", err)
	}

	result := Table{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return Table{}, fmt.Errorf("scan report row: %w", err)
		}
		for i, v := range values {
			values[i] = normalize(v)
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return Table{}, fmt.Errorf("iterate report rows: %w", err)
	}
	return result, nil
}

// View returns the rows of table, the equivalent of browsing it.
func (r *Runner) View(ctx context.Context, table string) (Table, error) {
	return r.Run(ctx, Select{From: table})
}

func normalize(v any) any {
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(retail.DateLayout)
	default:
		return v
	}
}
