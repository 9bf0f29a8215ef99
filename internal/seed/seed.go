// Package seed loads the initial data set from CSV files.
//
// Each table is read from <dir>/<table>.csv, whose header row names the
// columns. Files are parsed concurrently and inserted one table at a time in
// foreign-key order, so parents always exist before their children. Tables
// without a file are skipped.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rakeshthota234/Online-Retail-Application/internal/metrics"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// DefaultLimit is the number of rows kept per file when no limit is given.
const DefaultLimit = 100

// aliases lists alternative file names per table.
var aliases = map[string][]string{
	"zipcode": {"uszipcodes.csv"},
}

// boolColumns hold booleans that CSV exports spell as words.
var boolColumns = map[string]bool{
	"payment.is_payment_cash": true,
}

// Options configures Load.
type Options struct {
	// Limit caps rows per table. <= 0 selects DefaultLimit.
	Limit   int
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// TableResult reports what was loaded into one table.
type TableResult struct {
	Table string `json:"table"`
	File  string `json:"file,omitempty"`
	Rows  int    `json:"rows"`
}

// Result lists loaded tables in insertion order and the tables without a file.
type Result struct {
	Tables  []TableResult `json:"tables"`
	Skipped []string      `json:"skipped"`
}

// Total returns the number of rows written.
func (r Result) Total() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Rows
	}
	return n
}

type parsed struct {
	file string
	rows []map[string]any
}

// Load reads the CSV files in dir and bulk inserts them into st. Each table
// is written in its own transaction; on error the tables already loaded
// stay.
func Load(ctx context.Context, st *store.Store, dir string, opts Options) (Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return Result{}, fmt.Errorf("seed directory: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("seed directory: %s is not a directory", dir)
	}

	tables := store.Tables
	results := make([]*parsed, len(tables))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tables {
		g.Go(func() error {
			path, ok := findFile(dir, t.Name)
			if !ok {
				return nil
			}
			rows, err := readCSV(gctx, path, t, opts.Limit)
			if err != nil {
				return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
			}
			results[i] = &parsed{file: filepath.Base(path), rows: rows}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, t := range tables {
		p := results[i]
		if p == nil {
			res.Skipped = append(res.Skipped, t.Name)
			continue
		}
		n, err := st.BulkInsert(ctx, t.Name, p.rows)
		if err != nil {
			return res, fmt.Errorf("seed %s: %w", t.Name, err)
		}
		opts.Metrics.SeedRows(t.Name, n)
		logger.Info("table seeded", zap.String("table", t.Name), zap.String("file", p.file), zap.Int("rows", n))
		res.Tables = append(res.Tables, TableResult{Table: t.Name, File: p.file, Rows: n})
	}
	return res, nil
}

func findFile(dir, table string) (string, bool) {
	names := append([]string{table + ".csv"}, aliases[table]...)
	for _, name := range names {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		// Any other stat error surfaces when the file is opened.
		return path, true
	}
	return "", false
}

// readCSV returns at most limit rows of path keyed by header name.
func readCSV(ctx context.Context, path string, t store.Table, limit int) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		header[i] = strings.ToLower(strings.TrimSpace(h))
		if !t.HasColumn(header[i]) {
			return nil, fmt.Errorf("column %q is not in table %s", header[i], t.Name)
		}
	}

	var rows []map[string]any
	for len(rows) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(header))
		for i, col := range header {
			row[col] = convert(t.Name, col, record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func convert(table, column, value string) any {
	if !boolColumns[table+"."+column] {
		return value
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return value
	}
	return b
}
