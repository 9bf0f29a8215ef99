package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rakeshthota234/Online-Retail-Application/internal/seed"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// InitResult describes a database after schema setup.
type InitResult struct {
	Database string   `json:"database"`
	Tables   []string `json:"tables"`
}

// WriteText implements textWriter.
func (r InitResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Database %s ready (%d tables)\n", r.Database, len(r.Tables))
	return err
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database schema",
		Long: `Create the database file if needed and apply the schema.

Running init on an existing database is a no-op; tables and status rows
are created only when missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer a.close()
			return a.out.Success(InitResult{Database: a.cfg.Database, Tables: store.TableNames()})
		},
	}
}

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Limit int
}

// SeedResult reports a bulk load.
type SeedResult struct {
	seed.Result
	Rows       int `json:"rows"`
	Categories int `json:"categories"`
}

// WriteText implements textWriter.
func (r SeedResult) WriteText(w io.Writer) error {
	for _, t := range r.Tables {
		fmt.Fprintf(w, "%-16s %5d rows  %s\n", t.Table, t.Rows, t.File)
	}
	_, err := fmt.Fprintf(w, "Seeded %d rows; %d categories visible\n", r.Rows, r.Categories)
	return err
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Bulk load CSV files into the database",
		Long: `Load <table>.csv files from a directory into their tables in
dependency order. Tables without a file are skipped. The zipcode table
also accepts uszipcodes.csv.

The directory defaults to seed.dir from the configuration.

Example:
  retail seed ./data --limit 50`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum rows per table (default from config)")

	return cmd
}

func runSeed(opts *SeedOptions, args []string, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer a.close()

	dir := a.cfg.Seed.Dir
	if len(args) == 1 {
		dir = args[0]
	}
	limit := a.cfg.Seed.Limit
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	a.out.VerboseLog("seeding from %s (limit %d)", dir, limit)

	res, err := seed.Load(cmd.Context(), a.store, dir, seed.Options{
		Limit:   limit,
		Logger:  a.logger,
		Metrics: a.metrics,
	})
	if err != nil {
		return a.out.Fail("seed failed", err)
	}

	a.catalog.Invalidate()
	categories, err := a.catalog.Categories(cmd.Context())
	if err != nil {
		return a.out.Fail("read categories", err)
	}
	return a.out.Success(SeedResult{Result: res, Rows: res.Total(), Categories: len(categories)})
}
