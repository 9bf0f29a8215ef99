package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rakeshthota234/Online-Retail-Application/internal/catalog"
	"github.com/rakeshthota234/Online-Retail-Application/internal/checkout"
	"github.com/rakeshthota234/Online-Retail-Application/internal/config"
	"github.com/rakeshthota234/Online-Retail-Application/internal/idgen"
	"github.com/rakeshthota234/Online-Retail-Application/internal/logging"
	"github.com/rakeshthota234/Online-Retail-Application/internal/metrics"
	"github.com/rakeshthota234/Online-Retail-Application/internal/store"
)

// ServiceName is the service field of every log entry.
const ServiceName = "retail"

// app is the per-invocation environment shared by commands.
type app struct {
	opts    *RootOptions
	cfg     config.Config
	out     *OutputFormatter
	logger  *zap.Logger
	metrics *metrics.Metrics
	store   *store.Store
	catalog *catalog.Reader
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// loadApp reads configuration and builds the logger and metrics. It does not
// touch the database.
func loadApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	out := newFormatter(opts, cmd)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, out.Fail("failed to load config", err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(logging.Options{
		Service: ServiceName,
		Env:     cfg.Env,
		Level:   level,
		File:    cfg.Log.File,
		Stderr:  true,
	})
	if err != nil {
		return nil, out.Fail("failed to create logger", err)
	}

	return &app{
		opts:    opts,
		cfg:     cfg,
		out:     out,
		logger:  logger,
		metrics: metrics.New(metrics.Namespace),
	}, nil
}

// openApp is loadApp plus an open store with the schema applied.
func openApp(opts *RootOptions, cmd *cobra.Command) (*app, error) {
	a, err := loadApp(opts, cmd)
	if err != nil {
		return nil, err
	}
	a.out.VerboseLog("opening database %s", a.cfg.Database)
	st, err := store.Open(a.cfg.Database)
	if err != nil {
		_ = a.logger.Sync()
		return nil, a.out.Fail("failed to open database", err)
	}
	a.store = st
	a.catalog = catalog.New(st.DB())
	return a, nil
}

// checkout builds a checkout service on the app's store.
func (a *app) checkout() *checkout.Service {
	return checkout.New(a.store, idgen.NewRandom(a.cfg.IDs.MaxAttempts),
		checkout.WithLogger(a.logger),
		checkout.WithMetrics(a.metrics),
	)
}

// close releases the store and flushes logs. With --metrics the registry is
// written to stderr.
func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("close database", zap.Error(err))
		}
	}
	if a.opts.Metrics {
		if err := a.metrics.WriteText(a.out.GetErrWriter()); err != nil {
			fmt.Fprintf(a.out.GetErrWriter(), "write metrics: %v\n", err)
		}
	}
	_ = a.logger.Sync()
}
