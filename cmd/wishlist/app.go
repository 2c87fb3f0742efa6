package main

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/wishlist/internal/config"
	"github.com/Kerhoff/wishlist/internal/metrics"
	"github.com/Kerhoff/wishlist/internal/repository/sqlrepo"
	"github.com/Kerhoff/wishlist/internal/service"
	"github.com/Kerhoff/wishlist/pkg/logger"
)

// app is the wiring shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *logrus.Logger
	db       *config.Database
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	svc      *service.Service
}

// openDatabase loads configuration, then connects and migrates the store.
// A nil logOutput logs to stdout.
func openDatabase(logOutput io.Writer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var l *logrus.Logger
	if logOutput == nil {
		l = logger.New(cfg.LogLevel, cfg.LogFormat)
	} else {
		l = logger.NewWithOutput(logOutput, cfg.LogLevel, cfg.LogFormat)
	}

	db, err := config.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &app{cfg: cfg, logger: l, db: db}, nil
}

// newApp opens the store and builds the service layer on top of it.
func newApp(logOutput io.Writer) (*app, error) {
	a, err := openDatabase(logOutput)
	if err != nil {
		return nil, err
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = metrics.New(a.registry)

	repo := sqlrepo.NewItemRepository(a.db.DB, sqlrepo.Dialect(a.cfg.DatabaseDriver))
	a.svc = service.New(a.logger, repo, service.Options{
		UndoWindow:       a.cfg.UndoWindow,
		AssetBaseURL:     a.cfg.AssetBaseURL,
		AutoIncrementIDs: a.cfg.IDStrategy == config.IDStrategyAuto,
		Metrics:          a.metrics,
	})

	return a, nil
}

// close commits pending deletions before releasing the database.
func (a *app) close(ctx context.Context) error {
	var result *multierror.Error
	if a.svc != nil {
		if err := a.svc.Close(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to flush pending deletions: %w", err))
		}
	}
	if err := a.db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("failed to close database: %w", err))
	}
	return result.ErrorOrNil()
}
