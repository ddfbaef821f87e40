// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ManuGH/lamesync/internal/catalog"
	"github.com/ManuGH/lamesync/internal/config"
	"github.com/ManuGH/lamesync/internal/fetch"
	"github.com/ManuGH/lamesync/internal/icon"
	"github.com/ManuGH/lamesync/internal/jobs"
	xglog "github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/metrics"
	"github.com/ManuGH/lamesync/internal/picon"
	"github.com/ManuGH/lamesync/internal/scrape"
	"github.com/ManuGH/lamesync/internal/telemetry"
	"github.com/ManuGH/lamesync/internal/version"
)

// app holds the components shared by the commands.
type app struct {
	cfg     config.AppConfig
	catalog *catalog.Store
	fetcher *fetch.Client
	icons   *picon.Store
	picons  *picon.Store
	syncer  *jobs.Syncer
	tracing *telemetry.Provider
}

func newApp(ctx context.Context, cfg config.AppConfig) (*app, error) {
	tracing, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.Log.Service,
		ServiceVersion: version.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Catalog.Path), 0o750); err != nil {
		_ = tracing.Shutdown(ctx)
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	store, err := catalog.Open(ctx, cfg.Catalog.Path)
	if err != nil {
		_ = tracing.Shutdown(ctx)
		return nil, err
	}

	fetcher := fetch.New(fetch.Options{
		BaseURL:           cfg.Source.BaseURL,
		CacheDir:          cfg.Source.CacheDir,
		UserAgent:         cfg.Source.UserAgent,
		Timeout:           cfg.Source.Timeout,
		RequestsPerSecond: cfg.Source.RequestsPerSecond,
		Burst:             cfg.Source.Burst,
	})
	icons := picon.NewStore(cfg.Picons.IconsDir)
	picons := picon.NewStore(cfg.Picons.Dir)

	iconOpts := icon.DefaultOptions()
	iconOpts.Width, iconOpts.Height = cfg.Picons.Width, cfg.Picons.Height
	scraper := scrape.New(fetcher, icons, scrape.Options{
		TablePath:   cfg.Source.TablePath,
		Concurrency: cfg.Source.Concurrency,
		Icon:        iconOpts,
	})

	syncer := jobs.NewSyncer(jobs.Config{
		LamedbInput: cfg.Lamedb.Input,
		OutputDir:   cfg.Lamedb.OutputDir,
		Overrides:   cfg.Overrides,
		Source:      cfg.Source.BaseURL,
		Workers:     cfg.Source.Concurrency,
	}, scraper, store, icons, picons)

	return &app{
		cfg:     cfg,
		catalog: store,
		fetcher: fetcher,
		icons:   icons,
		picons:  picons,
		syncer:  syncer,
		tracing: tracing,
	}, nil
}

// Close flushes traces, writes the metrics textfile when configured and
// releases resources.
func (a *app) Close(ctx context.Context) {
	logger := xglog.WithComponent("cli")
	if a.cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			logger.Warn().Err(err).Str(xglog.FieldPath, a.cfg.Metrics.Textfile).Msg("write metrics textfile")
		}
	}
	if err := a.tracing.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("telemetry shutdown")
	}
	a.fetcher.Close()
	if err := a.catalog.Close(); err != nil {
		logger.Warn().Err(err).Msg("close catalog")
	}
}

// withApp loads the configuration, builds the app and runs fn with it.
func (c *commandContext) withApp(ctx context.Context, fn func(*app) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close(context.WithoutCancel(ctx))
	return fn(a)
}
