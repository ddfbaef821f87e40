// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/lamesync/internal/api"
	"github.com/ManuGH/lamesync/internal/health"
	"github.com/ManuGH/lamesync/internal/jobs"
	xglog "github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/resilience"
	"github.com/ManuGH/lamesync/internal/version"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var noInitialSync bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run periodic syncs and serve status, outputs and picons over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := health.PerformStartupChecks(cfg); err != nil {
				return err
			}
			return ctx.withApp(cmd.Context(), func(a *app) error {
				return serve(cmd.Context(), a, !noInitialSync)
			})
		},
	}
	cmd.Flags().BoolVar(&noInitialSync, "no-initial-sync", false, "Wait one interval before the first scheduled sync")
	return cmd
}

func serve(ctx context.Context, a *app, initialSync bool) error {
	logger := xglog.WithComponent("serve")
	cfg := a.cfg

	hm := health.NewManager(version.Version)
	hm.RegisterChecker(health.NewFileChecker("lamedb_input", cfg.Lamedb.Input))
	hm.RegisterChecker(health.NewLastRunChecker(func() (health.LastRun, bool) {
		st, ok := a.syncer.Status()
		return health.LastRun{FinishedAt: st.FinishedAt, Error: st.Error}, ok
	}, 2*cfg.Server.SyncInterval))
	hm.RegisterChecker(health.NewCheckerFunc("upstream", func(context.Context) health.CheckResult {
		if s := a.fetcher.BreakerState(); s != resilience.StateClosed {
			return health.CheckResult{Status: health.StatusDegraded, Message: "circuit breaker " + string(s)}
		}
		return health.CheckResult{Status: health.StatusHealthy}
	}))

	tracingService := ""
	if cfg.Telemetry.Enabled {
		tracingService = cfg.Log.Service
	}
	srv := api.New(ctx, a.syncer, a.picons, hm, api.Options{
		Version:            version.Version,
		RateLimitPerMinute: cfg.Server.RateLimit,
		TracingService:     tracingService,
	})
	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str(xglog.FieldEvent, "server.listen").Str("addr", cfg.Server.Listen).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		logger.Info().Str(xglog.FieldEvent, "server.shutdown").Msg("shutting down HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		syncOnce := func(c context.Context) error {
			_, err := a.syncer.Sync(c)
			return err
		}
		if !initialSync {
			select {
			case <-gctx.Done():
				return nil
			case <-time.After(cfg.Server.SyncInterval):
			}
		}
		jobs.Every(gctx, cfg.Server.SyncInterval, syncOnce)
		return nil
	})

	if cfg.Server.WatchOverrides && cfg.Overrides != "" {
		g.Go(func() error {
			return jobs.WatchOverrides(gctx, cfg.Overrides, time.Second, func(c context.Context) {
				if _, err := a.syncer.Realign(c); err != nil && !errors.Is(err, jobs.ErrBusy) {
					logger.Warn().Err(err).Msg("realign after overrides change failed")
				}
			})
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
