// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves run status, generated files and picons over HTTP and
// lets operators trigger a sync.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/lamesync/internal/api/middleware"
	"github.com/ManuGH/lamesync/internal/health"
	"github.com/ManuGH/lamesync/internal/jobs"
	"github.com/ManuGH/lamesync/internal/picon"
)

// Runner is the part of jobs.Syncer the API drives.
type Runner interface {
	Sync(ctx context.Context) (jobs.Status, error)
	Realign(ctx context.Context) (jobs.Status, error)
	Status() (jobs.Status, bool)
}

// Options configures a Server.
type Options struct {
	Version string
	// RunTimeout bounds a run triggered over HTTP.
	RunTimeout time.Duration
	// RateLimitPerMinute caps requests per client IP. Zero disables it.
	RateLimitPerMinute int
	// TracingService names HTTP server spans. Empty disables tracing.
	TracingService string
}

// Server holds the HTTP handlers of the serve mode.
type Server struct {
	runner  Runner
	picons  *picon.Store
	health  *health.Manager
	opts    Options
	rootCtx context.Context
	started time.Time
}

// New creates a Server. Runs triggered over HTTP are detached from the
// request and bound to rootCtx, so a client disconnect does not abort them.
func New(rootCtx context.Context, runner Runner, picons *picon.Store, hm *health.Manager, opts Options) *Server {
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 15 * time.Minute
	}
	if hm == nil {
		hm = health.NewManager(opts.Version)
	}
	return &Server{
		runner:  runner,
		picons:  picons,
		health:  hm,
		opts:    opts,
		rootCtx: rootCtx,
		started: time.Now(),
	}
}

// Handler returns the router with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableSecurityHeaders: true,
		EnableMetrics:         true,
		TracingService:        s.opts.TracingService,
		EnableLogging:         true,
		RateLimitPerMinute:    s.opts.RateLimitPerMinute,
	})

	r.Get("/healthz", s.health.ServeHealth)
	r.Get("/readyz", s.health.ServeReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.With(middleware.SyncRateLimit()).Post("/sync", s.handleRun(jobs.ModeSync))
		r.With(middleware.SyncRateLimit()).Post("/realign", s.handleRun(jobs.ModeRealign))
		r.Get("/picons", s.handlePiconList)
	})

	r.Get("/files/{kind}", s.handleFile)
	r.Get("/picons/{name}", s.handlePicon)
	return r
}
