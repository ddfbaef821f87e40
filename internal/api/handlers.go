// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/lamesync/internal/jobs"
	"github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/picon"
)

// StatusResponse is served on /api/v1/status.
type StatusResponse struct {
	Version string       `json:"version"`
	Uptime  int64        `json:"uptime_seconds"`
	LastRun *jobs.Status `json:"last_run"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := StatusResponse{
		Version: s.opts.Version,
		Uptime:  int64(time.Since(s.started).Seconds()),
	}
	if st, ok := s.runner.Status(); ok {
		resp.LastRun = &st
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRun(mode jobs.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.WithComponentFromContext(r.Context(), "api")

		ctx, cancel := context.WithTimeout(s.runCtx(r), s.opts.RunTimeout)
		defer cancel()

		run := s.runner.Sync
		if mode == jobs.ModeRealign {
			run = s.runner.Realign
		}
		st, err := run(ctx)
		switch {
		case errors.Is(err, jobs.ErrBusy):
			logger.Warn().Str(log.FieldEvent, "sync.conflict").Str("mode", string(mode)).Msg("run already in progress")
			writeConflict(w)
		case err != nil:
			writeJSON(w, http.StatusInternalServerError, st)
		default:
			writeJSON(w, http.StatusOK, st)
		}
	}
}

// runCtx derives from the server's root context, keeping only the request ID.
func (s *Server) runCtx(r *http.Request) context.Context {
	ctx := r.Context()
	if id := log.RequestIDFromContext(ctx); id != "" {
		return log.ContextWithRequestID(s.rootCtx, id)
	}
	return s.rootCtx
}

// fileKinds maps /files/{kind} to the output path and content type.
var fileKinds = map[string]struct {
	path        func(jobs.Outputs) string
	contentType string
	attachment  bool
}{
	"lamedb":   {func(o jobs.Outputs) string { return o.Lamedb }, "application/octet-stream", true},
	"orphans":  {func(o jobs.Outputs) string { return o.Orphans }, "text/plain; charset=utf-8", false},
	"channels": {func(o jobs.Outputs) string { return o.Channels }, "text/html; charset=utf-8", false},
}

func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	kind, ok := fileKinds[chi.URLParam(r, "kind")]
	if !ok {
		writeNotFound(w)
		return
	}
	st, ok := s.runner.Status()
	if !ok {
		writeNotFound(w)
		return
	}
	path := kind.path(st.Outputs)
	if path == "" {
		writeNotFound(w)
		return
	}

	// #nosec G304 -- path is one of our own output files
	f, err := os.Open(path)
	if err != nil {
		s.openFailed(w, r, path, err)
		return
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		s.openFailed(w, r, path, err)
		return
	}

	w.Header().Set("Content-Type", kind.contentType)
	if kind.attachment {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	}
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
}

func (s *Server) handlePicon(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	f, err := s.picons.Open(name)
	if err != nil {
		if errors.Is(err, picon.ErrInvalidName) {
			writeBadRequest(w, err)
			return
		}
		s.openFailed(w, r, name, err)
		return
	}
	defer func() { _ = f.Close() }()
	info, err := f.Stat()
	if err != nil {
		s.openFailed(w, r, name, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *Server) handlePiconList(w http.ResponseWriter, r *http.Request) {
	names, err := s.picons.List()
	if err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().Err(err).Msg("list picons")
		writeErrorCode(w, http.StatusInternalServerError, "cannot list picons")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(names), "picons": names})
}

func (s *Server) openFailed(w http.ResponseWriter, r *http.Request, path string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		writeNotFound(w)
		return
	}
	logger := log.WithComponentFromContext(r.Context(), "api")
	logger.Error().
		Err(err).
		Str(log.FieldPath, path).
		Msg("cannot open file")
	writeErrorCode(w, http.StatusInternalServerError, "cannot open file")
}
