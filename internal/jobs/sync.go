// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package jobs runs the lamesync pipeline: collect channels, decode the
// receiver database, align, rename, export picons and write the outputs.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/lamesync/internal/align"
	"github.com/ManuGH/lamesync/internal/catalog"
	"github.com/ManuGH/lamesync/internal/lamedb"
	xglog "github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/metrics"
	"github.com/ManuGH/lamesync/internal/picon"
	"github.com/ManuGH/lamesync/internal/scrape"
	"github.com/ManuGH/lamesync/internal/telemetry"
)

// Config holds what a run needs from the application configuration.
type Config struct {
	LamedbInput string
	OutputDir   string
	Overrides   string
	Source      string
	Workers     int
}

// Syncer runs one pipeline at a time and remembers the last outcome.
type Syncer struct {
	cfg       Config
	source    ChannelSource
	snapshots Snapshots
	icons     *picon.Store
	picons    *picon.Store
	clock     func() time.Time

	running sync.Mutex

	mu     sync.RWMutex
	last   Status
	hasRun bool
}

// NewSyncer wires a Syncer. source may be nil when only realign is used.
func NewSyncer(cfg Config, source ChannelSource, snapshots Snapshots, icons, picons *picon.Store) *Syncer {
	return &Syncer{
		cfg:       cfg,
		source:    source,
		snapshots: snapshots,
		icons:     icons,
		picons:    picons,
		clock:     time.Now,
	}
}

// Status returns the most recent run, if any.
func (s *Syncer) Status() (Status, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.hasRun
}

// Sync scrapes the channel list, stores it as a snapshot and runs the pipeline.
func (s *Syncer) Sync(ctx context.Context) (Status, error) {
	return s.run(ctx, ModeSync, func(ctx context.Context, st *Status) ([]scrape.Channel, error) {
		if s.source == nil {
			return nil, errors.New("no channel source configured")
		}
		channels, err := s.source.Scrape(ctx)
		if err != nil {
			return nil, stageErr("scrape", err)
		}
		if s.snapshots != nil {
			run := catalog.Run{ID: st.RunID, StartedAt: st.StartedAt, Source: s.cfg.Source}
			if err := s.snapshots.Save(ctx, run, channels); err != nil {
				return nil, stageErr("catalog", err)
			}
		}
		return channels, nil
	})
}

// Realign runs the pipeline against the latest stored snapshot.
func (s *Syncer) Realign(ctx context.Context) (Status, error) {
	return s.run(ctx, ModeRealign, func(ctx context.Context, _ *Status) ([]scrape.Channel, error) {
		return s.latestChannels(ctx)
	})
}

func (s *Syncer) latestChannels(ctx context.Context) ([]scrape.Channel, error) {
	if s.snapshots == nil {
		return nil, stageErr("catalog", catalog.ErrNoSnapshot)
	}
	run, channels, err := s.snapshots.Latest(ctx)
	if err != nil {
		return nil, stageErr("catalog", err)
	}
	logger := xglog.WithComponentFromContext(ctx, "jobs")
	logger.Info().
		Str("snapshot", run.ID).
		Time("snapshot_at", run.StartedAt).
		Int("channels", len(channels)).
		Msg("using stored channel snapshot")
	return channels, nil
}

type channelLoader func(ctx context.Context, st *Status) ([]scrape.Channel, error)

func (s *Syncer) run(ctx context.Context, mode Mode, load channelLoader) (Status, error) {
	if !s.running.TryLock() {
		return Status{}, ErrBusy
	}
	defer s.running.Unlock()

	started := s.clock()
	st := Status{
		RunID:     uuid.NewString(),
		Mode:      mode,
		StartedAt: started,
		Stamp:     started.Format(StampLayout),
	}
	ctx = xglog.ContextWithRunID(ctx, st.RunID)
	ctx, span := telemetry.Tracer(telemetry.InstrumentationName).Start(ctx, "sync.run",
		trace.WithAttributes(telemetry.SyncAttributes(st.RunID, string(mode))...))
	defer span.End()

	logger := xglog.WithComponentFromContext(ctx, "jobs")
	logger.Info().Str(xglog.FieldEvent, "sync.start").Str("mode", string(mode)).Msg("starting run")

	err := s.pipeline(ctx, &st, load)

	st.FinishedAt = s.clock()
	metrics.RecordSyncRun(string(mode), st.FinishedAt.Sub(started), err)
	if err != nil {
		st.Error = err.Error()
		var se *StageError
		if errors.As(err, &se) {
			metrics.IncStageFailure(se.Stage)
			span.SetAttributes(telemetry.ErrorAttributes(se.Stage)...)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).Str(xglog.FieldEvent, "sync.failed").Msg("run failed")
	} else {
		logger.Info().
			Str(xglog.FieldEvent, "sync.done").
			Str("stamp", st.Stamp).
			Int("aligned", st.Aligned).
			Int("service_orphans", st.ServiceOrphans).
			Int("channel_orphans", st.ChannelOrphans).
			Dur("duration", st.FinishedAt.Sub(started)).
			Msg("run complete")
	}

	s.mu.Lock()
	s.last, s.hasRun = st, true
	s.mu.Unlock()
	return st, err
}

func (s *Syncer) pipeline(ctx context.Context, st *Status, load channelLoader) error {
	channels, err := load(ctx, st)
	if err != nil {
		return err
	}
	st.Channels = len(channels)

	db, err := readLamedb(s.cfg.LamedbInput)
	if err != nil {
		return stageErr("decode", err)
	}
	st.Transponders, st.Services = len(db.Transponders), len(db.Services)
	trace.SpanFromContext(ctx).SetAttributes(telemetry.LamedbAttributes(st.Transponders, st.Services)...)

	forced, err := align.LoadForcedPairings(s.cfg.Overrides)
	if err != nil {
		return stageErr("align", err)
	}

	res := align.Align(db.Services, ChannelRecords(channels), forced)
	st.Aligned = len(res.Aligned)
	st.ServiceOrphans = len(res.ServiceOrphans)
	st.ChannelOrphans = len(res.ChannelOrphans)
	st.UnresolvedForced = len(res.UnresolvedForced)
	metrics.RecordAlignment(st.Services, st.Aligned, st.ServiceOrphans, st.ChannelOrphans, st.UnresolvedForced)
	trace.SpanFromContext(ctx).SetAttributes(
		telemetry.AlignAttributes(len(channels), st.Aligned, st.ServiceOrphans, st.ChannelOrphans)...)
	logger := xglog.WithComponentFromContext(ctx, "jobs")
	for _, name := range res.UnresolvedForced {
		logger.Warn().
			Str("service", name).
			Msg("forced pairing target not found, fell back to name matching")
	}

	services, renames := align.ApplyMatches(ctx, res.Services)
	st.Renames = len(renames)
	metrics.AddRenames(len(renames))

	if s.picons != nil && s.icons != nil {
		stats, err := ExportPicons(ctx, services, channels, s.icons, s.picons, s.cfg.Workers)
		st.Picons = stats
		if err != nil {
			return stageErr("picons", err)
		}
	}

	out := outputPaths(s.cfg.OutputDir, st.Stamp)
	regenerated := &lamedb.Database{Transponders: db.Transponders, Services: services}
	if err := writeLamedb(ctx, out.Lamedb, regenerated); err != nil {
		return stageErr("write", err)
	}
	st.Outputs.Lamedb = out.Lamedb
	if err := writeOrphans(ctx, out.Orphans, res); err != nil {
		return stageErr("write", err)
	}
	st.Outputs.Orphans = out.Orphans
	if err := writeChannels(ctx, out.Channels, channels); err != nil {
		return stageErr("write", err)
	}
	st.Outputs.Channels = out.Channels
	return nil
}

// ExportPiconsFor aligns the database at path against the latest snapshot
// and exports picons without writing any other output.
func (s *Syncer) ExportPiconsFor(ctx context.Context, path string) (PiconStats, error) {
	if s.icons == nil || s.picons == nil {
		return PiconStats{}, errors.New("picon stores not configured")
	}
	channels, err := s.latestChannels(ctx)
	if err != nil {
		return PiconStats{}, err
	}
	db, err := readLamedb(path)
	if err != nil {
		return PiconStats{}, stageErr("decode", err)
	}
	forced, err := align.LoadForcedPairings(s.cfg.Overrides)
	if err != nil {
		return PiconStats{}, stageErr("align", err)
	}
	res := align.Align(db.Services, ChannelRecords(channels), forced)
	return ExportPicons(ctx, res.Services, channels, s.icons, s.picons, s.cfg.Workers)
}

// ChannelRecords projects scraped channels onto the alignment input, keeping order.
func ChannelRecords(channels []scrape.Channel) []align.ChannelRecord {
	out := make([]align.ChannelRecord, len(channels))
	for i, ch := range channels {
		out[i] = align.ChannelRecord{Name: ch.Name, Icon: ch.Icon, Description: ch.Description}
	}
	return out
}

func readLamedb(path string) (*lamedb.Database, error) {
	if path == "" {
		return nil, errors.New("no lamedb input configured")
	}
	// #nosec G304 -- the database path is provided by the operator
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lamedb: %w", err)
	}
	defer func() { _ = f.Close() }()
	return lamedb.Read(f)
}
