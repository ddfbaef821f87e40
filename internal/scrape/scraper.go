// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package scrape collects channel metadata from the broadcaster's website.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/lamesync/internal/icon"
	xglog "github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/metrics"
	"github.com/ManuGH/lamesync/internal/normalize"
	"github.com/ManuGH/lamesync/internal/telemetry"
)

// Fetcher retrieves upstream documents.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Resolve(ref string) string
}

// IconStore receives normalized icons.
type IconStore interface {
	Put(ctx context.Context, name string, r io.Reader) error
}

// Options configures a Scraper.
type Options struct {
	TablePath   string
	Concurrency int
	Icon        icon.Options
}

// Scraper walks the tuning table and every channel's info page.
type Scraper struct {
	fetch Fetcher
	icons IconStore
	opts  Options
}

// New creates a scraper. icons may be nil to skip icon normalization.
func New(f Fetcher, icons IconStore, opts Options) *Scraper {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.Icon.Width <= 0 || opts.Icon.Height <= 0 {
		opts.Icon = icon.DefaultOptions()
	}
	return &Scraper{fetch: f, icons: icons, opts: opts}
}

// Table fetches and parses the tuning table.
func (s *Scraper) Table(ctx context.Context) ([]Channel, error) {
	logger := xglog.WithComponentFromContext(ctx, "scrape")

	url := s.fetch.Resolve(s.opts.TablePath)
	page, err := s.fetch.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch channel table: %w", err)
	}
	channels, skipped, err := ParseTable(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	for _, e := range skipped {
		logger.Warn().Err(e).Str(xglog.FieldURL, url).Msg("skipping table row")
	}
	logger.Info().
		Str(xglog.FieldEvent, "scrape.table").
		Int("channels", len(channels)).
		Int("skipped_rows", len(skipped)).
		Msg("parsed channel table")
	return channels, nil
}

// Scrape returns every channel in table order with info page data and
// normalized icons filled in. Failures on individual info pages or icons
// are logged and leave those fields empty.
func (s *Scraper) Scrape(ctx context.Context) ([]Channel, error) {
	ctx, span := telemetry.Tracer(telemetry.InstrumentationName).Start(ctx, "scrape.channels")
	defer span.End()

	channels, err := s.Table(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := make([]Channel, len(channels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, ch := range channels {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = s.enrich(gctx, ch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scan channel info: %w", err)
	}

	span.SetAttributes(attribute.Int("scrape.channels", len(out)))
	metrics.RecordChannelsScraped(len(out))
	return out, nil
}

func (s *Scraper) enrich(ctx context.Context, ch Channel) Channel {
	logger := xglog.WithComponentFromContext(ctx, "scrape").With().
		Str(xglog.FieldChannel, ch.Name).Logger()

	page, err := s.fetch.Get(ctx, s.fetch.Resolve(ch.InfoURL))
	if err != nil {
		logger.Warn().Err(err).Str(xglog.FieldURL, ch.InfoURL).Msg("channel info page unavailable")
		return ch
	}
	info, err := ParseInfo(bytes.NewReader(page))
	if err != nil {
		logger.Warn().Err(err).Msg("channel info page unparsable")
		return ch
	}
	ch.Description = info.Description
	if info.Icon == "" {
		return ch
	}
	ch.Icon = s.fetch.Resolve(info.Icon)

	if s.icons == nil {
		return ch
	}
	name, err := s.localIcon(ctx, ch)
	if err != nil {
		metrics.IncIcon("failure")
		logger.Warn().Err(err).Str(xglog.FieldURL, ch.Icon).Msg("icon normalization failed")
		return ch
	}
	metrics.IncIcon("success")
	ch.LocalIcon = name
	return ch
}

func (s *Scraper) localIcon(ctx context.Context, ch Channel) (string, error) {
	data, err := s.fetch.Get(ctx, ch.Icon)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := icon.NormalizePNG(&buf, data, s.opts.Icon); err != nil {
		return "", err
	}
	name := normalize.IconSlug(ch.Name) + ".png"
	if err := s.icons.Put(ctx, name, &buf); err != nil {
		return "", err
	}
	return name, nil
}
