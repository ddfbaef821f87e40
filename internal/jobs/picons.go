// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/lamesync/internal/align"
	"github.com/ManuGH/lamesync/internal/lamedb"
	xglog "github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/metrics"
	"github.com/ManuGH/lamesync/internal/picon"
	"github.com/ManuGH/lamesync/internal/scrape"
)

// ExportPicons copies the normalized icon of every matched service's
// channel into dst under the service's picon name. Services whose channel
// has no local icon in the store, or whose identifiers cannot form a picon name, are
// skipped. Individual copy failures are counted, not returned.
func ExportPicons(ctx context.Context, services []lamedb.Service, channels []scrape.Channel,
	icons, dst *picon.Store, workers int,
) (PiconStats, error) {
	logger := xglog.WithComponentFromContext(ctx, "picons")
	if workers <= 0 {
		workers = 4
	}

	var (
		mu    sync.Mutex
		stats PiconStats
	)
	count := func(outcome string) {
		metrics.IncPicon(outcome)
		mu.Lock()
		defer mu.Unlock()
		switch outcome {
		case "written":
			stats.Written++
		case "skipped":
			stats.Skipped++
		default:
			stats.Failed++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, svc := range services {
		if svc.Matched == nil {
			continue
		}
		if svc.Matched.Index < 0 || svc.Matched.Index >= len(channels) {
			count("skipped")
			continue
		}
		ch := channels[svc.Matched.Index]
		if ch.LocalIcon == "" || !icons.Exists(ch.LocalIcon) {
			count("skipped")
			continue
		}
		name, err := align.PiconName(svc)
		if err != nil {
			logger.Warn().Err(err).Str(xglog.FieldServiceKey, svc.Key()).Msg("cannot derive picon name")
			count("skipped")
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := dst.CopyFrom(gctx, icons, ch.LocalIcon, name); err != nil {
				logger.Warn().Err(err).
					Str(xglog.FieldServiceKey, svc.Key()).
					Str(xglog.FieldPicon, name).
					Msg("picon copy failed")
				count("failed")
				return nil
			}
			count("written")
			return nil
		})
	}
	err := g.Wait()

	logger.Info().
		Str(xglog.FieldEvent, "picons.exported").
		Int("written", stats.Written).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Str(xglog.FieldPath, dst.Dir()).
		Msg("picons exported")
	return stats, err
}
