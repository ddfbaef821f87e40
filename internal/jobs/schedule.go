// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"errors"
	"time"

	xglog "github.com/ManuGH/lamesync/internal/log"
)

// Every calls run immediately and then once per interval until ctx is done.
// ErrBusy results are logged at debug level and otherwise ignored.
func Every(ctx context.Context, interval time.Duration, run func(context.Context) error) {
	logger := xglog.WithComponentFromContext(ctx, "scheduler")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := run(ctx); err != nil {
			if errors.Is(err, ErrBusy) {
				logger.Debug().Msg("skipping scheduled run, previous run still active")
			} else {
				logger.Warn().Err(err).Msg("scheduled run failed")
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
