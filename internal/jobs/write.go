// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/ManuGH/lamesync/internal/align"
	"github.com/ManuGH/lamesync/internal/lamedb"
	xglog "github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/report"
	"github.com/ManuGH/lamesync/internal/scrape"
)

// writeAtomic writes path through a renameio pending file: temp file,
// fsync, then atomic rename. Nothing is left behind on error.
func writeAtomic(ctx context.Context, path, what string, fill func(io.Writer) error) error {
	logger := xglog.FromContext(ctx)

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create %s dir: %w", what, err)
	}

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending %s file: %w", what, err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str(xglog.FieldPath, path).Msgf("cleanup pending %s file", what)
		}
	}()

	if err := fill(pendingFile); err != nil {
		return fmt.Errorf("write %s data: %w", what, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s file: %w", what, err)
	}
	return nil
}

// outputPaths names the files of the run stamped stamp inside dir.
func outputPaths(dir, stamp string) Outputs {
	return Outputs{
		Lamedb:   filepath.Join(dir, "lamedb."+stamp),
		Orphans:  filepath.Join(dir, "orphans."+stamp+".txt"),
		Channels: filepath.Join(dir, "channels."+stamp+".html"),
	}
}

func writeLamedb(ctx context.Context, path string, db *lamedb.Database) error {
	return writeAtomic(ctx, path, "lamedb", func(w io.Writer) error {
		return lamedb.Write(w, db)
	})
}

func writeOrphans(ctx context.Context, path string, res align.Result) error {
	return writeAtomic(ctx, path, "orphan report", func(w io.Writer) error {
		return align.WriteOrphanReport(w, res)
	})
}

func writeChannels(ctx context.Context, path string, channels []scrape.Channel) error {
	return writeAtomic(ctx, path, "channel table", func(w io.Writer) error {
		return report.WriteChannelsHTML(w, channels)
	})
}
