// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchOverrides_TriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.txt")
	other := filepath.Join(dir, "unrelated.txt")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- WatchOverrides(ctx, path, 20*time.Millisecond, func(context.Context) {
			calls.Add(1)
		})
	}()

	// The watcher registers asynchronously; keep touching the file until it fires.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("A===B\n"), 0o600)
		return calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	// Writes to neighbours are ignored.
	time.Sleep(100 * time.Millisecond)
	before := calls.Load()
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, calls.Load())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchOverrides_EmptyPathBlocksUntilDone(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := WatchOverrides(ctx, "", 0, func(context.Context) { t.Error("unexpected call") })
	require.NoError(t, err)
}

func TestWatchOverrides_MissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "overrides.txt")
	err := WatchOverrides(context.Background(), path, 0, func(context.Context) {})
	require.Error(t, err)
}

func TestEvery(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		Every(ctx, 5*time.Millisecond, func(context.Context) error {
			n := calls.Add(1)
			switch n {
			case 1:
				return ErrBusy
			case 2:
				return errors.New("boom")
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestEvery_RunsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Every(ctx, time.Hour, func(context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Error("first run did not happen immediately")
	}
	cancel()
	<-done
}
