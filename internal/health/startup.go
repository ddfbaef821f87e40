// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ManuGH/lamesync/internal/config"
	"github.com/ManuGH/lamesync/internal/log"
)

// PerformStartupChecks validates the environment before the server starts.
func PerformStartupChecks(cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("running pre-flight startup checks")

	for _, dir := range []string{cfg.Lamedb.OutputDir, cfg.Picons.Dir} {
		if err := checkWritableDir(logger, dir); err != nil {
			return fmt.Errorf("output directory check failed: %w", err)
		}
	}
	if err := checkFileReadable(cfg.Lamedb.Input); err != nil {
		return fmt.Errorf("lamedb input: %w", err)
	}
	logger.Info().Str("path", cfg.Lamedb.Input).Msg("lamedb input is readable")

	if cfg.Overrides != "" {
		if err := checkFileReadable(cfg.Overrides); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("overrides: %w", err)
		}
	}

	logger.Info().Msg("all startup checks passed")
	return nil
}

func checkWritableDir(logger zerolog.Logger, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return fmt.Errorf("directory is not writable: %s: %w", path, err)
	}
	_ = os.Remove(testFile)

	logger.Debug().Str("path", path).Msg("directory is writable")
	return nil
}

func checkFileReadable(path string) error {
	if path == "" {
		return fmt.Errorf("not configured")
	}
	f, err := os.Open(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return err
	}
	return f.Close()
}
