// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"github.com/ManuGH/lamesync/internal/validate"
)

// Validate checks cfg without touching the filesystem.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.NotEmpty("dataDir", cfg.DataDir)

	v.URL("source.baseURL", cfg.Source.BaseURL, []string{"http", "https"})
	v.NotEmpty("source.tablePath", cfg.Source.TablePath)
	v.Positive("source.requestsPerSecond", cfg.Source.RequestsPerSecond)
	v.Range("source.burst", cfg.Source.Burst, 1, 100)
	v.Range("source.concurrency", cfg.Source.Concurrency, 1, 64)
	v.Positive("source.timeout", cfg.Source.Timeout.Seconds())

	v.Range("picons.width", cfg.Picons.Width, 16, 4096)
	v.Range("picons.height", cfg.Picons.Height, 16, 4096)

	v.OneOf("log.level", cfg.Log.Level, []string{"trace", "debug", "info", "warn", "error"})
	v.OneOf("log.format", cfg.Log.Format, []string{"json", "console"})

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.Fraction("telemetry.samplingRate", cfg.Telemetry.SamplingRate)
	}

	v.ListenAddr("server.listen", cfg.Server.Listen)
	v.Positive("server.syncInterval", cfg.Server.SyncInterval.Seconds())
	v.Range("server.rateLimit", cfg.Server.RateLimit, 1, 10000)

	return v.Err()
}

// EnsureDirs creates the writable directories a sync run needs.
func EnsureDirs(cfg AppConfig) error {
	v := validate.New()
	v.Directory("lamedb.outputDir", cfg.Lamedb.OutputDir, false)
	v.Directory("source.cacheDir", cfg.Source.CacheDir, false)
	v.Directory("picons.dir", cfg.Picons.Dir, false)
	v.Directory("picons.iconsDir", cfg.Picons.IconsDir, false)
	return v.Err()
}
