// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config provides configuration management for lamesync.
package config

import (
	"path/filepath"
	"time"
)

// AppConfig is the effective runtime configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	DataDir string `yaml:"dataDir"`

	Lamedb    LamedbConfig    `yaml:"lamedb"`
	Overrides string          `yaml:"overrides"`
	Source    SourceConfig    `yaml:"source"`
	Picons    PiconConfig     `yaml:"picons"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Server    ServerConfig    `yaml:"server"`
}

// LamedbConfig locates the receiver database.
type LamedbConfig struct {
	Input     string `yaml:"input"`
	OutputDir string `yaml:"outputDir"`
}

// SourceConfig describes the broadcaster website that is scraped.
type SourceConfig struct {
	BaseURL           string        `yaml:"baseURL"`
	TablePath         string        `yaml:"tablePath"`
	CacheDir          string        `yaml:"cacheDir"`
	UserAgent         string        `yaml:"userAgent"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
	Concurrency       int           `yaml:"concurrency"`
}

// PiconConfig controls icon normalization and picon output.
type PiconConfig struct {
	Dir      string `yaml:"dir"`
	IconsDir string `yaml:"iconsDir"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
}

// CatalogConfig locates the scraped channel snapshot database.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
	Service string `yaml:"service"`
}

// MetricsConfig controls metric export for one-shot runs.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
	Environment  string  `yaml:"environment"`
}

// ServerConfig configures serve mode.
type ServerConfig struct {
	Listen         string        `yaml:"listen"`
	SyncInterval   time.Duration `yaml:"syncInterval"`
	RateLimit      int           `yaml:"rateLimit"` // requests per minute per client
	WatchOverrides bool          `yaml:"watchOverrides"`
}

// Default values.
const (
	DefaultDataDir     = "/var/lib/lamesync"
	DefaultBaseURL     = "https://ntvplus.ru"
	DefaultTablePath   = "/faq/nastrojka-kanalov-54"
	DefaultIconWidth   = 220
	DefaultIconHeight  = 132
	DefaultListenAddr  = ":8088"
	DefaultUserAgent   = "lamesync/1 (+https://github.com/ManuGH/lamesync)"
	DefaultConcurrency = 4
)

// Defaults returns the configuration used when nothing else is set.
// Paths derived from DataDir are left empty and resolved after merging.
func Defaults() AppConfig {
	return AppConfig{
		DataDir: DefaultDataDir,
		Source: SourceConfig{
			BaseURL:           DefaultBaseURL,
			TablePath:         DefaultTablePath,
			UserAgent:         DefaultUserAgent,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			Burst:             1,
			Concurrency:       DefaultConcurrency,
		},
		Picons: PiconConfig{
			Width:  DefaultIconWidth,
			Height: DefaultIconHeight,
		},
		Log: LogConfig{
			Level:   "info",
			Format:  "json",
			Service: "lamesync",
		},
		Telemetry: TelemetryConfig{
			Exporter:     "http",
			SamplingRate: 1.0,
			Environment:  "production",
		},
		Server: ServerConfig{
			Listen:         DefaultListenAddr,
			SyncInterval:   24 * time.Hour,
			RateLimit:      30,
			WatchOverrides: true,
		},
	}
}

// resolvePaths fills paths that default to locations below DataDir.
func resolvePaths(cfg *AppConfig) {
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if cfg.Lamedb.OutputDir == "" {
		cfg.Lamedb.OutputDir = filepath.Join(cfg.DataDir, "out")
	}
	if cfg.Source.CacheDir == "" {
		cfg.Source.CacheDir = filepath.Join(cfg.DataDir, "cache")
	}
	if cfg.Picons.Dir == "" {
		cfg.Picons.Dir = filepath.Join(cfg.DataDir, "picons")
	}
	if cfg.Picons.IconsDir == "" {
		cfg.Picons.IconsDir = filepath.Join(cfg.DataDir, "local_icons")
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = filepath.Join(cfg.DataDir, "catalog.db")
	}
}
