// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	key = EnvPrefix + key
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	key = EnvPrefix + key
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	key = EnvPrefix + key
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	key = EnvPrefix + key
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	key = EnvPrefix + key
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Order: parse file (strict) -> apply env -> resolve paths -> validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	resolvePaths(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg with STRICT parsing.
// Unknown fields are rejected and classified as ErrUnknownConfigField.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return decodeStrict(data, cfg)
}

func decodeStrict(data []byte, cfg *AppConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

// mergeEnvConfig applies LAMESYNC_* environment overrides.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.DataDir = l.envString("DATA_DIR", cfg.DataDir)

	cfg.Lamedb.Input = l.envString("LAMEDB_INPUT", cfg.Lamedb.Input)
	cfg.Lamedb.OutputDir = l.envString("LAMEDB_OUTPUT_DIR", cfg.Lamedb.OutputDir)
	cfg.Overrides = l.envString("OVERRIDES", cfg.Overrides)

	cfg.Source.BaseURL = l.envString("SOURCE_BASE_URL", cfg.Source.BaseURL)
	cfg.Source.TablePath = l.envString("SOURCE_TABLE_PATH", cfg.Source.TablePath)
	cfg.Source.CacheDir = l.envString("SOURCE_CACHE_DIR", cfg.Source.CacheDir)
	cfg.Source.UserAgent = l.envString("SOURCE_USER_AGENT", cfg.Source.UserAgent)
	cfg.Source.Timeout = l.envDuration("SOURCE_TIMEOUT", cfg.Source.Timeout)
	cfg.Source.RequestsPerSecond = l.envFloat("SOURCE_RPS", cfg.Source.RequestsPerSecond)
	cfg.Source.Burst = l.envInt("SOURCE_BURST", cfg.Source.Burst)
	cfg.Source.Concurrency = l.envInt("SOURCE_CONCURRENCY", cfg.Source.Concurrency)

	cfg.Picons.Dir = l.envString("PICONS_DIR", cfg.Picons.Dir)
	cfg.Picons.IconsDir = l.envString("ICONS_DIR", cfg.Picons.IconsDir)
	cfg.Picons.Width = l.envInt("ICON_WIDTH", cfg.Picons.Width)
	cfg.Picons.Height = l.envInt("ICON_HEIGHT", cfg.Picons.Height)

	cfg.Catalog.Path = l.envString("CATALOG_PATH", cfg.Catalog.Path)

	cfg.Log.Level = l.envString("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = l.envString("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Service = l.envString("LOG_SERVICE", cfg.Log.Service)

	cfg.Metrics.Textfile = l.envString("METRICS_TEXTFILE", cfg.Metrics.Textfile)

	cfg.Telemetry.Enabled = l.envBool("TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString("TELEMETRY_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString("TELEMETRY_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat("TELEMETRY_SAMPLING_RATE", cfg.Telemetry.SamplingRate)
	cfg.Telemetry.Environment = l.envString("TELEMETRY_ENVIRONMENT", cfg.Telemetry.Environment)

	cfg.Server.Listen = l.envString("LISTEN", cfg.Server.Listen)
	cfg.Server.SyncInterval = l.envDuration("SYNC_INTERVAL", cfg.Server.SyncInterval)
	cfg.Server.RateLimit = l.envInt("RATE_LIMIT", cfg.Server.RateLimit)
	cfg.Server.WatchOverrides = l.envBool("WATCH_OVERRIDES", cfg.Server.WatchOverrides)
}
