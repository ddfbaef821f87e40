// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"strings"
	"sync"

	"github.com/ManuGH/lamesync/internal/config"
	xglog "github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/version"
)

// configEnvKey names the config file when --config is not given.
const configEnvKey = config.EnvPrefix + "CONFIG"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     config.AppConfig
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "lamesync",
		Version: version.Version,
	})
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once, prepares the working
// directories and reconfigures the logger from it.
func (c *commandContext) ensureConfig() (config.AppConfig, error) {
	c.configOnce.Do(func() {
		path := ""
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path == "" {
			path = strings.TrimSpace(config.ParseString(configEnvKey, ""))
		}

		cfg, err := config.NewLoader(path, version.Version).Load()
		if err != nil {
			c.configErr = err
			return
		}
		if err := config.EnsureDirs(cfg); err != nil {
			c.configErr = err
			return
		}

		xglog.Configure(xglog.Config{
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
			Service: cfg.Log.Service,
			Version: version.Version,
		})
		logger := xglog.WithComponent("cli")
		if path != "" {
			logger.Debug().
				Str(xglog.FieldEvent, "config.loaded").
				Str(xglog.FieldPath, path).
				Msg("loaded configuration from file")
		}
		c.config = cfg
	})
	return c.config, c.configErr
}
