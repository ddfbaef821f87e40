// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestConfigure_Reconfigures(t *testing.T) {
	var first, second bytes.Buffer
	Configure(Config{Output: &first, Level: "info"})
	logger := WithComponent("a")
	logger.Info().Msg("one")

	Configure(Config{Output: &second, Level: "warn", Version: "v9"})
	t.Cleanup(func() { Configure(Config{}) })

	logger = WithComponent("a")
	logger.Info().Msg("dropped")
	logger.Warn().Msg("two")

	assert.Contains(t, first.String(), `"message":"one"`)
	assert.NotContains(t, second.String(), "dropped")
	assert.Contains(t, second.String(), `"version":"v9"`)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestConfigure_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Output: &buf, Format: "console"})
	t.Cleanup(func() { Configure(Config{}) })

	logger := WithComponent("cli")
	logger.Info().Msg("human readable")
	assert.False(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), "human readable")
}

func TestConfigure_BadLevelFallsBackToInfo(t *testing.T) {
	Configure(Config{Level: "loud", Output: &bytes.Buffer{}})
	t.Cleanup(func() { Configure(Config{}) })
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
