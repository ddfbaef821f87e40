// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package align

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForcedPairings(t *testing.T) {
	in := strings.Join([]string{
		"Kinopremiera===Кинопремьера HD",
		"",
		"# comment without marker",
		"no marker here",
		"Empty target===   ",
		"===No source",
		"Windows line===Target\r",
		"Kinopremiera===Кинопремьера",
	}, "\n")

	got, err := ParseForcedPairings(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, ForcedPairings{
		"Kinopremiera": "Кинопремьера",
		"Windows line": "Target",
	}, got)
}

func TestLoadForcedPairings(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		got, err := LoadForcedPairings(filepath.Join(t.TempDir(), "nope.txt"))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty_path", func(t *testing.T) {
		got, err := LoadForcedPairings("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "overrides.txt")
		require.NoError(t, os.WriteFile(path, []byte("A===B\n"), 0o600))
		got, err := LoadForcedPairings(path)
		require.NoError(t, err)
		assert.Equal(t, ForcedPairings{"A": "B"}, got)
	})
}

func TestWriteOrphanReport(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var b strings.Builder
		require.NoError(t, WriteOrphanReport(&b, Result{}))
		assert.Equal(t, "# Services without channel (0)\n\n# Channels without service (0)\n", b.String())
	})

	t.Run("populated", func(t *testing.T) {
		res := Result{
			ServiceOrphans:   []string{"Foo", "Bar"},
			ChannelOrphans:   []ChannelRecord{{Name: "Баз"}},
			UnresolvedForced: []string{"Foo"},
		}
		var b strings.Builder
		require.NoError(t, WriteOrphanReport(&b, res))
		assert.Equal(t, "# Services without channel (2)\nFoo\nBar\n"+
			"\n# Channels without service (1)\nБаз\n"+
			"\n# Forced pairings without target (1)\nFoo\n", b.String())
	})
}
