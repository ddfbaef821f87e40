// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/lamesync/internal/lamedb"
)

func TestCheck_Identical(t *testing.T) {
	rep, err := Check(strings.NewReader(sampleDB))
	require.NoError(t, err)
	assert.True(t, rep.Identical)
	assert.Zero(t, rep.FirstDiffLine)
	assert.Len(t, rep.Database.Transponders, 2)
	assert.Len(t, rep.Database.Services, 2)
}

func TestCheck_CRLF(t *testing.T) {
	rep, err := Check(strings.NewReader(strings.ReplaceAll(sampleDB, "\n", "\r\n")))
	require.NoError(t, err)
	assert.True(t, rep.Identical)
}

func TestCheck_Malformed(t *testing.T) {
	_, err := Check(strings.NewReader("eDVB services /4/\nservices\nend\n"))
	require.Error(t, err)

	var missing *lamedb.MissingSectionError
	assert.ErrorAs(t, err, &missing)
}

func TestFirstDiff(t *testing.T) {
	line, want, got := firstDiff("a\nb\nc", "a\nx\nc")
	assert.Equal(t, 2, line)
	assert.Equal(t, "b", want)
	assert.Equal(t, "x", got)

	line, want, got = firstDiff("a\nb", "a\nb\nc")
	assert.Equal(t, 3, line)
	assert.Empty(t, want)
	assert.Equal(t, "c", got)

	line, _, _ = firstDiff("same", "same")
	assert.Zero(t, line)
}

func TestOutputPaths(t *testing.T) {
	out := outputPaths("/out", "2026-03-01-10-00-00")
	assert.Equal(t, Outputs{
		Lamedb:   "/out/lamedb.2026-03-01-10-00-00",
		Orphans:  "/out/orphans.2026-03-01-10-00-00.txt",
		Channels: "/out/channels.2026-03-01-10-00-00.html",
	}, out)
}
