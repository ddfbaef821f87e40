// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package scrape

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	f, err := os.Open("testdata/table.html")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	channels, skipped, err := ParseTable(f)
	require.NoError(t, err)

	want := []Channel{
		{Name: "НТВ +", InfoURL: "/tv/ntv", Freq: "12226", Transponder: 13, Sat: 56, Modulation: "DVB-S2 8PSK", SymbolRate: 27500},
		{Name: "Матч! Футбол 1", InfoURL: "/tv/match", Freq: "12226", Transponder: 13, Sat: 56, Modulation: "DVB-S2 8PSK", SymbolRate: 27500},
		{Name: "Кино«ТВ»", InfoURL: "/tv/kino", Freq: "11900", Transponder: 21, Sat: 36, Modulation: "QPSK", SymbolRate: 27500},
	}
	if diff := cmp.Diff(want, channels); diff != "" {
		t.Errorf("channels mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, skipped, 1)
	var rowErr *RowError
	require.ErrorAs(t, skipped[0], &rowErr)
	assert.Equal(t, 3, rowErr.Row)
}

func TestParseTable_NotFound(t *testing.T) {
	_, _, err := ParseTable(strings.NewReader("<html><h4>Другое</h4><table></table></html>"))
	require.True(t, errors.Is(err, ErrTableNotFound))
}

func TestParseInfo(t *testing.T) {
	f, err := os.Open("testdata/info.html")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	info, err := ParseInfo(f)
	require.NoError(t, err)
	assert.Equal(t, "/upload/ntv-logo.png", info.Icon)
	assert.Equal(t, "Спортивный «канал» круглосуточно", info.Description)
}

func TestParseInfo_Empty(t *testing.T) {
	info, err := ParseInfo(strings.NewReader("<html><body><h1>x</h1></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, Info{}, info)
}
