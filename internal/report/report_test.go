// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/lamesync/internal/align"
	"github.com/ManuGH/lamesync/internal/catalog"
	"github.com/ManuGH/lamesync/internal/lamedb"
	"github.com/ManuGH/lamesync/internal/scrape"
)

var sampleChannels = []scrape.Channel{
	{Name: "НТВ+", InfoURL: "/tv/ntv", Freq: "12226", Transponder: 13, Sat: 56, Modulation: "DVB-S2 8PSK", SymbolRate: 27500, LocalIcon: "ntv.png"},
	{Name: "A<B>", InfoURL: "/tv/ab", Freq: "11900", Modulation: "QPSK"},
}

func TestChannelsHTML(t *testing.T) {
	out := ChannelsHTML(sampleChannels)

	assert.Contains(t, out, `<table class="lamesync-channels">`)
	assert.Equal(t, 1+len(sampleChannels), strings.Count(out, "<tr>"))
	assert.Contains(t, out, "НТВ+")
	assert.Contains(t, out, "A&lt;B&gt;")
	assert.NotContains(t, out, "A<B>")
	for _, h := range []string{"Info URL", "Symbol rate", "Local icon"} {
		assert.Contains(t, out, h)
	}
}

func TestWriteChannelsHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteChannelsHTML(&buf, sampleChannels))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Channels (2)</title>")
	assert.Contains(t, out, `charset="utf-8"`)
}

func TestChannelsText(t *testing.T) {
	out := ChannelsText(sampleChannels)
	assert.Contains(t, out, "НТВ+")
	assert.Contains(t, out, "ntv.png")
	assert.Contains(t, out, "Modulation")
}

func TestAlignmentSummary(t *testing.T) {
	res := align.Result{
		Services:         make([]lamedb.Service, 4),
		Aligned:          []align.Pair{{Service: 0, Channel: 1}, {Service: 2, Channel: 0}},
		ServiceOrphans:   []string{"x", "y"},
		ChannelOrphans:   []align.ChannelRecord{{Name: "z"}},
		UnresolvedForced: []string{"y"},
	}
	out := AlignmentSummary(res, 3)

	for _, want := range []string{"Services", "Aligned", "Services without channel", "Forced pairings without target"} {
		assert.Contains(t, out, want)
	}
	assert.Regexp(t, `Aligned\s+│\s+2`, out)
	assert.Regexp(t, `Channels without service\s+│\s+1`, out)
}

func TestRenames(t *testing.T) {
	out := Renames([]align.Rename{{Key: "0070:01680000:0013:0001:1:0", From: "NTV Plus", To: "НТВ+"}})
	assert.Contains(t, out, "0070:01680000:0013:0001:1:0")
	assert.Contains(t, out, "NTV Plus")
	assert.Contains(t, out, "НТВ+")
}

func TestDatabaseSummary(t *testing.T) {
	tp := lamedb.Transponder{Namespace: "01680000", StreamID: "0013", NetworkID: "0070"}
	onTP := func(typ string) lamedb.Service {
		return lamedb.Service{Type: typ, Namespace: "01680000", StreamID: "0013", NetworkID: "0070"}
	}
	db := lamedb.Database{
		Transponders: []lamedb.Transponder{tp, {Namespace: "00c00000", StreamID: "0001", NetworkID: "0085"}},
		Services: []lamedb.Service{
			onTP("25"), onTP("1"), {Type: "1", Namespace: "dead", StreamID: "0001", NetworkID: "0001"}, onTP("2"),
		},
	}
	out := DatabaseSummary(db)

	assert.Regexp(t, `Transponders\s+│\s+2`, out)
	assert.Regexp(t, `Services without transponder\s+│\s+1`, out)
	assert.Regexp(t, `Services of type 1\s+│\s+2`, out)
	i1 := strings.Index(out, "type 1 ")
	i2 := strings.Index(out, "type 2 ")
	i25 := strings.Index(out, "type 25")
	assert.True(t, i1 < i2 && i2 < i25, "types sorted numerically")
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, renderTable(nil, nil, nil))
}

func TestKeyValue(t *testing.T) {
	out := KeyValue([][]string{{"Aligned", "12"}, {"Stamp", "2026-03-01-10-00-00"}})
	assert.Contains(t, out, "Metric")
	assert.NotContains(t, out, "METRIC")
	assert.Contains(t, out, "Aligned")
	assert.Contains(t, out, "2026-03-01-10-00-00")
}

func TestRuns(t *testing.T) {
	out := Runs([]catalog.Run{{
		ID:        "3f1c",
		StartedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Source:    "https://ntvplus.ru",
		Channels:  212,
	}})
	assert.Contains(t, out, "3f1c")
	assert.Contains(t, out, "212")
	assert.Contains(t, out, "https://ntvplus.ru")
}
