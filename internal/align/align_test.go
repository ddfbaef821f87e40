// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package align

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/lamesync/internal/lamedb"
)

func svc(sid, name string) lamedb.Service {
	return lamedb.Service{
		ServiceID: sid, Namespace: "01680000", StreamID: "0013", NetworkID: "0070",
		Type: "1", ServiceNum: "0", Name: name, ProviderData: "p:HTB+",
	}
}

func TestAlign_NormalizedMatch(t *testing.T) {
	services := []lamedb.Service{svc("0001", "HTB+ Спорт"), svc("0002", "Unknown")}
	channels := []ChannelRecord{{Name: "Кино ТВ"}, {Name: "НТВ+ Спорт"}}

	res := Align(services, channels, nil)

	assert.Equal(t, []Pair{{Service: 0, Channel: 1}}, res.Aligned)
	assert.Equal(t, []string{"Unknown"}, res.ServiceOrphans)
	assert.Equal(t, []ChannelRecord{{Name: "Кино ТВ"}}, res.ChannelOrphans)
	require.NotNil(t, res.Services[0].Matched)
	assert.Equal(t, lamedb.ChannelRef{Index: 1, Name: "НТВ+ Спорт"}, *res.Services[0].Matched)
	assert.Nil(t, res.Services[1].Matched)
}

func TestAlign_DoesNotMutateInput(t *testing.T) {
	services := []lamedb.Service{svc("0001", "НТВ")}
	Align(services, []ChannelRecord{{Name: "нтв"}}, nil)
	assert.Nil(t, services[0].Matched)
}

func TestAlign_ForcedPairingPrecedence(t *testing.T) {
	services := []lamedb.Service{svc("0001", "Kinopremiera")}
	channels := []ChannelRecord{{Name: "Кинопремьера HD"}}

	forced := ForcedPairings{"Kinopremiera": "  Кинопремьера HD "}
	res := Align(services, channels, forced)
	assert.Equal(t, []Pair{{Service: 0, Channel: 0}}, res.Aligned)
	assert.Empty(t, res.ServiceOrphans)
	assert.Empty(t, res.ChannelOrphans)

	res = Align(services, channels, nil)
	assert.Empty(t, res.Aligned)
	assert.Equal(t, []string{"Kinopremiera"}, res.ServiceOrphans)
	assert.Equal(t, channels, res.ChannelOrphans)
}

func TestAlign_ForcedPairingBeatsNormalizedMatch(t *testing.T) {
	services := []lamedb.Service{svc("0001", "Спорт")}
	channels := []ChannelRecord{{Name: "Спорт"}, {Name: "Спорт 2"}}

	res := Align(services, channels, ForcedPairings{"Спорт": "Спорт 2"})
	assert.Equal(t, []Pair{{Service: 0, Channel: 1}}, res.Aligned)
	assert.Equal(t, []ChannelRecord{{Name: "Спорт"}}, res.ChannelOrphans)
}

func TestAlign_ForcedPairingIsExact(t *testing.T) {
	services := []lamedb.Service{svc("0001", "Kino")}
	channels := []ChannelRecord{{Name: "КИНО"}}

	// the key is the exact service name, not its normalized form
	res := Align(services, channels, ForcedPairings{"kino": "КИНО"})
	assert.Empty(t, res.Aligned)
}

func TestAlign_UnresolvedForcedFallsBack(t *testing.T) {
	services := []lamedb.Service{svc("0001", "НТВ")}
	channels := []ChannelRecord{{Name: "нтв"}}

	res := Align(services, channels, ForcedPairings{"НТВ": "does not exist"})
	assert.Equal(t, []Pair{{Service: 0, Channel: 0}}, res.Aligned)
	assert.Equal(t, []string{"НТВ"}, res.UnresolvedForced)
}

func TestAlign_FirstMatchWins(t *testing.T) {
	services := []lamedb.Service{svc("0001", "Матч ТВ")}
	channels := []ChannelRecord{
		{Name: "МАТЧ ТВ", Icon: "first.png"},
		{Name: "Матч&nbsp;ТВ", Icon: "second.png"},
	}

	res := Align(services, channels, nil)
	require.Len(t, res.Aligned, 1)
	assert.Equal(t, 0, res.Aligned[0].Channel)
	assert.Equal(t, []ChannelRecord{channels[1]}, res.ChannelOrphans)
}

func TestAlign_ChannelMayMatchSeveralServices(t *testing.T) {
	services := []lamedb.Service{svc("0001", "Discovery"), svc("0002", "DISCOVERY")}
	channels := []ChannelRecord{{Name: "Discovery"}}

	res := Align(services, channels, nil)
	assert.Equal(t, []Pair{{Service: 0, Channel: 0}, {Service: 1, Channel: 0}}, res.Aligned)
	assert.Empty(t, res.ChannelOrphans)
}

func TestAlign_OrphanCompleteness(t *testing.T) {
	services := []lamedb.Service{
		svc("0001", "A"), svc("0002", "B"), svc("0003", "C"), svc("0004", "B"), svc("0005", "Z"),
	}
	channels := []ChannelRecord{{Name: "b"}, {Name: "x"}, {Name: "c"}, {Name: "y"}}

	res := Align(services, channels, nil)

	aligned := map[int]bool{}
	for _, p := range res.Aligned {
		aligned[p.Service] = true
	}
	var wantOrphans []string
	for i, s := range services {
		if !aligned[i] {
			wantOrphans = append(wantOrphans, s.Name)
		}
	}
	if diff := cmp.Diff(wantOrphans, res.ServiceOrphans); diff != "" {
		t.Errorf("service orphans (-want +got):\n%s", diff)
	}
	assert.Equal(t, len(services), len(res.Aligned)+len(res.ServiceOrphans))

	referenced := map[int]bool{}
	for _, p := range res.Aligned {
		referenced[p.Channel] = true
	}
	var wantChannels []ChannelRecord
	for i, ch := range channels {
		if !referenced[i] {
			wantChannels = append(wantChannels, ch)
		}
	}
	if diff := cmp.Diff(wantChannels, res.ChannelOrphans); diff != "" {
		t.Errorf("channel orphans (-want +got):\n%s", diff)
	}
}

func TestApplyMatches(t *testing.T) {
	services := []lamedb.Service{svc("0001", "HTB+"), svc("0002", "Same"), svc("0003", "Orphan")}
	services[0].Matched = &lamedb.ChannelRef{Index: 0, Name: "НТВ+"}
	services[1].Matched = &lamedb.ChannelRef{Index: 1, Name: "Same"}

	out, renames := ApplyMatches(context.Background(), services)

	require.Len(t, renames, 1)
	assert.Equal(t, Rename{Service: 0, Key: services[0].Key(), From: "HTB+", To: "НТВ+"}, renames[0])
	assert.Equal(t, "НТВ+", out[0].Name)
	assert.Equal(t, "Same", out[1].Name)
	assert.Equal(t, "Orphan", out[2].Name)
	assert.Equal(t, "HTB+", services[0].Name, "input must not change")
}

func TestApplyMatches_EncodesRenamedDatabase(t *testing.T) {
	services := []lamedb.Service{svc("0070", "HTB+ Cпорт")}
	res := Align(services, []ChannelRecord{{Name: "НТВ+ Спорт"}}, nil)
	updated, _ := ApplyMatches(context.Background(), res.Services)

	text := lamedb.Encode(nil, updated)
	db, err := lamedb.Decode(text)
	require.NoError(t, err)
	assert.Equal(t, "НТВ+ Спорт", db.Services[0].Name)
}
