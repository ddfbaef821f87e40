// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "cyrillic_upper", in: "НТВ+", want: "htb"},
		{name: "cyrillic_lower", in: "нтв+", want: "htb"},
		{name: "entity_noise", in: "НТВ&nbsp;+", want: "htb"},
		{name: "latin_lookalike", in: "HTB+", want: "htb"},
		{name: "numeric_entity", in: "Кино&#171;ТВ&#187;", want: "kиhotb"},
		{name: "spaces_and_punctuation", in: "Da Vinci - Learning!", want: "davincilearning"},
		{name: "digits_kept", in: "Матч! Футбол 1", want: "matчфytбoл1"},
		{name: "decomposed_short_i", in: "Мои\u0306 мир", want: "moйmиp"},
		{name: "yo_folds", in: "Ёлка", want: "eлka"},
		{name: "empty", in: "", want: ""},
		{name: "symbols_only", in: "+++ ***", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChannelKey(tt.in))
		})
	}
}

func TestChannelKey_Equivalence(t *testing.T) {
	assert.Equal(t, ChannelKey("НТВ+"), ChannelKey("нтв+"))
	assert.Equal(t, ChannelKey("НТВ+"), ChannelKey("НТВ&nbsp;+"))
	assert.Equal(t, ChannelKey("Первый канал HD"), ChannelKey("ПЕРВЫЙ КАНАЛ  HD"))
	assert.NotEqual(t, ChannelKey("Первый канал"), ChannelKey("Первый канал HD"))
}

func TestIconSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Первый канал", want: "perviikanal"},
		{in: "Кинoужас", want: "kinouzhas"},
		{in: "Матч! Премьер", want: "matchpremer"},
		{in: "Discovery Channel", want: "discoverychannel"},
		{in: "!!!", want: "channel"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IconSlug(tt.in))
		})
	}
}
