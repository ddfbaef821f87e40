// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package normalize turns human-readable channel names into comparison keys
// and file-name stems.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// entityRe matches HTML entity escapes such as &nbsp; &amp; &#171; &#x2B;.
var entityRe = regexp.MustCompile(`&#?[0-9A-Za-z]+;`)

// homoglyphs folds Cyrillic letters onto the Latin letters they look like
// once lower-cased. Sources mix both scripts inside one name ("НТВ" vs "HTB").
var homoglyphs = map[rune]rune{
	'а': 'a',
	'в': 'b',
	'е': 'e',
	'ё': 'e',
	'к': 'k',
	'м': 'm',
	'н': 'h',
	'о': 'o',
	'р': 'p',
	'с': 'c',
	'т': 't',
	'у': 'y',
	'х': 'x',
}

// cyrillicKeep is the Cyrillic alphabet allowed in keys after folding.
const cyrillicKeep = "йцукенгшщзхъфывапролджэячсмитьбю"

// ChannelKey returns the key under which two channel names compare equal.
// It is used for matching only and never stored back.
func ChannelKey(name string) string {
	s := entityRe.ReplaceAllString(name, "")
	s = norm.NFC.String(s)
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if latin, ok := homoglyphs[r]; ok {
			r = latin
		}
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func keep(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	case r < 0x80:
		return false
	}
	return strings.ContainsRune(cyrillicKeep, r)
}
