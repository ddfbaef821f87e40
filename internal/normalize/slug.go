// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package normalize

import "strings"

var translit = func() *strings.Replacer {
	single := []rune("абвгдеёзийклмнопрстуфхыэю")
	latin := []rune("abvgdeeziiklmnoprstufhieu")
	pairs := []string{
		"ж", "zh",
		"ц", "ts",
		"ч", "ch",
		"ш", "sh",
		"щ", "sh",
		"я", "ya",
	}
	for i, r := range single {
		pairs = append(pairs, string(r), string(latin[i]))
	}
	return strings.NewReplacer(pairs...)
}()

// Transliterate lower-cases name and spells its Russian letters in Latin.
// Letters without a spelling (ъ, ь) are kept.
func Transliterate(name string) string {
	return translit.Replace(strings.ToLower(name))
}

// IconSlug returns an ASCII file stem for a channel's cached icon:
// "Первый канал" -> "perviikanal".
func IconSlug(name string) string {
	s := Transliterate(name)
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "channel"
	}
	return b.String()
}
