// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package lamedb

import (
	"io"
	"strings"
)

// Encode renders transponders and services in lamedb grammar, in input order.
func Encode(transponders []Transponder, services []Service) string {
	var b strings.Builder

	b.WriteString(Banner + "\n")
	b.WriteString(sectionTransponders + "\n")
	for _, t := range transponders {
		writeTransponder(&b, t)
	}
	b.WriteString(sectionEnd + "\n")

	b.WriteString(sectionServices + "\n")
	for _, s := range services {
		writeService(&b, s)
	}
	b.WriteString(sectionEnd + "\n")
	b.WriteString(Footer)

	return b.String()
}

// Write encodes db to w.
func Write(w io.Writer, db *Database) error {
	_, err := io.WriteString(w, Encode(db.Transponders, db.Services))
	return err
}

func writeTransponder(b *strings.Builder, t Transponder) {
	b.WriteString(t.Key())
	b.WriteString("\n\ts ")
	b.WriteString(strings.Join(t.params(), ":"))
	b.WriteString("\n" + recordSeparator + "\n")
}

func writeService(b *strings.Builder, s Service) {
	b.WriteString(s.Key())
	b.WriteByte('\n')
	b.WriteString(s.EffectiveName())
	b.WriteByte('\n')
	b.WriteString(s.ProviderData)
	b.WriteByte('\n')
}
