// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"fmt"
	"io"
	"strings"

	"github.com/ManuGH/lamesync/internal/lamedb"
)

// CheckReport is the outcome of decoding and re-encoding a database.
type CheckReport struct {
	Database *lamedb.Database
	// Identical is set when re-encoding reproduces the input byte for byte
	// (after CRLF normalization).
	Identical bool
	// FirstDiffLine is the 1-based line where the re-encoded text first
	// departs from the input, or 0.
	FirstDiffLine int
	Want, Got     string
}

// Check decodes r and verifies that encoding the result reproduces it.
func Check(r io.Reader) (CheckReport, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return CheckReport{}, fmt.Errorf("read lamedb: %w", err)
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")

	db, err := lamedb.Decode(text)
	if err != nil {
		return CheckReport{}, err
	}
	encoded := lamedb.Encode(db.Transponders, db.Services)

	rep := CheckReport{Database: db, Identical: encoded == text}
	if !rep.Identical {
		rep.FirstDiffLine, rep.Want, rep.Got = firstDiff(text, encoded)
	}
	return rep, nil
}

func firstDiff(a, b string) (int, string, string) {
	la := strings.Split(a, "\n")
	lb := strings.Split(b, "\n")
	for i := 0; i < max(len(la), len(lb)); i++ {
		var x, y string
		if i < len(la) {
			x = la[i]
		}
		if i < len(lb) {
			y = lb[i]
		}
		if x != y || i >= len(la) || i >= len(lb) {
			return i + 1, x, y
		}
	}
	return 0, "", ""
}
