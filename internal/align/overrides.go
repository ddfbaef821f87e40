// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package align

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PairingMarker separates source and target in the forced-pairing table.
const PairingMarker = "==="

// ParseForcedPairings reads "service name===channel name" lines. Lines
// without the marker, with an empty side, or blank are ignored. A later
// line for the same service wins.
func ParseForcedPairings(r io.Reader) (ForcedPairings, error) {
	out := ForcedPairings{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		source, target, ok := strings.Cut(line, PairingMarker)
		if !ok || source == "" {
			continue
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		out[source] = target
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read forced pairings: %w", err)
	}
	return out, nil
}

// LoadForcedPairings reads the table at path. An empty path or a missing
// file yields an empty table.
func LoadForcedPairings(path string) (ForcedPairings, error) {
	if path == "" {
		return ForcedPairings{}, nil
	}
	// #nosec G304 -- path comes from operator configuration
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ForcedPairings{}, nil
		}
		return nil, fmt.Errorf("open forced pairings: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseForcedPairings(f)
}
