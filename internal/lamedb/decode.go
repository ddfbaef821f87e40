// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package lamedb

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

const (
	sectionTransponders = "transponders"
	sectionServices     = "services"
	sectionEnd          = "end"
	recordSeparator     = "/"
)

// transponderRe matches one '/'-separated fragment. The delivery marker may be
// 's' or 't'; it is accepted but not preserved. Optional groups 10..14 only
// participate in order, so an absent field is always a trailing one.
var transponderRe = regexp.MustCompile(
	`^\s*(\w+):(\w+):(\w+)[ \t]*\n\s*[st]\s+` +
		`(-?\d+):(-?\d+):(-?\d+):(-?\d+):(-?\d+):(-?\d+)` +
		`(?::(-?\d+))?(?::(-?\d+))?(?::(-?\d+))?(?::(-?\d+))?(?::(-?\d+))?\s*$`)

var serviceKeyRe = regexp.MustCompile(`^(\w+):(\w+):(\w+):(\w+):(\d+):(\d+)\s*$`)

// Read decodes a lamedb from r.
func Read(r io.Reader) (*Database, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lamedb: read: %w", err)
	}
	return Decode(string(data))
}

// Decode parses the text of a lamedb. Banner and footer lines are discarded.
func Decode(text string) (*Database, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	tStart := indexLine(lines, 0, sectionTransponders)
	if tStart < 0 {
		return nil, &MissingSectionError{Section: sectionTransponders}
	}
	tEnd := indexLine(lines, tStart+1, sectionEnd)
	if tEnd < 0 {
		return nil, &MissingSectionError{Section: sectionTransponders + " " + sectionEnd}
	}
	sStart := indexLine(lines, tEnd+1, sectionServices)
	if sStart < 0 {
		return nil, &MissingSectionError{Section: sectionServices}
	}
	sEnd := servicesEnd(lines, sStart+1)
	if sEnd < 0 {
		return nil, &MissingSectionError{Section: sectionServices + " " + sectionEnd}
	}

	transponders, err := decodeTransponders(strings.Join(lines[tStart+1:tEnd], "\n"))
	if err != nil {
		return nil, err
	}
	services, err := decodeServices(lines[sStart+1:sEnd], sStart+2)
	if err != nil {
		return nil, err
	}
	return &Database{Transponders: transponders, Services: services}, nil
}

func decodeTransponders(body string) ([]Transponder, error) {
	fragments := strings.Split(body, recordSeparator)
	last := fragments[len(fragments)-1]
	if strings.TrimSpace(last) != "" {
		return nil, &MalformedTransponderError{Index: len(fragments) - 1, Fragment: last}
	}
	fragments = fragments[:len(fragments)-1]

	out := make([]Transponder, 0, len(fragments))
	for i, frag := range fragments {
		t, ok := parseTransponder(frag)
		if !ok {
			return nil, &MalformedTransponderError{Index: i, Fragment: frag}
		}
		out = append(out, t)
	}
	return out, nil
}

func parseTransponder(frag string) (Transponder, bool) {
	idx := transponderRe.FindStringSubmatchIndex(frag)
	if idx == nil {
		return Transponder{}, false
	}
	group := func(n int) string { return frag[idx[2*n]:idx[2*n+1]] }
	optional := func(n int) *string {
		if idx[2*n] < 0 {
			return nil
		}
		v := group(n)
		return &v
	}
	return Transponder{
		Namespace:    group(1),
		StreamID:     group(2),
		NetworkID:    group(3),
		Freq:         group(4),
		Bitrate:      group(5),
		Polarization: group(6),
		FEC:          group(7),
		Orbit:        group(8),
		Inversion:    group(9),
		Flags:        optional(10),
		System:       optional(11),
		Modulation:   optional(12),
		Rolloff:      optional(13),
		Pilot:        optional(14),
	}, true
}

// decodeServices consumes lines in groups of three. firstLine is the
// one-based line number of lines[0], used for error reporting.
func decodeServices(lines []string, firstLine int) ([]Service, error) {
	out := make([]Service, 0, len(lines)/3)
	for i := 0; i+2 < len(lines); i += 3 {
		m := serviceKeyRe.FindStringSubmatch(lines[i])
		if m == nil {
			return nil, &MalformedServiceError{Line: firstLine + i, Text: lines[i]}
		}
		out = append(out, Service{
			ServiceID:    m[1],
			Namespace:    m[2],
			StreamID:     m[3],
			NetworkID:    m[4],
			Type:         m[5],
			ServiceNum:   m[6],
			Name:         lines[i+1],
			ProviderData: lines[i+2],
		})
	}
	return out, nil
}

func indexLine(lines []string, from int, want string) int {
	for i := from; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == want {
			return i
		}
	}
	return -1
}

// servicesEnd finds the services terminator where a key line is expected,
// so a service named "end" and a footer containing "end" are left alone.
// Without one, a trailing partial record precedes the last "end" line.
func servicesEnd(lines []string, from int) int {
	for i := from; i < len(lines); i += 3 {
		if strings.TrimSpace(lines[i]) == sectionEnd {
			return i
		}
	}
	return lastIndexLine(lines, from, sectionEnd)
}

func lastIndexLine(lines []string, from int, want string) int {
	for i := len(lines) - 1; i >= from; i-- {
		if strings.TrimSpace(lines[i]) == want {
			return i
		}
	}
	return -1
}
