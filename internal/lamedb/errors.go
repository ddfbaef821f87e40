// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package lamedb

import "fmt"

// MalformedTransponderError reports a transponder fragment that does not
// match the transponder grammar.
type MalformedTransponderError struct {
	Index    int // zero-based position in the transponders section
	Fragment string
}

func (e *MalformedTransponderError) Error() string {
	return fmt.Sprintf("lamedb: malformed transponder #%d: %q", e.Index, e.Fragment)
}

// MalformedServiceError reports a service key line that does not match
// serviceId:namespace:streamId:networkId:type:serviceNum.
type MalformedServiceError struct {
	Line int // one-based line number in the input
	Text string
}

func (e *MalformedServiceError) Error() string {
	return fmt.Sprintf("lamedb: malformed service key at line %d: %q", e.Line, e.Text)
}

// MissingSectionError reports an absent section marker or terminator.
type MissingSectionError struct {
	Section string
}

func (e *MissingSectionError) Error() string {
	return fmt.Sprintf("lamedb: section %q not found", e.Section)
}
