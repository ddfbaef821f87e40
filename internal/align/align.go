// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package align pairs lamedb services with externally scraped channel records.
//
// Matching is exact: a forced pairing by service name wins, otherwise the
// first channel whose normalized name equals the service's normalized name.
// Input order is significant and never changed.
package align

import (
	"context"
	"strings"

	"github.com/ManuGH/lamesync/internal/lamedb"
	xglog "github.com/ManuGH/lamesync/internal/log"
	"github.com/ManuGH/lamesync/internal/normalize"
)

// ChannelRecord is channel metadata supplied by a scraper.
type ChannelRecord struct {
	Name        string
	Icon        string // icon URL, optional
	Description string // optional
}

// ForcedPairings maps an exact service name to an exact channel name.
type ForcedPairings map[string]string

// Pair is one accepted match, by position in the inputs of Align.
type Pair struct {
	Service int
	Channel int
}

// Result is the outcome of one alignment run.
type Result struct {
	// Services are copies of the input services with Matched set for every
	// aligned service and cleared for the rest.
	Services       []lamedb.Service
	Aligned        []Pair
	ServiceOrphans []string
	ChannelOrphans []ChannelRecord
	// UnresolvedForced lists service names whose forced target names no
	// channel record. Those services fell back to normalized matching.
	UnresolvedForced []string
}

// Rename records a name overwritten by ApplyMatches.
type Rename struct {
	Service int
	Key     string
	From    string
	To      string
}

// Align matches services against channels. It never fails: misses are
// reported through the orphan lists.
func Align(services []lamedb.Service, channels []ChannelRecord, forced ForcedPairings) Result {
	byExact := make(map[string]int, len(channels))
	byKey := make(map[string]int, len(channels))
	for i, ch := range channels {
		exact := strings.TrimSpace(ch.Name)
		if _, ok := byExact[exact]; !ok {
			byExact[exact] = i
		}
		key := normalize.ChannelKey(ch.Name)
		if _, ok := byKey[key]; !ok {
			byKey[key] = i
		}
	}

	res := Result{Services: make([]lamedb.Service, len(services))}
	used := make([]bool, len(channels))

	for i, svc := range services {
		svc.Matched = nil
		match := -1

		if target, ok := forced[svc.Name]; ok {
			if idx, found := byExact[strings.TrimSpace(target)]; found {
				match = idx
			} else {
				res.UnresolvedForced = append(res.UnresolvedForced, svc.Name)
			}
		}
		if match < 0 {
			if idx, found := byKey[normalize.ChannelKey(svc.Name)]; found {
				match = idx
			}
		}

		if match >= 0 {
			svc.Matched = &lamedb.ChannelRef{Index: match, Name: channels[match].Name}
			used[match] = true
			res.Aligned = append(res.Aligned, Pair{Service: i, Channel: match})
		} else {
			res.ServiceOrphans = append(res.ServiceOrphans, svc.Name)
		}
		res.Services[i] = svc
	}

	for i, ch := range channels {
		if !used[i] {
			res.ChannelOrphans = append(res.ChannelOrphans, ch)
		}
	}
	return res
}

// ApplyMatches returns a copy of services in which every matched service
// carries its channel's name. Each overwritten name is logged.
func ApplyMatches(ctx context.Context, services []lamedb.Service) ([]lamedb.Service, []Rename) {
	logger := xglog.WithComponentFromContext(ctx, "align")

	out := make([]lamedb.Service, len(services))
	copy(out, services)

	var renames []Rename
	for i := range out {
		s := &out[i]
		if s.Matched == nil || s.Name == s.Matched.Name {
			continue
		}
		renames = append(renames, Rename{Service: i, Key: s.Key(), From: s.Name, To: s.Matched.Name})
		logger.Info().
			Str(xglog.FieldEvent, "align.rename").
			Str(xglog.FieldServiceKey, s.Key()).
			Str("from", s.Name).
			Str("to", s.Matched.Name).
			Msg("service renamed")
		s.Name = s.Matched.Name
	}
	return out, renames
}
