// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package lamedb reads and writes the Enigma2 "lamedb" service database.
//
// The codec is deliberately lossless for everything it models: broadcast
// parameters are opaque tokens and record order is preserved, so that
// Encode(Decode(text)) reproduces text for any well-formed database.
package lamedb

import "strings"

const (
	// Banner is the first line written by Encode.
	Banner = "eDVB services /4/"
	// Footer is the signature written after the services section.
	Footer = "Edited with manEdit"
)

// Transponder is one entry of the transponders section.
type Transponder struct {
	Namespace string
	StreamID  string
	NetworkID string

	Freq         string
	Bitrate      string
	Polarization string
	FEC          string
	Orbit        string
	Inversion    string

	// Present only in newer schema versions. nil means absent.
	Flags      *string
	System     *string
	Modulation *string
	Rolloff    *string
	Pilot      *string
}

// Key returns the namespace:streamId:networkId triple.
func (t Transponder) Key() string {
	return t.Namespace + ":" + t.StreamID + ":" + t.NetworkID
}

// params returns the tuning parameters in wire order, absent optionals skipped.
func (t Transponder) params() []string {
	out := []string{t.Freq, t.Bitrate, t.Polarization, t.FEC, t.Orbit, t.Inversion}
	for _, opt := range []*string{t.Flags, t.System, t.Modulation, t.Rolloff, t.Pilot} {
		if opt != nil {
			out = append(out, *opt)
		}
	}
	return out
}

// ChannelRef links a service to the channel record it was aligned with.
// Index addresses the channel list that was passed to alignment; Name is a
// snapshot of that record's name.
type ChannelRef struct {
	Index int
	Name  string
}

// Service is one three-line entry of the services section.
type Service struct {
	ServiceID  string
	Namespace  string
	StreamID   string
	NetworkID  string
	Type       string
	ServiceNum string

	Name         string
	ProviderData string

	Matched *ChannelRef
}

// Key returns the service key line without the name.
func (s Service) Key() string {
	return strings.Join([]string{s.ServiceID, s.Namespace, s.StreamID, s.NetworkID, s.Type, s.ServiceNum}, ":")
}

// TransponderKey returns the triple that references the owning transponder.
func (s Service) TransponderKey() string {
	return s.Namespace + ":" + s.StreamID + ":" + s.NetworkID
}

// EffectiveName is the name written by Encode: the matched channel name when
// the service was aligned, its own name otherwise.
func (s Service) EffectiveName() string {
	if s.Matched != nil {
		return s.Matched.Name
	}
	return s.Name
}

// Database is a decoded lamedb.
type Database struct {
	Transponders []Transponder
	Services     []Service
}

// Transponder looks up the transponder a service references.
func (db *Database) Transponder(s Service) (Transponder, bool) {
	key := s.TransponderKey()
	for _, t := range db.Transponders {
		if t.Key() == key {
			return t, true
		}
	}
	return Transponder{}, false
}
