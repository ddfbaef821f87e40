// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/ManuGH/lamesync/internal/catalog"
	"github.com/ManuGH/lamesync/internal/scrape"
)

// StampLayout names the files of one run, e.g. lamedb.2026-03-01-10-00-00.
const StampLayout = "2006-01-02-15-04-05"

// Mode selects where a run takes its channel list from.
type Mode string

const (
	// ModeSync scrapes the website and stores a new catalog snapshot.
	ModeSync Mode = "sync"
	// ModeRealign reuses the latest catalog snapshot.
	ModeRealign Mode = "realign"
)

// ErrBusy is returned when a run is requested while another is in progress.
var ErrBusy = errors.New("jobs: a run is already in progress")

// ChannelSource produces the channel list for a sync run.
type ChannelSource interface {
	Scrape(ctx context.Context) ([]scrape.Channel, error)
}

// Snapshots persists channel lists between runs.
type Snapshots interface {
	Save(ctx context.Context, run catalog.Run, channels []scrape.Channel) error
	Latest(ctx context.Context) (catalog.Run, []scrape.Channel, error)
}

// Outputs are the files written by one run.
type Outputs struct {
	Lamedb   string `json:"lamedb,omitempty"`
	Orphans  string `json:"orphans,omitempty"`
	Channels string `json:"channels,omitempty"`
}

// Status describes the most recent run.
type Status struct {
	RunID            string     `json:"run_id"`
	Mode             Mode       `json:"mode"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       time.Time  `json:"finished_at"`
	Stamp            string     `json:"stamp"`
	Channels         int        `json:"channels"`
	Transponders     int        `json:"transponders"`
	Services         int        `json:"services"`
	Aligned          int        `json:"aligned"`
	ServiceOrphans   int        `json:"service_orphans"`
	ChannelOrphans   int        `json:"channel_orphans"`
	UnresolvedForced int        `json:"unresolved_forced"`
	Renames          int        `json:"renames"`
	Picons           PiconStats `json:"picons"`
	Outputs          Outputs    `json:"outputs"`
	Error            string     `json:"error,omitempty"`
}

// PiconStats counts picon export outcomes.
type PiconStats struct {
	Written int `json:"written"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// StageError tags a run failure with the pipeline stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return e.Stage + ": " + e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
