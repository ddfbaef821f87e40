// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/ManuGH/lamesync/internal/align"
	"github.com/ManuGH/lamesync/internal/catalog"
	"github.com/ManuGH/lamesync/internal/lamedb"
)

// AlignmentSummary tabulates the counts of an alignment result.
func AlignmentSummary(res align.Result, channels int) string {
	rows := [][]string{
		{"Services", strconv.Itoa(len(res.Services))},
		{"Channels", strconv.Itoa(channels)},
		{"Aligned", strconv.Itoa(len(res.Aligned))},
		{"Services without channel", strconv.Itoa(len(res.ServiceOrphans))},
		{"Channels without service", strconv.Itoa(len(res.ChannelOrphans))},
		{"Forced pairings without target", strconv.Itoa(len(res.UnresolvedForced))},
	}
	return renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

// Renames tabulates the names rewritten by align.ApplyMatches.
func Renames(renames []align.Rename) string {
	rows := make([][]string, 0, len(renames))
	for _, r := range renames {
		rows = append(rows, []string{r.Key, r.From, r.To})
	}
	return renderTable([]string{"Service", "From", "To"}, rows, nil)
}

// DatabaseSummary tabulates a decoded database by service type.
func DatabaseSummary(db lamedb.Database) string {
	byType := make(map[string]int)
	dangling := 0
	for _, s := range db.Services {
		byType[s.Type]++
		if _, ok := db.Transponder(s); !ok {
			dangling++
		}
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		a, errA := strconv.Atoi(types[i])
		b, errB := strconv.Atoi(types[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return types[i] < types[j]
	})

	rows := [][]string{
		{"Transponders", strconv.Itoa(len(db.Transponders))},
		{"Services", strconv.Itoa(len(db.Services))},
		{"Services without transponder", strconv.Itoa(dangling)},
	}
	for _, t := range types {
		rows = append(rows, []string{"Services of type " + t, strconv.Itoa(byType[t])})
	}
	return renderTable([]string{"Metric", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

// KeyValue tabulates label/value rows.
func KeyValue(rows [][]string) string {
	return renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

// Runs tabulates stored catalog snapshots.
func Runs(runs []catalog.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{r.StartedAt.Local().Format(time.DateTime), r.ID, r.Source, strconv.Itoa(r.Channels)})
	}
	return renderTable([]string{"Started", "Run", "Source", "Channels"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight})
}
