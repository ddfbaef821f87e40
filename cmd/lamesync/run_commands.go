// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ManuGH/lamesync/internal/jobs"
	"github.com/ManuGH/lamesync/internal/report"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Scrape the channel list, align the lamedb and write all outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runJob(cmd, func(a *app, c context.Context) (jobs.Status, error) {
				return a.syncer.Sync(c)
			})
		},
	}
}

func newRealignCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "realign",
		Short: "Align the lamedb against the latest stored channel snapshot (offline)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.runJob(cmd, func(a *app, c context.Context) (jobs.Status, error) {
				return a.syncer.Realign(c)
			})
		},
	}
}

func (c *commandContext) runJob(cmd *cobra.Command, run func(*app, context.Context) (jobs.Status, error)) error {
	return c.withApp(cmd.Context(), func(a *app) error {
		st, err := run(a, cmd.Context())
		if st.RunID != "" {
			printStatus(cmd.OutOrStdout(), st)
		}
		return err
	})
}

func printStatus(w io.Writer, st jobs.Status) {
	rows := [][]string{
		{"Run", st.RunID},
		{"Mode", string(st.Mode)},
		{"Channels", strconv.Itoa(st.Channels)},
		{"Transponders", strconv.Itoa(st.Transponders)},
		{"Services", strconv.Itoa(st.Services)},
		{"Aligned", strconv.Itoa(st.Aligned)},
		{"Services without channel", strconv.Itoa(st.ServiceOrphans)},
		{"Channels without service", strconv.Itoa(st.ChannelOrphans)},
		{"Forced pairings without target", strconv.Itoa(st.UnresolvedForced)},
		{"Renamed", strconv.Itoa(st.Renames)},
		{"Picons written", strconv.Itoa(st.Picons.Written)},
		{"Picons skipped", strconv.Itoa(st.Picons.Skipped)},
		{"Picons failed", strconv.Itoa(st.Picons.Failed)},
		{"Duration", st.FinishedAt.Sub(st.StartedAt).Round(1e6).String()},
	}
	fmt.Fprintln(w, report.KeyValue(rows))

	for _, p := range []string{st.Outputs.Lamedb, st.Outputs.Orphans, st.Outputs.Channels} {
		if p != "" {
			fmt.Fprintln(w, "wrote", p)
		}
	}
	if st.Error != "" {
		fmt.Fprintln(w, "error:", st.Error)
	}
}
