// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ManuGH/lamesync/internal/align"
	"github.com/ManuGH/lamesync/internal/jobs"
	"github.com/ManuGH/lamesync/internal/lamedb"
	"github.com/ManuGH/lamesync/internal/report"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var showOrphans bool

	cmd := &cobra.Command{
		Use:   "align <lamedb>",
		Short: "Show how a lamedb would be aligned with the latest snapshot, without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				_, channels, err := a.catalog.Latest(cmd.Context())
				if err != nil {
					return err
				}

				// #nosec G304 -- path is a CLI argument
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				db, err := lamedb.Read(f)
				_ = f.Close()
				if err != nil {
					return err
				}

				forced, err := align.LoadForcedPairings(a.cfg.Overrides)
				if err != nil {
					return err
				}
				res := align.Align(db.Services, jobs.ChannelRecords(channels), forced)
				_, renames := align.ApplyMatches(cmd.Context(), res.Services)

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, report.AlignmentSummary(res, len(channels)))
				if len(renames) > 0 {
					fmt.Fprintln(out, report.Renames(renames))
				}
				if showOrphans {
					return align.WriteOrphanReport(out, res)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&showOrphans, "orphans", false, "Print the orphan report")
	return cmd
}
