// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPiconsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "picons <lamedb>",
		Short: "Export picons for a lamedb using the latest channel snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app) error {
				stats, err := a.syncer.ExportPiconsFor(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "picons: %d written, %d skipped, %d failed (%s)\n",
					stats.Written, stats.Skipped, stats.Failed, a.picons.Dir())
				return nil
			})
		},
	}
}
