// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ManuGH/lamesync/internal/jobs"
	"github.com/ManuGH/lamesync/internal/persistence/sqlite"
	"github.com/ManuGH/lamesync/internal/report"
)

var errNotIdentical = errors.New("re-encoded database differs from input")

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var verifyCatalog bool
	var mode string

	cmd := &cobra.Command{
		Use:   "check <lamedb>",
		Short: "Decode a lamedb and verify it re-encodes byte for byte",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// #nosec G304 -- path is a CLI argument
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			rep, err := jobs.Check(f)
			_ = f.Close()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, report.DatabaseSummary(*rep.Database))
			if rep.Identical {
				fmt.Fprintln(out, "round trip: identical")
			} else {
				fmt.Fprintf(out, "round trip: differs at line %d\n  want: %q\n  got:  %q\n",
					rep.FirstDiffLine, rep.Want, rep.Got)
			}

			if verifyCatalog {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				problems, err := sqlite.VerifyIntegrity(cmd.Context(), cfg.Catalog.Path, mode)
				if err != nil {
					return err
				}
				if len(problems) > 0 {
					return fmt.Errorf("catalog %s is corrupt: %s", cfg.Catalog.Path, strings.Join(problems, "; "))
				}
				fmt.Fprintln(out, "catalog: ok")
			}

			if !rep.Identical {
				return errNotIdentical
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&verifyCatalog, "verify-catalog", false, "Also run an integrity check on the snapshot catalog")
	cmd.Flags().StringVar(&mode, "mode", "quick", "Catalog integrity check mode: quick or full")
	return cmd
}
