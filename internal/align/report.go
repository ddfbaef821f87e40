// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package align

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOrphanReport writes the unmatched services and channels as two
// labelled sections. Both sections are written even when empty so the file
// can be diffed between runs and curated into the forced-pairing table.
func WriteOrphanReport(w io.Writer, res Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# Services without channel (%d)\n", len(res.ServiceOrphans))
	for _, name := range res.ServiceOrphans {
		fmt.Fprintln(bw, name)
	}

	fmt.Fprintf(bw, "\n# Channels without service (%d)\n", len(res.ChannelOrphans))
	for _, ch := range res.ChannelOrphans {
		fmt.Fprintln(bw, ch.Name)
	}

	if len(res.UnresolvedForced) > 0 {
		fmt.Fprintf(bw, "\n# Forced pairings without target (%d)\n", len(res.UnresolvedForced))
		for _, name := range res.UnresolvedForced {
			fmt.Fprintln(bw, name)
		}
	}

	return bw.Flush()
}
