// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ManuGH/lamesync/internal/scrape"
)

var channelHeaders = []string{
	"#", "Name", "Info URL", "Freq", "Transponder", "Sat", "Modulation",
	"Symbol rate", "Icon", "Local icon", "Description",
}

func channelRows(channels []scrape.Channel) [][]string {
	rows := make([][]string, 0, len(channels))
	for i, ch := range channels {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ch.Name,
			ch.InfoURL,
			ch.Freq,
			strconv.Itoa(ch.Transponder),
			strconv.Itoa(ch.Sat),
			ch.Modulation,
			strconv.Itoa(ch.SymbolRate),
			ch.Icon,
			ch.LocalIcon,
			ch.Description,
		})
	}
	return rows
}

// ChannelsHTML renders every scraped channel as an HTML table. Cell text
// is escaped.
func ChannelsHTML(channels []scrape.Channel) string {
	tw := newWriter(channelHeaders, channelRows(channels),
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignRight})
	tw.Style().HTML.CSSClass = "lamesync-channels"
	tw.Style().HTML.EscapeText = true
	return tw.RenderHTML()
}

// WriteChannelsHTML writes a standalone HTML page holding ChannelsHTML.
func WriteChannelsHTML(w io.Writer, channels []scrape.Channel) error {
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Channels (%d)</title></head>\n<body>\n%s\n</body>\n</html>\n",
		len(channels), ChannelsHTML(channels))
	return err
}

// ChannelsText renders a compact plain-text channel listing.
func ChannelsText(channels []scrape.Channel) string {
	rows := make([][]string, 0, len(channels))
	for i, ch := range channels {
		rows = append(rows, []string{strconv.Itoa(i + 1), ch.Name, ch.Freq, ch.Modulation, ch.LocalIcon})
	}
	return renderTable([]string{"#", "Name", "Freq", "Modulation", "Local icon"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight})
}
