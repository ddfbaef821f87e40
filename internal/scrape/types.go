// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package scrape

import (
	"errors"
	"fmt"
)

// Channel is one row entry of the broadcaster's tuning table, enriched with
// its info page.
type Channel struct {
	Name        string `json:"name"`
	InfoURL     string `json:"info_url"`
	Freq        string `json:"freq"`
	Transponder int    `json:"transponder"`
	Sat         int    `json:"sat"`
	Modulation  string `json:"modulation"`
	SymbolRate  int    `json:"symbol_rate"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
	// LocalIcon is the normalized icon file name in the icons store.
	LocalIcon string `json:"local_icon,omitempty"`
}

// Info is what a channel info page contributes.
type Info struct {
	Icon        string
	Description string
}

// ErrTableNotFound is returned when the tuning table is missing from the page.
var ErrTableNotFound = errors.New("scrape: channel table not found")

// RowError describes a table row without the expected tuning parameters.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("scrape: table row %d: %s", e.Row, e.Reason)
}
