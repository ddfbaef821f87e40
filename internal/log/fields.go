// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRunID      = "run_id"
	FieldRequestID  = "request_id"
	FieldServiceKey = "service_key"
	FieldChannel    = "channel"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStage     = "stage"

	// Tracing fields
	FieldTraceID = "trace_id"
	FieldSpanID  = "span_id"

	// Path / URL fields
	FieldPath  = "path"
	FieldURL   = "url"
	FieldPicon = "picon"
)
