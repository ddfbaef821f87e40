// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	HTTPURLKey = "http.url"

	// Fetch attributes
	FetchCacheHitKey = "fetch.cache_hit"
	FetchAttemptKey  = "fetch.attempt"

	// Sync attributes
	SyncRunIDKey = "sync.run_id"
	SyncModeKey  = "sync.mode"

	// Database attributes
	LamedbTranspondersKey = "lamedb.transponders"
	LamedbServicesKey     = "lamedb.services"

	// Alignment attributes
	AlignChannelsKey       = "align.channels"
	AlignMatchedKey        = "align.matched"
	AlignServiceOrphansKey = "align.service_orphans"
	AlignChannelOrphansKey = "align.channel_orphans"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// SyncAttributes identifies a sync run.
func SyncAttributes(runID, mode string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(SyncRunIDKey, runID),
		attribute.String(SyncModeKey, mode),
	}
}

// LamedbAttributes describes a decoded database.
func LamedbAttributes(transponders, services int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(LamedbTranspondersKey, transponders),
		attribute.Int(LamedbServicesKey, services),
	}
}

// AlignAttributes describes the outcome of an alignment pass.
func AlignAttributes(channels, matched, serviceOrphans, channelOrphans int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AlignChannelsKey, channels),
		attribute.Int(AlignMatchedKey, matched),
		attribute.Int(AlignServiceOrphansKey, serviceOrphans),
		attribute.Int(AlignChannelOrphansKey, channelOrphans),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
