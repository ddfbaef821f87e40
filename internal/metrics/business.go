// SPDX-License-Identifier: MIT
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync run metrics
	syncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lamesync_sync_runs_total",
		Help: "Total number of sync runs by mode and result",
	}, []string{"mode", "result"}) // mode=sync|realign, result=success|failure

	syncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lamesync_sync_duration_seconds",
		Help:    "Duration of sync runs",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	}, []string{"mode"})

	lastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lamesync_sync_last_success_timestamp_seconds",
		Help: "Unix time of the last successful sync run",
	})

	stageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lamesync_stage_failures_total",
		Help: "Total number of sync failures by stage",
	}, []string{"stage"}) // stage=scrape|decode|align|encode|write|catalog|picons

	// Upstream fetch metrics
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lamesync_fetch_requests_total",
		Help: "Upstream fetches by source and result",
	}, []string{"source", "result"}) // source=cache|network, result=ok|error

	fetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lamesync_fetch_duration_seconds",
		Help:    "Duration of network fetches",
		Buckets: prometheus.DefBuckets,
	})

	// Alignment metrics (last run)
	channelsScraped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lamesync_channels_scraped",
		Help: "Number of channels scraped in the last run",
	})

	servicesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lamesync_services",
		Help: "Number of services in the decoded database (last run)",
	})

	servicesAligned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lamesync_services_aligned",
		Help: "Number of services matched to a channel (last run)",
	})

	orphans = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lamesync_orphans",
		Help: "Unmatched records in the last run",
	}, []string{"kind"}) // kind=service|channel|forced

	renamesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lamesync_service_renames_total",
		Help: "Total number of service names rewritten from channel metadata",
	})

	// Picon metrics
	piconsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lamesync_picons_total",
		Help: "Picon writes by outcome",
	}, []string{"outcome"}) // outcome=written|skipped|failed

	iconsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lamesync_icons_normalized_total",
		Help: "Channel icon normalizations by outcome",
	}, []string{"outcome"}) // outcome=success|failure
)

// RecordSyncRun records the outcome and duration of one run.
func RecordSyncRun(mode string, d time.Duration, err error) {
	syncDuration.WithLabelValues(mode).Observe(d.Seconds())
	if err != nil {
		syncRunsTotal.WithLabelValues(mode, "failure").Inc()
		return
	}
	syncRunsTotal.WithLabelValues(mode, "success").Inc()
	lastSuccess.SetToCurrentTime()
}

func IncStageFailure(stage string) { stageFailuresTotal.WithLabelValues(stage).Inc() }

// RecordFetch records one upstream fetch. d is ignored for cache hits.
func RecordFetch(source string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	fetchTotal.WithLabelValues(source, result).Inc()
	if source == "network" {
		fetchDuration.Observe(d.Seconds())
	}
}

func RecordChannelsScraped(n int) { channelsScraped.Set(float64(n)) }

// RecordAlignment publishes the counts of one alignment pass.
func RecordAlignment(services, aligned, serviceOrphans, channelOrphans, unresolvedForced int) {
	servicesTotal.Set(float64(services))
	servicesAligned.Set(float64(aligned))
	orphans.WithLabelValues("service").Set(float64(serviceOrphans))
	orphans.WithLabelValues("channel").Set(float64(channelOrphans))
	orphans.WithLabelValues("forced").Set(float64(unresolvedForced))
}

func AddRenames(n int) { renamesTotal.Add(float64(n)) }

func IncPicon(outcome string) { piconsTotal.WithLabelValues(outcome).Inc() }

func IncIcon(outcome string) { iconsTotal.WithLabelValues(outcome).Inc() }
