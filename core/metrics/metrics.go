package metrics

import (
	"fmt"
	"time"

	"whitelist-sync/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "whitelist_sync"

// Recorder exposes the outcome of the last run as Prometheus gauges.
// A sync run is a short-lived batch job, so values are written to a
// node-exporter textfile rather than served.
type Recorder struct {
	registry *prometheus.Registry

	success   prometheus.Gauge
	timestamp prometheus.Gauge
	duration  prometheus.Gauge
	dryRun    prometheus.Gauge
	counts    *prometheus.GaugeVec
	actions   *prometheus.GaugeVec
}

// NewRecorder registers the run metrics on a fresh registry.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		success: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_success",
			Help:      "1 if the last run completed, 0 if it failed",
		}),
		timestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run",
		}),
		dryRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_dry_run",
			Help:      "1 if the last run was a dry run",
		}),
		counts: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_records",
			Help:      "Summary counters of the last run by kind",
		}, []string{"kind"}),
		actions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_actions",
			Help:      "Actions taken by the last run by type",
		}, []string{"type"}),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records a finished run. result may be nil when runErr is set.
func (r *Recorder) Observe(result *reconcile.Result, elapsed time.Duration, runErr error) {
	r.timestamp.Set(float64(time.Now().Unix()))
	r.duration.Set(elapsed.Seconds())

	if runErr != nil {
		r.success.Set(0)
	} else {
		r.success.Set(1)
	}

	if result == nil {
		return
	}

	if result.DryRun {
		r.dryRun.Set(1)
	} else {
		r.dryRun.Set(0)
	}

	for kind, n := range summaryCounts(result.Summary) {
		r.counts.WithLabelValues(kind).Set(float64(n))
	}
	for _, t := range actionTypes {
		r.actions.WithLabelValues(string(t)).Set(float64(result.Count(t)))
	}
}

// WriteTextfile writes the registry in text exposition format to path.
// It is a no-op when path is empty.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}

var actionTypes = []reconcile.ActionType{
	reconcile.ActionUnlist,
	reconcile.ActionBan,
	reconcile.ActionEvict,
	reconcile.ActionAdmit,
	reconcile.ActionDefer,
	reconcile.ActionUntraced,
}

func summaryCounts(s reconcile.Summary) map[string]int {
	return map[string]int{
		"local_bans":        s.LocalBans,
		"backfilled":        s.Backfilled,
		"pending_bans":      s.PendingBans,
		"untraced_bans":     s.UntracedBans,
		"whitelist_removed": s.WhitelistRemoved,
		"bans_appended":     s.BansAppended,
		"evicted":           s.Evicted,
		"requests":          s.Requests,
		"skipped_banned":    s.SkippedBanned,
		"skipped_listed":    s.SkippedListed,
		"not_found":         s.NotFound,
		"deferred":          s.Deferred,
		"admitted":          s.Admitted,
		"snapshot_size":     s.SnapshotSize,
	}
}
