// Package metrics exports the progress of improvement sessions as
// Prometheus metrics.
//
// A Recorder is registered on a caller-supplied registry and fed through
// the session progress hook:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewRecorder(reg)
//	s, _ := improve.NewSession(m, opts, improve.WithProgress(rec.Observe))
//
// Gauges hold the latest report of any session; counters accumulate over
// every session that shares the Recorder. All operations are safe for
// concurrent use.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/tetimprove/improve"
)

const namespace = "tetimprove"

// Recorder holds the collectors fed by Observe.
type Recorder struct {
	// PassesTotal counts finished passes.
	// Labels: kind (smoothing, topological, ...), outcome (success, none)
	PassesTotal *prometheus.CounterVec

	// WorklistSize is the distribution of worklist lengths per pass.
	// Labels: kind
	WorklistSize *prometheus.HistogramVec

	// CandidatesImproved counts worklist candidates an operator changed.
	// Labels: kind
	CandidatesImproved *prometheus.CounterVec

	// SessionsTotal counts sessions that reached teardown.
	SessionsTotal prometheus.Counter

	// MinQuality is the global minimum quality at the latest checkpoint.
	MinQuality prometheus.Gauge

	// Tets and Vertices are the mesh size at the latest checkpoint.
	Tets     prometheus.Gauge
	Vertices prometheus.Gauge

	// OperatorAttempts and OperatorSuccesses mirror improve.Stats of the
	// latest report.
	// Labels: op (smooth, flip23, ...)
	OperatorAttempts  *prometheus.GaugeVec
	OperatorSuccesses *prometheus.GaugeVec

	// Rollbacks mirrors improve.Stats.Rollbacks of the latest report.
	Rollbacks prometheus.Gauge
}

// NewRecorder creates the collectors and registers them on reg. A nil reg
// leaves them unregistered. Registering twice on one registry panics.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		PassesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "total",
			Help:      "Finished improvement passes by kind and outcome",
		}, []string{"kind", "outcome"}),
		WorklistSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "worklist_size",
			Help:      "Number of candidate elements per pass",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"kind"}),
		CandidatesImproved: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "candidates_improved_total",
			Help:      "Worklist candidates changed by an operator",
		}, []string{"kind"}),
		SessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Improvement sessions that reached teardown",
		}),
		MinQuality: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mesh",
			Name:      "min_quality",
			Help:      "Global minimum element quality at the latest checkpoint",
		}),
		Tets: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mesh",
			Name:      "tets",
			Help:      "Live tetrahedra at the latest checkpoint",
		}),
		Vertices: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mesh",
			Name:      "vertices",
			Help:      "Live vertices at the latest checkpoint",
		}),
		OperatorAttempts: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "operator",
			Name:      "attempts",
			Help:      "Operator attempts in the latest reporting session",
		}, []string{"op"}),
		OperatorSuccesses: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "operator",
			Name:      "successes",
			Help:      "Operator successes in the latest reporting session",
		}, []string{"op"}),
		Rollbacks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rollbacks",
			Help:      "Journal rollbacks in the latest reporting session",
		}),
	}
}

// Observe records one progress report. Its signature matches
// improve.WithProgress.
func (r *Recorder) Observe(rep improve.Report) {
	r.MinQuality.Set(rep.Measurement.Min)
	r.Tets.Set(float64(rep.Tets))
	r.Vertices.Set(float64(rep.Vertices))
	r.Rollbacks.Set(float64(rep.Stats.Rollbacks))
	for op, s := range operators(rep.Stats) {
		r.OperatorAttempts.WithLabelValues(op).Set(float64(s.Attempts))
		r.OperatorSuccesses.WithLabelValues(op).Set(float64(s.Successes))
	}

	switch rep.Checkpoint {
	case improve.CheckpointPass:
		if rep.Pass == nil {
			return
		}
		kind := rep.Pass.Kind.String()
		outcome := "none"
		if rep.Pass.Succeeded() {
			outcome = "success"
		}
		r.PassesTotal.WithLabelValues(kind, outcome).Inc()
		r.WorklistSize.WithLabelValues(kind).Observe(float64(rep.Pass.Worklist))
		r.CandidatesImproved.WithLabelValues(kind).Add(float64(rep.Pass.Successes))
	case improve.CheckpointTeardown:
		r.SessionsTotal.Inc()
	}
}

func operators(s improve.Stats) map[string]improve.OpStats {
	return map[string]improve.OpStats{
		"smooth":         s.Smooth,
		"flip23":         s.Flip23,
		"flip32":         s.Flip32,
		"edge_removal":   s.EdgeRemoval,
		"flip22":         s.Flip22,
		"contract":       s.Contract,
		"insert_body":    s.InsertBody,
		"insert_facet":   s.InsertFacet,
		"insert_segment": s.InsertSegment,
		"split":          s.Split,
	}
}
