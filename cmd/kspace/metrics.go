// SPDX-License-Identifier: MIT

package main

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "kspace"

// runMetrics is a per-run registry. A batch CLI has nothing to scrape it, so
// it is dumped in the node-exporter textfile format when a path is set.
type runMetrics struct {
	reg      *prometheus.Registry
	stage    *prometheus.HistogramVec
	kpoints  prometheus.Gauge
	bands    prometheus.Gauge
	energies prometheus.Gauge
	runs     *prometheus.CounterVec
}

func newRunMetrics() *runMetrics {
	m := &runMetrics{
		reg: prometheus.NewRegistry(),
		stage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time of each run stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		kpoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "kpoints",
			Help:      "Number of k-points in the mesh.",
		}),
		bands: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "bands",
			Help:      "Number of bands per k-point.",
		}),
		energies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "fermi_levels",
			Help:      "Number of Fermi levels on the energy grid.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Compute runs by outcome.",
		}, []string{"status"}),
	}
	m.reg.MustRegister(m.stage, m.kpoints, m.bands, m.energies, m.runs)

	return m
}

// time observes the duration of fn under the given stage label.
func (m *runMetrics) time(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	m.stage.WithLabelValues(stage).Observe(time.Since(start).Seconds())

	return err
}

// done records the outcome of a run.
func (m *runMetrics) done(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.runs.WithLabelValues(status).Inc()
}

// write dumps the registry to path; an empty path is a no-op.
func (m *runMetrics) write(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return errors.Wrapf(err, "metrics file %q", path)
	}

	return nil
}
