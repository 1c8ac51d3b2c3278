//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "setstream"

// Metrics collects pipeline execution metrics. All methods are safe to call
// on a nil *Metrics, which disables collection.
type Metrics struct {
	// Step metrics
	StepsTotal   *prometheus.CounterVec
	TokensTotal  *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec

	// Result metrics
	ExtractedTotal prometheus.Counter

	// File metrics
	FileBytesRead prometheus.Counter
	LinesWritten  prometheus.Counter
}

// NewMetrics registers all collectors on reg. Passing nil registers them
// nowhere, which is useful for tests that want to read counters directly.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = noop
	}

	return &Metrics{
		StepsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_total",
				Help:      "Total number of executed chain steps",
			},
			[]string{"operator", "status"}, // status: success/error
		),
		TokensTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Total number of tokens consumed by chain steps",
			},
			[]string{"operator", "outcome"}, // outcome: applied/ignored
		),
		StepDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "step_duration_seconds",
				Help:      "Duration of a single chain step",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"operator"},
		),
		ExtractedTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extracted_total",
				Help:      "Total number of elements removed by random extraction",
			},
		),
		FileBytesRead: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "file_bytes_read_total",
				Help:      "Total number of bytes read from file sources",
			},
		),
		LinesWritten: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lines_written_total",
				Help:      "Total number of lines written by result exports",
			},
		),
	}
}

func (m *Metrics) ObserveStep(operator, status string, tokens, applied uint64, took time.Duration) {
	if m == nil {
		return
	}

	m.StepsTotal.WithLabelValues(operator, status).Inc()
	m.TokensTotal.WithLabelValues(operator, "applied").Add(float64(applied))
	m.TokensTotal.WithLabelValues(operator, "ignored").Add(float64(tokens - applied))
	m.StepDuration.WithLabelValues(operator).Observe(took.Seconds())
}

func (m *Metrics) AddExtracted(n uint64) {
	if m == nil {
		return
	}
	m.ExtractedTotal.Add(float64(n))
}

func (m *Metrics) AddBytesRead(n int64) {
	if m == nil {
		return
	}
	m.FileBytesRead.Add(float64(n))
}

func (m *Metrics) AddLinesWritten(n int) {
	if m == nil {
		return
	}
	m.LinesWritten.Add(float64(n))
}
