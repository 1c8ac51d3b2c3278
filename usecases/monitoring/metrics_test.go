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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewMetrics(reg)

	m.ObserveStep("distinct", "success", 10, 4, time.Millisecond)
	m.AddExtracted(3)
	m.AddBytesRead(128)
	m.AddLinesWritten(5)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.StepsTotal.WithLabelValues("distinct", "success")))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.TokensTotal.WithLabelValues("distinct", "applied")))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.TokensTotal.WithLabelValues("distinct", "ignored")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.ExtractedTotal))
	assert.Equal(t, float64(128), testutil.ToFloat64(m.FileBytesRead))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.LinesWritten))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveStep("union", "error", 1, 0, time.Second)
		m.AddExtracted(1)
		m.AddBytesRead(1)
		m.AddLinesWritten(1)
	})
}

func TestMetrics_NoopRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		// registering twice on a real registry would panic
		NewMetrics(&NoopPrometheusRegistry{})
		NewMetrics(&NoopPrometheusRegistry{})
	})
}
