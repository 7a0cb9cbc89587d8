package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewPromRecorder(reg)
	require.NoError(t, err)

	r.ObserveSimulation(2*time.Millisecond, 41, 17)
	r.RecordFetch(FetchOK)
	r.RecordFetch(FetchError)
	r.RecordFetch(FetchError)
	r.RecordCache(true)
	r.RecordCache(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.simulations))
	assert.Equal(t, 41.0, testutil.ToFloat64(r.slots))
	assert.Equal(t, 17.0, testutil.ToFloat64(r.scenarios))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetches.WithLabelValues(FetchError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.cache.WithLabelValues("hit")))
}

func TestPromRecorderReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromRecorder(reg)
	require.NoError(t, err)
	b, err := NewPromRecorder(reg)
	require.NoError(t, err)

	a.RecordFetch(FetchOK)
	b.RecordFetch(FetchOK)
	assert.Equal(t, 2.0, testutil.ToFloat64(b.fetches.WithLabelValues(FetchOK)))
}
