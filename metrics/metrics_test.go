package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountBucket(t *testing.T) {
	assert.Equal(t, "none", CountBucket(0))
	assert.Equal(t, "none", CountBucket(-1))
	assert.Equal(t, "one", CountBucket(1))
	assert.Equal(t, "many", CountBucket(2))
	assert.Equal(t, "many", CountBucket(100))
}

func TestRecorder(t *testing.T) {
	recorder := NewRecorder()
	recorder.Incr("locate.query", "key:test", "wifi:many")
	recorder.Timing("request.timing", time.Millisecond, "path:v1.geolocate")

	assert.True(t, recorder.HasRecord("incr", "locate.query", "key:test"))
	assert.True(t, recorder.HasRecord("incr", "locate.query",
		"key:test", "wifi:many"))
	assert.False(t, recorder.HasRecord("incr", "locate.query", "key:other"))
	assert.False(t, recorder.HasRecord("timing", "locate.query"))
	assert.True(t, recorder.HasRecord("timing", "request.timing"))

	assert.Equal(t, 0, recorder.RecordIndex("incr", "locate.query"))
	assert.Equal(t, 1, recorder.RecordIndex("timing", "request.timing"))
	assert.Equal(t, -1, recorder.RecordIndex("incr", "missing"))
}

func TestPrometheusSinkIncr(t *testing.T) {
	registry := prometheus.NewRegistry()
	sink := NewPrometheusSink(registry)

	sink.Incr("request",
		"path:v1.geolocate", "method:post", "status:200")
	sink.Incr("request",
		"path:v1.geolocate", "method:post", "status:200")
	sink.Incr("locate.result",
		"key:test", "accuracy:high", "status:hit", "source:internal",
		"fallback_allowed:false")

	families, err := registry.Gather()
	assert.Nil(t, err)

	names := make([]string, 0, len(families))
	for _, family := range families {
		names = append(names, family.GetName())
	}
	assert.Contains(t, names, "request_total")
	assert.Contains(t, names, "locate_result_total")

	counter, err := sink.counters["request"].vec.GetMetricWithLabelValues(
		"v1.geolocate", "post", "200")
	assert.Nil(t, err)
	assert.InDelta(t, 2.0, testutil.ToFloat64(counter), 1e-9)
}

func TestPrometheusSinkUnknownMetric(t *testing.T) {
	registry := prometheus.NewRegistry()
	sink := NewPrometheusSink(registry)

	// Unregistered names are dropped rather than panicking.
	sink.Incr("no.such.metric", "tag:value")
	sink.Timing("no.such.timing", time.Millisecond)
}
