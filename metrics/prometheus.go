package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var durationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000}

// PrometheusSink exposes the sink's counter families through a prometheus
// registry. Each metric name is pre-registered with its label set; tags
// not in the label set are dropped, missing labels report as "".
type PrometheusSink struct {
	counters   map[string]*counterFamily
	histograms map[string]*histogramFamily
}

type counterFamily struct {
	labels []string
	vec    *prometheus.CounterVec
}

type histogramFamily struct {
	labels []string
	vec    *prometheus.HistogramVec
}

func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	sink := &PrometheusSink{
		counters:   map[string]*counterFamily{},
		histograms: map[string]*histogramFamily{},
	}

	sink.counter(reg, "request", "path", "method", "status")

	for _, mode := range []string{"locate", "region"} {
		sink.counter(reg, mode+".request", "path", "key")
		sink.counter(reg, mode+".query", "key", "geoip", "blue", "cell", "wifi")
		sink.counter(reg, mode+".source", "key", "source", "accuracy", "status")
		sink.counter(reg, mode+".result",
			"key", "source", "accuracy", "status", "fallback_allowed")
	}

	sink.histogram(reg, "request.timing", "path", "method")

	return sink
}

func (ps *PrometheusSink) counter(reg prometheus.Registerer, name string, labels ...string) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: promName(name) + "_total",
		Help: "Counter for " + name + " events.",
	}, labels)
	reg.MustRegister(vec)

	ps.counters[name] = &counterFamily{labels: labels, vec: vec}
}

func (ps *PrometheusSink) histogram(reg prometheus.Registerer, name string, labels ...string) {
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    promName(name) + "_ms",
		Help:    "Timing for " + name + " in milliseconds.",
		Buckets: durationBuckets,
	}, labels)
	reg.MustRegister(vec)

	ps.histograms[name] = &histogramFamily{labels: labels, vec: vec}
}

func (ps *PrometheusSink) Incr(name string, tags ...string) {
	family, ok := ps.counters[name]
	if !ok {
		return
	}

	family.vec.WithLabelValues(labelValues(family.labels, tags)...).Inc()
}

func (ps *PrometheusSink) Timing(name string, elapsed time.Duration, tags ...string) {
	family, ok := ps.histograms[name]
	if !ok {
		return
	}

	value := float64(elapsed) / float64(time.Millisecond)
	family.vec.WithLabelValues(labelValues(family.labels, tags)...).Observe(value)
}

func labelValues(labels []string, tags []string) []string {
	byName := make(map[string]string, len(tags))

	for _, tag := range tags {
		if idx := strings.IndexByte(tag, ':'); idx > 0 {
			byName[tag[:idx]] = tag[idx+1:]
		}
	}

	values := make([]string, len(labels))
	for i, label := range labels {
		values[i] = byName[label]
	}

	return values
}

func promName(name string) string {
	return strings.NewReplacer(".", "_", "-", "_").Replace(name)
}
