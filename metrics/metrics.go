// Package metrics defines the counter/timing sink the resolution engine
// reports into. Tags use a fixed "name:value" vocabulary: key identity
// buckets, observation presence buckets (none/one/many), accuracy buckets
// (low/medium/high), hit/miss status, source names and the
// fallback_allowed boolean.
package metrics

import "time"

// Sink consumes structured outcome counters. Implementations must be safe
// for concurrent use and must never fail the request path.
type Sink interface {
	Incr(name string, tags ...string)
	Timing(name string, elapsed time.Duration, tags ...string)
}

// CountBucket buckets an observation count into the none/one/many tag
// vocabulary.
func CountBucket(count int) string {
	switch {
	case count <= 0:
		return "none"
	case count == 1:
		return "one"
	}

	return "many"
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Incr(string, ...string)                 {}
func (NopSink) Timing(string, time.Duration, ...string) {}
