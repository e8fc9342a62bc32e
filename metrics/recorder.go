package metrics

import (
	"sync"
	"time"
)

// Record is a single emitted metric.
type Record struct {
	Kind string // "incr" or "timing"
	Name string
	Tags []string
}

// Recorder is a Sink capturing everything in memory. Tests use it to
// assert on the emitted tag stream and its ordering.
type Recorder struct {
	mutex   sync.Mutex
	records []Record
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Incr(name string, tags ...string) {
	r.append(Record{Kind: "incr", Name: name, Tags: tags})
}

func (r *Recorder) Timing(name string, _ time.Duration, tags ...string) {
	r.append(Record{Kind: "timing", Name: name, Tags: tags})
}

func (r *Recorder) append(record Record) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.records = append(r.records, record)
}

// Records returns a copy of everything captured so far, in emission order.
func (r *Recorder) Records() []Record {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	records := make([]Record, len(r.records))
	copy(records, r.records)

	return records
}

// HasRecord reports whether a record of the given kind and name carrying
// all of the given tags was captured.
func (r *Recorder) HasRecord(kind, name string, tags ...string) bool {
	return r.findRecord(kind, name, tags...) >= 0
}

// RecordIndex returns the emission position of the first matching record,
// or -1. Tests use it to assert ordering between source outcomes.
func (r *Recorder) RecordIndex(kind, name string, tags ...string) int {
	return r.findRecord(kind, name, tags...)
}

func (r *Recorder) findRecord(kind, name string, tags ...string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

outer:
	for i, record := range r.records {
		if record.Kind != kind || record.Name != name {
			continue
		}

		for _, wanted := range tags {
			if !contains(record.Tags, wanted) {
				continue outer
			}
		}

		return i
	}

	return -1
}

func contains(haystack []string, needle string) bool {
	for _, value := range haystack {
		if value == needle {
			return true
		}
	}

	return false
}
