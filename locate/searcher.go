package locate

import (
	"context"

	"github.com/positron-geo/positron/geodb"
	"github.com/positron-geo/positron/metrics"
	"github.com/positron-geo/positron/quota"
	"github.com/positron-geo/positron/store"
)

// Searcher walks a fixed, priority-ordered source list, asking each
// source whether it wants to run against what was gathered so far, and
// reduces the accumulated candidates to a final answer. The ordering is a
// design constant, never client-configurable.
type Searcher struct {
	mode    quota.Mode
	sources []Source
	sink    metrics.Sink
}

// NewPositionSearcher builds the locate-capability source list: exact
// internal lookups by specificity, then the cell-area fallback, then
// GeoIP, then the external fallback provider.
func NewPositionSearcher(networks store.NetworkStore, finder geodb.Finder,
	fallback *FallbackClient, sink metrics.Sink) *Searcher {
	return &Searcher{
		mode: quota.ModeLocate,
		sink: sink,
		sources: []Source{
			&blueSource{networks: networks},
			&wifiSource{networks: networks},
			&cellSource{networks: networks},
			&cellAreaSource{networks: networks},
			&geoipPositionSource{finder: finder},
			&fallbackSource{client: fallback},
		},
	}
}

// NewRegionSearcher builds the region-capability source list: GeoIP,
// then the MCC-derived region.
func NewRegionSearcher(finder geodb.Finder, sink metrics.Sink) *Searcher {
	return &Searcher{
		mode: quota.ModeRegion,
		sink: sink,
		sources: []Source{
			&geoipRegionSource{finder: finder},
			&mccRegionSource{},
		},
	}
}

// Search resolves a query. The boolean reports whether any acceptable
// result was found.
func (s *Searcher) Search(ctx context.Context, query *Query) (Result, bool) {
	keyTag := "key:" + query.Key.ValidKey

	s.sink.Incr(string(s.mode)+".query",
		append([]string{keyTag}, query.MetricTags()...)...)

	gathered := ResultList{}

	for _, source := range s.sources {
		if !source.ShouldSearch(query, gathered) {
			continue
		}

		results := source.Search(ctx, query)
		s.emitSourceStats(query, source, keyTag, results)

		gathered = append(gathered, results...)
	}

	result, found := s.selectResult(gathered)
	s.emitResultStats(query, keyTag, result, found)

	return result, found
}

func (s *Searcher) selectResult(gathered ResultList) (Result, bool) {
	if s.mode == quota.ModeRegion {
		return gathered.FirstRegion()
	}

	return gathered.BestPosition()
}

func (s *Searcher) emitSourceStats(query *Query, source Source, keyTag string, results ResultList) {
	tags := []string{
		keyTag,
		"source:" + source.Type().MetricName(),
	}

	if best, found := results.BestPosition(); found {
		tags = append(tags,
			"accuracy:"+BucketFor(best.Accuracy).String(), "status:hit")
	} else if _, found := results.FirstRegion(); found {
		tags = append(tags, "accuracy:low", "status:hit")
	} else {
		tags = append(tags,
			"accuracy:"+query.ExpectedAccuracy().String(), "status:miss")
	}

	s.sink.Incr(string(s.mode)+".source", tags...)
}

func (s *Searcher) emitResultStats(query *Query, keyTag string, result Result, found bool) {
	tags := []string{
		keyTag,
		"fallback_allowed:" + boolTag(query.Key.AllowFallback),
	}

	if found {
		accuracy := "low"
		if result.Type == ResultPosition {
			accuracy = BucketFor(result.Accuracy).String()
		}
		tags = append(tags, "accuracy:"+accuracy, "status:hit",
			"source:"+result.Source.MetricName())
	} else {
		tags = append(tags,
			"accuracy:"+query.ExpectedAccuracy().String(), "status:miss")
	}

	s.sink.Incr(string(s.mode)+".result", tags...)
}

func boolTag(value bool) string {
	if value {
		return "true"
	}

	return "false"
}
