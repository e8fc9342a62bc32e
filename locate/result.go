// Package locate implements the resolution engine: query normalization,
// the priority-ordered location sources and the accuracy-bounded result
// selection.
package locate

// SourceType enumerates the fixed set of location source variants.
type SourceType int

const (
	SourceBlue SourceType = iota
	SourceWifi
	SourceCell
	SourceCellArea
	SourceGeoIP
	SourceFallback
)

// MetricName is the source tag used in metrics. All store-backed sources
// report as "internal".
func (st SourceType) MetricName() string {
	switch st {
	case SourceGeoIP:
		return "geoip"
	case SourceFallback:
		return "fallback"
	}

	return "internal"
}

// FallbackTag is the value of the response's "fallback" field when a
// result of this source type wins: reaching it required a non-default
// fallback toggle.
func (st SourceType) FallbackTag() string {
	switch st {
	case SourceCellArea:
		return "lacf"
	case SourceFallback:
		return "fallback"
	}

	return ""
}

// Accuracy bands per source type, in meters. Whatever radius the store
// reports, a position derived from that evidence type never claims to be
// more precise than the band's floor or less precise than its ceiling.
var accuracyBands = map[SourceType][2]float64{
	SourceBlue:     {10, 100},
	SourceWifi:     {10, 500},
	SourceCell:     {1000, 40000},
	SourceCellArea: {50000, 500000},
}

// AccuracyBand returns the [min, max] band for a source type. GeoIP and
// fallback results carry the upstream's own estimate and have no band.
func AccuracyBand(st SourceType) (min, max float64, ok bool) {
	band, ok := accuracyBands[st]

	return band[0], band[1], ok
}

// Accuracy is the coarse precision bucket of a position estimate.
type Accuracy int

const (
	AccuracyLow Accuracy = iota
	AccuracyMedium
	AccuracyHigh
)

const (
	highAccuracyMeters   = 500.0
	mediumAccuracyMeters = 40000.0
)

func (a Accuracy) String() string {
	switch a {
	case AccuracyHigh:
		return "high"
	case AccuracyMedium:
		return "medium"
	}

	return "low"
}

// Meters is the worst (largest) accuracy value still inside the bucket.
func (a Accuracy) Meters() float64 {
	switch a {
	case AccuracyHigh:
		return highAccuracyMeters
	case AccuracyMedium:
		return mediumAccuracyMeters
	}

	return 40075000 // nothing beats a terrestrial position

}

// BucketFor buckets a concrete accuracy value in meters.
func BucketFor(meters float64) Accuracy {
	switch {
	case meters <= highAccuracyMeters:
		return AccuracyHigh
	case meters <= mediumAccuracyMeters:
		return AccuracyMedium
	}

	return AccuracyLow
}

// ResultType distinguishes coordinate estimates from region estimates.
type ResultType int

const (
	ResultPosition ResultType = iota
	ResultRegion
)

// Result is a single candidate produced by a source.
type Result struct {
	Type       ResultType
	Source     SourceType
	Lat        float64
	Lon        float64
	Accuracy   float64
	RegionCode string
	RegionName string
}

// NewPosition builds a position candidate, clamping the accuracy into the
// source type's band when one exists.
func NewPosition(source SourceType, lat, lon, accuracy float64) Result {
	if min, max, ok := AccuracyBand(source); ok {
		if accuracy < min {
			accuracy = min
		}
		if accuracy > max {
			accuracy = max
		}
	}

	return Result{
		Type:     ResultPosition,
		Source:   source,
		Lat:      lat,
		Lon:      lon,
		Accuracy: accuracy,
	}
}

// NewRegion builds a region candidate.
func NewRegion(source SourceType, code, name string) Result {
	return Result{
		Type:       ResultRegion,
		Source:     source,
		RegionCode: code,
		RegionName: name,
	}
}

// ResultList accumulates candidates in source priority order.
type ResultList []Result

// BestPosition selects the position with the numerically smallest clamped
// accuracy. Ties go to the earlier (higher priority) candidate.
func (rl ResultList) BestPosition() (Result, bool) {
	best := Result{}
	found := false

	for _, result := range rl {
		if result.Type != ResultPosition {
			continue
		}

		if !found || result.Accuracy < best.Accuracy {
			best = result
			found = true
		}
	}

	return best, found
}

// FirstRegion returns the earliest region candidate.
func (rl ResultList) FirstRegion() (Result, bool) {
	for _, result := range rl {
		if result.Type == ResultRegion {
			return result, true
		}
	}

	return Result{}, false
}

// Satisfies reports whether an internal-tier position already meets the
// wanted accuracy. GeoIP and fallback candidates never count: a city
// sized GeoIP estimate must not suppress more precise sources.
func (rl ResultList) Satisfies(wanted Accuracy) bool {
	for _, result := range rl {
		if result.Type != ResultPosition {
			continue
		}

		switch result.Source {
		case SourceGeoIP, SourceFallback:
			continue
		}

		if result.Accuracy <= wanted.Meters() {
			return true
		}
	}

	return false
}
