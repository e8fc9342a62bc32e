package locate

import (
	"context"

	"github.com/positron-geo/positron/geodb"
	"github.com/positron-geo/positron/model"
)

// geoipPositionSource resolves the requester IP into a coarse position.
// It also runs after an internal hit so dashboards can compare GeoIP
// against the stronger evidence.
type geoipPositionSource struct {
	finder geodb.Finder
}

func (gs *geoipPositionSource) Type() SourceType {
	return SourceGeoIP
}

func (gs *geoipPositionSource) ShouldSearch(query *Query, _ ResultList) bool {
	return gs.finder != nil && query.IP != nil && query.Fallbacks.IPF
}

func (gs *geoipPositionSource) Search(_ context.Context, query *Query) ResultList {
	record, ok := gs.finder.Lookup(query.IP)
	if !ok {
		return nil
	}

	return ResultList{
		NewPosition(SourceGeoIP, record.Lat, record.Lon, record.Accuracy),
	}
}

type geoipRegionSource struct {
	finder geodb.Finder
}

func (gs *geoipRegionSource) Type() SourceType {
	return SourceGeoIP
}

func (gs *geoipRegionSource) ShouldSearch(query *Query, _ ResultList) bool {
	return gs.finder != nil && query.IP != nil && query.Fallbacks.IPF
}

func (gs *geoipRegionSource) Search(_ context.Context, query *Query) ResultList {
	record, ok := gs.finder.Lookup(query.IP)
	if !ok || record.RegionCode == "" {
		return nil
	}

	return ResultList{
		NewRegion(SourceGeoIP, record.RegionCode, record.RegionName),
	}
}

// mccRegionSource derives a region from the mobile country codes of the
// observed cells. It only answers when all observations agree on a single
// region and GeoIP produced nothing.
type mccRegionSource struct{}

func (ms *mccRegionSource) Type() SourceType {
	return SourceCellArea
}

func (ms *mccRegionSource) ShouldSearch(query *Query, gathered ResultList) bool {
	if _, found := gathered.FirstRegion(); found {
		return false
	}

	return len(query.Areas) > 0
}

func (ms *mccRegionSource) Search(_ context.Context, query *Query) ResultList {
	code := ""
	name := ""

	for _, observation := range query.Areas {
		regionCode, regionName, ok := model.RegionForMCC(observation.MCC)
		if !ok {
			return nil
		}
		if code != "" && code != regionCode {
			// Ambiguous border observation, better no answer than a
			// coin flip.
			return nil
		}

		code, name = regionCode, regionName
	}

	if code == "" {
		return nil
	}

	return ResultList{NewRegion(SourceCellArea, code, name)}
}
