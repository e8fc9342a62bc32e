package locate

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/positron-geo/positron/model"
	"github.com/positron-geo/positron/store"
)

// The internal sources answer from the persisted network records: exact
// matches by MAC or full cell identifier, plus the deliberately coarser
// cell-area fallback.

type blueSource struct {
	networks store.NetworkStore
}

func (bs *blueSource) Type() SourceType {
	return SourceBlue
}

func (bs *blueSource) ShouldSearch(query *Query, _ ResultList) bool {
	return len(query.Blues) > 0
}

func (bs *blueSource) Search(ctx context.Context, query *Query) ResultList {
	macs := make([]string, 0, len(query.Blues))
	for _, observation := range query.Blues {
		macs = append(macs, observation.MAC)
	}

	networks, err := bs.networks.BlueNetworks(ctx, macs)

	return networkResults(SourceBlue, networks, err)
}

type wifiSource struct {
	networks store.NetworkStore
}

func (ws *wifiSource) Type() SourceType {
	return SourceWifi
}

func (ws *wifiSource) ShouldSearch(query *Query, _ ResultList) bool {
	return len(query.Wifis) > 0
}

func (ws *wifiSource) Search(ctx context.Context, query *Query) ResultList {
	macs := make([]string, 0, len(query.Wifis))
	for _, observation := range query.Wifis {
		macs = append(macs, observation.MAC)
	}

	networks, err := ws.networks.WifiNetworks(ctx, macs)

	return networkResults(SourceWifi, networks, err)
}

type cellSource struct {
	networks store.NetworkStore
}

func (cs *cellSource) Type() SourceType {
	return SourceCell
}

func (cs *cellSource) ShouldSearch(query *Query, _ ResultList) bool {
	return len(query.Cells) > 0
}

func (cs *cellSource) Search(ctx context.Context, query *Query) ResultList {
	ids := make([]model.CellID, 0, len(query.Cells))
	for _, observation := range query.Cells {
		ids = append(ids, observation.CellID())
	}

	networks, err := cs.networks.CellNetworks(ctx, ids)

	return networkResults(SourceCell, networks, err)
}

type cellAreaSource struct {
	networks store.NetworkStore
}

func (cas *cellAreaSource) Type() SourceType {
	return SourceCellArea
}

// The area source is a fallback within the internal tier: it only runs
// when the client left lacf enabled and nothing more precise than a cell
// position was gathered already.
func (cas *cellAreaSource) ShouldSearch(query *Query, gathered ResultList) bool {
	if len(query.Areas) == 0 || !query.Fallbacks.LACF {
		return false
	}

	return !gathered.Satisfies(AccuracyMedium)
}

func (cas *cellAreaSource) Search(ctx context.Context, query *Query) ResultList {
	ids := make([]model.AreaID, 0, len(query.Areas))
	for _, observation := range query.Areas {
		ids = append(ids, observation.AreaID())
	}

	networks, err := cas.networks.CellAreas(ctx, ids)

	return networkResults(SourceCellArea, networks, err)
}

func networkResults(source SourceType, networks []store.Network, err error) ResultList {
	if err != nil {
		log.WithFields(log.Fields{
			"source": source.MetricName(),
			"error":  err.Error(),
		}).Error("Network store lookup failed.")

		return nil
	}

	results := make(ResultList, 0, len(networks))
	for _, network := range networks {
		results = append(results,
			NewPosition(source, network.Lat, network.Lon, network.Radius))
	}

	return results
}
