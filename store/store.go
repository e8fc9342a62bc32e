// Package store provides access to the persisted network position records
// used by the internal location sources.
package store

import (
	"context"

	"github.com/positron-geo/positron/model"
)

// Network is a stored network record: the estimated center of the network
// and the radius, in meters, covering its observations.
type Network struct {
	Lat    float64
	Lon    float64
	Radius float64
}

// NetworkStore looks up network records by identifier equality. Lookups
// are read-only; missing identifiers are simply absent from the returned
// slice, they are not errors.
type NetworkStore interface {
	BlueNetworks(ctx context.Context, macs []string) ([]Network, error)
	WifiNetworks(ctx context.Context, macs []string) ([]Network, error)
	CellNetworks(ctx context.Context, ids []model.CellID) ([]Network, error)
	CellAreas(ctx context.Context, ids []model.AreaID) ([]Network, error)
}
