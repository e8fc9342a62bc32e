package store

import (
	"context"
	"sync"

	"github.com/positron-geo/positron/model"
)

// MemoryStore is a NetworkStore backed by in-process maps. It is used in
// tests and local development; it also counts lookups so callers can
// assert that rejected requests never touch storage.
type MemoryStore struct {
	mutex   sync.RWMutex
	blues   map[string]Network
	wifis   map[string]Network
	cells   map[model.CellID]Network
	areas   map[model.AreaID]Network
	lookups int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blues: make(map[string]Network),
		wifis: make(map[string]Network),
		cells: make(map[model.CellID]Network),
		areas: make(map[model.AreaID]Network),
	}
}

func (ms *MemoryStore) AddBlue(mac string, network Network) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.blues[mac] = network
}

func (ms *MemoryStore) AddWifi(mac string, network Network) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.wifis[mac] = network
}

func (ms *MemoryStore) AddCell(id model.CellID, network Network) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.cells[id] = network
}

func (ms *MemoryStore) AddArea(id model.AreaID, network Network) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.areas[id] = network
}

// Lookups returns how many store queries were performed.
func (ms *MemoryStore) Lookups() int {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return ms.lookups
}

func (ms *MemoryStore) BlueNetworks(_ context.Context, macs []string) ([]Network, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.lookups++

	var networks []Network
	for _, mac := range macs {
		if network, ok := ms.blues[mac]; ok {
			networks = append(networks, network)
		}
	}

	return networks, nil
}

func (ms *MemoryStore) WifiNetworks(_ context.Context, macs []string) ([]Network, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.lookups++

	var networks []Network
	for _, mac := range macs {
		if network, ok := ms.wifis[mac]; ok {
			networks = append(networks, network)
		}
	}

	return networks, nil
}

func (ms *MemoryStore) CellNetworks(_ context.Context, ids []model.CellID) ([]Network, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.lookups++

	var networks []Network
	for _, id := range ids {
		if network, ok := ms.cells[id]; ok {
			networks = append(networks, network)
		}
	}

	return networks, nil
}

func (ms *MemoryStore) CellAreas(_ context.Context, ids []model.AreaID) ([]Network, error) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.lookups++

	var networks []Network
	for _, id := range ids {
		if network, ok := ms.areas[id]; ok {
			networks = append(networks, network)
		}
	}

	return networks, nil
}
