package locate

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/positron-geo/positron/geodb"
	"github.com/positron-geo/positron/metrics"
	"github.com/positron-geo/positron/model"
	"github.com/positron-geo/positron/quota"
	"github.com/positron-geo/positron/store"
)

type staticFinder struct {
	record geodb.Record
	ok     bool
}

func (sf staticFinder) Lookup(net.IP) (geodb.Record, bool) {
	return sf.record, sf.ok
}

var londonGeoIP = staticFinder{
	record: geodb.Record{
		Lat:        51.5,
		Lon:        -0.1,
		Accuracy:   geodb.DefaultAccuracy,
		RegionCode: "GB",
		RegionName: "United Kingdom",
	},
	ok: true,
}

func testKey() quota.Key {
	return quota.Key{ValidKey: "test", AllowLocate: true, AllowRegion: true}
}

func wifiQuery() *Query {
	return &Query{
		Mode: quota.ModeLocate,
		Key:  testKey(),
		Wifis: []model.WifiObservation{
			{MAC: "aabbccddeeff"},
			{MAC: "112233445566"},
		},
		Fallbacks: Fallbacks{LACF: true, IPF: true},
	}
}

func cellQuery() *Query {
	observation := model.CellObservation{
		Radio: model.RadioGSM, MCC: 262, MNC: 1, LAC: 2, CID: 1234, PSC: -1,
	}
	area := observation
	area.CID = -1

	return &Query{
		Mode:      quota.ModeLocate,
		Key:       testKey(),
		Cells:     []model.CellObservation{observation},
		Areas:     []model.CellObservation{area},
		Fallbacks: Fallbacks{LACF: true, IPF: true},
	}
}

func TestSearchGeoIPOnly(t *testing.T) {
	recorder := metrics.NewRecorder()
	searcher := NewPositionSearcher(store.NewMemoryStore(), londonGeoIP,
		nil, recorder)

	query := &Query{
		Mode:      quota.ModeLocate,
		Key:       testKey(),
		IP:        net.ParseIP("81.2.69.142"),
		Fallbacks: Fallbacks{LACF: true, IPF: true},
	}

	result, found := searcher.Search(context.Background(), query)
	assert.True(t, found)
	assert.Equal(t, SourceGeoIP, result.Source)
	assert.InDelta(t, 51.5, result.Lat, 1e-9)
	assert.Equal(t, "", result.Source.FallbackTag())

	assert.True(t, recorder.HasRecord("incr", "locate.query",
		"key:test", "blue:none", "cell:none", "wifi:none"))
	assert.False(t, recorder.HasRecord("incr", "locate.query", "geoip:false"))
	assert.True(t, recorder.HasRecord("incr", "locate.source",
		"key:test", "source:geoip", "accuracy:low", "status:hit"))
	assert.True(t, recorder.HasRecord("incr", "locate.result",
		"key:test", "source:geoip", "accuracy:low", "status:hit",
		"fallback_allowed:false"))
}

func TestSearchGeoIPDisabledByIPF(t *testing.T) {
	searcher := NewPositionSearcher(store.NewMemoryStore(), londonGeoIP,
		nil, metrics.NewRecorder())

	query := &Query{
		Mode:      quota.ModeLocate,
		Key:       testKey(),
		IP:        net.ParseIP("81.2.69.142"),
		Fallbacks: Fallbacks{LACF: true, IPF: false},
	}

	_, found := searcher.Search(context.Background(), query)
	assert.False(t, found)
}

func TestSearchWifiMiss(t *testing.T) {
	recorder := metrics.NewRecorder()
	searcher := NewPositionSearcher(store.NewMemoryStore(), staticFinder{},
		nil, recorder)

	_, found := searcher.Search(context.Background(), wifiQuery())
	assert.False(t, found)

	assert.True(t, recorder.HasRecord("incr", "locate.query",
		"key:test", "geoip:false", "wifi:many", "cell:none", "blue:none"))
	assert.True(t, recorder.HasRecord("incr", "locate.source",
		"source:internal", "accuracy:high", "status:miss"))
	assert.True(t, recorder.HasRecord("incr", "locate.result",
		"accuracy:high", "status:miss", "fallback_allowed:false"))
}

func TestSearchWifiHit(t *testing.T) {
	networks := store.NewMemoryStore()
	networks.AddWifi("aabbccddeeff", store.Network{Lat: 1.0, Lon: 1.0, Radius: 30})

	recorder := metrics.NewRecorder()
	searcher := NewPositionSearcher(networks, staticFinder{}, nil, recorder)

	result, found := searcher.Search(context.Background(), wifiQuery())
	assert.True(t, found)
	assert.Equal(t, SourceWifi, result.Source)
	assert.InDelta(t, 30.0, result.Accuracy, 1e-9)

	assert.True(t, recorder.HasRecord("incr", "locate.result",
		"source:internal", "accuracy:high", "status:hit"))
}

func TestSearchCellHitClamped(t *testing.T) {
	query := cellQuery()

	networks := store.NewMemoryStore()
	networks.AddCell(query.Cells[0].CellID(),
		store.Network{Lat: 2.0, Lon: 2.0, Radius: 100})

	recorder := metrics.NewRecorder()
	searcher := NewPositionSearcher(networks, staticFinder{}, nil, recorder)

	result, found := searcher.Search(context.Background(), query)
	assert.True(t, found)
	assert.Equal(t, SourceCell, result.Source)
	assert.InDelta(t, 1000.0, result.Accuracy, 1e-9)

	assert.True(t, recorder.HasRecord("incr", "locate.result",
		"source:internal", "accuracy:medium", "status:hit"))
}

func TestSearchCellAreaFallback(t *testing.T) {
	query := cellQuery()

	networks := store.NewMemoryStore()
	networks.AddArea(query.Areas[0].AreaID(),
		store.Network{Lat: 3.0, Lon: 3.0, Radius: 20000})

	recorder := metrics.NewRecorder()
	searcher := NewPositionSearcher(networks, staticFinder{}, nil, recorder)

	result, found := searcher.Search(context.Background(), query)
	assert.True(t, found)
	assert.Equal(t, SourceCellArea, result.Source)
	assert.InDelta(t, 50000.0, result.Accuracy, 1e-9)
	assert.Equal(t, "lacf", result.Source.FallbackTag())

	assert.True(t, recorder.HasRecord("incr", "locate.result",
		"source:internal", "accuracy:low", "status:hit"))
}

func TestSearchCellAreaDisabledByLACF(t *testing.T) {
	query := cellQuery()
	query.Fallbacks.LACF = false

	networks := store.NewMemoryStore()
	networks.AddArea(query.Areas[0].AreaID(),
		store.Network{Lat: 3.0, Lon: 3.0, Radius: 20000})

	searcher := NewPositionSearcher(networks, staticFinder{}, nil,
		metrics.NewRecorder())

	_, found := searcher.Search(context.Background(), query)
	assert.False(t, found)
}

func TestSearchCellAreaSkippedAfterExactHit(t *testing.T) {
	query := cellQuery()

	networks := store.NewMemoryStore()
	networks.AddCell(query.Cells[0].CellID(),
		store.Network{Lat: 2.0, Lon: 2.0, Radius: 2000})
	networks.AddArea(query.Areas[0].AreaID(),
		store.Network{Lat: 3.0, Lon: 3.0, Radius: 20000})

	searcher := NewPositionSearcher(networks, staticFinder{}, nil,
		metrics.NewRecorder())

	result, found := searcher.Search(context.Background(), query)
	assert.True(t, found)
	assert.Equal(t, SourceCell, result.Source)
}

func TestSearchFallbackProvider(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := NewFallbackClient(fallbackURL, time.Second, time.Millisecond, 10)
	httpmock.ActivateNonDefault(client.client)
	httpmock.RegisterResponder(http.MethodPost, fallbackURL,
		httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]interface{}{
			"location": map[string]float64{"lat": 1.0, "lng": 1.0},
			"accuracy": 100.0,
		}))

	query := wifiQuery()
	query.Key.AllowFallback = true

	recorder := metrics.NewRecorder()
	searcher := NewPositionSearcher(store.NewMemoryStore(), staticFinder{},
		client, recorder)

	result, found := searcher.Search(context.Background(), query)
	assert.True(t, found)
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, "fallback", result.Source.FallbackTag())
	assert.InDelta(t, 100.0, result.Accuracy, 1e-9)

	internalMiss := recorder.RecordIndex("incr", "locate.source",
		"source:internal", "status:miss")
	fallbackHit := recorder.RecordIndex("incr", "locate.source",
		"source:fallback", "accuracy:high", "status:hit")

	assert.GreaterOrEqual(t, internalMiss, 0)
	assert.Greater(t, fallbackHit, internalMiss)

	assert.True(t, recorder.HasRecord("incr", "locate.result",
		"source:fallback", "accuracy:high", "status:hit",
		"fallback_allowed:true"))
}

func TestSearchFallbackSuppressedByInternalHit(t *testing.T) {
	defer httpmock.DeactivateAndReset()

	client := NewFallbackClient(fallbackURL, time.Second, time.Millisecond, 10)
	httpmock.ActivateNonDefault(client.client)

	query := wifiQuery()
	query.Key.AllowFallback = true

	networks := store.NewMemoryStore()
	networks.AddWifi("aabbccddeeff", store.Network{Lat: 1.0, Lon: 1.0, Radius: 30})

	searcher := NewPositionSearcher(networks, staticFinder{}, client,
		metrics.NewRecorder())

	result, found := searcher.Search(context.Background(), query)
	assert.True(t, found)
	assert.Equal(t, SourceWifi, result.Source)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestSearchGeoIPStillObservedAfterHit(t *testing.T) {
	networks := store.NewMemoryStore()
	networks.AddWifi("aabbccddeeff", store.Network{Lat: 1.0, Lon: 1.0, Radius: 30})

	recorder := metrics.NewRecorder()
	searcher := NewPositionSearcher(networks, londonGeoIP, nil, recorder)

	query := wifiQuery()
	query.IP = net.ParseIP("81.2.69.142")

	result, found := searcher.Search(context.Background(), query)
	assert.True(t, found)
	assert.Equal(t, SourceWifi, result.Source)

	assert.True(t, recorder.HasRecord("incr", "locate.source",
		"source:geoip", "status:hit"))
}

func TestRegionSearchGeoIP(t *testing.T) {
	recorder := metrics.NewRecorder()
	searcher := NewRegionSearcher(londonGeoIP, recorder)

	query := &Query{
		Mode:      quota.ModeRegion,
		Key:       testKey(),
		IP:        net.ParseIP("81.2.69.142"),
		Fallbacks: Fallbacks{LACF: true, IPF: true},
	}

	result, found := searcher.Search(context.Background(), query)
	assert.True(t, found)
	assert.Equal(t, ResultRegion, result.Type)
	assert.Equal(t, "GB", result.RegionCode)
	assert.Equal(t, "United Kingdom", result.RegionName)

	assert.True(t, recorder.HasRecord("incr", "region.result",
		"key:test", "source:geoip", "accuracy:low", "status:hit"))
}

func TestRegionSearchMCC(t *testing.T) {
	searcher := NewRegionSearcher(staticFinder{}, metrics.NewRecorder())

	query := cellQuery()
	query.Mode = quota.ModeRegion

	result, found := searcher.Search(context.Background(), query)
	assert.True(t, found)
	assert.Equal(t, "DE", result.RegionCode)
	assert.Equal(t, "Germany", result.RegionName)
}

func TestRegionSearchMiss(t *testing.T) {
	recorder := metrics.NewRecorder()
	searcher := NewRegionSearcher(staticFinder{}, recorder)

	query := &Query{
		Mode:      quota.ModeRegion,
		Key:       testKey(),
		Fallbacks: Fallbacks{LACF: true, IPF: true},
	}

	_, found := searcher.Search(context.Background(), query)
	assert.False(t, found)

	assert.True(t, recorder.HasRecord("incr", "region.result",
		"accuracy:low", "status:miss"))
}
