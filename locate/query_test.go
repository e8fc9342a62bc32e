package locate

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/positron-geo/positron/model"
	"github.com/positron-geo/positron/quota"
)

func parseOk(t *testing.T, body string) *Query {
	t.Helper()

	query, invalid := ParseQuery([]byte(body), quota.Key{ValidKey: "test"},
		quota.ModeLocate, nil)
	assert.Nil(t, invalid)
	assert.NotNil(t, query)

	return query
}

func TestParseQueryEmptyBody(t *testing.T) {
	query, invalid := ParseQuery(nil, quota.Key{ValidKey: "test"},
		quota.ModeLocate, net.ParseIP("81.2.69.142"))

	assert.Nil(t, invalid)
	assert.Empty(t, query.Blues)
	assert.Empty(t, query.Wifis)
	assert.Empty(t, query.Cells)
	assert.Empty(t, query.Areas)
	assert.True(t, query.Fallbacks.LACF)
	assert.True(t, query.Fallbacks.IPF)
	assert.Equal(t, net.ParseIP("81.2.69.142"), query.IP)
}

func TestParseQueryNotMapping(t *testing.T) {
	for _, body := range []string{"[1]", `"slip"`, "1"} {
		_, invalid := ParseQuery([]byte(body), quota.Key{},
			quota.ModeLocate, nil)
		assert.NotNil(t, invalid, body)
		assert.Contains(t, invalid.Fields, "")
		assert.Contains(t, invalid.Fields[""], "is not a mapping type")
	}
}

func TestParseQueryWrongShapeField(t *testing.T) {
	_, invalid := ParseQuery(
		[]byte(`{"wifiAccessPoints": {"macAddress": "aabbccddeeff"}}`),
		quota.Key{}, quota.ModeLocate, nil)

	assert.NotNil(t, invalid)
	assert.Contains(t, invalid.Fields, "wifiAccessPoints")
	assert.Contains(t, invalid.Fields["wifiAccessPoints"], "is not an array")
}

func TestParseQueryIgnoresUnknownFields(t *testing.T) {
	query := parseOk(t, `{"homeMobileCountryCode": 262, "carrier": "O2"}`)

	assert.Empty(t, query.Cells)
	assert.Empty(t, query.Wifis)
}

func TestParseQueryWifiNormalizeAndDedupe(t *testing.T) {
	query := parseOk(t, `{"wifiAccessPoints": [
		{"macAddress": "AA:BB:CC:DD:EE:FF"},
		{"macAddress": "aabbccddeeff"},
		{"macAddress": "aa-bb-cc-dd-ee-ff"},
		{"macAddress": "11:22:33:44:55:66"}
	]}`)

	assert.Len(t, query.Wifis, 2)
	assert.Equal(t, "aabbccddeeff", query.Wifis[0].MAC)
	assert.Equal(t, "112233445566", query.Wifis[1].MAC)
}

func TestParseQueryDropsBrokenEntries(t *testing.T) {
	query := parseOk(t, `{"wifiAccessPoints": [
		{"macAddress": "foo"},
		{"macAddress": "000000000000"},
		{"macAddress": "ffffffffffff"},
		{"macAddress": "01005e901000"},
		{},
		{"macAddress": "aabbccddeeff"}
	]}`)

	assert.Len(t, query.Wifis, 1)
	assert.Equal(t, "aabbccddeeff", query.Wifis[0].MAC)
}

func TestParseQueryBluetooth(t *testing.T) {
	query := parseOk(t, `{"bluetoothBeacons": [
		{"macAddress": "AA:BB:CC:DD:EE:01"},
		{"macAddress": "aabbccddee01"}
	]}`)

	assert.Len(t, query.Blues, 1)
	assert.Equal(t, "aabbccddee01", query.Blues[0].MAC)
}

func TestParseQueryCellSplit(t *testing.T) {
	query := parseOk(t, `{"cellTowers": [
		{"radioType": "gsm", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "locationAreaCode": 2, "cellId": 1234},
		{"radioType": "gsm", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "locationAreaCode": 2, "cellId": 5678},
		{"radioType": "gsm", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "locationAreaCode": 3}
	]}`)

	assert.Len(t, query.Cells, 2)
	assert.Len(t, query.Areas, 2)

	assert.Equal(t, int64(1234), query.Cells[0].CID)
	assert.Equal(t, int64(5678), query.Cells[1].CID)

	for _, area := range query.Areas {
		assert.Equal(t, int64(-1), area.CID)
		assert.False(t, area.HasCID())
	}
	assert.Equal(t, uint16(2), query.Areas[0].LAC)
	assert.Equal(t, uint16(3), query.Areas[1].LAC)
}

func TestParseQueryCellDedupe(t *testing.T) {
	query := parseOk(t, `{"cellTowers": [
		{"radioType": "gsm", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "locationAreaCode": 2, "cellId": 1234, "signalStrength": -90},
		{"radioType": "gsm", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "locationAreaCode": 2, "cellId": 1234}
	]}`)

	assert.Len(t, query.Cells, 1)
	assert.Len(t, query.Areas, 1)
}

func TestParseQueryCellRanges(t *testing.T) {
	// Missing LAC, out of range LAC and an oversized GSM cell id are all
	// dropped rather than failing the payload.
	query := parseOk(t, `{"cellTowers": [
		{"radioType": "gsm", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "cellId": 1234},
		{"radioType": "gsm", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "locationAreaCode": 65534, "cellId": 1234},
		{"radioType": "gsm", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "locationAreaCode": 2, "cellId": 65536},
		{"radioType": "lte", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "locationAreaCode": 2, "cellId": 65536}
	]}`)

	assert.Len(t, query.Cells, 1)
	assert.Equal(t, model.RadioLTE, query.Cells[0].Radio)
}

func TestParseQueryRadioUmts(t *testing.T) {
	query := parseOk(t, `{"cellTowers": [
		{"radioType": "umts", "mobileCountryCode": 262, "mobileNetworkCode": 1,
		 "locationAreaCode": 2, "cellId": 1234}
	]}`)

	assert.Len(t, query.Cells, 1)
	assert.Equal(t, model.RadioWCDMA, query.Cells[0].Radio)
}

func TestParseQueryFallbackToggles(t *testing.T) {
	query := parseOk(t, `{"fallbacks": {"lacf": false, "ipf": 0}}`)
	assert.False(t, query.Fallbacks.LACF)
	assert.False(t, query.Fallbacks.IPF)

	query = parseOk(t, `{"fallbacks": {"lacf": "1"}}`)
	assert.True(t, query.Fallbacks.LACF)
	assert.True(t, query.Fallbacks.IPF)

	query = parseOk(t, `{"fallbacks": {}}`)
	assert.True(t, query.Fallbacks.LACF)
	assert.True(t, query.Fallbacks.IPF)
}

func TestExpectedAccuracy(t *testing.T) {
	assert.Equal(t, AccuracyLow, (&Query{}).ExpectedAccuracy())

	withCell := &Query{Cells: []model.CellObservation{{}}}
	assert.Equal(t, AccuracyMedium, withCell.ExpectedAccuracy())

	withArea := &Query{Areas: []model.CellObservation{{}}}
	assert.Equal(t, AccuracyLow, withArea.ExpectedAccuracy())

	withWifi := &Query{Wifis: []model.WifiObservation{{}, {}}}
	assert.Equal(t, AccuracyHigh, withWifi.ExpectedAccuracy())

	withBlue := &Query{Blues: []model.BlueObservation{{}}}
	assert.Equal(t, AccuracyHigh, withBlue.ExpectedAccuracy())
}

func TestQueryMetricTags(t *testing.T) {
	query := &Query{}
	assert.ElementsMatch(t,
		[]string{"geoip:false", "blue:none", "cell:none", "wifi:none"},
		query.MetricTags())

	query = &Query{
		IP:    net.ParseIP("81.2.69.142"),
		Wifis: []model.WifiObservation{{}, {}},
		Cells: []model.CellObservation{{}},
	}
	assert.ElementsMatch(t,
		[]string{"blue:none", "cell:one", "wifi:many"},
		query.MetricTags())
}
