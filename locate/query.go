package locate

import (
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/positron-geo/positron/metrics"
	"github.com/positron-geo/positron/model"
	"github.com/positron-geo/positron/quota"
)

// Fallbacks are the client-controlled fallback toggles. Both default to
// enabled; only an explicit false disables them.
type Fallbacks struct {
	LACF bool
	IPF  bool
}

// Query is the normalized, validated representation of one resolution
// request. Cells carry an exact cell id; Areas hold one observation per
// distinct cell area (cells without an id only ever appear here).
type Query struct {
	Mode      quota.Mode
	Key       quota.Key
	IP        net.IP
	Blues     []model.BlueObservation
	Wifis     []model.WifiObservation
	Cells     []model.CellObservation
	Areas     []model.CellObservation
	Fallbacks Fallbacks
}

// ExpectedAccuracy is the best accuracy bucket the query's evidence could
// plausibly produce, used for fallback gating and miss metrics.
func (q *Query) ExpectedAccuracy() Accuracy {
	switch {
	case len(q.Blues) > 0 || len(q.Wifis) > 0:
		return AccuracyHigh
	case len(q.Cells) > 0:
		return AccuracyMedium
	}

	return AccuracyLow
}

// MetricTags describes the query's observation content in the fixed tag
// vocabulary. The geoip:false marker only appears when no IP is present.
func (q *Query) MetricTags() []string {
	tags := make([]string, 0, 4)

	if q.IP == nil {
		tags = append(tags, "geoip:false")
	}

	tags = append(tags,
		"blue:"+metrics.CountBucket(len(q.Blues)),
		"cell:"+metrics.CountBucket(len(q.Cells)),
		"wifi:"+metrics.CountBucket(len(q.Wifis)))

	return tags
}

// Wire schema shared by the public API and the outbound fallback call.

type blueWire struct {
	MacAddress string `json:"macAddress"`
}

type cellWire struct {
	RadioType             string `json:"radioType"`
	MobileCountryCode     *int64 `json:"mobileCountryCode"`
	MobileNetworkCode     *int64 `json:"mobileNetworkCode"`
	LocationAreaCode      *int64 `json:"locationAreaCode"`
	CellID                *int64 `json:"cellId,omitempty"`
	PrimaryScramblingCode *int64 `json:"primaryScramblingCode,omitempty"`
	SignalStrength        *int64 `json:"signalStrength,omitempty"`
	ASU                   *int64 `json:"asu,omitempty"`
}

type wifiWire struct {
	MacAddress string `json:"macAddress"`
}

type fallbackWire struct {
	LACF *looseBool `json:"lacf"`
	IPF  *looseBool `json:"ipf"`
}

// looseBool accepts the boolean-ish encodings seen in the wild: true,
// "true", 1, 0 and friends.
type looseBool bool

func (lb *looseBool) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(string(data), `"`)) {
	case "true", "1":
		*lb = true
		return nil
	case "false", "0", "null":
		*lb = false
		return nil
	}

	if number, err := strconv.ParseFloat(string(data), 64); err == nil {
		*lb = number != 0
		return nil
	}

	return fmt.Errorf("%s is not a boolean value", string(data))
}

// ValidationError is a payload-level failure: the body was valid JSON but
// the wrong shape. Fields maps a field path to its complaint.
type ValidationError struct {
	Fields map[string]string
}

func (ve *ValidationError) Error() string {
	return "query validation failed"
}

func invalidShape(field string, err error) *ValidationError {
	return &ValidationError{Fields: map[string]string{
		field: err.Error(),
	}}
}

// ParseQuery builds a Query from a decoded JSON request body. Unknown
// top-level fields are ignored, wrong-shaped known fields fail the whole
// payload, and individual malformed or out-of-range entries are dropped.
// An empty body yields an empty query.
func ParseQuery(body []byte, key quota.Key, mode quota.Mode, ip net.IP) (*Query, *ValidationError) {
	query := &Query{
		Mode:      mode,
		Key:       key,
		IP:        ip,
		Fallbacks: Fallbacks{LACF: true, IPF: true},
	}

	if len(body) == 0 {
		return query, nil
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &ValidationError{Fields: map[string]string{
			"": fmt.Sprintf("%q is not a mapping type", string(body)),
		}}
	}

	if raw, ok := fields["bluetoothBeacons"]; ok {
		entries, err := rawEntries(raw)
		if err != nil {
			return nil, invalidShape("bluetoothBeacons", err)
		}
		query.Blues = parseBlues(entries)
	}

	if raw, ok := fields["wifiAccessPoints"]; ok {
		entries, err := rawEntries(raw)
		if err != nil {
			return nil, invalidShape("wifiAccessPoints", err)
		}
		query.Wifis = parseWifis(entries)
	}

	if raw, ok := fields["cellTowers"]; ok {
		entries, err := rawEntries(raw)
		if err != nil {
			return nil, invalidShape("cellTowers", err)
		}
		query.Cells, query.Areas = parseCells(entries)
	}

	if raw, ok := fields["fallbacks"]; ok {
		toggles := fallbackWire{}
		if err := json.Unmarshal(raw, &toggles); err != nil {
			return nil, invalidShape("fallbacks", err)
		}
		if toggles.LACF != nil {
			query.Fallbacks.LACF = bool(*toggles.LACF)
		}
		if toggles.IPF != nil {
			query.Fallbacks.IPF = bool(*toggles.IPF)
		}
	}

	return query, nil
}

func rawEntries(raw json.RawMessage) ([]json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%q is not an array", string(raw))
	}

	return entries, nil
}

func parseBlues(entries []json.RawMessage) []model.BlueObservation {
	var blues []model.BlueObservation
	seen := map[string]struct{}{}

	for _, entry := range entries {
		wire := blueWire{}
		if err := json.Unmarshal(entry, &wire); err != nil {
			continue
		}

		mac := model.NormalizeMAC(wire.MacAddress)
		observation := model.BlueObservation{MAC: mac}
		if !observation.Valid() {
			continue
		}
		if _, ok := seen[mac]; ok {
			continue
		}

		seen[mac] = struct{}{}
		blues = append(blues, observation)
	}

	return blues
}

func parseWifis(entries []json.RawMessage) []model.WifiObservation {
	var wifis []model.WifiObservation
	seen := map[string]struct{}{}

	for _, entry := range entries {
		wire := wifiWire{}
		if err := json.Unmarshal(entry, &wire); err != nil {
			continue
		}

		mac := model.NormalizeMAC(wire.MacAddress)
		observation := model.WifiObservation{MAC: mac}
		if !observation.Valid() {
			continue
		}
		if _, ok := seen[mac]; ok {
			continue
		}

		seen[mac] = struct{}{}
		wifis = append(wifis, observation)
	}

	return wifis
}

func parseCells(entries []json.RawMessage) (cells, areas []model.CellObservation) {
	seenCells := map[model.CellID]struct{}{}
	seenAreas := map[model.AreaID]struct{}{}

	for _, entry := range entries {
		wire := cellWire{}
		if err := json.Unmarshal(entry, &wire); err != nil {
			continue
		}

		observation, ok := cellFromWire(wire)
		if !ok {
			continue
		}

		if observation.HasCID() {
			id := observation.CellID()
			if _, ok := seenCells[id]; !ok {
				seenCells[id] = struct{}{}
				cells = append(cells, observation)
			}
		}

		// Every valid cell also contributes its broader area, so the
		// area fallback works even when exact lookups come up empty.
		area := observation.AreaID()
		if _, ok := seenAreas[area]; !ok {
			seenAreas[area] = struct{}{}
			areaObservation := observation
			areaObservation.CID = -1
			areas = append(areas, areaObservation)
		}
	}

	return cells, areas
}

func cellFromWire(wire cellWire) (model.CellObservation, bool) {
	observation := model.CellObservation{
		Radio: model.ParseRadio(wire.RadioType),
		CID:   -1,
		PSC:   -1,
	}

	if wire.MobileCountryCode == nil || wire.MobileNetworkCode == nil ||
		wire.LocationAreaCode == nil {
		return observation, false
	}

	if !fitsUint16(*wire.MobileCountryCode) ||
		!fitsUint16(*wire.MobileNetworkCode) ||
		!fitsUint16(*wire.LocationAreaCode) {
		return observation, false
	}

	observation.MCC = uint16(*wire.MobileCountryCode)
	observation.MNC = uint16(*wire.MobileNetworkCode)
	observation.LAC = uint16(*wire.LocationAreaCode)

	if wire.CellID != nil {
		observation.CID = *wire.CellID
	}
	if wire.PrimaryScramblingCode != nil {
		if *wire.PrimaryScramblingCode > int64(model.MaxPSC) || *wire.PrimaryScramblingCode < 0 {
			return observation, false
		}
		observation.PSC = int32(*wire.PrimaryScramblingCode)
	}
	if wire.SignalStrength != nil {
		observation.Signal = int(*wire.SignalStrength)
	}
	if wire.ASU != nil {
		observation.ASU = int(*wire.ASU)
	}

	return observation, observation.Valid()
}

func fitsUint16(value int64) bool {
	return value >= 0 && value <= 65535
}
