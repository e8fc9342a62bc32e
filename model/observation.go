package model

import "strings"

// NormalizeMAC lowercases a MAC address and strips the common separator
// styles, so "01:23:45:67:89:AB" and "0123456789ab" compare equal.
func NormalizeMAC(mac string) string {
	mac = strings.ToLower(mac)
	mac = strings.ReplaceAll(mac, ":", "")
	mac = strings.ReplaceAll(mac, "-", "")
	mac = strings.ReplaceAll(mac, ".", "")

	return mac
}

// BlueObservation is a single observed Bluetooth beacon.
type BlueObservation struct {
	MAC string
}

func (b BlueObservation) Valid() bool {
	return ValidMAC(b.MAC)
}

// WifiObservation is a single observed WiFi access point.
type WifiObservation struct {
	MAC string
}

func (w WifiObservation) Valid() bool {
	return ValidMAC(w.MAC)
}

// CellObservation is a single observed cell tower. CID, PSC, Signal and
// ASU are optional. CID and PSC use -1 as the unset sentinel so that
// valid zero readings survive; Signal and ASU treat 0 as unset, which
// loses nothing because no radio accepts a 0 dBm signal and an ASU of 0
// is inside every radio's accepted range.
type CellObservation struct {
	Radio  Radio
	MCC    uint16
	MNC    uint16
	LAC    uint16
	CID    int64
	PSC    int32
	Signal int
	ASU    int
}

// Valid reports whether the observation passes all range checks for its
// radio type. A cell without a usable LAC cannot be looked up at all and
// is therefore invalid.
func (c CellObservation) Valid() bool {
	if c.Radio == RadioUnknown {
		return false
	}

	if !ValidMCC(c.MCC) {
		return false
	}

	if c.MNC > MaxMNC {
		return false
	}

	if c.LAC < MinLAC || c.LAC > MaxLAC {
		return false
	}

	if c.CID >= 0 {
		if c.CID < MinCID || c.CID > MaxCID {
			return false
		}
		if c.Radio == RadioGSM && c.CID > MaxCIDGSM {
			return false
		}
	}

	if c.PSC >= 0 {
		if c.PSC > MaxPSC {
			return false
		}
		if c.Radio == RadioLTE && c.PSC > MaxPSCLTE {
			return false
		}
	}

	if c.Signal != 0 && !ValidSignal(c.Radio, c.Signal) {
		return false
	}

	if c.ASU != 0 && !ValidASU(c.Radio, c.ASU) {
		return false
	}

	return true
}

// HasCID reports whether an exact cell id was observed. Without it only
// the broader cell area can be matched.
func (c CellObservation) HasCID() bool {
	return c.CID >= MinCID
}

// CellID is the unique identifier of a single cell, used for
// deduplication and exact lookups.
type CellID struct {
	Radio Radio
	MCC   uint16
	MNC   uint16
	LAC   uint16
	CID   int64
}

// AreaID is the unique identifier of a cell area.
type AreaID struct {
	Radio Radio
	MCC   uint16
	MNC   uint16
	LAC   uint16
}

func (c CellObservation) CellID() CellID {
	return CellID{Radio: c.Radio, MCC: c.MCC, MNC: c.MNC, LAC: c.LAC, CID: c.CID}
}

func (c CellObservation) AreaID() AreaID {
	return AreaID{Radio: c.Radio, MCC: c.MCC, MNC: c.MNC, LAC: c.LAC}
}
