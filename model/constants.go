package model

import "regexp"

// Value ranges for cellular network identifiers. Observations outside of
// these ranges are dropped during query normalization, they never fail a
// whole request.
const (
	MinMCC = 1
	MaxMCC = 999

	MinMNC = 0
	MaxMNC = 999

	MinLAC = 1
	MaxLAC = 65533

	MinCID    = 1
	MaxCID    = 1<<28 - 1
	MaxCIDGSM = 1<<16 - 1

	MinPSC    = 0
	MaxPSC    = 511
	MaxPSCLTE = 503
)

// Radio is the radio access technology of a cell observation.
type Radio int

const (
	RadioUnknown Radio = iota
	RadioGSM
	RadioWCDMA
	RadioLTE
)

var radioNames = map[Radio]string{
	RadioGSM:   "gsm",
	RadioWCDMA: "wcdma",
	RadioLTE:   "lte",
}

func (r Radio) String() string {
	if name, ok := radioNames[r]; ok {
		return name
	}

	return "unknown"
}

// ParseRadio maps a wire-level radio type to a Radio. The legacy "umts"
// name is an alias for wcdma.
func ParseRadio(name string) Radio {
	switch name {
	case "gsm":
		return RadioGSM
	case "wcdma", "umts":
		return RadioWCDMA
	case "lte":
		return RadioLTE
	}

	return RadioUnknown
}

// Per-radio signal strength bounds in dBm.
var (
	minSignal = map[Radio]int{
		RadioGSM:   -113,
		RadioWCDMA: -121,
		RadioLTE:   -140,
	}
	maxSignal = map[Radio]int{
		RadioGSM:   -51,
		RadioWCDMA: -25,
		RadioLTE:   -43,
	}
)

// Per-radio arbitrary strength unit bounds.
var (
	minASU = map[Radio]int{
		RadioGSM:   0,
		RadioWCDMA: -5,
		RadioLTE:   0,
	}
	maxASU = map[Radio]int{
		RadioGSM:   31,
		RadioWCDMA: 91,
		RadioLTE:   97,
	}
)

// ValidSignal reports whether a signal strength value is inside the
// accepted range for the given radio.
func ValidSignal(radio Radio, signal int) bool {
	low, ok := minSignal[radio]
	if !ok {
		return false
	}

	return signal >= low && signal <= maxSignal[radio]
}

// ValidASU reports whether an arbitrary strength unit value is inside the
// accepted range for the given radio.
func ValidASU(radio Radio, asu int) bool {
	low, ok := minASU[radio]
	if !ok {
		return false
	}

	return asu >= low && asu <= maxASU[radio]
}

// macTestAddress is a documentation-only multicast address. Clients use it
// in examples and test integrations, so it never identifies a real network.
const macTestAddress = "01005e901000"

var (
	validMACRegex = regexp.MustCompile(`^[0-9a-f]{12}$`)
	allZeroMAC    = "000000000000"
	allFMAC       = "ffffffffffff"
)

// ValidMAC reports whether mac is a normalized (lowercase, separator-free)
// 12 digit hex address identifying a real network.
func ValidMAC(mac string) bool {
	if !validMACRegex.MatchString(mac) {
		return false
	}

	return mac != allZeroMAC && mac != allFMAC && mac != macTestAddress
}
