// Package geodb wraps the MaxMind GeoIP database behind the narrow lookup
// interface the location sources consume.
package geodb

import (
	"net"

	"github.com/juju/errors"
	geoip2 "github.com/oschwald/geoip2-golang"
)

// City-level GeoIP estimates with an unknown accuracy radius get this
// conservative default, in meters.
const DefaultAccuracy = 50000.0

// Record is a successful GeoIP lookup.
type Record struct {
	Lat        float64
	Lon        float64
	Accuracy   float64
	RegionCode string
	RegionName string
}

// Finder resolves an IP address into an approximate position and region.
type Finder interface {
	Lookup(ip net.IP) (Record, bool)
}

// Reader is a Finder backed by a GeoLite2/GeoIP2 City database file.
type Reader struct {
	db *geoip2.Reader
}

func Open(path string) (*Reader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "cannot open geoip database %s", path)
	}

	return &Reader{db: db}, nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}

func (r *Reader) Lookup(ip net.IP) (Record, bool) {
	if ip == nil {
		return Record{}, false
	}

	city, err := r.db.City(ip)
	if err != nil || city.Country.IsoCode == "" {
		return Record{}, false
	}

	record := Record{
		Lat:        city.Location.Latitude,
		Lon:        city.Location.Longitude,
		Accuracy:   float64(city.Location.AccuracyRadius) * 1000.0,
		RegionCode: city.Country.IsoCode,
		RegionName: city.Country.Names["en"],
	}
	if record.Accuracy == 0 {
		record.Accuracy = DefaultAccuracy
	}

	return record, true
}
