// Package geo holds the coordinate math used by the search endpoints:
// WKT point parsing, haversine distance and in-memory proximity filtering.
package geo

import "math"

// Coordinate is a WGS 84 point in degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid reports whether c lies inside the latitude/longitude ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// Location makes a bare Coordinate usable as a search candidate.
func (c Coordinate) Location() (Coordinate, bool) {
	return c, c.Valid()
}

// FromNullable builds a coordinate from nullable columns. The second result
// is false when either value is missing or out of range.
func FromNullable(lat, lon *float64) (Coordinate, bool) {
	if lat == nil || lon == nil {
		return Coordinate{}, false
	}
	c := Coordinate{Lat: *lat, Lon: *lon}
	return c, c.Valid()
}
