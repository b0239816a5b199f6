package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat is returned for strings that are not a WKT point.
var ErrFormat = errors.New("invalid WKT point")

const pointPrefix = "POINT("

// ParsePoint reads "POINT(<lon> <lat>)". WKT stores longitude first; the
// returned Coordinate is latitude/longitude.
func ParsePoint(wkt string) (Coordinate, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return Coordinate{}, fmt.Errorf("%w: empty string", ErrFormat)
	}
	if len(s) < len(pointPrefix) || !strings.EqualFold(s[:len(pointPrefix)], pointPrefix) {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	if !strings.HasSuffix(s, ")") {
		return Coordinate{}, fmt.Errorf("%w: missing closing parenthesis in %q", ErrFormat, s)
	}

	fields := strings.Fields(s[len(pointPrefix) : len(s)-1])
	if len(fields) != 2 {
		return Coordinate{}, fmt.Errorf("%w: expected 2 ordinates, got %d", ErrFormat, len(fields))
	}

	lon, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: longitude %q", ErrFormat, fields[0])
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: latitude %q", ErrFormat, fields[1])
	}

	return Coordinate{Lat: lat, Lon: lon}, nil
}

// FormatPoint renders c as a WKT point.
func FormatPoint(c Coordinate) string {
	return "POINT(" + strconv.FormatFloat(c.Lon, 'f', -1, 64) + " " + strconv.FormatFloat(c.Lat, 'f', -1, 64) + ")"
}
