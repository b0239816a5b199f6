package domain

import "budong-api/internal/geo"

type InfraCategory string

const (
	InfraSchool        InfraCategory = "school"
	InfraPark          InfraCategory = "park"
	InfraSubwayStation InfraCategory = "subway_station"
	InfraBusStop       InfraCategory = "bus_stop"
	InfraHospital      InfraCategory = "hospital"
	InfraMart          InfraCategory = "mart"
	InfraBank          InfraCategory = "bank"
	InfraPublicOffice  InfraCategory = "public_office"
	InfraCCTV          InfraCategory = "cctv"
)

var infraCategories = map[InfraCategory]struct{}{
	InfraSchool:        {},
	InfraPark:          {},
	InfraSubwayStation: {},
	InfraBusStop:       {},
	InfraHospital:      {},
	InfraMart:          {},
	InfraBank:          {},
	InfraPublicOffice:  {},
	InfraCCTV:          {},
}

func (c InfraCategory) Valid() bool {
	_, ok := infraCategories[c]
	return ok
}

// Infrastructure is a generic facility whose position is a WKT point.
type Infrastructure struct {
	ID          int64
	Category    InfraCategory
	Name        string
	Address     string
	LocationWKT string
}

// Point parses the WKT location.
func (i Infrastructure) Point() (geo.Coordinate, error) {
	return geo.ParsePoint(i.LocationWKT)
}

// Location treats an unparsable point as missing.
func (i Infrastructure) Location() (geo.Coordinate, bool) {
	c, err := i.Point()
	if err != nil {
		return geo.Coordinate{}, false
	}
	return c, c.Valid()
}

type School struct {
	ID        int64
	Name      *string
	BuildYear *int64
	District  *string
	Level     *string
	Category  *string
	Address   *string
	Lat       *float64
	Lon       *float64
}

func (s School) Location() (geo.Coordinate, bool) { return geo.FromNullable(s.Lat, s.Lon) }

type Park struct {
	Name       string
	Introduce  *string
	Size       *string
	Region     *string
	Address    *string
	Management *string
	Lat        *float64
	Lon        *float64
}

func (p Park) Location() (geo.Coordinate, bool) { return geo.FromNullable(p.Lat, p.Lon) }

// Station is a subway station.
type Station struct {
	ID   int64
	Line *int64
	Name *string
	Lat  *float64
	Lon  *float64
}

func (s Station) Location() (geo.Coordinate, bool) { return geo.FromNullable(s.Lat, s.Lon) }

// NoiseSensor is a noise measurement point keyed by address.
type NoiseSensor struct {
	Address string
	Max     *int64
	Avg     *int64
	Min     *int64
	Lat     *float64
	Lon     *float64
}

func (n NoiseSensor) Location() (geo.Coordinate, bool) { return geo.FromNullable(n.Lat, n.Lon) }
