package domain

import (
	"time"

	"budong-api/internal/geo"
)

// Building is a residential building. Its position is stored both as
// nullable lat/lon columns and as an optional WKT point.
type Building struct {
	ID          int64
	BjdCode     *int64
	Address     string
	Name        *string
	Type        *string
	BuildYear   *string
	TotalUnits  *string
	LocationWKT *string
	Lat         *float64
	Lon         *float64
}

// Location prefers the lat/lon columns and falls back to the WKT point.
func (b Building) Location() (geo.Coordinate, bool) {
	if c, ok := geo.FromNullable(b.Lat, b.Lon); ok {
		return c, true
	}
	if b.LocationWKT == nil {
		return geo.Coordinate{}, false
	}
	c, err := geo.ParsePoint(*b.LocationWKT)
	if err != nil {
		return geo.Coordinate{}, false
	}
	return c, c.Valid()
}

// Transaction is a recorded sale of a unit in a building.
type Transaction struct {
	ID         int64
	BuildingID int64
	Date       *string
	Price      int64
	AreaSqm    *float64
	Floor      *float64
}

// Review is a user's rating of a building.
type Review struct {
	ID         int64
	UserID     int64
	BuildingID int64
	Rating     int
	Content    string
	CreatedAt  time.Time
}

const (
	MinRating = 1
	MaxRating = 5
)

// SavedBuilding is an entry in a user's saved list.
type SavedBuilding struct {
	ID         int64
	UserID     int64
	BuildingID int64
	Memo       *string
	CreatedAt  time.Time
}
