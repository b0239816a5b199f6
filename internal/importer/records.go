package importer

import (
	"fmt"
	"strings"

	"budong-api/internal/domain"
	"budong-api/internal/geo"
)

// JSON shapes of the dataset files. Each file is a JSON array of records.

type regionRecord struct {
	BjdCode int64   `json:"bjd_code"`
	Name    *string `json:"name"`
	NameEng *string `json:"name_eng"`
}

func (r regionRecord) toDomain() (domain.Region, error) {
	if r.BjdCode <= 0 {
		return domain.Region{}, fmt.Errorf("bjd_code %d", r.BjdCode)
	}
	return domain.Region{BjdCode: r.BjdCode, Name: r.Name, NameEng: r.NameEng}, nil
}

type regionStatRecord struct {
	BjdCode int64   `json:"bjd_code"`
	Year    int     `json:"year"`
	Type    string  `json:"stats_type"`
	Value   float64 `json:"stats_value"`
}

func (r regionStatRecord) toDomain() (domain.RegionStat, error) {
	t := domain.StatsType(r.Type)
	if !t.Valid() {
		return domain.RegionStat{}, fmt.Errorf("stats_type %q", r.Type)
	}
	if r.Year <= 0 {
		return domain.RegionStat{}, fmt.Errorf("year %d", r.Year)
	}
	return domain.RegionStat{BjdCode: r.BjdCode, Year: r.Year, Type: t, Value: r.Value}, nil
}

type buildingRecord struct {
	ID         int64    `json:"id"`
	BjdCode    *int64   `json:"bjd_code"`
	Address    string   `json:"address"`
	Name       *string  `json:"name"`
	Type       *string  `json:"type"`
	BuildYear  *string  `json:"build_year"`
	TotalUnits *string  `json:"total_units"`
	Location   *string  `json:"location"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

func (r buildingRecord) toDomain() (domain.Building, error) {
	if r.ID <= 0 || strings.TrimSpace(r.Address) == "" {
		return domain.Building{}, fmt.Errorf("building %d needs an id and address", r.ID)
	}
	if r.Location != nil {
		if _, err := geo.ParsePoint(*r.Location); err != nil {
			return domain.Building{}, err
		}
	}
	return domain.Building{
		ID:          r.ID,
		BjdCode:     r.BjdCode,
		Address:     r.Address,
		Name:        r.Name,
		Type:        r.Type,
		BuildYear:   r.BuildYear,
		TotalUnits:  r.TotalUnits,
		LocationWKT: r.Location,
		Lat:         r.Latitude,
		Lon:         r.Longitude,
	}, nil
}

type transactionRecord struct {
	ID         int64    `json:"id"`
	BuildingID int64    `json:"building_id"`
	Date       *string  `json:"transaction_date"`
	Price      int64    `json:"price"`
	AreaSqm    *float64 `json:"area_sqm"`
	Floor      *float64 `json:"floor"`
}

func (r transactionRecord) toDomain() (domain.Transaction, error) {
	if r.ID <= 0 || r.BuildingID <= 0 {
		return domain.Transaction{}, fmt.Errorf("transaction %d needs an id and building_id", r.ID)
	}
	return domain.Transaction{
		ID: r.ID, BuildingID: r.BuildingID, Date: r.Date, Price: r.Price, AreaSqm: r.AreaSqm, Floor: r.Floor,
	}, nil
}

type schoolRecord struct {
	ID        int64    `json:"id"`
	Name      *string  `json:"name"`
	BuildYear *int64   `json:"build_year"`
	District  *string  `json:"district"`
	Level     *string  `json:"level"`
	Category  *string  `json:"category"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r schoolRecord) toDomain() (domain.School, error) {
	if r.ID <= 0 {
		return domain.School{}, fmt.Errorf("school id %d", r.ID)
	}
	return domain.School{
		ID: r.ID, Name: r.Name, BuildYear: r.BuildYear, District: r.District, Level: r.Level,
		Category: r.Category, Address: r.Address, Lat: r.Latitude, Lon: r.Longitude,
	}, nil
}

type parkRecord struct {
	Name       string   `json:"name"`
	Introduce  *string  `json:"introduce"`
	Size       *string  `json:"size"`
	Region     *string  `json:"region"`
	Address    *string  `json:"address"`
	Management *string  `json:"management"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
}

func (r parkRecord) toDomain() (domain.Park, error) {
	if strings.TrimSpace(r.Name) == "" {
		return domain.Park{}, fmt.Errorf("park without a name")
	}
	return domain.Park{
		Name: r.Name, Introduce: r.Introduce, Size: r.Size, Region: r.Region,
		Address: r.Address, Management: r.Management, Lat: r.Latitude, Lon: r.Longitude,
	}, nil
}

type stationRecord struct {
	ID        int64    `json:"id"`
	Line      *int64   `json:"line"`
	Name      *string  `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r stationRecord) toDomain() (domain.Station, error) {
	if r.ID <= 0 {
		return domain.Station{}, fmt.Errorf("station id %d", r.ID)
	}
	return domain.Station{ID: r.ID, Line: r.Line, Name: r.Name, Lat: r.Latitude, Lon: r.Longitude}, nil
}

type noiseRecord struct {
	Address   string   `json:"address"`
	Max       *int64   `json:"max_db"`
	Avg       *int64   `json:"avg_db"`
	Min       *int64   `json:"min_db"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r noiseRecord) toDomain() (domain.NoiseSensor, error) {
	if strings.TrimSpace(r.Address) == "" {
		return domain.NoiseSensor{}, fmt.Errorf("noise sensor without an address")
	}
	return domain.NoiseSensor{
		Address: r.Address, Max: r.Max, Avg: r.Avg, Min: r.Min, Lat: r.Latitude, Lon: r.Longitude,
	}, nil
}

type infrastructureRecord struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Location string `json:"location"`
}

func (r infrastructureRecord) toDomain() (domain.Infrastructure, error) {
	cat := domain.InfraCategory(r.Category)
	if !cat.Valid() {
		return domain.Infrastructure{}, fmt.Errorf("category %q", r.Category)
	}
	if _, err := geo.ParsePoint(r.Location); err != nil {
		return domain.Infrastructure{}, err
	}
	return domain.Infrastructure{ID: r.ID, Category: cat, Name: r.Name, Address: r.Address, LocationWKT: r.Location}, nil
}
