package domain

// Region is a legal-dong (bjd) administrative area.
type Region struct {
	BjdCode int64
	Name    *string
	NameEng *string
}

type StatsType string

const (
	StatsCrimeTotal StatsType = "crime_total"
	StatsCrimeTheft StatsType = "crime_theft"
	StatsNoiseDay   StatsType = "noise_day"
	StatsNoiseNight StatsType = "noise_night"
)

func (t StatsType) Valid() bool {
	switch t {
	case StatsCrimeTotal, StatsCrimeTheft, StatsNoiseDay, StatsNoiseNight:
		return true
	}
	return false
}

// RegionStat is one yearly statistic for a region.
type RegionStat struct {
	ID      int64
	BjdCode int64
	Year    int
	Type    StatsType
	Value   float64
}
