package geo

import (
	"math"
	"sort"
)

// radiusTolerance absorbs floating point noise at the radius boundary.
const radiusTolerance = 1e-6

// Locatable is anything with a position. ok is false when the position is
// missing or unusable; such candidates are skipped, never reported.
type Locatable interface {
	Location() (c Coordinate, ok bool)
}

// Match pairs a candidate with its distance from the search center.
type Match[T any] struct {
	Item     T
	Point    Coordinate
	Distance float64
}

// WithinRadius returns the candidates at most radius meters from center,
// in input order.
func WithinRadius[T Locatable](center Coordinate, radius float64, items []T) []Match[T] {
	var out []Match[T]
	for _, item := range items {
		p, ok := item.Location()
		if !ok {
			continue
		}
		d := Distance(center, p)
		if math.IsNaN(d) {
			continue
		}
		if d <= radius+radiusTolerance {
			out = append(out, Match[T]{Item: item, Point: p, Distance: d})
		}
	}
	return out
}

// Nearest returns the closest candidate to center. Equal distances keep the
// first candidate seen, so callers that need a stable answer pass items in
// a stable order (repositories return rows ordered by primary key).
func Nearest[T Locatable](center Coordinate, items []T) (Match[T], bool) {
	var (
		best  Match[T]
		found bool
	)
	for _, item := range items {
		p, ok := item.Location()
		if !ok {
			continue
		}
		d := Distance(center, p)
		if math.IsNaN(d) {
			continue
		}
		if !found || d < best.Distance {
			best = Match[T]{Item: item, Point: p, Distance: d}
			found = true
		}
	}
	return best, found
}

// NearestWithin is Nearest limited to radius meters.
func NearestWithin[T Locatable](center Coordinate, radius float64, items []T) (Match[T], bool) {
	m, ok := Nearest(center, items)
	if !ok || m.Distance > radius+radiusTolerance {
		return Match[T]{}, false
	}
	return m, true
}

// SortByDistance orders matches closest first, keeping input order on ties.
func SortByDistance[T any](matches []Match[T]) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
}
