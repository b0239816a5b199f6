package service

import (
	"context"
	"fmt"

	"budong-api/internal/domain"
	"budong-api/internal/geo"
	"budong-api/internal/repository"
)

// SearchRecorder is satisfied by *metrics.Collector.
type SearchRecorder interface {
	ObserveSearchCandidates(kind string, n int)
}

type nopSearchRecorder struct{}

func (nopSearchRecorder) ObserveSearchCandidates(string, int) {}

// PointSearchResult holds everything found around a point, nearest first.
type PointSearchResult struct {
	Center         geo.Coordinate
	Radius         float64
	Buildings      []geo.Match[domain.Building]
	Schools        []geo.Match[domain.School]
	SubwayStations []geo.Match[domain.Station]
	Parks          []geo.Match[domain.Park]
}

func (r *PointSearchResult) Count() int {
	return len(r.Buildings) + len(r.Schools) + len(r.SubwayStations) + len(r.Parks)
}

// SearchService answers proximity queries over the stored datasets.
type SearchService interface {
	SearchPoint(ctx context.Context, center geo.Coordinate, radius float64) (*PointSearchResult, error)
	InfrastructureByCategory(ctx context.Context, category domain.InfraCategory, center geo.Coordinate, radius float64) ([]geo.Match[domain.Infrastructure], error)
}

type searchService struct {
	buildings  repository.BuildingRepository
	facilities repository.FacilityRepository
	maxRadius  float64
	recorder   SearchRecorder
}

func NewSearchService(buildings repository.BuildingRepository, facilities repository.FacilityRepository, maxRadius float64, recorder SearchRecorder) SearchService {
	if recorder == nil {
		recorder = nopSearchRecorder{}
	}
	return &searchService{
		buildings:  buildings,
		facilities: facilities,
		maxRadius:  maxRadius,
		recorder:   recorder,
	}
}

func (s *searchService) validate(center geo.Coordinate, radius float64) error {
	if !center.Valid() {
		return fmt.Errorf("%w: coordinate out of range", ErrInvalidInput)
	}
	if radius < 1 || radius > s.maxRadius {
		return fmt.Errorf("%w: radius must be between 1 and %.0f meters", ErrInvalidInput, s.maxRadius)
	}
	return nil
}

func (s *searchService) SearchPoint(ctx context.Context, center geo.Coordinate, radius float64) (*PointSearchResult, error) {
	if err := s.validate(center, radius); err != nil {
		return nil, err
	}

	buildings, err := s.buildings.List(ctx)
	if err != nil {
		return nil, err
	}
	schools, err := s.facilities.ListSchools(ctx)
	if err != nil {
		return nil, err
	}
	stations, err := s.facilities.ListStations(ctx)
	if err != nil {
		return nil, err
	}
	parks, err := s.facilities.ListParks(ctx)
	if err != nil {
		return nil, err
	}
	s.recorder.ObserveSearchCandidates("building", len(buildings))
	s.recorder.ObserveSearchCandidates("school", len(schools))
	s.recorder.ObserveSearchCandidates("station", len(stations))
	s.recorder.ObserveSearchCandidates("park", len(parks))

	res := &PointSearchResult{
		Center:         center,
		Radius:         radius,
		Buildings:      geo.WithinRadius(center, radius, buildings),
		Schools:        geo.WithinRadius(center, radius, schools),
		SubwayStations: geo.WithinRadius(center, radius, stations),
		Parks:          geo.WithinRadius(center, radius, parks),
	}
	geo.SortByDistance(res.Buildings)
	geo.SortByDistance(res.Schools)
	geo.SortByDistance(res.SubwayStations)
	geo.SortByDistance(res.Parks)
	return res, nil
}

func (s *searchService) InfrastructureByCategory(ctx context.Context, category domain.InfraCategory, center geo.Coordinate, radius float64) ([]geo.Match[domain.Infrastructure], error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}
	if err := s.validate(center, radius); err != nil {
		return nil, err
	}

	items, err := s.facilities.ListInfrastructure(ctx, category)
	if err != nil {
		return nil, err
	}
	s.recorder.ObserveSearchCandidates("infrastructure", len(items))

	matches := geo.WithinRadius(center, radius, items)
	geo.SortByDistance(matches)
	return matches, nil
}
