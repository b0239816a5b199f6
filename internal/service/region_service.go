package service

import (
	"context"
	"fmt"

	"budong-api/internal/domain"
	"budong-api/internal/geo"
	"budong-api/internal/repository"
)

// RegionService serves per-region statistics and point environment data.
type RegionService interface {
	Stats(ctx context.Context, bjdCode int64) (*domain.Region, []domain.RegionStat, error)
	// NearestNoise returns repository.ErrNotFound when no sensor has a position.
	NearestNoise(ctx context.Context, at geo.Coordinate) (*geo.Match[domain.NoiseSensor], error)
}

type regionService struct {
	regions    repository.RegionRepository
	facilities repository.FacilityRepository
}

func NewRegionService(regions repository.RegionRepository, facilities repository.FacilityRepository) RegionService {
	return &regionService{regions: regions, facilities: facilities}
}

func (s *regionService) Stats(ctx context.Context, bjdCode int64) (*domain.Region, []domain.RegionStat, error) {
	region, err := s.regions.Get(ctx, bjdCode)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.regions.ListStats(ctx, bjdCode)
	if err != nil {
		return nil, nil, err
	}
	return region, stats, nil
}

func (s *regionService) NearestNoise(ctx context.Context, at geo.Coordinate) (*geo.Match[domain.NoiseSensor], error) {
	if !at.Valid() {
		return nil, fmt.Errorf("%w: coordinate out of range", ErrInvalidInput)
	}
	sensors, err := s.facilities.ListNoiseSensors(ctx)
	if err != nil {
		return nil, err
	}
	m, ok := geo.Nearest(at, sensors)
	if !ok {
		return nil, fmt.Errorf("noise sensor %w", repository.ErrNotFound)
	}
	return &m, nil
}
