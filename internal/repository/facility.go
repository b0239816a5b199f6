package repository

import (
	"context"

	"budong-api/internal/domain"
)

// FacilityRepository exposes the point datasets used by proximity search.
// List methods return rows ordered by primary key.
type FacilityRepository interface {
	Init(ctx context.Context) error

	UpsertSchool(ctx context.Context, school *domain.School) error
	ListSchools(ctx context.Context) ([]domain.School, error)

	UpsertPark(ctx context.Context, park *domain.Park) error
	ListParks(ctx context.Context) ([]domain.Park, error)

	UpsertStation(ctx context.Context, station *domain.Station) error
	ListStations(ctx context.Context) ([]domain.Station, error)

	UpsertNoiseSensor(ctx context.Context, sensor *domain.NoiseSensor) error
	ListNoiseSensors(ctx context.Context) ([]domain.NoiseSensor, error)

	UpsertInfrastructure(ctx context.Context, infra *domain.Infrastructure) error
	// ListInfrastructure returns every category when category is empty.
	ListInfrastructure(ctx context.Context, category domain.InfraCategory) ([]domain.Infrastructure, error)
}
