package repository

import (
	"context"

	"budong-api/internal/domain"
)

// RegionRepository persists legal-dong regions and their statistics.
type RegionRepository interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, region *domain.Region) error
	Get(ctx context.Context, bjdCode int64) (*domain.Region, error)
	UpsertStat(ctx context.Context, stat *domain.RegionStat) error
	// ListStats returns stats newest year first.
	ListStats(ctx context.Context, bjdCode int64) ([]domain.RegionStat, error)
}
