package repository

import (
	"context"

	"budong-api/internal/domain"
)

// BuildingRepository exposes buildings and their sale records.
type BuildingRepository interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, building *domain.Building) error
	Get(ctx context.Context, id int64) (*domain.Building, error)
	// List returns every building ordered by id.
	List(ctx context.Context) ([]domain.Building, error)
	UpsertTransaction(ctx context.Context, tx *domain.Transaction) error
	ListTransactions(ctx context.Context, buildingID int64) ([]domain.Transaction, error)
}

// ReviewRepository persists building reviews.
type ReviewRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, review *domain.Review) (int64, error)
	ListByBuilding(ctx context.Context, buildingID int64) ([]domain.Review, error)
}

// SavedBuildingRepository persists users' saved building lists.
type SavedBuildingRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, saved *domain.SavedBuilding) (int64, error)
	Get(ctx context.Context, id int64) (*domain.SavedBuilding, error)
	GetByUserAndBuilding(ctx context.Context, userID, buildingID int64) (*domain.SavedBuilding, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.SavedBuilding, error)
	Delete(ctx context.Context, id int64) error
}
