package service

import (
	"context"
	"fmt"
	"time"

	"budong-api/internal/domain"
	"budong-api/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func notFound(what string) error { return fmt.Errorf("%s %w", what, repository.ErrNotFound) }

// --- users ---

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user *domain.User) (int64, error)
	getByEmailFunc     func(ctx context.Context, email string) (*domain.User, error)
	getByNicknameFunc  func(ctx context.Context, nickname string) (*domain.User, error)
	getByIDFunc        func(ctx context.Context, id int64) (*domain.User, error)
	updatePasswordFunc func(ctx context.Context, id int64, hash string) error
}

func (m *mockUserRepo) Init(context.Context) error { return nil }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = 1
	return 1, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, notFound("user")
}

func (m *mockUserRepo) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	if m.getByNicknameFunc != nil {
		return m.getByNicknameFunc(ctx, nickname)
	}
	return nil, notFound("user")
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, notFound("user")
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, hash)
	}
	return nil
}

// --- buildings ---

type mockBuildingRepo struct {
	getFunc              func(ctx context.Context, id int64) (*domain.Building, error)
	listFunc             func(ctx context.Context) ([]domain.Building, error)
	listTransactionsFunc func(ctx context.Context, buildingID int64) ([]domain.Transaction, error)
}

func (m *mockBuildingRepo) Init(context.Context) error                                   { return nil }
func (m *mockBuildingRepo) Upsert(context.Context, *domain.Building) error               { return nil }
func (m *mockBuildingRepo) UpsertTransaction(context.Context, *domain.Transaction) error { return nil }

func (m *mockBuildingRepo) Get(ctx context.Context, id int64) (*domain.Building, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, notFound("building")
}

func (m *mockBuildingRepo) List(ctx context.Context) ([]domain.Building, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockBuildingRepo) ListTransactions(ctx context.Context, buildingID int64) ([]domain.Transaction, error) {
	if m.listTransactionsFunc != nil {
		return m.listTransactionsFunc(ctx, buildingID)
	}
	return nil, nil
}

// --- reviews ---

type mockReviewRepo struct {
	createFunc         func(ctx context.Context, review *domain.Review) (int64, error)
	listByBuildingFunc func(ctx context.Context, buildingID int64) ([]domain.Review, error)
}

func (m *mockReviewRepo) Init(context.Context) error { return nil }

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) (int64, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, review)
	}
	review.ID = 1
	review.CreatedAt = time.Now().UTC()
	return 1, nil
}

func (m *mockReviewRepo) ListByBuilding(ctx context.Context, buildingID int64) ([]domain.Review, error) {
	if m.listByBuildingFunc != nil {
		return m.listByBuildingFunc(ctx, buildingID)
	}
	return []domain.Review{}, nil
}

// --- saved buildings ---

type mockSavedRepo struct {
	createFunc               func(ctx context.Context, saved *domain.SavedBuilding) (int64, error)
	getFunc                  func(ctx context.Context, id int64) (*domain.SavedBuilding, error)
	getByUserAndBuildingFunc func(ctx context.Context, userID, buildingID int64) (*domain.SavedBuilding, error)
	listByUserFunc           func(ctx context.Context, userID int64) ([]domain.SavedBuilding, error)
	deleteFunc               func(ctx context.Context, id int64) error
}

func (m *mockSavedRepo) Init(context.Context) error { return nil }

func (m *mockSavedRepo) Create(ctx context.Context, saved *domain.SavedBuilding) (int64, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, saved)
	}
	saved.ID = 1
	return 1, nil
}

func (m *mockSavedRepo) Get(ctx context.Context, id int64) (*domain.SavedBuilding, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, notFound("saved building")
}

func (m *mockSavedRepo) GetByUserAndBuilding(ctx context.Context, userID, buildingID int64) (*domain.SavedBuilding, error) {
	if m.getByUserAndBuildingFunc != nil {
		return m.getByUserAndBuildingFunc(ctx, userID, buildingID)
	}
	return nil, notFound("saved building")
}

func (m *mockSavedRepo) ListByUser(ctx context.Context, userID int64) ([]domain.SavedBuilding, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return []domain.SavedBuilding{}, nil
}

func (m *mockSavedRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// --- facilities ---

type mockFacilityRepo struct {
	schools  []domain.School
	parks    []domain.Park
	stations []domain.Station
	sensors  []domain.NoiseSensor
	infra    []domain.Infrastructure
	err      error
}

func (m *mockFacilityRepo) Init(context.Context) error                                   { return nil }
func (m *mockFacilityRepo) UpsertSchool(context.Context, *domain.School) error           { return nil }
func (m *mockFacilityRepo) UpsertPark(context.Context, *domain.Park) error               { return nil }
func (m *mockFacilityRepo) UpsertStation(context.Context, *domain.Station) error         { return nil }
func (m *mockFacilityRepo) UpsertNoiseSensor(context.Context, *domain.NoiseSensor) error { return nil }
func (m *mockFacilityRepo) UpsertInfrastructure(context.Context, *domain.Infrastructure) error {
	return nil
}

func (m *mockFacilityRepo) ListSchools(context.Context) ([]domain.School, error) {
	return m.schools, m.err
}

func (m *mockFacilityRepo) ListParks(context.Context) ([]domain.Park, error) { return m.parks, m.err }

func (m *mockFacilityRepo) ListStations(context.Context) ([]domain.Station, error) {
	return m.stations, m.err
}

func (m *mockFacilityRepo) ListNoiseSensors(context.Context) ([]domain.NoiseSensor, error) {
	return m.sensors, m.err
}

func (m *mockFacilityRepo) ListInfrastructure(_ context.Context, category domain.InfraCategory) ([]domain.Infrastructure, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Infrastructure
	for _, i := range m.infra {
		if category == "" || i.Category == category {
			out = append(out, i)
		}
	}
	return out, nil
}

// --- regions ---

type mockRegionRepo struct {
	getFunc       func(ctx context.Context, bjdCode int64) (*domain.Region, error)
	listStatsFunc func(ctx context.Context, bjdCode int64) ([]domain.RegionStat, error)
}

func (m *mockRegionRepo) Init(context.Context) error                           { return nil }
func (m *mockRegionRepo) Upsert(context.Context, *domain.Region) error         { return nil }
func (m *mockRegionRepo) UpsertStat(context.Context, *domain.RegionStat) error { return nil }

func (m *mockRegionRepo) Get(ctx context.Context, bjdCode int64) (*domain.Region, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, bjdCode)
	}
	return nil, notFound("region")
}

func (m *mockRegionRepo) ListStats(ctx context.Context, bjdCode int64) ([]domain.RegionStat, error) {
	if m.listStatsFunc != nil {
		return m.listStatsFunc(ctx, bjdCode)
	}
	return nil, nil
}

// --- deny-list ---

type memoryDenylist struct {
	revoked map[string]time.Time
	err     error
}

func (d *memoryDenylist) Revoke(_ context.Context, id string, until time.Time) error {
	if d.err != nil {
		return d.err
	}
	if d.revoked == nil {
		d.revoked = map[string]time.Time{}
	}
	d.revoked[id] = until
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	_, ok := d.revoked[id]
	return ok, nil
}
