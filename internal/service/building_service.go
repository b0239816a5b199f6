package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budong-api/internal/domain"
	"budong-api/internal/geo"
	"budong-api/internal/repository"
)

// BuildingDetail aggregates a building with its surroundings. Nearby lists
// are empty and the nearest lookups nil when the building has no usable
// position.
type BuildingDetail struct {
	Building       domain.Building
	Transactions   []domain.Transaction
	Reviews        []domain.Review
	Schools        []geo.Match[domain.School]
	Parks          []geo.Match[domain.Park]
	Infrastructure []geo.Match[domain.Infrastructure]
	NearestStation *geo.Match[domain.Station]
	Region         *domain.Region
	RegionStats    []domain.RegionStat
	Noise          *geo.Match[domain.NoiseSensor]
}

type BuildingRadii struct {
	Nearby  float64
	Station float64
}

// BuildingService covers building detail, reviews and users' saved lists.
type BuildingService interface {
	Detail(ctx context.Context, id int64) (*BuildingDetail, error)
	Reviews(ctx context.Context, buildingID int64) ([]domain.Review, error)
	CreateReview(ctx context.Context, userID, buildingID int64, rating int, content string) (*domain.Review, error)
	ListSaved(ctx context.Context, userID int64) ([]domain.SavedBuilding, error)
	// Save reports created=false with the existing entry when the building
	// is already in the user's list.
	Save(ctx context.Context, userID, buildingID int64, memo *string) (saved *domain.SavedBuilding, created bool, err error)
	// DeleteSaved only removes entries owned by userID; anything else is
	// reported as not found.
	DeleteSaved(ctx context.Context, userID, saveID int64) error
}

type buildingService struct {
	buildings  repository.BuildingRepository
	reviews    repository.ReviewRepository
	saved      repository.SavedBuildingRepository
	facilities repository.FacilityRepository
	regions    repository.RegionRepository
	radii      BuildingRadii
}

func NewBuildingService(
	buildings repository.BuildingRepository,
	reviews repository.ReviewRepository,
	saved repository.SavedBuildingRepository,
	facilities repository.FacilityRepository,
	regions repository.RegionRepository,
	radii BuildingRadii,
) BuildingService {
	return &buildingService{
		buildings:  buildings,
		reviews:    reviews,
		saved:      saved,
		facilities: facilities,
		regions:    regions,
		radii:      radii,
	}
}

func (s *buildingService) Detail(ctx context.Context, id int64) (*BuildingDetail, error) {
	building, err := s.buildings.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &BuildingDetail{Building: *building}
	if detail.Transactions, err = s.buildings.ListTransactions(ctx, id); err != nil {
		return nil, err
	}
	if detail.Reviews, err = s.reviews.ListByBuilding(ctx, id); err != nil {
		return nil, err
	}

	if building.BjdCode != nil {
		region, err := s.regions.Get(ctx, *building.BjdCode)
		switch {
		case err == nil:
			detail.Region = region
			if detail.RegionStats, err = s.regions.ListStats(ctx, region.BjdCode); err != nil {
				return nil, err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	center, ok := building.Location()
	if !ok {
		return detail, nil
	}
	if err := s.fillSurroundings(ctx, center, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *buildingService) fillSurroundings(ctx context.Context, center geo.Coordinate, detail *BuildingDetail) error {
	schools, err := s.facilities.ListSchools(ctx)
	if err != nil {
		return err
	}
	parks, err := s.facilities.ListParks(ctx)
	if err != nil {
		return err
	}
	infra, err := s.facilities.ListInfrastructure(ctx, "")
	if err != nil {
		return err
	}
	stations, err := s.facilities.ListStations(ctx)
	if err != nil {
		return err
	}
	sensors, err := s.facilities.ListNoiseSensors(ctx)
	if err != nil {
		return err
	}

	detail.Schools = geo.WithinRadius(center, s.radii.Nearby, schools)
	detail.Parks = geo.WithinRadius(center, s.radii.Nearby, parks)
	detail.Infrastructure = geo.WithinRadius(center, s.radii.Nearby, infra)
	geo.SortByDistance(detail.Schools)
	geo.SortByDistance(detail.Parks)
	geo.SortByDistance(detail.Infrastructure)

	if m, ok := geo.NearestWithin(center, s.radii.Station, stations); ok {
		detail.NearestStation = &m
	}
	if m, ok := geo.Nearest(center, sensors); ok {
		detail.Noise = &m
	}
	return nil
}

func (s *buildingService) Reviews(ctx context.Context, buildingID int64) ([]domain.Review, error) {
	return s.reviews.ListByBuilding(ctx, buildingID)
}

func (s *buildingService) CreateReview(ctx context.Context, userID, buildingID int64, rating int, content string) (*domain.Review, error) {
	content = strings.TrimSpace(content)
	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if _, err := s.buildings.Get(ctx, buildingID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		UserID:     userID,
		BuildingID: buildingID,
		Rating:     rating,
		Content:    content,
	}
	if _, err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *buildingService) ListSaved(ctx context.Context, userID int64) ([]domain.SavedBuilding, error) {
	return s.saved.ListByUser(ctx, userID)
}

func (s *buildingService) Save(ctx context.Context, userID, buildingID int64, memo *string) (*domain.SavedBuilding, bool, error) {
	if _, err := s.buildings.Get(ctx, buildingID); err != nil {
		return nil, false, err
	}

	existing, err := s.saved.GetByUserAndBuilding(ctx, userID, buildingID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, err
	}

	saved := &domain.SavedBuilding{UserID: userID, BuildingID: buildingID, Memo: memo}
	if _, err := s.saved.Create(ctx, saved); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			existing, getErr := s.saved.GetByUserAndBuilding(ctx, userID, buildingID)
			if getErr != nil {
				return nil, false, getErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return saved, true, nil
}

func (s *buildingService) DeleteSaved(ctx context.Context, userID, saveID int64) error {
	saved, err := s.saved.Get(ctx, saveID)
	if err != nil {
		return err
	}
	if saved.UserID != userID {
		return fmt.Errorf("saved building %w", repository.ErrNotFound)
	}
	return s.saved.Delete(ctx, saveID)
}
