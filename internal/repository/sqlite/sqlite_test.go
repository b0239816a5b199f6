package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"budong-api/internal/domain"
	"budong-api/internal/repository"
)

func ptr[T any](v T) *T { return &v }

type testStore struct {
	db         *sql.DB
	users      repository.UserRepository
	regions    repository.RegionRepository
	buildings  repository.BuildingRepository
	reviews    repository.ReviewRepository
	saved      repository.SavedBuildingRepository
	facilities repository.FacilityRepository
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	s := &testStore{
		db:         db,
		users:      NewUserRepository(db),
		regions:    NewRegionRepository(db),
		buildings:  NewBuildingRepository(db),
		reviews:    NewReviewRepository(db),
		saved:      NewSavedBuildingRepository(db),
		facilities: NewFacilityRepository(db),
	}
	if err := InitAll(context.Background(), s.users, s.regions, s.buildings, s.reviews, s.saved, s.facilities); err != nil {
		t.Fatalf("init: %v", err)
	}
	// Init is idempotent.
	if err := InitAll(context.Background(), s.users, s.regions, s.buildings, s.reviews, s.saved, s.facilities); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	return s
}

func createUser(t *testing.T, s *testStore, email, nickname string) *domain.User {
	t.Helper()
	u := &domain.User{Email: email, Nickname: nickname, PasswordHash: "$2a$10$hash"}
	if _, err := s.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := createUser(t, s, "kim@example.com", "kim")
	if u.ID == 0 || u.Role != domain.RoleUser || u.CreatedAt.IsZero() {
		t.Fatalf("unexpected created user: %+v", u)
	}

	got, err := s.users.GetByEmail(ctx, "kim@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID || got.Nickname != "kim" || got.PasswordHash != u.PasswordHash {
		t.Fatalf("unexpected user: %+v", got)
	}
	if _, err := s.users.GetByNickname(ctx, "kim"); err != nil {
		t.Fatalf("get by nickname: %v", err)
	}

	_, err = s.users.Create(ctx, &domain.User{Email: "kim@example.com", Nickname: "other", PasswordHash: "x"})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
	_, err = s.users.Create(ctx, &domain.User{Email: "other@example.com", Nickname: "kim", PasswordHash: "x"})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict on duplicate nickname, got %v", err)
	}

	if _, err := s.users.GetByID(ctx, 9999); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := s.users.UpdatePassword(ctx, u.ID, "$2a$10$new"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	got, _ = s.users.GetByID(ctx, u.ID)
	if got.PasswordHash != "$2a$10$new" {
		t.Fatalf("password not updated: %q", got.PasswordHash)
	}
	if err := s.users.UpdatePassword(ctx, 9999, "x"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found for missing user, got %v", err)
	}
}

func TestBuildingRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.regions.Upsert(ctx, &domain.Region{BjdCode: 1168010100, Name: ptr("역삼동")}); err != nil {
		t.Fatalf("upsert region: %v", err)
	}
	b := &domain.Building{
		ID:          1,
		BjdCode:     ptr(int64(1168010100)),
		Address:     "서울 강남구 역삼동 1",
		Name:        ptr("역삼 아파트"),
		LocationWKT: ptr("POINT(127.0367 37.5006)"),
	}
	if err := s.buildings.Upsert(ctx, b); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.buildings.Upsert(ctx, &domain.Building{ID: 2, Address: "two", Lat: ptr(37.5), Lon: ptr(127.0)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	b.Name = ptr("renamed")
	if err := s.buildings.Upsert(ctx, b); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}

	got, err := s.buildings.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name == nil || *got.Name != "renamed" || got.Lat != nil || got.LocationWKT == nil {
		t.Fatalf("unexpected building: %+v", got)
	}
	if c, ok := got.Location(); !ok || c.Lon != 127.0367 {
		t.Fatalf("expected WKT fallback location, got %v %v", c, ok)
	}

	all, err := s.buildings.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Fatalf("expected buildings ordered by id, got %+v", all)
	}

	if _, err := s.buildings.Get(ctx, 42); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	for _, tx := range []domain.Transaction{
		{ID: 10, BuildingID: 1, Date: ptr("2023-05-01"), Price: 120000},
		{ID: 11, BuildingID: 1, Date: ptr("2024-02-01"), Price: 130000, AreaSqm: ptr(84.9)},
		{ID: 12, BuildingID: 2, Date: ptr("2024-03-01"), Price: 90000},
	} {
		if err := s.buildings.UpsertTransaction(ctx, &tx); err != nil {
			t.Fatalf("upsert transaction: %v", err)
		}
	}
	txs, err := s.buildings.ListTransactions(ctx, 1)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 2 || txs[0].ID != 11 || txs[1].ID != 10 {
		t.Fatalf("expected newest first, got %+v", txs)
	}
}

func TestReviewAndSavedBuildingRepositories(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := createUser(t, s, "lee@example.com", "lee")
	if err := s.buildings.Upsert(ctx, &domain.Building{ID: 7, Address: "seven"}); err != nil {
		t.Fatalf("upsert building: %v", err)
	}

	empty, err := s.reviews.ListByBuilding(ctx, 7)
	if err != nil {
		t.Fatalf("list reviews: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", empty)
	}

	rv := &domain.Review{UserID: u.ID, BuildingID: 7, Rating: 4, Content: "quiet"}
	if _, err := s.reviews.Create(ctx, rv); err != nil {
		t.Fatalf("create review: %v", err)
	}
	if _, err := s.reviews.Create(ctx, &domain.Review{UserID: u.ID, BuildingID: 7, Rating: 9, Content: "x"}); err == nil {
		t.Fatalf("expected rating check constraint to reject 9")
	}
	reviews, _ := s.reviews.ListByBuilding(ctx, 7)
	if len(reviews) != 1 || reviews[0].Content != "quiet" || reviews[0].UserID != u.ID {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}

	saved := &domain.SavedBuilding{UserID: u.ID, BuildingID: 7, Memo: ptr("visit")}
	if _, err := s.saved.Create(ctx, saved); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := s.saved.Create(ctx, &domain.SavedBuilding{UserID: u.ID, BuildingID: 7}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	got, err := s.saved.GetByUserAndBuilding(ctx, u.ID, 7)
	if err != nil || got.ID != saved.ID || *got.Memo != "visit" {
		t.Fatalf("unexpected saved building %+v, %v", got, err)
	}
	list, _ := s.saved.ListByUser(ctx, u.ID)
	if len(list) != 1 {
		t.Fatalf("expected one saved building, got %d", len(list))
	}
	if err := s.saved.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.saved.Delete(ctx, saved.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := s.saved.Get(ctx, saved.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFacilityRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.facilities.UpsertSchool(ctx, &domain.School{ID: 2, Name: ptr("B"), Lat: ptr(37.5), Lon: ptr(127.0)}); err != nil {
		t.Fatalf("school: %v", err)
	}
	if err := s.facilities.UpsertSchool(ctx, &domain.School{ID: 1, Name: ptr("A")}); err != nil {
		t.Fatalf("school: %v", err)
	}
	schools, err := s.facilities.ListSchools(ctx)
	if err != nil {
		t.Fatalf("list schools: %v", err)
	}
	if len(schools) != 2 || schools[0].ID != 1 || schools[0].Lat != nil {
		t.Fatalf("unexpected schools: %+v", schools)
	}

	if err := s.facilities.UpsertPark(ctx, &domain.Park{Name: "도산공원", Lat: ptr(37.52), Lon: ptr(127.03)}); err != nil {
		t.Fatalf("park: %v", err)
	}
	if err := s.facilities.UpsertPark(ctx, &domain.Park{Name: "도산공원", Size: ptr("30,000㎡"), Lat: ptr(37.52), Lon: ptr(127.03)}); err != nil {
		t.Fatalf("park re-upsert: %v", err)
	}
	parks, _ := s.facilities.ListParks(ctx)
	if len(parks) != 1 || parks[0].Size == nil {
		t.Fatalf("unexpected parks: %+v", parks)
	}

	if err := s.facilities.UpsertStation(ctx, &domain.Station{ID: 222, Line: ptr(int64(2)), Name: ptr("강남")}); err != nil {
		t.Fatalf("station: %v", err)
	}
	stations, _ := s.facilities.ListStations(ctx)
	if len(stations) != 1 || *stations[0].Line != 2 {
		t.Fatalf("unexpected stations: %+v", stations)
	}

	if err := s.facilities.UpsertNoiseSensor(ctx, &domain.NoiseSensor{Address: "역삼로 1", Avg: ptr(int64(55))}); err != nil {
		t.Fatalf("noise: %v", err)
	}
	sensors, _ := s.facilities.ListNoiseSensors(ctx)
	if len(sensors) != 1 || *sensors[0].Avg != 55 || sensors[0].Max != nil {
		t.Fatalf("unexpected sensors: %+v", sensors)
	}

	for _, in := range []domain.Infrastructure{
		{ID: 1, Category: domain.InfraHospital, Name: "H", Address: "a", LocationWKT: "POINT(127.0 37.5)"},
		{ID: 2, Category: domain.InfraBank, Name: "B", Address: "b", LocationWKT: "POINT(127.1 37.6)"},
	} {
		if err := s.facilities.UpsertInfrastructure(ctx, &in); err != nil {
			t.Fatalf("infrastructure: %v", err)
		}
	}
	hospitals, err := s.facilities.ListInfrastructure(ctx, domain.InfraHospital)
	if err != nil {
		t.Fatalf("list infrastructure: %v", err)
	}
	if len(hospitals) != 1 || hospitals[0].Category != domain.InfraHospital {
		t.Fatalf("unexpected infrastructure: %+v", hospitals)
	}
	all, _ := s.facilities.ListInfrastructure(ctx, "")
	if len(all) != 2 {
		t.Fatalf("expected every category for empty filter, got %d", len(all))
	}
}

func TestRegionRepository(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.regions.Get(ctx, 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.regions.Upsert(ctx, &domain.Region{BjdCode: 1168010100, Name: ptr("역삼동"), NameEng: ptr("Yeoksam-dong")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	for _, st := range []domain.RegionStat{
		{BjdCode: 1168010100, Year: 2022, Type: domain.StatsCrimeTotal, Value: 10},
		{BjdCode: 1168010100, Year: 2023, Type: domain.StatsCrimeTotal, Value: 12},
		{BjdCode: 1168010100, Year: 2023, Type: domain.StatsCrimeTotal, Value: 14},
	} {
		if err := s.regions.UpsertStat(ctx, &st); err != nil {
			t.Fatalf("upsert stat: %v", err)
		}
	}
	stats, err := s.regions.ListStats(ctx, 1168010100)
	if err != nil {
		t.Fatalf("list stats: %v", err)
	}
	if len(stats) != 2 || stats[0].Year != 2023 || stats[0].Value != 14 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	if err := s.regions.UpsertStat(ctx, &domain.RegionStat{BjdCode: 42, Year: 2023, Type: domain.StatsNoiseDay, Value: 1}); err == nil {
		t.Fatalf("expected foreign key violation for unknown region")
	}
}
