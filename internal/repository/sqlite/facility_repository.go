package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"budong-api/internal/domain"
	"budong-api/internal/repository"
)

var facilityTables = []struct {
	name string
	ddl  string
}{
	{"schools", `
CREATE TABLE IF NOT EXISTS schools (
	id INTEGER PRIMARY KEY,
	name TEXT NULL,
	build_year INTEGER NULL,
	district TEXT NULL,
	level TEXT NULL,
	category TEXT NULL,
	address TEXT NULL,
	latitude REAL NULL,
	longitude REAL NULL
);`},
	{"parks", `
CREATE TABLE IF NOT EXISTS parks (
	name TEXT PRIMARY KEY,
	introduce TEXT NULL,
	size TEXT NULL,
	region TEXT NULL,
	address TEXT NULL,
	management TEXT NULL,
	latitude REAL NULL,
	longitude REAL NULL
);`},
	{"stations", `
CREATE TABLE IF NOT EXISTS stations (
	id INTEGER PRIMARY KEY,
	line INTEGER NULL,
	name TEXT NULL,
	latitude REAL NULL,
	longitude REAL NULL
);`},
	{"noise_sensors", `
CREATE TABLE IF NOT EXISTS noise_sensors (
	address TEXT PRIMARY KEY,
	max_db INTEGER NULL,
	avg_db INTEGER NULL,
	min_db INTEGER NULL,
	latitude REAL NULL,
	longitude REAL NULL
);`},
	{"infrastructure", `
CREATE TABLE IF NOT EXISTS infrastructure (
	id INTEGER PRIMARY KEY,
	category TEXT NOT NULL,
	name TEXT NOT NULL,
	address TEXT NOT NULL,
	location TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_infrastructure_category ON infrastructure(category);`},
}

type FacilityRepository struct {
	db *sql.DB
}

func NewFacilityRepository(db *sql.DB) repository.FacilityRepository {
	return &FacilityRepository{db: db}
}

func (r *FacilityRepository) Init(ctx context.Context) error {
	for _, t := range facilityTables {
		if _, err := r.db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", t.name, err)
		}
	}
	return nil
}

func (r *FacilityRepository) UpsertSchool(ctx context.Context, s *domain.School) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO schools (id, name, build_year, district, level, category, address, latitude, longitude)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	name = excluded.name,
	build_year = excluded.build_year,
	district = excluded.district,
	level = excluded.level,
	category = excluded.category,
	address = excluded.address,
	latitude = excluded.latitude,
	longitude = excluded.longitude`,
		s.ID, s.Name, s.BuildYear, s.District, s.Level, s.Category, s.Address, s.Lat, s.Lon,
	)
	if err != nil {
		return fmt.Errorf("upsert school %d: %w", s.ID, err)
	}
	return nil
}

func (r *FacilityRepository) ListSchools(ctx context.Context) ([]domain.School, error) {
	return queryAll(ctx, r.db, "schools", `
SELECT id, name, build_year, district, level, category, address, latitude, longitude
FROM schools ORDER BY id`,
		func(row scanner) (domain.School, error) {
			var s domain.School
			err := row.Scan(&s.ID, &s.Name, &s.BuildYear, &s.District, &s.Level, &s.Category, &s.Address, &s.Lat, &s.Lon)
			return s, err
		})
}

func (r *FacilityRepository) UpsertPark(ctx context.Context, p *domain.Park) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO parks (name, introduce, size, region, address, management, latitude, longitude)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	introduce = excluded.introduce,
	size = excluded.size,
	region = excluded.region,
	address = excluded.address,
	management = excluded.management,
	latitude = excluded.latitude,
	longitude = excluded.longitude`,
		p.Name, p.Introduce, p.Size, p.Region, p.Address, p.Management, p.Lat, p.Lon,
	)
	if err != nil {
		return fmt.Errorf("upsert park %q: %w", p.Name, err)
	}
	return nil
}

func (r *FacilityRepository) ListParks(ctx context.Context) ([]domain.Park, error) {
	return queryAll(ctx, r.db, "parks", `
SELECT name, introduce, size, region, address, management, latitude, longitude
FROM parks ORDER BY rowid`,
		func(row scanner) (domain.Park, error) {
			var p domain.Park
			err := row.Scan(&p.Name, &p.Introduce, &p.Size, &p.Region, &p.Address, &p.Management, &p.Lat, &p.Lon)
			return p, err
		})
}

func (r *FacilityRepository) UpsertStation(ctx context.Context, s *domain.Station) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO stations (id, line, name, latitude, longitude)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	line = excluded.line,
	name = excluded.name,
	latitude = excluded.latitude,
	longitude = excluded.longitude`,
		s.ID, s.Line, s.Name, s.Lat, s.Lon,
	)
	if err != nil {
		return fmt.Errorf("upsert station %d: %w", s.ID, err)
	}
	return nil
}

func (r *FacilityRepository) ListStations(ctx context.Context) ([]domain.Station, error) {
	return queryAll(ctx, r.db, "stations", `
SELECT id, line, name, latitude, longitude
FROM stations ORDER BY id`,
		func(row scanner) (domain.Station, error) {
			var s domain.Station
			err := row.Scan(&s.ID, &s.Line, &s.Name, &s.Lat, &s.Lon)
			return s, err
		})
}

func (r *FacilityRepository) UpsertNoiseSensor(ctx context.Context, n *domain.NoiseSensor) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO noise_sensors (address, max_db, avg_db, min_db, latitude, longitude)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(address) DO UPDATE SET
	max_db = excluded.max_db,
	avg_db = excluded.avg_db,
	min_db = excluded.min_db,
	latitude = excluded.latitude,
	longitude = excluded.longitude`,
		n.Address, n.Max, n.Avg, n.Min, n.Lat, n.Lon,
	)
	if err != nil {
		return fmt.Errorf("upsert noise sensor %q: %w", n.Address, err)
	}
	return nil
}

func (r *FacilityRepository) ListNoiseSensors(ctx context.Context) ([]domain.NoiseSensor, error) {
	return queryAll(ctx, r.db, "noise sensors", `
SELECT address, max_db, avg_db, min_db, latitude, longitude
FROM noise_sensors ORDER BY rowid`,
		func(row scanner) (domain.NoiseSensor, error) {
			var n domain.NoiseSensor
			err := row.Scan(&n.Address, &n.Max, &n.Avg, &n.Min, &n.Lat, &n.Lon)
			return n, err
		})
}

func (r *FacilityRepository) UpsertInfrastructure(ctx context.Context, i *domain.Infrastructure) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO infrastructure (id, category, name, address, location)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	category = excluded.category,
	name = excluded.name,
	address = excluded.address,
	location = excluded.location`,
		i.ID, string(i.Category), i.Name, i.Address, i.LocationWKT,
	)
	if err != nil {
		return fmt.Errorf("upsert infrastructure %d: %w", i.ID, err)
	}
	return nil
}

func (r *FacilityRepository) ListInfrastructure(ctx context.Context, category domain.InfraCategory) ([]domain.Infrastructure, error) {
	return queryAll(ctx, r.db, "infrastructure", `
SELECT id, category, name, address, location
FROM infrastructure WHERE (? = '' OR category = ?) ORDER BY id`,
		func(row scanner) (domain.Infrastructure, error) {
			var (
				i   domain.Infrastructure
				cat string
			)
			err := row.Scan(&i.ID, &cat, &i.Name, &i.Address, &i.LocationWKT)
			i.Category = domain.InfraCategory(cat)
			return i, err
		}, string(category), string(category))
}

// queryAll runs a list query and scans every row with scan.
func queryAll[T any](ctx context.Context, db *sql.DB, what, query string, scan func(scanner) (T, error), args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}
