package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"budong-api/internal/domain"
	"budong-api/internal/repository"
)

const (
	createRegionsTable = `
CREATE TABLE IF NOT EXISTS regions (
	bjd_code INTEGER PRIMARY KEY,
	name TEXT NULL,
	name_eng TEXT NULL
);
`
	createRegionStatsTable = `
CREATE TABLE IF NOT EXISTS region_stats (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bjd_code INTEGER NOT NULL REFERENCES regions(bjd_code) ON DELETE CASCADE,
	year INTEGER NOT NULL,
	stats_type TEXT NOT NULL,
	stats_value REAL NOT NULL,
	UNIQUE (bjd_code, year, stats_type)
);
`
)

type RegionRepository struct {
	db *sql.DB
}

func NewRegionRepository(db *sql.DB) repository.RegionRepository {
	return &RegionRepository{db: db}
}

func (r *RegionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRegionsTable); err != nil {
		return fmt.Errorf("create regions table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createRegionStatsTable); err != nil {
		return fmt.Errorf("create region_stats table: %w", err)
	}
	return nil
}

func (r *RegionRepository) Upsert(ctx context.Context, region *domain.Region) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO regions (bjd_code, name, name_eng)
VALUES (?, ?, ?)
ON CONFLICT(bjd_code) DO UPDATE SET
	name = excluded.name,
	name_eng = excluded.name_eng`,
		region.BjdCode, region.Name, region.NameEng,
	)
	if err != nil {
		return fmt.Errorf("upsert region %d: %w", region.BjdCode, err)
	}
	return nil
}

func (r *RegionRepository) Get(ctx context.Context, bjdCode int64) (*domain.Region, error) {
	var region domain.Region
	err := r.db.QueryRowContext(ctx, `
SELECT bjd_code, name, name_eng FROM regions WHERE bjd_code = ?`, bjdCode,
	).Scan(&region.BjdCode, &region.Name, &region.NameEng)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("region %d %w", bjdCode, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan region: %w", err)
	}
	return &region, nil
}

func (r *RegionRepository) UpsertStat(ctx context.Context, s *domain.RegionStat) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO region_stats (bjd_code, year, stats_type, stats_value)
VALUES (?, ?, ?, ?)
ON CONFLICT(bjd_code, year, stats_type) DO UPDATE SET
	stats_value = excluded.stats_value`,
		s.BjdCode, s.Year, string(s.Type), s.Value,
	)
	if err != nil {
		return fmt.Errorf("upsert region stat %d/%d/%s: %w", s.BjdCode, s.Year, s.Type, err)
	}
	return nil
}

func (r *RegionRepository) ListStats(ctx context.Context, bjdCode int64) ([]domain.RegionStat, error) {
	return queryAll(ctx, r.db, "region stats", `
SELECT id, bjd_code, year, stats_type, stats_value
FROM region_stats WHERE bjd_code = ?
ORDER BY year DESC, stats_type`,
		func(row scanner) (domain.RegionStat, error) {
			var (
				s  domain.RegionStat
				st string
			)
			err := row.Scan(&s.ID, &s.BjdCode, &s.Year, &st, &s.Value)
			s.Type = domain.StatsType(st)
			return s, err
		}, bjdCode)
}
