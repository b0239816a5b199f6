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
	createBuildingsTable = `
CREATE TABLE IF NOT EXISTS buildings (
	id INTEGER PRIMARY KEY,
	bjd_code INTEGER NULL REFERENCES regions(bjd_code) ON DELETE SET NULL,
	address TEXT NOT NULL,
	name TEXT NULL,
	type TEXT NULL,
	build_year TEXT NULL,
	total_units TEXT NULL,
	location TEXT NULL,
	latitude REAL NULL,
	longitude REAL NULL
);
`
	createTransactionsTable = `
CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY,
	building_id INTEGER NOT NULL REFERENCES buildings(id) ON DELETE CASCADE,
	transaction_date TEXT NULL,
	price INTEGER NOT NULL,
	area_sqm REAL NULL,
	floor REAL NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_building ON transactions(building_id);
`
)

type BuildingRepository struct {
	db *sql.DB
}

func NewBuildingRepository(db *sql.DB) repository.BuildingRepository {
	return &BuildingRepository{db: db}
}

func (r *BuildingRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBuildingsTable); err != nil {
		return fmt.Errorf("create buildings table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createTransactionsTable); err != nil {
		return fmt.Errorf("create transactions table: %w", err)
	}
	return nil
}

func (r *BuildingRepository) Upsert(ctx context.Context, b *domain.Building) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO buildings (id, bjd_code, address, name, type, build_year, total_units, location, latitude, longitude)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	bjd_code = excluded.bjd_code,
	address = excluded.address,
	name = excluded.name,
	type = excluded.type,
	build_year = excluded.build_year,
	total_units = excluded.total_units,
	location = excluded.location,
	latitude = excluded.latitude,
	longitude = excluded.longitude`,
		b.ID, b.BjdCode, b.Address, b.Name, b.Type, b.BuildYear, b.TotalUnits, b.LocationWKT, b.Lat, b.Lon,
	)
	if err != nil {
		return fmt.Errorf("upsert building %d: %w", b.ID, err)
	}
	return nil
}

const selectBuilding = `
SELECT id, bjd_code, address, name, type, build_year, total_units, location, latitude, longitude
FROM buildings
`

func (r *BuildingRepository) Get(ctx context.Context, id int64) (*domain.Building, error) {
	b, err := scanBuilding(r.db.QueryRowContext(ctx, selectBuilding+`WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("building %d %w", id, repository.ErrNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (r *BuildingRepository) List(ctx context.Context) ([]domain.Building, error) {
	rows, err := r.db.QueryContext(ctx, selectBuilding+`ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	defer rows.Close()

	var out []domain.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buildings: %w", err)
	}
	return out, nil
}

func scanBuilding(row scanner) (*domain.Building, error) {
	var b domain.Building
	if err := row.Scan(
		&b.ID,
		&b.BjdCode,
		&b.Address,
		&b.Name,
		&b.Type,
		&b.BuildYear,
		&b.TotalUnits,
		&b.LocationWKT,
		&b.Lat,
		&b.Lon,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan building: %w", err)
	}
	return &b, nil
}

func (r *BuildingRepository) UpsertTransaction(ctx context.Context, t *domain.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (id, building_id, transaction_date, price, area_sqm, floor)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	building_id = excluded.building_id,
	transaction_date = excluded.transaction_date,
	price = excluded.price,
	area_sqm = excluded.area_sqm,
	floor = excluded.floor`,
		t.ID, t.BuildingID, t.Date, t.Price, t.AreaSqm, t.Floor,
	)
	if err != nil {
		return fmt.Errorf("upsert transaction %d: %w", t.ID, err)
	}
	return nil
}

// ListTransactions returns the building's sales, most recent first.
func (r *BuildingRepository) ListTransactions(ctx context.Context, buildingID int64) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, building_id, transaction_date, price, area_sqm, floor
FROM transactions
WHERE building_id = ?
ORDER BY transaction_date DESC, id DESC`,
		buildingID,
	)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.BuildingID, &t.Date, &t.Price, &t.AreaSqm, &t.Floor); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}
