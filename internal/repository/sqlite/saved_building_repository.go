package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"budong-api/internal/domain"
	"budong-api/internal/repository"
)

const createSavedBuildingsTable = `
CREATE TABLE IF NOT EXISTS saved_buildings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	building_id INTEGER NOT NULL REFERENCES buildings(id) ON DELETE CASCADE,
	memo TEXT NULL,
	created_at DATETIME NOT NULL,
	UNIQUE (user_id, building_id)
);
`

type SavedBuildingRepository struct {
	db *sql.DB
}

func NewSavedBuildingRepository(db *sql.DB) repository.SavedBuildingRepository {
	return &SavedBuildingRepository{db: db}
}

func (r *SavedBuildingRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSavedBuildingsTable); err != nil {
		return fmt.Errorf("create saved_buildings table: %w", err)
	}
	return nil
}

func (r *SavedBuildingRepository) Create(ctx context.Context, s *domain.SavedBuilding) (int64, error) {
	s.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO saved_buildings (user_id, building_id, memo, created_at)
VALUES (?, ?, ?, ?)`,
		s.UserID,
		s.BuildingID,
		s.Memo,
		s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("building already saved: %w", repository.ErrConflict)
		}
		return 0, fmt.Errorf("insert saved building: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("saved building last insert id: %w", err)
	}
	s.ID = id
	return id, nil
}

const selectSavedBuilding = `
SELECT id, user_id, building_id, memo, created_at
FROM saved_buildings
`

func (r *SavedBuildingRepository) Get(ctx context.Context, id int64) (*domain.SavedBuilding, error) {
	return scanSavedBuilding(r.db.QueryRowContext(ctx, selectSavedBuilding+`WHERE id = ?`, id))
}

func (r *SavedBuildingRepository) GetByUserAndBuilding(ctx context.Context, userID, buildingID int64) (*domain.SavedBuilding, error) {
	return scanSavedBuilding(r.db.QueryRowContext(ctx,
		selectSavedBuilding+`WHERE user_id = ? AND building_id = ?`, userID, buildingID))
}

func (r *SavedBuildingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.SavedBuilding, error) {
	rows, err := r.db.QueryContext(ctx, selectSavedBuilding+`WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list saved buildings: %w", err)
	}
	defer rows.Close()

	saved := []domain.SavedBuilding{}
	for rows.Next() {
		s, err := scanSavedBuilding(rows)
		if err != nil {
			return nil, err
		}
		saved = append(saved, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved buildings: %w", err)
	}
	return saved, nil
}

func (r *SavedBuildingRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_buildings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete saved building: %w", err)
	}
	return expectAffected(res, "saved building")
}

func scanSavedBuilding(row scanner) (*domain.SavedBuilding, error) {
	var s domain.SavedBuilding
	if err := row.Scan(&s.ID, &s.UserID, &s.BuildingID, &s.Memo, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("saved building %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan saved building: %w", err)
	}
	return &s, nil
}
