package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"budong-api/internal/domain"
	"budong-api/internal/repository"
)

const createReviewsTable = `
CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	building_id INTEGER NOT NULL REFERENCES buildings(id) ON DELETE CASCADE,
	rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
	content TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_building ON reviews(building_id);
`

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReviewsTable); err != nil {
		return fmt.Errorf("create reviews table: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (int64, error) {
	review.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO reviews (user_id, building_id, rating, content, created_at)
VALUES (?, ?, ?, ?, ?)`,
		review.UserID,
		review.BuildingID,
		review.Rating,
		review.Content,
		review.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("review last insert id: %w", err)
	}
	review.ID = id
	return id, nil
}

// ListByBuilding returns reviews newest first.
func (r *ReviewRepository) ListByBuilding(ctx context.Context, buildingID int64) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, user_id, building_id, rating, content, created_at
FROM reviews
WHERE building_id = ?
ORDER BY created_at DESC, id DESC`,
		buildingID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.BuildingID, &rv.Rating, &rv.Content, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}
