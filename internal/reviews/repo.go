package reviews

import (
	"context"
	"database/sql"
	"fmt"

	"gameshelf/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, rev models.Review) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO reviews (id, user_id, game_id, game_title, game_cover, rating, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rev.ID, rev.UserID, rev.GameID, rev.GameTitle, rev.GameCover, rev.Rating, rev.Content,
		rev.CreatedAt, rev.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, userID, id string) (*models.Review, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, game_id, game_title, game_cover, rating, content, created_at, updated_at
		FROM reviews
		WHERE user_id = ? AND id = ?
	`, userID, id)

	rev, err := scanReview(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rev, nil
}

// ListByUser returns the user's reviews, newest first, optionally filtered
// to one game.
func (r *Repo) ListByUser(ctx context.Context, userID, gameID string) ([]models.Review, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if gameID == "" {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT id, user_id, game_id, game_title, game_cover, rating, content, created_at, updated_at
			FROM reviews
			WHERE user_id = ?
			ORDER BY created_at DESC
		`, userID)
	} else {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT id, user_id, game_id, game_title, game_cover, rating, content, created_at, updated_at
			FROM reviews
			WHERE user_id = ? AND game_id = ?
			ORDER BY created_at DESC
		`, userID, gameID)
	}
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		out = append(out, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Update(ctx context.Context, rev models.Review) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE reviews
		SET rating = ?, content = ?, updated_at = ?
		WHERE user_id = ? AND id = ?
	`, rev.Rating, rev.Content, rev.UpdatedAt, rev.UserID, rev.ID)
	if err != nil {
		return false, fmt.Errorf("update review: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM reviews
		WHERE user_id = ? AND id = ?
	`, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete review: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (models.Review, error) {
	var (
		rev     models.Review
		cover   sql.NullString
		content sql.NullString
	)
	if err := row.Scan(
		&rev.ID, &rev.UserID, &rev.GameID, &rev.GameTitle, &cover, &rev.Rating, &content,
		&rev.CreatedAt, &rev.UpdatedAt,
	); err != nil {
		return models.Review{}, err
	}
	rev.GameCover = cover.String
	rev.Content = content.String
	return rev, nil
}
