package games

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gameshelf/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const gameColumns = `id, user_id, title, cover_url, status, hours_played, rating,
	genres, platforms, release_date, description, developer, publisher,
	source, external_id, created_at, updated_at`

func (r *Repo) Insert(ctx context.Context, g models.Game) error {
	genres, _ := json.Marshal(orEmpty(g.Genres))
	platforms, _ := json.Marshal(orEmpty(g.Platforms))

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO games (`+gameColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		g.ID, g.UserID, g.Title, g.CoverURL, g.Status, g.HoursPlayed, ratingArg(g.Rating),
		string(genres), string(platforms), nullable(g.ReleaseDate), nullable(g.Description),
		nullable(g.Developer), nullable(g.Publisher), g.Source, nullable(g.ExternalID),
		g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// ListByUser returns the user's whole library, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]models.Game, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game row: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, userID, id string) (*models.Game, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+gameColumns+`
		FROM games
		WHERE user_id = ? AND id = ?
	`, userID, id)

	g, err := scanGame(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	return &g, nil
}

// Update replaces the mutable fields of an existing row. Callers load the
// row, apply partial changes, and hand the merged value back here.
func (r *Repo) Update(ctx context.Context, g models.Game) (bool, error) {
	genres, _ := json.Marshal(orEmpty(g.Genres))
	platforms, _ := json.Marshal(orEmpty(g.Platforms))

	res, err := r.DB.ExecContext(ctx, `
		UPDATE games
		SET title = ?, cover_url = ?, status = ?, hours_played = ?, rating = ?,
			genres = ?, platforms = ?, release_date = ?, description = ?,
			developer = ?, publisher = ?, updated_at = ?
		WHERE user_id = ? AND id = ?
	`,
		g.Title, g.CoverURL, g.Status, g.HoursPlayed, ratingArg(g.Rating),
		string(genres), string(platforms), nullable(g.ReleaseDate), nullable(g.Description),
		nullable(g.Developer), nullable(g.Publisher), g.UpdatedAt,
		g.UserID, g.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update game: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Delete(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM games
		WHERE user_id = ? AND id = ?
	`, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete game: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (models.Game, error) {
	var (
		g           models.Game
		rating      sql.NullInt64
		genresJSON  string
		platsJSON   string
		releaseDate sql.NullString
		description sql.NullString
		developer   sql.NullString
		publisher   sql.NullString
		externalID  sql.NullString
	)

	if err := row.Scan(
		&g.ID, &g.UserID, &g.Title, &g.CoverURL, &g.Status, &g.HoursPlayed, &rating,
		&genresJSON, &platsJSON, &releaseDate, &description, &developer, &publisher,
		&g.Source, &externalID, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return models.Game{}, err
	}

	if rating.Valid {
		v := int(rating.Int64)
		g.Rating = &v
	}
	g.ReleaseDate = releaseDate.String
	g.Description = description.String
	g.Developer = developer.String
	g.Publisher = publisher.String
	g.ExternalID = externalID.String

	_ = json.Unmarshal([]byte(genresJSON), &g.Genres)
	_ = json.Unmarshal([]byte(platsJSON), &g.Platforms)
	return g, nil
}

func ratingArg(r *int) any {
	if r == nil {
		return nil
	}
	return *r
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
