package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"gameshelf/pkg/database"
)

func main() {
	var (
		gamesOut   = flag.String("games", "data/games.csv", "output CSV path for games")
		reviewsOut = flag.String("reviews", "data/reviews.csv", "output CSV path for reviews")
	)
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportGames(ctx, db, *gamesOut); err != nil {
		log.Fatalf("export games failed: %v", err)
	}
	if err := exportReviews(ctx, db, *reviewsOut); err != nil {
		log.Fatalf("export reviews failed: %v", err)
	}

	log.Printf("exported games to %s and reviews to %s", *gamesOut, *reviewsOut)
}

func exportGames(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"id", "user_id", "title", "status", "hours_played", "rating",
		"genres", "platforms", "source", "external_id", "created_at",
	}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, user_id, title, status, hours_played, rating,
               genres, platforms, source, external_id, created_at
        FROM games
        ORDER BY created_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id          string
			userID      string
			title       string
			status      string
			hoursPlayed float64
			rating      sql.NullInt64
			genres      sql.NullString
			platforms   sql.NullString
			source      string
			externalID  sql.NullString
			createdAt   sql.NullTime
		)

		if err := rows.Scan(&id, &userID, &title, &status, &hoursPlayed, &rating,
			&genres, &platforms, &source, &externalID, &createdAt); err != nil {
			return err
		}

		ratingStr := ""
		if rating.Valid {
			ratingStr = strconv.FormatInt(rating.Int64, 10)
		}
		created := ""
		if createdAt.Valid {
			created = createdAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			id,
			userID,
			title,
			status,
			strconv.FormatFloat(hoursPlayed, 'f', -1, 64),
			ratingStr,
			genres.String,
			platforms.String,
			source,
			externalID.String,
			created,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportReviews(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "user_id", "game_id", "game_title", "rating", "content", "created_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, user_id, game_id, game_title, rating, content, created_at
        FROM reviews
        ORDER BY created_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        string
			userID    string
			gameID    string
			gameTitle string
			rating    int
			content   sql.NullString
			createdAt sql.NullTime
		)

		if err := rows.Scan(&id, &userID, &gameID, &gameTitle, &rating, &content, &createdAt); err != nil {
			return err
		}

		created := ""
		if createdAt.Valid {
			created = createdAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			id,
			userID,
			gameID,
			gameTitle,
			strconv.Itoa(rating),
			content.String,
			created,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
