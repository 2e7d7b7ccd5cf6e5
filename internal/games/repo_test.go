package games_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameshelf/internal/games"
	"gameshelf/pkg/database"
	"gameshelf/pkg/models"
)

func newTestRepo(t *testing.T) *games.Repo {
	t.Helper()

	t.Setenv("GAMESHELF_SCHEMA_PATH", filepath.Join("..", "..", "docs", "schema.sql"))

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))

	// games.user_id has a foreign key; seed the owning users
	for _, u := range []string{"user-1", "user-2"} {
		_, err = db.Exec(`INSERT INTO users (id, username, email, password_hash) VALUES (?, ?, ?, 'x')`,
			u, u, u+"@example.com")
		require.NoError(t, err)
	}

	return games.NewRepo(db)
}

func testGame(userID, title string) models.Game {
	now := time.Now().UTC().Truncate(time.Second)
	return models.Game{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		CoverURL:  "https://cdn.example/cover.jpg",
		Status:    models.StatusBacklog,
		Source:    models.SourceManual,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	rating := 4
	g := testGame("user-1", "Hades")
	g.Status = models.StatusCompleted
	g.HoursPlayed = 41.5
	g.Rating = &rating
	g.Genres = []string{"Roguelike", "Action"}
	g.Platforms = []string{"PC", "Switch"}
	g.Source = models.SourceSteam
	g.ExternalID = "1145360"

	require.NoError(t, repo.Insert(ctx, g))

	got, err := repo.GetByID(ctx, "user-1", g.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, g.Title, got.Title)
	assert.Equal(t, g.Status, got.Status)
	assert.Equal(t, g.HoursPlayed, got.HoursPlayed)
	require.NotNil(t, got.Rating)
	assert.Equal(t, rating, *got.Rating)
	assert.Equal(t, g.Genres, got.Genres)
	assert.Equal(t, g.Platforms, got.Platforms)
	assert.Equal(t, g.ExternalID, got.ExternalID)
}

func TestGetScopedByUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g := testGame("user-1", "Celeste")
	require.NoError(t, repo.Insert(ctx, g))

	got, err := repo.GetByID(ctx, "user-2", g.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "another user's id must behave as absent")
}

func TestListByUserNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	older := testGame("user-1", "Older")
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testGame("user-1", "Newer")
	newer.CreatedAt = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	other := testGame("user-2", "Other User")

	require.NoError(t, repo.Insert(ctx, older))
	require.NoError(t, repo.Insert(ctx, newer))
	require.NoError(t, repo.Insert(ctx, other))

	got, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Newer", got[0].Title)
	assert.Equal(t, "Older", got[1].Title)
}

func TestUpdate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g := testGame("user-1", "Hollow Knight")
	require.NoError(t, repo.Insert(ctx, g))

	rating := 5
	g.Status = models.StatusCompleted
	g.HoursPlayed = 60
	g.Rating = &rating
	g.UpdatedAt = g.UpdatedAt.Add(time.Hour)

	ok, err := repo.Update(ctx, g)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.GetByID(ctx, "user-1", g.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, 60.0, got.HoursPlayed)
	require.NotNil(t, got.Rating)
	assert.Equal(t, 5, *got.Rating)
}

func TestUpdateMissingRow(t *testing.T) {
	repo := newTestRepo(t)

	g := testGame("user-1", "Ghost")
	ok, err := repo.Update(context.Background(), g)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g := testGame("user-1", "Outer Wilds")
	require.NoError(t, repo.Insert(ctx, g))

	ok, err := repo.Delete(ctx, "user-1", g.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, "user-1", g.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
