package stats_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gameshelf/internal/stats"
	"gameshelf/pkg/models"
)

func ratingPtr(v int) *int { return &v }

func monthTime(year int, month time.Month) time.Time {
	return time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
}

func TestComputeEmptyLibrary(t *testing.T) {
	got := stats.Compute(nil)

	assert.Equal(t, 0, got.Overview.TotalGames)
	assert.Equal(t, 0.0, got.Overview.AverageRating)
	assert.Empty(t, got.Genres)
	assert.Empty(t, got.Platforms)
	assert.Empty(t, got.TopRated)
	assert.Empty(t, got.MonthlyActivity)
}

func TestComputeOverview(t *testing.T) {
	games := []models.Game{
		{Status: models.StatusCompleted, Rating: ratingPtr(5), HoursPlayed: 10, Genres: []string{"RPG"}},
		{Status: models.StatusPlaying, HoursPlayed: 5, Genres: []string{"RPG", "Action"}},
	}

	got := stats.Compute(games)

	assert.Equal(t, 2, got.Overview.TotalGames)
	assert.Equal(t, 1, got.Overview.CompletedGames)
	assert.Equal(t, 1, got.Overview.PlayingGames)
	assert.Equal(t, 0, got.Overview.BacklogGames)
	assert.Equal(t, 15.0, got.Overview.TotalHours)
	// the unrated game is excluded from the average entirely
	assert.Equal(t, 5.0, got.Overview.AverageRating)

	require.Len(t, got.Genres, 2)
	assert.Equal(t, "RPG", got.Genres[0].Name)
	assert.Equal(t, 2, got.Genres[0].Count)
	assert.Equal(t, 15.0, got.Genres[0].TotalHours)
	assert.Equal(t, "Action", got.Genres[1].Name)
	assert.Equal(t, 1, got.Genres[1].Count)
	assert.Equal(t, 5.0, got.Genres[1].TotalHours)
}

func TestStatusCountsSumToTotal(t *testing.T) {
	games := []models.Game{
		{Status: models.StatusCompleted},
		{Status: models.StatusPlaying},
		{Status: models.StatusPlaying},
		{Status: models.StatusBacklog},
	}

	o := stats.Compute(games).Overview
	assert.Equal(t, len(games), o.TotalGames)
	assert.Equal(t, o.TotalGames, o.CompletedGames+o.PlayingGames+o.BacklogGames)
}

func TestAverageRating(t *testing.T) {
	t.Run("no rated games", func(t *testing.T) {
		games := []models.Game{{Status: models.StatusBacklog}, {Status: models.StatusPlaying}}
		assert.Equal(t, 0.0, stats.Compute(games).Overview.AverageRating)
	})

	t.Run("single rated game", func(t *testing.T) {
		games := []models.Game{
			{Status: models.StatusBacklog},
			{Status: models.StatusCompleted, Rating: ratingPtr(3)},
		}
		assert.Equal(t, 3.0, stats.Compute(games).Overview.AverageRating)
	})

	t.Run("rounds to one decimal", func(t *testing.T) {
		games := []models.Game{
			{Rating: ratingPtr(5)},
			{Rating: ratingPtr(4)},
			{Rating: ratingPtr(4)},
		}
		// 13/3 = 4.333...
		assert.Equal(t, 4.3, stats.Compute(games).Overview.AverageRating)
	})

	t.Run("rating zero counts as rated", func(t *testing.T) {
		games := []models.Game{{Rating: ratingPtr(0)}}
		assert.Equal(t, 0.0, stats.Compute(games).Overview.AverageRating)
	})
}

func TestGenreRollups(t *testing.T) {
	games := []models.Game{
		{Genres: []string{"RPG", "Action"}, HoursPlayed: 10, Rating: ratingPtr(4)},
		{Genres: []string{"RPG"}, HoursPlayed: 20, Rating: ratingPtr(5)},
		{Genres: []string{"Action"}, HoursPlayed: 2},
		{HoursPlayed: 99}, // no genres, contributes nowhere
	}

	got := stats.Compute(games).Genres
	require.Len(t, got, 2)

	rpg := got[0]
	assert.Equal(t, "RPG", rpg.Name)
	assert.Equal(t, 2, rpg.Count)
	assert.Equal(t, 30.0, rpg.TotalHours)
	assert.Equal(t, 4.5, rpg.AvgRating)

	action := got[1]
	assert.Equal(t, "Action", action.Name)
	assert.Equal(t, 2, action.Count)
	assert.Equal(t, 12.0, action.TotalHours)
	// only the first game is rated
	assert.Equal(t, 4.0, action.AvgRating)
}

func TestGenresTruncatedToTopTen(t *testing.T) {
	var games []models.Game
	for i := 0; i < 15; i++ {
		games = append(games, models.Game{
			Genres: []string{string(rune('A' + i))},
		})
	}

	got := stats.Compute(games).Genres
	assert.Len(t, got, 10)
}

func TestPlatformsUnbounded(t *testing.T) {
	var games []models.Game
	for i := 0; i < 15; i++ {
		games = append(games, models.Game{
			Platforms: []string{string(rune('A' + i))},
		})
	}

	got := stats.Compute(games).Platforms
	assert.Len(t, got, 15)
}

func TestTopRated(t *testing.T) {
	games := []models.Game{
		{ID: "a", Title: "A", Rating: ratingPtr(4), HoursPlayed: 50},
		{ID: "b", Title: "B", Rating: ratingPtr(5), HoursPlayed: 10},
		{ID: "c", Title: "C", Rating: ratingPtr(5), HoursPlayed: 80},
		{ID: "d", Title: "D", HoursPlayed: 500}, // unrated, never listed
	}

	got := stats.Compute(games).TopRated
	require.Len(t, got, 3)

	// rating desc, hours desc on ties
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "a", got[2].ID)
}

func TestTopRatedCappedAtTen(t *testing.T) {
	var games []models.Game
	for i := 0; i < 14; i++ {
		games = append(games, models.Game{ID: string(rune('a' + i)), Rating: ratingPtr(i % 6)})
	}

	got := stats.Compute(games).TopRated
	assert.Len(t, got, 10)
}

func TestMonthlyActivity(t *testing.T) {
	games := []models.Game{
		{CreatedAt: monthTime(2026, time.March), HoursPlayed: 4},
		{CreatedAt: monthTime(2026, time.March), HoursPlayed: 6},
		{CreatedAt: monthTime(2026, time.January), HoursPlayed: 1},
		{HoursPlayed: 50}, // no createdAt, excluded
	}

	got := stats.Compute(games).MonthlyActivity
	require.Len(t, got, 2)

	assert.Equal(t, "2026-03", got[0].Month)
	assert.Equal(t, 2, got[0].GamesAdded)
	assert.Equal(t, 10.0, got[0].HoursPlayed)

	assert.Equal(t, "2026-01", got[1].Month)
	assert.Equal(t, 1, got[1].GamesAdded)
}

func TestMonthlyActivityCappedAtTwelveMostRecent(t *testing.T) {
	var games []models.Game
	for i := 0; i < 18; i++ {
		games = append(games, models.Game{
			CreatedAt: monthTime(2025, time.January).AddDate(0, i, 0),
		})
	}

	got := stats.Compute(games).MonthlyActivity
	require.Len(t, got, 12)

	// strictly decreasing month keys
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i-1].Month, got[i].Month)
	}
	assert.Equal(t, "2026-06", got[0].Month)
	assert.Equal(t, "2025-07", got[11].Month)
}

func TestComputeIsOrderInsensitive(t *testing.T) {
	games := []models.Game{
		{ID: "1", Status: models.StatusCompleted, Rating: ratingPtr(5), HoursPlayed: 10,
			Genres: []string{"RPG"}, Platforms: []string{"PC"}, CreatedAt: monthTime(2026, time.May)},
		{ID: "2", Status: models.StatusPlaying, HoursPlayed: 5,
			Genres: []string{"RPG", "Action"}, CreatedAt: monthTime(2026, time.April)},
		{ID: "3", Status: models.StatusBacklog, Rating: ratingPtr(5), HoursPlayed: 10,
			Genres: []string{"Action"}, Platforms: []string{"PC", "Switch"}},
		{ID: "4", Status: models.StatusBacklog, Rating: ratingPtr(2), HoursPlayed: 1,
			CreatedAt: monthTime(2026, time.May)},
	}

	want := stats.Compute(games)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.Game, len(games))
		copy(shuffled, games)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, want, stats.Compute(shuffled))
	}
}
