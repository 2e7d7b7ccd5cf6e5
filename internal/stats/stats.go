// Package stats computes aggregate library statistics. Everything here is a
// pure transformation of a game list snapshot; input ordering never changes
// the output.
package stats

import (
	"math"
	"sort"

	"gameshelf/pkg/models"
)

const (
	topGenres      = 10
	topRatedLimit  = 10
	monthlyBuckets = 12
)

// monthKey layout for bucketing by calendar month.
const monthKey = "2006-01"

// Compute builds the full statistics bundle for one user's library. Entries
// with absent optional fields (rating, genres, platforms, createdAt) simply
// skip the corresponding buckets.
func Compute(games []models.Game) models.AggregateStats {
	return models.AggregateStats{
		Overview:        computeOverview(games),
		Genres:          computeGenres(games),
		Platforms:       computePlatforms(games),
		TopRated:        computeTopRated(games),
		MonthlyActivity: computeMonthly(games),
	}
}

func computeOverview(games []models.Game) models.Overview {
	var o models.Overview
	var ratingSum, rated int

	for _, g := range games {
		o.TotalGames++
		switch g.Status {
		case models.StatusCompleted:
			o.CompletedGames++
		case models.StatusPlaying:
			o.PlayingGames++
		case models.StatusBacklog:
			o.BacklogGames++
		}
		o.TotalHours += g.HoursPlayed
		if g.Rating != nil {
			ratingSum += *g.Rating
			rated++
		}
	}

	// unrated games are excluded from both numerator and denominator
	if rated > 0 {
		o.AverageRating = round1(float64(ratingSum) / float64(rated))
	}
	return o
}

type bucketAcc struct {
	count     int
	hours     float64
	ratingSum int
	rated     int
}

func computeGenres(games []models.Game) []models.GenreStat {
	acc := make(map[string]*bucketAcc)
	for _, g := range games {
		// a game with N genres lands in N buckets, full hours in each
		for _, name := range g.Genres {
			b := acc[name]
			if b == nil {
				b = &bucketAcc{}
				acc[name] = b
			}
			b.count++
			b.hours += g.HoursPlayed
			if g.Rating != nil {
				b.ratingSum += *g.Rating
				b.rated++
			}
		}
	}

	out := make([]models.GenreStat, 0, len(acc))
	for name, b := range acc {
		avg := 0.0
		if b.rated > 0 {
			avg = round1(float64(b.ratingSum) / float64(b.rated))
		}
		out = append(out, models.GenreStat{
			Name:       name,
			Count:      b.count,
			TotalHours: b.hours,
			AvgRating:  avg,
		})
	}

	// count desc; name asc keeps equal counts in a stable order
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})

	if len(out) > topGenres {
		out = out[:topGenres]
	}
	return out
}

func computePlatforms(games []models.Game) []models.PlatformStat {
	acc := make(map[string]*bucketAcc)
	for _, g := range games {
		for _, name := range g.Platforms {
			b := acc[name]
			if b == nil {
				b = &bucketAcc{}
				acc[name] = b
			}
			b.count++
			b.hours += g.HoursPlayed
		}
	}

	out := make([]models.PlatformStat, 0, len(acc))
	for name, b := range acc {
		out = append(out, models.PlatformStat{
			Name:       name,
			Count:      b.count,
			TotalHours: b.hours,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func computeTopRated(games []models.Game) []models.TopRatedGame {
	rated := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.Rating != nil {
			rated = append(rated, g)
		}
	}

	// rating desc, hours desc; id asc keeps fully tied entries stable
	sort.Slice(rated, func(i, j int) bool {
		if *rated[i].Rating != *rated[j].Rating {
			return *rated[i].Rating > *rated[j].Rating
		}
		if rated[i].HoursPlayed != rated[j].HoursPlayed {
			return rated[i].HoursPlayed > rated[j].HoursPlayed
		}
		return rated[i].ID < rated[j].ID
	})

	if len(rated) > topRatedLimit {
		rated = rated[:topRatedLimit]
	}

	out := make([]models.TopRatedGame, 0, len(rated))
	for _, g := range rated {
		out = append(out, models.TopRatedGame{
			ID:          g.ID,
			Title:       g.Title,
			CoverURL:    g.CoverURL,
			Rating:      *g.Rating,
			HoursPlayed: g.HoursPlayed,
		})
	}
	return out
}

func computeMonthly(games []models.Game) []models.MonthlyBucket {
	acc := make(map[string]*models.MonthlyBucket)
	for _, g := range games {
		if g.CreatedAt.IsZero() {
			continue
		}
		key := g.CreatedAt.UTC().Format(monthKey)
		b := acc[key]
		if b == nil {
			b = &models.MonthlyBucket{Month: key}
			acc[key] = b
		}
		b.GamesAdded++
		b.HoursPlayed += g.HoursPlayed
	}

	out := make([]models.MonthlyBucket, 0, len(acc))
	for _, b := range acc {
		out = append(out, *b)
	}

	// most recent first; "YYYY-MM" keys compare correctly as strings
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month > out[j].Month
	})

	if len(out) > monthlyBuckets {
		out = out[:monthlyBuckets]
	}
	return out
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
