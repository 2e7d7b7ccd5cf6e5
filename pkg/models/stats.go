package models

// Overview holds the top-line counters for a user's library.
type Overview struct {
	TotalGames     int     `json:"total_games"`
	CompletedGames int     `json:"completed_games"`
	PlayingGames   int     `json:"playing_games"`
	BacklogGames   int     `json:"backlog_games"`
	TotalHours     float64 `json:"total_hours"`
	AverageRating  float64 `json:"average_rating"`
}

// GenreStat is one genre bucket. Count is the number of games tagged with the
// genre; a game contributes its full hours to every genre it carries.
type GenreStat struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	TotalHours float64 `json:"total_hours"`
	AvgRating  float64 `json:"avg_rating"`
}

// PlatformStat is one platform bucket.
type PlatformStat struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	TotalHours float64 `json:"total_hours"`
}

// TopRatedGame is the summary shape used in the top-rated ranking.
type TopRatedGame struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	CoverURL    string  `json:"cover_url"`
	Rating      int     `json:"rating"`
	HoursPlayed float64 `json:"hours_played"`
}

// MonthlyBucket aggregates library activity for one calendar month
// (Month is formatted "YYYY-MM").
type MonthlyBucket struct {
	Month       string  `json:"month"`
	GamesAdded  int     `json:"games_added"`
	HoursPlayed float64 `json:"hours_played"`
}

// AggregateStats is the full statistics bundle computed over a user's library.
// It is recomputed on demand and never stored.
type AggregateStats struct {
	Overview        Overview        `json:"overview"`
	Genres          []GenreStat     `json:"genres"`
	Platforms       []PlatformStat  `json:"platforms"`
	TopRated        []TopRatedGame  `json:"top_rated"`
	MonthlyActivity []MonthlyBucket `json:"monthly_activity"`
}
