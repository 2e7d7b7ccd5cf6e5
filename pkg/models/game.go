package models

import "time"

// Game statuses.
const (
	StatusPlaying   = "playing"
	StatusCompleted = "completed"
	StatusBacklog   = "backlog"
)

// Where a game entry came from.
const (
	SourceSteam  = "steam"
	SourceIGDB   = "igdb"
	SourceManual = "manual"
)

// Game is a single entry in a user's library. Rating is a pointer so that
// "never rated" and "rated 0" stay distinguishable; the stats code depends
// on that distinction.
type Game struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	CoverURL    string    `json:"cover_url"`
	Status      string    `json:"status"`
	HoursPlayed float64   `json:"hours_played"`
	Rating      *int      `json:"rating,omitempty"`
	Genres      []string  `json:"genres,omitempty"`
	Platforms   []string  `json:"platforms,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	Description string    `json:"description,omitempty"`
	Developer   string    `json:"developer,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	Source      string    `json:"source"`
	ExternalID  string    `json:"external_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is one of the known library statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPlaying, StatusCompleted, StatusBacklog:
		return true
	}
	return false
}
