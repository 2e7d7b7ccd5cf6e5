package models

// ExternalGameData is the normalized, transient form of a game fetched from a
// third-party catalog (Steam store or IGDB). Each source adapter maps its own
// response shape into this structure; a Game is built from it on import and
// the value itself is never persisted.
//
// Optional slices stay nil (not empty) when the source returned nothing, so
// consumers can tell "no genres known" from "zero genres".
type ExternalGameData struct {
	Title       string   `json:"title"`
	CoverURL    string   `json:"cover_url"`
	Description string   `json:"description,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Platforms   []string `json:"platforms,omitempty"`
	Developer   string   `json:"developer,omitempty"`
	Publisher   string   `json:"publisher,omitempty"`
	Source      string   `json:"source"`
	ExternalID  string   `json:"external_id"`
}
