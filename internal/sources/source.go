package sources

import (
	"context"
	"errors"

	"gameshelf/pkg/models"
)

// PlaceholderCover is returned when a catalog has no cover art for a game.
const PlaceholderCover = "/placeholder.svg?height=400&width=300"

var (
	// ErrUnavailable means the source cannot be queried at all: credentials
	// are missing or the upstream call did not succeed.
	ErrUnavailable = errors.New("source unavailable")

	// ErrAuthFailed means the credential exchange with the source's identity
	// provider was rejected.
	ErrAuthFailed = errors.New("source authentication failed")
)

// Source is implemented by each external game catalog. Each source fetches
// its own response format and maps it into ExternalGameData; no source-specific
// shape leaks past this interface.
type Source interface {
	Name() string
	// Search returns up to limit matches. An empty result with a nil error is
	// a legitimate "no matches" outcome, not a failure.
	Search(ctx context.Context, query string, limit int) ([]models.ExternalGameData, error)
	// GetByID returns the full detail record, or (nil, nil) when the source
	// has no game under that id.
	GetByID(ctx context.Context, externalID string) (*models.ExternalGameData, error)
}
