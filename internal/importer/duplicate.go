package importer

import (
	"strings"

	"gameshelf/pkg/models"
)

// IsDuplicate reports whether a candidate game is already present in the
// user's library. A candidate matches when its trimmed, case-folded title
// equals an existing title, or when it carries an external id equal to an
// existing entry's external id. The external id comparison ignores which
// catalog the id came from. Pure predicate; callers reject the write.
func IsDuplicate(existing []models.Game, title, externalID string) bool {
	normalized := strings.ToLower(strings.TrimSpace(title))
	for _, g := range existing {
		if normalized != "" && strings.ToLower(strings.TrimSpace(g.Title)) == normalized {
			return true
		}
		if externalID != "" && g.ExternalID != "" && g.ExternalID == externalID {
			return true
		}
	}
	return false
}
