package importer

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"gameshelf/internal/sources"
	"gameshelf/pkg/models"
)

// Each source contributes at most this many search results.
const perSourceLimit = 5

// ErrEmptyQuery is returned before any network call when the query is blank.
var ErrEmptyQuery = errors.New("search query required")

// SourceFilter selects which sources a search runs against.
const FilterAll = "all"

type SourceError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// SearchResult is the unified response of a multi-source search. Errors holds
// one entry per failed source; HasResults is false together with a non-empty
// Errors when no source could be searched at all.
type SearchResult struct {
	Results    []models.ExternalGameData `json:"results"`
	Errors     []SourceError             `json:"errors,omitempty"`
	HasResults bool                      `json:"has_results"`
}

// Normalizer fans a query out to every configured source and folds the
// outcomes into one result list. A failing source becomes an error entry and
// never aborts its siblings.
type Normalizer struct {
	Sources []sources.Source
}

func NewNormalizer(srcs ...sources.Source) *Normalizer {
	return &Normalizer{Sources: srcs}
}

// SearchAll runs the query against all sources matching filter ("all" or a
// source name). The per-source calls run concurrently and are all joined
// before returning, so partial-failure reporting is always complete. Result
// ordering follows source registration order, not a global re-rank.
func (n *Normalizer) SearchAll(ctx context.Context, query, filter string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if filter == "" {
		filter = FilterAll
	}

	var selected []sources.Source
	for _, src := range n.Sources {
		if filter == FilterAll || filter == src.Name() {
			selected = append(selected, src)
		}
	}

	type outcome struct {
		results []models.ExternalGameData
		err     error
	}
	outcomes := make([]outcome, len(selected))

	var wg sync.WaitGroup
	for i, src := range selected {
		wg.Add(1)
		go func(i int, src sources.Source) {
			defer wg.Done()
			res, err := src.Search(ctx, query, perSourceLimit)
			if err != nil {
				outcomes[i] = outcome{err: err}
				return
			}
			if len(res) > perSourceLimit {
				res = res[:perSourceLimit]
			}
			outcomes[i] = outcome{results: res}
		}(i, src)
	}
	wg.Wait()

	out := &SearchResult{Results: make([]models.ExternalGameData, 0, len(selected)*perSourceLimit)}
	for i, src := range selected {
		if outcomes[i].err != nil {
			log.Printf("[importer] source %s error: %v", src.Name(), outcomes[i].err)
			out.Errors = append(out.Errors, SourceError{
				Source:  src.Name(),
				Message: outcomes[i].err.Error(),
			})
			continue
		}
		out.Results = append(out.Results, outcomes[i].results...)
	}
	out.HasResults = len(out.Results) > 0
	return out, nil
}

// SourceByName returns the configured source with the given name, or nil.
func (n *Normalizer) SourceByName(name string) sources.Source {
	for _, src := range n.Sources {
		if src.Name() == name {
			return src
		}
	}
	return nil
}
