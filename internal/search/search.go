// Package search implements §4.4's two query modes over the index Store
// maintains: prefix suggest and bm25-ranked full-text search. Search never
// writes; it only translates caller-facing query syntax into the FTS5 MATCH
// expressions Store.SearchIndex expects.
package search

import (
	"context"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// Filter mirrors store.WordFilter but keeps Q in the caller-facing syntax
// (trailing *, quoted phrases, implicit AND) rather than FTS5's.
type Filter struct {
	WordbookID int
	Q          string
	Lesson     string
	CEFR       string
	POS        string
	Page       int
	PerPage    int
}

// Hit is a single ranked result.
type Hit struct {
	Word  domain.Word
	Score float64
}

// Search is a thin façade over Store's query methods.
type Search struct {
	store store.Store
}

// New wires a Search against the Store instance that owns the index.
func New(st store.Store) *Search {
	return &Search{store: st}
}

// Suggest implements §4.4's prefix-suggest mode. Store already does the
// case-/diacritic-folding and ordering; Suggest exists as the façade's
// single entry point and to default a non-positive limit to 10. q is passed
// through as is, without Query's operator parsing.
func (s *Search) Suggest(ctx context.Context, wordbookID int, q string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.store.Suggest(ctx, wordbookID, q, limit)
}

// Query implements §4.4's ranked-search mode: when Q is present it is
// parsed into an FTS5 MATCH expression before being handed to
// Store.SearchIndex; when Q is empty, Store falls back to its
// lesson/lemma-ordered listing on its own.
func (s *Search) Query(ctx context.Context, filter Filter) ([]Hit, int, error) {
	storeFilter := store.WordFilter{
		WordbookID: filter.WordbookID,
		Q:          buildMatchExpr(filter.Q),
		Lesson:     filter.Lesson,
		CEFR:       filter.CEFR,
		POS:        filter.POS,
		Page:       filter.Page,
		PerPage:    filter.PerPage,
	}
	rows, total, err := s.store.SearchIndex(ctx, storeFilter)
	if err != nil {
		return nil, 0, err
	}
	hits := make([]Hit, len(rows))
	for i, r := range rows {
		hits[i] = Hit{Word: r.Word, Score: r.Score}
	}
	return hits, total, nil
}
