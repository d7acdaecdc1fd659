package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// QueryWords implements store.Store.QueryWords: a plain filtered, paginated
// listing with no ranking (§4.1, §4.4 "when q is absent").
func (s *Store) QueryWords(ctx context.Context, filter store.WordFilter) ([]domain.Word, int, error) {
	page, perPage := normalizePaging(filter.Page, filter.PerPage)

	where, args := buildWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM words ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := wordSelect + where + ` ORDER BY lesson, lemma LIMIT ? OFFSET ?`
	queryArgs := append(append([]any{}, args...), perPage, (page-1)*perPage)

	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *w)
	}
	return out, total, rows.Err()
}

// SearchIndex implements store.Store.SearchIndex: ranked full-text search
// over the words_fts virtual table (§4.1, §4.4, §9). filter.Q is expected
// to already be a valid FTS5 MATCH expression — internal/search owns
// translating user operators (trailing *, quoted phrases, implicit AND)
// into that syntax before calling here.
func (s *Store) SearchIndex(ctx context.Context, filter store.WordFilter) ([]store.WordHit, int, error) {
	if strings.TrimSpace(filter.Q) == "" {
		words, total, err := s.QueryWords(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		hits := make([]store.WordHit, len(words))
		for i, w := range words {
			hits[i] = store.WordHit{Word: w}
		}
		return hits, total, nil
	}

	page, perPage := normalizePaging(filter.Page, filter.PerPage)
	extraWhere, args := buildWhere(filter)
	extraWhere = strings.Replace(extraWhere, "WHERE", "AND", 1)

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM words_fts
		JOIN words ON words.id = words_fts.rowid
		WHERE words_fts MATCH ? %s
	`, extraWhere)
	countArgs := append([]any{filter.Q}, args...)

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s, bm25(words_fts, 3.0, 1.0) AS rank
		FROM words_fts
		JOIN words ON words.id = words_fts.rowid
		WHERE words_fts MATCH ? %s
		ORDER BY rank, words.lemma
		LIMIT ? OFFSET ?
	`, wordColumns("words"), extraWhere)

	queryArgs := append(append([]any{filter.Q}, args...), perPage, (page-1)*perPage)

	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var hits []store.WordHit
	for rows.Next() {
		var w domain.Word
		var translationsJSON, tagsJSON string
		var rank float64
		if err := rows.Scan(
			&w.ID, &w.WordbookID, &w.Lemma, &w.POS, &w.Gender, &w.IPA, &w.MeaningText,
			&translationsJSON, &w.Lesson, &w.CEFR, &tagsJSON, &w.CreatedAt, &w.UpdatedAt, &rank,
		); err != nil {
			return nil, 0, err
		}
		if err := unmarshalWordJSON(&w, translationsJSON, tagsJSON); err != nil {
			return nil, 0, err
		}
		// bm25 returns lower-is-better; invert to a conventional score.
		hits = append(hits, store.WordHit{Word: w, Score: -rank})
	}
	return hits, total, rows.Err()
}

// Suggest implements store.Store.Suggest: distinct lemma values with q as a
// case-/diacritic-folded prefix, ranked by exact-prefix-on-folded-lemma
// first, then length, then lexicographic (§4.4).
func (s *Store) Suggest(ctx context.Context, wordbookID int, q string, limit int) ([]string, error) {
	if strings.TrimSpace(q) == "" {
		return []string{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	folded := foldDiacritics(strings.ToLower(q))

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT lemma FROM words
		WHERE wordbook_id = ?
		ORDER BY length(lemma), lemma
	`, wordbookID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var lemma string
		if err := rows.Scan(&lemma); err != nil {
			return nil, err
		}
		if strings.HasPrefix(foldDiacritics(strings.ToLower(lemma)), folded) {
			out = append(out, lemma)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, rows.Err()
}

func normalizePaging(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

func buildWhere(filter store.WordFilter) (string, []any) {
	clauses := []string{"wordbook_id = ?"}
	args := []any{filter.WordbookID}

	if filter.Lesson != "" {
		clauses = append(clauses, "lesson = ?")
		args = append(args, filter.Lesson)
	}
	if filter.CEFR != "" {
		clauses = append(clauses, "cefr = ?")
		args = append(args, filter.CEFR)
	}
	if filter.POS != "" {
		clauses = append(clauses, "pos = ?")
		args = append(args, filter.POS)
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

func wordColumns(prefix string) string {
	cols := []string{
		"id", "wordbook_id", "lemma", "pos", "gender", "ipa", "meaning_text",
		"translations", "lesson", "cefr", "tags", "created_at", "updated_at",
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = prefix + "." + c
	}
	return strings.Join(out, ", ")
}

func unmarshalWordJSON(w *domain.Word, translationsJSON, tagsJSON string) error {
	if translationsJSON != "" {
		if err := json.Unmarshal([]byte(translationsJSON), &w.Translations); err != nil {
			return err
		}
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &w.Tags); err != nil {
			return err
		}
	}
	return nil
}
