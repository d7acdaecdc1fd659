package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// UpsertWord implements store.Store.UpsertWord. A unique-constraint
// violation on (wordbook_id, lemma, pos) is not an error (§4.1) — it is
// reported back as Skipped with the existing word's id.
func (s *Store) UpsertWord(ctx context.Context, wordbookID int, normalized domain.NormalizedWord) (store.UpsertResult, error) {
	if err := normalized.Validate(); err != nil {
		return store.UpsertResult{}, err
	}

	lock := s.wordbookLock(wordbookID)
	lock.Lock()
	defer lock.Unlock()

	return s.insertWord(ctx, s.db, wordbookID, normalized)
}

// BulkUpsertWords implements store.Store.BulkUpsertWords. The whole batch
// runs in one transaction; a row that fails validation or collides on the
// unique key is recorded in Failed/Skipped without aborting the rest of
// the batch (§4.1, §4.3).
func (s *Store) BulkUpsertWords(ctx context.Context, wordbookID int, batch []domain.NormalizedWord) (store.BulkUpsertResult, error) {
	lock := s.wordbookLock(wordbookID)
	lock.Lock()
	defer lock.Unlock()

	var result store.BulkUpsertResult

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		for i, nw := range batch {
			nwCopy := nw
			res, err := s.insertWord(ctx, tx, wordbookID, nwCopy)
			if err != nil {
				result.Failed = append(result.Failed, store.RowFailure{Row: i, Reason: err.Error()})
				continue
			}
			if res.Skipped {
				result.Skipped++
				continue
			}
			result.Inserted++
			result.WordIDs = append(result.WordIDs, res.WordID)
		}
		return nil
	})
	if err != nil {
		s.log(ctx).Error("bulk upsert transaction failed", slog.String("error", err.Error()))
		return result, fmt.Errorf("%w: %v", store.ErrTransient, err)
	}

	if err := s.bumpTotalWords(ctx, wordbookID); err != nil {
		s.log(ctx).Error("failed to refresh wordbook total_words", slog.String("error", err.Error()))
	}

	return result, nil
}

func (s *Store) insertWord(ctx context.Context, db store.DBTX, wordbookID int, nw domain.NormalizedWord) (store.UpsertResult, error) {
	if err := nw.Validate(); err != nil {
		return store.UpsertResult{}, err
	}

	translationsJSON, err := json.Marshal(nonNilMap(nw.Translations))
	if err != nil {
		return store.UpsertResult{}, err
	}
	tagsJSON, err := json.Marshal(nonNilSlice(nw.Tags))
	if err != nil {
		return store.UpsertResult{}, err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO words (wordbook_id, lemma, pos, gender, ipa, meaning_text, translations, lesson, cefr, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := db.ExecContext(ctx, query,
		wordbookID, nw.Lemma, nw.POS, nw.Gender, nw.IPA, nw.MeaningText,
		string(translationsJSON), nw.Lesson, nw.CEFR, string(tagsJSON), now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, lookupErr := s.findWordID(ctx, db, wordbookID, nw.Lemma, nw.POS)
			if lookupErr != nil {
				return store.UpsertResult{}, lookupErr
			}
			return store.UpsertResult{Skipped: true, WordID: existing}, nil
		}
		if isForeignKeyViolation(err) {
			return store.UpsertResult{}, store.ErrWordbookNotFound
		}
		return store.UpsertResult{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return store.UpsertResult{}, err
	}
	return store.UpsertResult{Inserted: true, WordID: int(id)}, nil
}

func (s *Store) findWordID(ctx context.Context, db store.DBTX, wordbookID int, lemma, pos string) (int, error) {
	var id int
	err := db.QueryRowContext(ctx,
		`SELECT id FROM words WHERE wordbook_id = ? AND lemma = ? AND pos = ?`,
		wordbookID, lemma, pos,
	).Scan(&id)
	return id, err
}

func (s *Store) bumpTotalWords(ctx context.Context, wordbookID int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE wordbooks
		SET total_words = (SELECT COUNT(*) FROM words WHERE wordbook_id = ?), updated_at = ?
		WHERE id = ?
	`, wordbookID, time.Now().UTC(), wordbookID)
	return err
}

// GetWord implements store.Store.GetWord.
func (s *Store) GetWord(ctx context.Context, id int) (*domain.Word, error) {
	row := s.db.QueryRowContext(ctx, wordSelect+` WHERE id = ?`, id)
	w, err := scanWord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordNotFound
		}
		return nil, err
	}
	return w, nil
}

// TagWord implements store.Store.TagWord, adding tag to the word's tag set
// idempotently.
func (s *Store) TagWord(ctx context.Context, wordID int, tag string) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, wordSelect+` WHERE id = ?`, wordID)
		w, err := scanWord(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrWordNotFound
			}
			return err
		}

		w.AddTagIfMissing(tag)
		tagsJSON, err := json.Marshal(w.Tags)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `UPDATE words SET tags = ?, updated_at = ? WHERE id = ?`,
			string(tagsJSON), time.Now().UTC(), wordID)
		return err
	})
}

const wordSelect = `
	SELECT id, wordbook_id, lemma, pos, gender, ipa, meaning_text, translations, lesson, cefr, tags, created_at, updated_at
	FROM words
`

func scanWord(row rowScanner) (*domain.Word, error) {
	var w domain.Word
	var translationsJSON, tagsJSON string
	if err := row.Scan(
		&w.ID, &w.WordbookID, &w.Lemma, &w.POS, &w.Gender, &w.IPA, &w.MeaningText,
		&translationsJSON, &w.Lesson, &w.CEFR, &tagsJSON, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if translationsJSON != "" {
		if err := json.Unmarshal([]byte(translationsJSON), &w.Translations); err != nil {
			return nil, err
		}
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &w.Tags); err != nil {
			return nil, err
		}
	}
	return &w, nil
}

func nonNilMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
