package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// CreateWordbook implements store.Store.CreateWordbook.
func (s *Store) CreateWordbook(ctx context.Context, spec domain.WordbookSpec) (*domain.Wordbook, error) {
	log := s.log(ctx)

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO wordbooks (name, language, description, author, version, total_words, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?)
	`
	res, err := s.db.ExecContext(ctx, query, spec.Name, spec.Language, spec.Description, spec.Author, spec.Version, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate wordbook name", slog.String("name", spec.Name))
			return nil, store.ErrWordbookNameExists
		}
		log.Error("failed to create wordbook", slog.String("error", err.Error()))
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetWordbook(ctx, int(id))
}

// ActivateWordbook implements store.Store.ActivateWordbook, deactivating
// every other wordbook in the same transaction so at most one is ever
// active (§3).
func (s *Store) ActivateWordbook(ctx context.Context, id int) (*domain.Wordbook, error) {
	log := s.log(ctx)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM wordbooks WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrWordbookNotFound
			}
			return err
		}

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `UPDATE wordbooks SET is_active = 0, updated_at = ? WHERE is_active = 1`, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `UPDATE wordbooks SET is_active = 1, updated_at = ? WHERE id = ?`, now, id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Error("failed to activate wordbook", slog.Int("wordbook_id", id), slog.String("error", err.Error()))
		return nil, err
	}

	return s.GetWordbook(ctx, id)
}

// GetActiveWordbook implements store.Store.GetActiveWordbook.
func (s *Store) GetActiveWordbook(ctx context.Context) (*domain.Wordbook, error) {
	row := s.db.QueryRowContext(ctx, wordbookSelect+` WHERE is_active = 1`)
	wb, err := scanWordbook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoActiveWordbook
		}
		return nil, err
	}
	return wb, nil
}

// GetWordbook implements store.Store.GetWordbook.
func (s *Store) GetWordbook(ctx context.Context, id int) (*domain.Wordbook, error) {
	row := s.db.QueryRowContext(ctx, wordbookSelect+` WHERE id = ?`, id)
	wb, err := scanWordbook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrWordbookNotFound
		}
		return nil, err
	}
	return wb, nil
}

// ListWordbooks implements store.Store.ListWordbooks.
func (s *Store) ListWordbooks(ctx context.Context) ([]domain.Wordbook, error) {
	rows, err := s.db.QueryContext(ctx, wordbookSelect+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Wordbook
	for rows.Next() {
		wb, err := scanWordbook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *wb)
	}
	return out, rows.Err()
}

// DeleteWordbook implements store.Store.DeleteWordbook. Cascades to words,
// cards, srs_state, reviews, and examples via foreign keys.
func (s *Store) DeleteWordbook(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wordbooks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrWordbookNotFound
	}
	return nil
}

// WordbookStats implements store.Store.WordbookStats.
func (s *Store) WordbookStats(ctx context.Context, id int) (*store.WordbookStatsResult, error) {
	if _, err := s.GetWordbook(ctx, id); err != nil {
		return nil, err
	}

	result := &store.WordbookStatsResult{
		ByCEFR:   map[string]int{},
		ByPOS:    map[string]int{},
		ByLesson: map[string]int{},
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM words WHERE wordbook_id = ?`, id).Scan(&result.TotalWords); err != nil {
		return nil, err
	}

	if err := bucketCounts(ctx, s.db, `SELECT cefr, COUNT(*) FROM words WHERE wordbook_id = ? GROUP BY cefr`, id, result.ByCEFR); err != nil {
		return nil, err
	}
	if err := bucketCounts(ctx, s.db, `SELECT pos, COUNT(*) FROM words WHERE wordbook_id = ? GROUP BY pos`, id, result.ByPOS); err != nil {
		return nil, err
	}
	if err := bucketCounts(ctx, s.db, `SELECT lesson, COUNT(*) FROM words WHERE wordbook_id = ? GROUP BY lesson`, id, result.ByLesson); err != nil {
		return nil, err
	}

	return result, nil
}

func bucketCounts(ctx context.Context, db store.DBTX, query string, id int, into map[string]int) error {
	rows, err := db.QueryContext(ctx, query, id)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return err
		}
		if key == "" {
			key = "unknown"
		}
		into[key] = count
	}
	return rows.Err()
}

const wordbookSelect = `
	SELECT id, name, language, description, author, version, total_words, is_active, created_at, updated_at
	FROM wordbooks
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWordbook(row rowScanner) (*domain.Wordbook, error) {
	var wb domain.Wordbook
	var isActive int
	if err := row.Scan(
		&wb.ID, &wb.Name, &wb.Language, &wb.Description, &wb.Author, &wb.Version,
		&wb.TotalWords, &isActive, &wb.CreatedAt, &wb.UpdatedAt,
	); err != nil {
		return nil, err
	}
	wb.IsActive = isActive != 0
	return &wb, nil
}
