package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// CreateCardIfMissing implements store.Store.CreateCardIfMissing. If a card
// with this (word_id, template) already exists it is returned unchanged;
// otherwise a new card and its default "new" SRSState are created together
// so every card always has exactly one state row (§3, §4.3).
func (s *Store) CreateCardIfMissing(ctx context.Context, wordID int, template string) (*domain.Card, error) {
	if template == "" {
		template = "basic"
	}
	if !domain.ValidTemplate(template) {
		return nil, domain.ErrInvalidTemplate
	}

	var card *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, cardSelect+` WHERE word_id = ? AND template = ?`, wordID, template)
		existing, err := scanCard(row)
		if err == nil {
			card = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		now := time.Now().UTC()
		res, err := tx.ExecContext(ctx, `
			INSERT INTO cards (word_id, template, hint, tags, created_at)
			VALUES (?, ?, '', '', ?)
		`, wordID, template, now)
		if err != nil {
			if isForeignKeyViolation(err) {
				return store.ErrWordNotFound
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		state := domain.NewSRSState(int(id), now)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO srs_state (card_id, algo, due, interval, ease, reps, lapses, first_seen_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, state.CardID, state.Algo, state.Due, state.Interval, state.Ease, state.Reps, state.Lapses, state.FirstSeenAt); err != nil {
			return err
		}

		card = &domain.Card{ID: int(id), WordID: wordID, Template: template, CreatedAt: now}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// GetCard implements store.Store.GetCard.
func (s *Store) GetCard(ctx context.Context, id int) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx, cardSelect+` WHERE id = ?`, id)
	c, err := scanCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListCardsForWordbook implements store.Store.ListCardsForWordbook.
func (s *Store) ListCardsForWordbook(ctx context.Context, wordbookID int) ([]domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, cardSelect+`
		WHERE word_id IN (SELECT id FROM words WHERE wordbook_id = ?)
		ORDER BY word_id
	`, wordbookID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

const cardSelect = `SELECT id, word_id, template, hint, tags, created_at FROM cards`

func scanCard(row rowScanner) (*domain.Card, error) {
	var c domain.Card
	if err := row.Scan(&c.ID, &c.WordID, &c.Template, &c.Hint, &c.Tags, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
