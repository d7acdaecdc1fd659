package sqlite

import (
	"context"

	"github.com/YiniRuohong/wordflow/internal/domain"
)

// ListExamples implements store.Store.ListExamples.
func (s *Store) ListExamples(ctx context.Context, cardID int) ([]domain.Example, error) {
	rows, err := s.db.QueryContext(ctx, exampleSelect+` WHERE card_id = ? ORDER BY id`, cardID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Example
	for rows.Next() {
		ex, err := scanExample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ex)
	}
	return out, rows.Err()
}

// AddExample implements store.Store.AddExample.
func (s *Store) AddExample(ctx context.Context, ex *domain.Example) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO examples (card_id, text_fr, translation_zh, source, audio_uri, cefr, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ex.CardID, ex.TextFr, ex.TranslationZh, ex.Source, ex.AudioURI, ex.CEFR, ex.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ex.ID = int(id)
	return nil
}

const exampleSelect = `
	SELECT id, card_id, text_fr, translation_zh, source, audio_uri, cefr, created_at
	FROM examples
`

func scanExample(row rowScanner) (*domain.Example, error) {
	var ex domain.Example
	if err := row.Scan(&ex.ID, &ex.CardID, &ex.TextFr, &ex.TranslationZh, &ex.Source, &ex.AudioURI, &ex.CEFR, &ex.CreatedAt); err != nil {
		return nil, err
	}
	return &ex, nil
}
