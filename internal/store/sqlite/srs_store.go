package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// GetSRSState implements store.Store.GetSRSState.
func (s *Store) GetSRSState(ctx context.Context, cardID int) (*domain.SRSState, error) {
	row := s.db.QueryRowContext(ctx, srsStateSelect+` WHERE card_id = ?`, cardID)
	state, err := scanSRSState(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSRSStateNotFound
		}
		return nil, err
	}
	return state, nil
}

// PutSRSStateAndAppendReview implements store.Store.PutSRSStateAndAppendReview.
// It persists the graded SRSState and appends its Review atomically, and
// enforces the leech invariant (§3, §4.5): the first time a card's lapses
// crosses the threshold, its due is pushed one extra day and its word is
// tagged "leech" exactly once.
func (s *Store) PutSRSStateAndAppendReview(ctx context.Context, state *domain.SRSState, review *domain.Review) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, srsStateSelect+` WHERE card_id = ?`, state.CardID)
		prev, err := scanSRSState(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrSRSStateNotFound
			}
			return err
		}

		next := *state
		crossedLeech := next.Lapses >= domain.LeechThreshold && prev.Lapses < domain.LeechThreshold
		if crossedLeech {
			next.Due = next.Due.AddDate(0, 0, 1)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE srs_state
			SET algo = ?, due = ?, interval = ?, ease = ?, reps = ?, lapses = ?, last_grade = ?, last_reviewed_at = ?
			WHERE card_id = ?
		`, next.Algo, next.Due, next.Interval, next.Ease, next.Reps, next.Lapses, next.LastGrade, next.LastReviewedAt, next.CardID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO reviews (card_id, ts, grade, elapsed_ms, prev_interval, new_interval)
			VALUES (?, ?, ?, ?, ?, ?)
		`, review.CardID, review.Ts, review.Grade, review.ElapsedMs, review.PrevInterval, review.NewInterval); err != nil {
			return err
		}

		if crossedLeech {
			if err := tagWordForCard(ctx, tx, next.CardID, "leech"); err != nil {
				return err
			}
		}

		return nil
	})
}

func tagWordForCard(ctx context.Context, tx *sql.Tx, cardID int, tag string) error {
	var wordID int
	if err := tx.QueryRowContext(ctx, `SELECT word_id FROM cards WHERE id = ?`, cardID).Scan(&wordID); err != nil {
		return err
	}

	row := tx.QueryRowContext(ctx, wordSelect+` WHERE id = ?`, wordID)
	w, err := scanWord(row)
	if err != nil {
		return err
	}
	if w.HasTag(tag) {
		return nil
	}
	w.AddTagIfMissing(tag)

	tagsJSON, err := json.Marshal(w.Tags)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE words SET tags = ?, updated_at = ? WHERE id = ?`,
		string(tagsJSON), time.Now().UTC(), wordID)
	return err
}

const srsStateSelect = `
	SELECT card_id, algo, due, interval, ease, reps, lapses, last_grade, first_seen_at, last_reviewed_at
	FROM srs_state
`

func scanSRSState(row rowScanner) (*domain.SRSState, error) {
	var st domain.SRSState
	if err := row.Scan(
		&st.CardID, &st.Algo, &st.Due, &st.Interval, &st.Ease, &st.Reps, &st.Lapses,
		&st.LastGrade, &st.FirstSeenAt, &st.LastReviewedAt,
	); err != nil {
		return nil, err
	}
	return &st, nil
}
