package sqlite

import (
	"context"
	"time"

	"github.com/YiniRuohong/wordflow/internal/store"
)

// SchedulerSnapshot implements store.Store.SchedulerSnapshot: a single query
// returning every card of the wordbook with its SRS state (if any), so
// internal/scheduler can compose Due/Rolling/New without issuing more than
// one round trip (§4.5).
func (s *Store) SchedulerSnapshot(ctx context.Context, wordbookID int, now time.Time) (store.SchedulerData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			cards.id, cards.word_id, words.lesson,
			srs_state.due, srs_state.reps, srs_state.lapses, srs_state.first_seen_at
		FROM cards
		JOIN words ON words.id = cards.word_id
		LEFT JOIN srs_state ON srs_state.card_id = cards.id
		WHERE words.wordbook_id = ?
	`, wordbookID)
	if err != nil {
		return store.SchedulerData{}, err
	}
	defer func() { _ = rows.Close() }()

	var data store.SchedulerData
	for rows.Next() {
		var r store.SchedulerRow
		var due, firstSeenAt *time.Time
		var reps, lapses *int
		if err := rows.Scan(&r.CardID, &r.WordID, &r.Lesson, &due, &reps, &lapses, &firstSeenAt); err != nil {
			return store.SchedulerData{}, err
		}
		r.HasState = due != nil
		if r.HasState {
			r.Due = *due
			r.Reps = *reps
			r.Lapses = *lapses
			r.FirstSeenAt = *firstSeenAt
		}
		data.Rows = append(data.Rows, r)
	}
	return data, rows.Err()
}

// ReviewsOnDate implements store.Store.ReviewsOnDate.
func (s *Store) ReviewsOnDate(ctx context.Context, wordbookID int, day time.Time) (int, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM reviews
		JOIN cards ON cards.id = reviews.card_id
		JOIN words ON words.id = cards.word_id
		WHERE words.wordbook_id = ? AND reviews.ts >= ? AND reviews.ts < ?
	`, wordbookID, start, end).Scan(&count)
	return count, err
}
