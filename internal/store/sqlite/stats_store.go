package sqlite

import (
	"context"
	"time"

	"github.com/YiniRuohong/wordflow/internal/store"
)

// ReviewHistory implements store.Store.ReviewHistory: per-day (reviews,
// average grade) buckets over the `days` window ending today, in UTC.
func (s *Store) ReviewHistory(ctx context.Context, wordbookID int, days int) ([]store.DayBucket, error) {
	today := time.Now().UTC()
	start := today.AddDate(0, 0, -(days - 1))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(reviews.ts, 1, 10) AS day, COUNT(*), AVG(reviews.grade)
		FROM reviews
		JOIN cards ON cards.id = reviews.card_id
		JOIN words ON words.id = cards.word_id
		WHERE words.wordbook_id = ? AND reviews.ts >= ?
		GROUP BY day
		ORDER BY day
	`, wordbookID, start)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	byDay := map[string]store.DayBucket{}
	for rows.Next() {
		var day string
		var bucket store.DayBucket
		if err := rows.Scan(&day, &bucket.Reviews, &bucket.AverageGrade); err != nil {
			return nil, err
		}
		bucket.Date, err = time.Parse("2006-01-02", day)
		if err != nil {
			return nil, err
		}
		byDay[day] = bucket
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]store.DayBucket, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		if b, ok := byDay[key]; ok {
			out = append(out, b)
		} else {
			out = append(out, store.DayBucket{Date: d})
		}
	}
	return out, nil
}

// DueCounts implements store.Store.DueCounts: per-day counts of cards whose
// current due falls within [today, today+days).
func (s *Store) DueCounts(ctx context.Context, wordbookID int, days int) ([]store.DayCount, error) {
	today := time.Now().UTC()
	start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days)

	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(srs_state.due, 1, 10) AS day, COUNT(*)
		FROM srs_state
		JOIN cards ON cards.id = srs_state.card_id
		JOIN words ON words.id = cards.word_id
		WHERE words.wordbook_id = ? AND srs_state.due >= ? AND srs_state.due < ?
		GROUP BY day
		ORDER BY day
	`, wordbookID, start, end)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	byDay := map[string]int{}
	for rows.Next() {
		var day string
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		byDay[day] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]store.DayCount, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format("2006-01-02")
		out = append(out, store.DayCount{Date: d, Count: byDay[key]})
	}
	return out, nil
}
