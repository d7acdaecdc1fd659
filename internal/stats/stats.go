// Package stats implements §4.7's three read models over Reviews, SRSState,
// and Words. None of it writes; Today in particular delegates straight to
// Scheduler so the numbers a learner sees on a dashboard always match what
// GET /study/next would actually hand them.
package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YiniRuohong/wordflow/internal/scheduler"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// Today is GET /study/stats's response shape.
type Today struct {
	TotalCards     int `json:"total_cards"`
	DueToday       int `json:"due_today"`
	NewCards       int `json:"new_cards"`
	RollingReviews int `json:"rolling_reviews"`
	ReviewedToday  int `json:"reviewed_today"`
	StudyQueueSize int `json:"study_queue_size"`
}

// ProgressBucket is one day of Progress's window.
type ProgressBucket struct {
	Date         time.Time `json:"date"`
	Reviews      int       `json:"reviews"`
	AverageGrade float64   `json:"average_grade"`
	Accuracy     float64   `json:"accuracy"`
}

// Progress is GET /study/progress's response shape.
type Progress struct {
	Buckets      []ProgressBucket `json:"buckets"`
	TotalReviews int              `json:"total_reviews"`
	ActiveDays   int              `json:"active_days"`
}

// ForecastBucket is one day of DueForecast's window.
type ForecastBucket struct {
	Date  time.Time `json:"date"`
	Count int        `json:"count"`
}

type Stats struct {
	store     store.Store
	scheduler *scheduler.Scheduler
}

func New(st store.Store, sch *scheduler.Scheduler) *Stats {
	return &Stats{store: st, scheduler: sch}
}

// Today composes its numbers from a Scheduler dry run rather than querying
// Store directly, so the figures match what NextQueue would actually
// return. total_cards is the sum of the disjoint Due, Rolling, and New sets;
// a reviewed card that is neither due nor on a rolling offset today is in
// none of them and is not counted.
func (s *Stats) Today(ctx context.Context, wordbookID *int) (Today, error) {
	result, err := s.scheduler.NextQueue(ctx, scheduler.Options{WordbookID: wordbookID})
	if err != nil {
		return Today{}, fmt.Errorf("running scheduler dry run for today's stats: %w", err)
	}
	st := result.Stats
	return Today{
		TotalCards:     st.DueCount + st.RollingCount + st.NewCount,
		DueToday:       st.DueCount,
		NewCards:       st.NewCount,
		RollingReviews: st.RollingCount,
		ReviewedToday:  st.ReviewedToday,
		StudyQueueSize: st.StudyQueueSize,
	}, nil
}

// Progress implements Stats.Progress(days): per-day review buckets over the
// trailing window plus totals. Averages over zero reviews report 0, not an
// error, matching §4.7 — Store.ReviewHistory returns one bucket for every
// day of the window, and a day without reviews carries 0 reviews and a 0
// average, so its accuracy reports 0 here.
func (s *Stats) Progress(ctx context.Context, wordbookID *int, days int) (Progress, error) {
	if days <= 0 {
		days = 7
	}
	wbID, ok, err := s.resolveWordbook(ctx, wordbookID)
	if err != nil {
		return Progress{}, fmt.Errorf("resolving wordbook for progress: %w", err)
	}
	if !ok {
		return Progress{}, nil
	}
	rows, err := s.store.ReviewHistory(ctx, wbID, days)
	if err != nil {
		return Progress{}, fmt.Errorf("reading review history: %w", err)
	}
	buckets := make([]ProgressBucket, len(rows))
	total := 0
	active := 0
	for i, r := range rows {
		// The source's accuracy convention: average_grade (0-3) * 25, so a
		// perfect average of grade 3 reads as 75%, not 100% — documented as
		// an explicit open-question decision rather than re-normalized.
		accuracy := r.AverageGrade * 25
		buckets[i] = ProgressBucket{Date: r.Date, Reviews: r.Reviews, AverageGrade: r.AverageGrade, Accuracy: accuracy}
		total += r.Reviews
		if r.Reviews > 0 {
			active++
		}
	}
	return Progress{Buckets: buckets, TotalReviews: total, ActiveDays: active}, nil
}

// DueForecast implements Stats.DueForecast(days).
func (s *Stats) DueForecast(ctx context.Context, wordbookID *int, days int) ([]ForecastBucket, error) {
	if days <= 0 {
		days = 7
	}
	wbID, ok, err := s.resolveWordbook(ctx, wordbookID)
	if err != nil {
		return nil, fmt.Errorf("resolving wordbook for due forecast: %w", err)
	}
	if !ok {
		return nil, nil
	}
	rows, err := s.store.DueCounts(ctx, wbID, days)
	if err != nil {
		return nil, fmt.Errorf("reading due counts: %w", err)
	}
	buckets := make([]ForecastBucket, len(rows))
	for i, r := range rows {
		buckets[i] = ForecastBucket{Date: r.Date, Count: r.Count}
	}
	return buckets, nil
}

func (s *Stats) resolveWordbook(ctx context.Context, explicit *int) (int, bool, error) {
	if explicit != nil {
		return *explicit, true, nil
	}
	wb, err := s.store.GetActiveWordbook(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoActiveWordbook) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return wb.ID, true, nil
}
