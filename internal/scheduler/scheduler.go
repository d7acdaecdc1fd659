// Package scheduler composes the day's study queue (§4.5): a priority union
// of cards that are due for review, cards riding the post-learning "rolling"
// checkpoints, and fresh cards that have never been reviewed, capped and
// interleaved so a backlog of due cards never gets drowned out by new
// material.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/YiniRuohong/wordflow/internal/store"
)

const (
	DefaultLimit    = 30
	MaxLimit        = 100
	DefaultNewLimit = 10
)

var rollingOffsets = []int{1, 2, 4, 7}

// Options tunes one NextQueue call. The zero value is usable: Limit and
// NewLimit fall back to their defaults, Now falls back to time.Now, and
// WordbookID falls back to the active wordbook. Limit and IncludeRolling are
// pointers because their Go zero values (0, false) are themselves valid,
// distinct inputs the spec gives different meaning to from "unset": an
// explicit limit=0 must yield an empty queue with stats still populated,
// which a plain int indistinguishable from "caller didn't set it" can't
// express. nil means "use the default."
type Options struct {
	Limit          *int
	NewLimit       int
	IncludeRolling *bool
	Now            time.Time
	WordbookID     *int
}

func (o Options) limit() int {
	if o.Limit == nil {
		return DefaultLimit
	}
	switch {
	case *o.Limit < 0:
		return DefaultLimit
	case *o.Limit > MaxLimit:
		return MaxLimit
	default:
		return *o.Limit
	}
}

func (o Options) newLimit() int {
	if o.NewLimit <= 0 {
		return DefaultNewLimit
	}
	return o.NewLimit
}

func (o Options) includeRolling() bool {
	if o.IncludeRolling == nil {
		return true
	}
	return *o.IncludeRolling
}

func (o Options) now() time.Time {
	if o.Now.IsZero() {
		return time.Now().UTC()
	}
	return o.Now
}

// QueueCard is one card as placed in the study queue; Source records which
// of the three sets it was drawn from, mostly useful for client UI ("new"
// badge) and tests.
type QueueCard struct {
	CardID int       `json:"card_id"`
	WordID int       `json:"word_id"`
	Lesson string    `json:"lesson"`
	Due    time.Time `json:"due"`
	Reps   int       `json:"reps"`
	Lapses int       `json:"lapses"`
	Source string    `json:"source"`
}

const (
	SourceDue     = "due"
	SourceRolling = "rolling"
	SourceNew     = "new"
)

// QueueStats is §4.5's queueStats: pre-truncation set sizes plus the derived
// study_queue_size the client uses to size a progress bar.
type QueueStats struct {
	DueCount       int `json:"due_count"`
	RollingCount   int `json:"rolling_count"`
	NewCount       int `json:"new_count"`
	ReviewedToday  int `json:"reviewed_today"`
	StudyQueueSize int `json:"study_queue_size"`
}

// Result is what NextQueue returns: the interleaved, limit-truncated cards,
// the stats describing the full sets they were drawn from, and an ephemeral
// session id identifying this particular queue draw (never persisted — a
// fresh uuid is minted on every call).
type Result struct {
	Cards     []QueueCard
	Stats     QueueStats
	SessionID uuid.UUID
}

// Scheduler is the process-wide façade over queue composition.
type Scheduler struct {
	store store.Store
}

func New(st store.Store) *Scheduler {
	return &Scheduler{store: st}
}

// NextQueue implements §4.5. It never returns an error for well-formed
// inputs; a missing active wordbook yields an empty, zeroed Result rather
// than a failure, per the spec's stated failure semantics.
func (s *Scheduler) NextQueue(ctx context.Context, opts Options) (Result, error) {
	limit := opts.limit()
	newLimit := opts.newLimit()
	now := opts.now()

	wordbookID, ok, err := s.resolveWordbook(ctx, opts.WordbookID)
	if err != nil {
		return Result{}, fmt.Errorf("resolving wordbook for study queue: %w", err)
	}
	if !ok {
		return Result{SessionID: uuid.New()}, nil
	}

	snapshot, err := s.store.SchedulerSnapshot(ctx, wordbookID, now)
	if err != nil {
		return Result{}, fmt.Errorf("reading scheduler snapshot: %w", err)
	}

	due, rolling, fresh := composeSets(snapshot.Rows, now, opts.includeRolling())

	reviewedToday, err := s.store.ReviewsOnDate(ctx, wordbookID, now)
	if err != nil {
		return Result{}, fmt.Errorf("counting today's reviews: %w", err)
	}

	effectiveNewLimit := adaptiveNewLimit(len(due), len(rolling), limit, newLimit)

	cards := make([]QueueCard, 0, limit)
	cards = append(cards, due...)
	cards = append(cards, rolling...)
	if effectiveNewLimit > len(fresh) {
		effectiveNewLimit = len(fresh)
	}
	cards = append(cards, fresh[:effectiveNewLimit]...)
	if len(cards) > limit {
		cards = cards[:limit]
	}

	// study_queue_size is the size of the batch actually handed back, so it
	// can never exceed limit even when Due alone already blows past it
	// (the backpressure scenario: |Due|=80, limit=30 yields 30, not 80).
	studyQueueSize := len(due) + len(rolling) + effectiveNewLimit
	if studyQueueSize > limit {
		studyQueueSize = limit
	}
	stats := QueueStats{
		DueCount:       len(due),
		RollingCount:   len(rolling),
		NewCount:       len(fresh),
		ReviewedToday:  reviewedToday,
		StudyQueueSize: studyQueueSize,
	}

	return Result{Cards: cards, Stats: stats, SessionID: uuid.New()}, nil
}

// adaptiveNewLimit implements the adaptive new cap: when the due+rolling
// backlog exceeds 2*limit, the new-material allowance shrinks by one for
// every 10 cards of overflow, never below zero.
func adaptiveNewLimit(dueCount, rollingCount, limit, newLimit int) int {
	backlog := dueCount + rollingCount
	threshold := 2 * limit
	if backlog <= threshold {
		return newLimit
	}
	overflow := backlog - threshold
	reduction := int(math.Ceil(float64(overflow) / 10))
	effective := newLimit - reduction
	if effective < 0 {
		return 0
	}
	return effective
}

func (s *Scheduler) resolveWordbook(ctx context.Context, explicit *int) (int, bool, error) {
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
