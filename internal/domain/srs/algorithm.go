// Package srs implements the grading function that moves a card's
// (interval, ease, reps, lapses, due) tuple forward. The algorithm is
// selected by the SRSState's algo tag; today only "sm2" is implemented, but
// adding another means one new pure function and one new tag, no schema
// change (§9).
package srs

import (
	"math"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
)

// MinEase and MaxEase bound the ease factor regardless of grade history.
const (
	MinEase = 1.3
	MaxEase = 3.5
)

// Apply grades a card and returns its next SRSState plus the Review record
// to append in the same transaction. state is never mutated; a copy is
// returned. grade must be one of 0,1,2,3 — callers validate this before
// calling Apply.
func Apply(state *domain.SRSState, grade int, now time.Time) (*domain.SRSState, *domain.Review) {
	prevInterval := state.Interval
	next := &domain.SRSState{
		CardID:      state.CardID,
		Algo:        state.Algo,
		Reps:        state.Reps,
		Interval:    state.Interval,
		Ease:        state.Ease,
		Lapses:      state.Lapses,
		FirstSeenAt: state.FirstSeenAt,
	}

	switch grade {
	case 0:
		next.Reps = 0
		next.Interval = 1
		next.Ease = math.Max(MinEase, state.Ease-0.20)
		next.Lapses = state.Lapses + 1
	case 1:
		next.Reps = state.Reps + 1
		next.Ease = math.Max(MinEase, state.Ease-0.15)
		switch state.Reps {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 3
		default:
			next.Interval = ceilInterval(state.Interval, math.Max(1.2, state.Ease-0.15))
		}
		next.Lapses = state.Lapses
	case 2:
		next.Reps = state.Reps + 1
		next.Ease = state.Ease
		switch state.Reps {
		case 0:
			next.Interval = 1
		case 1:
			next.Interval = 3
		default:
			next.Interval = ceilInterval(state.Interval, state.Ease)
		}
		next.Lapses = state.Lapses
	case 3:
		next.Reps = state.Reps + 1
		next.Ease = math.Min(MaxEase, state.Ease+0.10)
		switch state.Reps {
		case 0:
			next.Interval = 2
		case 1:
			next.Interval = 5
		default:
			next.Interval = ceilInterval(state.Interval, state.Ease*1.3)
		}
		next.Lapses = state.Lapses
	}

	next.Due = now.AddDate(0, 0, next.Interval)
	g := grade
	next.LastGrade = &g
	next.LastReviewedAt = &now

	review := &domain.Review{
		CardID:       state.CardID,
		Ts:           now,
		Grade:        grade,
		PrevInterval: prevInterval,
		NewInterval:  next.Interval,
	}
	return next, review
}

// ceilInterval applies ⌈interval · factor⌉ as the table in §4.6 specifies.
func ceilInterval(interval int, factor float64) int {
	return int(math.Ceil(float64(interval) * factor))
}

// ValidGrade reports whether grade is one of the four accepted values.
func ValidGrade(grade int) bool {
	return grade >= 0 && grade <= 3
}
