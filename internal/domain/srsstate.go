package domain

import "time"

// LeechThreshold is the lapse count at which a card is tagged "leech" on
// its Word (§3, §4.5).
const LeechThreshold = 8

// SRSState is the spaced-repetition state of a single card. Exactly one row
// exists per card; reps=0 means the card is "new".
type SRSState struct {
	CardID         int        `json:"card_id"`
	Algo           string     `json:"algo"`
	Due            time.Time  `json:"due"`
	Interval       int        `json:"interval"`
	Ease           float64    `json:"ease"`
	Reps           int        `json:"reps"`
	Lapses         int        `json:"lapses"`
	LastGrade      *int       `json:"last_grade,omitempty"`
	FirstSeenAt    time.Time  `json:"first_seen_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// NewSRSState creates the default state for a card that has just entered
// the scheduler as "new" (§3: reps=0, interval=0, ease=2.5, due=now).
func NewSRSState(cardID int, now time.Time) *SRSState {
	return &SRSState{
		CardID:      cardID,
		Algo:        "sm2",
		Due:         now,
		Interval:    0,
		Ease:        2.5,
		Reps:        0,
		Lapses:      0,
		FirstSeenAt: now,
	}
}

// IsNew reports whether the card has never been reviewed.
func (s *SRSState) IsNew() bool {
	return s.Reps == 0
}

// IsLeech reports whether the card has crossed the leech threshold (§3, §4.5).
func (s *SRSState) IsLeech() bool {
	return s.Lapses >= LeechThreshold
}

// Review is an append-only record of a single grading event. Never mutated.
type Review struct {
	ID          int       `json:"id"`
	CardID      int       `json:"card_id"`
	Ts          time.Time `json:"ts"`
	Grade       int       `json:"grade"`
	ElapsedMs   *int      `json:"elapsed_ms,omitempty"`
	PrevInterval int      `json:"prev_interval"`
	NewInterval  int      `json:"new_interval"`
}
