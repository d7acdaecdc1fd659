// Package review orchestrates §4.6's grading contract against Store: load
// the current SRSState (created together with the card, so a missing state
// is reported as a failed precondition), apply the pure grading function,
// and persist the result. domain/srs holds the grading math; this package is the one
// place that sequences it against storage.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/domain/srs"
	"github.com/YiniRuohong/wordflow/internal/store"
)

type Reviewer struct {
	store store.Store
}

func New(st store.Store) *Reviewer {
	return &Reviewer{store: st}
}

// Submit implements §4.6's Apply contract end to end. now is an injectable
// clock for tests; callers pass time.Now().UTC() in production.
func (r *Reviewer) Submit(ctx context.Context, cardID, grade int, elapsedMs *int, now time.Time) (*domain.SRSState, *domain.Review, error) {
	if !srs.ValidGrade(grade) {
		return nil, nil, fmt.Errorf("%w: grade must be 0-3, got %d", domain.ErrInvalidGrade, grade)
	}

	// Store.CreateCardIfMissing always creates a card's SRSState in the same
	// transaction as the card itself, so a missing state here means the
	// card_id doesn't exist at all — §7's "review for unknown card" case,
	// not a fresh card legitimately starting from defaults.
	state, err := r.store.GetSRSState(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: card %d", store.ErrPreconditionFailed, cardID)
		}
		return nil, nil, fmt.Errorf("loading srs state for card %d: %w", cardID, err)
	}

	next, rev := srs.Apply(state, grade, now)
	rev.ElapsedMs = elapsedMs

	if err := r.store.PutSRSStateAndAppendReview(ctx, next, rev); err != nil {
		return nil, nil, fmt.Errorf("persisting review for card %d: %w", cardID, err)
	}

	if next.IsLeech() {
		if err := r.tagLeech(ctx, cardID); err != nil {
			return nil, nil, fmt.Errorf("tagging leech for card %d: %w", cardID, err)
		}
	}

	return next, rev, nil
}

// tagLeech resolves the card's owning word and tags it "leech" (§3, §4.5).
// Store.TagWord is idempotent, so a card that stays above the threshold
// across several more reviews never ends up with a duplicate tag.
func (r *Reviewer) tagLeech(ctx context.Context, cardID int) error {
	card, err := r.store.GetCard(ctx, cardID)
	if err != nil {
		return err
	}
	return r.store.TagWord(ctx, card.WordID, "leech")
}
