// Package maintenance drives the operational housekeeping SPEC_FULL §11
// names but the core packages don't need to know about: re-tagging leeches
// that crossed the threshold outside of a live /review call, and pruning
// old terminal ImportJob rows. Grounded on the teacher pack's gocron-based
// scheduler package — same library, same Every(1).Hour().Do/StartAsync
// shape, generalized from "send a Telegram reminder" to "sweep the store."
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/YiniRuohong/wordflow/internal/store"
)

// importJobTTL is how long a completed/failed ImportJob row survives
// before the sweep deletes it.
const importJobTTL = 90 * 24 * time.Hour

// Sweeper runs the periodic maintenance sweep on its own gocron.Scheduler.
type Sweeper struct {
	store     store.Store
	scheduler *gocron.Scheduler
	logger    *slog.Logger
}

func New(st store.Store, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:     st,
		scheduler: gocron.NewScheduler(time.UTC),
		logger:    logger,
	}
}

// Start schedules the hourly sweep and returns immediately; the scheduler
// runs its jobs on its own goroutine.
func (s *Sweeper) Start() error {
	if _, err := s.scheduler.Every(1).Hour().Do(s.runOnce); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop halts the scheduler, blocking until its current job (if any) returns.
func (s *Sweeper) Stop() {
	s.scheduler.Stop()
}

func (s *Sweeper) runOnce() {
	ctx := context.Background()
	if err := s.sweepLeeches(ctx); err != nil {
		s.logger.Error("leech sweep failed", "error", err)
	}
	if err := s.pruneImportJobs(ctx); err != nil {
		s.logger.Error("import job prune failed", "error", err)
	}
}

// sweepLeeches re-evaluates every card's SRSState across every wordbook and
// tags its word "leech" wherever lapses has crossed domain.LeechThreshold
// (§3, §4.5). Store.TagWord is idempotent, so this is safe to run hourly
// against cards the live /review path already tagged.
func (s *Sweeper) sweepLeeches(ctx context.Context) error {
	wordbooks, err := s.store.ListWordbooks(ctx)
	if err != nil {
		return err
	}
	for _, wb := range wordbooks {
		cards, err := s.store.ListCardsForWordbook(ctx, wb.ID)
		if err != nil {
			return err
		}
		for _, card := range cards {
			state, err := s.store.GetSRSState(ctx, card.ID)
			if err != nil {
				s.logger.Error("loading srs state during leech sweep", "card_id", card.ID, "error", err)
				continue
			}
			if !state.IsLeech() {
				continue
			}
			if err := s.store.TagWord(ctx, card.WordID, "leech"); err != nil {
				s.logger.Error("tagging leech during sweep", "card_id", card.ID, "word_id", card.WordID, "error", err)
			}
		}
	}
	return nil
}

func (s *Sweeper) pruneImportJobs(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-importJobTTL)
	n, err := s.store.PruneImportJobs(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info("pruned old import jobs", "count", n)
	}
	return nil
}
