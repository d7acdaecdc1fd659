package store

import (
	"context"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
)

// UpsertResult is the outcome of a single-word upsert (§4.1).
type UpsertResult struct {
	Inserted bool
	Skipped  bool
	WordID   int
}

// RowFailure records why one row of a batch failed to persist.
type RowFailure struct {
	Row    int
	Reason string
}

// BulkUpsertResult is the outcome of one BulkUpsertWords batch (§4.1, §4.3).
type BulkUpsertResult struct {
	Inserted int
	Skipped  int
	Failed   []RowFailure
	WordIDs  []int // ids of rows that were inserted, in batch order
}

// WordFilter drives QueryWords and SearchIndex (§4.1, §4.4).
type WordFilter struct {
	WordbookID int
	Q          string
	Lesson     string
	CEFR       string
	POS        string
	Page       int
	PerPage    int
}

// WordHit is a ranked search result (§4.4).
type WordHit struct {
	Word  domain.Word
	Score float64
}

// Store is the durable record of every entity in §3 plus the full-text
// index that stays coherent with the Word table through write-side
// triggers it alone owns (§4.1, §9).
type Store interface {
	CreateWordbook(ctx context.Context, spec domain.WordbookSpec) (*domain.Wordbook, error)
	ActivateWordbook(ctx context.Context, id int) (*domain.Wordbook, error)
	GetActiveWordbook(ctx context.Context) (*domain.Wordbook, error)
	GetWordbook(ctx context.Context, id int) (*domain.Wordbook, error)
	ListWordbooks(ctx context.Context) ([]domain.Wordbook, error)
	DeleteWordbook(ctx context.Context, id int) error
	WordbookStats(ctx context.Context, id int) (*WordbookStatsResult, error)

	UpsertWord(ctx context.Context, wordbookID int, normalized domain.NormalizedWord) (UpsertResult, error)
	BulkUpsertWords(ctx context.Context, wordbookID int, batch []domain.NormalizedWord) (BulkUpsertResult, error)
	GetWord(ctx context.Context, id int) (*domain.Word, error)
	TagWord(ctx context.Context, wordID int, tag string) error

	CreateCardIfMissing(ctx context.Context, wordID int, template string) (*domain.Card, error)
	GetCard(ctx context.Context, id int) (*domain.Card, error)
	ListCardsForWordbook(ctx context.Context, wordbookID int) ([]domain.Card, error)

	GetSRSState(ctx context.Context, cardID int) (*domain.SRSState, error)
	PutSRSStateAndAppendReview(ctx context.Context, state *domain.SRSState, review *domain.Review) error

	QueryWords(ctx context.Context, filter WordFilter) ([]domain.Word, int, error)
	SearchIndex(ctx context.Context, filter WordFilter) ([]WordHit, int, error)
	Suggest(ctx context.Context, wordbookID int, q string, limit int) ([]string, error)

	CreateImportJob(ctx context.Context, job *domain.ImportJob) error
	GetImportJob(ctx context.Context, id int) (*domain.ImportJob, error)
	UpdateImportJob(ctx context.Context, job *domain.ImportJob) error
	ListImportJobs(ctx context.Context, limit int) ([]domain.ImportJob, error)
	HasActiveImport(ctx context.Context, wordbookID int) (int, bool, error)
	// PruneImportJobs deletes terminal import jobs that finished before
	// cutoff, returning the count removed (§4.3, maintenance sweep).
	PruneImportJobs(ctx context.Context, cutoff time.Time) (int, error)

	ListExamples(ctx context.Context, cardID int) ([]domain.Example, error)
	AddExample(ctx context.Context, ex *domain.Example) error

	// ReviewsOnDate counts Review rows whose ts falls on the given date, in UTC.
	ReviewsOnDate(ctx context.Context, wordbookID int, day time.Time) (int, error)
	// ReviewHistory returns per-day (reviews, avg grade) buckets over the window ending today.
	ReviewHistory(ctx context.Context, wordbookID int, days int) ([]DayBucket, error)
	// DueCounts returns per-day counts of cards whose current due falls within [today, today+days).
	DueCounts(ctx context.Context, wordbookID int, days int) ([]DayCount, error)

	// SchedulerSnapshot returns the raw card/state rows the Scheduler composes
	// its queue from (§4.5). Kept on Store so the query plan and the
	// per-wordbook read lock live in one place.
	SchedulerSnapshot(ctx context.Context, wordbookID int, now time.Time) (SchedulerData, error)

	GetSetting(ctx context.Context, key string) (string, bool, error)
	PutSetting(ctx context.Context, key, value string) error
}

// WordbookStatsResult backs GET /wordbooks/{id}/stats.
type WordbookStatsResult struct {
	TotalWords int
	ByCEFR     map[string]int
	ByPOS      map[string]int
	ByLesson   map[string]int
}

// DayBucket is one day of Stats.Progress.
type DayBucket struct {
	Date        time.Time
	Reviews     int
	AverageGrade float64
}

// DayCount is one day of Stats.DueForecast.
type DayCount struct {
	Date  time.Time
	Count int
}

// SchedulerRow is a single card's data as the Scheduler needs it.
type SchedulerRow struct {
	CardID      int
	WordID      int
	Lesson      string
	Due         time.Time
	Reps        int
	Lapses      int
	FirstSeenAt time.Time
	HasState    bool
}

// SchedulerData is everything Scheduler.NextQueue needs from Store in one
// read, so composing Due/Rolling/New never issues more than one query.
type SchedulerData struct {
	Rows []SchedulerRow
}
