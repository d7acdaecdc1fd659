package stats

import (
	"context"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// fakeStore is a minimal store.Store double for Stats tests: Scheduler's
// own tests already cover queue composition in depth, so this double only
// needs to support a Today dry run plus ReviewHistory/DueCounts.
type fakeStore struct {
	activeWordbook *domain.Wordbook
	activeErr      error

	snapshot store.SchedulerData

	reviewsToday int

	history  []store.DayBucket
	forecast []store.DayCount

	lastHistoryWordbookID int
	lastForecastWordbookID int
}

func (f *fakeStore) GetActiveWordbook(ctx context.Context) (*domain.Wordbook, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.activeWordbook, nil
}

func (f *fakeStore) SchedulerSnapshot(ctx context.Context, wordbookID int, now time.Time) (store.SchedulerData, error) {
	return f.snapshot, nil
}

func (f *fakeStore) ReviewsOnDate(ctx context.Context, wordbookID int, day time.Time) (int, error) {
	return f.reviewsToday, nil
}

func (f *fakeStore) ReviewHistory(ctx context.Context, wordbookID int, days int) ([]store.DayBucket, error) {
	f.lastHistoryWordbookID = wordbookID
	return f.history, nil
}

func (f *fakeStore) DueCounts(ctx context.Context, wordbookID int, days int) ([]store.DayCount, error) {
	f.lastForecastWordbookID = wordbookID
	return f.forecast, nil
}

func (f *fakeStore) CreateWordbook(ctx context.Context, spec domain.WordbookSpec) (*domain.Wordbook, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) ActivateWordbook(ctx context.Context, id int) (*domain.Wordbook, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) GetWordbook(ctx context.Context, id int) (*domain.Wordbook, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) ListWordbooks(ctx context.Context) ([]domain.Wordbook, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) DeleteWordbook(ctx context.Context, id int) error { return errNotImplemented }
func (f *fakeStore) WordbookStats(ctx context.Context, id int) (*store.WordbookStatsResult, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) UpsertWord(ctx context.Context, wordbookID int, normalized domain.NormalizedWord) (store.UpsertResult, error) {
	return store.UpsertResult{}, errNotImplemented
}
func (f *fakeStore) BulkUpsertWords(ctx context.Context, wordbookID int, batch []domain.NormalizedWord) (store.BulkUpsertResult, error) {
	return store.BulkUpsertResult{}, errNotImplemented
}
func (f *fakeStore) GetWord(ctx context.Context, id int) (*domain.Word, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) TagWord(ctx context.Context, wordID int, tag string) error { return errNotImplemented }
func (f *fakeStore) CreateCardIfMissing(ctx context.Context, wordID int, template string) (*domain.Card, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) GetCard(ctx context.Context, id int) (*domain.Card, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) ListCardsForWordbook(ctx context.Context, wordbookID int) ([]domain.Card, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) GetSRSState(ctx context.Context, cardID int) (*domain.SRSState, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) PutSRSStateAndAppendReview(ctx context.Context, state *domain.SRSState, review *domain.Review) error {
	return errNotImplemented
}
func (f *fakeStore) QueryWords(ctx context.Context, filter store.WordFilter) ([]domain.Word, int, error) {
	return nil, 0, errNotImplemented
}
func (f *fakeStore) SearchIndex(ctx context.Context, filter store.WordFilter) ([]store.WordHit, int, error) {
	return nil, 0, errNotImplemented
}
func (f *fakeStore) Suggest(ctx context.Context, wordbookID int, q string, limit int) ([]string, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) CreateImportJob(ctx context.Context, job *domain.ImportJob) error {
	return errNotImplemented
}
func (f *fakeStore) GetImportJob(ctx context.Context, id int) (*domain.ImportJob, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) UpdateImportJob(ctx context.Context, job *domain.ImportJob) error {
	return errNotImplemented
}
func (f *fakeStore) ListImportJobs(ctx context.Context, limit int) ([]domain.ImportJob, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) HasActiveImport(ctx context.Context, wordbookID int) (int, bool, error) {
	return 0, false, errNotImplemented
}
func (f *fakeStore) PruneImportJobs(ctx context.Context, cutoff time.Time) (int, error) {
	return 0, errNotImplemented
}
func (f *fakeStore) ListExamples(ctx context.Context, cardID int) ([]domain.Example, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) AddExample(ctx context.Context, ex *domain.Example) error { return errNotImplemented }
func (f *fakeStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	return "", false, errNotImplemented
}
func (f *fakeStore) PutSetting(ctx context.Context, key, value string) error { return errNotImplemented }

var errNotImplemented = &notImplementedError{}

type notImplementedError struct{}

func (*notImplementedError) Error() string { return "not implemented in fakeStore" }
