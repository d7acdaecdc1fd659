package review

import (
	"context"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

type fakeStore struct {
	states map[int]*domain.SRSState
	cards  map[int]*domain.Card
	tags   map[int][]string

	lastPutState  *domain.SRSState
	lastPutReview *domain.Review
	putErr        error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		states: make(map[int]*domain.SRSState),
		cards:  make(map[int]*domain.Card),
		tags:   make(map[int][]string),
	}
}

func (f *fakeStore) GetSRSState(ctx context.Context, cardID int) (*domain.SRSState, error) {
	s, ok := f.states[cardID]
	if !ok {
		return nil, store.ErrSRSStateNotFound
	}
	return s, nil
}

func (f *fakeStore) PutSRSStateAndAppendReview(ctx context.Context, state *domain.SRSState, rev *domain.Review) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.lastPutState = state
	f.lastPutReview = rev
	f.states[state.CardID] = state
	return nil
}

func (f *fakeStore) CreateWordbook(ctx context.Context, spec domain.WordbookSpec) (*domain.Wordbook, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) ActivateWordbook(ctx context.Context, id int) (*domain.Wordbook, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) GetActiveWordbook(ctx context.Context) (*domain.Wordbook, error) {
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
func (f *fakeStore) TagWord(ctx context.Context, wordID int, tag string) error {
	for _, t := range f.tags[wordID] {
		if t == tag {
			return nil
		}
	}
	f.tags[wordID] = append(f.tags[wordID], tag)
	return nil
}
func (f *fakeStore) CreateCardIfMissing(ctx context.Context, wordID int, template string) (*domain.Card, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) GetCard(ctx context.Context, id int) (*domain.Card, error) {
	c, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return c, nil
}
func (f *fakeStore) ListCardsForWordbook(ctx context.Context, wordbookID int) ([]domain.Card, error) {
	return nil, errNotImplemented
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
func (f *fakeStore) ReviewsOnDate(ctx context.Context, wordbookID int, day time.Time) (int, error) {
	return 0, errNotImplemented
}
func (f *fakeStore) ReviewHistory(ctx context.Context, wordbookID int, days int) ([]store.DayBucket, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) DueCounts(ctx context.Context, wordbookID int, days int) ([]store.DayCount, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) SchedulerSnapshot(ctx context.Context, wordbookID int, now time.Time) (store.SchedulerData, error) {
	return store.SchedulerData{}, errNotImplemented
}
func (f *fakeStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	return "", false, errNotImplemented
}
func (f *fakeStore) PutSetting(ctx context.Context, key, value string) error { return errNotImplemented }

var errNotImplemented = &notImplementedError{}

type notImplementedError struct{}

func (*notImplementedError) Error() string { return "not implemented in fakeStore" }
