package importer

import (
	"context"
	"sync"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// fakeStore is a minimal in-memory store.Store used to exercise Importer and
// ImportTask without a real database; it implements exactly the behaviour
// the import execution plan touches, and returns "not implemented" for the
// rest of the interface.
type fakeStore struct {
	mu sync.Mutex

	wordbooks    map[int]*domain.Wordbook
	activeID     int
	nextWordID   int
	jobs         map[int]*domain.ImportJob
	nextJobID    int
	transientErr int // number of remaining BulkUpsertWords calls to fail transiently
	failAllWords bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wordbooks: make(map[int]*domain.Wordbook),
		jobs:      make(map[int]*domain.ImportJob),
	}
}

func (f *fakeStore) addWordbook(id int, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wordbooks[id] = &domain.Wordbook{ID: id, Name: "wb"}
	if active {
		f.activeID = id
	}
}

func (f *fakeStore) CreateWordbook(ctx context.Context, spec domain.WordbookSpec) (*domain.Wordbook, error) {
	return nil, errNotImplemented
}

func (f *fakeStore) ActivateWordbook(ctx context.Context, id int) (*domain.Wordbook, error) {
	return nil, errNotImplemented
}

func (f *fakeStore) GetActiveWordbook(ctx context.Context) (*domain.Wordbook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeID == 0 {
		return nil, store.ErrNoActiveWordbook
	}
	return f.wordbooks[f.activeID], nil
}

func (f *fakeStore) GetWordbook(ctx context.Context, id int) (*domain.Wordbook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wb, ok := f.wordbooks[id]
	if !ok {
		return nil, store.ErrWordbookNotFound
	}
	return wb, nil
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

// BulkUpsertWords inserts every row as a new word unless failAllWords or a
// transientErr countdown is set, simulating §4.3's retry-once rule.
func (f *fakeStore) BulkUpsertWords(ctx context.Context, wordbookID int, batch []domain.NormalizedWord) (store.BulkUpsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.transientErr > 0 {
		f.transientErr--
		return store.BulkUpsertResult{}, store.ErrTransient
	}
	if f.failAllWords {
		failures := make([]store.RowFailure, len(batch))
		for i := range batch {
			failures[i] = store.RowFailure{Row: i, Reason: "forced failure"}
		}
		return store.BulkUpsertResult{Failed: failures}, nil
	}

	var ids []int
	for range batch {
		f.nextWordID++
		ids = append(ids, f.nextWordID)
	}
	return store.BulkUpsertResult{Inserted: len(batch), WordIDs: ids}, nil
}

func (f *fakeStore) GetWord(ctx context.Context, id int) (*domain.Word, error) {
	return nil, errNotImplemented
}
func (f *fakeStore) TagWord(ctx context.Context, wordID int, tag string) error { return nil }

func (f *fakeStore) CreateCardIfMissing(ctx context.Context, wordID int, template string) (*domain.Card, error) {
	return &domain.Card{ID: wordID, WordID: wordID, Template: template}, nil
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
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextJobID++
	job.ID = f.nextJobID
	job.StartedAt = time.Now()
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeStore) GetImportJob(ctx context.Context, id int) (*domain.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, store.ErrImportJobNotFound
	}
	cp := *job
	return &cp, nil
}

func (f *fakeStore) UpdateImportJob(ctx context.Context, job *domain.ImportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[job.ID]; !ok {
		return store.ErrImportJobNotFound
	}
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeStore) ListImportJobs(ctx context.Context, limit int) ([]domain.ImportJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ImportJob
	for _, job := range f.jobs {
		out = append(out, *job)
	}
	return out, nil
}

func (f *fakeStore) HasActiveImport(ctx context.Context, wordbookID int) (int, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, job := range f.jobs {
		if job.WordbookID == wordbookID && !job.Terminal() {
			return job.ID, true, nil
		}
	}
	return 0, false, nil
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
	return "", false, nil
}
func (f *fakeStore) PutSetting(ctx context.Context, key, value string) error { return nil }

var errNotImplemented = &notImplementedError{}

type notImplementedError struct{}

func (*notImplementedError) Error() string { return "not implemented in fakeStore" }
