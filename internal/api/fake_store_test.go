package api

import (
	"context"
	"sync"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// fakeStore is an in-memory store.Store used to exercise the HTTP handlers
// end to end through real Importer/Search/Scheduler/Reviewer/Stats
// façades, the way the teacher's handler tests wire a fake repository
// rather than mocking at the façade boundary.
type fakeStore struct {
	mu sync.Mutex

	wordbooks  map[int]*domain.Wordbook
	activeID   int
	nextWbID   int
	words      map[int]*domain.Word
	nextWordID int
	cards      map[int]*domain.Card
	nextCardID int
	states     map[int]*domain.SRSState
	jobs       map[int]*domain.ImportJob
	nextJobID  int
	settings   map[string]string

	searchResults []store.WordHit
	searchTotal   int
	suggestions   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wordbooks: make(map[int]*domain.Wordbook),
		words:     make(map[int]*domain.Word),
		cards:     make(map[int]*domain.Card),
		states:    make(map[int]*domain.SRSState),
		jobs:      make(map[int]*domain.ImportJob),
		settings:  make(map[string]string),
	}
}

func (f *fakeStore) CreateWordbook(ctx context.Context, spec domain.WordbookSpec) (*domain.Wordbook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	f.nextWbID++
	wb := &domain.Wordbook{
		ID:          f.nextWbID,
		Name:        spec.Name,
		Language:    spec.Language,
		Description: spec.Description,
		Author:      spec.Author,
		Version:     spec.Version,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	f.wordbooks[wb.ID] = wb
	return wb, nil
}

func (f *fakeStore) ActivateWordbook(ctx context.Context, id int) (*domain.Wordbook, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wb, ok := f.wordbooks[id]
	if !ok {
		return nil, store.ErrWordbookNotFound
	}
	for _, other := range f.wordbooks {
		other.IsActive = false
	}
	wb.IsActive = true
	f.activeID = id
	return wb, nil
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
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Wordbook
	for _, wb := range f.wordbooks {
		out = append(out, *wb)
	}
	return out, nil
}

func (f *fakeStore) DeleteWordbook(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wordbooks[id]; !ok {
		return store.ErrWordbookNotFound
	}
	delete(f.wordbooks, id)
	return nil
}

func (f *fakeStore) WordbookStats(ctx context.Context, id int) (*store.WordbookStatsResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.wordbooks[id]; !ok {
		return nil, store.ErrWordbookNotFound
	}
	result := &store.WordbookStatsResult{
		ByCEFR:   map[string]int{},
		ByPOS:    map[string]int{},
		ByLesson: map[string]int{},
	}
	for _, w := range f.words {
		if w.WordbookID != id {
			continue
		}
		result.TotalWords++
		if w.CEFR != "" {
			result.ByCEFR[w.CEFR]++
		}
		if w.POS != "" {
			result.ByPOS[w.POS]++
		}
		if w.Lesson != "" {
			result.ByLesson[w.Lesson]++
		}
	}
	return result, nil
}

func (f *fakeStore) UpsertWord(ctx context.Context, wordbookID int, normalized domain.NormalizedWord) (store.UpsertResult, error) {
	return store.UpsertResult{}, errNotImplemented
}

func (f *fakeStore) BulkUpsertWords(ctx context.Context, wordbookID int, batch []domain.NormalizedWord) (store.BulkUpsertResult, error) {
	return store.BulkUpsertResult{}, errNotImplemented
}

func (f *fakeStore) GetWord(ctx context.Context, id int) (*domain.Word, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.words[id]
	if !ok {
		return nil, store.ErrWordNotFound
	}
	return w, nil
}

func (f *fakeStore) TagWord(ctx context.Context, wordID int, tag string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.words[wordID]
	if !ok {
		return store.ErrWordNotFound
	}
	w.AddTagIfMissing(tag)
	return nil
}

func (f *fakeStore) CreateCardIfMissing(ctx context.Context, wordID int, template string) (*domain.Card, error) {
	return nil, errNotImplemented
}

func (f *fakeStore) GetCard(ctx context.Context, id int) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return c, nil
}

func (f *fakeStore) ListCardsForWordbook(ctx context.Context, wordbookID int) ([]domain.Card, error) {
	return nil, errNotImplemented
}

func (f *fakeStore) GetSRSState(ctx context.Context, cardID int) (*domain.SRSState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[cardID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) PutSRSStateAndAppendReview(ctx context.Context, state *domain.SRSState, review *domain.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[state.CardID] = state
	return nil
}

func (f *fakeStore) QueryWords(ctx context.Context, filter store.WordFilter) ([]domain.Word, int, error) {
	return nil, 0, errNotImplemented
}

func (f *fakeStore) SearchIndex(ctx context.Context, filter store.WordFilter) ([]store.WordHit, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchResults, f.searchTotal, nil
}

func (f *fakeStore) Suggest(ctx context.Context, wordbookID int, q string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.suggestions, nil
}

func (f *fakeStore) CreateImportJob(ctx context.Context, job *domain.ImportJob) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextJobID++
	job.ID = f.nextJobID
	job.StartedAt = time.Now().UTC()
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
		if len(out) >= limit {
			break
		}
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

func (f *fakeStore) AddExample(ctx context.Context, ex *domain.Example) error {
	return errNotImplemented
}

func (f *fakeStore) ReviewsOnDate(ctx context.Context, wordbookID int, day time.Time) (int, error) {
	return 0, nil
}

func (f *fakeStore) ReviewHistory(ctx context.Context, wordbookID int, days int) ([]store.DayBucket, error) {
	return nil, nil
}

func (f *fakeStore) DueCounts(ctx context.Context, wordbookID int, days int) ([]store.DayCount, error) {
	return nil, nil
}

func (f *fakeStore) SchedulerSnapshot(ctx context.Context, wordbookID int, now time.Time) (store.SchedulerData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []store.SchedulerRow
	for _, c := range f.cards {
		st, ok := f.states[c.ID]
		row := store.SchedulerRow{CardID: c.ID, WordID: c.WordID, HasState: ok}
		if ok {
			row.Due = st.Due
			row.Reps = st.Reps
			row.Lapses = st.Lapses
			row.FirstSeenAt = st.FirstSeenAt
		}
		rows = append(rows, row)
	}
	return store.SchedulerData{Rows: rows}, nil
}

func (f *fakeStore) GetSetting(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.settings[key]
	return v, ok, nil
}

func (f *fakeStore) PutSetting(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.settings[key] = value
	return nil
}

var errNotImplemented = &notImplementedError{}

type notImplementedError struct{}

func (*notImplementedError) Error() string { return "not implemented in fakeStore" }
