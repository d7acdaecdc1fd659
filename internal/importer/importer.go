// Package importer drives bulk vocabulary ingestion (§4.3): it turns an
// uploaded file into a background ImportTask, runs it on the shared
// task.TaskRunner, and exposes cheap, idempotent progress polling.
package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/parser"
	"github.com/YiniRuohong/wordflow/internal/store"
	"github.com/YiniRuohong/wordflow/internal/task"
)

// Config tunes the batch size and row-error cap the execution plan uses.
type Config struct {
	BatchSize    int
	MaxRowErrors int
}

// Importer is the process-wide façade over the background import machinery.
// One Importer serves every wordbook; per-wordbook exclusivity and the
// process-wide worker limit are enforced by Store.HasActiveImport and the
// underlying task.TaskRunner's WorkerCount respectively (§4.3, §5).
type Importer struct {
	store  store.Store
	runner *task.TaskRunner
	tasks  *TaskStore
	cfg    Config
	logger *slog.Logger
}

// New wires an Importer against runner, which must already be constructed
// with the task.TaskStore returned by this package (see NewTaskRunnerStore)
// so that TaskRunner.Recover and the stuck-task sweep operate on ImportJob
// rows rather than an unrelated persistence layer.
func New(st store.Store, runner *task.TaskRunner, tasks *TaskStore, cfg Config, logger *slog.Logger) *Importer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.MaxRowErrors <= 0 {
		cfg.MaxRowErrors = 50
	}
	return &Importer{store: st, runner: runner, tasks: tasks, cfg: cfg, logger: logger}
}

// NewTaskRunnerStore builds the task.TaskStore an Importer's TaskRunner must
// be constructed with. It exists as a separate constructor because the
// runner and the Importer are wired in opposite directions during startup
// (cmd/server needs a task.TaskStore before it can build the TaskRunner, and
// the TaskRunner before it can build the Importer).
func NewTaskRunnerStore(st store.Store, logger *slog.Logger) *TaskStore {
	return newTaskStore(st, logger)
}

// Start implements §4.3's Start(file, wordbookID?) → importID contract. It
// looks the wordbook up only far enough to refuse a second import while one
// is in flight for it (the explicit id, else the active wordbook if there is
// one) and to label the pending job row; validating the wordbook, batching,
// and counters are ImportTask.Execute's job. Start persists the pending job
// row and hands the task to the runner so it returns immediately.
func (im *Importer) Start(ctx context.Context, wordbookID *int, filename string, data []byte, format parser.Format) (int, error) {
	wbID := 0
	if wordbookID != nil {
		wbID = *wordbookID
	} else if wb, err := im.store.GetActiveWordbook(ctx); err == nil {
		wbID = wb.ID
	}
	if wbID != 0 {
		activeID, inFlight, err := im.store.HasActiveImport(ctx, wbID)
		if err != nil {
			return 0, fmt.Errorf("checking for an in-flight import: %w", err)
		}
		if inFlight {
			return activeID, fmt.Errorf("%w: import %d", store.ErrImportInFlight, activeID)
		}
	}

	job := &domain.ImportJob{
		WordbookID: wbID,
		Filename:   filename,
		Status:     domain.ImportJobPending,
	}
	if err := im.store.CreateImportJob(ctx, job); err != nil {
		return 0, fmt.Errorf("creating import job: %w", err)
	}

	t := &ImportTask{
		id:         uuid.New(),
		jobID:      job.ID,
		wordbookID: wordbookID,
		filename:   filename,
		data:       data,
		format:     format,
		store:      im.store,
		logger:     im.logger.With("import_id", job.ID),
		cfg:        im.cfg,
		status:     task.TaskStatusPending,
	}
	im.tasks.track(t)

	if err := im.runner.Submit(ctx, t); err != nil {
		// The job row stays "pending" in this case; it reads to the caller
		// as a stuck import rather than a silent failure. HasActiveImport
		// keeps reporting it as in flight for its wordbook, so a retried
		// Start for that wordbook gets a Conflict until the runner's startup
		// recovery (TaskStore.GetPendingTasks) marks the row failed.
		return job.ID, fmt.Errorf("submitting import task: %w", err)
	}
	return job.ID, nil
}

// Progress implements §4.3's Progress(importID) → ImportJob contract: a
// cheap, idempotent read of the current job row.
func (im *Importer) Progress(ctx context.Context, importID int) (*domain.ImportJob, error) {
	return im.store.GetImportJob(ctx, importID)
}

// List returns the most recent import jobs, newest first.
func (im *Importer) List(ctx context.Context, limit int) ([]domain.ImportJob, error) {
	return im.store.ListImportJobs(ctx, limit)
}
