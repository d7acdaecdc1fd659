package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/parser"
	"github.com/YiniRuohong/wordflow/internal/store"
	"github.com/YiniRuohong/wordflow/internal/task"
)

// ImportTask is the §4.3 execution plan expressed as a task.Task so it can
// run on the shared task.TaskRunner alongside any other background work.
type ImportTask struct {
	id         uuid.UUID
	jobID      int
	wordbookID *int // nil means "resolve against the active wordbook"
	filename   string
	data       []byte
	format     parser.Format

	store  store.Store
	logger *slog.Logger
	cfg    Config

	status task.TaskStatus
}

func (t *ImportTask) ID() uuid.UUID           { return t.id }
func (t *ImportTask) Type() string            { return task.TaskTypeImport }
func (t *ImportTask) Payload() []byte         { return t.data }
func (t *ImportTask) Status() task.TaskStatus { return t.status }

// Execute runs §4.3's five-step plan. It always returns nil: every failure
// mode the plan names (no active wordbook, parser failure, exhausted batch
// retries) is recorded on the ImportJob row itself rather than surfaced as a
// Go error, since the job's own `status`/`message` fields are the contract
// callers poll through Progress — returning an error here would only cause
// the TaskRunner to additionally mark the *task* failed, which Status()
// already reflects once Execute sets it.
func (t *ImportTask) Execute(ctx context.Context) error {
	t.status = task.TaskStatusProcessing

	job, err := t.store.GetImportJob(ctx, t.jobID)
	if err != nil {
		t.logger.Error("import job vanished before execution", "error", err)
		t.status = task.TaskStatusFailed
		return nil
	}

	wordbookID, resolveErr := t.resolveWordbook(ctx)
	if resolveErr != nil {
		job.Status = domain.ImportJobFailed
		job.Message = resolveErr.Error()
		if err := t.store.UpdateImportJob(ctx, job); err != nil {
			t.logger.Error("failed to persist wordbook-resolution failure", "error", err)
		}
		t.status = task.TaskStatusFailed
		return nil
	}
	job.WordbookID = wordbookID
	job.Status = domain.ImportJobProcessing

	results, totalHint, err := parser.Stream(ctx, t.data, t.filename, t.format)
	if err != nil {
		job.Status = domain.ImportJobFailed
		job.Message = err.Error()
		if uErr := t.store.UpdateImportJob(ctx, job); uErr != nil {
			t.logger.Error("failed to persist parser failure", "error", uErr)
		}
		t.status = task.TaskStatusFailed
		return nil
	}
	job.Total = totalHint
	if err := t.store.UpdateImportJob(ctx, job); err != nil {
		t.logger.Error("failed to persist processing transition", "error", err)
	}

	batchSize := t.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	maxRowErrors := t.cfg.MaxRowErrors
	if maxRowErrors <= 0 {
		maxRowErrors = 50
	}

	batch := make([]domain.NormalizedWord, 0, batchSize)
	rowErrors := 0
	hadHint := totalHint > 0

	flush := func() {
		if len(batch) == 0 {
			return
		}
		t.applyBatch(ctx, job, wordbookID, batch)
		batch = batch[:0]
	}

	for r := range results {
		if r.Err != nil {
			job.Failed++
			rowErrors++
			if rowErrors <= maxRowErrors {
				t.logger.Debug("row rejected during import",
					"row", r.Err.Row, "missing", r.Err.Missing, "reason", r.Err.Reason)
			}
			continue
		}
		batch = append(batch, *r.Word)
		if len(batch) >= batchSize {
			flush()
			if err := t.store.UpdateImportJob(ctx, job); err != nil {
				t.logger.Error("failed to persist batch progress", "error", err)
			}
		}
	}
	flush()

	job.FinishedAt = nowPtr()
	if !hadHint {
		job.Total = job.Succeeded + job.Failed + job.Skipped
	}
	job.Status = domain.ImportJobCompleted
	if err := t.store.UpdateImportJob(ctx, job); err != nil {
		t.logger.Error("failed to persist import completion", "error", err)
		t.status = task.TaskStatusFailed
		return nil
	}
	t.status = task.TaskStatusCompleted
	return nil
}

// resolveWordbook implements step 1 of §4.3's execution plan.
func (t *ImportTask) resolveWordbook(ctx context.Context) (int, error) {
	if t.wordbookID != nil {
		wb, err := t.store.GetWordbook(ctx, *t.wordbookID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return 0, fmt.Errorf("%w: wordbook %d", store.ErrPreconditionFailed, *t.wordbookID)
			}
			return 0, err
		}
		return wb.ID, nil
	}
	wb, err := t.store.GetActiveWordbook(ctx)
	if err != nil {
		// GetActiveWordbook already returns store.ErrNoActiveWordbook, which
		// wraps ErrPreconditionFailed with exactly this step's required
		// message, so it is returned as-is rather than rewrapped.
		return 0, err
	}
	return wb.ID, nil
}

// applyBatch implements steps 3-4: a batch upsert, card creation for every
// newly inserted word, and a single same-content retry on a transient Store
// error before the whole batch is counted as failed.
func (t *ImportTask) applyBatch(ctx context.Context, job *domain.ImportJob, wordbookID int, batch []domain.NormalizedWord) {
	result, err := t.store.BulkUpsertWords(ctx, wordbookID, batch)
	if err != nil && store.IsTransient(err) {
		t.logger.Warn("transient store error, retrying batch once", "error", err)
		result, err = t.store.BulkUpsertWords(ctx, wordbookID, batch)
	}
	if err != nil {
		job.Failed += len(batch)
		job.Message = err.Error()
		return
	}

	job.Succeeded += result.Inserted
	job.Skipped += result.Skipped
	job.Failed += len(result.Failed)

	for _, wordID := range result.WordIDs {
		if _, err := t.store.CreateCardIfMissing(ctx, wordID, "basic"); err != nil {
			t.logger.Error("failed to create card for imported word", "word_id", wordID, "error", err)
		}
	}
}
