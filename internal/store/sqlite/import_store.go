package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/YiniRuohong/wordflow/internal/domain"
	"github.com/YiniRuohong/wordflow/internal/store"
)

// CreateImportJob implements store.Store.CreateImportJob.
func (s *Store) CreateImportJob(ctx context.Context, job *domain.ImportJob) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO import_jobs (wordbook_id, filename, started_at, status, total, succeeded, failed, skipped, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, job.WordbookID, job.Filename, job.StartedAt, job.Status, job.Total, job.Succeeded, job.Failed, job.Skipped, job.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	job.ID = int(id)
	return nil
}

// GetImportJob implements store.Store.GetImportJob.
func (s *Store) GetImportJob(ctx context.Context, id int) (*domain.ImportJob, error) {
	row := s.db.QueryRowContext(ctx, importJobSelect+` WHERE id = ?`, id)
	job, err := scanImportJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrImportJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// UpdateImportJob implements store.Store.UpdateImportJob. Only non-terminal
// jobs are ever expected to be updated; the Importer enforces that by never
// calling this after Terminal() is true.
func (s *Store) UpdateImportJob(ctx context.Context, job *domain.ImportJob) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE import_jobs
		SET wordbook_id = ?, finished_at = ?, status = ?, total = ?, succeeded = ?, failed = ?, skipped = ?, message = ?
		WHERE id = ?
	`, job.WordbookID, job.FinishedAt, job.Status, job.Total, job.Succeeded, job.Failed, job.Skipped, job.Message, job.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrImportJobNotFound
	}
	return nil
}

// ListImportJobs implements store.Store.ListImportJobs.
func (s *Store) ListImportJobs(ctx context.Context, limit int) ([]domain.ImportJob, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, importJobSelect+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []domain.ImportJob
	for rows.Next() {
		job, err := scanImportJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *job)
	}
	return out, rows.Err()
}

// HasActiveImport implements store.Store.HasActiveImport, backing the
// per-wordbook single-flight guard (§4.3, §5): only one pending/processing
// import may exist per wordbook at a time.
func (s *Store) HasActiveImport(ctx context.Context, wordbookID int) (int, bool, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM import_jobs
		WHERE wordbook_id = ? AND status IN (?, ?)
		ORDER BY started_at DESC LIMIT 1
	`, wordbookID, domain.ImportJobPending, domain.ImportJobProcessing).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

// PruneImportJobs implements store.Store.PruneImportJobs: deletes terminal
// (completed/failed) jobs that finished before cutoff, returning the count
// removed. Non-terminal jobs are never touched regardless of age.
func (s *Store) PruneImportJobs(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM import_jobs
		WHERE status IN (?, ?) AND finished_at IS NOT NULL AND finished_at < ?
	`, domain.ImportJobCompleted, domain.ImportJobFailed, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

const importJobSelect = `
	SELECT id, wordbook_id, filename, started_at, finished_at, status, total, succeeded, failed, skipped, message
	FROM import_jobs
`

func scanImportJob(row rowScanner) (*domain.ImportJob, error) {
	var j domain.ImportJob
	if err := row.Scan(
		&j.ID, &j.WordbookID, &j.Filename, &j.StartedAt, &j.FinishedAt, &j.Status,
		&j.Total, &j.Succeeded, &j.Failed, &j.Skipped, &j.Message,
	); err != nil {
		return nil, err
	}
	return &j, nil
}
