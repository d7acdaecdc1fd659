package domain

import "time"

// ImportJobStatus mirrors task.TaskStatus but is the domain-level view
// exposed to API clients polling /imports/{id}.
type ImportJobStatus string

const (
	ImportJobPending    ImportJobStatus = "pending"
	ImportJobProcessing ImportJobStatus = "processing"
	ImportJobCompleted  ImportJobStatus = "completed"
	ImportJobFailed     ImportJobStatus = "failed"
)

// ImportJob tracks the progress of a single bulk-import run (§3, §4.3).
// Once Status is completed or failed the row is immutable.
type ImportJob struct {
	ID         int             `json:"id"`
	WordbookID int             `json:"wordbook_id"`
	Filename   string          `json:"filename"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Status     ImportJobStatus `json:"status"`
	Total      int             `json:"total"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	Skipped    int             `json:"skipped"`
	Message    string          `json:"message,omitempty"`
}

// ProgressPercent computes §4.3's monotone progress value, clamped to [0,100].
func (j *ImportJob) ProgressPercent() float64 {
	total := j.Total
	if total < 1 {
		total = 1
	}
	done := j.Succeeded + j.Failed + j.Skipped
	p := 100 * float64(done) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Terminal reports whether the job has reached a final state.
func (j *ImportJob) Terminal() bool {
	return j.Status == ImportJobCompleted || j.Status == ImportJobFailed
}
