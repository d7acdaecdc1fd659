package domain

import "time"

// Wordbook is a named collection of words. At most one wordbook is active
// at any time; write operations that require an active book fail with
// PreconditionFailed when none is.
type Wordbook struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Language    string    `json:"language"`
	Description string    `json:"description,omitempty"`
	Author      string    `json:"author,omitempty"`
	Version     string    `json:"version,omitempty"`
	TotalWords  int       `json:"total_words"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WordbookSpec is the input to Store.CreateWordbook.
type WordbookSpec struct {
	Name        string
	Language    string
	Description string
	Author      string
	Version     string
}

// Validate checks that the spec can be persisted as a Wordbook.
func (s WordbookSpec) Validate() error {
	if s.Name == "" {
		return ErrWordbookNameEmpty
	}
	return nil
}
