// Package domain holds the core entity types of the study system and the
// validation rules that make an entity well-formed before it ever reaches
// Store.
package domain

import "errors"

// Field-level validation errors shared across entities.
var (
	ErrWordbookNameEmpty = errors.New("wordbook name cannot be empty")
	ErrWordLemmaEmpty    = errors.New("word lemma cannot be empty")
	ErrWordWordbookEmpty = errors.New("word must belong to a wordbook")
	ErrCardTemplateEmpty = errors.New("card template cannot be empty")
	ErrCardWordEmpty     = errors.New("card must belong to a word")
	ErrInvalidCEFR       = errors.New("cefr must be one of A1,A2,B1,B2,C1,C2 or empty")
	ErrInvalidGrade      = errors.New("grade must be one of 0,1,2,3")
	ErrInvalidTemplate   = errors.New("template must be one of basic,reverse,cloze,choice")
)

// validCEFR reports whether level is empty or one of the six CEFR levels.
func validCEFR(level string) bool {
	switch level {
	case "", "A1", "A2", "B1", "B2", "C1", "C2":
		return true
	}
	return false
}

// ValidTemplate reports whether template is one of the card templates §3 allows.
func ValidTemplate(template string) bool {
	switch template {
	case "basic", "reverse", "cloze", "choice":
		return true
	}
	return false
}
