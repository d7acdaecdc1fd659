package domain

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Word is a vocabulary entry belonging to a Wordbook. (wordbook_id, lemma,
// pos) is unique; lemma is NFC-normalized and non-empty.
type Word struct {
	ID           int               `json:"id"`
	WordbookID   int               `json:"wordbook_id"`
	Lemma        string            `json:"lemma"`
	POS          string            `json:"pos,omitempty"`
	Gender       string            `json:"gender,omitempty"`
	IPA          string            `json:"ipa,omitempty"`
	MeaningText  string            `json:"meaning_text,omitempty"`
	Translations map[string]string `json:"translations,omitempty"`
	Lesson       string            `json:"lesson,omitempty"`
	CEFR         string            `json:"cefr,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// MeaningZH is a legacy alias view: translations["zh-cn"] ?? translations["zh"] ?? meaning_text.
func (w *Word) MeaningZH() string {
	if w.Translations != nil {
		if v, ok := w.Translations["zh-cn"]; ok && v != "" {
			return v
		}
		if v, ok := w.Translations["zh"]; ok && v != "" {
			return v
		}
	}
	return w.MeaningText
}

// HasTag reports whether the word already carries tag.
func (w *Word) HasTag(tag string) bool {
	for _, t := range w.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTagIfMissing adds tag idempotently, preserving existing order.
func (w *Word) AddTagIfMissing(tag string) {
	if !w.HasTag(tag) {
		w.Tags = append(w.Tags, tag)
	}
}

// NormalizedWord is the canonical record produced by the Parser (§4.2),
// ready for Store.UpsertWord / Store.BulkUpsertWords.
type NormalizedWord struct {
	Lemma        string
	POS          string
	Gender       string
	IPA          string
	Translations map[string]string
	MeaningText  string
	Lesson       string
	CEFR         string
	Tags         []string
	Hint         string
}

// Validate normalizes Lemma to NFC and checks the invariants §3 places on
// a Word before it reaches Store.
func (n *NormalizedWord) Validate() error {
	n.Lemma = norm.NFC.String(strings.TrimSpace(n.Lemma))
	if n.Lemma == "" {
		return ErrWordLemmaEmpty
	}
	if !validCEFR(n.CEFR) {
		n.CEFR = ""
	}
	if n.Gender != "m" && n.Gender != "f" {
		n.Gender = ""
	}
	return nil
}
