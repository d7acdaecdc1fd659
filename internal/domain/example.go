package domain

import "time"

// Example is a cached example sentence attached to a Card. Nothing in this
// repository generates Example rows (example-sentence generation is out of
// scope); the type and its Store operations exist so an external generator
// can attach sentences later without a schema change.
type Example struct {
	ID            int       `json:"id"`
	CardID        int       `json:"card_id"`
	TextFr        string    `json:"text_fr"`
	TranslationZh string    `json:"translation_zh"`
	Source        string    `json:"source,omitempty"`
	AudioURI      string    `json:"audio_uri,omitempty"`
	CEFR          string    `json:"cefr,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
