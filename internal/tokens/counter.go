// Package tokens estimates token counts for prompt budgeting.
package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

// defaultEncoding is used when no model-specific encoding is found.
const defaultEncoding = "cl100k_base"

// Counter estimates the number of model tokens in a text.
type Counter interface {
	Count(text string) int
}

// NewCounter returns a tiktoken-backed counter for the given model, falling
// back to a rune-based heuristic when no encoding can be loaded.
func NewCounter(model string) Counter {
	if model != "" {
		if enc, err := tiktoken.EncodingForModel(model); err == nil {
			return &tiktokenCounter{enc: enc}
		}
	}
	if enc, err := tiktoken.GetEncoding(defaultEncoding); err == nil {
		return &tiktokenCounter{enc: enc}
	}
	return Heuristic{}
}

// tiktokenCounter counts tokens with a BPE encoding.
type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// Count returns the exact token count under the loaded encoding.
func (c *tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// Heuristic approximates tokens as one per four runes, the common
// rule of thumb for English text. Used when no encoding is available
// and in tests.
type Heuristic struct{}

// Count returns the heuristic token count, at least 1 for non-empty text.
func (Heuristic) Count(text string) int {
	runes := len([]rune(text))
	if runes == 0 {
		return 0
	}
	n := runes / 4
	if n == 0 {
		return 1
	}
	return n
}
