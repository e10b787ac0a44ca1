// Package token counts model input tokens for segmentation budgeting.
//
// Segmentation treats a Counter as a pure, deterministic, possibly expensive
// function. Counts must be monotonic under concatenation: counting two texts
// joined together is never less than counting either alone (tokenizers may
// add boundary tokens, so equality is not assumed).
package token

import (
	"fmt"
	"strings"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter reports the token count of a text under a specific tokenizer.
// lang is the backend language tag; tokenizers that are language-agnostic
// may ignore it.
type Counter interface {
	Count(text, lang string) int
}

// estimatorCharsPerToken is the conservative chars-per-token ratio used by
// the heuristic estimator. Three keeps the estimate high for accented text.
const estimatorCharsPerToken = 3

// Estimator is a zero-dependency heuristic Counter.
//
// It estimates one token per estimatorCharsPerToken characters, with a floor
// of one token per whitespace-separated word so short word-dense inputs are
// not undercounted.
type Estimator struct{}

// Count returns the estimated token count for text. lang is ignored.
// Blank input counts zero: surrounding whitespace carries no tokens.
func (Estimator) Count(text, _ string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	byChars := len(trimmed) / estimatorCharsPerToken
	byWords := len(strings.Fields(trimmed))
	return max(byChars, byWords)
}

// DefaultEncoding is the BPE encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// Tiktoken is a Counter backed by a real BPE tokenizer.
type Tiktoken struct {
	enc *tiktoken.Tiktoken
}

// NewTiktoken loads the named BPE encoding. Empty name selects DefaultEncoding.
func NewTiktoken(encoding string) (*Tiktoken, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", encoding, err)
	}
	return &Tiktoken{enc: enc}, nil
}

// Count returns the exact BPE token count for text. lang is ignored: the
// encoding is shared across source languages.
func (t *Tiktoken) Count(text, _ string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}
