// Package tokens provides approximate token counting for prompt budgeting.
//
// Estimates use the cl100k_base encoding when it can be loaded, which is a
// good approximation for all current providers. When the encoding is
// unavailable the estimator degrades to a runes/4 heuristic so that token
// accounting never fails a run.
package tokens

import (
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Estimator maps text to an approximate token count.
type Estimator struct {
	enc *tiktoken.Tiktoken
}

// New creates an Estimator backed by the cl100k_base encoding, falling
// back to the heuristic when the encoding cannot be loaded.
func New() *Estimator {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &Estimator{}
	}
	return &Estimator{enc: enc}
}

// NewHeuristic creates an Estimator that always uses the runes/4
// approximation. Useful where loading an encoding is undesirable.
func NewHeuristic() *Estimator {
	return &Estimator{}
}

// Count returns the approximate number of tokens in s. It never fails;
// the result is 0 only for empty input.
func (e *Estimator) Count(s string) int {
	if s == "" {
		return 0
	}
	if e != nil && e.enc != nil {
		return len(e.enc.Encode(s, nil, nil))
	}
	return heuristicCount(s)
}

// heuristicCount approximates 1 token per 4 runes, with a floor of 1 for
// non-empty text. Rune count handles multi-byte text better than bytes.
func heuristicCount(s string) int {
	n := utf8.RuneCountInString(s) / 4
	if n == 0 {
		n = 1
	}
	return n
}
