// Package locate turns human-level targets ("the 3rd occurrence of this text",
// "the paragraph around this offset") into native document ranges.
//
// Native offsets are the remote document's own coordinates: 1-based, counted
// in UTF-16 code units, half-open. Nothing in this package talks to the
// network; callers fetch a fresh snapshot for every resolution.
package locate

import (
	"fmt"

	"github.com/codefionn/docsmcp/internal/docerr"
)

// Range is a half-open native offset range [StartIndex, EndIndex).
type Range struct {
	StartIndex int64 `json:"startIndex"`
	EndIndex   int64 `json:"endIndex"`
}

// NewRange constructs a validated, non-empty range.
func NewRange(start, end int64) (Range, error) {
	r := Range{StartIndex: start, EndIndex: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate rejects ranges that are empty, inverted, or start before the
// first addressable offset.
func (r Range) Validate() error {
	if r.StartIndex < 1 {
		return docerr.New(docerr.KindInvalidRange, "start index %d must be at least 1", r.StartIndex)
	}
	if r.EndIndex <= r.StartIndex {
		return docerr.New(docerr.KindInvalidRange, "end index %d must be greater than start index %d", r.EndIndex, r.StartIndex)
	}
	return nil
}

// Len returns the number of native positions covered.
func (r Range) Len() int64 {
	return r.EndIndex - r.StartIndex
}

// Contains reports whether off lies within [StartIndex, EndIndex).
func (r Range) Contains(off int64) bool {
	return r.StartIndex <= off && off < r.EndIndex
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.StartIndex, r.EndIndex)
}
