package locate

import (
	"strings"
	"unicode/utf8"
)

// LogicalSpan is a half-open byte range within a logical string.
type LogicalSpan struct {
	Start int
	End   int
}

// nextMatch returns the first occurrence of search in logical at or after
// from, or ok=false.
func nextMatch(logical, search string, from int) (LogicalSpan, bool) {
	if search == "" || from > len(logical) {
		return LogicalSpan{}, false
	}
	i := strings.Index(logical[from:], search)
	if i < 0 {
		return LogicalSpan{}, false
	}
	start := from + i
	return LogicalSpan{Start: start, End: start + len(search)}, true
}

// resumeAfter returns the scan position one character past the start of m.
func resumeAfter(logical string, m LogicalSpan) int {
	_, size := utf8.DecodeRuneInString(logical[m.Start:])
	if size == 0 {
		size = 1
	}
	return m.Start + size
}

// FindOccurrence returns the span of the n-th (1-based) occurrence of search
// in logical. Matching is exact and case-sensitive. Each scan resumes one
// character after the previous match's start, so a match is found wherever
// a naive repeated index scan would find it. Returns ok=false when search is
// empty, n < 1, or fewer than n occurrences exist.
func FindOccurrence(logical, search string, n int) (LogicalSpan, bool) {
	if n < 1 {
		return LogicalSpan{}, false
	}
	from := 0
	for count := 0; ; {
		m, ok := nextMatch(logical, search, from)
		if !ok {
			return LogicalSpan{}, false
		}
		count++
		if count == n {
			return m, true
		}
		from = resumeAfter(logical, m)
	}
}

// CountOccurrences reports how many occurrences FindOccurrence can address.
func CountOccurrences(logical, search string) int {
	count := 0
	from := 0
	for {
		m, ok := nextMatch(logical, search, from)
		if !ok {
			return count
		}
		count++
		from = resumeAfter(logical, m)
	}
}
