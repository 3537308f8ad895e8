package locate

import (
	"unicode/utf16"
)

// utf16Len returns the number of UTF-16 code units needed to encode s.
func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += int64(l)
		} else {
			n++
		}
	}
	return n
}

// MapSpan maps a logical span back to native offsets using the fragment list
// it was collected from.
//
// The start maps through the fragment holding the span's first character
// (cursor <= start < cursor+len); the end maps through the fragment holding
// its last character (cursor < end <= cursor+len), so an end on a fragment
// boundary resolves to that fragment's NativeEnd. A span that crosses from
// one fragment into another whose native ranges are not adjacent fails: the
// native range between them holds structure that is not text.
func MapSpan(frags []Fragment, span LogicalSpan) (Range, bool) {
	if span.Start < 0 || span.End <= span.Start {
		return Range{}, false
	}

	var (
		cursor    int
		startFrag = -1
		endFrag   = -1
		rng       Range
	)
	for i, f := range frags {
		n := len(f.Text)
		if startFrag < 0 && cursor <= span.Start && span.Start < cursor+n {
			rng.StartIndex = f.NativeStart + utf16Len(f.Text[:span.Start-cursor])
			startFrag = i
		}
		if startFrag >= 0 && cursor < span.End && span.End <= cursor+n {
			rng.EndIndex = f.NativeStart + utf16Len(f.Text[:span.End-cursor])
			endFrag = i
			break
		}
		cursor += n
	}
	if startFrag < 0 || endFrag < 0 {
		return Range{}, false
	}
	for i := startFrag; i < endFrag; i++ {
		if frags[i].NativeEnd != frags[i+1].NativeStart {
			return Range{}, false
		}
	}
	if rng.EndIndex <= rng.StartIndex {
		return Range{}, false
	}
	return rng, true
}
