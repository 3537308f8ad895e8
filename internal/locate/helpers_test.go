package locate

import "unicode/utf16"

// para builds a paragraph whose runs are laid out contiguously from start.
func para(start int64, texts ...string) *Paragraph {
	p := &Paragraph{Bounds: Span{Start: start, End: start}}
	off := start
	for _, t := range texts {
		n := int64(len(utf16.Encode([]rune(t))))
		p.Runs = append(p.Runs, Run{Span: Span{Start: off, End: off + n}, Text: t})
		off += n
	}
	p.Bounds.End = off
	return p
}

// nativeText reads back the text covered by r from the fragment list.
// Only valid for ASCII fixtures.
func nativeText(frags []Fragment, r Range) string {
	var out []byte
	for _, f := range frags {
		for i := 0; i < len(f.Text); i++ {
			off := f.NativeStart + int64(i)
			if r.Contains(off) {
				out = append(out, f.Text[i])
			}
		}
	}
	return string(out)
}
