package locate

import (
	"fmt"
	"strings"
)

// Fragment is one contiguous run of text with its native range. For every
// fragment NativeEnd-NativeStart equals the UTF-16 length of Text.
type Fragment struct {
	Text        string
	NativeStart int64
	NativeEnd   int64
}

// Fragments is an ordered fragment list together with the logical string
// formed by concatenating the fragment texts.
type Fragments struct {
	List    []Fragment
	Logical string
}

// Collect walks content in document order and returns its text fragments.
// Table cells are visited row by row, left to right, recursing into nested
// tables. Elements without text contribute nothing.
func Collect(content []Element) Fragments {
	var (
		list []Fragment
		sb   strings.Builder
	)
	var walk func([]Element)
	walk = func(elems []Element) {
		for _, el := range elems {
			switch e := el.(type) {
			case *Paragraph:
				for _, run := range e.Runs {
					if run.Text == "" || run.Span.End <= run.Span.Start {
						continue
					}
					list = append(list, Fragment{
						Text:        run.Text,
						NativeStart: run.Span.Start,
						NativeEnd:   run.Span.End,
					})
					sb.WriteString(run.Text)
				}
			case *Table:
				for _, row := range e.Rows {
					for _, cell := range row {
						walk(cell.Content)
					}
				}
			case *Other:
			default:
				panic(fmt.Sprintf("locate: unhandled element %T", el))
			}
		}
	}
	walk(content)
	return Fragments{List: list, Logical: sb.String()}
}

// CollectSnapshot is Collect over a whole snapshot.
func CollectSnapshot(snap *Snapshot) Fragments {
	if snap == nil {
		return Fragments{}
	}
	return Collect(snap.Content)
}
