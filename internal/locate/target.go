package locate

import (
	"fmt"

	"github.com/codefionn/docsmcp/internal/docerr"
)

// Target identifies what an edit applies to. Exactly three variants exist:
// RangeTarget, TextTarget and OffsetTarget.
type Target interface {
	fmt.Stringer
	// NeedsSnapshot reports whether resolving the target requires the
	// current document structure.
	NeedsSnapshot() bool
	validate() error
}

// RangeTarget is an explicit native range supplied by the caller.
type RangeTarget struct {
	Range Range
}

// TextTarget is the Instance-th (1-based) occurrence of Text.
type TextTarget struct {
	Text     string
	Instance int
}

// OffsetTarget is a native offset inside the paragraph of interest.
type OffsetTarget struct {
	Index int64
}

func (t RangeTarget) String() string { return "range " + t.Range.String() }
func (t TextTarget) String() string {
	return fmt.Sprintf("instance %d of %q", t.Instance, t.Text)
}
func (t OffsetTarget) String() string { return fmt.Sprintf("index %d", t.Index) }

func (RangeTarget) NeedsSnapshot() bool  { return false }
func (TextTarget) NeedsSnapshot() bool   { return true }
func (OffsetTarget) NeedsSnapshot() bool { return true }

func (t RangeTarget) validate() error { return t.Range.Validate() }

func (t TextTarget) validate() error {
	if t.Text == "" {
		return docerr.New(docerr.KindInvalidArgument, "text to find must not be empty")
	}
	if t.Instance < 1 {
		return docerr.New(docerr.KindInvalidArgument, "match instance must be at least 1, got %d", t.Instance)
	}
	return nil
}

func (t OffsetTarget) validate() error {
	if t.Index < 1 {
		return docerr.New(docerr.KindInvalidRange, "index %d must be at least 1", t.Index)
	}
	return nil
}

// Validate checks a target's shape without consulting any document.
func Validate(t Target) error {
	if t == nil {
		return docerr.New(docerr.KindInvalidArgument, "no target given")
	}
	return t.validate()
}

// FindText locates the instance-th occurrence of search in frags.Logical
// and maps it to native offsets. Every occurrence before the requested one
// counts toward instance, mappable or not. Only when the occurrence that
// reaches instance cannot be mapped is it uncounted, and the scan retries
// one character after its start. Different instances can therefore resolve
// to the same range.
func FindText(frags Fragments, search string, instance int) (Range, bool) {
	if search == "" || instance < 1 {
		return Range{}, false
	}
	from := 0
	count := 0
	for {
		m, ok := nextMatch(frags.Logical, search, from)
		if !ok {
			return Range{}, false
		}
		count++
		if count == instance {
			if r, ok := MapSpan(frags.List, m); ok {
				return r, true
			}
			count--
		}
		from = resumeAfter(frags.Logical, m)
	}
}

// ResolveRange resolves a target to the character range an edit applies to.
// snap may be nil for targets that do not need a snapshot.
func ResolveRange(snap *Snapshot, t Target) (Range, error) {
	if err := Validate(t); err != nil {
		return Range{}, err
	}
	switch t := t.(type) {
	case RangeTarget:
		return t.Range, nil
	case TextTarget:
		return resolveText(snap, t)
	case OffsetTarget:
		return Range{}, docerr.New(docerr.KindInvalidArgument, "%s identifies a paragraph, not a text range", t)
	default:
		panic(fmt.Sprintf("locate: unhandled target %T", t))
	}
}

// ResolveParagraph resolves a target to the range of the paragraph it names.
// An explicit range is returned unchanged; text and offset targets resolve
// to the innermost enclosing paragraph.
func ResolveParagraph(snap *Snapshot, t Target) (Range, error) {
	if err := Validate(t); err != nil {
		return Range{}, err
	}
	switch t := t.(type) {
	case RangeTarget:
		return t.Range, nil
	case TextTarget:
		r, err := resolveText(snap, t)
		if err != nil {
			return Range{}, err
		}
		return paragraphAt(snap, r.StartIndex, t)
	case OffsetTarget:
		return paragraphAt(snap, t.Index, t)
	default:
		panic(fmt.Sprintf("locate: unhandled target %T", t))
	}
}

func resolveText(snap *Snapshot, t TextTarget) (Range, error) {
	if snap == nil {
		return Range{}, docerr.New(docerr.KindNotFound, "could not find %s: document has no content", t)
	}
	r, ok := FindText(CollectSnapshot(snap), t.Text, t.Instance)
	if !ok {
		return Range{}, docerr.New(docerr.KindNotFound, "could not find %s", t).WithDocument(snap.DocumentID)
	}
	return r, nil
}

func paragraphAt(snap *Snapshot, off int64, t Target) (Range, error) {
	if snap == nil {
		return Range{}, docerr.New(docerr.KindNotFound, "no paragraph contains %s", t)
	}
	r, ok := ParagraphAt(snap.Content, off)
	if !ok {
		return Range{}, docerr.New(docerr.KindNotFound, "no paragraph contains index %d (from %s)", off, t).WithDocument(snap.DocumentID)
	}
	return r, nil
}
