package gdocs

import (
	"context"

	"github.com/codefionn/docsmcp/internal/locate"
	"github.com/codefionn/docsmcp/internal/logger"
	"github.com/codefionn/docsmcp/internal/style"
	"google.golang.org/api/docs/v1"
)

// Result describes a completed (or skipped) edit.
type Result struct {
	DocumentID string
	// Range is the native range the edit applied to, when there is one.
	Range   locate.Range
	Fields  []string
	NoOp    bool
	Replies int
}

// Editor runs one fetch-resolve-mutate cycle per call. Nothing is cached
// between calls: every target is resolved against a fresh fetch.
type Editor struct {
	docs Source[DocumentsAPI]
	exec *Executor
	log  *logger.Logger
}

// NewEditor creates an editor over src.
func NewEditor(src Source[DocumentsAPI], softLimit int) *Editor {
	return &Editor{
		docs: src,
		exec: NewExecutor(src, softLimit),
		log:  logger.Global().WithPrefix("editor"),
	}
}

// Fetch returns the document restricted to fields ("" for everything).
func (e *Editor) Fetch(ctx context.Context, documentID, fields string) (*docs.Document, error) {
	api, err := e.docs.Get(ctx)
	if err != nil {
		return nil, Classify(err, documentID)
	}
	doc, err := api.Get(ctx, documentID, fields)
	if err != nil {
		return nil, Classify(err, documentID)
	}
	return doc, nil
}

// Snapshot fetches just the structure needed to resolve targets.
func (e *Editor) Snapshot(ctx context.Context, documentID string) (*locate.Snapshot, error) {
	doc, err := e.Fetch(ctx, documentID, locate.SnapshotFields)
	if err != nil {
		return nil, err
	}
	snap := locate.FromDocument(doc)
	if snap.DocumentID == "" {
		snap.DocumentID = documentID
	}
	return snap, nil
}

// Create creates an empty document.
func (e *Editor) Create(ctx context.Context, title string) (*docs.Document, error) {
	api, err := e.docs.Get(ctx)
	if err != nil {
		return nil, Classify(err, "")
	}
	doc, err := api.Create(ctx, title)
	if err != nil {
		return nil, Classify(err, "")
	}
	e.log.Info("created document %s", doc.DocumentId)
	return doc, nil
}

// Apply sends reqs as one batch.
func (e *Editor) Apply(ctx context.Context, documentID string, reqs ...*docs.Request) (*Result, error) {
	resp, err := e.exec.Execute(ctx, documentID, reqs)
	if err != nil {
		return nil, err
	}
	return &Result{DocumentID: documentID, Replies: len(resp.Replies), NoOp: len(reqs) == 0}, nil
}

func (e *Editor) snapshotFor(ctx context.Context, documentID string, t locate.Target) (*locate.Snapshot, error) {
	if err := locate.Validate(t); err != nil {
		return nil, err
	}
	if !t.NeedsSnapshot() {
		return nil, nil
	}
	return e.Snapshot(ctx, documentID)
}

// ResolveRange resolves t to a character range in the current document.
func (e *Editor) ResolveRange(ctx context.Context, documentID string, t locate.Target) (locate.Range, error) {
	if _, ok := t.(locate.OffsetTarget); ok {
		// Offsets name paragraphs; reject without fetching.
		return locate.ResolveRange(nil, t)
	}
	snap, err := e.snapshotFor(ctx, documentID, t)
	if err != nil {
		return locate.Range{}, err
	}
	return locate.ResolveRange(snap, t)
}

// ResolveParagraph resolves t to the range of the paragraph it names.
func (e *Editor) ResolveParagraph(ctx context.Context, documentID string, t locate.Target) (locate.Range, error) {
	snap, err := e.snapshotFor(ctx, documentID, t)
	if err != nil {
		return locate.Range{}, err
	}
	return locate.ResolveParagraph(snap, t)
}

// StyleText applies character styling to the range t resolves to. Options
// are validated before anything is fetched; an empty option set is a no-op.
func (e *Editor) StyleText(ctx context.Context, documentID string, t locate.Target, o style.TextOptions) (*Result, error) {
	fields, err := style.CheckText(o)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return &Result{DocumentID: documentID, NoOp: true}, nil
	}
	r, err := e.ResolveRange(ctx, documentID, t)
	if err != nil {
		return nil, err
	}
	change, err := style.TextStyle(r, o)
	if err != nil {
		return nil, err
	}
	return e.applyChange(ctx, documentID, r, change)
}

// StyleParagraph applies paragraph styling to the paragraph t names.
func (e *Editor) StyleParagraph(ctx context.Context, documentID string, t locate.Target, o style.ParagraphOptions) (*Result, error) {
	fields, err := style.CheckParagraph(o)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return &Result{DocumentID: documentID, NoOp: true}, nil
	}
	r, err := e.ResolveParagraph(ctx, documentID, t)
	if err != nil {
		return nil, err
	}
	change, err := style.ParagraphStyle(r, o)
	if err != nil {
		return nil, err
	}
	return e.applyChange(ctx, documentID, r, change)
}

func (e *Editor) applyChange(ctx context.Context, documentID string, r locate.Range, change *style.Change) (*Result, error) {
	if change.NoOp() {
		return &Result{DocumentID: documentID, Range: r, NoOp: true}, nil
	}
	res, err := e.Apply(ctx, documentID, change.Request)
	if err != nil {
		return nil, err
	}
	res.Range = r
	res.Fields = change.Fields
	return res, nil
}

// InsertText inserts text at index.
func (e *Editor) InsertText(ctx context.Context, documentID string, index int64, text string) (*Result, error) {
	req, err := InsertTextRequest(index, text)
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, documentID, req)
}

// AppendText inserts text at the end of the body.
func (e *Editor) AppendText(ctx context.Context, documentID, text string) (*Result, error) {
	req, err := AppendTextRequest(text)
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, documentID, req)
}

// DeleteRange removes r. Empty or inverted ranges fail before any request.
func (e *Editor) DeleteRange(ctx context.Context, documentID string, r locate.Range) (*Result, error) {
	req, err := DeleteRangeRequest(r)
	if err != nil {
		return nil, err
	}
	res, err := e.Apply(ctx, documentID, req)
	if err != nil {
		return nil, err
	}
	res.Range = r
	return res, nil
}

// InsertTable inserts an empty table at index.
func (e *Editor) InsertTable(ctx context.Context, documentID string, index, rows, columns int64) (*Result, error) {
	req, err := InsertTableRequest(index, rows, columns)
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, documentID, req)
}

// InsertPageBreak inserts a page break at index.
func (e *Editor) InsertPageBreak(ctx context.Context, documentID string, index int64) (*Result, error) {
	req, err := InsertPageBreakRequest(index)
	if err != nil {
		return nil, err
	}
	return e.Apply(ctx, documentID, req)
}
