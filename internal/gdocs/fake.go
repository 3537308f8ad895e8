package gdocs

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"unicode/utf16"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
)

// Batch is one BatchUpdate call recorded by FakeDocuments.
type Batch struct {
	DocumentID string
	Requests   []*docs.Request
}

// FetchCall is one Get call recorded by FakeDocuments.
type FetchCall struct {
	DocumentID string
	Fields     string
}

// FakeDocuments is an in-memory DocumentsAPI for tests. It serves canned
// documents, records every call and never applies edits.
type FakeDocuments struct {
	mu sync.Mutex

	docs    map[string]*docs.Document
	fetches []FetchCall
	batches []Batch
	created int

	// GetErr, BatchErr and CreateErr, when set, are returned by the
	// corresponding call.
	GetErr    error
	BatchErr  error
	CreateErr error
}

// NewFakeDocuments serves the given documents by their DocumentId.
func NewFakeDocuments(documents ...*docs.Document) *FakeDocuments {
	f := &FakeDocuments{docs: make(map[string]*docs.Document)}
	for _, d := range documents {
		f.docs[d.DocumentId] = d
	}
	return f
}

func (f *FakeDocuments) Get(_ context.Context, documentID, fields string) (*docs.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, FetchCall{DocumentID: documentID, Fields: fields})
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	d, ok := f.docs[documentID]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusNotFound, Message: "Requested entity was not found."}
	}
	return d, nil
}

func (f *FakeDocuments) BatchUpdate(_ context.Context, documentID string, req *docs.BatchUpdateDocumentRequest) (*docs.BatchUpdateDocumentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, Batch{DocumentID: documentID, Requests: req.Requests})
	if f.BatchErr != nil {
		return nil, f.BatchErr
	}
	replies := make([]*docs.Response, len(req.Requests))
	for i := range replies {
		replies[i] = &docs.Response{}
	}
	return &docs.BatchUpdateDocumentResponse{DocumentId: documentID, Replies: replies}, nil
}

func (f *FakeDocuments) Create(_ context.Context, title string) (*docs.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.created++
	d := TextDocument(fmt.Sprintf("created-%d", f.created))
	d.Title = title
	f.docs[d.DocumentId] = d
	return d, nil
}

// Fetches returns the recorded Get calls.
func (f *FakeDocuments) Fetches() []FetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FetchCall(nil), f.fetches...)
}

// Batches returns the recorded BatchUpdate calls.
func (f *FakeDocuments) Batches() []Batch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Batch(nil), f.batches...)
}

// LastRequests returns the requests of the most recent batch, or nil.
func (f *FakeDocuments) LastRequests() []*docs.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.batches) == 0 {
		return nil
	}
	return f.batches[len(f.batches)-1].Requests
}

// TextDocument builds a document whose body holds one paragraph per
// argument, laid out the way the service does it: a section break at 0,
// then each paragraph as a single run terminated by "\n".
func TextDocument(documentID string, paragraphs ...string) *docs.Document {
	content := []*docs.StructuralElement{{EndIndex: 1, SectionBreak: &docs.SectionBreak{}}}
	next := int64(1)
	for _, p := range paragraphs {
		el, end := paragraphElement(next, p+"\n")
		content = append(content, el)
		next = end
	}
	return &docs.Document{DocumentId: documentID, Title: documentID, Body: &docs.Body{Content: content}}
}

func paragraphElement(start int64, text string) (*docs.StructuralElement, int64) {
	end := start + int64(len(utf16.Encode([]rune(text))))
	return &docs.StructuralElement{
		StartIndex: start,
		EndIndex:   end,
		Paragraph: &docs.Paragraph{
			Elements: []*docs.ParagraphElement{{
				StartIndex: start,
				EndIndex:   end,
				TextRun:    &docs.TextRun{Content: text},
			}},
		},
	}, end
}
