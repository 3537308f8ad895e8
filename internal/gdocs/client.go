// Package gdocs is the boundary to the remote document service: the client
// interface, its Google implementation, the batch executor and the editor
// that resolves targets against a freshly fetched document.
package gdocs

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DocumentsAPI is the subset of the document service the editor relies on.
type DocumentsAPI interface {
	// Get fetches a document. fields is a partial-response mask; empty
	// fetches everything.
	Get(ctx context.Context, documentID, fields string) (*docs.Document, error)
	BatchUpdate(ctx context.Context, documentID string, req *docs.BatchUpdateDocumentRequest) (*docs.BatchUpdateDocumentResponse, error)
	Create(ctx context.Context, title string) (*docs.Document, error)
}

type googleDocuments struct {
	svc *docs.Service
}

// NewDocuments wraps a docs.Service.
func NewDocuments(svc *docs.Service) DocumentsAPI {
	return &googleDocuments{svc: svc}
}

func (g *googleDocuments) Get(ctx context.Context, documentID, fields string) (*docs.Document, error) {
	call := g.svc.Documents.Get(documentID)
	if fields != "" {
		call = call.Fields(googleapi.Field(fields))
	}
	return call.Context(ctx).Do()
}

func (g *googleDocuments) BatchUpdate(ctx context.Context, documentID string, req *docs.BatchUpdateDocumentRequest) (*docs.BatchUpdateDocumentResponse, error) {
	return g.svc.Documents.BatchUpdate(documentID, req).Context(ctx).Do()
}

func (g *googleDocuments) Create(ctx context.Context, title string) (*docs.Document, error) {
	return g.svc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
}

// Source yields a client for one call.
type Source[T any] interface {
	Get(ctx context.Context) (T, error)
}

// Lazy opens its value on first use and hands the same value to every later
// caller. A failed open is not cached; the next call tries again.
type Lazy[T any] struct {
	mu     sync.Mutex
	open   func(ctx context.Context) (T, error)
	value  T
	opened bool
}

// NewLazy returns a Lazy that calls open at most once successfully.
func NewLazy[T any](open func(ctx context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{open: open}
}

// Get initializes or reuses the value.
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.opened {
		return l.value, nil
	}
	v, err := l.open(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	l.value = v
	l.opened = true
	return v, nil
}

type ready[T any] struct{ v T }

func (r ready[T]) Get(context.Context) (T, error) { return r.v, nil }

// Ready wraps an already constructed value.
func Ready[T any](v T) Source[T] {
	return ready[T]{v: v}
}

// HTTPClientFunc produces the authenticated HTTP client used by the Google
// services.
type HTTPClientFunc func(ctx context.Context) (*http.Client, error)

// OpenDocuments returns an opener suitable for NewLazy that builds the
// Google Docs client from an authenticated HTTP client.
func OpenDocuments(httpClient HTTPClientFunc, opts ...option.ClientOption) func(context.Context) (DocumentsAPI, error) {
	return func(ctx context.Context) (DocumentsAPI, error) {
		hc, err := httpClient(ctx)
		if err != nil {
			return nil, err
		}
		all := append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)
		svc, err := docs.NewService(ctx, all...)
		if err != nil {
			return nil, fmt.Errorf("failed to create docs service: %w", err)
		}
		return NewDocuments(svc), nil
	}
}
