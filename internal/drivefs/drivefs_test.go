package drivefs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/gdocs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type recorded struct {
	Method string
	Path   string
	Query  map[string]string
	Body   map[string]interface{}
}

// fakeDrive answers Drive REST calls from a table keyed by method and path
// suffix, recording every request.
type fakeDrive struct {
	mu       sync.Mutex
	requests []recorded
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recorded{Method: r.Method, Path: r.URL.Path, Query: map[string]string{}}
	for k := range r.URL.Query() {
		rec.Query[k] = r.URL.Query().Get(k)
	}
	if body, _ := io.ReadAll(r.Body); len(body) > 0 {
		_ = json.Unmarshal(body, &rec.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	for key, h := range f.routes {
		method, suffix, _ := strings.Cut(key, " ")
		if r.Method == method && strings.HasSuffix(r.URL.Path, suffix) {
			h(w, r)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, `{"error":{"code":404,"message":"File not found: nope."}}`)
}

func (f *fakeDrive) calls() []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recorded(nil), f.requests...)
}

func jsonReply(body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}
}

func newTestService(t *testing.T, routes map[string]func(http.ResponseWriter, *http.Request)) (*Service, *fakeDrive) {
	t.Helper()
	fake := &fakeDrive{routes: routes}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	open := OpenDrive(func(context.Context) (*http.Client, error) { return srv.Client(), nil },
		option.WithEndpoint(srv.URL+"/"))
	return New(gdocs.NewLazy(open)), fake
}

func TestListDocuments(t *testing.T) {
	svc, fake := newTestService(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /files": jsonReply(`{"files":[{"id":"d1","name":"Plan","mimeType":"application/vnd.google-apps.document",
			"owners":[{"displayName":"Ada","emailAddress":"ada@example.com"}],"size":"2048"}]}`),
	})

	files, err := svc.ListDocuments(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "d1", files[0].ID)
	assert.Equal(t, []string{"Ada <ada@example.com>"}, files[0].Owners)
	assert.Equal(t, int64(2048), files[0].Size)

	call := fake.calls()[0]
	assert.Contains(t, call.Query["q"], "mimeType='application/vnd.google-apps.document'")
	assert.Contains(t, call.Query["q"], "trashed=false")
	assert.Equal(t, "modifiedTime desc", call.Query["orderBy"])
	assert.Equal(t, "20", call.Query["pageSize"])
}

func TestSearchDocumentsEscapesQuery(t *testing.T) {
	svc, fake := newTestService(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /files": jsonReply(`{"files":[]}`),
	})

	_, err := svc.SearchDocuments(context.Background(), `O'Brien \ notes`, 5)
	require.NoError(t, err)
	q := fake.calls()[0].Query["q"]
	assert.Contains(t, q, `name contains 'O\'Brien \\ notes'`)
	assert.Contains(t, q, `fullText contains 'O\'Brien \\ notes'`)

	_, err = svc.SearchDocuments(context.Background(), "  ", 5)
	assert.Equal(t, docerr.KindInvalidArgument, docerr.KindOf(err))
	assert.Len(t, fake.calls(), 1, "empty query must not reach the API")
}

func TestMoveReplacesParents(t *testing.T) {
	svc, fake := newTestService(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /files/f1":   jsonReply(`{"parents":["p1","p2"]}`),
		"PATCH /files/f1": jsonReply(`{"id":"f1","name":"Plan","parents":["dest"]}`),
	})

	f, err := svc.Move(context.Background(), "f1", "dest")
	require.NoError(t, err)
	assert.Equal(t, []string{"dest"}, f.Parents)

	calls := fake.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "dest", calls[1].Query["addParents"])
	assert.Equal(t, "p1,p2", calls[1].Query["removeParents"])
}

func TestDeleteTrashesByDefault(t *testing.T) {
	svc, fake := newTestService(t, map[string]func(http.ResponseWriter, *http.Request){
		"PATCH /files/f1": jsonReply(`{"id":"f1","trashed":true}`),
		"DELETE /files/f1": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		},
	})
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, "f1", false))
	require.NoError(t, svc.Delete(ctx, "f1", true))

	calls := fake.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPatch, calls[0].Method)
	assert.Equal(t, true, calls[0].Body["trashed"])
	assert.Equal(t, http.MethodDelete, calls[1].Method)
}

func TestMissingFileIsRemoteNotFound(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, err := svc.GetInfo(context.Background(), "nope")
	assert.Equal(t, docerr.KindRemoteNotFound, docerr.KindOf(err))
	assert.Contains(t, err.Error(), "nope")
}

func TestExportDocument(t *testing.T) {
	svc, fake := newTestService(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /files/d1/export": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("mimeType") == MimePlain {
				_, _ = io.WriteString(w, "\ufeffPlan\r\nShip it")
				return
			}
			_, _ = io.WriteString(w, `<html><head><style>.c1{}</style></head><body><h1>Plan</h1><p>Ship <b>it</b></p><p>now</p></body></html>`)
		},
	})
	ctx := context.Background()

	md, err := svc.ExportDocument(ctx, "d1", ExportMarkdown)
	require.NoError(t, err)
	assert.Contains(t, md, "# Plan")
	assert.Contains(t, md, "**it**")

	text, err := svc.ExportDocument(ctx, "d1", ExportText)
	require.NoError(t, err)
	assert.Equal(t, "Plan\r\nShip it", text)

	assert.Equal(t, MimeHTML, fake.calls()[0].Query["mimeType"])
}

func TestParseExportFormat(t *testing.T) {
	for in, want := range map[string]ExportFormat{"": ExportMarkdown, "MD": ExportMarkdown, "text": ExportText, "html": ExportHTML} {
		got, err := ParseExportFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "ParseExportFormat(%q)", in)
	}
	_, err := ParseExportFormat("docx")
	assert.Equal(t, docerr.KindInvalidArgument, docerr.KindOf(err))
}

func TestListCommentsFollowsPages(t *testing.T) {
	svc, fake := newTestService(t, map[string]func(http.ResponseWriter, *http.Request){
		"GET /files/d1/comments": func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("pageToken") == "" {
				_, _ = io.WriteString(w, `{"nextPageToken":"p2","comments":[
					{"id":"c1","content":"typo here","author":{"displayName":"Ada"},"quotedFileContent":{"value":"teh"},
					 "replies":[{"id":"r1","content":"fixed","author":{"displayName":"Bob"}}]}]}`)
				return
			}
			_, _ = io.WriteString(w, `{"comments":[{"id":"c2","content":"old","resolved":true}]}`)
		},
	})
	ctx := context.Background()

	open, err := svc.ListComments(ctx, "d1", false)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, Comment{
		ID: "c1", Author: "Ada", Content: "typo here", Quoted: "teh",
		Replies: []Reply{{ID: "r1", Author: "Bob", Content: "fixed"}},
	}, open[0])

	all, err := svc.ListComments(ctx, "d1", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Len(t, fake.calls(), 4)
}

func TestResolveComment(t *testing.T) {
	svc, fake := newTestService(t, map[string]func(http.ResponseWriter, *http.Request){
		"POST /files/d1/comments/c1/replies": jsonReply(`{"id":"r9","action":"resolve"}`),
	})
	r, err := svc.ResolveComment(context.Background(), "d1", "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "resolve", r.Action)
	assert.Equal(t, "resolve", fake.calls()[0].Body["action"])

	_, err = svc.ReplyToComment(context.Background(), "d1", "c1", " ")
	assert.Equal(t, docerr.KindInvalidArgument, docerr.KindOf(err))
}
