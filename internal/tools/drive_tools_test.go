package tools

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/codefionn/docsmcp/internal/drivefs"
	"github.com/codefionn/docsmcp/internal/gdocs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type driveLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *driveLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, r.Method+" "+r.URL.Path)
}

func (l *driveLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func newDriveRegistry(t *testing.T) (*Registry, *gdocs.FakeDocuments, *driveLog) {
	t.Helper()
	log := &driveLog{}
	mux := http.NewServeMux()
	reply := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			log.add(r)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, body)
		}
	}
	mux.HandleFunc("GET /files", reply(`{"files":[{"id":"d1","name":"Plan","mimeType":"application/vnd.google-apps.document"}]}`))
	mux.HandleFunc("GET /files/created-1", reply(`{"parents":["root-folder"]}`))
	mux.HandleFunc("PATCH /files/created-1", reply(`{"id":"created-1","name":"Notes","parents":["folder-9"]}`))
	mux.HandleFunc("DELETE /files/gone", func(w http.ResponseWriter, r *http.Request) {
		log.add(r)
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	open := drivefs.OpenDrive(func(context.Context) (*http.Client, error) { return srv.Client(), nil },
		option.WithEndpoint(srv.URL+"/"))
	fake := gdocs.NewFakeDocuments()
	editor := gdocs.NewEditor(gdocs.Ready[gdocs.DocumentsAPI](fake), 0)
	reg := NewDocsRegistry(Deps{Editor: editor, Drive: drivefs.New(gdocs.NewLazy(open))})
	return reg, fake, log
}

func TestCreateDocumentWithContentAndFolder(t *testing.T) {
	reg, fake, log := newDriveRegistry(t)

	out := resultMap(t, run(t, reg, ToolNameCreateDocument, map[string]interface{}{
		"title":           "Notes",
		"initial_content": "Hello",
		paramFolderID:     "folder-9",
	}))
	assert.Equal(t, "created-1", out["document_id"])
	assert.Equal(t, "folder-9", out["folder_id"])
	assert.Contains(t, out["url"], "/document/d/created-1/")

	reqs := fake.LastRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Hello", reqs[0].InsertText.Text)
	assert.Equal(t, []string{"GET /files/created-1", "PATCH /files/created-1"}, log.all())
}

func TestCreateDocumentRequiresTitle(t *testing.T) {
	reg, fake, log := newDriveRegistry(t)
	res := run(t, reg, ToolNameCreateDocument, map[string]interface{}{"title": "  "})
	assert.Equal(t, "INVALID_ARGUMENT", errorKind(res))
	assert.Empty(t, fake.Batches())
	assert.Empty(t, log.all())
}

func TestListDocumentsTool(t *testing.T) {
	reg, _, _ := newDriveRegistry(t)

	out := resultMap(t, run(t, reg, ToolNameListDocuments, map[string]interface{}{paramLimit: float64(5)}))
	assert.Equal(t, 1, out["count"])
	files := out["files"].([]drivefs.File)
	assert.Equal(t, "Plan", files[0].Name)
}

func TestDeleteFileTool(t *testing.T) {
	reg, _, log := newDriveRegistry(t)

	out := resultMap(t, run(t, reg, ToolNameDeleteFile, map[string]interface{}{paramFileID: "gone", "permanent": true}))
	assert.Equal(t, "Permanently deleted.", out["message"])
	assert.Equal(t, []string{"DELETE /files/gone"}, log.all())

	res := run(t, reg, ToolNameDeleteFile, map[string]interface{}{paramFileID: "missing"})
	assert.Equal(t, "REMOTE_NOT_FOUND", errorKind(res))
	assert.Equal(t, "missing", res.ExecutionMetadata.DocumentID)
}

func TestDriveToolsValidateBeforeNetwork(t *testing.T) {
	tests := []struct {
		tool   string
		params map[string]interface{}
	}{
		{ToolNameSearchDocuments, map[string]interface{}{"query": ""}},
		{ToolNameListDocuments, map[string]interface{}{paramLimit: float64(-2)}},
		{ToolNameMoveFile, map[string]interface{}{paramFileID: "a"}},
		{ToolNameRenameFile, map[string]interface{}{paramFileID: "a", "name": " "}},
		{ToolNameExportDocument, map[string]interface{}{paramDocumentID: "a", "format": "pdf"}},
		{ToolNameAddComment, map[string]interface{}{paramDocumentID: "a"}},
		{ToolNameReplyToComment, map[string]interface{}{paramDocumentID: "a", "content": "hi"}},
		{ToolNameGetComment, map[string]interface{}{paramCommentID: "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			reg, _, log := newDriveRegistry(t)
			res := run(t, reg, tt.tool, tt.params)
			assert.Equal(t, "INVALID_ARGUMENT", errorKind(res), res.Error)
			assert.Empty(t, log.all())
		})
	}
}

func TestDriveRegistryListsEveryTool(t *testing.T) {
	reg, _, _ := newDriveRegistry(t)
	var names []string
	for _, spec := range reg.ListSpecs() {
		names = append(names, spec.Name())
	}
	for _, want := range []string{
		ToolNameReadDocument, ToolNameAppendText, ToolNameInsertText, ToolNameDeleteRange,
		ToolNameApplyTextStyle, ToolNameApplyParagraphStyle, ToolNameInsertTable, ToolNameInsertPageBreak,
		ToolNameFindElement, ToolNameFixListFormatting, ToolNameExportDocument,
		ToolNameListDocuments, ToolNameSearchDocuments, ToolNameGetDocumentInfo, ToolNameCreateDocument,
		ToolNameCreateFolder, ToolNameListFolderContents, ToolNameMoveFile, ToolNameCopyFile,
		ToolNameRenameFile, ToolNameDeleteFile,
		ToolNameListComments, ToolNameGetComment, ToolNameAddComment, ToolNameReplyToComment,
		ToolNameResolveComment, ToolNameDeleteComment,
	} {
		assert.Contains(t, names, want)
	}
	assert.Len(t, names, 27)
}
