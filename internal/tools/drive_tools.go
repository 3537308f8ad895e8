package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/codefionn/docsmcp/internal/drivefs"
	"github.com/codefionn/docsmcp/internal/gdocs"
)

// funcTool adapts a closure to Tool. The Drive and comment tools are thin
// pass-throughs and share this shape.
type funcTool struct {
	name        string
	description string
	params      map[string]interface{}
	// idParam names the parameter reported as the document in metadata.
	idParam string
	run     func(ctx context.Context, params map[string]interface{}) (interface{}, error)
}

func (t *funcTool) Name() string                       { return t.name }
func (t *funcTool) Description() string                { return t.description }
func (t *funcTool) Parameters() map[string]interface{} { return t.params }

func (t *funcTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	var id string
	if t.idParam != "" {
		id = GetStringParam(params, t.idParam, "")
	}
	out, err := t.run(ctx, params)
	if err != nil {
		return errorResult(t.name, err, id)
	}
	return &ToolResult{Result: out, ExecutionMetadata: &ExecutionMetadata{DocumentID: id}}
}

func limitParam(params map[string]interface{}) (int, error) {
	n, _, err := optionalInt(params, paramLimit)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, invalidParam("%s must not be negative", paramLimit)
	}
	return int(n), nil
}

func fileList(files []drivefs.File) map[string]interface{} {
	return map[string]interface{}{"files": files, "count": len(files)}
}

func limitProp() map[string]interface{} {
	return integerProp(fmt.Sprintf("Maximum number of results (default %d)", drivefs.DefaultPageSize), 1)
}

// NewDriveTools returns the file-management tools backed by svc.
func NewDriveTools(svc *drivefs.Service) []Tool {
	return []Tool{
		&funcTool{
			name:        ToolNameListDocuments,
			description: "List Google Docs in the user's Drive, most recently modified first.",
			params:      objectSchema(nil, map[string]interface{}{paramLimit: limitProp()}),
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				limit, err := limitParam(params)
				if err != nil {
					return nil, err
				}
				files, err := svc.ListDocuments(ctx, limit)
				if err != nil {
					return nil, err
				}
				return fileList(files), nil
			},
		},
		&funcTool{
			name:        ToolNameSearchDocuments,
			description: "Search Google Docs by name or content.",
			params: objectSchema([]string{"query"}, map[string]interface{}{
				"query":    stringProp("Text to search for in document names and content"),
				paramLimit: limitProp(),
			}),
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				query, err := requireString(params, "query")
				if err != nil {
					return nil, err
				}
				limit, err := limitParam(params)
				if err != nil {
					return nil, err
				}
				files, err := svc.SearchDocuments(ctx, query, limit)
				if err != nil {
					return nil, err
				}
				return fileList(files), nil
			},
		},
		&funcTool{
			name:        ToolNameGetDocumentInfo,
			description: "Get Drive metadata (name, owners, parents, timestamps, link) for a document or file.",
			params: objectSchema([]string{paramDocumentID}, map[string]interface{}{
				paramDocumentID: documentIDProp(),
			}),
			idParam: paramDocumentID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				id, err := requireString(params, paramDocumentID)
				if err != nil {
					return nil, err
				}
				return svc.GetInfo(ctx, id)
			},
		},
		&funcTool{
			name:        ToolNameCreateFolder,
			description: "Create a Drive folder, optionally inside another folder.",
			params: objectSchema([]string{"name"}, map[string]interface{}{
				"name":             stringProp("Folder name"),
				"parent_folder_id": stringProp("Parent folder ID (default My Drive)"),
			}),
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				name, err := requireString(params, "name")
				if err != nil {
					return nil, err
				}
				return svc.CreateFolder(ctx, name, GetStringParam(params, "parent_folder_id", ""))
			},
		},
		&funcTool{
			name:        ToolNameListFolderContents,
			description: "List the files and folders inside a Drive folder.",
			params: objectSchema(nil, map[string]interface{}{
				paramFolderID: stringProp("Folder ID (default \"root\", i.e. My Drive)"),
				paramLimit:    limitProp(),
			}),
			idParam: paramFolderID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				limit, err := limitParam(params)
				if err != nil {
					return nil, err
				}
				files, err := svc.ListFolder(ctx, strings.TrimSpace(GetStringParam(params, paramFolderID, "")), limit)
				if err != nil {
					return nil, err
				}
				return fileList(files), nil
			},
		},
		&funcTool{
			name:        ToolNameMoveFile,
			description: "Move a file into a folder, removing it from its current folders.",
			params: objectSchema([]string{paramFileID, paramFolderID}, map[string]interface{}{
				paramFileID:   stringProp("ID of the file to move"),
				paramFolderID: stringProp("Destination folder ID"),
			}),
			idParam: paramFileID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				fileID, err := requireString(params, paramFileID)
				if err != nil {
					return nil, err
				}
				folderID, err := requireString(params, paramFolderID)
				if err != nil {
					return nil, err
				}
				return svc.Move(ctx, fileID, folderID)
			},
		},
		&funcTool{
			name:        ToolNameCopyFile,
			description: "Copy a file, optionally under a new name or into another folder.",
			params: objectSchema([]string{paramFileID}, map[string]interface{}{
				paramFileID:   stringProp("ID of the file to copy"),
				"name":        stringProp("Name of the copy (default \"Copy of ...\")"),
				paramFolderID: stringProp("Folder for the copy (default: same as the original)"),
			}),
			idParam: paramFileID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				fileID, err := requireString(params, paramFileID)
				if err != nil {
					return nil, err
				}
				return svc.Copy(ctx, fileID, GetStringParam(params, "name", ""), GetStringParam(params, paramFolderID, ""))
			},
		},
		&funcTool{
			name:        ToolNameRenameFile,
			description: "Rename a file or folder.",
			params: objectSchema([]string{paramFileID, "name"}, map[string]interface{}{
				paramFileID: stringProp("ID of the file to rename"),
				"name":      stringProp("New name"),
			}),
			idParam: paramFileID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				fileID, err := requireString(params, paramFileID)
				if err != nil {
					return nil, err
				}
				name, err := requireString(params, "name")
				if err != nil {
					return nil, err
				}
				return svc.Rename(ctx, fileID, name)
			},
		},
		&funcTool{
			name:        ToolNameDeleteFile,
			description: "Move a file to the trash, or delete it permanently with permanent=true.",
			params: objectSchema([]string{paramFileID}, map[string]interface{}{
				paramFileID: stringProp("ID of the file to delete"),
				"permanent": boolProp("Skip the trash and delete for good (default false)"),
			}),
			idParam: paramFileID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				fileID, err := requireString(params, paramFileID)
				if err != nil {
					return nil, err
				}
				permanent := GetBoolParam(params, "permanent", false)
				if err := svc.Delete(ctx, fileID, permanent); err != nil {
					return nil, err
				}
				action := "Moved to trash"
				if permanent {
					action = "Permanently deleted"
				}
				return map[string]interface{}{"file_id": fileID, "message": action + "."}, nil
			},
		},
		&funcTool{
			name:        ToolNameExportDocument,
			description: "Export a document through Drive as Markdown (default), plain text or HTML.",
			params: objectSchema([]string{paramDocumentID}, map[string]interface{}{
				paramDocumentID: documentIDProp(),
				"format":        enumProp("Export format", []string{"markdown", "text", "html"}),
			}),
			idParam: paramDocumentID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				id, err := requireString(params, paramDocumentID)
				if err != nil {
					return nil, err
				}
				format, err := drivefs.ParseExportFormat(GetStringParam(params, "format", ""))
				if err != nil {
					return nil, err
				}
				content, err := svc.ExportDocument(ctx, id, format)
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"document_id": id, "format": string(format), "content": content}, nil
			},
		},
	}
}

// CreateDocumentTool creates a document and optionally fills and files it.
type CreateDocumentTool struct {
	editor *gdocs.Editor
	drive  *drivefs.Service
}

func NewCreateDocumentTool(editor *gdocs.Editor, drive *drivefs.Service) *CreateDocumentTool {
	return &CreateDocumentTool{editor: editor, drive: drive}
}

func (t *CreateDocumentTool) Name() string { return ToolNameCreateDocument }

func (t *CreateDocumentTool) Description() string {
	return "Create a new Google Doc, optionally with initial text and inside a folder."
}

func (t *CreateDocumentTool) Parameters() map[string]interface{} {
	return objectSchema([]string{"title"}, map[string]interface{}{
		"title":           stringProp("Document title"),
		"initial_content": stringProp("Text to put in the new document"),
		paramFolderID:     stringProp("Folder to create the document in (default My Drive)"),
	})
}

func (t *CreateDocumentTool) Execute(ctx context.Context, params map[string]interface{}) *ToolResult {
	title, err := requireString(params, "title")
	if err != nil {
		return errorResult(t.Name(), err, "")
	}
	content := GetStringParam(params, "initial_content", "")
	folderID := strings.TrimSpace(GetStringParam(params, paramFolderID, ""))

	doc, err := t.editor.Create(ctx, title)
	if err != nil {
		return errorResult(t.Name(), err, "")
	}
	id := doc.DocumentId
	out := map[string]interface{}{
		"document_id": id,
		"title":       doc.Title,
		"url":         "https://docs.google.com/document/d/" + id + "/edit",
	}

	if content != "" {
		if _, err := t.editor.AppendText(ctx, id, content); err != nil {
			return errorResult(t.Name(), fmt.Errorf("document %s was created but adding its content failed: %w", id, err), id)
		}
	}
	if folderID != "" {
		if _, err := t.drive.Move(ctx, id, folderID); err != nil {
			return errorResult(t.Name(), fmt.Errorf("document %s was created but moving it to folder %s failed: %w", id, folderID, err), id)
		}
		out["folder_id"] = folderID
	}
	return &ToolResult{Result: out, ExecutionMetadata: &ExecutionMetadata{DocumentID: id}}
}
