package tools

import (
	"context"

	"github.com/codefionn/docsmcp/internal/drivefs"
)

// NewCommentTools returns the comment tools backed by svc.
func NewCommentTools(svc *drivefs.Service) []Tool {
	docAndComment := func(description string) map[string]interface{} {
		return objectSchema([]string{paramDocumentID, paramCommentID}, map[string]interface{}{
			paramDocumentID: documentIDProp(),
			paramCommentID:  stringProp(description),
		})
	}
	ids := func(params map[string]interface{}) (string, string, error) {
		documentID, err := requireString(params, paramDocumentID)
		if err != nil {
			return "", "", err
		}
		commentID, err := requireString(params, paramCommentID)
		if err != nil {
			return "", "", err
		}
		return documentID, commentID, nil
	}

	return []Tool{
		&funcTool{
			name:        ToolNameListComments,
			description: "List the comment threads on a document with their replies.",
			params: objectSchema([]string{paramDocumentID}, map[string]interface{}{
				paramDocumentID:    documentIDProp(),
				"include_resolved": boolProp("Include resolved threads (default false)"),
			}),
			idParam: paramDocumentID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				documentID, err := requireString(params, paramDocumentID)
				if err != nil {
					return nil, err
				}
				comments, err := svc.ListComments(ctx, documentID, GetBoolParam(params, "include_resolved", false))
				if err != nil {
					return nil, err
				}
				return map[string]interface{}{"comments": comments, "count": len(comments)}, nil
			},
		},
		&funcTool{
			name:        ToolNameGetComment,
			description: "Get one comment thread with its replies.",
			params:      docAndComment("ID of the comment"),
			idParam:     paramDocumentID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				documentID, commentID, err := ids(params)
				if err != nil {
					return nil, err
				}
				return svc.GetComment(ctx, documentID, commentID)
			},
		},
		&funcTool{
			name:        ToolNameAddComment,
			description: "Add a comment to a document, optionally quoting the text it refers to.",
			params: objectSchema([]string{paramDocumentID, "content"}, map[string]interface{}{
				paramDocumentID: documentIDProp(),
				"content":       stringProp("Comment text"),
				"quoted_text":   stringProp("Document text the comment refers to"),
			}),
			idParam: paramDocumentID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				documentID, err := requireString(params, paramDocumentID)
				if err != nil {
					return nil, err
				}
				content, err := requireText(params, "content")
				if err != nil {
					return nil, err
				}
				return svc.AddComment(ctx, documentID, content, GetStringParam(params, "quoted_text", ""))
			},
		},
		&funcTool{
			name:        ToolNameReplyToComment,
			description: "Reply to a comment thread.",
			params: objectSchema([]string{paramDocumentID, paramCommentID, "content"}, map[string]interface{}{
				paramDocumentID: documentIDProp(),
				paramCommentID:  stringProp("ID of the comment to reply to"),
				"content":       stringProp("Reply text"),
			}),
			idParam: paramDocumentID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				documentID, commentID, err := ids(params)
				if err != nil {
					return nil, err
				}
				content, err := requireText(params, "content")
				if err != nil {
					return nil, err
				}
				return svc.ReplyToComment(ctx, documentID, commentID, content)
			},
		},
		&funcTool{
			name:        ToolNameResolveComment,
			description: "Mark a comment thread as resolved, optionally with a closing note.",
			params: objectSchema([]string{paramDocumentID, paramCommentID}, map[string]interface{}{
				paramDocumentID: documentIDProp(),
				paramCommentID:  stringProp("ID of the comment to resolve"),
				"note":          stringProp("Optional closing reply"),
			}),
			idParam: paramDocumentID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				documentID, commentID, err := ids(params)
				if err != nil {
					return nil, err
				}
				return svc.ResolveComment(ctx, documentID, commentID, GetStringParam(params, "note", ""))
			},
		},
		&funcTool{
			name:        ToolNameDeleteComment,
			description: "Delete a comment thread.",
			params:      docAndComment("ID of the comment to delete"),
			idParam:     paramDocumentID,
			run: func(ctx context.Context, params map[string]interface{}) (interface{}, error) {
				documentID, commentID, err := ids(params)
				if err != nil {
					return nil, err
				}
				if err := svc.DeleteComment(ctx, documentID, commentID); err != nil {
					return nil, err
				}
				return map[string]interface{}{"comment_id": commentID, "message": "Comment deleted."}, nil
			},
		},
	}
}
