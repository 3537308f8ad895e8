package tools

import (
	"github.com/codefionn/docsmcp/internal/drivefs"
	"github.com/codefionn/docsmcp/internal/gdocs"
)

// Deps carries what the tools need at runtime.
type Deps struct {
	Editor *gdocs.Editor
	Drive  *drivefs.Service
	// MaxLength is the default read_document truncation; 0 disables it.
	MaxLength int
	ReadOnly  bool
}

// NewDocsRegistry builds a registry with every document, Drive and comment
// tool. Drive-backed tools are skipped when deps.Drive is nil.
func NewDocsRegistry(deps Deps) *Registry {
	var authorizer Authorizer
	if deps.ReadOnly {
		authorizer = ReadOnlyAuthorizer{}
	}
	reg := NewRegistry(authorizer)

	reg.RegisterSpec(&ReadDocumentSpec{}, NewReadDocumentFactory(deps.Editor, deps.MaxLength))
	for _, t := range []Tool{
		NewAppendTextTool(deps.Editor),
		NewInsertTextTool(deps.Editor),
		NewDeleteRangeTool(deps.Editor),
		NewApplyTextStyleTool(deps.Editor),
		NewApplyParagraphStyleTool(deps.Editor),
		NewInsertTableTool(deps.Editor),
		NewInsertPageBreakTool(deps.Editor),
		NewFindElementTool(),
		NewFixListFormattingTool(),
	} {
		reg.Register(t)
	}

	if deps.Drive != nil {
		reg.Register(NewCreateDocumentTool(deps.Editor, deps.Drive))
		for _, t := range NewDriveTools(deps.Drive) {
			reg.Register(t)
		}
		for _, t := range NewCommentTools(deps.Drive) {
			reg.Register(t)
		}
	}
	return reg
}
