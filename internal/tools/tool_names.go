package tools

const (
	ToolNameReadDocument        = "read_document"
	ToolNameAppendText          = "append_text"
	ToolNameInsertText          = "insert_text"
	ToolNameDeleteRange         = "delete_range"
	ToolNameApplyTextStyle      = "apply_text_style"
	ToolNameApplyParagraphStyle = "apply_paragraph_style"
	ToolNameInsertTable         = "insert_table"
	ToolNameInsertPageBreak     = "insert_page_break"
	ToolNameFindElement         = "find_element"
	ToolNameFixListFormatting   = "fix_list_formatting"
	ToolNameExportDocument      = "export_document"

	ToolNameListDocuments      = "list_documents"
	ToolNameSearchDocuments    = "search_documents"
	ToolNameGetDocumentInfo    = "get_document_info"
	ToolNameCreateDocument     = "create_document"
	ToolNameCreateFolder       = "create_folder"
	ToolNameListFolderContents = "list_folder_contents"
	ToolNameMoveFile           = "move_file"
	ToolNameCopyFile           = "copy_file"
	ToolNameRenameFile         = "rename_file"
	ToolNameDeleteFile         = "delete_file"

	ToolNameListComments   = "list_comments"
	ToolNameGetComment     = "get_comment"
	ToolNameAddComment     = "add_comment"
	ToolNameReplyToComment = "reply_to_comment"
	ToolNameResolveComment = "resolve_comment"
	ToolNameDeleteComment  = "delete_comment"
)

// mutatingTools change remote state and are refused in read-only mode.
var mutatingTools = map[string]bool{
	ToolNameAppendText:          true,
	ToolNameInsertText:          true,
	ToolNameDeleteRange:         true,
	ToolNameApplyTextStyle:      true,
	ToolNameApplyParagraphStyle: true,
	ToolNameInsertTable:         true,
	ToolNameInsertPageBreak:     true,
	ToolNameFixListFormatting:   true,
	ToolNameCreateDocument:      true,
	ToolNameCreateFolder:        true,
	ToolNameMoveFile:            true,
	ToolNameCopyFile:            true,
	ToolNameRenameFile:          true,
	ToolNameDeleteFile:          true,
	ToolNameAddComment:          true,
	ToolNameReplyToComment:      true,
	ToolNameResolveComment:      true,
	ToolNameDeleteComment:       true,
}

// IsMutating reports whether the named tool changes documents or files.
func IsMutating(name string) bool {
	return mutatingTools[name]
}

// IsDestructive reports whether the named tool removes content or files.
func IsDestructive(name string) bool {
	switch name {
	case ToolNameDeleteRange, ToolNameDeleteFile, ToolNameDeleteComment:
		return true
	}
	return false
}
