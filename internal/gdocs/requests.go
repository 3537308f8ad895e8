package gdocs

import (
	"github.com/codefionn/docsmcp/internal/docerr"
	"github.com/codefionn/docsmcp/internal/locate"
	"google.golang.org/api/docs/v1"
)

func location(index int64) (*docs.Location, error) {
	if index < 1 {
		return nil, docerr.New(docerr.KindInvalidRange, "index %d must be at least 1", index)
	}
	return &docs.Location{Index: index}, nil
}

// InsertTextRequest inserts text at a native index.
func InsertTextRequest(index int64, text string) (*docs.Request, error) {
	if text == "" {
		return nil, docerr.New(docerr.KindInvalidArgument, "text must not be empty")
	}
	loc, err := location(index)
	if err != nil {
		return nil, err
	}
	return &docs.Request{InsertText: &docs.InsertTextRequest{Location: loc, Text: text}}, nil
}

// AppendTextRequest inserts text at the end of the document body.
func AppendTextRequest(text string) (*docs.Request, error) {
	if text == "" {
		return nil, docerr.New(docerr.KindInvalidArgument, "text must not be empty")
	}
	return &docs.Request{
		InsertText: &docs.InsertTextRequest{
			EndOfSegmentLocation: &docs.EndOfSegmentLocation{},
			Text:                 text,
		},
	}, nil
}

// DeleteRangeRequest deletes the content in r. r must be non-empty.
func DeleteRangeRequest(r locate.Range) (*docs.Request, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &docs.Request{
		DeleteContentRange: &docs.DeleteContentRangeRequest{
			Range: &docs.Range{StartIndex: r.StartIndex, EndIndex: r.EndIndex},
		},
	}, nil
}

// InsertTableRequest inserts an empty rows x columns table at index.
func InsertTableRequest(index int64, rows, columns int64) (*docs.Request, error) {
	if rows < 1 || columns < 1 {
		return nil, docerr.New(docerr.KindInvalidArgument, "table needs at least one row and one column, got %dx%d", rows, columns)
	}
	loc, err := location(index)
	if err != nil {
		return nil, err
	}
	return &docs.Request{
		InsertTable: &docs.InsertTableRequest{Location: loc, Rows: rows, Columns: columns},
	}, nil
}

// InsertPageBreakRequest inserts a page break at index.
func InsertPageBreakRequest(index int64) (*docs.Request, error) {
	loc, err := location(index)
	if err != nil {
		return nil, err
	}
	return &docs.Request{InsertPageBreak: &docs.InsertPageBreakRequest{Location: loc}}, nil
}
