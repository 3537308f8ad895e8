package docerr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"kind only", &Error{Kind: KindNoOp}, "NO_OP"},
		{"message", New(KindInvalidRange, "end %d before start %d", 3, 5), "end 3 before start 5"},
		{"document", New(KindNotFound, "text %q not found", "x").WithDocument("doc-1"), `text "x" not found (document doc-1)`},
		{"cause", Wrap(KindTransportFailure, io.ErrUnexpectedEOF, "fetch failed"), "fetch failed: unexpected EOF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSentinelsMatchByKind(t *testing.T) {
	err := fmt.Errorf("apply: %w", New(KindInvalidColor, "bad color %q", "#12"))

	if !errors.Is(err, ErrInvalidColor) {
		t.Error("expected errors.Is(err, ErrInvalidColor)")
	}
	if errors.Is(err, ErrInvalidRange) {
		t.Error("INVALID_COLOR must not match ErrInvalidRange")
	}
	if errors.Is(err, New(KindInvalidColor, "bad color %q", "#12")) {
		t.Error("only bare sentinels match by kind")
	}
}

func TestWrapUnwraps(t *testing.T) {
	err := Wrap(KindRejectedByRemote, io.EOF, "batch rejected")
	if !errors.Is(err, io.EOF) {
		t.Error("expected the cause to be reachable")
	}
}

func TestWithDocumentCopies(t *testing.T) {
	base := New(KindRemoteNotFound, "missing")
	scoped := base.WithDocument("doc-9")
	if base.DocumentID != "" {
		t.Errorf("original modified: %q", base.DocumentID)
	}
	if scoped.DocumentID != "doc-9" {
		t.Errorf("DocumentID = %q", scoped.DocumentID)
	}
	var nilErr *Error
	if nilErr.WithDocument("x") != nil {
		t.Error("nil WithDocument should stay nil")
	}
}

func TestKindOfAndUserFacing(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       Kind
		userFacing bool
	}{
		{"nil", nil, "", false},
		{"plain", errors.New("socket closed"), KindTransportFailure, false},
		{"transport", New(KindTransportFailure, "timeout"), KindTransportFailure, false},
		{"wrapped not found", fmt.Errorf("x: %w", New(KindNotFound, "gone")), KindNotFound, true},
		{"permission", New(KindPermissionDenied, "no access"), KindPermissionDenied, true},
		{"unimplemented", New(KindUnimplemented, "later"), KindUnimplemented, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.kind {
				t.Errorf("KindOf() = %q, want %q", got, tt.kind)
			}
			if got := IsUserFacing(tt.err); got != tt.userFacing {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.userFacing)
			}
		})
	}
}
