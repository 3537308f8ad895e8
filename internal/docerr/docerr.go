// Package docerr classifies every failure the document tools can surface.
package docerr

import (
	"errors"
	"fmt"
)

// Kind is a stable, machine-readable failure class.
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindInvalidRange     Kind = "INVALID_RANGE"
	KindInvalidColor     Kind = "INVALID_COLOR"
	KindInvalidArgument  Kind = "INVALID_ARGUMENT"
	KindNoOp             Kind = "NO_OP"
	KindPermissionDenied Kind = "PERMISSION_DENIED"
	KindRemoteNotFound   Kind = "REMOTE_NOT_FOUND"
	KindRejectedByRemote Kind = "REJECTED_BY_REMOTE"
	KindTransportFailure Kind = "TRANSPORT_FAILURE"
	KindUnimplemented    Kind = "UNIMPLEMENTED"
)

// Sentinels usable with errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrInvalidRange     = &Error{Kind: KindInvalidRange}
	ErrInvalidColor     = &Error{Kind: KindInvalidColor}
	ErrInvalidArgument  = &Error{Kind: KindInvalidArgument}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrRemoteNotFound   = &Error{Kind: KindRemoteNotFound}
	ErrRejectedByRemote = &Error{Kind: KindRejectedByRemote}
	ErrTransportFailure = &Error{Kind: KindTransportFailure}
	ErrUnimplemented    = &Error{Kind: KindUnimplemented}
)

// Error carries a Kind plus whatever context the failing layer had.
type Error struct {
	Kind       Kind
	Message    string
	DocumentID string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.DocumentID != "" {
		msg = fmt.Sprintf("%s (document %s)", msg, e.DocumentID)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is makes errors.Is(err, docerr.ErrNotFound) true for any NOT_FOUND error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil {
		return false
	}
	return t.Message == "" && t.DocumentID == "" && t.Err == nil && t.Kind == e.Kind
}

// New builds an *Error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a Kind to an underlying cause.
func Wrap(kind Kind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithDocument returns a copy of e scoped to a document.
func (e *Error) WithDocument(documentID string) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.DocumentID = documentID
	return &cp
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindTransportFailure for errors that were never classified.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindTransportFailure
}

// IsUserFacing reports whether err is attributable to the caller's input or
// to the state of the remote document, as opposed to an internal failure.
func IsUserFacing(err error) bool {
	switch KindOf(err) {
	case "", KindTransportFailure:
		return false
	default:
		return true
	}
}
