package gdocs

import (
	"errors"
	"net/http"
	"strings"

	"github.com/codefionn/docsmcp/internal/docerr"
	"google.golang.org/api/googleapi"
)

// Classify maps a failure from the remote service onto the error taxonomy.
// Errors that are already classified pass through untouched.
func Classify(err error, documentID string) error {
	if err == nil {
		return nil
	}
	var de *docerr.Error
	if errors.As(err, &de) {
		return err
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return docerr.Wrap(docerr.KindTransportFailure, err, "request to document service failed").WithDocument(documentID)
	}

	switch gerr.Code {
	case http.StatusForbidden, http.StatusUnauthorized:
		return docerr.Wrap(docerr.KindPermissionDenied, err, "permission denied").WithDocument(documentID)
	case http.StatusNotFound:
		return docerr.Wrap(docerr.KindRemoteNotFound, err, "not found").WithDocument(documentID)
	case http.StatusBadRequest, http.StatusConflict, http.StatusPreconditionFailed, http.StatusUnprocessableEntity:
		return docerr.Wrap(docerr.KindRejectedByRemote, err, "rejected by document service: %s", RemoteDetail(gerr)).WithDocument(documentID)
	default:
		return docerr.Wrap(docerr.KindTransportFailure, err, "document service returned %d", gerr.Code).WithDocument(documentID)
	}
}

// RemoteDetail extracts the most specific message the service supplied.
func RemoteDetail(gerr *googleapi.Error) string {
	if msg := strings.TrimSpace(gerr.Message); msg != "" {
		return msg
	}
	for _, item := range gerr.Errors {
		if item.Message != "" {
			return item.Message
		}
	}
	if text := http.StatusText(gerr.Code); text != "" {
		return strings.ToLower(text)
	}
	return "no detail given"
}
