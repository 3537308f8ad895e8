package gdocs

import (
	"context"

	"github.com/codefionn/docsmcp/internal/logger"
	"google.golang.org/api/docs/v1"
)

// DefaultSoftLimit matches the service's own per-batch request ceiling.
const DefaultSoftLimit = 50

// Executor sends ordered request lists as one atomic batch. It never
// retries: document edits are not idempotent.
type Executor struct {
	docs      Source[DocumentsAPI]
	softLimit int
	log       *logger.Logger
}

// NewExecutor creates an executor. softLimit <= 0 selects DefaultSoftLimit.
func NewExecutor(src Source[DocumentsAPI], softLimit int) *Executor {
	if softLimit <= 0 {
		softLimit = DefaultSoftLimit
	}
	return &Executor{
		docs:      src,
		softLimit: softLimit,
		log:       logger.Global().WithPrefix("gdocs"),
	}
}

// SoftLimit returns the request count above which batches are flagged.
func (e *Executor) SoftLimit() int { return e.softLimit }

// Execute sends reqs to documentID. An empty list returns an empty response
// without contacting the service. Oversized batches are logged, not split.
func (e *Executor) Execute(ctx context.Context, documentID string, reqs []*docs.Request) (*docs.BatchUpdateDocumentResponse, error) {
	if len(reqs) == 0 {
		return &docs.BatchUpdateDocumentResponse{DocumentId: documentID}, nil
	}
	if len(reqs) > e.softLimit {
		e.log.Warn("batch for %s has %d requests, above soft limit %d", documentID, len(reqs), e.softLimit)
	}

	api, err := e.docs.Get(ctx)
	if err != nil {
		return nil, Classify(err, documentID)
	}

	e.log.Debug("sending batch of %d requests to %s", len(reqs), documentID)
	resp, err := api.BatchUpdate(ctx, documentID, &docs.BatchUpdateDocumentRequest{Requests: reqs})
	if err != nil {
		classified := Classify(err, documentID)
		e.log.Warn("batch for %s failed: %v", documentID, classified)
		return nil, classified
	}
	return resp, nil
}
