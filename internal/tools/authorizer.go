package tools

import (
	"context"
	"fmt"
)

// AuthorizationDecision captures the result of an authorization check.
type AuthorizationDecision struct {
	Allowed bool
	Reason  string
}

// Authorizer defines the contract for authorizing tool calls before execution.
type Authorizer interface {
	Authorize(ctx context.Context, toolName string, params map[string]interface{}) (*AuthorizationDecision, error)
}

// ReadOnlyAuthorizer refuses every mutating tool.
type ReadOnlyAuthorizer struct{}

// Authorize implements Authorizer.
func (ReadOnlyAuthorizer) Authorize(_ context.Context, toolName string, _ map[string]interface{}) (*AuthorizationDecision, error) {
	if IsMutating(toolName) {
		return &AuthorizationDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("%s modifies documents and the server is running in read-only mode", toolName),
		}, nil
	}
	return &AuthorizationDecision{Allowed: true}, nil
}
