package domain

import (
	"errors"
	"fmt"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

var (
	// ErrBadRequest marks malformed client input.
	ErrBadRequest = errors.New("bad request")
	// ErrIntegrity marks a payload whose hash does not match the claimed one.
	ErrIntegrity = errors.New("hash mismatch")
	// ErrAuthorization marks a signature that does not belong to the expected address.
	ErrAuthorization = errors.New("signature verification failed")
	// ErrAliasNotFound is returned by owner resolution for unknown or expired aliases.
	ErrAliasNotFound = errors.New("invalid alias")
	// ErrUpstream marks an unreachable or timed out chain node. Callers may retry.
	ErrUpstream = errors.New("resolver unavailable")
	// ErrStore marks a failing persistence backend.
	ErrStore = errors.New("store unavailable")
)
