package services

import "errors"

var (
	// ErrPermissionDenied means the permission window evaluator rejected
	// the action. Callers must check before touching the store; the store
	// is not a permission backstop.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrStoreConstraint wraps a relational constraint violation, e.g. a
	// message pointed at a room that no longer exists.
	ErrStoreConstraint = errors.New("store constraint violated")

	ErrMessageNotFound = errors.New("message not found")
)
