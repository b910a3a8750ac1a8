// Package domain provides the core domain model for package version
// promotion.
package domain

import "errors"

// Domain errors for promotion run operations.
var (
	// ErrInvalidState indicates an invalid state for the requested operation.
	ErrInvalidState = errors.New("invalid state for this operation")

	// ErrInvalidVersionID indicates the version_id option is malformed.
	ErrInvalidVersionID = errors.New("invalid version_id")
)
