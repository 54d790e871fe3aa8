// Package changes provides domain types for classifying changed files.
package changes

import "errors"

// Domain errors for change classification.
var (
	// ErrEmptyChangeSet indicates an empty changeset.
	ErrEmptyChangeSet = errors.New("changeset is empty")

	// ErrInvalidSeverity indicates an unrecognized severity value.
	ErrInvalidSeverity = errors.New("invalid severity")

	// ErrNoPackagesFound indicates no deployment packages were discovered.
	ErrNoPackagesFound = errors.New("no deployment packages found")
)
