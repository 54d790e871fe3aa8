package graph

import "errors"

// Domain errors for graph operations.
var (
	// ErrStoreUnavailable indicates the graph store cannot be reached.
	ErrStoreUnavailable = errors.New("graph store unavailable")

	// ErrServiceNotFound indicates a named service has no node.
	ErrServiceNotFound = errors.New("service not found in graph")

	// ErrPackageNotFound indicates a named package has no node.
	ErrPackageNotFound = errors.New("package not found in graph")
)
