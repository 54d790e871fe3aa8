// Package analysis classifies raw changed-file lists into typed,
// severity-ranked change records for the impact pipeline.
package analysis

import "context"

// FileDiff is one changed file reported by the diff source.
type FileDiff struct {
	// Status is the single-letter name-status code (M, A, D, R...).
	Status string
	// Path is the repository-relative file path. For renames this is
	// the new path.
	Path string
}

// DiffSource produces name-status diffs between two refs.
type DiffSource interface {
	// Diff returns the changed files between baseRef and headRef.
	Diff(ctx context.Context, baseRef, headRef string) ([]FileDiff, error)
}

// FileReader reads repository files for route scanning.
type FileReader interface {
	// ReadFile returns the content of a repository-relative path.
	// Missing files return an error satisfying os.IsNotExist semantics.
	ReadFile(path string) ([]byte, error)
}

// DetectorConfig carries the path heuristics of one repository layout.
type DetectorConfig struct {
	// RepoPath is the repository root on disk.
	RepoPath string
	// ServiceRoots are top-level directories whose second path segment
	// names a service (e.g. services/, apps/).
	ServiceRoots []string
	// InfraRoots are two-segment prefixes whose third path segment
	// names a service (e.g. infrastructure/helm).
	InfraRoots [][2]string
}

// DefaultDetectorConfig returns the conventional monorepo layout.
func DefaultDetectorConfig(repoPath string) DetectorConfig {
	return DetectorConfig{
		RepoPath:     repoPath,
		ServiceRoots: []string{"services", "apps", "microservices"},
		InfraRoots:   [][2]string{{"infrastructure", "helm"}},
	}
}
