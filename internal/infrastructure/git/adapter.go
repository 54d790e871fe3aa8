// Package git provides the repository diff adapter backed by go-git.
package git

import (
	"context"
	"log/slog"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/fleetscope/fleetscope/internal/analysis"
	"github.com/fleetscope/fleetscope/internal/errors"
)

// Adapter reads diffs from a local repository. It implements
// analysis.DiffSource.
type Adapter struct {
	repo   *gogit.Repository
	logger *slog.Logger
}

// AdapterOption configures the adapter.
type AdapterOption func(*Adapter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// Open opens the repository at repoPath.
func Open(repoPath string, opts ...AdapterOption) (*Adapter, error) {
	const op = "git.Open"

	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, errors.GitWrap(err, op, "failed to get absolute path")
	}

	repo, err := gogit.PlainOpen(absPath)
	if err != nil {
		return nil, errors.GitWrap(err, op, "failed to open repository")
	}

	a := &Adapter{
		repo:   repo,
		logger: slog.Default().With("component", "git"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Diff computes the name-status changes between baseRef and headRef.
// The comparison uses the merge base of the two refs, so commits only
// on the base side do not show up as reverted changes.
func (a *Adapter) Diff(ctx context.Context, baseRef, headRef string) ([]analysis.FileDiff, error) {
	const op = "git.Diff"

	if headRef == "" {
		headRef = "HEAD"
	}

	baseCommit, err := a.commitForRef(baseRef)
	if err != nil {
		return nil, errors.GitWrap(err, op, "failed to resolve base reference")
	}
	headCommit, err := a.commitForRef(headRef)
	if err != nil {
		return nil, errors.GitWrap(err, op, "failed to resolve head reference")
	}

	if bases, err := baseCommit.MergeBase(headCommit); err == nil && len(bases) > 0 {
		baseCommit = bases[0]
	} else if err != nil {
		a.logger.Debug("merge base not found, diffing refs directly",
			"base", baseRef, "head", headRef, "error", err)
	}

	baseTree, err := baseCommit.Tree()
	if err != nil {
		return nil, errors.GitWrap(err, op, "failed to get base tree")
	}
	headTree, err := headCommit.Tree()
	if err != nil {
		return nil, errors.GitWrap(err, op, "failed to get head tree")
	}

	treeChanges, err := object.DiffTreeWithOptions(ctx, baseTree, headTree,
		&object.DiffTreeOptions{DetectRenames: true})
	if err != nil {
		return nil, errors.GitWrap(err, op, "failed to compute diff")
	}

	diffs := make([]analysis.FileDiff, 0, len(treeChanges))
	for _, change := range treeChanges {
		action, err := change.Action()
		if err != nil {
			// Malformed change entries are skipped, never fatal.
			a.logger.Warn("skipping malformed diff entry", "error", err)
			continue
		}
		switch action {
		case merkletrie.Insert:
			diffs = append(diffs, analysis.FileDiff{Status: "A", Path: change.To.Name})
		case merkletrie.Delete:
			diffs = append(diffs, analysis.FileDiff{Status: "D", Path: change.From.Name})
		case merkletrie.Modify:
			if change.From.Name != change.To.Name {
				// Rename: report the new path.
				diffs = append(diffs, analysis.FileDiff{Status: "R100", Path: change.To.Name})
				continue
			}
			diffs = append(diffs, analysis.FileDiff{Status: "M", Path: change.To.Name})
		}
	}
	return diffs, nil
}

// commitForRef resolves a ref name or hash to its commit.
func (a *Adapter) commitForRef(ref string) (*object.Commit, error) {
	var hash plumbing.Hash
	if plumbing.IsHash(ref) {
		hash = plumbing.NewHash(ref)
	} else {
		resolved, err := a.repo.ResolveRevision(plumbing.Revision(ref))
		if err != nil {
			return nil, err
		}
		hash = *resolved
	}
	return a.repo.CommitObject(hash)
}
