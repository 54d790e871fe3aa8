package changes

import (
	"time"
)

// FileStatus describes how a file changed between two refs.
type FileStatus string

const (
	// StatusModified indicates the file content changed.
	StatusModified FileStatus = "modified"
	// StatusAdded indicates the file is new.
	StatusAdded FileStatus = "added"
	// StatusDeleted indicates the file was removed.
	StatusDeleted FileStatus = "deleted"
)

// ChangeSet holds the changed file paths of one analysis run, split by
// status. It is built once by the change detector and read-only after.
type ChangeSet struct {
	fromRef  string
	toRef    string
	modified []string
	added    []string
	deleted  []string

	createdAt time.Time
}

// NewChangeSet creates an empty ChangeSet for the given ref range.
func NewChangeSet(fromRef, toRef string) *ChangeSet {
	return &ChangeSet{
		fromRef:   fromRef,
		toRef:     toRef,
		createdAt: time.Now(),
	}
}

// FromRef returns the starting git reference.
func (cs *ChangeSet) FromRef() string {
	return cs.fromRef
}

// ToRef returns the ending git reference.
func (cs *ChangeSet) ToRef() string {
	return cs.toRef
}

// CreatedAt returns when the changeset was built.
func (cs *ChangeSet) CreatedAt() time.Time {
	return cs.createdAt
}

// Add records a changed file under its status.
// Unknown statuses are recorded as modified.
func (cs *ChangeSet) Add(path string, status FileStatus) {
	switch status {
	case StatusAdded:
		cs.added = append(cs.added, path)
	case StatusDeleted:
		cs.deleted = append(cs.deleted, path)
	default:
		cs.modified = append(cs.modified, path)
	}
}

// Modified returns the modified file paths.
func (cs *ChangeSet) Modified() []string {
	return copyPaths(cs.modified)
}

// Added returns the added file paths.
func (cs *ChangeSet) Added() []string {
	return copyPaths(cs.added)
}

// Deleted returns the deleted file paths.
func (cs *ChangeSet) Deleted() []string {
	return copyPaths(cs.deleted)
}

// All returns every changed path, modified first, then added, then
// deleted. Order within each group follows insertion order.
func (cs *ChangeSet) All() []string {
	all := make([]string, 0, cs.Count())
	all = append(all, cs.modified...)
	all = append(all, cs.added...)
	all = append(all, cs.deleted...)
	return all
}

// Count returns the total number of changed files.
func (cs *ChangeSet) Count() int {
	return len(cs.modified) + len(cs.added) + len(cs.deleted)
}

// IsEmpty returns true if no files changed.
func (cs *ChangeSet) IsEmpty() bool {
	return cs.Count() == 0
}

func copyPaths(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}
