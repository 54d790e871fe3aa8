package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fleetscope/fleetscope/internal/analysis/routes"
	"github.com/fleetscope/fleetscope/internal/domain/changes"
	"github.com/fleetscope/fleetscope/internal/fileutil"
)

// ChangeDetector turns a raw diff or file list into typed change
// records. One instance serves one repository; the package index is
// computed once and reused across calls.
type ChangeDetector struct {
	cfg    DetectorConfig
	diff   DiffSource
	reader FileReader
	logger *slog.Logger

	pkgOnce  sync.Once
	pkgIndex []packageRoot
	pkgErr   error
}

// DetectorOption configures the change detector.
type DetectorOption func(*ChangeDetector)

// WithDiffSource sets the diff source.
func WithDiffSource(src DiffSource) DetectorOption {
	return func(d *ChangeDetector) {
		d.diff = src
	}
}

// WithFileReader sets the repository file reader.
func WithFileReader(r FileReader) DetectorOption {
	return func(d *ChangeDetector) {
		d.reader = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) DetectorOption {
	return func(d *ChangeDetector) {
		d.logger = logger
	}
}

// NewChangeDetector creates a detector for the repository described by
// cfg.
func NewChangeDetector(cfg DetectorConfig, opts ...DetectorOption) *ChangeDetector {
	d := &ChangeDetector{
		cfg:    cfg,
		reader: osFileReader{root: cfg.RepoPath},
		logger: slog.Default().With("component", "change_detector"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ChangedFiles resolves the changed files for one analysis run. An
// explicit file list takes precedence and is recorded entirely as
// modified; without one the diff source is consulted. A diff failure
// is non-fatal and yields an empty changeset with a warning.
func (d *ChangeDetector) ChangedFiles(ctx context.Context, baseRef, headRef string, explicit []string) *changes.ChangeSet {
	cs := changes.NewChangeSet(baseRef, headRef)

	if len(explicit) > 0 {
		for _, file := range explicit {
			cs.Add(file, changes.StatusModified)
		}
		return cs
	}

	if d.diff == nil {
		d.logger.Warn("no diff source configured, treating as no changes")
		return cs
	}

	diffs, err := d.diff.Diff(ctx, baseRef, headRef)
	if err != nil {
		d.logger.Warn("failed to compute diff", "base", baseRef, "head", headRef, "error", err)
		return cs
	}

	for _, fd := range diffs {
		if fd.Path == "" || fd.Status == "" {
			continue
		}
		switch {
		case fd.Status == "M":
			cs.Add(fd.Path, changes.StatusModified)
		case fd.Status == "A":
			cs.Add(fd.Path, changes.StatusAdded)
		case fd.Status == "D":
			cs.Add(fd.Path, changes.StatusDeleted)
		case strings.HasPrefix(fd.Status, "R"):
			// Renames carry the new path and count as modifications.
			cs.Add(fd.Path, changes.StatusModified)
		}
	}
	return cs
}

// AffectedServices extracts the set of service names implied by the
// changed paths. The result is sorted; duplicate paths contribute once.
func (d *ChangeDetector) AffectedServices(files []string) []string {
	set := make(map[string]struct{})
	for _, file := range files {
		if svc := d.serviceFromPath(file); svc != "" {
			set[svc] = struct{}{}
		}
	}
	services := make([]string, 0, len(set))
	for svc := range set {
		services = append(services, svc)
	}
	sort.Strings(services)
	return services
}

// BreakingChanges scans modified source files for route declarations.
// Each file containing endpoints yields one record; unreadable files
// are skipped.
func (d *ChangeDetector) BreakingChanges(files []string) []changes.BreakingChange {
	var result []changes.BreakingChange
	for _, file := range files {
		style, ok := routes.StyleForPath(file)
		if !ok {
			continue
		}
		content, err := d.reader.ReadFile(file)
		if err != nil {
			if !os.IsNotExist(err) {
				d.logger.Warn("failed to read source file", "file", file, "error", err)
			}
			continue
		}
		endpoints := routes.ExtractEndpoints(string(content), style)
		if len(endpoints) == 0 {
			continue
		}
		result = append(result, changes.BreakingChange{
			File:      file,
			Type:      changes.BreakingChangeAPIEndpoints,
			Severity:  changes.SeverityHigh,
			Message:   fmt.Sprintf("File contains %d API endpoint(s) that may be affected", len(endpoints)),
			Endpoints: endpoints,
		})
	}
	return result
}

// maxSourceFileSize bounds route scanning the same way source
// ingestion is bounded.
const maxSourceFileSize = 2 << 20

// osFileReader reads files relative to the repository root.
type osFileReader struct {
	root string
}

func (r osFileReader) ReadFile(path string) ([]byte, error) {
	return fileutil.ReadFileLimited(filepath.Join(r.root, filepath.FromSlash(path)), maxSourceFileSize)
}
