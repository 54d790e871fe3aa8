// Package scan walks a repository for source files and extracts the
// outbound HTTP service calls they declare. The result feeds graph
// ingestion as CodeModule nodes and CALLS_SERVICE edges.
package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fleetscope/fleetscope/internal/errors"
	"github.com/fleetscope/fleetscope/internal/fileutil"
)

const (
	languageJavaScript = "javascript"
	languagePython     = "python"

	defaultConcurrency = 8

	// maxSourceFileSize skips generated bundles and vendored blobs.
	maxSourceFileSize = 2 << 20
)

// languageByExtension maps source extensions to the pattern family
// used for extraction.
var languageByExtension = map[string]string{
	".js":  languageJavaScript,
	".jsx": languageJavaScript,
	".ts":  languageJavaScript,
	".tsx": languageJavaScript,
	".py":  languagePython,
}

// skippedDirs are never descended into.
var skippedDirs = map[string]struct{}{
	"node_modules":  {},
	"__pycache__":   {},
	"venv":          {},
	"env":           {},
	"dist":          {},
	"build":         {},
	"vendor":        {},
	".pytest_cache": {},
	".mypy_cache":   {},
}

// Module is one scanned source file and the calls it declares.
type Module struct {
	// Path is the repository-relative path, slash separated.
	Path     string
	Name     string
	Language string
	Calls    []Call
}

// Scanner extracts service calls from a repository tree.
type Scanner struct {
	root        string
	concurrency int
	logger      *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithConcurrency bounds the number of files analyzed in parallel.
func WithConcurrency(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a scanner rooted at the repository path.
func NewScanner(root string, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		root:        root,
		concurrency: defaultConcurrency,
		logger:      slog.Default().With("component", "scan"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan walks the tree and analyzes every recognized source file.
// Unreadable files are logged and skipped; only a failed walk is an
// error. Results are sorted by path.
func (s *Scanner) Scan(ctx context.Context) ([]Module, error) {
	const op = "scan.Scan"

	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if _, skip := skippedDirs[name]; skip {
				return filepath.SkipDir
			}
			if strings.HasPrefix(name, ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := languageByExtension[filepath.Ext(path)]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.IOWrap(err, op, "failed to walk repository")
	}

	var (
		mu      sync.Mutex
		modules []Module
	)
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for _, file := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			module, ok := s.analyzeFile(file)
			if !ok {
				return nil
			}
			mu.Lock()
			modules = append(modules, module)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.KindAnalysis, op, "scan aborted")
	}

	sort.Slice(modules, func(i, j int) bool { return modules[i].Path < modules[j].Path })
	s.logger.Info("source scan complete", "files", len(files), "modules_with_calls", len(modules))
	return modules, nil
}

// analyzeFile extracts calls from one file. Files without calls are
// not modules worth ingesting.
func (s *Scanner) analyzeFile(path string) (Module, bool) {
	language := languageByExtension[filepath.Ext(path)]

	content, err := fileutil.ReadFileLimited(path, maxSourceFileSize)
	if err != nil {
		s.logger.Warn("skipping unreadable source file", "file", path, "error", err)
		return Module{}, false
	}

	calls := ExtractCalls(string(content), language)
	if len(calls) == 0 {
		return Module{}, false
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	return Module{
		Path:     filepath.ToSlash(rel),
		Name:     filepath.Base(path),
		Language: language,
		Calls:    calls,
	}, true
}
