// Package helm discovers deployment packages in a repository and parses
// their descriptors and values.
package helm

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/fleetscope/fleetscope/internal/errors"
)

// DescriptorFile identifies a directory as a deployment package.
const DescriptorFile = "Chart.yaml"

// skippedDirs are never descended into during discovery.
var skippedDirs = map[string]struct{}{
	"node_modules": {},
	"venv":         {},
	"__pycache__":  {},
	"vendor":       {},
}

// Metadata is the parsed package descriptor.
type Metadata struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	AppVersion  string `yaml:"appVersion"`
}

// Chart is one discovered deployment package.
type Chart struct {
	// Path is the absolute package root on disk.
	Path string
	// RelPath is the package root relative to the repository root,
	// with forward slashes.
	RelPath string
	// Metadata is the parsed descriptor.
	Metadata Metadata

	valuesOnce sync.Once
	values     map[string]any
	valuesErr  error
}

// Name returns the package's declared name, falling back to the
// directory name when the descriptor has none.
func (c *Chart) Name() string {
	if c.Metadata.Name != "" {
		return c.Metadata.Name
	}
	return filepath.Base(c.Path)
}

// Values loads and memoizes values.yaml. A missing values file yields
// an empty map, not an error.
func (c *Chart) Values() (map[string]any, error) {
	c.valuesOnce.Do(func() {
		valuesPath := filepath.Join(c.Path, "values.yaml")
		data, err := os.ReadFile(valuesPath)
		if err != nil {
			if os.IsNotExist(err) {
				c.values = map[string]any{}
				return
			}
			c.valuesErr = errors.IOWrap(err, "chart.Values", "reading values.yaml")
			return
		}
		values := map[string]any{}
		if err := yaml.Unmarshal(data, &values); err != nil {
			c.valuesErr = errors.IOWrap(err, "chart.Values", "parsing values.yaml")
			return
		}
		c.values = values
	})
	return c.values, c.valuesErr
}

// Discover walks the repository for package descriptors. Hidden
// directories and dependency caches are skipped. Packages with an
// unreadable descriptor are skipped with a warning; an unreadable root
// is an error.
func Discover(root string, logger *slog.Logger) ([]*Chart, error) {
	if logger == nil {
		logger = slog.Default().With("component", "helm")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.IOWrap(err, "helm.Discover", "resolving repository root")
	}
	if _, err := os.Stat(absRoot); err != nil {
		return nil, errors.IOWrap(err, "helm.Discover", "repository root not accessible")
	}

	var charts []*Chart
	walkErr := filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable path", "path", p, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if p != absRoot && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if _, skip := skippedDirs[name]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != DescriptorFile {
			return nil
		}

		chartDir := filepath.Dir(p)
		chart, err := load(chartDir, absRoot)
		if err != nil {
			logger.Warn("skipping invalid package", "path", chartDir, "error", err)
			return nil
		}
		logger.Debug("found deployment package", "name", chart.Name(), "path", chart.RelPath)
		charts = append(charts, chart)
		return nil
	})
	if walkErr != nil {
		return nil, errors.IOWrap(walkErr, "helm.Discover", "walking repository")
	}
	return charts, nil
}

// load parses one package descriptor.
func load(chartDir, root string) (*Chart, error) {
	data, err := os.ReadFile(filepath.Join(chartDir, DescriptorFile))
	if err != nil {
		return nil, errors.IOWrap(err, "helm.load", "reading descriptor")
	}

	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, errors.IOWrap(err, "helm.load", "parsing descriptor")
	}

	rel, err := filepath.Rel(root, chartDir)
	if err != nil {
		return nil, errors.IOWrap(err, "helm.load", "resolving relative path")
	}

	chart := &Chart{
		Path:     chartDir,
		RelPath:  filepath.ToSlash(rel),
		Metadata: meta,
	}
	if meta.Version != "" {
		if _, err := semver.NewVersion(meta.Version); err != nil {
			slog.Default().Warn("package declares non-semver version",
				"package", chart.Name(), "version", meta.Version)
		}
	}
	return chart, nil
}
