package analysis

import (
	"path"
	"strings"

	"github.com/fleetscope/fleetscope/internal/domain/changes"
	"github.com/fleetscope/fleetscope/internal/helm"
)

// packageRoot is one discovered deployment package, held in discovery
// order so ancestor lookup is deterministic.
type packageRoot struct {
	name string
	root string
}

// packageIndex returns the discovered packages, computing them once per
// detector instance.
func (d *ChangeDetector) packageIndex() ([]packageRoot, error) {
	d.pkgOnce.Do(func() {
		charts, err := helm.Discover(d.cfg.RepoPath, d.logger)
		if err != nil {
			d.pkgErr = err
			return
		}
		// Discovery order is kept: an enclosing package is found before
		// its vendored sub-packages and claims their files, which is
		// what routes charts/* files to the DEPENDENCY category.
		roots := make([]packageRoot, 0, len(charts))
		for _, c := range charts {
			roots = append(roots, packageRoot{name: c.Name(), root: c.RelPath})
		}
		d.pkgIndex = roots
	})
	return d.pkgIndex, d.pkgErr
}

// owningPackage finds the first discovered package whose root is a path
// ancestor of the file. Files outside every package return false.
func owningPackage(index []packageRoot, filePath string) (packageRoot, string, bool) {
	clean := path.Clean(filePath)
	for _, pkg := range index {
		if rel, ok := strings.CutPrefix(clean, pkg.root+"/"); ok {
			return pkg, rel, true
		}
	}
	return packageRoot{}, "", false
}

// PackageChanges maps each changed file to its owning deployment
// package and categorizes it by the fixed filename/path table. Files
// outside any package, or matching no category, are excluded.
func (d *ChangeDetector) PackageChanges(files []string) ([]changes.PackageChange, error) {
	index, err := d.packageIndex()
	if err != nil {
		return nil, err
	}

	var result []changes.PackageChange
	for _, file := range files {
		pkg, rel, ok := owningPackage(index, file)
		if !ok {
			continue
		}
		changeType, severity, ok := Categorize(rel)
		if !ok {
			continue
		}
		result = append(result, changes.PackageChange{
			PackagePath:  pkg.root,
			PackageName:  pkg.name,
			File:         file,
			RelativePath: rel,
			Type:         changeType,
			Severity:     severity,
		})
	}
	return result, nil
}
