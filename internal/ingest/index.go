package ingest

import (
	"strings"

	"github.com/fleetscope/fleetscope/internal/helm"
)

// packageRoot maps a package name to its repository-relative root.
type packageRoot struct {
	name string
	root string
}

// packageIndex keeps discovery order: an enclosing package is found
// before its vendored sub-packages and claims their files.
func packageIndex(charts []*helm.Chart) []packageRoot {
	index := make([]packageRoot, 0, len(charts))
	for _, chart := range charts {
		index = append(index, packageRoot{name: chart.Name(), root: chart.RelPath})
	}
	return index
}

// owningPackage returns the name of the package whose root contains
// the path, or empty when no package claims it.
func owningPackage(index []packageRoot, path string) string {
	for _, pkg := range index {
		if pkg.root == "" || pkg.root == "." {
			continue
		}
		if path == pkg.root || strings.HasPrefix(path, pkg.root+"/") {
			return pkg.name
		}
	}
	return ""
}
