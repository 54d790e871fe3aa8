package analysis

import (
	"path"
	"strings"

	"github.com/fleetscope/fleetscope/internal/domain/changes"
)

// descriptorFileName is the deployment package descriptor.
const descriptorFileName = "Chart.yaml"

// templatePattern maps a resource-type substring inside templates/ to a
// change type and severity.
type templatePattern struct {
	substr   string
	typ      changes.ChangeType
	severity changes.Severity
}

// templatePatterns is an ordered list; the first matching pattern wins.
// The substring match is case-insensitive.
var templatePatterns = []templatePattern{
	{"deployment", changes.ChangeTypeDeploymentTemplate, changes.SeverityCritical},
	{"service", changes.ChangeTypeServiceTemplate, changes.SeverityHigh},
	{"ingress", changes.ChangeTypeIngressTemplate, changes.SeverityHigh},
	{"configmap", changes.ChangeTypeConfigMapTemplate, changes.SeverityMedium},
	{"secret", changes.ChangeTypeSecretTemplate, changes.SeverityCritical},
}

// Categorize maps a package-relative file path to its change type and
// severity. The bool result is false for files that carry no deployment
// risk on their own (docs, helpers, anything outside the known shapes).
// Suffix matches are case-sensitive; resource-type substrings are not.
func Categorize(relPath string) (changes.ChangeType, changes.Severity, bool) {
	rel := path.Clean(strings.TrimPrefix(relPath, "/"))
	base := path.Base(rel)

	switch {
	case base == descriptorFileName:
		return changes.ChangeTypeChartMetadata, changes.SeverityMedium, true
	case base == "values.yaml" || strings.HasSuffix(base, ".values.yaml"):
		return changes.ChangeTypeValues, changes.SeverityHigh, true
	}

	if rest, ok := strings.CutPrefix(rel, "templates/"); ok {
		lower := strings.ToLower(rest)
		for _, p := range templatePatterns {
			if strings.Contains(lower, p.substr) {
				return p.typ, p.severity, true
			}
		}
		return changes.ChangeTypeTemplate, changes.SeverityMedium, true
	}

	if strings.HasPrefix(rel, "charts/") {
		return changes.ChangeTypeDependency, changes.SeverityHigh, true
	}

	return "", "", false
}

// serviceFromPath extracts a service name from a repository path using
// the configured layout rules, first match wins:
//  1. <serviceRoot>/<service>/...
//  2. <infraRoot[0]>/<infraRoot[1]>/<service>/...
//
// Paths outside these shapes contribute nothing.
func (d *ChangeDetector) serviceFromPath(filePath string) string {
	parts := strings.Split(path.Clean(filePath), "/")
	if len(parts) >= 2 {
		for _, root := range d.cfg.ServiceRoots {
			if parts[0] == root {
				return parts[1]
			}
		}
	}
	if len(parts) >= 3 {
		for _, infra := range d.cfg.InfraRoots {
			if parts[0] == infra[0] && parts[1] == infra[1] {
				return parts[2]
			}
		}
	}
	return ""
}

// ServiceForFile extracts the owning service from a source file path.
// Only service-root shapes apply; infrastructure paths do not own
// source code.
func (d *ChangeDetector) ServiceForFile(filePath string) string {
	parts := strings.Split(path.Clean(filePath), "/")
	if len(parts) < 2 {
		return ""
	}
	for _, root := range d.cfg.ServiceRoots {
		if parts[0] == root {
			return parts[1]
		}
	}
	return ""
}
