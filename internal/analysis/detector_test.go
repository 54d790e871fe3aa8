package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetscope/fleetscope/internal/domain/changes"
)

// stubDiffSource returns a fixed diff or error.
type stubDiffSource struct {
	diffs []FileDiff
	err   error
}

func (s stubDiffSource) Diff(_ context.Context, _, _ string) ([]FileDiff, error) {
	return s.diffs, s.err
}

func TestChangedFilesExplicitList(t *testing.T) {
	d := NewChangeDetector(DefaultDetectorConfig("."))

	cs := d.ChangedFiles(context.Background(), "main", "HEAD",
		[]string{"services/a/x.go", "services/b/y.go"})

	assert.Equal(t, []string{"services/a/x.go", "services/b/y.go"}, cs.Modified())
	assert.Empty(t, cs.Added())
	assert.Empty(t, cs.Deleted())
}

func TestChangedFilesFromDiff(t *testing.T) {
	d := NewChangeDetector(DefaultDetectorConfig("."), WithDiffSource(stubDiffSource{
		diffs: []FileDiff{
			{Status: "M", Path: "services/a/server.js"},
			{Status: "A", Path: "services/a/new.js"},
			{Status: "D", Path: "services/a/old.js"},
			{Status: "R100", Path: "services/a/renamed.js"},
			{Status: "", Path: "ignored"},
			{Status: "M", Path: ""},
		},
	}))

	cs := d.ChangedFiles(context.Background(), "main", "HEAD", nil)

	assert.Equal(t, []string{"services/a/server.js", "services/a/renamed.js"}, cs.Modified())
	assert.Equal(t, []string{"services/a/new.js"}, cs.Added())
	assert.Equal(t, []string{"services/a/old.js"}, cs.Deleted())
}

func TestChangedFilesDiffFailureIsEmpty(t *testing.T) {
	d := NewChangeDetector(DefaultDetectorConfig("."),
		WithDiffSource(stubDiffSource{err: errors.New("bad ref")}))

	cs := d.ChangedFiles(context.Background(), "main", "HEAD", nil)
	assert.True(t, cs.IsEmpty())
}

func TestChangedFilesNoDiffSource(t *testing.T) {
	d := NewChangeDetector(DefaultDetectorConfig("."))
	cs := d.ChangedFiles(context.Background(), "main", "HEAD", nil)
	assert.True(t, cs.IsEmpty())
}

// TestAffectedServicesIdempotent verifies the service set is sorted,
// deduplicated, and order-independent.
func TestAffectedServicesIdempotent(t *testing.T) {
	d := NewChangeDetector(DefaultDetectorConfig("."))

	forward := d.AffectedServices([]string{
		"services/user-service/a.js",
		"services/user-service/b.js",
		"apps/gateway/main.go",
		"infrastructure/helm/payments/values.yaml",
		"docs/guide.md",
	})
	reversed := d.AffectedServices([]string{
		"docs/guide.md",
		"infrastructure/helm/payments/values.yaml",
		"apps/gateway/main.go",
		"services/user-service/b.js",
		"services/user-service/a.js",
	})

	want := []string{"gateway", "payments", "user-service"}
	assert.Equal(t, want, forward)
	assert.Equal(t, want, reversed)
}

func TestPackageChanges(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "services/checkout/Chart.yaml"), "name: checkout\nversion: 1.0.0\n")
	mustWrite(t, filepath.Join(root, "services/checkout/values.yaml"), "replicas: 1\n")
	mustWrite(t, filepath.Join(root, "services/checkout/templates/deployment.yaml"), "kind: Deployment\n")

	d := NewChangeDetector(DefaultDetectorConfig(root))

	pcs, err := d.PackageChanges([]string{
		"services/checkout/templates/deployment.yaml",
		"services/checkout/values.yaml",
		"services/checkout/README.md",
		"unrelated/file.txt",
	})
	require.NoError(t, err)
	require.Len(t, pcs, 2)

	byType := map[changes.ChangeType]changes.PackageChange{}
	for _, pc := range pcs {
		byType[pc.Type] = pc
	}

	dep := byType[changes.ChangeTypeDeploymentTemplate]
	assert.Equal(t, "checkout", dep.PackageName)
	assert.Equal(t, "services/checkout", dep.PackagePath)
	assert.Equal(t, "templates/deployment.yaml", dep.RelativePath)
	assert.Equal(t, changes.SeverityCritical, dep.Severity)

	vals := byType[changes.ChangeTypeValues]
	assert.Equal(t, changes.SeverityHigh, vals.Severity)
}

// TestPackageChangesIndexMemoized verifies discovery happens once per
// detector instance: packages created after the first call are not
// visible to later calls.
func TestPackageChangesIndexMemoized(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "one/Chart.yaml"), "name: one\nversion: 1.0.0\n")

	d := NewChangeDetector(DefaultDetectorConfig(root))
	_, err := d.PackageChanges([]string{"one/values.yaml"})
	require.NoError(t, err)

	mustWrite(t, filepath.Join(root, "two/Chart.yaml"), "name: two\nversion: 1.0.0\n")
	pcs, err := d.PackageChanges([]string{"two/values.yaml"})
	require.NoError(t, err)
	assert.Empty(t, pcs)
}

func TestBreakingChanges(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "services/billing/routes.js"), `
app.get('/api/invoices', list);
app.post('/api/invoices', create);
`)
	mustWrite(t, filepath.Join(root, "services/billing/util.js"), `
function helper() {}
`)

	d := NewChangeDetector(DefaultDetectorConfig(root))

	bcs := d.BreakingChanges([]string{
		"services/billing/routes.js",
		"services/billing/util.js",
		"services/billing/missing.js",
		"services/billing/values.yaml",
	})
	require.Len(t, bcs, 1)

	bc := bcs[0]
	assert.Equal(t, "services/billing/routes.js", bc.File)
	assert.Equal(t, changes.BreakingChangeAPIEndpoints, bc.Type)
	assert.Equal(t, changes.SeverityHigh, bc.Severity)
	assert.Equal(t, []string{"GET /api/invoices", "POST /api/invoices"}, bc.Endpoints)
	assert.Contains(t, bc.Message, "2 API endpoint(s)")
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
