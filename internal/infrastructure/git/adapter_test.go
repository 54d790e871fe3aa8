package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetscope/fleetscope/internal/analysis"
)

// testRepo wraps a throwaway repository with helpers for staging commits.
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err, "failed to init test repo")

	return &testRepo{t: t, dir: dir, repo: repo}
}

func (r *testRepo) write(path, content string) {
	r.t.Helper()

	full := filepath.Join(r.dir, filepath.FromSlash(path))
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
}

func (r *testRepo) remove(path string) {
	r.t.Helper()
	require.NoError(r.t, os.Remove(filepath.Join(r.dir, filepath.FromSlash(path))))
}

// commit stages everything in the worktree and commits it, returning
// the commit hash.
func (r *testRepo) commit(message string) string {
	r.t.Helper()

	worktree, err := r.repo.Worktree()
	require.NoError(r.t, err)

	require.NoError(r.t, worktree.AddWithOptions(&gogit.AddOptions{All: true}))

	hash, err := worktree.Commit(message, &gogit.CommitOptions{
		All: true,
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(r.t, err, "failed to commit")

	return hash.String()
}

func diffsByPath(diffs []analysis.FileDiff) map[string]string {
	byPath := make(map[string]string, len(diffs))
	for _, d := range diffs {
		byPath[d.Path] = d.Status
	}
	return byPath
}

func TestOpenNotARepository(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.Error(t, err)
}

func TestDiffNameStatus(t *testing.T) {
	repo := newTestRepo(t)

	repo.write("services/checkout/Chart.yaml", "name: checkout\nversion: 1.0.0\n")
	repo.write("services/checkout/values.yaml", "replicas: 1\n")
	repo.write("services/billing/src/routes.js", "app.get('/api/invoices')\n")
	base := repo.commit("initial state")

	repo.write("services/checkout/values.yaml", "replicas: 3\n")
	repo.write("services/checkout/templates/deployment.yaml", "kind: Deployment\n")
	repo.remove("services/billing/src/routes.js")
	head := repo.commit("reconfigure checkout")

	adapter, err := Open(repo.dir)
	require.NoError(t, err)

	diffs, err := adapter.Diff(context.Background(), base, head)
	require.NoError(t, err)

	byPath := diffsByPath(diffs)
	assert.Equal(t, "M", byPath["services/checkout/values.yaml"])
	assert.Equal(t, "A", byPath["services/checkout/templates/deployment.yaml"])
	assert.Equal(t, "D", byPath["services/billing/src/routes.js"])
	assert.NotContains(t, byPath, "services/checkout/Chart.yaml")
}

func TestDiffRenameReportsNewPath(t *testing.T) {
	repo := newTestRepo(t)

	content := "app.get('/api/users')\napp.post('/api/users')\nmodule.exports = router\n"
	repo.write("services/user/src/old-routes.js", content)
	base := repo.commit("initial")

	repo.remove("services/user/src/old-routes.js")
	repo.write("services/user/src/routes.js", content)
	head := repo.commit("rename routes module")

	adapter, err := Open(repo.dir)
	require.NoError(t, err)

	diffs, err := adapter.Diff(context.Background(), base, head)
	require.NoError(t, err)

	byPath := diffsByPath(diffs)
	assert.Equal(t, "R100", byPath["services/user/src/routes.js"])
	assert.NotContains(t, byPath, "services/user/src/old-routes.js")
}

func TestDiffDefaultsHeadToHEAD(t *testing.T) {
	repo := newTestRepo(t)

	repo.write("infrastructure/helm/gateway/values.yaml", "port: 8080\n")
	base := repo.commit("initial")

	repo.write("infrastructure/helm/gateway/values.yaml", "port: 9090\n")
	repo.commit("bump port")

	adapter, err := Open(repo.dir)
	require.NoError(t, err)

	diffs, err := adapter.Diff(context.Background(), base, "")
	require.NoError(t, err)

	byPath := diffsByPath(diffs)
	assert.Equal(t, "M", byPath["infrastructure/helm/gateway/values.yaml"])
}

func TestDiffResolvesSymbolicRefs(t *testing.T) {
	repo := newTestRepo(t)

	repo.write("a.txt", "one\n")
	repo.commit("first")

	repo.write("b.txt", "two\n")
	repo.commit("second")

	adapter, err := Open(repo.dir)
	require.NoError(t, err)

	diffs, err := adapter.Diff(context.Background(), "HEAD~1", "HEAD")
	require.NoError(t, err)

	byPath := diffsByPath(diffs)
	assert.Equal(t, "A", byPath["b.txt"])
	assert.Len(t, diffs, 1)
}

func TestDiffUnknownRef(t *testing.T) {
	repo := newTestRepo(t)
	repo.write("a.txt", "one\n")
	repo.commit("first")

	adapter, err := Open(repo.dir)
	require.NoError(t, err)

	_, err = adapter.Diff(context.Background(), "no-such-ref", "HEAD")
	assert.Error(t, err)
}
