package helm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "services/checkout/helm/Chart.yaml"),
		"name: checkout\nversion: 1.2.3\ndescription: checkout service\nappVersion: 2.0.0\n")
	writeFile(t, filepath.Join(root, "services/billing/helm/Chart.yaml"),
		"name: billing\nversion: 0.1.0\n")
	// Hidden and cache directories must be skipped.
	writeFile(t, filepath.Join(root, ".cache/bad/Chart.yaml"), "name: hidden\n")
	writeFile(t, filepath.Join(root, "node_modules/dep/Chart.yaml"), "name: dep\n")
	// Not a descriptor.
	writeFile(t, filepath.Join(root, "services/checkout/README.md"), "docs\n")

	charts, err := Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, charts, 2)

	names := map[string]string{}
	for _, c := range charts {
		names[c.Name()] = c.RelPath
	}
	assert.Equal(t, "services/checkout/helm", names["checkout"])
	assert.Equal(t, "services/billing/helm", names["billing"])
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	assert.Error(t, err)
}

func TestDiscoverSkipsInvalidDescriptor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "good/Chart.yaml"), "name: good\nversion: 1.0.0\n")
	writeFile(t, filepath.Join(root, "bad/Chart.yaml"), "{not yaml: [\n")

	charts, err := Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, "good", charts[0].Name())
}

func TestChartNameFallsBackToDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "unnamed/Chart.yaml"), "version: 1.0.0\n")

	charts, err := Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, "unnamed", charts[0].Name())
}

func TestChartValues(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc/Chart.yaml"), "name: svc\nversion: 1.0.0\n")
	writeFile(t, filepath.Join(root, "svc/values.yaml"),
		"replicaCount: 2\nenv:\n  USER_SERVICE_URL: http://user-service:8080\n")

	charts, err := Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, charts, 1)

	values, err := charts[0].Values()
	require.NoError(t, err)
	assert.Equal(t, 2, values["replicaCount"])

	// Memoized: second call returns the same map.
	again, err := charts[0].Values()
	require.NoError(t, err)
	assert.Equal(t, values, again)
}

func TestChartValuesMissingFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc/Chart.yaml"), "name: svc\nversion: 1.0.0\n")

	charts, err := Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, charts, 1)

	values, err := charts[0].Values()
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestChartConnections(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "gateway/Chart.yaml"), "name: api-gateway\nversion: 1.0.0\n")
	writeFile(t, filepath.Join(root, "gateway/values.yaml"), `
env:
  USER_SERVICE_URL: http://user-service:8080
  PAYMENT_URL: payment-service:9000
  DEBUG_HOST: http://localhost:3000
  METRICS_ADDR: http://127.0.0.1:9090
  LOG_LEVEL: debug
replicas: 3
`)

	charts, err := Discover(root, nil)
	require.NoError(t, err)
	require.Len(t, charts, 1)

	conns, err := charts[0].Connections()
	require.NoError(t, err)

	targets := map[string]string{}
	for _, conn := range conns {
		assert.Equal(t, "api-gateway", conn.From)
		targets[conn.To] = conn.EnvVar
	}
	assert.Equal(t, "USER_SERVICE_URL", targets["user-service"])
	assert.Equal(t, "PAYMENT_URL", targets["payment-service"])
	assert.NotContains(t, targets, "localhost")
	assert.NotContains(t, targets, "127")
	assert.NotContains(t, targets, "debug")
	assert.Len(t, targets, 2)
}

func TestChartConnectionsNoEnv(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc/Chart.yaml"), "name: svc\nversion: 1.0.0\n")
	writeFile(t, filepath.Join(root, "svc/values.yaml"), "replicas: 1\n")

	charts, err := Discover(root, nil)
	require.NoError(t, err)
	conns, err := charts[0].Connections()
	require.NoError(t, err)
	assert.Empty(t, conns)
}
