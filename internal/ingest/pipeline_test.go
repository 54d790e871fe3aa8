package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetscope/fleetscope/internal/domain/graph"
	"github.com/fleetscope/fleetscope/internal/scan"
)

// stubIngestor records everything written through the upsert surface.
type stubIngestor struct {
	packages    []graph.PackageNode
	services    []graph.ServiceNode
	workloads   []graph.WorkloadNode
	ingresses   []graph.IngressNode
	images      []graph.ImageNode
	codeModules []graph.CodeModuleNode
	calls       []graph.ServiceCall
	connections []graph.ServiceConnection
	epochs      map[int64]int
}

func newStubIngestor() *stubIngestor {
	return &stubIngestor{epochs: make(map[int64]int)}
}

func (s *stubIngestor) UpsertPackage(_ context.Context, pkg graph.PackageNode, epoch int64) error {
	s.packages = append(s.packages, pkg)
	s.epochs[epoch]++
	return nil
}

func (s *stubIngestor) UpsertService(_ context.Context, svc graph.ServiceNode, epoch int64) error {
	s.services = append(s.services, svc)
	s.epochs[epoch]++
	return nil
}

func (s *stubIngestor) UpsertWorkload(_ context.Context, wl graph.WorkloadNode, epoch int64) error {
	s.workloads = append(s.workloads, wl)
	s.epochs[epoch]++
	return nil
}

func (s *stubIngestor) UpsertIngress(_ context.Context, ing graph.IngressNode, epoch int64) error {
	s.ingresses = append(s.ingresses, ing)
	s.epochs[epoch]++
	return nil
}

func (s *stubIngestor) UpsertImage(_ context.Context, img graph.ImageNode, epoch int64) error {
	s.images = append(s.images, img)
	s.epochs[epoch]++
	return nil
}

func (s *stubIngestor) UpsertCodeModule(_ context.Context, cm graph.CodeModuleNode, epoch int64) error {
	s.codeModules = append(s.codeModules, cm)
	s.epochs[epoch]++
	return nil
}

func (s *stubIngestor) LinkServiceCall(_ context.Context, call graph.ServiceCall, epoch int64) error {
	s.calls = append(s.calls, call)
	s.epochs[epoch]++
	return nil
}

func (s *stubIngestor) LinkServiceConnection(_ context.Context, conn graph.ServiceConnection, epoch int64) error {
	s.connections = append(s.connections, conn)
	s.epochs[epoch]++
	return nil
}

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestRunIngestsRepository(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "services/checkout/Chart.yaml",
		"name: checkout\nversion: 1.2.0\ndescription: Checkout service\nappVersion: \"3.4\"\n")
	writeFile(t, root, "services/checkout/values.yaml", `
namespace: shop
image:
  repository: registry.example.com/shop/checkout
  tag: "3.4.1"
service:
  type: ClusterIP
  port: 8080
ingress:
  enabled: true
  hosts:
    - host: shop.example.com
env:
  PAYMENT_SERVICE_URL: http://payment-service:8080
`)
	writeFile(t, root, "services/checkout/src/api.js",
		"fetch('http://inventory-service/api/stock');\n")

	store := newStubIngestor()
	fixed := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	pipeline := NewPipeline(store, scan.NewScanner(root),
		WithCluster("prod-east"), withClock(func() time.Time { return fixed }))

	stats, err := pipeline.Run(context.Background(), root)
	require.NoError(t, err)

	assert.NotEmpty(t, stats.RunID)
	assert.Equal(t, fixed.Unix(), stats.Epoch)
	assert.Equal(t, 1, stats.Packages)
	assert.Equal(t, 1, stats.Services)
	assert.Equal(t, 1, stats.Workloads)
	assert.Equal(t, 1, stats.Ingresses)
	assert.Equal(t, 1, stats.Connections)
	assert.Equal(t, 1, stats.CodeModules)
	assert.Equal(t, 1, stats.ServiceCalls)

	require.Len(t, store.packages, 1)
	assert.Equal(t, "checkout", store.packages[0].Name)
	assert.Equal(t, "services/checkout", store.packages[0].Path)
	assert.Equal(t, "1.2.0", store.packages[0].Version)

	require.Len(t, store.services, 1)
	assert.Equal(t, "shop", store.services[0].Namespace)
	assert.Equal(t, 8080, store.services[0].Port)

	require.Len(t, store.workloads, 1)
	assert.Equal(t, "prod-east", store.workloads[0].Cluster)
	assert.Equal(t, []string{"registry.example.com/shop/checkout:3.4.1"}, store.workloads[0].Images)

	require.Len(t, store.images, 1)
	assert.Equal(t, "registry.example.com", store.images[0].Registry)
	assert.Equal(t, "3.4.1", store.images[0].Tag)

	require.Len(t, store.ingresses, 1)
	assert.Equal(t, []string{"shop.example.com"}, store.ingresses[0].Hosts)
	assert.Equal(t, []string{"checkout"}, store.ingresses[0].Backends)

	require.Len(t, store.connections, 1)
	assert.Equal(t, "checkout", store.connections[0].From)
	assert.Equal(t, "payment-service", store.connections[0].To)
	assert.Equal(t, "PAYMENT_SERVICE_URL", store.connections[0].EnvVar)

	require.Len(t, store.codeModules, 1)
	assert.Equal(t, "services/checkout/src/api.js", store.codeModules[0].Path)
	assert.Equal(t, "checkout", store.codeModules[0].PackageName)

	require.Len(t, store.calls, 1)
	assert.Equal(t, "inventory", store.calls[0].Service)
	assert.Equal(t, "GET", store.calls[0].Method)

	// Everything in one run carries one epoch.
	assert.Len(t, store.epochs, 1)
}

func TestRunEmptyRepository(t *testing.T) {
	store := newStubIngestor()
	pipeline := NewPipeline(store, scan.NewScanner(t.TempDir()))

	root := t.TempDir()
	stats, err := pipeline.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Packages)
	assert.Equal(t, 0, stats.CodeModules)
}

func TestTopologyFromValuesDefaults(t *testing.T) {
	topo := topologyFromValues("billing", map[string]any{}, "")

	require.NotNil(t, topo.service)
	assert.Equal(t, "default", topo.service.Namespace)
	assert.Nil(t, topo.ingress)
	assert.Empty(t, topo.images)
}

func TestTopologyIngressDisabled(t *testing.T) {
	topo := topologyFromValues("billing", map[string]any{
		"ingress": map[string]any{"enabled": false, "hosts": []any{"x.example.com"}},
	}, "")
	assert.Nil(t, topo.ingress)
}

func TestRegistryOf(t *testing.T) {
	assert.Equal(t, "registry.example.com", registryOf("registry.example.com/shop/checkout"))
	assert.Equal(t, "localhost:5000", registryOf("localhost:5000/checkout"))
	assert.Equal(t, "", registryOf("nginx"))
	assert.Equal(t, "", registryOf("library/nginx"))
}

func TestOwningPackage(t *testing.T) {
	index := []packageRoot{
		{name: "checkout", root: "services/checkout"},
		{name: "billing", root: "services/billing"},
	}
	assert.Equal(t, "checkout", owningPackage(index, "services/checkout/src/api.js"))
	assert.Equal(t, "billing", owningPackage(index, "services/billing/app.py"))
	assert.Equal(t, "", owningPackage(index, "services/checkout-v2/app.js"))
	assert.Equal(t, "", owningPackage(index, "docs/README.md"))
}
