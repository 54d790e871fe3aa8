package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestExtractJavaScriptCalls(t *testing.T) {
	content := `
const axios = require('axios');
fetch('http://user-service/api/users');
axios.post('http://payment-service/api/charge', body);
http.get('http://orders-service/api/orders');
const INVENTORY_SERVICE_URL = process.env.INVENTORY_SERVICE_URL || 'http://inventory-service:8080';
`
	calls := ExtractCalls(content, "javascript")
	require.Len(t, calls, 4)
	assert.Contains(t, calls, Call{Method: "GET", URL: "http://user-service/api/users"})
	assert.Contains(t, calls, Call{Method: "POST", URL: "http://payment-service/api/charge"})
	assert.Contains(t, calls, Call{Method: "GET", URL: "http://orders-service/api/orders"})
	assert.Contains(t, calls, Call{Method: "HTTP", URL: "http://inventory-service:8080"})
}

func TestExtractJavaScriptHostnameOptions(t *testing.T) {
	content := `
const req = http.request({
  hostname: 'billing-service',
  port: 8080,
  path: '/api/invoices',
});
`
	calls := ExtractCalls(content, "javascript")
	require.Len(t, calls, 1)
	assert.Equal(t, Call{Method: "REQUEST", URL: "http://billing-service"}, calls[0])
}

func TestExtractJavaScriptSkipsLocalEnvDefaults(t *testing.T) {
	content := `const DEBUG_URL = process.env.DEBUG_URL || 'http://localhost:9229';`
	assert.Empty(t, ExtractCalls(content, "javascript"))
}

func TestExtractPythonCalls(t *testing.T) {
	content := `
import requests
resp = requests.get('http://user-service/api/users')
resp = httpx.post('http://payment-service/api/charge')
data = urlopen('http://metrics-service/stats')
`
	calls := ExtractCalls(content, "python")
	require.Len(t, calls, 3)
	assert.Equal(t, Call{Method: "GET", URL: "http://user-service/api/users"}, calls[0])
	assert.Equal(t, Call{Method: "POST", URL: "http://payment-service/api/charge"}, calls[1])
	assert.Equal(t, Call{Method: "GET", URL: "http://metrics-service/stats"}, calls[2])
}

func TestExtractUnknownLanguage(t *testing.T) {
	assert.Nil(t, ExtractCalls("fetch('http://x')", "rust"))
}

func TestServiceNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://user-service:80/api/users", "user"},
		{"http://user-service.default.svc.cluster.local/api", "user-service"},
		{"user-service.default.svc.cluster.local", "user-service"},
		{"https://api.example.com", "api.example.com"},
		{"http://payments:8080", "payments"},
		{"billing_service:9000", "billing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ServiceNameFromURL(tt.url))
		})
	}
}

func TestScanWalksAndExtracts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "services/web/src/api.js",
		"fetch('http://checkout-service/cart');\n")
	writeFile(t, root, "services/worker/jobs.py",
		"requests.post('http://email-service/send')\n")
	writeFile(t, root, "services/web/README.md", "fetch('http://not-scanned/')\n")
	writeFile(t, root, "node_modules/pkg/index.js", "fetch('http://skipped/')\n")
	writeFile(t, root, "services/api/empty.js", "const x = 1;\n")

	scanner := NewScanner(root)
	modules, err := scanner.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, modules, 2)
	assert.Equal(t, "services/web/src/api.js", modules[0].Path)
	assert.Equal(t, "javascript", modules[0].Language)
	assert.Equal(t, "services/worker/jobs.py", modules[1].Path)
	assert.Equal(t, "python", modules[1].Language)
	require.Len(t, modules[1].Calls, 1)
	assert.Equal(t, "POST", modules[1].Calls[0].Method)
}

func TestScanEmptyTree(t *testing.T) {
	scanner := NewScanner(t.TempDir())
	modules, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, modules)
}
