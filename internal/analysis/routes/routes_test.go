package routes

import (
	"reflect"
	"testing"
)

func TestStyleForPath(t *testing.T) {
	tests := []struct {
		path  string
		style Style
		ok    bool
	}{
		{"services/api/server.js", StyleChainedCall, true},
		{"services/api/server.ts", StyleChainedCall, true},
		{"services/api/app.py", StyleDecorator, true},
		{"services/api/main.go", 0, false},
		{"README.md", 0, false},
		{"templates/deployment.yaml", 0, false},
	}

	for _, tt := range tests {
		style, ok := StyleForPath(tt.path)
		if ok != tt.ok {
			t.Errorf("StyleForPath(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			continue
		}
		if ok && style != tt.style {
			t.Errorf("StyleForPath(%q) = %v, want %v", tt.path, style, tt.style)
		}
	}
}

func TestExtractEndpointsChainedCall(t *testing.T) {
	content := `
const express = require('express');
const app = express();

app.get('/api/users', listUsers);
app.post('/api/users', createUser);
router.delete("/api/users/:id", deleteUser);
fastify.put('/api/users/:id', updateUser);

// registration duplicated elsewhere
app.get('/api/users', listUsers);
`
	got := ExtractEndpoints(content, StyleChainedCall)
	want := []string{
		"DELETE /api/users/:id",
		"GET /api/users",
		"POST /api/users",
		"PUT /api/users/:id",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractEndpoints = %v, want %v", got, want)
	}
}

func TestExtractEndpointsDecorator(t *testing.T) {
	content := `
from fastapi import FastAPI

app = FastAPI()

@app.get('/api/invoices')
def list_invoices():
    pass

@router.post("/api/invoices")
def create_invoice():
    pass
`
	got := ExtractEndpoints(content, StyleDecorator)
	want := []string{
		"GET /api/invoices",
		"POST /api/invoices",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractEndpoints = %v, want %v", got, want)
	}
}

func TestExtractEndpointsFlaskMethodsList(t *testing.T) {
	content := `@app.route('/api/orders', methods=['GET', 'POST'])
def orders():
    pass
`
	got := ExtractEndpoints(content, StyleDecorator)
	want := []string{
		"GET /api/orders",
		"POST /api/orders",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractEndpoints = %v, want %v", got, want)
	}
}

func TestExtractEndpointsNoRoutes(t *testing.T) {
	content := `function add(a, b) { return a + b; }`
	if got := ExtractEndpoints(content, StyleChainedCall); got != nil {
		t.Errorf("ExtractEndpoints = %v, want nil", got)
	}
}

func TestEndpointPath(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"GET /api/users", "/api/users"},
		{"DELETE /api/users/:id", "/api/users/:id"},
		{"/bare/path", "/bare/path"},
	}

	for _, tt := range tests {
		if got := EndpointPath(tt.endpoint); got != tt.want {
			t.Errorf("EndpointPath(%q) = %q, want %q", tt.endpoint, got, tt.want)
		}
	}
}
