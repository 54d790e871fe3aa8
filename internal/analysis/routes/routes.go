// Package routes extracts web-framework route declarations from source
// text. Matching is best-effort pattern scanning, not parsing; it
// detects presence of endpoints, never their removal.
package routes

import (
	"path"
	"regexp"
	"sort"
	"strings"
)

// Style is the route-declaration idiom family of a source language.
type Style int

const (
	// StyleChainedCall matches app.get('/path', ...) declarations.
	StyleChainedCall Style = iota
	// StyleDecorator matches @app.get("/path") and
	// @app.route("/path", methods=[...]) declarations.
	StyleDecorator
)

// chainedCallPatterns match Express/Fastify-style registrations.
var chainedCallPatterns = []*regexp.Regexp{
	regexp.MustCompile(`app\.(get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`router\.(get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`fastify\.(get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)['"]`),
}

// decoratorRoutePattern matches Flask-style @app.route with an explicit
// methods list.
var decoratorRoutePattern = regexp.MustCompile(`@app\.route\s*\(\s*['"]([^'"]+)['"].*?methods\s*=\s*\[([^\]]+)\]`)

// decoratorMethodPatterns match FastAPI-style per-method decorators.
var decoratorMethodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`@app\.(get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)['"]`),
	regexp.MustCompile(`@router\.(get|post|put|delete|patch)\s*\(\s*['"]([^'"]+)['"]`),
}

// styleByExtension maps source file extensions to their idiom family.
var styleByExtension = map[string]Style{
	".js": StyleChainedCall,
	".ts": StyleChainedCall,
	".py": StyleDecorator,
}

// StyleForPath returns the route idiom family for a source file, or
// false if the file is not a scannable source file.
func StyleForPath(filePath string) (Style, bool) {
	style, ok := styleByExtension[path.Ext(filePath)]
	return style, ok
}

// ExtractEndpoints scans source text for route declarations and returns
// the sorted, deduplicated set of "METHOD path" strings found.
func ExtractEndpoints(content string, style Style) []string {
	found := make(map[string]struct{})

	switch style {
	case StyleChainedCall:
		for _, p := range chainedCallPatterns {
			for _, m := range p.FindAllStringSubmatch(content, -1) {
				found[strings.ToUpper(m[1])+" "+m[2]] = struct{}{}
			}
		}
	case StyleDecorator:
		for _, m := range decoratorRoutePattern.FindAllStringSubmatch(content, -1) {
			routePath := m[1]
			for _, method := range strings.Split(m[2], ",") {
				method = strings.Trim(strings.TrimSpace(method), `'"`)
				if method == "" {
					continue
				}
				found[strings.ToUpper(method)+" "+routePath] = struct{}{}
			}
		}
		for _, p := range decoratorMethodPatterns {
			for _, m := range p.FindAllStringSubmatch(content, -1) {
				found[strings.ToUpper(m[1])+" "+m[2]] = struct{}{}
			}
		}
	}

	if len(found) == 0 {
		return nil
	}
	endpoints := make([]string, 0, len(found))
	for e := range found {
		endpoints = append(endpoints, e)
	}
	sort.Strings(endpoints)
	return endpoints
}

// EndpointPath strips the method from a "METHOD path" endpoint string.
func EndpointPath(endpoint string) string {
	if _, p, ok := strings.Cut(endpoint, " "); ok {
		return p
	}
	return endpoint
}
