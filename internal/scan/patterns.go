package scan

import (
	"regexp"
	"strings"
)

// Call is one outbound HTTP call extracted from source text.
type Call struct {
	Method string
	URL    string
}

// The chained-call family covers fetch, axios, and node http clients;
// the Python family covers requests, httpx, and urlopen. Extraction is
// line level and best effort: a miss costs one graph edge, never the
// scan.
var (
	fetchPattern      = regexp.MustCompile(`(?i)fetch\s*\(\s*["']([^"']+)["']`)
	axiosPattern      = regexp.MustCompile(`(?i)axios\.(get|post|put|delete|patch)\s*\(\s*["']([^"']+)["']`)
	nodeHTTPPattern   = regexp.MustCompile(`(?i)http\.(request|get|post)\s*\(\s*["']([^"']+)["']`)
	nodeHostPattern   = regexp.MustCompile(`(?i)http\.(request|get|post)\s*\(\s*\{[^}]*hostname\s*:\s*["']([^"']+)["']`)
	envVarDefPattern  = regexp.MustCompile(`(?i)(?:const|let|var)\s+(\w+_SERVICE_URL|\w+_API_URL|\w+_URL)\s*=\s*process\.env\.\w+\s*\|\|\s*["']([^"']+)["']`)
	pyRequestsPattern = regexp.MustCompile(`(?i)(?:requests|httpx)\.(get|post|put|delete|patch)\s*\(\s*["']([^"']+)["']`)
	pyURLOpenPattern  = regexp.MustCompile(`(?i)urlopen\s*\(\s*["']([^"']+)["']`)
)

// localHosts are never service endpoints.
var localHosts = []string{"localhost", "127.0.0.1", "0.0.0.0", "::1"}

// ExtractCalls scans source text for outbound HTTP calls in the given
// language ("javascript" or "python").
func ExtractCalls(content, language string) []Call {
	switch language {
	case languageJavaScript:
		return extractJavaScriptCalls(content)
	case languagePython:
		return extractPythonCalls(content)
	default:
		return nil
	}
}

func extractJavaScriptCalls(content string) []Call {
	var calls []Call
	for _, line := range strings.Split(content, "\n") {
		for _, m := range fetchPattern.FindAllStringSubmatch(line, -1) {
			calls = append(calls, Call{Method: "GET", URL: m[1]})
		}
		for _, m := range axiosPattern.FindAllStringSubmatch(line, -1) {
			calls = append(calls, Call{Method: strings.ToUpper(m[1]), URL: m[2]})
		}
		for _, m := range nodeHTTPPattern.FindAllStringSubmatch(line, -1) {
			calls = append(calls, Call{Method: strings.ToUpper(m[1]), URL: m[2]})
		}
		for _, m := range envVarDefPattern.FindAllStringSubmatch(line, -1) {
			if looksLikeServiceURL(m[2]) {
				calls = append(calls, Call{Method: "HTTP", URL: m[2]})
			}
		}
	}
	// The options-object form spans lines, so it runs over the whole
	// content.
	for _, m := range nodeHostPattern.FindAllStringSubmatch(content, -1) {
		calls = append(calls, Call{Method: strings.ToUpper(m[1]), URL: "http://" + m[2]})
	}
	return calls
}

func extractPythonCalls(content string) []Call {
	var calls []Call
	for _, line := range strings.Split(content, "\n") {
		for _, m := range pyRequestsPattern.FindAllStringSubmatch(line, -1) {
			calls = append(calls, Call{Method: strings.ToUpper(m[1]), URL: m[2]})
		}
		for _, m := range pyURLOpenPattern.FindAllStringSubmatch(line, -1) {
			calls = append(calls, Call{Method: "GET", URL: m[1]})
		}
	}
	return calls
}

// looksLikeServiceURL rejects local endpoints and bare strings that
// carry no service-addressing shape.
func looksLikeServiceURL(url string) bool {
	if url == "" {
		return false
	}
	lower := strings.ToLower(url)
	for _, host := range localHosts {
		if strings.Contains(lower, host) {
			return false
		}
	}
	return strings.Contains(lower, "-service") ||
		strings.Contains(lower, ".svc.") ||
		strings.Contains(lower, "http://") ||
		strings.Contains(lower, "https://")
}

// ServiceNameFromURL extracts the target service name from a call URL.
// Kubernetes DNS forms resolve to their first label; otherwise the
// hostname is taken with the port stripped and a -service/_service
// suffix trimmed.
func ServiceNameFromURL(url string) string {
	if url == "" {
		return ""
	}

	if idx := strings.Index(url, ".svc.cluster.local"); idx >= 0 {
		host := url[:idx]
		if schemeEnd := strings.Index(host, "://"); schemeEnd >= 0 {
			host = host[schemeEnd+3:]
		}
		name, _, _ := strings.Cut(host, ".")
		return name
	}

	host := url
	if schemeEnd := strings.Index(host, "://"); schemeEnd >= 0 {
		host = host[schemeEnd+3:]
	}
	host, _, _ = strings.Cut(host, "/")
	host, _, _ = strings.Cut(host, ":")
	if host == "" {
		return ""
	}

	host = strings.TrimSuffix(host, "-service")
	host = strings.TrimSuffix(host, "_service")
	return host
}
