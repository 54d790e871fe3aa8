package helm

import (
	"regexp"
	"strings"

	"github.com/fleetscope/fleetscope/internal/domain/graph"
)

// serviceURLPatterns match service endpoints in environment values.
// A candidate needs a scheme or a port; bare words are not endpoints.
var serviceURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://([a-zA-Z0-9-]+)(?::\d+)?`),
	regexp.MustCompile(`\b([a-zA-Z0-9-]+):(\d+)\b`),
}

// nonServiceHosts are hostname tokens that never name a service.
var nonServiceHosts = map[string]struct{}{
	"localhost": {},
	"http":      {},
	"https":     {},
}

// Connections extracts declared service-to-service dependencies from a
// package's environment values. Each env entry whose value looks like a
// service URL yields one connection from this package's service to the
// named target.
func (c *Chart) Connections() ([]graph.ServiceConnection, error) {
	values, err := c.Values()
	if err != nil {
		return nil, err
	}

	env, ok := values["env"].(map[string]any)
	if !ok {
		return nil, nil
	}

	var conns []graph.ServiceConnection
	for envVar, raw := range env {
		value, ok := raw.(string)
		if !ok {
			continue
		}
		seen := make(map[string]struct{})
		for _, p := range serviceURLPatterns {
			for _, m := range p.FindAllStringSubmatch(value, -1) {
				target := m[1]
				if target == "" || isNonServiceHost(target) {
					continue
				}
				if _, dup := seen[target]; dup {
					continue
				}
				seen[target] = struct{}{}
				conns = append(conns, graph.ServiceConnection{
					From:   c.Name(),
					To:     target,
					EnvVar: envVar,
					URL:    value,
				})
			}
		}
	}
	return conns, nil
}

func isNonServiceHost(host string) bool {
	if _, hit := nonServiceHosts[strings.ToLower(host)]; hit {
		return true
	}
	// Numeric tokens come from IP addresses and ports, never services.
	for _, r := range host {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
