package ingest

import (
	"strings"

	"github.com/fleetscope/fleetscope/internal/domain/graph"
)

// chartTopology is what one package's values declare about runtime
// shape.
type chartTopology struct {
	service  *graph.ServiceNode
	workload *graph.WorkloadNode
	ingress  *graph.IngressNode
	images   []graph.ImageNode
}

// topologyFromValues reads the conventional values keys: `namespace`,
// `service.type`/`service.port`, `image.repository`/`image.tag`, and
// `ingress.enabled`/`ingress.hosts`. Packages that do not follow the
// conventions simply contribute less topology.
func topologyFromValues(packageName string, values map[string]any, cluster string) chartTopology {
	namespace := stringValue(values["namespace"])
	if namespace == "" {
		namespace = "default"
	}

	topo := chartTopology{
		service: &graph.ServiceNode{
			Name:        packageName,
			Namespace:   namespace,
			PackageName: packageName,
		},
		workload: &graph.WorkloadNode{
			Name:        packageName,
			Namespace:   namespace,
			PackageName: packageName,
			Cluster:     cluster,
		},
	}

	if svc, ok := values["service"].(map[string]any); ok {
		topo.service.Type = stringValue(svc["type"])
		topo.service.Port = intValue(svc["port"])
	}

	if img, ok := values["image"].(map[string]any); ok {
		repository := stringValue(img["repository"])
		if repository != "" {
			tag := stringValue(img["tag"])
			if tag == "" {
				tag = "latest"
			}
			ref := repository + ":" + tag
			topo.workload.Images = []string{ref}
			topo.images = []graph.ImageNode{{
				Name:     ref,
				Tag:      tag,
				Registry: registryOf(repository),
			}}
		}
	}

	if ing, ok := values["ingress"].(map[string]any); ok {
		if enabled, _ := ing["enabled"].(bool); enabled {
			topo.ingress = &graph.IngressNode{
				Name:        packageName,
				Namespace:   namespace,
				PackageName: packageName,
				Hosts:       ingressHosts(ing["hosts"]),
				Backends:    []string{packageName},
			}
		}
	}

	return topo
}

// registryOf returns the registry host of an image repository, or
// empty for Docker Hub shorthand references.
func registryOf(repository string) string {
	host, _, found := strings.Cut(repository, "/")
	if !found {
		return ""
	}
	// A registry host carries a dot or a port; anything else is a hub
	// namespace.
	if strings.ContainsAny(host, ".:") {
		return host
	}
	return ""
}

// ingressHosts reads both the plain list form and the structured
// `- host: example.com` form.
func ingressHosts(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var hosts []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if v != "" {
				hosts = append(hosts, v)
			}
		case map[string]any:
			if host := stringValue(v["host"]); host != "" {
				hosts = append(hosts, host)
			}
		}
	}
	return hosts
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
