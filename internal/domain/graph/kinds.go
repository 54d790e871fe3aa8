// Package graph provides domain types for the fleet infrastructure graph
// and the port through which impact queries and ingestion reach the store.
package graph

// NodeKind identifies a node label in the fleet graph.
type NodeKind string

const (
	// NodeCodeModule is a source file that participates in service calls.
	NodeCodeModule NodeKind = "CodeModule"
	// NodeDeploymentPackage is a named bundle of resource templates.
	NodeDeploymentPackage NodeKind = "DeploymentPackage"
	// NodeService is a named, addressable network endpoint.
	NodeService NodeKind = "Service"
	// NodeWorkload is a running unit backed by container images.
	NodeWorkload NodeKind = "Workload"
	// NodeIngress is an externally reachable entry point.
	NodeIngress NodeKind = "Ingress"
	// NodeImage is a container image referenced by a workload.
	NodeImage NodeKind = "Image"
	// NodeRegistryImage is an image as stored in a registry.
	NodeRegistryImage NodeKind = "RegistryImage"
	// NodeServiceAccount is a workload identity.
	NodeServiceAccount NodeKind = "ServiceAccount"
	// NodeNamespace is a cluster namespace.
	NodeNamespace NodeKind = "Namespace"
	// NodeNetworkPolicy is a traffic-restriction policy.
	NodeNetworkPolicy NodeKind = "NetworkPolicy"
	// NodeLoadBalancer is a fronting load balancer.
	NodeLoadBalancer NodeKind = "LoadBalancer"
)

// EdgeKind identifies a relationship type in the fleet graph.
type EdgeKind string

const (
	// EdgeCallsService links a CodeModule to a Service it calls.
	// Carries method and url properties.
	EdgeCallsService EdgeKind = "CALLS_SERVICE"
	// EdgeContainsCode links a DeploymentPackage to its CodeModules.
	EdgeContainsCode EdgeKind = "CONTAINS_CODE"
	// EdgeBelongsToPackage links a DeploymentPackage to resources it owns.
	EdgeBelongsToPackage EdgeKind = "BELONGS_TO_PACKAGE"
	// EdgeConnectsTo links a Service to a Service it depends on at
	// runtime. Carries env_var and url properties.
	EdgeConnectsTo EdgeKind = "CONNECTS_TO"
	// EdgeExposedVia links a Service to an Ingress that exposes it.
	EdgeExposedVia EdgeKind = "EXPOSED_VIA"
	// EdgeTargets links a Service to the Workloads it routes to.
	EdgeTargets EdgeKind = "TARGETS"
	// EdgeUsesImage links a Workload to its container Images.
	EdgeUsesImage EdgeKind = "USES_IMAGE"
	// EdgeResource links a cluster to its Workloads.
	EdgeResource EdgeKind = "RESOURCE"
	// EdgeAppliesTo links a NetworkPolicy to the Workloads it governs.
	EdgeAppliesTo EdgeKind = "APPLIES_TO"
)
