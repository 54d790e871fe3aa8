package graph

import (
	"github.com/fleetscope/fleetscope/internal/domain/changes"
)

// ComponentImpact describes a code module matched against a changed file,
// together with the services it calls and the services its owning
// deployment package declares.
type ComponentImpact struct {
	CodeFile      string   `json:"codeFile"`
	FileName      string   `json:"fileName"`
	Language      string   `json:"language"`
	PackageName   string   `json:"packageName,omitempty"`
	CallsServices []string `json:"callsServices"`
	OwnsServices  []string `json:"ownsServices"`
}

// CodeCaller is a code module calling a service directly.
type CodeCaller struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	URL    string `json:"url"`
}

// ServiceCaller is a service with a declared runtime dependency on
// another service.
type ServiceCaller struct {
	Service   string `json:"service"`
	Namespace string `json:"namespace"`
	EnvVar    string `json:"envVar"`
}

// TransitiveCaller is a service reachable through a dependency chain of
// two or three hops. The same service may appear once per hop count.
type TransitiveCaller struct {
	Service string `json:"service"`
	Hops    int    `json:"hops"`
}

// BlastRadius captures everything that depends on one service.
type BlastRadius struct {
	Service              string             `json:"service"`
	Namespace            string             `json:"namespace"`
	PackageName          string             `json:"packageName,omitempty"`
	ClusterName          string             `json:"clusterName,omitempty"`
	IsPubliclyExposed    bool               `json:"isPubliclyExposed"`
	IngressHosts         []string           `json:"ingressHosts,omitempty"`
	DirectCodeCallers    []CodeCaller       `json:"directCodeCallers"`
	DirectServiceCallers []ServiceCaller    `json:"directServiceCallers"`
	TransitiveCallers    []TransitiveCaller `json:"transitiveCallers"`
}

// CallerCount returns the total number of dependents across all three
// caller categories.
func (b BlastRadius) CallerCount() int {
	return len(b.DirectCodeCallers) + len(b.DirectServiceCallers) + len(b.TransitiveCallers)
}

// BreakingImpact is a service call that collides with a modified route.
type BreakingImpact struct {
	CodeFile    string           `json:"codeFile"`
	PackageName string           `json:"packageName,omitempty"`
	Method      string           `json:"method"`
	URL         string           `json:"url"`
	Severity    changes.Severity `json:"severity"`
}

// RiskRecord holds the computed risk for one service.
type RiskRecord struct {
	Service           string           `json:"service"`
	CodeCallers       int              `json:"codeCallers"`
	ServiceCallers    int              `json:"serviceCallers"`
	TransitiveCallers int              `json:"transitiveCallers"`
	IsPubliclyExposed bool             `json:"isPubliclyExposed"`
	Score             int              `json:"riskScore"`
	Level             changes.Severity `json:"riskLevel"`
}

// Recommendation holds the deployment strategy advice for one service.
type Recommendation struct {
	Service         string `json:"service"`
	DependentCount  int    `json:"dependentCount"`
	IsPublic        bool   `json:"isPublic"`
	Strategy        string `json:"recommendation"`
	TestingPriority string `json:"testingPriority"`
}

// PackageImpact enumerates what one deployment package owns and who
// depends on it.
type PackageImpact struct {
	PackageName       string   `json:"packageName"`
	Services          []string `json:"services"`
	Workloads         []string `json:"workloads"`
	Ingresses         []string `json:"ingresses"`
	CodeModules       []string `json:"codeModules"`
	DependentServices []string `json:"dependentServices"`
	ExternalCallers   []string `json:"externalCallers"`
	IsPubliclyExposed bool     `json:"isPubliclyExposed"`
}

// ImageImpact lists the container images of one workload owned by a
// changed package.
type ImageImpact struct {
	PackageName string   `json:"packageName"`
	Workload    string   `json:"workload"`
	Images      []string `json:"images"`
	// InRegistry is true when at least one image resolves to a known
	// registry image.
	InRegistry bool `json:"inRegistry"`
}

// NetworkPolicyImpact lists the policies governing one workload of a
// changed package and the other workloads those policies also govern.
type NetworkPolicyImpact struct {
	PackageName         string   `json:"packageName"`
	Workload            string   `json:"workload"`
	Policies            []string `json:"policies"`
	CoAffectedWorkloads []string `json:"coAffectedWorkloads"`
}

// IngressImpact describes the exposure surface of one ingress owned by
// a changed package. Any ingress change is maximally severe.
type IngressImpact struct {
	PackageName     string           `json:"packageName"`
	Ingress         string           `json:"ingress"`
	Hosts           []string         `json:"hosts,omitempty"`
	BackendServices []string         `json:"backendServices"`
	LoadBalancer    string           `json:"loadBalancer,omitempty"`
	ExternalCallers []string         `json:"externalCallers"`
	Severity        changes.Severity `json:"severity"`
}
