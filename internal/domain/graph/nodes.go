package graph

// Ingestion records. Each upsert stamps firstseen on first observation
// and lastupdated with the current epoch on every touch.

// PackageNode is a deployment package observed in the repository.
type PackageNode struct {
	Name        string
	Path        string
	Version     string
	Description string
	AppVersion  string
}

// ServiceNode is a service declared by a deployment package.
type ServiceNode struct {
	Name        string
	Namespace   string
	PackageName string
	Type        string
	Port        int
}

// WorkloadNode is a running unit declared by a deployment package.
type WorkloadNode struct {
	Name        string
	Namespace   string
	PackageName string
	Cluster     string
	Images      []string
}

// IngressNode is an entry point declared by a deployment package.
type IngressNode struct {
	Name        string
	Namespace   string
	PackageName string
	Hosts       []string
	Backends    []string
}

// ImageNode is a container image referenced by a workload.
type ImageNode struct {
	Name     string
	Tag      string
	Registry string
}

// CodeModuleNode is a source file that calls services.
type CodeModuleNode struct {
	Path        string
	Name        string
	Language    string
	PackageName string
}

// ServiceCall is a CALLS_SERVICE edge from a code module to a service.
type ServiceCall struct {
	CodePath string
	Service  string
	Method   string
	URL      string
}

// ServiceConnection is a CONNECTS_TO edge between two services,
// declared through a workload environment variable.
type ServiceConnection struct {
	From   string
	To     string
	EnvVar string
	URL    string
}
