package graph

import "context"

// Querier runs the bounded-traversal impact queries. Every query is
// scoped to one store transaction; traversal depth is explicit in the
// query, never unbounded.
type Querier interface {
	// FindAffectedComponents matches code modules against changed file
	// paths and resolves their packages and called/owned services.
	FindAffectedComponents(ctx context.Context, changedFiles []string) ([]ComponentImpact, error)

	// CalculateBlastRadius gathers direct and transitive dependents of
	// each named service, out to three hops.
	CalculateBlastRadius(ctx context.Context, serviceNames []string) ([]BlastRadius, error)

	// CheckBreakingChanges returns the service calls whose stored URL
	// collides with any of the given endpoint paths.
	CheckBreakingChanges(ctx context.Context, serviceName string, endpointPaths []string) ([]BreakingImpact, error)

	// CalculateRiskScores computes the risk record for each named service.
	CalculateRiskScores(ctx context.Context, serviceNames []string) ([]RiskRecord, error)

	// DeploymentRecommendations derives strategy advice for each named
	// service.
	DeploymentRecommendations(ctx context.Context, serviceNames []string) ([]Recommendation, error)

	// AnalyzePackageImpact resolves each named package (exact name or
	// path substring) to the resources it owns and its dependents.
	AnalyzePackageImpact(ctx context.Context, packageNames []string) ([]PackageImpact, error)

	// AnalyzeImageChanges lists per-workload images of each named
	// package with registry linkage.
	AnalyzeImageChanges(ctx context.Context, packageNames []string) ([]ImageImpact, error)

	// AnalyzeNetworkPolicyImpact lists applicable network policies and
	// co-affected workloads for each named package.
	AnalyzeNetworkPolicyImpact(ctx context.Context, packageNames []string) ([]NetworkPolicyImpact, error)

	// AnalyzeIngressChanges lists the exposure surface of each named
	// package's ingresses. Results always carry CRITICAL severity.
	AnalyzeIngressChanges(ctx context.Context, packageNames []string) ([]IngressImpact, error)
}

// Ingestor writes fleet topology into the store. Upserts are keyed by
// natural identity (path or name+namespace) and stamp firstseen once
// and lastupdated on every call with the given epoch.
type Ingestor interface {
	UpsertPackage(ctx context.Context, pkg PackageNode, epoch int64) error
	UpsertService(ctx context.Context, svc ServiceNode, epoch int64) error
	UpsertWorkload(ctx context.Context, wl WorkloadNode, epoch int64) error
	UpsertIngress(ctx context.Context, ing IngressNode, epoch int64) error
	UpsertImage(ctx context.Context, img ImageNode, epoch int64) error
	UpsertCodeModule(ctx context.Context, cm CodeModuleNode, epoch int64) error

	LinkServiceCall(ctx context.Context, call ServiceCall, epoch int64) error
	LinkServiceConnection(ctx context.Context, conn ServiceConnection, epoch int64) error
}

// Store combines querying and ingestion with lifecycle management.
type Store interface {
	Querier
	Ingestor

	// VerifyConnectivity checks the store is reachable. A failure here
	// is fatal: nothing can run without the store.
	VerifyConnectivity(ctx context.Context) error

	// Close releases the underlying driver.
	Close(ctx context.Context) error
}
