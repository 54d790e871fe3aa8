package neo4j

import (
	"context"

	"github.com/fleetscope/fleetscope/internal/domain/changes"
	"github.com/fleetscope/fleetscope/internal/domain/graph"
)

const findAffectedComponentsCypher = `
WITH $changedFiles AS files
UNWIND files AS file
MATCH (cm:CodeModule)
WHERE cm.path CONTAINS file OR cm.path ENDS WITH file
OPTIONAL MATCH (cm)<-[:CONTAINS_CODE]-(dp:DeploymentPackage)
OPTIONAL MATCH (cm)-[:CALLS_SERVICE]->(s:Service)
OPTIONAL MATCH (dp)-[:BELONGS_TO_PACKAGE]->(owned:Service)
RETURN DISTINCT
    cm.path AS codeFile,
    cm.name AS fileName,
    cm.language AS language,
    dp.name AS packageName,
    [x IN collect(DISTINCT s.name) WHERE x IS NOT NULL] AS callsServices,
    [x IN collect(DISTINCT owned.name) WHERE x IS NOT NULL] AS ownsServices`

// FindAffectedComponents matches code modules against changed file
// paths and resolves their owning package and called/owned services.
func (s *Store) FindAffectedComponents(ctx context.Context, changedFiles []string) ([]graph.ComponentImpact, error) {
	const op = "neo4j.FindAffectedComponents"

	if len(changedFiles) == 0 {
		return nil, nil
	}

	records, err := s.read(ctx, op, findAffectedComponentsCypher, map[string]any{
		"changedFiles": changedFiles,
	})
	if err != nil {
		return nil, err
	}

	impacts := make([]graph.ComponentImpact, 0, len(records))
	for _, rec := range records {
		impacts = append(impacts, graph.ComponentImpact{
			CodeFile:      asString(recordValue(rec, "codeFile")),
			FileName:      asString(recordValue(rec, "fileName")),
			Language:      asString(recordValue(rec, "language")),
			PackageName:   asString(recordValue(rec, "packageName")),
			CallsServices: asStringList(recordValue(rec, "callsServices")),
			OwnsServices:  asStringList(recordValue(rec, "ownsServices")),
		})
	}
	return impacts, nil
}

const blastRadiusCypher = `
WITH $serviceNames AS services
UNWIND services AS serviceName
MATCH (s:Service {name: serviceName})
OPTIONAL MATCH (cm:CodeModule)-[r1:CALLS_SERVICE]->(s)
WITH s, [c IN collect(DISTINCT {path: cm.path, method: r1.method, url: r1.url})
         WHERE c.path IS NOT NULL] AS directCodeCallers
OPTIONAL MATCH (s1:Service)-[r2:CONNECTS_TO]->(s)
WITH s, directCodeCallers,
     [c IN collect(DISTINCT {service: s1.name, namespace: s1.namespace, envVar: r2.env_var})
      WHERE c.service IS NOT NULL] AS directServiceCallers
OPTIONAL MATCH path = (s2:Service)-[:CONNECTS_TO*2..3]->(s)
WITH s, directCodeCallers, directServiceCallers,
     [c IN collect(DISTINCT {service: s2.name, hops: length(path)})
      WHERE c.service IS NOT NULL] AS transitiveCallers
OPTIONAL MATCH (s)-[:EXPOSED_VIA]->(ing:Ingress)
WITH s, directCodeCallers, directServiceCallers, transitiveCallers,
     count(ing) > 0 AS isPublic,
     reduce(hosts = [], i IN collect(DISTINCT ing) | hosts + coalesce(i.hosts, [])) AS ingressHosts
OPTIONAL MATCH (s)-[:TARGETS]->(w:Workload)
OPTIONAL MATCH (w)<-[:RESOURCE]-(cluster)
RETURN s.name AS service,
       s.namespace AS namespace,
       s.package_name AS packageName,
       head([c IN collect(DISTINCT cluster.name) WHERE c IS NOT NULL]) AS clusterName,
       isPublic, ingressHosts,
       directCodeCallers, directServiceCallers, transitiveCallers`

// CalculateBlastRadius gathers the dependents of each named service:
// direct code callers, direct service callers, and services reachable
// through dependency chains of exactly two or three hops. The same
// transitive caller may appear once per hop count.
func (s *Store) CalculateBlastRadius(ctx context.Context, serviceNames []string) ([]graph.BlastRadius, error) {
	const op = "neo4j.CalculateBlastRadius"

	if len(serviceNames) == 0 {
		return nil, nil
	}

	records, err := s.read(ctx, op, blastRadiusCypher, map[string]any{
		"serviceNames": serviceNames,
	})
	if err != nil {
		return nil, err
	}

	radii := make([]graph.BlastRadius, 0, len(records))
	for _, rec := range records {
		radius := graph.BlastRadius{
			Service:           asString(recordValue(rec, "service")),
			Namespace:         asString(recordValue(rec, "namespace")),
			PackageName:       asString(recordValue(rec, "packageName")),
			ClusterName:       asString(recordValue(rec, "clusterName")),
			IsPubliclyExposed: asBool(recordValue(rec, "isPublic")),
			IngressHosts:      asStringList(recordValue(rec, "ingressHosts")),
		}
		for _, m := range asMapList(recordValue(rec, "directCodeCallers")) {
			radius.DirectCodeCallers = append(radius.DirectCodeCallers, graph.CodeCaller{
				Path:   asString(m["path"]),
				Method: asString(m["method"]),
				URL:    asString(m["url"]),
			})
		}
		for _, m := range asMapList(recordValue(rec, "directServiceCallers")) {
			radius.DirectServiceCallers = append(radius.DirectServiceCallers, graph.ServiceCaller{
				Service:   asString(m["service"]),
				Namespace: asString(m["namespace"]),
				EnvVar:    asString(m["envVar"]),
			})
		}
		for _, m := range asMapList(recordValue(rec, "transitiveCallers")) {
			radius.TransitiveCallers = append(radius.TransitiveCallers, graph.TransitiveCaller{
				Service: asString(m["service"]),
				Hops:    asInt(m["hops"]),
			})
		}
		radii = append(radii, radius)
	}
	return radii, nil
}

const breakingChangesCypher = `
WITH $serviceName AS svcName, $endpoints AS endpoints
MATCH (s:Service {name: svcName})
MATCH (cm:CodeModule)-[r:CALLS_SERVICE]->(s)
OPTIONAL MATCH (cm)<-[:CONTAINS_CODE]-(dp:DeploymentPackage)
WITH cm, dp, r, endpoints,
     any(endpoint IN endpoints WHERE r.url CONTAINS endpoint OR endpoint CONTAINS r.url) AS isAffected
WHERE isAffected
RETURN DISTINCT
    cm.path AS codeFile,
    dp.name AS packageName,
    r.method AS method,
    r.url AS url`

// CheckBreakingChanges returns the stored service calls whose URL
// collides with any of the given endpoint paths. The match is a
// substring check in both directions, so "/api/users" collides with
// both "/api/users/1" and "/api".
func (s *Store) CheckBreakingChanges(ctx context.Context, serviceName string, endpointPaths []string) ([]graph.BreakingImpact, error) {
	const op = "neo4j.CheckBreakingChanges"

	if serviceName == "" || len(endpointPaths) == 0 {
		return nil, nil
	}

	records, err := s.read(ctx, op, breakingChangesCypher, map[string]any{
		"serviceName": serviceName,
		"endpoints":   endpointPaths,
	})
	if err != nil {
		return nil, err
	}

	impacts := make([]graph.BreakingImpact, 0, len(records))
	for _, rec := range records {
		impacts = append(impacts, graph.BreakingImpact{
			CodeFile:    asString(recordValue(rec, "codeFile")),
			PackageName: asString(recordValue(rec, "packageName")),
			Method:      asString(recordValue(rec, "method")),
			URL:         asString(recordValue(rec, "url")),
			Severity:    changes.SeverityCritical,
		})
	}
	return impacts, nil
}

const riskCountsCypher = `
WITH $serviceNames AS services
UNWIND services AS serviceName
MATCH (s:Service {name: serviceName})
OPTIONAL MATCH (cm:CodeModule)-[:CALLS_SERVICE]->(s)
WITH s, count(DISTINCT cm) AS codeCallers
OPTIONAL MATCH (s1:Service)-[:CONNECTS_TO]->(s)
WITH s, codeCallers, count(DISTINCT s1) AS serviceCallers
OPTIONAL MATCH (s2:Service)-[:CONNECTS_TO*2..3]->(s)
WITH s, codeCallers, serviceCallers, count(DISTINCT s2) AS transitiveCallers
OPTIONAL MATCH (s)-[:EXPOSED_VIA]->(ing:Ingress)
WITH s, codeCallers, serviceCallers, transitiveCallers, count(ing) > 0 AS isPublic
OPTIONAL MATCH (s)-[:TARGETS]->(w:Workload)<-[:RESOURCE]-(cluster)
RETURN s.name AS service, codeCallers, serviceCallers, transitiveCallers, isPublic,
       head([c IN collect(DISTINCT cluster.name) WHERE c IS NOT NULL]) AS clusterName`

// CalculateRiskScores fetches dependency counts per service and scores
// them. The arithmetic lives in the domain package so the weights stay
// testable without a store.
func (s *Store) CalculateRiskScores(ctx context.Context, serviceNames []string) ([]graph.RiskRecord, error) {
	const op = "neo4j.CalculateRiskScores"

	if len(serviceNames) == 0 {
		return nil, nil
	}

	records, err := s.read(ctx, op, riskCountsCypher, map[string]any{
		"serviceNames": serviceNames,
	})
	if err != nil {
		return nil, err
	}

	risks := make([]graph.RiskRecord, 0, len(records))
	for _, rec := range records {
		cluster := asString(recordValue(rec, "clusterName"))
		risks = append(risks, graph.NewRiskRecord(
			asString(recordValue(rec, "service")),
			asInt(recordValue(rec, "codeCallers")),
			asInt(recordValue(rec, "serviceCallers")),
			asInt(recordValue(rec, "transitiveCallers")),
			asBool(recordValue(rec, "isPublic")),
			graph.IsProductionCluster(cluster, s.productionMarkers),
		))
	}
	return risks, nil
}

const recommendationCountsCypher = `
WITH $serviceNames AS services
UNWIND services AS serviceName
MATCH (s:Service {name: serviceName})
OPTIONAL MATCH (s1:Service)-[:CONNECTS_TO]->(s)
WITH s, count(DISTINCT s1) AS dependentCount
OPTIONAL MATCH (s)-[:EXPOSED_VIA]->(ing:Ingress)
RETURN s.name AS service, dependentCount, count(ing) > 0 AS isPublic`

// DeploymentRecommendations derives rollout advice per service from its
// exposure and dependent count.
func (s *Store) DeploymentRecommendations(ctx context.Context, serviceNames []string) ([]graph.Recommendation, error) {
	const op = "neo4j.DeploymentRecommendations"

	if len(serviceNames) == 0 {
		return nil, nil
	}

	records, err := s.read(ctx, op, recommendationCountsCypher, map[string]any{
		"serviceNames": serviceNames,
	})
	if err != nil {
		return nil, err
	}

	recommendations := make([]graph.Recommendation, 0, len(records))
	for _, rec := range records {
		recommendations = append(recommendations, graph.NewRecommendation(
			asString(recordValue(rec, "service")),
			asBool(recordValue(rec, "isPublic")),
			asInt(recordValue(rec, "dependentCount")),
		))
	}
	return recommendations, nil
}

// matchPackagesClause resolves package names by exact name or path
// substring. All four package-scoped queries share it.
const matchPackagesClause = `
WITH $packageNames AS names
UNWIND names AS name
MATCH (dp:DeploymentPackage)
WHERE dp.name = name OR dp.path CONTAINS name
WITH DISTINCT dp`

const packageImpactCypher = matchPackagesClause + `
OPTIONAL MATCH (dp)-[:BELONGS_TO_PACKAGE]->(svc:Service)
WITH dp, [x IN collect(DISTINCT svc.name) WHERE x IS NOT NULL] AS services
OPTIONAL MATCH (dp)-[:BELONGS_TO_PACKAGE]->(w:Workload)
WITH dp, services, [x IN collect(DISTINCT w.name) WHERE x IS NOT NULL] AS workloads
OPTIONAL MATCH (dp)-[:BELONGS_TO_PACKAGE]->(i:Ingress)
WITH dp, services, workloads, [x IN collect(DISTINCT i.name) WHERE x IS NOT NULL] AS ingresses
OPTIONAL MATCH (dp)-[:CONTAINS_CODE]->(cm:CodeModule)
WITH dp, services, workloads, ingresses,
     [x IN collect(DISTINCT cm.path) WHERE x IS NOT NULL] AS codeModules
OPTIONAL MATCH (dp)-[:BELONGS_TO_PACKAGE]->(owned:Service)<-[:CONNECTS_TO]-(caller:Service)
WITH dp, services, workloads, ingresses, codeModules,
     [x IN collect(DISTINCT caller.name) WHERE x IS NOT NULL] AS dependentServices
OPTIONAL MATCH (dp)-[:BELONGS_TO_PACKAGE]->(called:Service)<-[:CALLS_SERVICE]-(ext:CodeModule)
WHERE NOT (dp)-[:CONTAINS_CODE]->(ext)
WITH dp, services, workloads, ingresses, codeModules, dependentServices,
     [x IN collect(DISTINCT ext.path) WHERE x IS NOT NULL] AS externalCallers
OPTIONAL MATCH (dp)-[:BELONGS_TO_PACKAGE]->(exposed:Service)-[:EXPOSED_VIA]->(ing:Ingress)
RETURN dp.name AS packageName, services, workloads, ingresses, codeModules,
       dependentServices, externalCallers, count(ing) > 0 AS isPublic`

// AnalyzePackageImpact enumerates what each named package owns and who
// depends on those resources from outside the package.
func (s *Store) AnalyzePackageImpact(ctx context.Context, packageNames []string) ([]graph.PackageImpact, error) {
	const op = "neo4j.AnalyzePackageImpact"

	if len(packageNames) == 0 {
		return nil, nil
	}

	records, err := s.read(ctx, op, packageImpactCypher, map[string]any{
		"packageNames": packageNames,
	})
	if err != nil {
		return nil, err
	}

	impacts := make([]graph.PackageImpact, 0, len(records))
	for _, rec := range records {
		impacts = append(impacts, graph.PackageImpact{
			PackageName:       asString(recordValue(rec, "packageName")),
			Services:          asStringList(recordValue(rec, "services")),
			Workloads:         asStringList(recordValue(rec, "workloads")),
			Ingresses:         asStringList(recordValue(rec, "ingresses")),
			CodeModules:       asStringList(recordValue(rec, "codeModules")),
			DependentServices: asStringList(recordValue(rec, "dependentServices")),
			ExternalCallers:   asStringList(recordValue(rec, "externalCallers")),
			IsPubliclyExposed: asBool(recordValue(rec, "isPublic")),
		})
	}
	return impacts, nil
}

const imageImpactCypher = matchPackagesClause + `
MATCH (dp)-[:BELONGS_TO_PACKAGE]->(w:Workload)
OPTIONAL MATCH (w)-[:USES_IMAGE]->(img:Image)
RETURN dp.name AS packageName,
       w.name AS workload,
       [x IN collect(DISTINCT img.name) WHERE x IS NOT NULL] AS images,
       any(i IN collect(DISTINCT img) WHERE i.registry IS NOT NULL AND i.registry <> '') AS inRegistry`

// AnalyzeImageChanges lists the container images of every workload
// owned by the named packages.
func (s *Store) AnalyzeImageChanges(ctx context.Context, packageNames []string) ([]graph.ImageImpact, error) {
	const op = "neo4j.AnalyzeImageChanges"

	if len(packageNames) == 0 {
		return nil, nil
	}

	records, err := s.read(ctx, op, imageImpactCypher, map[string]any{
		"packageNames": packageNames,
	})
	if err != nil {
		return nil, err
	}

	impacts := make([]graph.ImageImpact, 0, len(records))
	for _, rec := range records {
		impacts = append(impacts, graph.ImageImpact{
			PackageName: asString(recordValue(rec, "packageName")),
			Workload:    asString(recordValue(rec, "workload")),
			Images:      asStringList(recordValue(rec, "images")),
			InRegistry:  asBool(recordValue(rec, "inRegistry")),
		})
	}
	return impacts, nil
}

const networkPolicyImpactCypher = matchPackagesClause + `
MATCH (dp)-[:BELONGS_TO_PACKAGE]->(w:Workload)
OPTIONAL MATCH (np:NetworkPolicy)-[:APPLIES_TO]->(w)
OPTIONAL MATCH (np)-[:APPLIES_TO]->(other:Workload)
WHERE other <> w
RETURN dp.name AS packageName,
       w.name AS workload,
       [x IN collect(DISTINCT np.name) WHERE x IS NOT NULL] AS policies,
       [x IN collect(DISTINCT other.name) WHERE x IS NOT NULL] AS coAffectedWorkloads`

// AnalyzeNetworkPolicyImpact lists the network policies governing each
// workload of the named packages, plus the other workloads those same
// policies govern.
func (s *Store) AnalyzeNetworkPolicyImpact(ctx context.Context, packageNames []string) ([]graph.NetworkPolicyImpact, error) {
	const op = "neo4j.AnalyzeNetworkPolicyImpact"

	if len(packageNames) == 0 {
		return nil, nil
	}

	records, err := s.read(ctx, op, networkPolicyImpactCypher, map[string]any{
		"packageNames": packageNames,
	})
	if err != nil {
		return nil, err
	}

	impacts := make([]graph.NetworkPolicyImpact, 0, len(records))
	for _, rec := range records {
		impacts = append(impacts, graph.NetworkPolicyImpact{
			PackageName:         asString(recordValue(rec, "packageName")),
			Workload:            asString(recordValue(rec, "workload")),
			Policies:            asStringList(recordValue(rec, "policies")),
			CoAffectedWorkloads: asStringList(recordValue(rec, "coAffectedWorkloads")),
		})
	}
	return impacts, nil
}

const ingressImpactCypher = matchPackagesClause + `
MATCH (dp)-[:BELONGS_TO_PACKAGE]->(i:Ingress)
OPTIONAL MATCH (backend:Service)-[:EXPOSED_VIA]->(i)
WITH dp, i, [x IN collect(DISTINCT backend.name) WHERE x IS NOT NULL] AS backends
OPTIONAL MATCH (cm:CodeModule)-[:CALLS_SERVICE]->(b:Service)-[:EXPOSED_VIA]->(i)
RETURN dp.name AS packageName,
       i.name AS ingress,
       i.hosts AS hosts,
       i.load_balancer AS loadBalancer,
       backends,
       [x IN collect(DISTINCT cm.path) WHERE x IS NOT NULL] AS externalCallers`

// AnalyzeIngressChanges describes the exposure surface of each named
// package's ingresses. Ingress changes alter public traffic routing, so
// every result carries CRITICAL severity regardless of the change that
// touched the ingress.
func (s *Store) AnalyzeIngressChanges(ctx context.Context, packageNames []string) ([]graph.IngressImpact, error) {
	const op = "neo4j.AnalyzeIngressChanges"

	if len(packageNames) == 0 {
		return nil, nil
	}

	records, err := s.read(ctx, op, ingressImpactCypher, map[string]any{
		"packageNames": packageNames,
	})
	if err != nil {
		return nil, err
	}

	impacts := make([]graph.IngressImpact, 0, len(records))
	for _, rec := range records {
		impacts = append(impacts, graph.IngressImpact{
			PackageName:     asString(recordValue(rec, "packageName")),
			Ingress:         asString(recordValue(rec, "ingress")),
			Hosts:           asStringList(recordValue(rec, "hosts")),
			BackendServices: asStringList(recordValue(rec, "backends")),
			LoadBalancer:    asString(recordValue(rec, "loadBalancer")),
			ExternalCallers: asStringList(recordValue(rec, "externalCallers")),
			Severity:        changes.SeverityCritical,
		})
	}
	return impacts, nil
}
