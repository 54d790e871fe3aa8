package neo4j

import (
	"context"

	"github.com/fleetscope/fleetscope/internal/domain/graph"
)

// Upserts use MERGE keyed on natural identity. firstseen is stamped on
// first observation only; lastupdated is stamped on every touch with
// the caller's epoch, so one ingestion run leaves one timestamp across
// everything it wrote.

const upsertPackageCypher = `
MERGE (dp:DeploymentPackage {path: $path})
SET dp.name = $name,
    dp.version = $version,
    dp.description = $description,
    dp.app_version = $appVersion,
    dp.firstseen = coalesce(dp.firstseen, $epoch),
    dp.lastupdated = $epoch`

// UpsertPackage writes one deployment package keyed by repository path.
func (s *Store) UpsertPackage(ctx context.Context, pkg graph.PackageNode, epoch int64) error {
	const op = "neo4j.UpsertPackage"

	return s.write(ctx, op, statement{upsertPackageCypher, map[string]any{
		"path":        pkg.Path,
		"name":        pkg.Name,
		"version":     pkg.Version,
		"description": pkg.Description,
		"appVersion":  pkg.AppVersion,
		"epoch":       epoch,
	}})
}

const upsertServiceCypher = `
MERGE (s:Service {name: $name})
SET s.namespace = $namespace,
    s.package_name = $package,
    s.type = $type,
    s.port = $port,
    s.firstseen = coalesce(s.firstseen, $epoch),
    s.lastupdated = $epoch`

const linkServiceToPackageCypher = `
MATCH (s:Service {name: $name})
MATCH (dp:DeploymentPackage {name: $package})
MERGE (dp)-[r:BELONGS_TO_PACKAGE]->(s)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

const linkServiceTargetsCypher = `
MATCH (s:Service {name: $name})
MATCH (w:Workload {package_name: $package})
MERGE (s)-[r:TARGETS]->(w)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

// UpsertService writes one service. When the service declares an
// owning package it is linked to it, and to any already-ingested
// workloads of that package. UpsertWorkload links the other direction,
// so ingestion order between the two does not matter.
func (s *Store) UpsertService(ctx context.Context, svc graph.ServiceNode, epoch int64) error {
	const op = "neo4j.UpsertService"

	statements := []statement{{upsertServiceCypher, map[string]any{
		"name":      svc.Name,
		"namespace": svc.Namespace,
		"package":   svc.PackageName,
		"type":      svc.Type,
		"port":      svc.Port,
		"epoch":     epoch,
	}}}
	if svc.PackageName != "" {
		params := map[string]any{"name": svc.Name, "package": svc.PackageName, "epoch": epoch}
		statements = append(statements,
			statement{linkServiceToPackageCypher, params},
			statement{linkServiceTargetsCypher, params},
		)
	}
	return s.write(ctx, op, statements...)
}

const upsertWorkloadCypher = `
MERGE (w:Workload {name: $name, namespace: $namespace})
SET w.package_name = $package,
    w.firstseen = coalesce(w.firstseen, $epoch),
    w.lastupdated = $epoch`

const linkWorkloadToPackageCypher = `
MATCH (w:Workload {name: $name, namespace: $namespace})
MATCH (dp:DeploymentPackage {name: $package})
MERGE (dp)-[r:BELONGS_TO_PACKAGE]->(w)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

const linkWorkloadTargetedCypher = `
MATCH (w:Workload {name: $name, namespace: $namespace})
MATCH (s:Service {package_name: $package})
MERGE (s)-[r:TARGETS]->(w)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

const linkWorkloadClusterCypher = `
MATCH (w:Workload {name: $name, namespace: $namespace})
MERGE (c:Cluster {name: $cluster})
SET c.firstseen = coalesce(c.firstseen, $epoch),
    c.lastupdated = $epoch
MERGE (c)-[r:RESOURCE]->(w)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

const linkWorkloadImageCypher = `
MATCH (w:Workload {name: $name, namespace: $namespace})
MERGE (img:Image {name: $image})
SET img.firstseen = coalesce(img.firstseen, $epoch),
    img.lastupdated = $epoch
MERGE (w)-[r:USES_IMAGE]->(img)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

// UpsertWorkload writes one workload with its package, cluster, and
// image edges.
func (s *Store) UpsertWorkload(ctx context.Context, wl graph.WorkloadNode, epoch int64) error {
	const op = "neo4j.UpsertWorkload"

	key := map[string]any{"name": wl.Name, "namespace": wl.Namespace, "epoch": epoch}

	statements := []statement{{upsertWorkloadCypher, map[string]any{
		"name":      wl.Name,
		"namespace": wl.Namespace,
		"package":   wl.PackageName,
		"epoch":     epoch,
	}}}
	if wl.PackageName != "" {
		params := map[string]any{
			"name": wl.Name, "namespace": wl.Namespace,
			"package": wl.PackageName, "epoch": epoch,
		}
		statements = append(statements,
			statement{linkWorkloadToPackageCypher, params},
			statement{linkWorkloadTargetedCypher, params},
		)
	}
	if wl.Cluster != "" {
		params := map[string]any{
			"name": wl.Name, "namespace": wl.Namespace,
			"cluster": wl.Cluster, "epoch": epoch,
		}
		statements = append(statements, statement{linkWorkloadClusterCypher, params})
	}
	for _, image := range wl.Images {
		params := make(map[string]any, len(key)+1)
		for k, v := range key {
			params[k] = v
		}
		params["image"] = image
		statements = append(statements, statement{linkWorkloadImageCypher, params})
	}
	return s.write(ctx, op, statements...)
}

const upsertIngressCypher = `
MERGE (i:Ingress {name: $name, namespace: $namespace})
SET i.package_name = $package,
    i.hosts = $hosts,
    i.firstseen = coalesce(i.firstseen, $epoch),
    i.lastupdated = $epoch`

const linkIngressToPackageCypher = `
MATCH (i:Ingress {name: $name, namespace: $namespace})
MATCH (dp:DeploymentPackage {name: $package})
MERGE (dp)-[r:BELONGS_TO_PACKAGE]->(i)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

const linkIngressBackendCypher = `
MATCH (i:Ingress {name: $name, namespace: $namespace})
MERGE (s:Service {name: $backend})
SET s.firstseen = coalesce(s.firstseen, $epoch),
    s.lastupdated = $epoch
MERGE (s)-[r:EXPOSED_VIA]->(i)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

// UpsertIngress writes one ingress and the exposure edges from its
// backend services.
func (s *Store) UpsertIngress(ctx context.Context, ing graph.IngressNode, epoch int64) error {
	const op = "neo4j.UpsertIngress"

	hosts := ing.Hosts
	if hosts == nil {
		hosts = []string{}
	}
	statements := []statement{{upsertIngressCypher, map[string]any{
		"name":      ing.Name,
		"namespace": ing.Namespace,
		"package":   ing.PackageName,
		"hosts":     hosts,
		"epoch":     epoch,
	}}}
	if ing.PackageName != "" {
		statements = append(statements, statement{linkIngressToPackageCypher, map[string]any{
			"name": ing.Name, "namespace": ing.Namespace,
			"package": ing.PackageName, "epoch": epoch,
		}})
	}
	for _, backend := range ing.Backends {
		statements = append(statements, statement{linkIngressBackendCypher, map[string]any{
			"name": ing.Name, "namespace": ing.Namespace,
			"backend": backend, "epoch": epoch,
		}})
	}
	return s.write(ctx, op, statements...)
}

const upsertImageCypher = `
MERGE (img:Image {name: $name})
SET img.tag = $tag,
    img.registry = $registry,
    img.firstseen = coalesce(img.firstseen, $epoch),
    img.lastupdated = $epoch`

// UpsertImage enriches one image with its registry metadata.
func (s *Store) UpsertImage(ctx context.Context, img graph.ImageNode, epoch int64) error {
	const op = "neo4j.UpsertImage"

	return s.write(ctx, op, statement{upsertImageCypher, map[string]any{
		"name":     img.Name,
		"tag":      img.Tag,
		"registry": img.Registry,
		"epoch":    epoch,
	}})
}

const upsertCodeModuleCypher = `
MERGE (cm:CodeModule {path: $path})
SET cm.name = $name,
    cm.language = $language,
    cm.firstseen = coalesce(cm.firstseen, $epoch),
    cm.lastupdated = $epoch`

const linkCodeModuleToPackageCypher = `
MATCH (cm:CodeModule {path: $path})
MATCH (dp:DeploymentPackage {name: $package})
MERGE (dp)-[r:CONTAINS_CODE]->(cm)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

// UpsertCodeModule writes one source file keyed by repository path.
func (s *Store) UpsertCodeModule(ctx context.Context, cm graph.CodeModuleNode, epoch int64) error {
	const op = "neo4j.UpsertCodeModule"

	statements := []statement{{upsertCodeModuleCypher, map[string]any{
		"path":     cm.Path,
		"name":     cm.Name,
		"language": cm.Language,
		"epoch":    epoch,
	}}}
	if cm.PackageName != "" {
		statements = append(statements, statement{linkCodeModuleToPackageCypher, map[string]any{
			"path": cm.Path, "package": cm.PackageName, "epoch": epoch,
		}})
	}
	return s.write(ctx, op, statements...)
}

const linkServiceCallCypher = `
MERGE (cm:CodeModule {path: $codePath})
SET cm.firstseen = coalesce(cm.firstseen, $epoch),
    cm.lastupdated = $epoch
MERGE (s:Service {name: $service})
SET s.firstseen = coalesce(s.firstseen, $epoch),
    s.lastupdated = $epoch
MERGE (cm)-[r:CALLS_SERVICE {method: $method, url: $url}]->(s)
SET r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

// LinkServiceCall records one outbound HTTP call from a code module to
// a service. The edge is keyed by method and URL, so the same module
// calling two endpoints of one service yields two edges.
func (s *Store) LinkServiceCall(ctx context.Context, call graph.ServiceCall, epoch int64) error {
	const op = "neo4j.LinkServiceCall"

	return s.write(ctx, op, statement{linkServiceCallCypher, map[string]any{
		"codePath": call.CodePath,
		"service":  call.Service,
		"method":   call.Method,
		"url":      call.URL,
		"epoch":    epoch,
	}})
}

const linkServiceConnectionCypher = `
MERGE (from:Service {name: $from})
SET from.firstseen = coalesce(from.firstseen, $epoch),
    from.lastupdated = $epoch
MERGE (to:Service {name: $to})
SET to.firstseen = coalesce(to.firstseen, $epoch),
    to.lastupdated = $epoch
MERGE (from)-[r:CONNECTS_TO]->(to)
SET r.env_var = $envVar,
    r.url = $url,
    r.firstseen = coalesce(r.firstseen, $epoch),
    r.lastupdated = $epoch`

// LinkServiceConnection records one declared runtime dependency between
// two services.
func (s *Store) LinkServiceConnection(ctx context.Context, conn graph.ServiceConnection, epoch int64) error {
	const op = "neo4j.LinkServiceConnection"

	return s.write(ctx, op, statement{linkServiceConnectionCypher, map[string]any{
		"from":   conn.From,
		"to":     conn.To,
		"envVar": conn.EnvVar,
		"url":    conn.URL,
		"epoch":  epoch,
	}})
}
