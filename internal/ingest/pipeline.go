// Package ingest writes fleet topology into the graph store: the
// deployment packages discovered in the repository, the services,
// workloads, ingresses, and images their values declare, the declared
// service connections, and the scanned code modules with their service
// calls. One run stamps everything with one epoch.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fleetscope/fleetscope/internal/domain/graph"
	"github.com/fleetscope/fleetscope/internal/errors"
	"github.com/fleetscope/fleetscope/internal/helm"
	"github.com/fleetscope/fleetscope/internal/scan"
)

// Pipeline ingests one repository into the graph store.
type Pipeline struct {
	store   graph.Ingestor
	scanner *scan.Scanner
	cluster string
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithCluster tags ingested workloads with the cluster they target.
func WithCluster(name string) Option {
	return func(p *Pipeline) {
		p.cluster = name
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// withClock overrides epoch generation in tests.
func withClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates an ingestion pipeline over a store and a source
// scanner.
func NewPipeline(store graph.Ingestor, scanner *scan.Scanner, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:   store,
		scanner: scanner,
		logger:  slog.Default().With("component", "ingest"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Stats counts what one run wrote.
type Stats struct {
	// RunID correlates the log lines of one run.
	RunID        string
	Epoch        int64
	Packages     int
	Services     int
	Workloads    int
	Ingresses    int
	Connections  int
	CodeModules  int
	ServiceCalls int
}

// Run discovers packages under repoPath, scans its source tree, and
// writes everything into the store. A package whose values cannot be
// read is ingested bare and skipped for topology; a store write
// failure aborts the run.
func (p *Pipeline) Run(ctx context.Context, repoPath string) (Stats, error) {
	const op = "ingest.Run"

	epoch := p.now().Unix()
	stats := Stats{RunID: uuid.NewString(), Epoch: epoch}
	p.logger.Info("starting ingestion", "run_id", stats.RunID, "repo", repoPath, "epoch", epoch)

	charts, err := helm.Discover(repoPath, p.logger)
	if err != nil {
		return stats, errors.IngestWrap(err, op, "package discovery failed")
	}

	for _, chart := range charts {
		if err := p.ingestChart(ctx, chart, epoch, &stats); err != nil {
			return stats, err
		}
	}

	modules, err := p.scanner.Scan(ctx)
	if err != nil {
		return stats, errors.IngestWrap(err, op, "source scan failed")
	}
	index := packageIndex(charts)
	for _, module := range modules {
		if err := p.ingestModule(ctx, module, index, epoch, &stats); err != nil {
			return stats, err
		}
	}

	p.logger.Info("ingestion complete",
		"packages", stats.Packages,
		"services", stats.Services,
		"connections", stats.Connections,
		"code_modules", stats.CodeModules)
	return stats, nil
}

func (p *Pipeline) ingestChart(ctx context.Context, chart *helm.Chart, epoch int64, stats *Stats) error {
	const op = "ingest.ingestChart"

	name := chart.Name()
	if err := p.store.UpsertPackage(ctx, graph.PackageNode{
		Name:        name,
		Path:        chart.RelPath,
		Version:     chart.Metadata.Version,
		Description: chart.Metadata.Description,
		AppVersion:  chart.Metadata.AppVersion,
	}, epoch); err != nil {
		return errors.IngestWrap(err, op, "failed to upsert package")
	}
	stats.Packages++

	values, err := chart.Values()
	if err != nil {
		p.logger.Warn("values unreadable, ingesting package without topology",
			"package", name, "error", err)
		return nil
	}
	topo := topologyFromValues(name, values, p.cluster)

	if topo.service != nil {
		if err := p.store.UpsertService(ctx, *topo.service, epoch); err != nil {
			return errors.IngestWrap(err, op, "failed to upsert service")
		}
		stats.Services++
	}
	if topo.workload != nil {
		if err := p.store.UpsertWorkload(ctx, *topo.workload, epoch); err != nil {
			return errors.IngestWrap(err, op, "failed to upsert workload")
		}
		stats.Workloads++
		for _, image := range topo.images {
			if err := p.store.UpsertImage(ctx, image, epoch); err != nil {
				return errors.IngestWrap(err, op, "failed to upsert image")
			}
		}
	}
	if topo.ingress != nil {
		if err := p.store.UpsertIngress(ctx, *topo.ingress, epoch); err != nil {
			return errors.IngestWrap(err, op, "failed to upsert ingress")
		}
		stats.Ingresses++
	}

	conns, err := chart.Connections()
	if err != nil {
		p.logger.Warn("connection extraction failed", "package", name, "error", err)
		return nil
	}
	for _, conn := range conns {
		if err := p.store.LinkServiceConnection(ctx, conn, epoch); err != nil {
			return errors.IngestWrap(err, op, "failed to link connection")
		}
		stats.Connections++
	}
	return nil
}

func (p *Pipeline) ingestModule(ctx context.Context, module scan.Module, index []packageRoot, epoch int64, stats *Stats) error {
	const op = "ingest.ingestModule"

	if err := p.store.UpsertCodeModule(ctx, graph.CodeModuleNode{
		Path:        module.Path,
		Name:        module.Name,
		Language:    module.Language,
		PackageName: owningPackage(index, module.Path),
	}, epoch); err != nil {
		return errors.IngestWrap(err, op, "failed to upsert code module")
	}
	stats.CodeModules++

	for _, call := range module.Calls {
		service := scan.ServiceNameFromURL(call.URL)
		if service == "" {
			continue
		}
		if err := p.store.LinkServiceCall(ctx, graph.ServiceCall{
			CodePath: module.Path,
			Service:  service,
			Method:   call.Method,
			URL:      call.URL,
		}, epoch); err != nil {
			return errors.IngestWrap(err, op, "failed to link service call")
		}
		stats.ServiceCalls++
	}
	return nil
}
