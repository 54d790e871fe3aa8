// Package impact orchestrates the analysis pipeline: change
// resolution, classification, bounded graph queries, risk scoring, and
// summary assembly. One Analyze call is one run; runs share no state.
package impact

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fleetscope/fleetscope/internal/analysis"
	"github.com/fleetscope/fleetscope/internal/analysis/routes"
	"github.com/fleetscope/fleetscope/internal/domain/changes"
	"github.com/fleetscope/fleetscope/internal/domain/graph"
)

// Analyzer runs the fixed analysis pipeline. Stages execute strictly
// in order, each blocking on the previous; a graph failure aborts only
// that stage's contribution.
type Analyzer struct {
	detector *analysis.ChangeDetector
	store    graph.Querier
	logger   *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates an analyzer over a change detector and a graph
// store.
func NewAnalyzer(detector *analysis.ChangeDetector, store graph.Querier, opts ...Option) *Analyzer {
	a := &Analyzer{
		detector: detector,
		store:    store,
		logger:   slog.Default().With("component", "impact"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the full pipeline between two refs. When explicitFiles
// is non-empty it replaces diff resolution and every file is treated
// as modified.
//
// Graph-store failures after the change-resolution stage degrade the
// run to partial results; only an empty change set terminates early.
func (a *Analyzer) Analyze(ctx context.Context, baseRef, headRef string, explicitFiles []string) (*AnalysisResult, error) {
	started := time.Now()
	a.logger.Info("starting impact analysis", "base", baseRef, "head", headRef)

	// Stage 1: resolve changed files. Nothing changed means nothing to
	// analyze.
	changeSet := a.detector.ChangedFiles(ctx, baseRef, headRef, explicitFiles)
	if changeSet.IsEmpty() {
		a.logger.Info("no changed files detected")
		return emptyResult(baseRef, headRef), nil
	}
	changedFiles := changeSet.All()
	a.logger.Info("resolved changed files", "count", len(changedFiles))

	// Stage 2: classify deployment-package changes.
	packageChanges, err := a.detector.PackageChanges(changedFiles)
	if err != nil {
		a.logger.Warn("package classification failed, continuing without package changes", "error", err)
		packageChanges = nil
	}
	packageNames := distinctPackageNames(packageChanges)

	// Stage 3: identify affected services from paths.
	serviceSet := make(map[string]struct{})
	for _, svc := range a.detector.AffectedServices(changedFiles) {
		serviceSet[svc] = struct{}{}
	}

	// Stage 4: query affected components and union their owned services.
	components, err := a.store.FindAffectedComponents(ctx, changedFiles)
	if err != nil {
		a.logger.Warn("component query failed, continuing without graph components", "error", err)
		components = nil
	}
	for _, comp := range components {
		for _, svc := range comp.OwnsServices {
			serviceSet[svc] = struct{}{}
		}
	}

	// Stage 5: package-scoped queries, unioning declared services in.
	var (
		packageImpacts []graph.PackageImpact
		imageImpacts   []graph.ImageImpact
		networkImpacts []graph.NetworkPolicyImpact
		ingressImpacts []graph.IngressImpact
	)
	if len(packageNames) > 0 {
		packageImpacts, err = a.store.AnalyzePackageImpact(ctx, packageNames)
		if err != nil {
			a.logger.Warn("package impact query failed", "error", err)
			packageImpacts = nil
		}
		for _, pi := range packageImpacts {
			for _, svc := range pi.Services {
				serviceSet[svc] = struct{}{}
			}
		}
		if imageImpacts, err = a.store.AnalyzeImageChanges(ctx, packageNames); err != nil {
			a.logger.Warn("image impact query failed", "error", err)
			imageImpacts = nil
		}
		if networkImpacts, err = a.store.AnalyzeNetworkPolicyImpact(ctx, packageNames); err != nil {
			a.logger.Warn("network policy impact query failed", "error", err)
			networkImpacts = nil
		}
		if ingressImpacts, err = a.store.AnalyzeIngressChanges(ctx, packageNames); err != nil {
			a.logger.Warn("ingress impact query failed", "error", err)
			ingressImpacts = nil
		}
	}

	services := sortedSet(serviceSet)

	// Stage 6: nothing resolved anywhere means a clean empty result.
	if len(services) == 0 && len(packageImpacts) == 0 {
		a.logger.Info("no affected services or package impacts found")
		return emptyResult(baseRef, headRef), nil
	}

	var blastRadius []graph.BlastRadius
	if len(services) > 0 {
		if blastRadius, err = a.store.CalculateBlastRadius(ctx, services); err != nil {
			a.logger.Warn("blast radius query failed", "error", err)
			blastRadius = nil
		}
	}

	// Stage 7: breaking changes from modified files, plus one synthetic
	// entry per HIGH/CRITICAL package change, plus route collisions.
	breakingChanges := a.detector.BreakingChanges(changeSet.Modified())
	breakingChanges = append(breakingChanges, syntheticPackageBreaking(packageChanges)...)

	var breakingImpacts []graph.BreakingImpact
	for _, bc := range breakingChanges {
		if bc.Type != changes.BreakingChangeAPIEndpoints {
			continue
		}
		service := a.detector.ServiceForFile(bc.File)
		if service == "" {
			continue
		}
		impacts, err := a.store.CheckBreakingChanges(ctx, service, endpointPaths(bc.Endpoints))
		if err != nil {
			a.logger.Warn("breaking change query failed", "service", service, "error", err)
			continue
		}
		breakingImpacts = append(breakingImpacts, impacts...)
	}

	// Stage 8: risk scores and deployment recommendations.
	var (
		risks           []graph.RiskRecord
		recommendations []graph.Recommendation
	)
	if len(services) > 0 {
		if risks, err = a.store.CalculateRiskScores(ctx, services); err != nil {
			a.logger.Warn("risk score query failed", "error", err)
			risks = nil
		}
		if recommendations, err = a.store.DeploymentRecommendations(ctx, services); err != nil {
			a.logger.Warn("recommendation query failed", "error", err)
			recommendations = nil
		}
	}

	// Stage 9: assemble the result and its summary.
	result := emptyResult(baseRef, headRef)
	result.ChangedFiles = changedFiles
	result.AffectedServices = services
	if components != nil {
		result.ChangedComponents = components
	}
	if packageChanges != nil {
		result.PackageChanges = packageChanges
	}
	if blastRadius != nil {
		result.BlastRadius = blastRadius
	}
	if breakingChanges != nil {
		result.BreakingChanges = breakingChanges
	}
	if breakingImpacts != nil {
		result.BreakingImpacts = breakingImpacts
	}
	if risks != nil {
		result.RiskAnalysis = risks
	}
	if recommendations != nil {
		result.Recommendations = recommendations
	}
	if packageImpacts != nil {
		result.PackageImpacts = packageImpacts
	}
	if imageImpacts != nil {
		result.ImageImpacts = imageImpacts
	}
	if networkImpacts != nil {
		result.NetworkImpacts = networkImpacts
	}
	if ingressImpacts != nil {
		result.IngressImpacts = ingressImpacts
	}
	result.Summary = ComputeSummary(result)

	a.logger.Info("impact analysis complete",
		"services", len(services),
		"risk_level", result.Summary.OverallRiskLevel,
		"max_risk_score", result.Summary.MaxRiskScore,
		"duration", time.Since(started).Round(time.Millisecond))
	return result, nil
}

// distinctPackageNames returns the unique package names in order of
// first appearance.
func distinctPackageNames(packageChanges []changes.PackageChange) []string {
	seen := make(map[string]struct{}, len(packageChanges))
	var names []string
	for _, pc := range packageChanges {
		if _, ok := seen[pc.PackageName]; ok {
			continue
		}
		seen[pc.PackageName] = struct{}{}
		names = append(names, pc.PackageName)
	}
	return names
}

// syntheticPackageBreaking flags HIGH and CRITICAL package changes as
// breaking so they survive into the breaking-change report even when
// no route declarations changed.
func syntheticPackageBreaking(packageChanges []changes.PackageChange) []changes.BreakingChange {
	var result []changes.BreakingChange
	for _, pc := range packageChanges {
		if !pc.Severity.AtLeast(changes.SeverityHigh) {
			continue
		}
		result = append(result, changes.BreakingChange{
			File:        pc.File,
			Type:        changes.PackageBreakingType(pc.Type),
			PackageName: pc.PackageName,
			Severity:    pc.Severity,
			Message:     fmt.Sprintf("Package %s: %s change in %s", pc.PackageName, pc.Type, pc.RelativePath),
		})
	}
	return result
}

// endpointPaths strips the method prefix from "METHOD path" strings.
func endpointPaths(endpoints []string) []string {
	paths := make([]string, 0, len(endpoints))
	for _, endpoint := range endpoints {
		if p := routes.EndpointPath(endpoint); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
