package graph

import (
	"strings"

	"github.com/fleetscope/fleetscope/internal/domain/changes"
)

// Risk score weights. Service callers weigh more than code callers
// because a dependent service outage cascades; public exposure carries
// a flat penalty.
const (
	WeightCodeCaller       = 10
	WeightServiceCaller    = 20
	WeightTransitiveCaller = 5
	WeightPublicExposure   = 50

	// ProductionMultiplier doubles the score for services running in a
	// production cluster.
	ProductionMultiplier = 2
)

// ComputeRiskScore computes the deterministic risk score for a service
// from its caller counts and exposure.
func ComputeRiskScore(codeCallers, serviceCallers, transitiveCallers int, isPublic, isProduction bool) int {
	score := codeCallers*WeightCodeCaller +
		serviceCallers*WeightServiceCaller +
		transitiveCallers*WeightTransitiveCaller
	if isPublic {
		score += WeightPublicExposure
	}
	if isProduction {
		score *= ProductionMultiplier
	}
	return score
}

// RiskLevel buckets a risk score into a severity level.
func RiskLevel(score int) changes.Severity {
	return changes.SeverityForScore(score)
}

// IsProductionCluster reports whether a cluster name indicates a
// production environment. Matching is a case-sensitive substring check
// against each configured marker.
func IsProductionCluster(clusterName string, markers []string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(clusterName, marker) {
			return true
		}
	}
	return false
}

// NewRiskRecord assembles a RiskRecord from raw caller counts.
func NewRiskRecord(service string, codeCallers, serviceCallers, transitiveCallers int, isPublic, isProduction bool) RiskRecord {
	score := ComputeRiskScore(codeCallers, serviceCallers, transitiveCallers, isPublic, isProduction)
	return RiskRecord{
		Service:           service,
		CodeCallers:       codeCallers,
		ServiceCallers:    serviceCallers,
		TransitiveCallers: transitiveCallers,
		IsPubliclyExposed: isPublic,
		Score:             score,
		Level:             RiskLevel(score),
	}
}

// Deployment strategy and testing priority texts.
const (
	StrategyBlueGreen = "Blue-Green deployment recommended (public exposure)"
	StrategyCanary    = "Canary deployment recommended (high dependencies)"
	StrategyRolling   = "Rolling update is safe"

	TestingHigh   = "HIGH - Integration tests required"
	TestingMedium = "MEDIUM - Contract tests recommended"
	TestingLow    = "LOW - Unit tests sufficient"
)

// canaryDependentThreshold is the dependent count above which a rolling
// update is no longer considered safe.
const canaryDependentThreshold = 2

// RecommendStrategy picks a deployment strategy from a service's
// exposure and dependent count.
func RecommendStrategy(isPublic bool, dependentCount int) string {
	switch {
	case isPublic:
		return StrategyBlueGreen
	case dependentCount > canaryDependentThreshold:
		return StrategyCanary
	default:
		return StrategyRolling
	}
}

// RecommendTestingPriority picks the testing rigor matching a service's
// exposure and dependent count.
func RecommendTestingPriority(isPublic bool, dependentCount int) string {
	switch {
	case isPublic:
		return TestingHigh
	case dependentCount > 0:
		return TestingMedium
	default:
		return TestingLow
	}
}

// NewRecommendation assembles a Recommendation for one service.
func NewRecommendation(service string, isPublic bool, dependentCount int) Recommendation {
	return Recommendation{
		Service:         service,
		DependentCount:  dependentCount,
		IsPublic:        isPublic,
		Strategy:        RecommendStrategy(isPublic, dependentCount),
		TestingPriority: RecommendTestingPriority(isPublic, dependentCount),
	}
}
