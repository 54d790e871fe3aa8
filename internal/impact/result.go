package impact

import (
	"time"

	"github.com/fleetscope/fleetscope/internal/domain/changes"
	"github.com/fleetscope/fleetscope/internal/domain/graph"
)

// Risk floors applied to the summary regardless of individually
// computed scores. An ingress surface change or a critical package
// change raises the run's score even when the graph knows no callers.
const (
	ingressRiskFloor         = 250
	criticalPackageRiskFloor = 200
)

// AnalysisResult is the complete output of one analysis run. It is the
// sole input to report rendering and to CI gates.
type AnalysisResult struct {
	AnalyzedAt time.Time `json:"timestamp"`
	BaseRef    string    `json:"baseRef,omitempty"`
	HeadRef    string    `json:"headRef,omitempty"`

	ChangedFiles      []string                    `json:"changedFiles"`
	ChangedComponents []graph.ComponentImpact     `json:"changedComponents"`
	AffectedServices  []string                    `json:"affectedServices"`
	PackageChanges    []changes.PackageChange     `json:"packageChanges"`
	BlastRadius       []graph.BlastRadius         `json:"blastRadius"`
	BreakingChanges   []changes.BreakingChange    `json:"breakingChanges"`
	BreakingImpacts   []graph.BreakingImpact      `json:"breakingImpacts"`
	RiskAnalysis      []graph.RiskRecord          `json:"riskAnalysis"`
	Recommendations   []graph.Recommendation      `json:"recommendations"`
	PackageImpacts    []graph.PackageImpact       `json:"packageImpacts"`
	ImageImpacts      []graph.ImageImpact         `json:"imageImpacts"`
	NetworkImpacts    []graph.NetworkPolicyImpact `json:"networkPolicyImpacts"`
	IngressImpacts    []graph.IngressImpact       `json:"ingressImpacts"`

	Summary Summary `json:"summary"`
}

// Summary condenses a result into the counts a CI gate reads.
type Summary struct {
	ChangedFilesCount     int              `json:"changedFilesCount"`
	PackageChangesCount   int              `json:"packageChangesCount"`
	AffectedServicesCount int              `json:"affectedServicesCount"`
	TotalImpactCount      int              `json:"totalImpactCount"`
	BreakingChangesCount  int              `json:"breakingChangesCount"`
	MaxRiskScore          int              `json:"maxRiskScore"`
	OverallRiskLevel      changes.Severity `json:"overallRiskLevel"`
}

// emptyResult is the canonical no-op outcome: all lists empty, every
// count zero, risk LOW.
func emptyResult(baseRef, headRef string) *AnalysisResult {
	return &AnalysisResult{
		AnalyzedAt:        time.Now().UTC(),
		BaseRef:           baseRef,
		HeadRef:           headRef,
		ChangedFiles:      []string{},
		ChangedComponents: []graph.ComponentImpact{},
		AffectedServices:  []string{},
		PackageChanges:    []changes.PackageChange{},
		BlastRadius:       []graph.BlastRadius{},
		BreakingChanges:   []changes.BreakingChange{},
		BreakingImpacts:   []graph.BreakingImpact{},
		RiskAnalysis:      []graph.RiskRecord{},
		Recommendations:   []graph.Recommendation{},
		PackageImpacts:    []graph.PackageImpact{},
		ImageImpacts:      []graph.ImageImpact{},
		NetworkImpacts:    []graph.NetworkPolicyImpact{},
		IngressImpacts:    []graph.IngressImpact{},
		Summary:           Summary{OverallRiskLevel: changes.SeverityLow},
	}
}

// ComputeSummary derives the summary from a result. It is deterministic
// and reproducible from the result alone.
func ComputeSummary(result *AnalysisResult) Summary {
	maxRisk := 0
	for _, risk := range result.RiskAnalysis {
		if risk.Score > maxRisk {
			maxRisk = risk.Score
		}
	}
	if len(result.IngressImpacts) > 0 && maxRisk < ingressRiskFloor {
		maxRisk = ingressRiskFloor
	}
	if maxRisk < criticalPackageRiskFloor {
		for _, pc := range result.PackageChanges {
			if pc.Severity == changes.SeverityCritical {
				maxRisk = criticalPackageRiskFloor
				break
			}
		}
	}

	totalImpact := 0
	for _, radius := range result.BlastRadius {
		totalImpact += radius.CallerCount()
	}

	return Summary{
		ChangedFilesCount:     len(result.ChangedFiles),
		PackageChangesCount:   len(distinctPackageNames(result.PackageChanges)),
		AffectedServicesCount: len(result.AffectedServices),
		TotalImpactCount:      totalImpact,
		BreakingChangesCount:  len(result.BreakingChanges),
		MaxRiskScore:          maxRisk,
		OverallRiskLevel:      graph.RiskLevel(maxRisk),
	}
}
