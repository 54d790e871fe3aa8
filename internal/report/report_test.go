package report

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetscope/fleetscope/internal/domain/changes"
	"github.com/fleetscope/fleetscope/internal/domain/graph"
	"github.com/fleetscope/fleetscope/internal/impact"
)

func sampleResult() *impact.AnalysisResult {
	return &impact.AnalysisResult{
		AnalyzedAt:       time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		BaseRef:          "main",
		HeadRef:          "feature/pricing",
		ChangedFiles:     []string{"services/checkout/templates/deployment.yaml"},
		AffectedServices: []string{"checkout-svc"},
		PackageChanges: []changes.PackageChange{{
			PackagePath:  "services/checkout",
			PackageName:  "checkout",
			File:         "services/checkout/templates/deployment.yaml",
			RelativePath: "templates/deployment.yaml",
			Type:         changes.ChangeTypeDeploymentTemplate,
			Severity:     changes.SeverityCritical,
		}},
		BlastRadius: []graph.BlastRadius{{
			Service:           "checkout-svc",
			Namespace:         "shop",
			IsPubliclyExposed: true,
			IngressHosts:      []string{"shop.example.com"},
			DirectCodeCallers: []graph.CodeCaller{
				{Path: "services/web/src/api.js", Method: "GET", URL: "http://checkout-svc/cart"},
			},
			TransitiveCallers: []graph.TransitiveCaller{{Service: "web", Hops: 2}},
		}},
		BreakingChanges: []changes.BreakingChange{{
			File:     "services/checkout/templates/deployment.yaml",
			Type:     "PACKAGE_DEPLOYMENT_TEMPLATE",
			Severity: changes.SeverityCritical,
			Message:  "Package checkout: DEPLOYMENT_TEMPLATE change in templates/deployment.yaml",
		}},
		RiskAnalysis: []graph.RiskRecord{{
			Service: "checkout-svc", CodeCallers: 1, Score: 120, Level: changes.SeverityHigh,
		}},
		Recommendations: []graph.Recommendation{{
			Service:         "checkout-svc",
			IsPublic:        true,
			Strategy:        "Blue-Green deployment recommended (public exposure)",
			TestingPriority: "HIGH - Integration tests required",
		}},
		IngressImpacts: []graph.IngressImpact{{
			PackageName:     "checkout",
			Ingress:         "checkout-ingress",
			Hosts:           []string{"shop.example.com"},
			BackendServices: []string{"checkout-svc"},
			Severity:        changes.SeverityCritical,
		}},
		Summary: impact.Summary{
			ChangedFilesCount:     1,
			PackageChangesCount:   1,
			AffectedServicesCount: 1,
			TotalImpactCount:      2,
			BreakingChangesCount:  1,
			MaxRiskScore:          250,
			OverallRiskLevel:      changes.SeverityCritical,
		},
	}
}

func TestRenderMarkdownSections(t *testing.T) {
	md := RenderMarkdown(sampleResult())

	assert.Contains(t, md, "# Impact Analysis Report")
	assert.Contains(t, md, "**Comparing:** `main` → `feature/pricing`")
	assert.Contains(t, md, "- **Packages Changed:** 1")
	assert.Contains(t, md, "- **Risk Level:** 🔴 CRITICAL (score 250)")
	assert.Contains(t, md, "| `checkout` | `templates/deployment.yaml` | DEPLOYMENT_TEMPLATE | 🔴 CRITICAL |")
	assert.Contains(t, md, "### Service: `checkout-svc`")
	assert.Contains(t, md, "**Publicly exposed via ingress**")
	assert.Contains(t, md, "- `services/web/src/api.js` - GET http://checkout-svc/cart")
	assert.Contains(t, md, "- **Strategy:** Blue-Green deployment recommended (public exposure)")
	assert.Contains(t, md, "## Ingress Changes")
	assert.Contains(t, md, "*Generated by fleetscope*")
}

func TestRenderMarkdownOmitsEmptySections(t *testing.T) {
	result := &impact.AnalysisResult{
		AnalyzedAt: time.Now(),
		Summary:    impact.Summary{OverallRiskLevel: changes.SeverityLow},
	}
	md := RenderMarkdown(result)

	assert.Contains(t, md, "## Summary")
	assert.NotContains(t, md, "## Blast Radius")
	assert.NotContains(t, md, "## Potential Breaking Changes")
	assert.NotContains(t, md, "## Deployment Recommendations")
	assert.NotContains(t, md, "## Ingress Changes")
}

func TestRenderMarkdownTruncatesCallers(t *testing.T) {
	result := &impact.AnalysisResult{AnalyzedAt: time.Now()}
	callers := make([]graph.CodeCaller, 8)
	for i := range callers {
		callers[i] = graph.CodeCaller{Path: "src/caller.js", Method: "GET", URL: "http://svc/x"}
	}
	result.BlastRadius = []graph.BlastRadius{{Service: "svc", DirectCodeCallers: callers}}

	md := RenderMarkdown(result)
	assert.Contains(t, md, "... and 3 more")
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON(sampleResult())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.NotEmpty(t, decoded["version"])
	assert.Equal(t, "main", decoded["baseRef"])

	summary, ok := decoded["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(250), summary["maxRiskScore"])
	assert.Equal(t, "CRITICAL", summary["overallRiskLevel"])
}
