// Package report renders an analysis result into the formats CI
// consumes: markdown for pull request comments and JSON for gates.
package report

import (
	"fmt"
	"strings"

	"github.com/fleetscope/fleetscope/internal/domain/changes"
	"github.com/fleetscope/fleetscope/internal/impact"
)

// Caller and endpoint lists are truncated so a PR comment stays
// readable on wide fleets.
const (
	maxCallersShown   = 5
	maxEndpointsShown = 10
)

// RenderMarkdown renders the result as a markdown document suitable
// for a pull request comment.
func RenderMarkdown(result *impact.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("# Impact Analysis Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n\n", result.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	if result.BaseRef != "" || result.HeadRef != "" {
		fmt.Fprintf(&b, "**Comparing:** `%s` → `%s`\n\n", result.BaseRef, result.HeadRef)
	}

	writeSummary(&b, result)
	writeComponents(&b, result)
	writePackageChanges(&b, result)
	writeBlastRadius(&b, result)
	writeBreaking(&b, result)
	writeRisks(&b, result)
	writeRecommendations(&b, result)
	writePackageImpacts(&b, result)

	b.WriteString("---\n*Generated by fleetscope*\n")
	return b.String()
}

func writeSummary(b *strings.Builder, result *impact.AnalysisResult) {
	s := result.Summary
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- **Changed Files:** %d\n", s.ChangedFilesCount)
	fmt.Fprintf(b, "- **Packages Changed:** %d\n", s.PackageChangesCount)
	fmt.Fprintf(b, "- **Affected Services:** %d\n", s.AffectedServicesCount)
	fmt.Fprintf(b, "- **Total Impact Radius:** %d component(s)\n", s.TotalImpactCount)
	fmt.Fprintf(b, "- **Breaking Changes:** %d\n", s.BreakingChangesCount)
	fmt.Fprintf(b, "- **Risk Level:** %s (score %d)\n\n", riskBadge(s.OverallRiskLevel), s.MaxRiskScore)
}

func writeComponents(b *strings.Builder, result *impact.AnalysisResult) {
	if len(result.ChangedComponents) == 0 {
		return
	}
	b.WriteString("## Changed Components\n\n")
	for _, comp := range result.ChangedComponents {
		fmt.Fprintf(b, "### `%s`\n", comp.CodeFile)
		if comp.PackageName != "" {
			fmt.Fprintf(b, "- **Package:** `%s`\n", comp.PackageName)
		}
		if len(comp.OwnsServices) > 0 {
			fmt.Fprintf(b, "- **Owns Services:** %s\n", codeList(comp.OwnsServices))
		}
		if len(comp.CallsServices) > 0 {
			fmt.Fprintf(b, "- **Calls Services:** %s\n", codeList(comp.CallsServices))
		}
		b.WriteString("\n")
	}
}

func writePackageChanges(b *strings.Builder, result *impact.AnalysisResult) {
	if len(result.PackageChanges) == 0 {
		return
	}
	b.WriteString("## Package Changes\n\n")
	b.WriteString("| Package | File | Type | Severity |\n")
	b.WriteString("|---------|------|------|----------|\n")
	for _, pc := range result.PackageChanges {
		fmt.Fprintf(b, "| `%s` | `%s` | %s | %s |\n",
			pc.PackageName, pc.RelativePath, pc.Type, severityBadge(pc.Severity))
	}
	b.WriteString("\n")
}

func writeBlastRadius(b *strings.Builder, result *impact.AnalysisResult) {
	if len(result.BlastRadius) == 0 {
		return
	}
	b.WriteString("## Blast Radius\n\n")
	for _, radius := range result.BlastRadius {
		fmt.Fprintf(b, "### Service: `%s`\n", radius.Service)
		if radius.IsPubliclyExposed {
			b.WriteString("**Publicly exposed via ingress**\n")
			if len(radius.IngressHosts) > 0 {
				fmt.Fprintf(b, "- Hosts: %s\n", codeList(radius.IngressHosts))
			}
		}
		if radius.Namespace != "" {
			fmt.Fprintf(b, "- **Namespace:** `%s`\n", radius.Namespace)
		}
		if radius.ClusterName != "" {
			fmt.Fprintf(b, "- **Cluster:** `%s`\n", radius.ClusterName)
		}
		if n := len(radius.DirectCodeCallers); n > 0 {
			fmt.Fprintf(b, "- **Direct Code Callers:** %d\n", n)
			for i, caller := range radius.DirectCodeCallers {
				if i == maxCallersShown {
					fmt.Fprintf(b, "  - ... and %d more\n", n-maxCallersShown)
					break
				}
				fmt.Fprintf(b, "  - `%s` - %s %s\n", caller.Path, caller.Method, caller.URL)
			}
		}
		if n := len(radius.DirectServiceCallers); n > 0 {
			fmt.Fprintf(b, "- **Direct Service Dependencies:** %d\n", n)
			for i, caller := range radius.DirectServiceCallers {
				if i == maxCallersShown {
					fmt.Fprintf(b, "  - ... and %d more\n", n-maxCallersShown)
					break
				}
				fmt.Fprintf(b, "  - `%s`\n", caller.Service)
			}
		}
		if n := len(radius.TransitiveCallers); n > 0 {
			fmt.Fprintf(b, "- **Transitive Dependencies:** %d (2-3 hops away)\n", n)
		}
		b.WriteString("\n")
	}
}

func writeBreaking(b *strings.Builder, result *impact.AnalysisResult) {
	if len(result.BreakingChanges) == 0 {
		return
	}
	b.WriteString("## Potential Breaking Changes\n\n")
	for _, bc := range result.BreakingChanges {
		fmt.Fprintf(b, "### %s\n", bc.File)
		fmt.Fprintf(b, "- **Type:** %s\n", bc.Type)
		fmt.Fprintf(b, "- **Severity:** %s\n", severityBadge(bc.Severity))
		if bc.Message != "" {
			fmt.Fprintf(b, "- **Message:** %s\n", bc.Message)
		}
		if len(bc.Endpoints) > 0 {
			b.WriteString("- **Affected Endpoints:**\n")
			for i, endpoint := range bc.Endpoints {
				if i == maxEndpointsShown {
					fmt.Fprintf(b, "  - ... and %d more\n", len(bc.Endpoints)-maxEndpointsShown)
					break
				}
				fmt.Fprintf(b, "  - `%s`\n", endpoint)
			}
		}
		b.WriteString("\n")
	}

	if len(result.BreakingImpacts) > 0 {
		b.WriteString("### Code That Will Break\n\n")
		for _, bi := range result.BreakingImpacts {
			fmt.Fprintf(b, "- `%s` calls `%s`\n", bi.CodeFile, bi.URL)
			if bi.PackageName != "" {
				fmt.Fprintf(b, "  - Package: `%s`\n", bi.PackageName)
			}
		}
		b.WriteString("\n")
	}
}

func writeRisks(b *strings.Builder, result *impact.AnalysisResult) {
	if len(result.RiskAnalysis) == 0 {
		return
	}
	b.WriteString("## Risk Analysis\n\n")
	for _, risk := range result.RiskAnalysis {
		fmt.Fprintf(b, "### `%s` - %s (Score: %d)\n", risk.Service, riskBadge(risk.Level), risk.Score)
		fmt.Fprintf(b, "- Code callers: %d\n", risk.CodeCallers)
		fmt.Fprintf(b, "- Service dependencies: %d\n", risk.ServiceCallers)
		fmt.Fprintf(b, "- Transitive dependencies: %d\n", risk.TransitiveCallers)
		if risk.IsPubliclyExposed {
			b.WriteString("- Publicly exposed\n")
		}
		b.WriteString("\n")
	}
}

func writeRecommendations(b *strings.Builder, result *impact.AnalysisResult) {
	if len(result.Recommendations) == 0 {
		return
	}
	b.WriteString("## Deployment Recommendations\n\n")
	for _, rec := range result.Recommendations {
		fmt.Fprintf(b, "### `%s`\n", rec.Service)
		fmt.Fprintf(b, "- **Strategy:** %s\n", rec.Strategy)
		fmt.Fprintf(b, "- **Testing Priority:** %s\n", rec.TestingPriority)
		fmt.Fprintf(b, "- **Dependents:** %d service(s)\n\n", rec.DependentCount)
	}
}

func writePackageImpacts(b *strings.Builder, result *impact.AnalysisResult) {
	if len(result.IngressImpacts) > 0 {
		b.WriteString("## Ingress Changes\n\n")
		for _, ii := range result.IngressImpacts {
			fmt.Fprintf(b, "### `%s` (%s)\n", ii.Ingress, severityBadge(ii.Severity))
			if len(ii.Hosts) > 0 {
				fmt.Fprintf(b, "- **Hosts:** %s\n", codeList(ii.Hosts))
			}
			if len(ii.BackendServices) > 0 {
				fmt.Fprintf(b, "- **Backend Services:** %s\n", codeList(ii.BackendServices))
			}
			if ii.LoadBalancer != "" {
				fmt.Fprintf(b, "- **Load Balancer:** `%s`\n", ii.LoadBalancer)
			}
			if len(ii.ExternalCallers) > 0 {
				fmt.Fprintf(b, "- **External Callers:** %s\n", codeList(ii.ExternalCallers))
			}
			b.WriteString("\n")
		}
	}

	if len(result.ImageImpacts) > 0 {
		b.WriteString("## Image Changes\n\n")
		b.WriteString("| Package | Workload | Images | In Registry |\n")
		b.WriteString("|---------|----------|--------|-------------|\n")
		for _, img := range result.ImageImpacts {
			fmt.Fprintf(b, "| `%s` | `%s` | %s | %t |\n",
				img.PackageName, img.Workload, codeList(img.Images), img.InRegistry)
		}
		b.WriteString("\n")
	}

	if len(result.NetworkImpacts) > 0 {
		b.WriteString("## Network Policy Impact\n\n")
		for _, np := range result.NetworkImpacts {
			fmt.Fprintf(b, "### Workload `%s`\n", np.Workload)
			if len(np.Policies) > 0 {
				fmt.Fprintf(b, "- **Policies:** %s\n", codeList(np.Policies))
			}
			if len(np.CoAffectedWorkloads) > 0 {
				fmt.Fprintf(b, "- **Co-affected Workloads:** %s\n", codeList(np.CoAffectedWorkloads))
			}
			b.WriteString("\n")
		}
	}
}

// codeList renders values as comma-separated inline code.
func codeList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "`" + v + "`"
	}
	return strings.Join(quoted, ", ")
}

// severityBadge prefixes a severity with its colour marker, matching
// the badges CI reviewers already scan for.
func severityBadge(severity changes.Severity) string {
	switch severity {
	case changes.SeverityCritical:
		return "🔴 CRITICAL"
	case changes.SeverityHigh:
		return "🟡 HIGH"
	case changes.SeverityMedium:
		return "🟠 MEDIUM"
	case changes.SeverityLow:
		return "🟢 LOW"
	default:
		return string(severity)
	}
}

func riskBadge(level changes.Severity) string {
	return severityBadge(level)
}
