package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fleetscope/fleetscope/internal/analysis"
	"github.com/fleetscope/fleetscope/internal/fileutil"
	"github.com/fleetscope/fleetscope/internal/impact"
	gitadapter "github.com/fleetscope/fleetscope/internal/infrastructure/git"
	neo4jstore "github.com/fleetscope/fleetscope/internal/infrastructure/neo4j"
	"github.com/fleetscope/fleetscope/internal/report"
)

var (
	analyzeRepoPath string
	analyzeBaseRef  string
	analyzeHeadRef  string
	analyzeFiles    []string
	analyzeOutput   string
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRepoPath, "repo", "", "repository path (default: repo.path from config)")
	analyzeCmd.Flags().StringVar(&analyzeBaseRef, "base", "", "comparison base ref (default: repo.base_ref from config)")
	analyzeCmd.Flags().StringVar(&analyzeHeadRef, "head", "", "comparison head ref (default: repo.head_ref from config)")
	analyzeCmd.Flags().StringSliceVar(&analyzeFiles, "files", nil, "analyze these files instead of the git diff")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")

	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the blast radius of changed files",
	Long: `Analyze the impact of changes between two git references.

The command diffs the repository, classifies each changed file, then
walks the service graph to find affected services, callers that may
break, risk scores, and deployment recommendations.

Example:
  fleetscope analyze --base origin/main --head HEAD
  fleetscope analyze --files services/billing/app.js
  fleetscope analyze --json -o impact.json`,
	RunE: runAnalyze,
}

// runAnalyze implements the analyze command.
func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	repoPath := cfg.Repo.Path
	if analyzeRepoPath != "" {
		repoPath = analyzeRepoPath
	}
	baseRef := cfg.Repo.BaseRef
	if analyzeBaseRef != "" {
		baseRef = analyzeBaseRef
	}
	headRef := cfg.Repo.HeadRef
	if analyzeHeadRef != "" {
		headRef = analyzeHeadRef
	}

	repo, err := gitadapter.Open(repoPath, gitadapter.WithLogger(slogLogger()))
	if err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}

	detector := analysis.NewChangeDetector(detectorConfig(repoPath),
		analysis.WithDiffSource(repo),
		analysis.WithLogger(slogLogger()),
	)

	logger.Debug("connecting to graph store", "uri", cfg.Graph.URI)
	store, err := neo4jstore.Connect(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password,
		neo4jstore.WithDatabase(cfg.Graph.Database),
		neo4jstore.WithProductionMarkers(cfg.Graph.ProductionMarkers),
		neo4jstore.WithLogger(slogLogger()),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to graph store: %w", err)
	}
	defer store.Close(ctx)

	analyzer := impact.NewAnalyzer(detector, store, impact.WithLogger(slogLogger()))

	result, err := analyzer.Analyze(ctx, baseRef, headRef, analyzeFiles)
	if err != nil {
		return fmt.Errorf("impact analysis failed: %w", err)
	}

	rendered, err := renderReport(result)
	if err != nil {
		return err
	}

	if analyzeOutput != "" {
		if err := fileutil.AtomicWriteFile(analyzeOutput, []byte(rendered), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		printSuccess(fmt.Sprintf("Report written to %s", analyzeOutput))
		return nil
	}

	fmt.Print(rendered)
	return nil
}

// renderReport renders the result in the configured output format.
func renderReport(result *impact.AnalysisResult) (string, error) {
	if cfg.Output.Format == "json" {
		data, err := report.RenderJSON(result)
		if err != nil {
			return "", fmt.Errorf("failed to render report: %w", err)
		}
		return string(data) + "\n", nil
	}
	return report.RenderMarkdown(result), nil
}

// detectorConfig builds the path heuristics from the loaded config.
func detectorConfig(repoPath string) analysis.DetectorConfig {
	dc := analysis.DetectorConfig{
		RepoPath:     repoPath,
		ServiceRoots: cfg.Repo.ServiceRoots,
	}
	for _, root := range cfg.Repo.InfraRoots {
		first, second, found := strings.Cut(root, "/")
		if found {
			dc.InfraRoots = append(dc.InfraRoots, [2]string{first, second})
		}
	}
	return dc
}
