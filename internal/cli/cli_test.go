package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetscope/fleetscope/internal/config"
	"github.com/fleetscope/fleetscope/internal/domain/changes"
	"github.com/fleetscope/fleetscope/internal/impact"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["analyze"])
	assert.True(t, names["ingest"])
	assert.True(t, names["version"])
}

func TestGlobalFlagsRegistered(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{"config", "verbose", "json", "no-color", "log-level"} {
		assert.NotNil(t, flags.Lookup(name), "missing flag %q", name)
	}
}

func TestDetectorConfigSplitsInfraRoots(t *testing.T) {
	cfg = config.DefaultConfig()
	cfg.Repo.InfraRoots = []string{"infrastructure/helm", "deploy/charts"}

	dc := detectorConfig("/tmp/repo")

	assert.Equal(t, "/tmp/repo", dc.RepoPath)
	assert.Equal(t, cfg.Repo.ServiceRoots, dc.ServiceRoots)
	assert.Equal(t, [][2]string{{"infrastructure", "helm"}, {"deploy", "charts"}}, dc.InfraRoots)
}

func TestApplyGlobalFlagsOverridesConfig(t *testing.T) {
	cfg = config.DefaultConfig()
	verbose = true
	outputJSON = true
	logLevel = "debug"
	t.Cleanup(func() {
		verbose = false
		outputJSON = false
		logLevel = ""
	})

	applyGlobalFlags()

	assert.True(t, cfg.Output.Verbose)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "debug", cfg.Output.LogLevel)
}

func TestRenderReportFormats(t *testing.T) {
	result := &impact.AnalysisResult{BaseRef: "main", HeadRef: "HEAD"}
	result.Summary.OverallRiskLevel = changes.SeverityLow

	cfg = config.DefaultConfig()
	out, err := renderReport(result)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "), "markdown report should start with a heading")

	cfg.Output.Format = "json"
	out, err = renderReport(result)
	require.NoError(t, err)
	assert.Contains(t, out, `"baseRef": "main"`)
}
