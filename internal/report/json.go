package report

import (
	"encoding/json"

	"github.com/fleetscope/fleetscope/internal/errors"
	"github.com/fleetscope/fleetscope/internal/impact"
	"github.com/fleetscope/fleetscope/internal/version"
)

// jsonReport wraps the result with the report schema version so CI
// consumers can detect format changes.
type jsonReport struct {
	Version string `json:"version"`
	*impact.AnalysisResult
}

// RenderJSON renders the result as indented JSON for CI gates.
func RenderJSON(result *impact.AnalysisResult) ([]byte, error) {
	const op = "report.RenderJSON"

	data, err := json.MarshalIndent(jsonReport{
		Version:        version.Get(),
		AnalysisResult: result,
	}, "", "  ")
	if err != nil {
		return nil, errors.InternalWrap(err, op, "failed to marshal report")
	}
	return data, nil
}
