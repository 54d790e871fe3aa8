package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	fserrors "github.com/fleetscope/fleetscope/internal/errors"
)

// graphURISchemes are the connection schemes the bolt driver accepts.
var graphURISchemes = []string{"bolt", "bolt+s", "bolt+ssc", "neo4j", "neo4j+s", "neo4j+ssc"}

// ValidationError contains all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if len(e.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("Errors:\n  - %s", strings.Join(e.Errors, "\n  - ")))
	}

	if len(e.Warnings) > 0 {
		parts = append(parts, fmt.Sprintf("Warnings:\n  - %s", strings.Join(e.Warnings, "\n  - ")))
	}

	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(parts, "\n"))
}

// HasErrors returns true if there are validation errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (e *ValidationError) HasWarnings() bool {
	return len(e.Warnings) > 0
}

// Addf adds a formatted error to the validation error.
func (e *ValidationError) Addf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

// Warnf adds a formatted warning to the validation error.
func (e *ValidationError) Warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Validator validates configuration.
type Validator struct {
	errors *ValidationError
}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{
		errors: &ValidationError{},
	}
}

// Validate validates the configuration.
func (v *Validator) Validate(cfg *Config) error {
	v.validateGraph(cfg.Graph)
	v.validateRepo(cfg.Repo)
	v.validateIngest(cfg.Ingest)
	v.validateOutput(cfg.Output)

	// Print warnings to stderr even if there are no errors
	if v.errors.HasWarnings() {
		fmt.Fprintf(os.Stderr, "\n⚠️  Configuration Warnings:\n")
		for _, warning := range v.errors.Warnings {
			fmt.Fprintf(os.Stderr, "  - %s\n", warning)
		}
		fmt.Fprintf(os.Stderr, "\n")
	}

	if v.errors.HasErrors() {
		return fserrors.Validation("config.Validate", v.errors.Error())
	}

	return nil
}

// validateGraph validates graph store connection configuration.
func (v *Validator) validateGraph(cfg GraphConfig) {
	if cfg.URI == "" {
		v.errors.Addf("graph.uri: required")
		return
	}

	scheme, _, found := strings.Cut(cfg.URI, "://")
	if !found {
		v.errors.Addf("graph.uri: missing scheme, expected one of %v: %s", graphURISchemes, cfg.URI)
	} else if !slices.Contains(graphURISchemes, scheme) {
		v.errors.Addf("graph.uri: scheme must be one of %v, got %q", graphURISchemes, scheme)
	}

	if cfg.Username == "" {
		v.errors.Warnf("graph.username: empty, connecting without authentication")
	}

	// Password may legitimately come from FLEETSCOPE_GRAPH_PASSWORD at runtime
	if cfg.Username != "" && cfg.Password == "" && os.Getenv("FLEETSCOPE_GRAPH_PASSWORD") == "" {
		v.errors.Warnf("graph.password: empty (set via config or FLEETSCOPE_GRAPH_PASSWORD env var)")
	}

	if len(cfg.ProductionMarkers) == 0 {
		v.errors.Warnf("graph.production_markers: empty, no cluster will be treated as production")
	}
}

// validateRepo validates repository analysis configuration.
func (v *Validator) validateRepo(cfg RepoConfig) {
	if cfg.Path == "" {
		v.errors.Addf("repo.path: required")
	} else if _, err := os.Stat(cfg.Path); os.IsNotExist(err) {
		v.errors.Addf("repo.path: directory does not exist: %s", cfg.Path)
	}

	if cfg.BaseRef == "" {
		v.errors.Addf("repo.base_ref: required")
	}
	if cfg.HeadRef == "" {
		v.errors.Addf("repo.head_ref: required")
	}

	if len(cfg.ServiceRoots) == 0 && len(cfg.InfraRoots) == 0 {
		v.errors.Warnf("repo: no service_roots or infra_roots configured, path-based service detection is disabled")
	}

	for _, root := range cfg.InfraRoots {
		if strings.Count(root, "/") != 1 {
			v.errors.Addf("repo.infra_roots: must be a two-level prefix like 'infrastructure/helm', got %q", root)
		}
	}
}

// validateIngest validates ingestion configuration.
func (v *Validator) validateIngest(cfg IngestConfig) {
	if cfg.Concurrency < 1 {
		v.errors.Addf("ingest.concurrency: must be positive, got %d", cfg.Concurrency)
	}

	if cfg.Cluster == "" {
		v.errors.Warnf("ingest.cluster: empty, ingested workloads will not be linked to a cluster")
	}
}

// validateOutput validates output configuration.
func (v *Validator) validateOutput(cfg OutputConfig) {
	validFormats := []string{"markdown", "json"}
	if !slices.Contains(validFormats, cfg.Format) {
		v.errors.Addf("output.format: must be one of %v, got %q", validFormats, cfg.Format)
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, cfg.LogLevel) {
		v.errors.Addf("output.log_level: must be one of %v, got %q", validLogLevels, cfg.LogLevel)
	}
}

// Validate is a convenience function to validate configuration.
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// ValidateAndLoad loads and validates configuration.
func ValidateAndLoad() (*Config, error) {
	cfg, err := NewLoader().Load()
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
