// Package config provides configuration management for FleetScope.
package config

// Config is the complete FleetScope configuration.
type Config struct {
	Graph  GraphConfig  `mapstructure:"graph"`
	Repo   RepoConfig   `mapstructure:"repo"`
	Ingest IngestConfig `mapstructure:"ingest"`
	Output OutputConfig `mapstructure:"output"`
}

// GraphConfig holds graph store connection settings.
type GraphConfig struct {
	// URI is the bolt/neo4j connection URI.
	URI string `mapstructure:"uri"`
	// Username for basic auth.
	Username string `mapstructure:"username"`
	// Password for basic auth. Supports ${VAR} expansion so the secret
	// never lives in the file.
	Password string `mapstructure:"password"`
	// Database selects a named database; empty uses the server default.
	Database string `mapstructure:"database"`
	// ProductionMarkers are substrings of cluster names treated as
	// production for risk scoring.
	ProductionMarkers []string `mapstructure:"production_markers"`
}

// RepoConfig holds repository analysis settings.
type RepoConfig struct {
	// Path is the repository root to analyze.
	Path string `mapstructure:"path"`
	// BaseRef is the comparison base.
	BaseRef string `mapstructure:"base_ref"`
	// HeadRef is the comparison head.
	HeadRef string `mapstructure:"head_ref"`
	// ServiceRoots are top-level directories whose children are
	// services.
	ServiceRoots []string `mapstructure:"service_roots"`
	// InfraRoots are two-level prefixes whose children are services
	// (e.g. infrastructure/helm).
	InfraRoots []string `mapstructure:"infra_roots"`
}

// IngestConfig holds ingestion settings.
type IngestConfig struct {
	// Cluster tags ingested workloads with their target cluster.
	Cluster string `mapstructure:"cluster"`
	// Concurrency bounds parallel source-file scanning.
	Concurrency int `mapstructure:"concurrency"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	// Format is "markdown" or "json".
	Format string `mapstructure:"format"`
	// Color enables terminal colors.
	Color bool `mapstructure:"color"`
	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`
	// LogLevel overrides the log level (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`
}

// DefaultConfig returns the configuration used when no file or
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			URI:               "bolt://localhost:7687",
			Username:          "neo4j",
			Database:          "",
			ProductionMarkers: []string{"prod"},
		},
		Repo: RepoConfig{
			Path:         ".",
			BaseRef:      "origin/main",
			HeadRef:      "HEAD",
			ServiceRoots: []string{"services", "apps", "microservices"},
			InfraRoots:   []string{"infrastructure/helm"},
		},
		Ingest: IngestConfig{
			Concurrency: 8,
		},
		Output: OutputConfig{
			Format:   "markdown",
			Color:    true,
			LogLevel: "info",
		},
	}
}

// ConfigFileNames to search for.
var ConfigFileNames = []string{
	"fleetscope",
	".fleetscope",
}

// ConfigFileExtensions supported by Viper.
var ConfigFileExtensions = []string{
	"yaml",
	"yml",
}
