package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"trun/internal/domain"
)

// Config holds all configuration for one run. It is built once from
// flags and environment at process start and never mutated afterwards;
// every component receives it by parameter, never via globals.
type Config struct {
	// Project settings
	ProjectPath string
	ProjectType domain.ProjectType
	Suite       domain.Suite
	Environment domain.Environment

	// Execution settings
	Parallel       bool
	CleanupAfter   bool
	UploadResults  bool
	TimeoutSeconds int
	DryRun         bool
	Verbose        bool

	// Output settings
	ResultsDir string
	RunID      string

	// Environment-sourced settings
	Registry   string
	ReportURL  string
	BuildCache bool
}

// Flags holds raw command-line flag values before validation
type Flags struct {
	ProjectPath    string
	Type           string
	Suite          string
	Env            string
	Parallel       bool
	Cleanup        bool
	Upload         bool
	TimeoutSeconds int
	DryRun         bool
	Verbose        bool
	ResultsDir     string
}

// Build validates flags, loads the project's .env file, applies
// environment overrides and derives a fresh runId from the start
// timestamp.
func Build(flags Flags) (*Config, error) {
	projectPath := flags.ProjectPath
	if projectPath == "" {
		projectPath = DefaultProjectPath
	}

	// .env file might not exist, that's okay - use environment variables
	_ = godotenv.Load(filepath.Join(projectPath, ".env"))

	rawType := flags.Type
	if rawType == "" || rawType == string(domain.TypeAuto) {
		if env := strings.TrimSpace(os.Getenv("TRUN_PROJECT_TYPE")); env != "" {
			rawType = env
		}
	}
	if rawType == "" {
		rawType = string(domain.TypeAuto)
	}
	projectType, err := domain.ParseProjectType(rawType)
	if err != nil {
		return nil, err
	}

	suite, err := domain.ParseSuite(flags.Suite)
	if err != nil {
		return nil, err
	}

	environment, err := domain.ParseEnvironment(flags.Env)
	if err != nil {
		return nil, err
	}

	if flags.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %d", flags.TimeoutSeconds)
	}

	resultsDir := flags.ResultsDir
	if resultsDir == "" {
		resultsDir = DefaultResultsDir
	}

	registry := strings.TrimSpace(os.Getenv("TRUN_REGISTRY"))
	if registry == "" {
		registry = DefaultRegistry
	}

	return &Config{
		ProjectPath:    projectPath,
		ProjectType:    projectType,
		Suite:          suite,
		Environment:    environment,
		Parallel:       flags.Parallel,
		CleanupAfter:   flags.Cleanup,
		UploadResults:  flags.Upload,
		TimeoutSeconds: flags.TimeoutSeconds,
		DryRun:         flags.DryRun,
		Verbose:        flags.Verbose,
		ResultsDir:     resultsDir,
		RunID:          time.Now().UTC().Format("20060102-150405"),
		Registry:       registry,
		ReportURL:      strings.TrimSpace(os.Getenv("TRUN_REPORT_URL")),
		BuildCache:     parseBool(os.Getenv("TRUN_BUILD_CACHE")),
	}, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// RunDir returns the timestamp-namespaced result directory for this run
func (c *Config) RunDir() string {
	p := filepath.Join(c.ResultsDir, c.RunID)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// JobDir returns the artifact directory for one job
func (c *Config) JobDir(jobID string) string {
	return filepath.Join(c.RunDir(), jobID)
}

// SummaryPath returns the run manifest path
func (c *Config) SummaryPath() string {
	return filepath.Join(c.RunDir(), DefaultSummaryFile)
}

// NetworkName returns the run-exclusive container network name
func (c *Config) NetworkName() string {
	return "trun-" + c.RunID + "-net"
}

// ContainerName returns a run-prefixed container name. The prefix is
// exclusive to one runId; no two invocations share it.
func (c *Config) ContainerName(name string) string {
	return "trun-" + c.RunID + "-" + name
}

// ImageTag returns the deterministic tag for a runtime's test image
func (c *Config) ImageTag(imageBase string) string {
	return c.Registry + "/" + imageBase
}

// BuildContextDir returns the docker build context for a project type
func (c *Config) BuildContextDir(t domain.ProjectType) string {
	return filepath.Join(c.ProjectPath, "docker", string(t))
}

// MySQLDSN builds the health-probe DSN from DB_* environment variables
func (c *Config) MySQLDSN() string {
	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "3306"
	}
	user := os.Getenv("DB_USERNAME")
	if user == "" {
		user = "root"
	}
	password := os.Getenv("DB_PASSWORD")
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/", user, password, host, port)
}
