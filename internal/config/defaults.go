package config

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultResultsDir is the host directory run artifacts land in
	DefaultResultsDir = "test-results"
	// DefaultTimeoutSeconds wraps the entire job set
	DefaultTimeoutSeconds = 3600
	// DefaultRegistry prefixes every test image tag
	DefaultRegistry = "trun"
	// DefaultSummaryFile is the run manifest file name
	DefaultSummaryFile = "summary.json"
	// StopGraceSeconds is how long a container gets between SIGTERM
	// and the forced kill during timeout handling and teardown
	StopGraceSeconds = 10
)
