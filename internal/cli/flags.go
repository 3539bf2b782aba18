package cli

import "trun/internal/config"

// Flags holds command-line flags
type Flags struct {
	ProjectPath string
	Type        string
	Suite       string
	Env         string

	Parallel   bool
	NoParallel bool
	Cleanup    bool
	NoCleanup  bool
	Upload     bool
	NoUpload   bool

	TimeoutSeconds int
	DryRun         bool
	Verbose        bool
	ResultsDir     string
}

// ToConfigFlags converts CLI flags to config flags. The no- variants
// win over their positive defaults so both --parallel and
// --no-parallel spellings work.
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ProjectPath:    f.ProjectPath,
		Type:           f.Type,
		Suite:          f.Suite,
		Env:            f.Env,
		Parallel:       f.Parallel && !f.NoParallel,
		Cleanup:        f.Cleanup && !f.NoCleanup,
		Upload:         f.Upload && !f.NoUpload,
		TimeoutSeconds: f.TimeoutSeconds,
		DryRun:         f.DryRun,
		Verbose:        f.Verbose,
		ResultsDir:     f.ResultsDir,
	}
}
