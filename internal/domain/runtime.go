package domain

import "time"

// JobTemplate is one runnable suite entry for a runtime
type JobTemplate struct {
	Suite       Suite
	Command     []string
	WorkDir     string
	OutputPaths []string
}

// RuntimeSpec maps a project type to its test image, job templates and
// backing services. The table below replaces free-form string dispatch:
// every supported type has exactly one entry.
type RuntimeSpec struct {
	Type     ProjectType
	Jobs     []JobTemplate
	Services []ServiceSpec
}

// ImageBase is the deterministic image name for the type, without the
// registry prefix: <type>-test.
func (r RuntimeSpec) ImageBase() string {
	return string(r.Type) + "-test"
}

// Templates resolves a requested suite into the ordered job templates
// to execute. SuiteAll fans out to every suite the runtime declares.
func (r RuntimeSpec) Templates(s Suite) []JobTemplate {
	if s == SuiteAll {
		out := make([]JobTemplate, len(r.Jobs))
		copy(out, r.Jobs)
		return out
	}
	for _, t := range r.Jobs {
		if t.Suite == s {
			return []JobTemplate{t}
		}
	}
	return nil
}

// ServicesFor returns the service profile for a suite. E2E suites add
// a browser container on top of the runtime's base services.
func (r RuntimeSpec) ServicesFor(s Suite) []ServiceSpec {
	out := make([]ServiceSpec, len(r.Services))
	copy(out, r.Services)
	if s == SuiteE2E || s == SuiteAll {
		if r.hasSuite(SuiteE2E) {
			out = append(out, browserService)
		}
	}
	return out
}

func (r RuntimeSpec) hasSuite(s Suite) bool {
	for _, t := range r.Jobs {
		if t.Suite == s {
			return true
		}
	}
	return false
}

const (
	defaultWorkDir       = "/app"
	defaultProbeRetries  = 5
	defaultProbeInterval = 2 * time.Second
)

var resultPaths = []string{"/app/test-results", "/app/coverage"}

var mysqlService = ServiceSpec{
	Name:          "mysql",
	Image:         "mysql:8.0",
	Probe:         ProbeMySQL,
	MaxRetries:    defaultProbeRetries,
	RetryInterval: defaultProbeInterval,
}

var redisService = ServiceSpec{
	Name:          "redis",
	Image:         "redis:7-alpine",
	Probe:         ProbeTCP,
	ProbeTarget:   "127.0.0.1:6379",
	MaxRetries:    defaultProbeRetries,
	RetryInterval: defaultProbeInterval,
}

var browserService = ServiceSpec{
	Name:          "selenium",
	Image:         "selenium/standalone-chrome:latest",
	Probe:         ProbeTCP,
	ProbeTarget:   "127.0.0.1:4444",
	MaxRetries:    defaultProbeRetries,
	RetryInterval: defaultProbeInterval,
}

func npmJob(suite Suite, script string, extraPaths ...string) JobTemplate {
	return JobTemplate{
		Suite:       suite,
		Command:     []string{"npm", "run", script},
		WorkDir:     defaultWorkDir,
		OutputPaths: append(append([]string{}, resultPaths...), extraPaths...),
	}
}

func pytestJob(suite Suite, target string) JobTemplate {
	return JobTemplate{
		Suite: suite,
		Command: []string{
			"pytest", target,
			"--json-report", "--json-report-file=/app/test-results/report.json",
		},
		WorkDir:     defaultWorkDir,
		OutputPaths: resultPaths,
	}
}

func phpunitJob(suite Suite, testsuite string) JobTemplate {
	return JobTemplate{
		Suite:       suite,
		Command:     []string{"vendor/bin/phpunit", "--testsuite", testsuite},
		WorkDir:     defaultWorkDir,
		OutputPaths: resultPaths,
	}
}

// runtimes is the closed dispatch table for every concrete project type
var runtimes = map[ProjectType]RuntimeSpec{
	TypeNode: {
		Type: TypeNode,
		Jobs: []JobTemplate{
			npmJob(SuiteUnit, "test:unit"),
			npmJob(SuiteIntegration, "test:integration"),
			npmJob(SuiteQuality, "lint"),
		},
		Services: []ServiceSpec{mysqlService, redisService},
	},
	TypeReact: {
		Type: TypeReact,
		Jobs: []JobTemplate{
			npmJob(SuiteUnit, "test:unit"),
			npmJob(SuiteE2E, "test:e2e", "/app/screenshots"),
			npmJob(SuiteQuality, "lint"),
		},
	},
	TypeVue: {
		Type: TypeVue,
		Jobs: []JobTemplate{
			npmJob(SuiteUnit, "test:unit"),
			npmJob(SuiteE2E, "test:e2e", "/app/screenshots"),
			npmJob(SuiteQuality, "lint"),
		},
	},
	TypeAngular: {
		Type: TypeAngular,
		Jobs: []JobTemplate{
			npmJob(SuiteUnit, "test"),
			npmJob(SuiteE2E, "e2e", "/app/screenshots"),
			npmJob(SuiteQuality, "lint"),
		},
	},
	TypePython: {
		Type: TypePython,
		Jobs: []JobTemplate{
			pytestJob(SuiteUnit, "tests/unit"),
			pytestJob(SuiteIntegration, "tests/integration"),
			pytestJob(SuiteQuality, "tests/quality"),
		},
		Services: []ServiceSpec{mysqlService},
	},
	TypeFastAPI: {
		Type: TypeFastAPI,
		Jobs: []JobTemplate{
			pytestJob(SuiteUnit, "tests/unit"),
			pytestJob(SuiteIntegration, "tests/integration"),
			pytestJob(SuitePerformance, "tests/performance"),
			pytestJob(SuiteLoad, "tests/load"),
			pytestJob(SuiteSecurity, "tests/security"),
		},
		Services: []ServiceSpec{mysqlService, redisService},
	},
	TypeDjango: {
		Type: TypeDjango,
		Jobs: []JobTemplate{
			pytestJob(SuiteUnit, "tests/unit"),
			pytestJob(SuiteIntegration, "tests/integration"),
			pytestJob(SuiteE2E, "tests/e2e"),
		},
		Services: []ServiceSpec{mysqlService},
	},
	TypePHP: {
		Type: TypePHP,
		Jobs: []JobTemplate{
			phpunitJob(SuiteUnit, "Unit"),
			phpunitJob(SuiteIntegration, "Integration"),
		},
		Services: []ServiceSpec{mysqlService},
	},
	TypeWordPress: {
		Type: TypeWordPress,
		Jobs: []JobTemplate{
			phpunitJob(SuiteUnit, "Unit"),
			phpunitJob(SuiteIntegration, "Integration"),
			npmJob(SuiteE2E, "test:e2e", "/app/screenshots"),
		},
		Services: []ServiceSpec{mysqlService},
	},
	TypeLaravel: {
		Type: TypeLaravel,
		Jobs: []JobTemplate{
			phpunitJob(SuiteUnit, "Unit"),
			phpunitJob(SuiteIntegration, "Feature"),
		},
		Services: []ServiceSpec{mysqlService, redisService},
	},
}

// RuntimeFor returns the runtime spec for a concrete project type.
// TypeAuto and TypeUnknown have no runtime.
func RuntimeFor(t ProjectType) (RuntimeSpec, bool) {
	rt, ok := runtimes[t]
	return rt, ok
}
