package domain

import "fmt"

// ProjectType identifies the runtime of the project under test
type ProjectType string

const (
	TypeNode      ProjectType = "node"
	TypeReact     ProjectType = "react"
	TypeVue       ProjectType = "vue"
	TypeAngular   ProjectType = "angular"
	TypePython    ProjectType = "python"
	TypeFastAPI   ProjectType = "fastapi"
	TypeDjango    ProjectType = "django"
	TypePHP       ProjectType = "php"
	TypeWordPress ProjectType = "wordpress"
	TypeLaravel   ProjectType = "laravel"
	TypeAuto      ProjectType = "auto"
	TypeUnknown   ProjectType = "unknown"
)

// projectTypes is the closed set accepted from flags and env
var projectTypes = map[ProjectType]bool{
	TypeNode:      true,
	TypeReact:     true,
	TypeVue:       true,
	TypeAngular:   true,
	TypePython:    true,
	TypeFastAPI:   true,
	TypeDjango:    true,
	TypePHP:       true,
	TypeWordPress: true,
	TypeLaravel:   true,
	TypeAuto:      true,
}

// ParseProjectType validates a user-supplied project type
func ParseProjectType(s string) (ProjectType, error) {
	pt := ProjectType(s)
	if !projectTypes[pt] {
		return TypeUnknown, fmt.Errorf("unknown project type: %q", s)
	}
	return pt, nil
}

// Suite names a test suite profile
type Suite string

const (
	SuiteUnit        Suite = "unit"
	SuiteIntegration Suite = "integration"
	SuiteE2E         Suite = "e2e"
	SuitePerformance Suite = "performance"
	SuiteLoad        Suite = "load"
	SuiteSecurity    Suite = "security"
	SuiteQuality     Suite = "quality"
	SuiteAll         Suite = "all"
)

var suites = map[Suite]bool{
	SuiteUnit:        true,
	SuiteIntegration: true,
	SuiteE2E:         true,
	SuitePerformance: true,
	SuiteLoad:        true,
	SuiteSecurity:    true,
	SuiteQuality:     true,
	SuiteAll:         true,
}

// ParseSuite validates a user-supplied suite name
func ParseSuite(s string) (Suite, error) {
	st := Suite(s)
	if !suites[st] {
		return "", fmt.Errorf("unknown suite: %q", s)
	}
	return st, nil
}

// Environment identifies where the orchestrator itself is running
type Environment string

const (
	EnvLocal Environment = "local"
	EnvCI    Environment = "ci"
	EnvK8s   Environment = "k8s"
)

// ParseEnvironment validates a user-supplied environment name
func ParseEnvironment(s string) (Environment, error) {
	switch Environment(s) {
	case EnvLocal, EnvCI, EnvK8s:
		return Environment(s), nil
	}
	return "", fmt.Errorf("unknown environment: %q", s)
}
