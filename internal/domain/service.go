package domain

import "time"

// ProbeKind selects how a service's readiness is checked
type ProbeKind string

const (
	// ProbeMySQL pings the database server directly over the wire
	ProbeMySQL ProbeKind = "mysql"
	// ProbeTCP dials a host:port until the service accepts connections
	ProbeTCP ProbeKind = "tcp"
	// ProbeCommand runs a health command inside the service container
	ProbeCommand ProbeKind = "command"
)

// ServiceState is the readiness state of a backing service
type ServiceState string

const (
	ServicePending ServiceState = "Pending"
	ServiceHealthy ServiceState = "Healthy"
	ServiceFailed  ServiceState = "Failed"
)

// ServiceSpec declares one backing dependency (database, cache,
// browser) that must be Healthy before any test job starts.
type ServiceSpec struct {
	Name          string
	Image         string
	Probe         ProbeKind
	ProbeTarget   string   // dsn, host:port, or unused for command probes
	ProbeCommand  []string // command probes only
	MaxRetries    int
	RetryInterval time.Duration
}

// ReadyBudget is the upper bound on how long probing this service may
// take before it is marked Failed.
func (s ServiceSpec) ReadyBudget() time.Duration {
	retries := s.MaxRetries
	if retries < 1 {
		retries = 1
	}
	return time.Duration(retries) * s.RetryInterval
}
