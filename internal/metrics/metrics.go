// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Areas of the collaborator API a request can target.
const (
	AreaAuth = "auth"
	AreaRest = "rest"
)

// Request outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// IncUpstreamRequest counts one collaborator request by API area and
	// outcome.
	IncUpstreamRequest(area, outcome string)

	// ObserveUpstreamDuration records how long a collaborator request took.
	ObserveUpstreamDuration(area string, duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
