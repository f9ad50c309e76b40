package metrics

import (
	"sync"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	// UpstreamRequests counts requests keyed by "<area>/<outcome>".
	UpstreamRequests map[string]uint64
	// UpstreamDurationTotal sums request durations keyed by area.
	UpstreamDurationTotal map[string]time.Duration
	// UpstreamDurationCount counts duration observations keyed by area.
	UpstreamDurationCount map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu            sync.Mutex
	requests      map[string]uint64
	durationTotal map[string]time.Duration
	durationCount map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		requests:      make(map[string]uint64),
		durationTotal: make(map[string]time.Duration),
		durationCount: make(map[string]uint64),
	}
}

// IncUpstreamRequest increments the counter for one area/outcome pair.
func (m *InMemoryRecorder) IncUpstreamRequest(area, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[area+"/"+outcome]++
}

// ObserveUpstreamDuration records one request duration.
func (m *InMemoryRecorder) ObserveUpstreamDuration(area string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durationTotal[area] += duration
	m.durationCount[area]++
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		UpstreamRequests:      make(map[string]uint64, len(m.requests)),
		UpstreamDurationTotal: make(map[string]time.Duration, len(m.durationTotal)),
		UpstreamDurationCount: make(map[string]uint64, len(m.durationCount)),
	}
	for k, v := range m.requests {
		snap.UpstreamRequests[k] = v
	}
	for k, v := range m.durationTotal {
		snap.UpstreamDurationTotal[k] = v
	}
	for k, v := range m.durationCount {
		snap.UpstreamDurationCount[k] = v
	}
	return snap
}
