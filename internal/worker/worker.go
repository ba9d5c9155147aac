package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/drillsim/drillsim/internal/queue"
	"github.com/drillsim/drillsim/internal/sim"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/rs/zerolog"
)

// Completion is the payload of the complete command
type Completion struct {
	SessionID string
	Scenario  string
	Disaster  core.DisasterType
	Event     core.CompletionEvent
}

// TelemetrySink receives frame samples and completion records off the frame goroutine
type TelemetrySink interface {
	WriteFrames(samples []sim.FrameSample) error
	WriteCompletion(c Completion) error
}

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Sink   TelemetrySink
	Logger zerolog.Logger

	// SampleEvery forwards one frame in every N to the sink
	SampleEvery int
	// BatchSize is the number of samples buffered before a write
	BatchSize int
}

// Manager batches telemetry between the dispatcher and a sink
type Manager struct {
	deps    Dependencies
	batch   *queue.Queue[sim.FrameSample]
	handled atomic.Uint64

	mu            sync.Mutex
	lastWriteTime time.Duration
	completions   []Completion
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies) *Manager {
	if deps.SampleEvery < 1 {
		deps.SampleEvery = 1
	}
	if deps.BatchSize < 1 {
		deps.BatchSize = 1
	}
	deps.Logger = deps.Logger.With().Str("component", "worker").Logger()
	return &Manager{
		deps: deps,
		// twice the batch so a slow write does not lose the next batch
		batch: queue.New[sim.FrameSample](deps.BatchSize * 2),
	}
}

// GetLastWriteDuration returns the duration of the last sink write.
func (m *Manager) GetLastWriteDuration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastWriteTime
}

// Completions returns every completion handled so far
func (m *Manager) Completions() []Completion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Completion(nil), m.completions...)
}

// Pending returns the number of samples waiting for the next write
func (m *Manager) Pending() int {
	return m.batch.Len()
}

// Dropped returns the number of samples overwritten before they were written
func (m *Manager) Dropped() int {
	return m.batch.Dropped()
}

// Handled returns the number of frame samples received from the dispatcher
func (m *Manager) Handled() uint64 {
	return m.handled.Load()
}

// Flush writes buffered samples to the sink
func (m *Manager) Flush() error {
	samples := m.batch.GetAndEmpty()
	if len(samples) == 0 || m.deps.Sink == nil {
		return nil
	}
	start := time.Now()
	err := m.deps.Sink.WriteFrames(samples)
	m.mu.Lock()
	m.lastWriteTime = time.Since(start)
	m.mu.Unlock()
	return err
}
