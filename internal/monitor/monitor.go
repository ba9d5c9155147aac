// Package monitor periodically reports the health of the telemetry pipeline.
package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/drillsim/drillsim/internal/dispatcher"
	"github.com/drillsim/drillsim/internal/worker"
	"github.com/rs/zerolog"
)

// Status is one sample of the telemetry pipeline
type Status struct {
	Time           time.Time `json:"time"`
	FramesHandled  uint64    `json:"framesHandled"`
	PendingSamples int       `json:"pendingSamples"`
	DroppedSamples int       `json:"droppedSamples"`
	Completions    int       `json:"completions"`
	LastWriteMs    float64   `json:"lastWriteMs"`
	DroppedEvents  uint64    `json:"droppedEvents"`
	FailedEvents   uint64    `json:"failedEvents"`
}

// StatusSink stores status samples
type StatusSink interface {
	WriteStatus(s Status) error
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Telemetry *worker.Manager
	Events    *dispatcher.Dispatcher // optional
	Sink      StatusSink             // optional
	// StatusFile is rewritten with the latest status, empty to disable
	StatusFile string
	Interval   time.Duration
	Logger     zerolog.Logger
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = time.Second
	}
	deps.Logger = deps.Logger.With().Str("component", "monitor").Logger()
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus samples the pipeline now
func (s *Service) GetStatus() Status {
	t := s.deps.Telemetry
	status := Status{
		Time:           time.Now(),
		FramesHandled:  t.Handled(),
		PendingSamples: t.Pending(),
		DroppedSamples: t.Dropped(),
		Completions:    len(t.Completions()),
		LastWriteMs:    float64(t.GetLastWriteDuration().Microseconds()) / 1000,
	}
	if s.deps.Events != nil {
		for _, rs := range s.deps.Events.Stats() {
			status.DroppedEvents += rs.Dropped
			status.FailedEvents += rs.Failed
		}
	}
	return status
}

// Report samples the pipeline once and writes the result to the status file
// and sink
func (s *Service) Report() (Status, error) {
	status := s.GetStatus()
	if s.deps.StatusFile != "" {
		if err := writeStatusFile(s.deps.StatusFile, status); err != nil {
			return status, err
		}
	}
	if s.deps.Sink != nil {
		if err := s.deps.Sink.WriteStatus(status); err != nil {
			return status, fmt.Errorf("error writing status: %w", err)
		}
	}
	return status, nil
}

func writeStatusFile(path string, status Status) error {
	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating status dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(s.stopChan, s.done)
}

func (s *Service) run(stop, done chan struct{}) {
	defer close(done)

	s.deps.Logger.Debug().Dur("interval", s.deps.Interval).Msg("Starting status monitor")
	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			status, err := s.Report()
			if err != nil {
				s.deps.Logger.Error().Err(err).Msg("Status report failed")
				continue
			}
			if status.DroppedSamples > 0 || status.DroppedEvents > 0 {
				s.deps.Logger.Warn().
					Int("samples", status.DroppedSamples).
					Uint64("events", status.DroppedEvents).
					Msg("Telemetry dropped")
			}
		}
	}
}

// Stop stops the status monitor and waits for it to exit
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()
	<-done
}
