package worker

import (
	"fmt"

	"github.com/drillsim/drillsim/internal/dispatcher"
	"github.com/drillsim/drillsim/internal/sim"
	"github.com/drillsim/drillsim/pkg/core"
)

const (
	CommandFrame    = "frame"
	CommandComplete = "complete"
)

// RegisterHandlers registers the telemetry handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	// High-volume frame samples - buffered, dropped when the sink falls behind
	d.Register(CommandFrame, m.handleFrame, dispatcher.Buffered(1024))

	// Completion must not be lost
	d.Register(CommandComplete, m.handleComplete, dispatcher.Buffered(16), dispatcher.Blocking(), dispatcher.Logged())
}

// Observer returns a frame observer for sim.WithFrameObserver that forwards
// every SampleEvery-th frame. Full queues drop samples rather than stall the frame.
func (m *Manager) Observer(d *dispatcher.Dispatcher) func(sim.FrameSample) {
	every := uint64(m.deps.SampleEvery)
	return func(s sim.FrameSample) {
		if s.Frame%every != 0 {
			return
		}
		_ = d.Dispatch(dispatcher.Event{Command: CommandFrame, Payload: s})
	}
}

// OnComplete returns a completion callback for sim.WithOnComplete
func (m *Manager) OnComplete(d *dispatcher.Dispatcher, sessionID string, sc core.Scenario) func(core.CompletionEvent) {
	return func(ev core.CompletionEvent) {
		c := Completion{
			SessionID: sessionID,
			Scenario:  sc.Name,
			Disaster:  sc.Disaster,
			Event:     ev,
		}
		if err := d.Dispatch(dispatcher.Event{Command: CommandComplete, Payload: c}); err != nil {
			m.deps.Logger.Error().Err(err).Str("session", sessionID).Msg("Failed to dispatch completion")
		}
	}
}

func (m *Manager) handleFrame(e dispatcher.Event) error {
	s, ok := e.Payload.(sim.FrameSample)
	if !ok {
		return fmt.Errorf("frame: unexpected payload %T", e.Payload)
	}
	m.handled.Add(1)
	m.batch.Push(s)
	if m.batch.Len() < m.deps.BatchSize {
		return nil
	}
	if err := m.Flush(); err != nil {
		return fmt.Errorf("failed to write frame samples: %w", err)
	}
	return nil
}

func (m *Manager) handleComplete(e dispatcher.Event) error {
	c, ok := e.Payload.(Completion)
	if !ok {
		return fmt.Errorf("complete: unexpected payload %T", e.Payload)
	}

	m.mu.Lock()
	m.completions = append(m.completions, c)
	m.mu.Unlock()

	m.deps.Logger.Info().
		Str("session", c.SessionID).
		Str("scenario", c.Scenario).
		Int("score", c.Event.Score).
		Float64("time", c.Event.Time).
		Msg("Drill completed")

	if err := m.Flush(); err != nil {
		m.deps.Logger.Warn().Err(err).Msg("Failed to flush frame samples before completion")
	}
	if m.deps.Sink == nil {
		return nil
	}
	if err := m.deps.Sink.WriteCompletion(c); err != nil {
		return fmt.Errorf("failed to write completion: %w", err)
	}
	return nil
}
