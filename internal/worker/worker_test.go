package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/drillsim/drillsim/internal/dispatcher"
	"github.com/drillsim/drillsim/internal/logging"
	"github.com/drillsim/drillsim/internal/sim"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSink implements TelemetrySink for testing
type mockSink struct {
	mu          sync.Mutex
	writes      int
	samples     []sim.FrameSample
	completions []Completion
	err         error
}

func (s *mockSink) WriteFrames(samples []sim.FrameSample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	s.samples = append(s.samples, samples...)
	return s.err
}

func (s *mockSink) WriteCompletion(c Completion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completions = append(s.completions, c)
	return s.err
}

func (s *mockSink) counts() (writes, samples, completions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes, len(s.samples), len(s.completions)
}

func newTestDispatcher(t *testing.T) *dispatcher.Dispatcher {
	t.Helper()
	d, err := dispatcher.New(logging.NewKVLogger(zerolog.Nop()))
	require.NoError(t, err)
	return d
}

func frameEvent(n uint64) dispatcher.Event {
	return dispatcher.Event{Command: CommandFrame, Payload: sim.FrameSample{SessionID: "s", Frame: n}}
}

func TestRegisterHandlers(t *testing.T) {
	d := newTestDispatcher(t)
	m := NewManager(Dependencies{})
	m.RegisterHandlers(d)
	defer d.Close()

	assert.True(t, d.HasHandler(CommandFrame))
	assert.True(t, d.HasHandler(CommandComplete))
}

func TestFrames_WrittenInBatches(t *testing.T) {
	sink := &mockSink{}
	d := newTestDispatcher(t)
	m := NewManager(Dependencies{Sink: sink, BatchSize: 5})
	m.RegisterHandlers(d)

	for i := uint64(1); i <= 12; i++ {
		err := d.Dispatch(frameEvent(i))
		require.NoError(t, err)
	}
	d.Close()

	writes, samples, _ := sink.counts()
	assert.Equal(t, 2, writes)
	assert.Equal(t, 10, samples)
	assert.Equal(t, 2, m.Pending())
	assert.Equal(t, uint64(12), m.Handled())
	assert.Zero(t, m.Dropped())

	require.NoError(t, m.Flush())
	writes, samples, _ = sink.counts()
	assert.Equal(t, 3, writes)
	assert.Equal(t, 12, samples)
	assert.Zero(t, m.Pending())
}

func TestFlush_EmptyIsNoop(t *testing.T) {
	sink := &mockSink{}
	m := NewManager(Dependencies{Sink: sink})
	require.NoError(t, m.Flush())
	writes, _, _ := sink.counts()
	assert.Zero(t, writes)
}

func TestFlush_NilSinkDiscards(t *testing.T) {
	m := NewManager(Dependencies{BatchSize: 10})
	err := m.handleFrame(frameEvent(1))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Pending())
	require.NoError(t, m.Flush())
	assert.Zero(t, m.Pending())
}

func TestHandleFrame_SinkError(t *testing.T) {
	m := NewManager(Dependencies{Sink: &mockSink{err: errors.New("influx down")}, BatchSize: 1})
	err := m.handleFrame(frameEvent(1))
	assert.ErrorContains(t, err, "influx down")
}

func TestHandlers_RejectWrongPayload(t *testing.T) {
	m := NewManager(Dependencies{})
	err := m.handleFrame(dispatcher.Event{Command: CommandFrame, Payload: "nope"})
	assert.Error(t, err)
	err = m.handleComplete(dispatcher.Event{Command: CommandComplete, Payload: 42})
	assert.Error(t, err)
}

func TestObserver_SamplesEveryNth(t *testing.T) {
	sink := &mockSink{}
	d := newTestDispatcher(t)
	m := NewManager(Dependencies{Sink: sink, SampleEvery: 3, BatchSize: 100})
	m.RegisterHandlers(d)

	observe := m.Observer(d)
	for i := uint64(1); i <= 9; i++ {
		observe(sim.FrameSample{Frame: i})
	}
	d.Close()

	assert.Equal(t, 3, m.Pending())
	require.NoError(t, m.Flush())
	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.Len(t, sink.samples, 3)
	assert.Equal(t, uint64(3), sink.samples[0].Frame)
	assert.Equal(t, uint64(9), sink.samples[2].Frame)
}

func TestOnComplete_FlushesAndWrites(t *testing.T) {
	sink := &mockSink{}
	d := newTestDispatcher(t)
	m := NewManager(Dependencies{Sink: sink, BatchSize: 100})
	m.RegisterHandlers(d)

	err := m.handleFrame(frameEvent(1))
	require.NoError(t, err)

	sc := core.Scenario{Name: "drill", Disaster: core.Fire}
	m.OnComplete(d, "abc", sc)(core.CompletionEvent{Success: true, Score: 300, Time: 12.5})
	d.Close()

	_, samples, completions := sink.counts()
	assert.Equal(t, 1, samples)
	assert.Equal(t, 1, completions)

	got := m.Completions()
	require.Len(t, got, 1)
	assert.Equal(t, "abc", got[0].SessionID)
	assert.Equal(t, core.Fire, got[0].Disaster)
	assert.Equal(t, 300, got[0].Event.Score)
}

func TestSession_EndToEnd(t *testing.T) {
	sink := &mockSink{}
	d := newTestDispatcher(t)
	m := NewManager(Dependencies{Sink: sink, SampleEvery: 10, BatchSize: 8})
	m.RegisterHandlers(d)

	sc := core.Scenario{
		Name:     "e2e",
		Disaster: core.Earthquake,
		Seed:     3,
		Goals:    []core.GoalSpec{{Position: mgl64.Vec3{0, 0, -10}, Description: "Reach the open field"}},
	}
	id := uuid.New()
	s, err := sim.New(sim.DefaultConfig(), sc,
		sim.WithID(id),
		sim.WithFrameObserver(m.Observer(d)),
		sim.WithOnComplete(m.OnComplete(d, id.String(), sc)),
	)
	require.NoError(t, err)

	_, err = sim.Simulate(context.Background(), s, sim.NewAutopilot(s), nil, 1.0/60, 60*60)
	require.NoError(t, err)
	d.Close()
	require.NoError(t, m.Flush())

	got := m.Completions()
	require.Len(t, got, 1)
	assert.Equal(t, id.String(), got[0].SessionID)
	assert.Equal(t, 100, got[0].Event.Score)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.NotEmpty(t, sink.samples)
	for _, fs := range sink.samples {
		assert.Zero(t, fs.Frame%10)
		assert.Equal(t, id.String(), fs.SessionID)
	}
}

func TestGetLastWriteDuration(t *testing.T) {
	m := NewManager(Dependencies{Sink: &mockSink{}, BatchSize: 1})
	assert.Zero(t, m.GetLastWriteDuration())
	err := m.handleFrame(frameEvent(1))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.GetLastWriteDuration().Nanoseconds(), int64(0))
}
