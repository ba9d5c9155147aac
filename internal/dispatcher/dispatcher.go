// Package dispatcher moves engine events off the frame goroutine to the
// handlers registered for them.
package dispatcher

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	ErrClosed         = errors.New("dispatcher closed")
	ErrUnknownCommand = errors.New("unknown command")
	ErrQueueFull      = errors.New("queue full")
)

// Event is a named payload produced by the simulation.
type Event struct {
	Command   string
	Payload   any
	Timestamp time.Time
}

// Handler processes one event
type Handler func(Event) error

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option configures a route at registration.
type Option func(*route)

// Buffered runs the handler on its own goroutine behind a queue of the given size.
func Buffered(size int) Option {
	return func(r *route) {
		r.capacity = size
	}
}

// Blocking makes a buffered route wait for queue space instead of dropping.
func Blocking() Option {
	return func(r *route) {
		r.blocking = true
	}
}

// Logged adds debug logging around every event of the route.
func Logged() Option {
	return func(r *route) {
		r.logged = true
	}
}

// RouteStats counts what happened to the events of one command
type RouteStats struct {
	Queued  int
	Handled uint64
	Failed  uint64
	Dropped uint64
}

type route struct {
	command  string
	handle   Handler
	capacity int
	blocking bool
	logged   bool

	queue chan Event
	attrs metric.MeasurementOption

	handled atomic.Uint64
	failed  atomic.Uint64
	dropped atomic.Uint64
}

// Dispatcher routes events to registered handlers. Handlers are registered
// once at startup; Dispatch is safe for concurrent use.
type Dispatcher struct {
	logger  Logger
	metrics *instruments

	mu      sync.RWMutex
	routes  map[string]*route
	closed  bool
	workers sync.WaitGroup
}

// New creates a new Dispatcher with the given logger.
// Instruments come from the global OTel meter, a no-op unless a provider is installed.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		logger: logger,
		routes: make(map[string]*route),
	}
	m, err := newInstruments(d)
	if err != nil {
		return nil, err
	}
	d.metrics = m
	return d, nil
}

// Register adds the handler for command. A second registration replaces the
// first; a replaced buffered route drains what it already queued and stops.
func (d *Dispatcher) Register(command string, h Handler, opts ...Option) {
	r := &route{
		command: command,
		handle:  h,
		attrs:   metric.WithAttributes(attribute.String("command", command)),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.capacity > 0 {
		r.queue = make(chan Event, r.capacity)
		d.workers.Add(1)
		go d.drain(r)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if old, ok := d.routes[command]; ok && old.queue != nil && !d.closed {
		close(old.queue)
	}
	if d.closed && r.queue != nil {
		close(r.queue)
	}
	d.routes[command] = r
}

// Dispatch hands e to its route. Unbuffered routes run the handler inline and
// return its error; buffered routes return once the event is queued.
func (d *Dispatcher) Dispatch(e Event) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r, ok := d.routes[e.Command]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, e.Command)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if r.queue == nil {
		return d.run(r, e)
	}

	if d.closed {
		return ErrClosed
	}
	if r.blocking {
		r.queue <- e
		return nil
	}
	select {
	case r.queue <- e:
		return nil
	default:
		r.dropped.Add(1)
		d.metrics.drop(r.attrs)
		return fmt.Errorf("%w: %s", ErrQueueFull, e.Command)
	}
}

// HasHandler returns true if a handler is registered for the command.
func (d *Dispatcher) HasHandler(command string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.routes[command]
	return ok
}

// Stats returns the counters of every route keyed by command
func (d *Dispatcher) Stats() map[string]RouteStats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]RouteStats, len(d.routes))
	for cmd, r := range d.routes {
		out[cmd] = RouteStats{
			Queued:  len(r.queue),
			Handled: r.handled.Load(),
			Failed:  r.failed.Load(),
			Dropped: r.dropped.Load(),
		}
	}
	return out
}

// Close stops accepting events and waits until every buffered route has
// drained its queue.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, r := range d.routes {
		if r.queue != nil {
			close(r.queue)
		}
	}
	d.mu.Unlock()
	d.workers.Wait()
}

func (d *Dispatcher) drain(r *route) {
	defer d.workers.Done()
	for e := range r.queue {
		// logged routes already reported the failure
		if err := d.run(r, e); err != nil && !r.logged {
			d.logger.Error("buffered handler failed", "command", r.command, "error", err)
		}
	}
}

func (d *Dispatcher) run(r *route, e Event) error {
	start := time.Now()
	if r.logged {
		d.logger.Debug("handling event", "command", r.command, "payload", fmt.Sprintf("%T", e.Payload))
	}

	err := r.handle(e)
	elapsed := time.Since(start)
	d.metrics.handled(r.attrs, elapsed)

	if err != nil {
		r.failed.Add(1)
		if r.logged {
			d.logger.Error("event failed", "command", r.command, "duration", elapsed, "error", err)
		}
		return err
	}
	r.handled.Add(1)
	if r.logged {
		d.logger.Debug("event complete", "command", r.command, "duration", elapsed)
	}
	return nil
}
