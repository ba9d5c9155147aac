package sim

import (
	"context"
	"time"

	"github.com/drillsim/drillsim/pkg/core"
)

// InputSource is polled once per frame
type InputSource interface {
	Next() core.Input
}

// Pauser is implemented by input sources that can hold the simulation
type Pauser interface {
	Paused() bool
}

// Renderer receives the snapshot after every frame
type Renderer interface {
	Render(core.Snapshot)
}

// InputFunc adapts a function to InputSource
type InputFunc func() core.Input

func (f InputFunc) Next() core.Input { return f() }

// RenderFunc adapts a function to Renderer
type RenderFunc func(core.Snapshot)

func (f RenderFunc) Render(s core.Snapshot) { f(s) }

// Run drives s in real time until the session completes or ctx is done.
// Frame time is measured on the wall clock; while paused the clock still
// runs but the session is not stepped.
func Run(ctx context.Context, s *Session, in InputSource, out Renderer, interval time.Duration) error {
	if interval <= 0 {
		interval = s.cfg.FrameInterval()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	pauser, _ := in.(Pauser)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			input := in.Next()
			if pauser != nil && pauser.Paused() {
				out.Render(s.Snapshot())
				continue
			}
			out.Render(s.Step(input, dt))
			if s.Completed() {
				return nil
			}
		}
	}
}

// Simulate steps s with a fixed dt as fast as possible, up to maxFrames
// frames. It returns the number of frames stepped.
func Simulate(ctx context.Context, s *Session, in InputSource, out Renderer, dt float64, maxFrames int) (int, error) {
	for n := 0; n < maxFrames; n++ {
		if n%256 == 0 {
			if err := ctx.Err(); err != nil {
				return n, err
			}
		}
		snap := s.Step(in.Next(), dt)
		if out != nil {
			out.Render(snap)
		}
		if s.Completed() {
			return n + 1, nil
		}
	}
	return maxFrames, nil
}
