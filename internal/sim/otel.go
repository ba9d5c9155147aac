package sim

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/drillsim/drillsim/internal/sim"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// instruments are shared by every session of the process
type instruments struct {
	frames    metric.Int64Counter
	stepTime  metric.Float64Histogram
	goals     metric.Int64Counter
	completed metric.Int64Counter
}

func newInstruments() (*instruments, error) {
	m := meter()
	in := &instruments{}
	var err error

	in.frames, err = m.Int64Counter(
		"sim.frames",
		metric.WithDescription("Total frames stepped"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frame counter: %w", err)
	}

	in.stepTime, err = m.Float64Histogram(
		"sim.step.duration",
		metric.WithDescription("Wall time spent in one frame step"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating step histogram: %w", err)
	}

	in.goals, err = m.Int64Counter(
		"sim.goals.reached",
		metric.WithDescription("Goals reached across sessions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating goal counter: %w", err)
	}

	in.completed, err = m.Int64Counter(
		"sim.sessions.completed",
		metric.WithDescription("Sessions that reached their last goal"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating completion counter: %w", err)
	}

	return in, nil
}

func disasterAttrs(disaster string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("disaster", disaster))
}

func (in *instruments) frame(attrs metric.MeasurementOption, ms float64) {
	in.frames.Add(context.Background(), 1, attrs)
	in.stepTime.Record(context.Background(), ms, attrs)
}
