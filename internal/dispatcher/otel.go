package dispatcher

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/drillsim/drillsim/internal/dispatcher"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type instruments struct {
	queued    metric.Int64ObservableGauge
	processed metric.Int64Counter
	dropped   metric.Int64Counter
	duration  metric.Float64Histogram
}

func newInstruments(d *Dispatcher) (*instruments, error) {
	m := meter()
	in := &instruments{}

	var err error
	in.queued, err = m.Int64ObservableGauge(
		"dispatcher.queue.size",
		metric.WithDescription("Current number of events in queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue size gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			d.mu.RLock()
			defer d.mu.RUnlock()
			for _, r := range d.routes {
				if r.queue != nil {
					o.ObserveInt64(in.queued, int64(len(r.queue)), r.attrs)
				}
			}
			return nil
		},
		in.queued,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	in.processed, err = m.Int64Counter(
		"dispatcher.events.processed",
		metric.WithDescription("Total events processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	in.dropped, err = m.Int64Counter(
		"dispatcher.events.dropped",
		metric.WithDescription("Total events dropped due to full queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating dropped counter: %w", err)
	}

	in.duration, err = m.Float64Histogram(
		"dispatcher.handler.duration",
		metric.WithDescription("Handler run time"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating handler duration histogram: %w", err)
	}
	return in, nil
}

func (in *instruments) handled(attrs metric.MeasurementOption, d time.Duration) {
	ctx := context.Background()
	in.processed.Add(ctx, 1, attrs)
	in.duration.Record(ctx, float64(d.Microseconds())/1000, attrs)
}

func (in *instruments) drop(attrs metric.MeasurementOption) {
	in.dropped.Add(context.Background(), 1, attrs)
}
