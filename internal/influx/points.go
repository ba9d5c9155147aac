package influx

import (
	"time"

	"github.com/drillsim/drillsim/internal/monitor"
	"github.com/drillsim/drillsim/internal/sim"
	"github.com/drillsim/drillsim/internal/worker"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

// FrameToPoint converts a frame sample into an engine_performance point
func FrameToPoint(s sim.FrameSample, ts time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		"frame",
		map[string]string{
			"session":  s.SessionID,
			"disaster": string(s.Disaster),
		},
		map[string]any{
			"frame":       int64(s.Frame),
			"elapsed":     s.Elapsed,
			"step_ms":     float64(s.StepDuration) / float64(time.Millisecond),
			"entities":    s.ActiveEntities,
			"health":      s.Health,
			"score":       s.Score,
			"water_level": s.WaterLevel,
		},
		ts,
	)
}

// CompletionToPoint converts a finished drill into a drill_results point
func CompletionToPoint(c worker.Completion, ts time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		"completion",
		map[string]string{
			"session":  c.SessionID,
			"scenario": c.Scenario,
			"disaster": string(c.Disaster),
		},
		map[string]any{
			"success":      c.Event.Success,
			"score":        c.Event.Score,
			"time":         c.Event.Time,
			"health":       c.Event.Health,
			"collectibles": c.Event.CollectiblesCount,
		},
		ts,
	)
}

// StatusToPoint converts a pipeline status sample into an engine_performance point
func StatusToPoint(s monitor.Status) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		"pipeline",
		map[string]string{},
		map[string]any{
			"frames_handled":  int64(s.FramesHandled),
			"pending_samples": s.PendingSamples,
			"dropped_samples": s.DroppedSamples,
			"completions":     s.Completions,
			"last_write_ms":   s.LastWriteMs,
			"dropped_events":  int64(s.DroppedEvents),
			"failed_events":   int64(s.FailedEvents),
		},
		s.Time,
	)
}
