package sim

import (
	"math"

	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
)

// Autopilot walks the player toward the active goal. It turns the camera
// with pointer movement and holds forward, so it drives the same input
// path a person would.
type Autopilot struct {
	session     *Session
	sensitivity float64
}

// NewAutopilot creates an autopilot for s
func NewAutopilot(s *Session) *Autopilot {
	return &Autopilot{session: s, sensitivity: s.cfg.Camera.Sensitivity}
}

// Next implements InputSource
func (a *Autopilot) Next() core.Input {
	snap := a.session.Snapshot()
	if snap.Completed || a.sensitivity == 0 {
		return core.Input{}
	}
	d := snap.GoalPosition.Sub(snap.PlayerPosition)
	if vmath.HorizontalLen(d) < 1e-6 {
		// keep holding forward to stay on a ladder below a raised goal
		return core.Input{Forward: d.Y() > 0}
	}
	// forward is (-sin h, 0, -cos h)
	want := math.Atan2(-d.X(), -d.Z())
	return core.Input{
		Forward:   true,
		Jump:      snap.Mode == "swimming",
		PointerDX: vmath.AngleDiff(snap.CameraYaw, want) / a.sensitivity,
	}
}
