// Package camera implements the third-person orbit rig that follows the player.
package camera

import (
	"math"

	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/go-gl/mathgl/mgl64"
)

// Config holds rig tunables
type Config struct {
	Distance    float64 `mapstructure:"distance"`
	Height      float64 `mapstructure:"height"`
	Sensitivity float64 `mapstructure:"sensitivity"`
	MinPitch    float64 `mapstructure:"minPitch"`
	MaxPitch    float64 `mapstructure:"maxPitch"`
	LookHeight  float64 `mapstructure:"lookHeight"`
}

// DefaultConfig returns the stock rig tunables
func DefaultConfig() Config {
	return Config{
		Distance:    8,
		Height:      2,
		Sensitivity: 0.005,
		MinPitch:    -0.2,
		MaxPitch:    1.2,
		LookHeight:  1.5,
	}
}

// View is the derived camera pose for one frame
type View struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
}

// Rig accumulates pointer movement into two orbit angles.
// It owns no game state; View can be recomputed at any time.
type Rig struct {
	cfg    Config
	AngleH float64
	AngleV float64

	// screen shake offset, set by the earthquake module each frame
	ShakeX float64
	ShakeY float64
}

// NewRig creates a rig looking down slightly from behind the player
func NewRig(cfg Config) *Rig {
	r := &Rig{cfg: cfg}
	r.AngleV = vmath.Clamp(0.3, cfg.MinPitch, cfg.MaxPitch)
	return r
}

// ApplyPointer folds a raw pointer delta into the orbit angles
func (r *Rig) ApplyPointer(dx, dy float64) {
	r.AngleH += dx * r.cfg.Sensitivity
	r.AngleV = vmath.Clamp(r.AngleV-dy*r.cfg.Sensitivity, r.cfg.MinPitch, r.cfg.MaxPitch)
}

// SetShake sets the screen shake offset for the current frame
func (r *Rig) SetShake(x, y float64) {
	r.ShakeX, r.ShakeY = x, y
}

// View places the camera on a sphere around player and aims slightly above it
func (r *Rig) View(player mgl64.Vec3) View {
	sinH, cosH := math.Sincos(r.AngleH)
	sinV, cosV := math.Sincos(r.AngleV)
	flat := r.cfg.Distance * cosV

	eye := player.Add(mgl64.Vec3{
		flat*sinH + r.ShakeX,
		r.cfg.Distance*sinV + r.cfg.Height + r.ShakeY,
		flat * cosH,
	})
	target := player.Add(mgl64.Vec3{0, r.cfg.LookHeight, 0})
	return View{Eye: eye, Target: target}
}
