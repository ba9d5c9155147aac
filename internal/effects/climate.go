package effects

import (
	"math/rand/v2"

	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Heat and cold exposure, nominal damage per frame. Exertion only counts
// once the player has kept near full speed for ExertionDelay seconds.
const (
	ExertionDamage  = 0.3
	ExertionRatio   = 0.8
	ExertionDelay   = 3.0
	ExposureDamage  = 0.2
	ExposureMinMove = 0.5
)

// Heatwave punishes sprinting under heat shimmer
type Heatwave struct {
	base
	shimmer emitter
	dust    emitter
	exerted float64
}

// NewHeatwave creates the heatwave module
func NewHeatwave(cfg Config) *Heatwave {
	return &Heatwave{
		base: base{cfg: cfg},
		shimmer: emitter{
			kind:     scene.KindShimmer,
			count:    40,
			maxY:     0.5,
			velocity: mgl64.Vec3{0, 0.8, 0},
			jitter:   0.2,
			minLife:  1.5,
			maxLife:  3,
			reset:    0.2,
		},
		dust: emitter{
			kind:     scene.KindDust,
			count:    20,
			maxY:     1,
			velocity: mgl64.Vec3{1, 0.1, 0.5},
			jitter:   0.5,
			minLife:  2,
			maxLife:  5,
			reset:    0.05,
		},
	}
}

func (m *Heatwave) Disaster() core.DisasterType { return core.Heatwave }

func (m *Heatwave) Init(reg *scene.Registry, rng *rand.Rand) {
	m.attach(reg, rng)
	m.shimmer.init(&m.base)
	m.dust.init(&m.base)
}

func (m *Heatwave) Update(fc FrameContext) {
	if !m.ready() {
		return
	}
	m.shimmer.update(&m.base, fc.Dt, mgl64.Vec3{}, 0)
	m.dust.update(&m.base, fc.Dt, mgl64.Vec3{}, 0)

	if fc.Player == nil || vmath.HorizontalLen(fc.Player.Velocity) <= m.cfg.MoveSpeed*ExertionRatio {
		m.exerted = 0
		return
	}
	m.exerted += max(fc.Dt, 0)
	if m.exerted > ExertionDelay {
		m.hurt(fc, ExertionDamage, core.StatusNone)
	}
}

// Coldwave freezes a player who stands still in the snow
type Coldwave struct {
	base
	snow emitter
}

// NewColdwave creates the coldwave module
func NewColdwave(cfg Config) *Coldwave {
	return &Coldwave{
		base: base{cfg: cfg},
		snow: emitter{
			kind:     scene.KindSnowflake,
			count:    120,
			minY:     5,
			maxY:     20,
			velocity: mgl64.Vec3{0.3, -1.2, 0.2},
			jitter:   0.4,
			minLife:  10,
			maxLife:  20,
		},
	}
}

func (m *Coldwave) Disaster() core.DisasterType { return core.Coldwave }

func (m *Coldwave) Init(reg *scene.Registry, rng *rand.Rand) {
	m.attach(reg, rng)
	m.snow.init(&m.base)
}

func (m *Coldwave) Update(fc FrameContext) {
	if !m.ready() {
		return
	}
	m.snow.update(&m.base, fc.Dt, mgl64.Vec3{}, 0)

	if fc.Player != nil && vmath.HorizontalLen(fc.Player.Velocity) < ExposureMinMove {
		m.hurt(fc, ExposureDamage, core.StatusFreezing)
	}
}
