package effects

import (
	"math/rand/v2"

	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Earthquake tunables
const (
	DebrisCount       = 30
	DebrisHitRadius   = 2.0
	DebrisHitMultiple = 10.0
	ShakeAmplitude    = 0.15

	debrisMinHeight = 12.0
	debrisMaxHeight = 25.0
)

// Earthquake shakes the camera and drops debris from above
type Earthquake struct {
	base
	debris scene.Span
	dust   emitter

	shakeX, shakeY float64
}

// NewEarthquake creates the earthquake module
func NewEarthquake(cfg Config) *Earthquake {
	return &Earthquake{
		base: base{cfg: cfg},
		dust: emitter{
			kind:     scene.KindDust,
			count:    24,
			maxY:     0.5,
			velocity: mgl64.Vec3{0, 0.6, 0},
			jitter:   0.4,
			minLife:  1.5,
			maxLife:  4,
			reset:    0.05,
		},
	}
}

func (m *Earthquake) Disaster() core.DisasterType { return core.Earthquake }

func (m *Earthquake) Init(reg *scene.Registry, rng *rand.Rand) {
	m.attach(reg, rng)
	m.debris = m.spawn(scene.KindDebris, DebrisCount, func(int) (mgl64.Vec3, scene.Payload) {
		return m.groundPoint(m.between(debrisMinHeight, debrisMaxHeight)), &scene.Falling{
			Speed:           m.between(3, 8),
			DamagePerSecond: m.between(0.5, 1.5),
		}
	})
	m.dust.init(&m.base)
}

// ShakeOffset implements Shaker
func (m *Earthquake) ShakeOffset() (x, y float64) {
	return m.shakeX, m.shakeY
}

func (m *Earthquake) Update(fc FrameContext) {
	if !m.ready() {
		return
	}
	m.shakeX = m.between(-ShakeAmplitude, ShakeAmplitude)
	m.shakeY = m.between(-ShakeAmplitude, ShakeAmplitude)

	ents := m.view(m.debris)
	for i := range ents {
		e := &ents[i]
		f, ok := e.Data.(*scene.Falling)
		if !e.Alive || !ok {
			continue
		}
		e.Position[1] -= f.Speed * fc.Dt
		e.Rotation = e.Rotation.Add(mgl64.Vec3{f.Speed * fc.Dt * 0.3, 0, f.Speed * fc.Dt * 0.2})

		hit := fc.Player != nil && vmath.Dist(e.Position, fc.Player.Position) <= DebrisHitRadius
		if hit {
			m.hurt(fc, DebrisHitMultiple*f.DamagePerSecond, core.StatusNone)
		}
		if hit || e.Position.Y() <= 0 {
			e.Position = m.groundPoint(m.between(debrisMinHeight, debrisMaxHeight))
		}
	}
	m.dust.update(&m.base, fc.Dt, mgl64.Vec3{}, 0)
}
