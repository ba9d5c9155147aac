package effects

import (
	"math/rand/v2"

	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Stampede tunables
const (
	CrowdSize     = 25
	CrowdPush     = 4.0 // units per second away from a crowd member
	minWalkTimer  = 1.0
	maxWalkTimer  = 4.0
	crowdDamage   = 0.3
	crowdMinSpeed = 2.0
	crowdMaxSpeed = 4.0
)

// Stampede moves a wandering crowd that jostles the player
type Stampede struct {
	base
	crowd scene.Span
	dust  emitter
}

// NewStampede creates the stampede module
func NewStampede(cfg Config) *Stampede {
	return &Stampede{
		base: base{cfg: cfg},
		dust: emitter{
			kind:     scene.KindDust,
			count:    20,
			maxY:     0.3,
			velocity: mgl64.Vec3{0, 0.3, 0},
			jitter:   0.6,
			minLife:  1,
			maxLife:  2.5,
			reset:    0.1,
		},
	}
}

func (m *Stampede) Disaster() core.DisasterType { return core.Stampede }

func (m *Stampede) Init(reg *scene.Registry, rng *rand.Rand) {
	m.attach(reg, rng)
	m.crowd = m.spawn(scene.KindCrowdMember, CrowdSize, func(int) (mgl64.Vec3, scene.Payload) {
		return m.groundPoint(0), &scene.Walker{
			Dir:    m.heading(),
			Timer:  m.between(minWalkTimer, maxWalkTimer),
			Speed:  m.between(crowdMinSpeed, crowdMaxSpeed),
			Damage: crowdDamage,
		}
	})
	m.dust.init(&m.base)
}

func (m *Stampede) Update(fc FrameContext) {
	if !m.ready() {
		return
	}
	half := m.cfg.WorldHalfExtent

	ents := m.view(m.crowd)
	for i := range ents {
		e := &ents[i]
		w, ok := e.Data.(*scene.Walker)
		if !e.Alive || !ok {
			continue
		}
		w.Timer -= fc.Dt
		if w.Timer <= 0 {
			w.Dir = m.heading()
			w.Timer = m.between(minWalkTimer, maxWalkTimer)
		}
		e.Position = e.Position.Add(w.Dir.Mul(w.Speed * fc.Dt))
		for _, k := range [2]int{0, 2} {
			if e.Position[k] > half || e.Position[k] < -half {
				w.Dir[k] = -w.Dir[k]
				e.Position[k] = vmath.Clamp(e.Position[k], -half, half)
			}
		}
		e.Rotation[1] = vmath.Yaw(w.Dir)

		if fc.Player == nil {
			continue
		}
		away := vmath.Horizontal(fc.Player.Position.Sub(e.Position))
		if away.Len() > m.cfg.HazardRadius {
			continue
		}
		m.hurt(fc, w.Damage, core.StatusNone)
		if fc.Sink != nil {
			if away.Len() < 1e-6 {
				away = w.Dir
			}
			fc.Sink.Push(away.Normalize().Mul(CrowdPush * fc.Dt))
		}
	}
	m.dust.update(&m.base, fc.Dt, mgl64.Vec3{}, 0)
}
