package effects

import (
	"math/rand/v2"

	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// RollerCount is the number of boulders or snowballs on the slope
const RollerCount = 12

// Rolling sends boulders (landslide) or snowballs (avalanche) across the
// world along +X. Snowball hits freeze the player.
type Rolling struct {
	base
	kind    core.DisasterType
	rollers scene.Span
	ambient emitter
}

// NewRolling creates the landslide or avalanche module
func NewRolling(kind core.DisasterType, cfg Config) *Rolling {
	m := &Rolling{base: base{cfg: cfg}, kind: kind}
	if kind == core.Avalanche {
		m.ambient = emitter{
			kind:     scene.KindSnowflake,
			count:    80,
			minY:     5,
			maxY:     20,
			velocity: mgl64.Vec3{0.5, -1.5, 0},
			jitter:   0.4,
			minLife:  10,
			maxLife:  20,
		}
		return m
	}
	m.kind = core.Landslide
	m.ambient = emitter{
		kind:     scene.KindDust,
		count:    30,
		maxY:     1,
		velocity: mgl64.Vec3{1.5, 0.4, 0},
		jitter:   0.5,
		minLife:  1,
		maxLife:  3,
		reset:    0.1,
	}
	return m
}

func (m *Rolling) Disaster() core.DisasterType { return m.kind }

func (m *Rolling) rollerKind() scene.Kind {
	if m.kind == core.Avalanche {
		return scene.KindSnowball
	}
	return scene.KindBoulder
}

func (m *Rolling) Init(reg *scene.Registry, rng *rand.Rand) {
	m.attach(reg, rng)
	m.rollers = m.spawn(m.rollerKind(), RollerCount, func(int) (mgl64.Vec3, scene.Payload) {
		r := &scene.Roller{
			Speed:  m.between(4, 8),
			Size:   m.between(0.5, 1.5),
			Damage: m.between(3, 6),
		}
		p := m.groundPoint(r.Size / 2)
		return p, r
	})
	ents := m.view(m.rollers)
	for i := range ents {
		if r, ok := ents[i].Data.(*scene.Roller); ok {
			ents[i].Scale = mgl64.Vec3{r.Size, r.Size, r.Size}
		}
	}
	m.ambient.init(&m.base)
}

func (m *Rolling) Update(fc FrameContext) {
	if !m.ready() {
		return
	}
	half := m.cfg.WorldHalfExtent
	status := core.StatusNone
	if m.kind == core.Avalanche {
		status = core.StatusFreezing
	}

	ents := m.view(m.rollers)
	for i := range ents {
		e := &ents[i]
		r, ok := e.Data.(*scene.Roller)
		if !e.Alive || !ok {
			continue
		}
		e.Position[0] += r.Speed * fc.Dt
		if r.Size > 0 {
			e.Rotation[2] -= r.Speed * fc.Dt / (r.Size / 2)
		}

		hit := fc.Player != nil && vmath.Dist(e.Position, fc.Player.Position) <= m.cfg.HazardRadius+r.Size/2
		if hit {
			m.hurt(fc, r.Damage*r.Size, status)
		}
		if hit || e.Position.X() > half {
			e.Position = mgl64.Vec3{-half, r.Size / 2, m.between(-half, half)}
		}
	}
	m.ambient.update(&m.base, fc.Dt, mgl64.Vec3{}, 0)
}
