package effects

import (
	"math"
	"math/rand/v2"

	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Fire tunables
const (
	FireSources = 6
	FireRadius  = 3.0
)

// Fire places burning spots that hurt and set the player burning
type Fire struct {
	base
	sources scene.Span
	smoke   emitter
	anchors []mgl64.Vec3
}

// NewFire creates the fire module
func NewFire(cfg Config) *Fire {
	return &Fire{
		base: base{cfg: cfg},
		smoke: emitter{
			kind:     scene.KindSmoke,
			count:    60,
			minY:     1,
			maxY:     2,
			velocity: mgl64.Vec3{0, 1.5, 0},
			jitter:   0.3,
			minLife:  2,
			maxLife:  4,
			reset:    0.1,
		},
	}
}

func (m *Fire) Disaster() core.DisasterType { return core.Fire }

func (m *Fire) Init(reg *scene.Registry, rng *rand.Rand) {
	m.attach(reg, rng)
	m.anchors = m.anchors[:0]
	m.sources = m.spawn(scene.KindFireSource, FireSources, func(int) (mgl64.Vec3, scene.Payload) {
		src := &scene.FireSource{
			Damage: m.between(0.5, 1),
			Radius: FireRadius,
		}
		for j := range src.Flames {
			src.Flames[j] = scene.Flame{
				Offset: mgl64.Vec3{m.between(-0.6, 0.6), 0, m.between(-0.6, 0.6)},
				Phase:  m.rng.Float64() * 2 * math.Pi,
				Freq:   m.between(3, 7),
				ScaleY: 1,
			}
		}
		// keep the spawn point clear
		pos := m.groundPoint(0)
		if vmath.HorizontalLen(pos) < FireRadius*2 {
			pos[0] += FireRadius * 3
		}
		pos = vmath.ClampBox(pos, m.cfg.WorldHalfExtent)
		m.anchors = append(m.anchors, pos)
		return pos, src
	})
	m.smoke.anchors = m.anchors
	m.smoke.init(&m.base)
}

func (m *Fire) Update(fc FrameContext) {
	if !m.ready() {
		return
	}
	ents := m.view(m.sources)
	for i := range ents {
		e := &ents[i]
		src, ok := e.Data.(*scene.FireSource)
		if !e.Alive || !ok {
			continue
		}
		for j := range src.Flames {
			fl := &src.Flames[j]
			s := math.Sin(fc.Elapsed*fl.Freq + fl.Phase)
			fl.ScaleY = 1 + 0.3*s
			fl.Lift = 0.2 * s
		}
		if fc.Player != nil && vmath.Dist(e.Position, fc.Player.Position) <= src.Radius {
			m.hurt(fc, src.Damage, core.StatusBurning)
		}
	}
	m.smoke.update(&m.base, fc.Dt, mgl64.Vec3{}, 0)
}
