package effects

import (
	"math"
	"math/rand/v2"

	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Cyclone tunables
const (
	WindStrength   = 15.0
	FlyerCount     = 25
	TreeCount      = 20
	CycloneRain    = 150
	flyerDriftGain = 0.1
	rainWindDrift  = 0.2
	treeSwayGain   = 0.02
)

// Cyclone blows a steady wind that drags the player, flying debris and rain
type Cyclone struct {
	base
	windDir mgl64.Vec3
	flyers  scene.Span
	trees   scene.Span
	rain    scene.Span
}

// NewCyclone creates the cyclone module
func NewCyclone(cfg Config) *Cyclone {
	return &Cyclone{base: base{cfg: cfg}, windDir: mgl64.Vec3{1, 0, 0}}
}

func (m *Cyclone) Disaster() core.DisasterType { return core.Cyclone }

// Wind implements WindSource
func (m *Cyclone) Wind() (mgl64.Vec3, float64) {
	return m.windDir, WindStrength
}

func (m *Cyclone) Init(reg *scene.Registry, rng *rand.Rand) {
	m.attach(reg, rng)
	m.windDir = m.heading()

	m.flyers = m.spawn(scene.KindFlyingDebris, FlyerCount, func(int) (mgl64.Vec3, scene.Payload) {
		return m.groundPoint(m.between(1, 6)), &scene.Flyer{
			Spin:   m.between(1, 4),
			Damage: m.between(2, 4),
		}
	})
	m.trees = m.spawn(scene.KindTree, TreeCount, func(int) (mgl64.Vec3, scene.Payload) {
		return m.groundPoint(0), &scene.Sway{
			Phase:     m.rng.Float64() * 2 * math.Pi,
			Stiffness: m.between(0.5, 1),
		}
	})
	m.rain = m.spawn(scene.KindRainDrop, CycloneRain, func(int) (mgl64.Vec3, scene.Payload) {
		return m.groundPoint(m.between(0, 30)), &scene.Drop{FallSpeed: m.between(25, 35)}
	})
}

func (m *Cyclone) Update(fc FrameContext) {
	if !m.ready() {
		return
	}
	half := m.cfg.WorldHalfExtent
	gust := m.windDir.Mul(WindStrength)

	ents := m.view(m.flyers)
	for i := range ents {
		e := &ents[i]
		f, ok := e.Data.(*scene.Flyer)
		if !e.Alive || !ok {
			continue
		}
		f.Drift = f.Drift.Add(gust.Mul(flyerDriftGain * fc.Dt))
		if l := f.Drift.Len(); l > WindStrength {
			f.Drift = f.Drift.Mul(WindStrength / l)
		}
		e.Position = e.Position.Add(f.Drift.Mul(fc.Dt))
		e.Rotation[1] += f.Spin * fc.Dt

		if fc.Player != nil && vmath.Dist(e.Position, fc.Player.Position) <= m.cfg.HazardRadius {
			m.hurt(fc, f.Damage, core.StatusNone)
			m.upwind(e)
			continue
		}
		if !vmath.InBox(e.Position, half) {
			e.Position = wrap(e.Position, half)
		}
	}

	ents = m.view(m.trees)
	for i := range ents {
		e := &ents[i]
		s, ok := e.Data.(*scene.Sway)
		if !e.Alive || !ok {
			continue
		}
		amp := WindStrength * treeSwayGain / s.Stiffness
		e.Rotation[0] = amp * math.Sin(fc.Elapsed*2+s.Phase) * m.windDir.Z()
		e.Rotation[2] = -amp * math.Sin(fc.Elapsed*2+s.Phase) * m.windDir.X()
	}

	drift := gust.Mul(rainWindDrift * fc.Dt)
	ents = m.view(m.rain)
	for i := range ents {
		e := &ents[i]
		d, ok := e.Data.(*scene.Drop)
		if !e.Alive || !ok {
			continue
		}
		e.Position[1] -= d.FallSpeed * fc.Dt
		e.Position = e.Position.Add(drift)
		if e.Position.Y() <= 0 || !vmath.InBox(e.Position, half) {
			e.Position = m.groundPoint(m.between(20, 30))
		}
	}
}

// upwind moves a flyer back to the edge the wind blows from
func (m *Cyclone) upwind(e *scene.Entity) {
	half := m.cfg.WorldHalfExtent
	p := m.groundPoint(m.between(1, 6)).Sub(m.windDir.Mul(half * 2))
	e.Position = vmath.ClampBox(p, half)
	if f, ok := e.Data.(*scene.Flyer); ok {
		f.Drift = mgl64.Vec3{}
	}
}

// wrap moves a point that left the square world to the opposite edge
func wrap(p mgl64.Vec3, half float64) mgl64.Vec3 {
	for _, i := range [2]int{0, 2} {
		switch {
		case p[i] > half:
			p[i] = -half + math.Mod(p[i]-half, 2*half)
		case p[i] < -half:
			p[i] = half - math.Mod(-half-p[i], 2*half)
		}
	}
	return p
}
