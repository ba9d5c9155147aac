package effects

import (
	"math"
	"math/rand/v2"

	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// SurfaceGrid is the number of water surface vertices per side
const SurfaceGrid = 16

// WaterParams describe how fast and how high the water rises
type WaterParams struct {
	Rate      float64 // units per second
	Ceiling   float64
	WaveAmp   float64
	Floaters  int
	Ladders   int
	Particles int
}

var waterParams = map[core.DisasterType]WaterParams{
	core.Flood:   {Rate: 0.08, Ceiling: 3, WaveAmp: 0.1, Floaters: 15, Ladders: 4, Particles: 120},
	core.Tsunami: {Rate: 0.25, Ceiling: 8, WaveAmp: 0.35, Floaters: 20, Ladders: 6, Particles: 60},
}

// Water raises a flat water surface toward a ceiling. Flood brings rain,
// tsunami brings wave spray.
type Water struct {
	base
	kind   core.DisasterType
	params WaterParams
	level  float64

	surface  []float64
	floaters scene.Span
	ladders  scene.Span
	rain     scene.Span
	spray    emitter
}

// NewWater creates the flood or tsunami module
func NewWater(kind core.DisasterType, cfg Config) *Water {
	p, ok := waterParams[kind]
	if !ok {
		p = waterParams[core.Flood]
		kind = core.Flood
	}
	return &Water{
		base:    base{cfg: cfg},
		kind:    kind,
		params:  p,
		surface: make([]float64, SurfaceGrid*SurfaceGrid),
		spray: emitter{
			kind:     scene.KindWaveParticle,
			count:    p.Particles,
			maxY:     0.4,
			velocity: mgl64.Vec3{0, 1.5, -2},
			jitter:   0.8,
			minLife:  0.5,
			maxLife:  1.5,
			reset:    0.2,
		},
	}
}

func (m *Water) Disaster() core.DisasterType { return m.kind }

// WaterLevel implements WaterSource
func (m *Water) WaterLevel() float64 { return m.level }

// Ceiling implements WaterSource
func (m *Water) Ceiling() float64 { return m.params.Ceiling }

// Surface returns the cosmetic vertex heights, row-major, SurfaceGrid per side
func (m *Water) Surface() []float64 { return m.surface }

func (m *Water) Init(reg *scene.Registry, rng *rand.Rand) {
	m.attach(reg, rng)
	m.level = 0

	m.floaters = m.spawn(scene.KindFloatingObject, m.params.Floaters, func(int) (mgl64.Vec3, scene.Payload) {
		return m.groundPoint(0), &scene.Floater{
			Phase: m.rng.Float64() * 2 * math.Pi,
			Bob:   m.between(0.1, 0.3),
			Drift: m.between(0.3, 1),
		}
	})

	h := m.params.Ceiling + 1
	n := m.params.Ladders
	m.ladders = m.spawn(scene.KindLadder, n, func(i int) (mgl64.Vec3, scene.Payload) {
		// spread ladders on a ring around spawn
		a := 2 * math.Pi * float64(i) / float64(n)
		r := m.cfg.WorldHalfExtent * 0.3
		return mgl64.Vec3{r * math.Sin(a), 0, r * math.Cos(a)}, &scene.Ladder{Height: h}
	})

	if m.kind == core.Tsunami {
		m.spray.init(&m.base)
		return
	}
	m.rain = m.spawn(scene.KindRainDrop, m.params.Particles, func(int) (mgl64.Vec3, scene.Payload) {
		return m.groundPoint(m.between(0, 25)), &scene.Drop{FallSpeed: m.between(20, 30)}
	})
}

func (m *Water) Update(fc FrameContext) {
	if !m.ready() {
		return
	}
	if fc.Dt > 0 {
		m.level = math.Min(m.level+m.params.Rate*fc.Dt, m.params.Ceiling)
	}
	m.updateSurface(fc.Elapsed)

	half := m.cfg.WorldHalfExtent
	ents := m.view(m.floaters)
	for i := range ents {
		e := &ents[i]
		f, ok := e.Data.(*scene.Floater)
		if !e.Alive || !ok {
			continue
		}
		e.Position[0] += f.Drift * fc.Dt
		if e.Position[0] > half {
			e.Position[0] = -half
		}
		e.Position[1] = m.level + f.Bob*math.Sin(fc.Elapsed*2+f.Phase)
		if e.Position[1] < 0 {
			e.Position[1] = 0
		}
		e.Rotation[1] += f.Drift * fc.Dt * 0.2
	}

	if m.kind == core.Tsunami {
		m.spray.update(&m.base, fc.Dt, mgl64.Vec3{}, m.level)
		return
	}
	ents = m.view(m.rain)
	for i := range ents {
		e := &ents[i]
		d, ok := e.Data.(*scene.Drop)
		if !e.Alive || !ok {
			continue
		}
		e.Position[1] -= d.FallSpeed * fc.Dt
		if e.Position.Y() <= m.level || !vmath.InBox(e.Position, half) {
			e.Position = m.groundPoint(m.level + m.between(15, 25))
		}
	}
}

// updateSurface writes the two-wave height field for this frame
func (m *Water) updateSurface(t float64) {
	half := m.cfg.WorldHalfExtent
	step := 2 * half / float64(SurfaceGrid-1)
	amp := m.params.WaveAmp
	for r := 0; r < SurfaceGrid; r++ {
		z := -half + float64(r)*step
		for c := 0; c < SurfaceGrid; c++ {
			x := -half + float64(c)*step
			m.surface[r*SurfaceGrid+c] = m.level +
				amp*math.Sin(x*0.3+t*1.5) +
				amp*0.5*math.Sin(z*0.2+t*0.9)
		}
	}
}
