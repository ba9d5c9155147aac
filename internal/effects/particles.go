package effects

import (
	"math"

	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/go-gl/mathgl/mgl64"
)

// emitter is a fixed pool of cosmetic particles of one kind.
// A particle is respawned when it ages out, touches the floor, leaves the
// world, or randomly through ResetChance.
type emitter struct {
	kind     scene.Kind
	count    int
	minY     float64
	maxY     float64
	velocity mgl64.Vec3
	jitter   float64
	minLife  float64
	maxLife  float64
	reset    float64

	// anchors, when set, are the spawn origins instead of random ground points
	anchors []mgl64.Vec3
	span    scene.Span
}

func (em *emitter) init(b *base) {
	em.span = b.spawn(em.kind, em.count, func(int) (mgl64.Vec3, scene.Payload) {
		return mgl64.Vec3{}, &scene.Particle{}
	})
	ents := b.view(em.span)
	for i := range ents {
		e := &ents[i]
		em.respawn(b, e, 0)
		// spread initial ages so the pool does not pulse
		if p, ok := e.Data.(*scene.Particle); ok {
			p.Age = b.rng.Float64() * p.Lifetime
		}
	}
}

func (em *emitter) respawn(b *base, e *scene.Entity, floor float64) {
	p, ok := e.Data.(*scene.Particle)
	if !ok {
		return
	}
	if len(em.anchors) > 0 {
		a := em.anchors[b.rng.IntN(len(em.anchors))]
		e.Position = mgl64.Vec3{a.X() + b.between(-0.5, 0.5), a.Y() + b.between(em.minY, em.maxY), a.Z() + b.between(-0.5, 0.5)}
	} else {
		e.Position = b.groundPoint(floor + b.between(em.minY, em.maxY))
	}
	e.Position = vmath.ClampBox(e.Position, b.cfg.WorldHalfExtent)
	p.Velocity = em.velocity.Add(mgl64.Vec3{
		b.between(-em.jitter, em.jitter),
		b.between(-em.jitter, em.jitter) * 0.5,
		b.between(-em.jitter, em.jitter),
	})
	p.Age = 0
	p.Lifetime = b.between(em.minLife, em.maxLife)
	p.Phase = b.rng.Float64() * 2 * math.Pi
	p.ResetChance = em.reset
	e.Opacity = 1
}

// update advances the pool. drift is added to every particle's velocity
// and floor is the lowest height a particle may reach.
func (em *emitter) update(b *base, dt float64, drift mgl64.Vec3, floor float64) {
	half := b.cfg.WorldHalfExtent
	ents := b.view(em.span)
	for i := range ents {
		e := &ents[i]
		p, ok := e.Data.(*scene.Particle)
		if !e.Alive || !ok {
			continue
		}
		p.Age += dt
		e.Position = e.Position.Add(p.Velocity.Add(drift).Mul(dt))
		if p.Lifetime > 0 {
			e.Opacity = vmath.Clamp(1-p.Age/p.Lifetime, 0, 1)
		}
		expired := p.Age >= p.Lifetime || b.rng.Float64() < p.ResetChance*dt
		if expired || e.Position.Y() < floor || !vmath.InBox(e.Position, half) {
			em.respawn(b, e, floor)
		}
	}
}
