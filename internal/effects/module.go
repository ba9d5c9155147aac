// Package effects animates the disaster-specific hazards and ambience.
//
// One Module is created per session for the selected disaster. Init spawns
// every entity the module will ever own; Update then mutates only those
// entities in place. Entities that leave the play volume are recycled, so
// Update never spawns, removes or allocates.
package effects

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/drillsim/drillsim/internal/collision"
	"github.com/drillsim/drillsim/internal/player"
	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// FrameContext carries everything a module may read or affect in one frame
type FrameContext struct {
	Dt      float64
	Elapsed float64

	// Player is read-only for modules; damage and pushes go through Sink
	Player *player.State
	Sink   collision.HazardSink
}

// Module is the per-disaster effect contract
type Module interface {
	Disaster() core.DisasterType
	Init(reg *scene.Registry, rng *rand.Rand)
	Update(fc FrameContext)
	Spans() []scene.Span
}

// WaterSource is implemented by modules that flood the scene
type WaterSource interface {
	WaterLevel() float64
	Ceiling() float64
}

// WindSource is implemented by modules that blow the player around
type WindSource interface {
	// Wind returns a horizontal unit direction and a strength
	Wind() (mgl64.Vec3, float64)
}

// Shaker is implemented by modules that shake the camera
type Shaker interface {
	ShakeOffset() (x, y float64)
}

// Config holds the values modules share with the rest of the engine
type Config struct {
	WorldHalfExtent float64
	MoveSpeed       float64
	HazardRadius    float64
}

// DefaultConfig matches the player and collision defaults
func DefaultConfig() Config {
	return Config{
		WorldHalfExtent: 50,
		MoveSpeed:       player.DefaultConfig().MoveSpeed,
		HazardRadius:    collision.DefaultConfig().HazardRadius,
	}
}

var constructors = map[core.DisasterType]func(Config) Module{
	core.Earthquake: func(c Config) Module { return NewEarthquake(c) },
	core.Flood:      func(c Config) Module { return NewWater(core.Flood, c) },
	core.Tsunami:    func(c Config) Module { return NewWater(core.Tsunami, c) },
	core.Fire:       func(c Config) Module { return NewFire(c) },
	core.Cyclone:    func(c Config) Module { return NewCyclone(c) },
	core.Landslide:  func(c Config) Module { return NewRolling(core.Landslide, c) },
	core.Avalanche:  func(c Config) Module { return NewRolling(core.Avalanche, c) },
	core.Stampede:   func(c Config) Module { return NewStampede(c) },
	core.Heatwave:   func(c Config) Module { return NewHeatwave(c) },
	core.Coldwave:   func(c Config) Module { return NewColdwave(c) },
}

// New returns the module for disaster d
func New(d core.DisasterType, cfg Config) (Module, error) {
	ctor, ok := constructors[d]
	if !ok {
		return nil, fmt.Errorf("no effect module: %w: %q", core.ErrUnknownDisaster, d)
	}
	return ctor(cfg), nil
}

// base holds what every module needs: its registry, rng and owned spans
type base struct {
	cfg   Config
	reg   *scene.Registry
	rng   *rand.Rand
	spans []scene.Span
}

func (b *base) attach(reg *scene.Registry, rng *rand.Rand) {
	b.reg = reg
	b.rng = rng
	b.spans = b.spans[:0]
}

func (b *base) ready() bool {
	return b.reg != nil && b.rng != nil
}

// Spans returns the registry ranges owned by the module
func (b *base) Spans() []scene.Span {
	return b.spans
}

func (b *base) spawn(kind scene.Kind, n int, build func(i int) (mgl64.Vec3, scene.Payload)) scene.Span {
	s := b.reg.SpawnN(kind, n, build)
	b.spans = append(b.spans, s)
	return s
}

func (b *base) view(s scene.Span) []scene.Entity {
	if b.reg == nil {
		return nil
	}
	return b.reg.View(s)
}

func (b *base) between(lo, hi float64) float64 {
	return lo + b.rng.Float64()*(hi-lo)
}

// groundPoint returns a random point inside the world at height y
func (b *base) groundPoint(y float64) mgl64.Vec3 {
	h := b.cfg.WorldHalfExtent
	return mgl64.Vec3{b.between(-h, h), y, b.between(-h, h)}
}

// heading returns a random horizontal unit vector
func (b *base) heading() mgl64.Vec3 {
	sin, cos := math.Sincos(b.rng.Float64() * 2 * math.Pi)
	return mgl64.Vec3{sin, 0, cos}
}

func (b *base) hurt(fc FrameContext, nominal float64, status core.StatusEffect) {
	if fc.Sink != nil {
		fc.Sink.ApplyHazard(nominal, status)
	}
}
