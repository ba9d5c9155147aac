package scene

import "github.com/go-gl/mathgl/mgl64"

// FlamesPerSource is the number of flickering sub-elements inside a fire source
const FlamesPerSource = 5

// Payload is the behavior-specific data of an entity. The set of
// implementations is closed to this package.
type Payload interface {
	payload()
}

// Falling drives earthquake debris
type Falling struct {
	Speed           float64
	DamagePerSecond float64
}

// Roller drives landslide boulders and avalanche snowballs
type Roller struct {
	Speed  float64
	Size   float64
	Damage float64
}

// Floater bobs on the water surface
type Floater struct {
	Phase float64
	Bob   float64
	Drift float64
}

// Flyer is wind-borne cyclone debris
type Flyer struct {
	Drift  mgl64.Vec3
	Spin   float64
	Damage float64
}

// Drop is a rain drop
type Drop struct {
	FallSpeed float64
}

// Particle is a cosmetic particle (smoke, shimmer, dust, snowflake, wave spray).
// ResetChance is the per-second probability of an early recycle, so
// particles of one kind don't all restart together.
type Particle struct {
	Velocity    mgl64.Vec3
	Phase       float64
	Age         float64
	Lifetime    float64
	ResetChance float64
}

// Sway animates a tree under wind
type Sway struct {
	Phase     float64
	Stiffness float64
}

// Ladder lets the player climb out of the water
type Ladder struct {
	Height float64
}

// Flame is one flickering sub-element of a fire source
type Flame struct {
	Offset mgl64.Vec3
	Phase  float64
	Freq   float64
	ScaleY float64
	Lift   float64
}

// FireSource is a burning spot with its flames
type FireSource struct {
	Flames [FlamesPerSource]Flame
	Damage float64
	Radius float64
}

// Walker is a stampede crowd member doing a random walk
type Walker struct {
	Dir    mgl64.Vec3
	Timer  float64
	Speed  float64
	Damage float64
}

// GoalMarker marks the checkpoint at Index of the goal sequence
type GoalMarker struct {
	Index       int
	Description string
}

// Item is a collectible
type Item struct {
	ItemID      string
	Type        string
	Points      int
	HealthBonus float64
}

// Obstacle is a static hazard placed by the scenario
type Obstacle struct {
	Type   string
	Damage float64
}

func (*Falling) payload()    {}
func (*Roller) payload()     {}
func (*Floater) payload()    {}
func (*Flyer) payload()      {}
func (*Drop) payload()       {}
func (*Particle) payload()   {}
func (*Sway) payload()       {}
func (*Ladder) payload()     {}
func (*FireSource) payload() {}
func (*Walker) payload()     {}
func (*GoalMarker) payload() {}
func (*Item) payload()       {}
func (*Obstacle) payload()   {}
