// Package collision resolves player contact with goals, collectibles and
// placed obstacles, and is the only writer of player health and status.
package collision

import (
	"github.com/drillsim/drillsim/internal/goals"
	"github.com/drillsim/drillsim/internal/player"
	"github.com/drillsim/drillsim/internal/scene"
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// DamageScale converts a nominal damage magnitude into health points
const DamageScale = 0.1

// Drowning parameters: the player drowns once the surface is more than
// DrownDepth above them, losing DrownDamage (nominal) per frame.
const (
	DrownDepth  = 1.0
	DrownDamage = 0.5
)

// Config holds contact radii and the goal bonus
type Config struct {
	GoalRadius        float64 `mapstructure:"goalRadius"`
	CollectibleRadius float64 `mapstructure:"collectibleRadius"`
	HazardRadius      float64 `mapstructure:"hazardRadius"`
	GoalBonus         int     `mapstructure:"goalBonus"`
	WorldHalfExtent   float64 `mapstructure:"-"`
}

// DefaultConfig returns the stock radii
func DefaultConfig() Config {
	return Config{
		GoalRadius:        2.5,
		CollectibleRadius: 1.5,
		HazardRadius:      1.5,
		GoalBonus:         100,
		WorldHalfExtent:   50,
	}
}

// HazardSink is how environment modules hurt or shove the player
type HazardSink interface {
	// ApplyHazard deducts nominal*DamageScale health and raises status
	// if it outranks the status already set this frame.
	ApplyHazard(nominal float64, status core.StatusEffect)
	// Push displaces the player horizontally, staying inside the world.
	Push(delta mgl64.Vec3)
}

// Water is the flood state seen by the resolver
type Water struct {
	Present bool
	Level   float64
}

// Report summarizes what one resolver pass changed
type Report struct {
	GoalReached  bool
	GoalIndex    int
	Completed    bool
	Collected    int
	ObstacleHits int
}

// Resolver runs once per frame after player movement
type Resolver struct {
	cfg    Config
	reg    *scene.Registry
	state  *player.State
	goals  *goals.Tracker
	logger zerolog.Logger
}

// NewResolver creates a resolver over a session's registry, player and goals
func NewResolver(cfg Config, reg *scene.Registry, state *player.State, tracker *goals.Tracker, logger zerolog.Logger) *Resolver {
	return &Resolver{
		cfg:    cfg,
		reg:    reg,
		state:  state,
		goals:  tracker,
		logger: logger.With().Str("component", "collision").Logger(),
	}
}

// Resolve clears the frame status, then checks every goal, collectible and
// obstacle against the player, then applies drowning.
func (r *Resolver) Resolve(water Water) Report {
	r.state.Status = core.StatusNone
	rep := Report{GoalIndex: r.goals.Index()}

	// a goal that becomes active during this pass waits for the next frame
	active := r.goals.Index()
	pos := r.state.Position

	r.reg.Each(func(e *scene.Entity) {
		switch e.Kind {
		case scene.KindGoal:
			m, ok := e.Data.(*scene.GoalMarker)
			if !ok || m.Index != active || r.goals.Completed() {
				return
			}
			if vmath.Dist(pos, e.Position) > r.cfg.GoalRadius {
				return
			}
			if !r.goals.Reach(m.Index) {
				return
			}
			r.goals.AddScore(r.cfg.GoalBonus)
			r.reg.Remove(e.ID)
			rep.GoalReached = true
			rep.GoalIndex = r.goals.Index()
			rep.Completed = r.goals.Completed()
			r.logger.Info().Int("goal", m.Index).Int("score", r.goals.Score()).Bool("completed", rep.Completed).Msg("Goal reached")

		case scene.KindCollectible:
			it, ok := e.Data.(*scene.Item)
			if !ok || vmath.Dist(pos, e.Position) > r.cfg.CollectibleRadius {
				return
			}
			if _, seen := r.state.Collected[it.ItemID]; seen {
				r.reg.Remove(e.ID)
				return
			}
			r.goals.AddScore(it.Points)
			r.Heal(it.HealthBonus)
			r.state.Collected[it.ItemID] = struct{}{}
			r.reg.Remove(e.ID)
			rep.Collected++
			r.logger.Debug().Str("item", it.ItemID).Int("points", it.Points).Msg("Collectible picked up")

		case scene.KindObstacle:
			ob, ok := e.Data.(*scene.Obstacle)
			if !ok || vmath.Dist(pos, e.Position) > r.cfg.HazardRadius {
				return
			}
			r.ApplyHazard(ob.Damage, core.StatusNone)
			rep.ObstacleHits++
		}
	})

	if water.Present && water.Level-r.state.Position.Y() > DrownDepth {
		r.ApplyHazard(DrownDamage, core.StatusDrowning)
	}
	return rep
}

// ApplyHazard implements HazardSink
func (r *Resolver) ApplyHazard(nominal float64, status core.StatusEffect) {
	if nominal > 0 {
		r.state.Health = vmath.Clamp(r.state.Health-nominal*DamageScale, 0, player.MaxHealth)
	}
	if status.Outranks(r.state.Status) {
		r.state.Status = status
	}
}

// Heal restores health up to the maximum
func (r *Resolver) Heal(amount float64) {
	if amount <= 0 {
		return
	}
	r.state.Health = vmath.Clamp(r.state.Health+amount, 0, player.MaxHealth)
}

// Push implements HazardSink
func (r *Resolver) Push(delta mgl64.Vec3) {
	r.state.Position = vmath.ClampBox(r.state.Position.Add(vmath.Horizontal(delta)), r.cfg.WorldHalfExtent)
}
