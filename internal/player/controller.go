// Package player implements third-person movement relative to the camera.
package player

import (
	"github.com/drillsim/drillsim/internal/vmath"
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Config holds movement tunables
type Config struct {
	MoveSpeed       float64 `mapstructure:"moveSpeed"`
	JumpImpulse     float64 `mapstructure:"jumpImpulse"`
	Gravity         float64 `mapstructure:"gravity"`
	SwimUpSpeed     float64 `mapstructure:"swimUpSpeed"`
	ClimbSpeed      float64 `mapstructure:"climbSpeed"`
	Buoyancy        float64 `mapstructure:"buoyancy"`
	LadderRadius    float64 `mapstructure:"ladderRadius"`
	WorldHalfExtent float64 `mapstructure:"-"`
}

// Movement constants kept for balance parity
const (
	Friction       = 0.9
	TurnRate       = 0.1
	SwimFactor     = 0.5
	WindResistance = 0.7
	WindPush       = 0.3

	submergedGravity = 0.1
	buoyancyDepth    = 1.0
)

// DefaultConfig returns the stock movement tunables
func DefaultConfig() Config {
	return Config{
		MoveSpeed:       10,
		JumpImpulse:     8,
		Gravity:         20,
		SwimUpSpeed:     3,
		ClimbSpeed:      3,
		Buoyancy:        4,
		LadderRadius:    1.5,
		WorldHalfExtent: 50,
	}
}

// LadderContact is a ladder within climbing reach
type LadderContact struct {
	Base   mgl64.Vec3
	Height float64
}

// Surroundings is the environment the controller reads each frame
type Surroundings struct {
	HasWater     bool
	WaterLevel   float64
	WindDir      mgl64.Vec3 // unit, horizontal
	WindStrength float64
	Ladder       *LadderContact
}

// Controller advances player physics
type Controller struct {
	cfg Config
}

// NewController creates a controller
func NewController(cfg Config) *Controller {
	return &Controller{cfg: cfg}
}

// Config returns the controller tunables
func (c *Controller) Config() Config {
	return c.cfg
}

// Update advances s by dt seconds
func (c *Controller) Update(s *State, dt float64, in core.Input, cameraYaw float64, env Surroundings) {
	if dt < 0 {
		dt = 0
	}

	s.Climbing = env.Ladder != nil && in.Forward
	s.Swimming = !s.Climbing && env.HasWater && env.WaterLevel > s.Position.Y()

	forward, right := vmath.Basis(cameraYaw)
	var move mgl64.Vec3
	if in.Forward {
		move = move.Add(forward)
	}
	if in.Backward {
		move = move.Sub(forward)
	}
	if in.Right {
		move = move.Add(right)
	}
	if in.Left {
		move = move.Sub(right)
	}

	speed := c.cfg.MoveSpeed
	if s.Swimming {
		speed *= SwimFactor
	}
	windy := env.WindStrength > 0
	if windy {
		speed *= WindResistance
	}

	moving := move.Len() > 1e-9
	var dir mgl64.Vec3
	if moving {
		dir = move.Normalize()
		s.Velocity[0] = dir[0] * speed
		s.Velocity[2] = dir[2] * speed
	} else {
		s.Velocity[0] *= Friction
		s.Velocity[2] *= Friction
	}

	if windy {
		push := vmath.Horizontal(env.WindDir).Mul(env.WindStrength * WindPush * dt)
		s.Position = s.Position.Add(push)
	}

	g := c.cfg.Gravity
	switch {
	case s.Climbing:
		top := env.Ladder.Base.Y() + env.Ladder.Height
		if s.Position.Y() < top {
			s.Velocity[1] = c.cfg.ClimbSpeed
		} else {
			s.Velocity[1] = 0
		}
	case s.Swimming:
		if in.Jump {
			s.Velocity[1] = c.cfg.SwimUpSpeed
		}
		s.Velocity[1] -= submergedGravity * g * dt
		if env.WaterLevel-s.Position.Y() > buoyancyDepth {
			s.Velocity[1] += c.cfg.Buoyancy * dt
		}
	default:
		if in.Jump && s.Grounded {
			s.Velocity[1] = c.cfg.JumpImpulse
			s.Grounded = false
		}
		s.Velocity[1] -= g * dt
	}

	s.Position = s.Position.Add(s.Velocity.Mul(dt))

	if s.Climbing {
		top := env.Ladder.Base.Y() + env.Ladder.Height
		if s.Position.Y() > top {
			s.Position[1] = top
		}
	}

	// ground contact only counts as walking; the movement flags stay exclusive
	s.Grounded = false
	if s.Position.Y() <= 0 {
		s.Position[1] = 0
		s.Velocity[1] = 0
		s.Grounded = !s.Swimming && !s.Climbing
	}

	if c.cfg.WorldHalfExtent > 0 {
		s.Position = vmath.ClampBox(s.Position, c.cfg.WorldHalfExtent)
	}

	if moving {
		s.Yaw = vmath.LerpAngle(s.Yaw, vmath.Yaw(dir), TurnRate)
	}
}
