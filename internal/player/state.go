package player

import (
	"github.com/drillsim/drillsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxHealth is the ceiling of the health scale
const MaxHealth = 100.0

// Mode is the movement mode derived from the state flags
type Mode uint8

const (
	ModeWalking Mode = iota
	ModeAirborne
	ModeSwimming
	ModeClimbing
)

func (m Mode) String() string {
	switch m {
	case ModeAirborne:
		return "jumping"
	case ModeSwimming:
		return "swimming"
	case ModeClimbing:
		return "climbing"
	default:
		return "walking"
	}
}

// State is the player record shared by the frame components.
// Movement fields are written by the Controller; Health, Collected and
// Status are written only by the collision resolver.
type State struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Yaw      float64

	Grounded bool
	Swimming bool
	Climbing bool

	Health    float64
	Collected map[string]struct{}
	Status    core.StatusEffect
}

// NewState places a fresh player at spawn
func NewState(spawn mgl64.Vec3) State {
	return State{
		Position:  spawn,
		Grounded:  spawn.Y() <= 0,
		Health:    MaxHealth,
		Collected: make(map[string]struct{}),
	}
}

// Mode resolves the movement flags into a single mode.
// Climbing wins over swimming, swimming over ground contact.
func (s *State) Mode() Mode {
	switch {
	case s.Climbing:
		return ModeClimbing
	case s.Swimming:
		return ModeSwimming
	case s.Grounded:
		return ModeWalking
	default:
		return ModeAirborne
	}
}
