// pkg/core/types.go
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrUnknownDisaster is returned when a disaster name does not match any supported type.
var ErrUnknownDisaster = errors.New("unknown disaster type")

// Vec3 is the vector type used for every position and velocity in the engine.
// +X is east, +Y is up, +Z is south.
type Vec3 = mgl64.Vec3

// DisasterType selects the environment effect module for a session
type DisasterType string

const (
	Earthquake DisasterType = "earthquake"
	Flood      DisasterType = "flood"
	Tsunami    DisasterType = "tsunami"
	Fire       DisasterType = "fire"
	Cyclone    DisasterType = "cyclone"
	Landslide  DisasterType = "landslide"
	Avalanche  DisasterType = "avalanche"
	Stampede   DisasterType = "stampede"
	Heatwave   DisasterType = "heatwave"
	Coldwave   DisasterType = "coldwave"
)

// AllDisasterTypes lists every supported disaster in menu order.
var AllDisasterTypes = []DisasterType{
	Earthquake,
	Flood,
	Tsunami,
	Fire,
	Cyclone,
	Landslide,
	Avalanche,
	Stampede,
	Heatwave,
	Coldwave,
}

// ParseDisasterType resolves a case-insensitive disaster name.
func ParseDisasterType(s string) (DisasterType, error) {
	d := DisasterType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllDisasterTypes {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDisaster, s)
}

// HasWater reports whether the disaster floods the scene.
func (d DisasterType) HasWater() bool {
	return d == Flood || d == Tsunami
}

// StatusEffect is the single narrative condition shown in the HUD.
type StatusEffect uint8

const (
	StatusNone StatusEffect = iota
	StatusFreezing
	StatusBurning
	StatusDrowning
)

// String returns the HUD label for the status.
func (s StatusEffect) String() string {
	switch s {
	case StatusDrowning:
		return "drowning"
	case StatusBurning:
		return "burning"
	case StatusFreezing:
		return "freezing"
	default:
		return "none"
	}
}

// Outranks reports whether s should replace other when both fire in the same frame.
// Values are ordered by priority, drowning highest.
func (s StatusEffect) Outranks(other StatusEffect) bool {
	return s > other
}
