// pkg/core/scenario.go
package core

// GoalSpec is one ordered checkpoint of a scenario
type GoalSpec struct {
	Position    Vec3   `json:"position"`
	Description string `json:"description"`
}

// PlacementKind distinguishes externally placed entities
type PlacementKind string

const (
	PlacementObstacle    PlacementKind = "obstacle"
	PlacementCollectible PlacementKind = "collectible"
)

// Placement is an obstacle or collectible supplied by the caller.
// Damage applies to obstacles; Points and HealthBonus apply to collectibles.
type Placement struct {
	Kind        PlacementKind `json:"kind"`
	Type        string        `json:"type"`
	Position    Vec3          `json:"position"`
	Damage      float64       `json:"damage,omitempty"`
	Points      int           `json:"points,omitempty"`
	HealthBonus float64       `json:"healthBonus,omitempty"`
}

// GeoOrigin anchors a geo-referenced scenario to a real-world location.
// When set, goal and placement X/Z are longitude/latitude in degrees.
type GeoOrigin struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Scenario is everything a session needs besides per-frame input
type Scenario struct {
	Name       string       `json:"name"`
	Disaster   DisasterType `json:"disaster"`
	Goals      []GoalSpec   `json:"goals"`
	Placements []Placement  `json:"placements,omitempty"`
	Origin     *GeoOrigin   `json:"origin,omitempty"`
	Seed       int64        `json:"seed,omitempty"`
}
