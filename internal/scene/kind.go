package scene

// Kind is the closed set of entity behaviors. Every update pass switches on it.
type Kind uint8

const (
	KindDebris Kind = iota
	KindBoulder
	KindFloatingObject
	KindFlyingDebris
	KindSnowball
	KindRainDrop
	KindWaveParticle
	KindSmoke
	KindShimmer
	KindDust
	KindSnowflake
	KindTree
	KindLadder
	KindFireSource
	KindCrowdMember
	KindGoal
	KindCollectible
	KindObstacle

	kindCount
)

var kindNames = [kindCount]string{
	KindDebris:         "debris",
	KindBoulder:        "boulder",
	KindFloatingObject: "floating_object",
	KindFlyingDebris:   "flying_debris",
	KindSnowball:       "snowball",
	KindRainDrop:       "rain_drop",
	KindWaveParticle:   "wave_particle",
	KindSmoke:          "smoke",
	KindShimmer:        "shimmer",
	KindDust:           "dust",
	KindSnowflake:      "snowflake",
	KindTree:           "tree",
	KindLadder:         "ladder",
	KindFireSource:     "fire_source",
	KindCrowdMember:    "crowd_member",
	KindGoal:           "goal",
	KindCollectible:    "collectible",
	KindObstacle:       "obstacle",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds
func (k Kind) Valid() bool {
	return k < kindCount
}

// Consumable kinds are the only ones ever removed from the registry
func (k Kind) Consumable() bool {
	return k == KindGoal || k == KindCollectible
}
