// pkg/core/events.go
package core

// Input is the per-frame input snapshot
type Input struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
	Jump     bool

	// Raw pointer movement since the previous frame
	PointerDX float64
	PointerDY float64
}

// Snapshot is the HUD-facing read model, rebuilt after every frame
type Snapshot struct {
	Frame   uint64
	Elapsed float64

	Health float64
	Score  int
	Status StatusEffect

	GoalIndex       int
	GoalCount       int
	GoalDescription string
	GoalPosition    Vec3
	Completed       bool

	WaterLevel   float64
	WindStrength float64

	PlayerPosition Vec3
	PlayerYaw      float64
	Mode           string
	CameraPosition Vec3
	CameraTarget   Vec3
	CameraYaw      float64

	CollectiblesCount int
	ActiveEntities    int
}

// CompletionEvent is fired exactly once when the last goal is reached
type CompletionEvent struct {
	Success           bool    `json:"success"`
	Score             int     `json:"score"`
	Time              float64 `json:"time"`
	Health            float64 `json:"health"`
	CollectiblesCount int     `json:"collectiblesCount"`
}
