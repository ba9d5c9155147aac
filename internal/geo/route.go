package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/drillsim/drillsim/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrInvalidCoordinates is returned when the coordinates are invalid
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// ParseRoute parses a JSON array of ground positions into scene positions.
// Input format: "[[x1,z1],[x2,z2],...]" or "[[x1,y1,z1],...]"
func ParseRoute(input string) ([]core.Vec3, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return nil, fmt.Errorf("failed to parse route JSON: %w", err)
	}

	if len(coords) == 0 {
		return nil, fmt.Errorf("route must have at least 1 point")
	}

	route := make([]core.Vec3, len(coords))
	for i, coord := range coords {
		switch len(coord) {
		case 2:
			route[i] = core.Vec3{coord[0], 0, coord[1]}
		case 3:
			route[i] = core.Vec3{coord[0], coord[1], coord[2]}
		default:
			return nil, fmt.Errorf("coordinate %d: %w", i, ErrInvalidCoordinates)
		}
	}

	return route, nil
}

// RouteLine builds the ground path from the spawn point through every goal in order.
func RouteLine(goals []core.GoalSpec) geom.LineString {
	flatCoords := make([]float64, 0, (len(goals)+1)*2)
	flatCoords = append(flatCoords, 0, 0)
	for _, g := range goals {
		flatCoords = append(flatCoords, g.Position[0], g.Position[2])
	}

	seq := geom.NewSequence(flatCoords, geom.DimXY)
	return geom.NewLineString(seq)
}

// RouteLength is the ground distance of RouteLine.
func RouteLength(goals []core.GoalSpec) float64 {
	if len(goals) == 0 {
		return 0
	}
	return RouteLine(goals).Length()
}
