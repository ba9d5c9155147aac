// Package scenario is the catalog of drill scenarios: built-in defaults, a
// JSON directory, or a gorm database, fronted by an in-process cache.
package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/drillsim/drillsim/internal/geo"
	"github.com/drillsim/drillsim/pkg/core"
)

var (
	// ErrNotFound is returned when no scenario has the requested name
	ErrNotFound = errors.New("scenario not found")
	// ErrInvalid is returned for scenarios that cannot start a session
	ErrInvalid = errors.New("invalid scenario")
)

// Store is the interface all catalog backends satisfy
type Store interface {
	Init() error
	Close() error

	List(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, name string) (core.Scenario, error)
	Save(ctx context.Context, sc core.Scenario) error
}

// Summary is one row of a catalog listing
type Summary struct {
	Name          string
	Disaster      core.DisasterType
	Goals         int
	Placements    int
	RouteLength   float64
	Georeferenced bool
}

// Summarize describes sc for listings
func Summarize(sc core.Scenario) Summary {
	projected := Project(sc)
	return Summary{
		Name:          sc.Name,
		Disaster:      sc.Disaster,
		Goals:         len(sc.Goals),
		Placements:    len(sc.Placements),
		RouteLength:   geo.RouteLength(projected.Goals),
		Georeferenced: sc.Origin != nil,
	}
}

// Validate checks that sc can start a session
func Validate(sc core.Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if _, err := core.ParseDisasterType(string(sc.Disaster)); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalid, sc.Name, err)
	}
	if len(sc.Goals) == 0 {
		return fmt.Errorf("%w %q: no goals", ErrInvalid, sc.Name)
	}
	for i, p := range sc.Placements {
		if p.Kind != core.PlacementObstacle && p.Kind != core.PlacementCollectible {
			return fmt.Errorf("%w %q: placement %d has unknown kind %q", ErrInvalid, sc.Name, i, p.Kind)
		}
	}
	return nil
}

// Project converts a geo-referenced scenario to scene coordinates. Goal and
// placement X/Z are read as longitude/latitude and Y as height in metres.
// Scenarios without an origin are returned unchanged.
func Project(sc core.Scenario) core.Scenario {
	if sc.Origin == nil {
		return sc
	}
	frame := geo.NewLocalFrame(*sc.Origin)
	out := sc
	out.Origin = nil
	out.Goals = make([]core.GoalSpec, len(sc.Goals))
	for i, g := range sc.Goals {
		g.Position = frame.ToLocal(g.Position[0], g.Position[2], g.Position[1])
		out.Goals[i] = g
	}
	out.Placements = make([]core.Placement, len(sc.Placements))
	for i, p := range sc.Placements {
		p.Position = frame.ToLocal(p.Position[0], p.Position[2], p.Position[1])
		out.Placements[i] = p
	}
	return out
}
