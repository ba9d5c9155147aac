package scenario

import (
	"github.com/drillsim/drillsim/pkg/core"
)

func goal(x, z float64, description string) core.GoalSpec {
	return core.GoalSpec{Position: core.Vec3{x, 0, z}, Description: description}
}

// ladderTop is a goal on top of the first ladder of the water ring, which
// stands at (0, 0, 15) in the default world and reaches one unit above the
// water ceiling
func ladderTop(ceiling float64, description string) core.GoalSpec {
	return core.GoalSpec{Position: core.Vec3{0, ceiling + 1, 15}, Description: description}
}

func medkit(x, z float64) core.Placement {
	return core.Placement{
		Kind:        core.PlacementCollectible,
		Type:        "medkit",
		Position:    core.Vec3{x, 0, z},
		Points:      50,
		HealthBonus: 25,
	}
}

func supplies(x, z float64) core.Placement {
	return core.Placement{
		Kind:     core.PlacementCollectible,
		Type:     "supplies",
		Position: core.Vec3{x, 0, z},
		Points:   25,
	}
}

func obstacle(kind string, x, z, damage float64) core.Placement {
	return core.Placement{
		Kind:     core.PlacementObstacle,
		Type:     kind,
		Position: core.Vec3{x, 0, z},
		Damage:   damage,
	}
}

var defaults = map[core.DisasterType]core.Scenario{
	core.Earthquake: {
		Goals: []core.GoalSpec{
			goal(0, -10, "Drop, cover and hold on under the table"),
			goal(12, -18, "Leave the building once the shaking stops"),
			goal(20, -35, "Gather at the open assembly area"),
		},
		Placements: []core.Placement{medkit(6, -14), obstacle("broken-glass", 16, -26, 1)},
	},
	core.Flood: {
		Goals: []core.GoalSpec{
			goal(-8, -8, "Switch off the main power supply"),
			goal(-15, 10, "Collect the emergency kit"),
			ladderTop(3, "Climb to the rooftop by the ladder"),
		},
		Placements: []core.Placement{supplies(-12, 2)},
	},
	core.Tsunami: {
		Goals: []core.GoalSpec{
			goal(0, -15, "Move away from the shoreline"),
			goal(0, -30, "Follow the evacuation route inland"),
			ladderTop(8, "Climb the vertical evacuation tower"),
		},
	},
	core.Fire: {
		Goals: []core.GoalSpec{
			goal(0, -8, "Raise the alarm"),
			goal(-10, -20, "Stay low and reach the exit"),
			goal(-20, -36, "Report to the fire assembly point"),
		},
		Placements: []core.Placement{obstacle("smouldering-beam", -5, -14, 2), medkit(-14, -26)},
	},
	core.Cyclone: {
		Goals: []core.GoalSpec{
			goal(10, 0, "Secure loose objects outside"),
			goal(18, -12, "Reach the reinforced shelter"),
			goal(25, -25, "Wait in the interior safe room"),
		},
	},
	core.Landslide: {
		Goals: []core.GoalSpec{
			goal(0, -12, "Move off the slope path"),
			goal(-10, -24, "Climb to stable high ground"),
			goal(-18, -38, "Alert the rescue team"),
		},
		Placements: []core.Placement{medkit(-6, -18)},
	},
	core.Avalanche: {
		Goals: []core.GoalSpec{
			goal(0, -10, "Move sideways out of the slide path"),
			goal(8, -22, "Reach the sheltered ridge"),
			goal(15, -34, "Signal the rescue patrol"),
		},
		Placements: []core.Placement{supplies(4, -16)},
	},
	core.Stampede: {
		Goals: []core.GoalSpec{
			goal(-10, 0, "Move to the edge of the crowd"),
			goal(-20, -10, "Shelter beside the wall"),
			goal(-30, -25, "Exit through the side gate"),
		},
	},
	core.Heatwave: {
		Goals: []core.GoalSpec{
			goal(0, -10, "Walk to the shaded area"),
			goal(10, -20, "Drink water at the station"),
			goal(20, -30, "Rest inside the cooling centre"),
		},
		Placements: []core.Placement{supplies(5, -15), supplies(15, -25)},
	},
	core.Coldwave: {
		Goals: []core.GoalSpec{
			goal(0, -10, "Put on the layered clothing"),
			goal(-10, -20, "Keep moving to the warming hut"),
			goal(-20, -30, "Light the heater safely"),
		},
		Placements: []core.Placement{medkit(-5, -15)},
	},
}

// Defaults returns one built-in scenario per disaster type, named after the
// disaster, in menu order.
func Defaults() []core.Scenario {
	out := make([]core.Scenario, 0, len(core.AllDisasterTypes))
	for _, d := range core.AllDisasterTypes {
		sc, ok := Default(d)
		if ok {
			out = append(out, sc)
		}
	}
	return out
}

// Default returns the built-in scenario for d
func Default(d core.DisasterType) (core.Scenario, bool) {
	sc, ok := defaults[d]
	if !ok {
		return core.Scenario{}, false
	}
	sc.Name = string(d)
	sc.Disaster = d
	sc.Goals = append([]core.GoalSpec(nil), sc.Goals...)
	sc.Placements = append([]core.Placement(nil), sc.Placements...)
	return sc, true
}
