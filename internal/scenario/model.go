package scenario

import (
	"encoding/json"
	"time"

	"github.com/drillsim/drillsim/internal/geo"
	"github.com/drillsim/drillsim/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
)

// Models lists the tables used by the gorm store
var Models = []any{
	&ScenarioRecord{},
	&GoalRecord{},
	&PlacementRecord{},
}

// ScenarioRecord is a catalog row
type ScenarioRecord struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `json:"name" gorm:"size:128;uniqueIndex"`
	Disaster  string    `json:"disaster" gorm:"size:32;index"`
	Seed      int64     `json:"seed"`

	// Origin is lon/lat, only meaningful when Georeferenced is set
	Georeferenced bool       `json:"georeferenced"`
	Origin        geom.Point `json:"origin"`

	Goals      []GoalRecord      `json:"goals" gorm:"foreignKey:ScenarioID;constraint:OnDelete:CASCADE"`
	Placements []PlacementRecord `json:"placements" gorm:"foreignKey:ScenarioID;constraint:OnDelete:CASCADE"`
}

func (*ScenarioRecord) TableName() string {
	return "scenarios"
}

// GoalRecord is one ordered checkpoint of a scenario
type GoalRecord struct {
	ID          uint       `json:"id" gorm:"primarykey;autoIncrement"`
	ScenarioID  uint       `json:"scenarioId" gorm:"index"`
	Seq         int        `json:"seq"`
	Description string     `json:"description" gorm:"size:256"`
	Position    geom.Point `json:"position"`
}

func (*GoalRecord) TableName() string {
	return "scenario_goals"
}

// PlacementRecord is an obstacle or collectible. Params carries the
// kind-specific numbers as JSON.
type PlacementRecord struct {
	ID         uint           `json:"id" gorm:"primarykey;autoIncrement"`
	ScenarioID uint           `json:"scenarioId" gorm:"index"`
	Seq        int            `json:"seq"`
	Kind       string         `json:"kind" gorm:"size:16"`
	Type       string         `json:"type" gorm:"size:64"`
	Position   geom.Point     `json:"position"`
	Params     datatypes.JSON `json:"params"`
}

func (*PlacementRecord) TableName() string {
	return "scenario_placements"
}

type placementParams struct {
	Damage      float64 `json:"damage,omitempty"`
	Points      int     `json:"points,omitempty"`
	HealthBonus float64 `json:"healthBonus,omitempty"`
}

// ToRecord converts a scenario to its gorm row
func ToRecord(sc core.Scenario) (ScenarioRecord, error) {
	rec := ScenarioRecord{
		Name:     sc.Name,
		Disaster: string(sc.Disaster),
		Seed:     sc.Seed,
	}
	if sc.Origin != nil {
		rec.Georeferenced = true
		rec.Origin = geom.NewPoint(geom.Coordinates{XY: geom.XY{X: sc.Origin.Lon, Y: sc.Origin.Lat}})
	}
	for i, g := range sc.Goals {
		rec.Goals = append(rec.Goals, GoalRecord{
			Seq:         i,
			Description: g.Description,
			Position:    geo.PointFromVec(g.Position),
		})
	}
	for i, p := range sc.Placements {
		params, err := json.Marshal(placementParams{Damage: p.Damage, Points: p.Points, HealthBonus: p.HealthBonus})
		if err != nil {
			return ScenarioRecord{}, err
		}
		rec.Placements = append(rec.Placements, PlacementRecord{
			Seq:      i,
			Kind:     string(p.Kind),
			Type:     p.Type,
			Position: geo.PointFromVec(p.Position),
			Params:   datatypes.JSON(params),
		})
	}
	return rec, nil
}

// FromRecord converts a gorm row back to a scenario. Goals and placements must
// already be ordered by Seq.
func FromRecord(rec ScenarioRecord) (core.Scenario, error) {
	sc := core.Scenario{
		Name:     rec.Name,
		Disaster: core.DisasterType(rec.Disaster),
		Seed:     rec.Seed,
	}
	if rec.Georeferenced {
		xy, ok := rec.Origin.XY()
		if ok {
			sc.Origin = &core.GeoOrigin{Lon: xy.X, Lat: xy.Y}
		}
	}
	for _, g := range rec.Goals {
		pos, _ := geo.VecFromPoint(g.Position)
		sc.Goals = append(sc.Goals, core.GoalSpec{Position: pos, Description: g.Description})
	}
	for _, p := range rec.Placements {
		var params placementParams
		if len(p.Params) > 0 {
			if err := json.Unmarshal(p.Params, &params); err != nil {
				return core.Scenario{}, err
			}
		}
		pos, _ := geo.VecFromPoint(p.Position)
		sc.Placements = append(sc.Placements, core.Placement{
			Kind:        core.PlacementKind(p.Kind),
			Type:        p.Type,
			Position:    pos,
			Damage:      params.Damage,
			Points:      params.Points,
			HealthBonus: params.HealthBonus,
		})
	}
	return sc, nil
}
