package geo

import (
	"math"

	"github.com/drillsim/drillsim/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"
)

// GEO POINTS
// Geo-referenced scenarios give positions as lon/lat (EPSG:4326). They are
// projected to web mercator (EPSG:3857) and then expressed as metres from the
// scenario origin, with +X east and +Z south to match the scene axes.
// Positions stored in the database are XYZ points in scene coordinates.

// Coords3857From4326 creates a web mercator point from a longitude and latitude
func Coords3857From4326(longitude, latitude float64) geom.Point {
	epsg := wgs84.EPSG()
	f := epsg.Transform(4326, 3857)
	x, y, _ := f(longitude, latitude, 0)
	return geom.NewPoint(geom.Coordinates{
		XY: geom.XY{X: x, Y: y},
	})
}

// LocalFrame maps lon/lat to scene metres around an origin
type LocalFrame struct {
	Origin core.GeoOrigin
	ox, oy float64
	// mercator stretches distances by 1/cos(lat)
	scale float64
}

// NewLocalFrame anchors a frame at origin
func NewLocalFrame(origin core.GeoOrigin) LocalFrame {
	xy, _ := Coords3857From4326(origin.Lon, origin.Lat).XY()
	return LocalFrame{
		Origin: origin,
		ox:     xy.X,
		oy:     xy.Y,
		scale:  math.Cos(origin.Lat * math.Pi / 180),
	}
}

// ToLocal converts lon/lat plus a height in metres to a scene position
func (f LocalFrame) ToLocal(lon, lat, height float64) core.Vec3 {
	xy, _ := Coords3857From4326(lon, lat).XY()
	return core.Vec3{
		(xy.X - f.ox) * f.scale,
		height,
		-(xy.Y - f.oy) * f.scale,
	}
}

// PointFromVec stores a scene position as an XYZ point
func PointFromVec(v core.Vec3) geom.Point {
	return geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: v[0], Y: v[2]},
		Z:    v[1],
		Type: geom.DimXYZ,
	})
}

// VecFromPoint reverses PointFromVec. ok is false for an empty point.
func VecFromPoint(p geom.Point) (v core.Vec3, ok bool) {
	c, ok := p.Coordinates()
	if !ok {
		return v, false
	}
	return core.Vec3{c.X, c.Z, c.Y}, true
}
