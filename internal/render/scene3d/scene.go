// Package scene3d turns a floor plan into a 3D scene in meters: walls become boxes standing
// on the floor plane, doors and windows become placements along them. Model x maps to scene
// x and model y maps to scene z; y is up.
package scene3d

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"structify/internal/plan/models"
)

const (
	WallHeight    = 2.5
	WallThickness = 0.1
	DoorElevation = 0.7
	WindowCenter  = 1.25
	WindowWidth   = 1.0
	WindowHeight  = 1.2
	WindowDepth   = 0.1
	FloorSide     = 20.0
)

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func fromR3(v r3.Vec) Vec3 { return Vec3{X: v.X, Y: v.Y, Z: v.Z} }
func (v Vec3) r3() r3.Vec  { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }

// Box is an oriented box: Size is (length along the local x axis, height, depth) and Yaw
// rotates the local x axis in the floor plane, measured from scene x towards scene z.
type Box struct {
	Center Vec3    `json:"center"`
	Size   Vec3    `json:"size"`
	Yaw    float64 `json:"yaw"`
}

type DoorPlacement struct {
	Position  Vec3             `json:"position"`
	Yaw       float64          `json:"yaw"`
	Direction models.Direction `json:"direction"`
}

type Scene struct {
	Walls     []Box           `json:"walls"`
	Doors     []DoorPlacement `json:"doors"`
	Windows   []Box           `json:"windows"`
	FloorSide float64         `json:"floor_side"`
}

// Build converts p into scene space. Walls too short to have a direction keep yaw 0.
func Build(p models.Plan) Scene {
	s := Scene{
		Walls:     make([]Box, 0, len(p.Walls)),
		Doors:     make([]DoorPlacement, 0, len(p.Doors)),
		Windows:   make([]Box, 0, len(p.Windows)),
		FloorSide: FloorSide,
	}

	for _, w := range p.Walls {
		start := ground(w.Start, 0)
		end := ground(w.End, 0)
		dir := r3.Sub(end, start)
		center := r3.Add(start, r3.Scale(0.5, dir))
		center.Y = WallHeight / 2

		s.Walls = append(s.Walls, Box{
			Center: fromR3(center),
			Size:   Vec3{X: r3.Norm(dir), Y: WallHeight, Z: WallThickness},
			Yaw:    math.Atan2(dir.Z, dir.X),
		})
	}

	for _, d := range p.Doors {
		yaw := d.Rotation + math.Pi/2
		if d.Direction == models.DirectionOutside {
			yaw = d.Rotation - math.Pi/2
		}
		s.Doors = append(s.Doors, DoorPlacement{
			Position:  fromR3(ground(d.Position, DoorElevation)),
			Yaw:       yaw,
			Direction: d.Direction,
		})
	}

	for _, w := range p.Windows {
		s.Windows = append(s.Windows, Box{
			Center: fromR3(ground(w.Position, WindowCenter)),
			Size:   Vec3{X: WindowWidth, Y: WindowHeight, Z: WindowDepth},
			Yaw:    w.Rotation,
		})
	}
	return s
}

func ground(p models.Point, y float64) r3.Vec {
	return r3.Vec{X: p.X / models.UnitsPerMeter, Y: y, Z: p.Y / models.UnitsPerMeter}
}
