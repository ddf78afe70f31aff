// Package snap computes snap targets for the drawing tools: existing wall
// endpoints for new walls, and points on walls for doors and windows.
package snap

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"structify/internal/plan/models"
)

const (
	// SnapDistance is the capture radius, in model units, for both snap queries.
	SnapDistance = 15.0
	// ProjectionBuffer lets a door or window projection overshoot a wall end by this much.
	ProjectionBuffer = 20.0
)

// WallSnap is a point on a wall picked for a door or window.
type WallSnap struct {
	Point    models.Point
	Rotation float64 // wall angle, atan2 of its direction
	Wall     int     // index of the host wall
	T        float64 // projection parameter along the unit wall direction
	Distance float64 // perpendicular distance from the cursor
}

// FindSnapPoint returns the wall endpoint nearest to p when it is strictly closer than
// SnapDistance. Equal distances keep the first endpoint met (wall order, start before end).
// Without a candidate p itself is returned with false.
func FindSnapPoint(p models.Point, walls []models.Wall) (models.Point, bool) {
	best := p
	found := false
	minDist := SnapDistance

	for _, w := range walls {
		for _, end := range [2]models.Point{w.Start, w.End} {
			d := p.Distance(end)
			if d < minDist {
				minDist = d
				best = end
				found = true
			}
		}
	}
	return best, found
}

// FindWallSnap projects p onto the supporting line of every wall and keeps the closest
// projection whose parameter lies within [-ProjectionBuffer, length+ProjectionBuffer] and
// whose perpendicular distance is below SnapDistance. Zero-length walls are skipped.
func FindWallSnap(p models.Point, walls []models.Wall) (WallSnap, bool) {
	var best WallSnap
	found := false
	minDist := SnapDistance
	cursor := vec(p)

	for i, w := range walls {
		start := vec(w.Start)
		dir := r2.Sub(vec(w.End), start)
		length := r2.Norm(dir)
		if length == 0 || math.IsNaN(length) {
			continue
		}

		unit := r2.Scale(1/length, dir)
		t := r2.Dot(r2.Sub(cursor, start), unit)
		projected := r2.Add(start, r2.Scale(t, unit))
		dist := r2.Norm(r2.Sub(cursor, projected))

		if t < -ProjectionBuffer || t > length+ProjectionBuffer || !(dist < minDist) {
			continue
		}

		minDist = dist
		found = true
		best = WallSnap{
			Point:    models.Point{X: projected.X, Y: projected.Y},
			Rotation: math.Atan2(dir.Y, dir.X),
			Wall:     i,
			T:        t,
			Distance: dist,
		}
	}
	return best, found
}

func vec(p models.Point) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}
