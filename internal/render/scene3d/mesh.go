package scene3d

import (
	"fmt"
	"math"

	"github.com/rclancey/earcut"
	"gonum.org/v1/gonum/spatial/r3"
)

type Triangle struct {
	Normal   Vec3    `json:"normal"`
	Vertices [3]Vec3 `json:"vertices"`
}

// face is a planar rectangle spanned by two edge vectors from origin. Its outward normal
// is given separately since the edge order does not fix it.
type face struct {
	origin r3.Vec
	a, b   r3.Vec
	normal r3.Vec
}

// Mesh triangulates every wall and window box of s plus the floor square. Zero-length walls
// produce no triangles.
func Mesh(s Scene) ([]Triangle, error) {
	var out []Triangle

	if s.FloorSide > 0 {
		half := s.FloorSide / 2
		floor := face{
			origin: r3.Vec{X: -half, Z: -half},
			a:      r3.Vec{X: s.FloorSide},
			b:      r3.Vec{Z: s.FloorSide},
			normal: r3.Vec{Y: 1},
		}
		tris, err := triangulate(floor)
		if err != nil {
			return nil, fmt.Errorf("floor: %w", err)
		}
		out = append(out, tris...)
	}

	for i, b := range s.Walls {
		tris, err := boxTriangles(b)
		if err != nil {
			return nil, fmt.Errorf("wall %d: %w", i, err)
		}
		out = append(out, tris...)
	}
	for i, b := range s.Windows {
		tris, err := boxTriangles(b)
		if err != nil {
			return nil, fmt.Errorf("window %d: %w", i, err)
		}
		out = append(out, tris...)
	}
	return out, nil
}

func boxTriangles(b Box) ([]Triangle, error) {
	if b.Size.X <= 0 || b.Size.Y <= 0 || b.Size.Z <= 0 {
		return nil, nil
	}

	cos, sin := math.Cos(b.Yaw), math.Sin(b.Yaw)
	u := r3.Scale(b.Size.X, r3.Vec{X: cos, Z: sin})
	v := r3.Vec{Y: b.Size.Y}
	n := r3.Scale(b.Size.Z, r3.Vec{X: -sin, Z: cos})

	// lowest corner; the remaining corners are o plus any sum of u, v, n
	o := r3.Sub(b.Center.r3(), r3.Scale(0.5, r3.Add(u, r3.Add(v, n))))

	faces := []face{
		{origin: o, a: u, b: v, normal: r3.Scale(-1, n)},
		{origin: r3.Add(o, n), a: u, b: v, normal: n},
		{origin: o, a: u, b: n, normal: r3.Scale(-1, v)},
		{origin: r3.Add(o, v), a: u, b: n, normal: v},
		{origin: o, a: v, b: n, normal: r3.Scale(-1, u)},
		{origin: r3.Add(o, u), a: v, b: n, normal: u},
	}

	out := make([]Triangle, 0, 12)
	for _, f := range faces {
		tris, err := triangulate(f)
		if err != nil {
			return nil, err
		}
		out = append(out, tris...)
	}
	return out, nil
}

// triangulate ear-clips the face outline in its own 2D frame and lifts the triangles back,
// winding each one counter-clockwise around the outward normal.
func triangulate(f face) ([]Triangle, error) {
	la, lb := r3.Norm(f.a), r3.Norm(f.b)
	if la == 0 || lb == 0 {
		return nil, nil
	}
	coords := []float64{0, 0, la, 0, la, lb, 0, lb}

	idx, err := earcut.Earcut(coords, nil, 2)
	if err != nil {
		return nil, fmt.Errorf("earcut: %w", err)
	}
	if len(idx)%3 != 0 {
		return nil, fmt.Errorf("earcut returned %d indices", len(idx))
	}

	ua, ub := r3.Unit(f.a), r3.Unit(f.b)
	lift := func(i int) r3.Vec {
		return r3.Add(f.origin, r3.Add(r3.Scale(coords[i*2], ua), r3.Scale(coords[i*2+1], ub)))
	}
	unitNormal := r3.Unit(f.normal)

	out := make([]Triangle, 0, len(idx)/3)
	for t := 0; t < len(idx); t += 3 {
		p0, p1, p2 := lift(idx[t]), lift(idx[t+1]), lift(idx[t+2])
		if r3.Dot(r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0)), unitNormal) < 0 {
			p1, p2 = p2, p1
		}
		out = append(out, Triangle{
			Normal:   fromR3(unitNormal),
			Vertices: [3]Vec3{fromR3(p0), fromR3(p1), fromR3(p2)},
		})
	}
	return out, nil
}
