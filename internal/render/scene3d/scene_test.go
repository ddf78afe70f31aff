package scene3d

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"structify/internal/plan/models"
)

func TestBuild_Walls(t *testing.T) {
	s := Build(models.Plan{Walls: []models.Wall{
		{Start: models.Point{X: 0, Y: 0}, End: models.Point{X: 100, Y: 0}},
		{Start: models.Point{X: 0, Y: 0}, End: models.Point{X: 0, Y: 50}},
	}})

	require.Len(t, s.Walls, 2)
	assert.Equal(t, FloorSide, s.FloorSide)

	w := s.Walls[0]
	assert.Equal(t, Vec3{X: 1, Y: WallHeight / 2, Z: 0}, w.Center)
	assert.Equal(t, Vec3{X: 2, Y: WallHeight, Z: WallThickness}, w.Size)
	assert.Zero(t, w.Yaw)

	w = s.Walls[1]
	assert.InDelta(t, 0.5, w.Center.Z, 1e-12)
	assert.InDelta(t, 1, w.Size.X, 1e-12)
	assert.InDelta(t, math.Pi/2, w.Yaw, 1e-12)
}

func TestBuild_Openings(t *testing.T) {
	s := Build(models.Plan{
		Doors: []models.Door{
			{Position: models.Point{X: 50, Y: 0}, Rotation: 0, Direction: models.DirectionInside},
			{Position: models.Point{X: 50, Y: 0}, Rotation: 0, Direction: models.DirectionOutside},
		},
		Windows: []models.Window{{Position: models.Point{X: 100, Y: 50}, Rotation: 0.3}},
	})

	require.Len(t, s.Doors, 2)
	assert.Equal(t, Vec3{X: 1, Y: DoorElevation, Z: 0}, s.Doors[0].Position)
	assert.InDelta(t, math.Pi/2, s.Doors[0].Yaw, 1e-12)
	assert.InDelta(t, -math.Pi/2, s.Doors[1].Yaw, 1e-12)
	assert.Equal(t, models.DirectionOutside, s.Doors[1].Direction)

	require.Len(t, s.Windows, 1)
	assert.Equal(t, Vec3{X: 2, Y: WindowCenter, Z: 1}, s.Windows[0].Center)
	assert.Equal(t, 0.3, s.Windows[0].Yaw)
}

func TestBuild_EmptyPlan(t *testing.T) {
	s := Build(models.Plan{})
	assert.NotNil(t, s.Walls)
	assert.NotNil(t, s.Doors)
	assert.NotNil(t, s.Windows)
}

func TestMesh_BoxesAndFloor(t *testing.T) {
	s := Build(models.Plan{
		Walls: []models.Wall{
			{Start: models.Point{X: 0, Y: 0}, End: models.Point{X: 100, Y: 0}},
			{Start: models.Point{X: 5, Y: 5}, End: models.Point{X: 5, Y: 5}},
		},
		Windows: []models.Window{{Position: models.Point{X: 50, Y: 0}}},
	})

	tris, err := Mesh(s)
	require.NoError(t, err)
	assert.Len(t, tris, 2+12+12, "floor, one wall, one window; the zero-length wall adds nothing")

	for i, tr := range tris {
		v := tr.Vertices
		n := r3.Cross(r3.Sub(v[1].r3(), v[0].r3()), r3.Sub(v[2].r3(), v[0].r3()))
		assert.Greater(t, r3.Dot(n, tr.Normal.r3()), 0.0, "triangle %d winds around its normal", i)
		assert.InDelta(t, 1, r3.Norm(tr.Normal.r3()), 1e-12)
	}

	// wall box spans its footprint, full height, half thickness either side
	for _, tr := range tris[2:14] {
		for _, v := range tr.Vertices {
			assert.True(t, v.X >= -1e-9 && v.X <= 2+1e-9, "x %v", v.X)
			assert.True(t, v.Y >= -1e-9 && v.Y <= WallHeight+1e-9, "y %v", v.Y)
			assert.InDelta(t, WallThickness/2, math.Abs(v.Z), 1e-9)
		}
	}
}

func TestMesh_NoFloor(t *testing.T) {
	tris, err := Mesh(Scene{})
	require.NoError(t, err)
	assert.Empty(t, tris)
}

func TestWriteSTL(t *testing.T) {
	tris, err := Mesh(Build(models.Plan{}))
	require.NoError(t, err)
	require.Len(t, tris, 2)

	var buf bytes.Buffer
	require.NoError(t, WriteSTL(&buf, "", tris))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "solid plan\n"))
	assert.True(t, strings.HasSuffix(out, "endsolid plan\n"))
	assert.Equal(t, 2, strings.Count(out, "facet normal 0.000000e+00 1.000000e+00 0.000000e+00"))
	assert.Equal(t, 6, strings.Count(out, "vertex "))
	assert.NotContains(t, out, "-0.000000e+00")
}
