package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structify/internal/plan/models"
)

func wall(x1, y1, x2, y2 float64) models.Wall {
	return models.Wall{Start: models.Point{X: x1, Y: y1}, End: models.Point{X: x2, Y: y2}}
}

func TestAppendWall_RejectsMalformed(t *testing.T) {
	m := New()

	assert.True(t, m.AppendWall(wall(0, 0, 10, 0)))
	assert.False(t, m.AppendWall(wall(5, 5, 5, 5)), "zero-length wall")
	assert.False(t, m.AppendWall(wall(math.NaN(), 0, 10, 0)))
	assert.False(t, m.AppendWall(wall(0, 0, math.Inf(-1), 0)))

	assert.Equal(t, []models.Wall{wall(0, 0, 10, 0)}, m.Walls())
}

func TestAppendWalls_KeepsOrderAndCountsCommitted(t *testing.T) {
	m := New()
	n := m.AppendWalls([]models.Wall{
		wall(0, 0, 10, 0),
		wall(1, 1, 1, 1),
		wall(10, 0, 10, 10),
	})

	assert.Equal(t, 2, n)
	assert.Equal(t, []models.Wall{wall(0, 0, 10, 0), wall(10, 0, 10, 10)}, m.Walls())
}

func TestReadersReturnCopies(t *testing.T) {
	m := New()
	m.AppendWall(wall(0, 0, 10, 0))

	walls := m.Walls()
	walls[0].End.X = 99

	assert.Equal(t, 10.0, m.Walls()[0].End.X)
}

func TestAppendDoor_NormalizesDirection(t *testing.T) {
	m := New()
	require.True(t, m.AppendDoor(models.Door{Position: models.Point{X: 1}, Width: 40}))
	require.True(t, m.AppendDoor(models.Door{Position: models.Point{X: 2}, Width: 40, Direction: models.DirectionOutside}))
	assert.False(t, m.AppendDoor(models.Door{Position: models.Point{X: math.NaN()}}))

	doors := m.Doors()
	require.Len(t, doors, 2)
	assert.Equal(t, models.DirectionInside, doors[0].Direction)
	assert.Equal(t, models.DirectionOutside, doors[1].Direction)
}

func TestReplaceAll_IsAtomic(t *testing.T) {
	m := New()
	m.AppendWall(wall(0, 0, 10, 0))

	bad := models.Plan{
		Walls: []models.Wall{wall(0, 0, 50, 0), wall(3, 3, 3, 3)},
	}
	assert.False(t, m.ReplaceAll(bad))
	assert.Equal(t, []models.Wall{wall(0, 0, 10, 0)}, m.Walls())

	good := models.Plan{
		Walls:   []models.Wall{wall(0, 0, 50, 0)},
		Doors:   []models.Door{{Position: models.Point{X: 25}, Width: 40, Direction: "sideways"}},
		Windows: []models.Window{{Position: models.Point{X: 10}, Width: 40}},
	}
	require.True(t, m.ReplaceAll(good))
	walls, doors, windows := m.Len()
	assert.Equal(t, 1, walls)
	assert.Equal(t, 1, doors)
	assert.Equal(t, 1, windows)
	assert.Equal(t, models.DirectionInside, m.Doors()[0].Direction)
}

func TestFromPlan(t *testing.T) {
	m, ok := FromPlan(models.Plan{Walls: []models.Wall{wall(0, 0, 0, 20)}})
	require.True(t, ok)
	assert.Len(t, m.Walls(), 1)

	m, ok = FromPlan(models.Plan{Walls: []models.Wall{wall(0, 0, 0, 0)}})
	assert.False(t, ok)
	assert.Empty(t, m.Walls())
}

func TestClear(t *testing.T) {
	m := New()
	m.AppendWall(wall(0, 0, 10, 0))
	m.AppendDoor(models.Door{Width: 40})
	m.AppendWindow(models.Window{Width: 40})

	m.Clear()

	walls, doors, windows := m.Len()
	assert.Zero(t, walls+doors+windows)
	assert.Empty(t, m.Plan().Walls)
}

func TestToggleDoorDirection_OnlyFlipsDirection(t *testing.T) {
	m := New()
	door := models.Door{Position: models.Point{X: 50}, Rotation: 0.5, Width: 40, Direction: models.DirectionInside}
	require.True(t, m.AppendDoor(door))

	require.True(t, m.ToggleDoorDirection(0))
	got := m.Doors()[0]
	assert.Equal(t, models.DirectionOutside, got.Direction)
	got.Direction = models.DirectionInside
	assert.Equal(t, door, got)

	require.True(t, m.ToggleDoorDirection(0))
	assert.Equal(t, door, m.Doors()[0])

	assert.False(t, m.ToggleDoorDirection(1))
	assert.False(t, m.ToggleDoorDirection(-1))
}

func TestRemoveWall_LeavesOrphanedDoor(t *testing.T) {
	m := New()
	m.AppendWall(wall(0, 0, 100, 0))
	m.AppendWall(wall(100, 0, 100, 100))
	m.AppendDoor(models.Door{Position: models.Point{X: 50}, Width: 40})

	require.True(t, m.RemoveWall(0))

	assert.Equal(t, []models.Wall{wall(100, 0, 100, 100)}, m.Walls())
	assert.Len(t, m.Doors(), 1, "orphaned door after wall deletion is allowed")
	assert.False(t, m.RemoveWall(5))
}
