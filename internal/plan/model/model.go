// Package model holds the in-memory floor plan edited by the tool state
// machine and extended by the image importer.
//
// The model is owned by a single event loop; it does no locking. Every
// mutation is synchronous and applied in call order. Malformed input
// (non-finite coordinates, zero-length walls) is refused without touching
// the collections and reported through the boolean result.
package model

import (
	"structify/internal/plan/models"
)

type Model struct {
	walls   []models.Wall
	doors   []models.Door
	windows []models.Window
}

func New() *Model {
	return &Model{}
}

// FromPlan hydrates a model from a loaded plan. Malformed plans yield an empty model
// and false.
func FromPlan(p models.Plan) (*Model, bool) {
	m := New()
	ok := m.ReplaceAll(p)
	return m, ok
}

// ============================================================
// Read access
// ============================================================

func (m *Model) Walls() []models.Wall {
	return append([]models.Wall{}, m.walls...)
}

func (m *Model) Doors() []models.Door {
	return append([]models.Door{}, m.doors...)
}

func (m *Model) Windows() []models.Window {
	return append([]models.Window{}, m.windows...)
}

// Plan returns a snapshot of all three collections.
func (m *Model) Plan() models.Plan {
	return models.Plan{
		Walls:   m.Walls(),
		Doors:   m.Doors(),
		Windows: m.Windows(),
	}
}

// Len returns the number of walls, doors and windows.
func (m *Model) Len() (walls, doors, windows int) {
	return len(m.walls), len(m.doors), len(m.windows)
}

// ============================================================
// Mutations
// ============================================================

func (m *Model) AppendWall(w models.Wall) bool {
	if !validWall(w) {
		return false
	}
	m.walls = append(m.walls, w)
	return true
}

// AppendWalls appends each acceptable wall in order and returns how many were committed.
func (m *Model) AppendWalls(walls []models.Wall) int {
	n := 0
	for _, w := range walls {
		if m.AppendWall(w) {
			n++
		}
	}
	return n
}

func (m *Model) AppendDoor(d models.Door) bool {
	if !d.Finite() {
		return false
	}
	if d.Direction != models.DirectionOutside {
		d.Direction = models.DirectionInside
	}
	m.doors = append(m.doors, d)
	return true
}

func (m *Model) AppendWindow(w models.Window) bool {
	if !w.Finite() {
		return false
	}
	m.windows = append(m.windows, w)
	return true
}

// ReplaceAll swaps in a whole plan. Either every element is accepted or nothing changes.
func (m *Model) ReplaceAll(p models.Plan) bool {
	for _, w := range p.Walls {
		if !validWall(w) {
			return false
		}
	}
	for _, d := range p.Doors {
		if !d.Finite() {
			return false
		}
	}
	for _, w := range p.Windows {
		if !w.Finite() {
			return false
		}
	}

	m.walls = append([]models.Wall{}, p.Walls...)
	m.doors = make([]models.Door, 0, len(p.Doors))
	for _, d := range p.Doors {
		if d.Direction != models.DirectionOutside {
			d.Direction = models.DirectionInside
		}
		m.doors = append(m.doors, d)
	}
	m.windows = append([]models.Window{}, p.Windows...)
	return true
}

// Clear empties the plan.
func (m *Model) Clear() {
	m.walls = nil
	m.doors = nil
	m.windows = nil
}

// ToggleDoorDirection flips the swing of door i. Nothing else about the door changes.
func (m *Model) ToggleDoorDirection(i int) bool {
	if i < 0 || i >= len(m.doors) {
		return false
	}
	m.doors[i].Direction = m.doors[i].Direction.Toggle()
	return true
}

// RemoveWall deletes wall i. Doors and windows placed on it are kept.
func (m *Model) RemoveWall(i int) bool {
	if i < 0 || i >= len(m.walls) {
		return false
	}
	m.walls = append(m.walls[:i:i], m.walls[i+1:]...)
	return true
}

func validWall(w models.Wall) bool {
	return w.Finite() && !w.Degenerate()
}
