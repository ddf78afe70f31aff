// Package tool interprets pointer gestures for the active drawing tool.
//
// A Session is a plain value: every handler takes the current session and
// returns the next one, so the drawing start point and the preview marker
// never live in shared mutable state. The geometry model is only mutated at
// pointer-up for walls and at pointer-down for doors and windows.
package tool

import (
	"math"

	"structify/internal/plan/model"
	"structify/internal/plan/models"
	"structify/internal/plan/snap"
)

const (
	// MinWallLength rejects gestures that are really clicks: walls must be strictly longer.
	MinWallLength = 5.0
	// SelectRadius is the hit radius around a door for the select tool.
	SelectRadius = 20.0

	DefaultDoorWidth   = 40.0
	DefaultWindowWidth = 40.0
)

// ============================================================
// States
// ============================================================

// State is either Idle or Drawing.
type State interface {
	isState()
}

type Idle struct{}

// Drawing is an in-progress wall anchored at Start.
type Drawing struct {
	Start models.Point
}

func (Idle) isState()    {}
func (Drawing) isState() {}

type Session struct {
	Tool  models.Tool
	State State
}

func NewSession(t models.Tool) Session {
	return Session{Tool: t, State: Idle{}}
}

// Drawing returns the provisional wall start while a wall is being drawn.
func (s Session) Drawing() (models.Point, bool) {
	d, ok := s.State.(Drawing)
	return d.Start, ok
}

// ============================================================
// Outcomes & previews
// ============================================================

type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWallAdded
	OutcomeWallRejected
	OutcomeDoorAdded
	OutcomeWindowAdded
	OutcomePlacementSkipped
	OutcomeDoorToggled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWallAdded:
		return "wall added"
	case OutcomeWallRejected:
		return "wall rejected"
	case OutcomeDoorAdded:
		return "door added"
	case OutcomeWindowAdded:
		return "window added"
	case OutcomePlacementSkipped:
		return "placement skipped"
	case OutcomeDoorToggled:
		return "door toggled"
	}
	return "none"
}

// Preview is what the canvas should draw on top of the model after a pointer move.
type Preview struct {
	Segment *models.Wall  // wall being drawn, start to (snapped) cursor
	Snap    *models.Point // vertex snap marker
	OnWall  *snap.WallSnap
}

// ============================================================
// Transitions
// ============================================================

// Switch activates another tool. An unfinished wall is discarded.
func Switch(s Session, t models.Tool) Session {
	return NewSession(t)
}

// Down handles pointer-down at model-space point p.
func Down(s Session, m *model.Model, p models.Point) (Session, Outcome) {
	switch s.Tool {
	case models.ToolWall:
		if _, drawing := s.Drawing(); drawing {
			return s, OutcomeNone
		}
		return Session{Tool: s.Tool, State: Drawing{Start: p}}, OutcomeNone

	case models.ToolDoor, models.ToolWindow:
		hit, ok := snap.FindWallSnap(p, m.Walls())
		if !ok {
			return s, OutcomePlacementSkipped
		}
		if s.Tool == models.ToolDoor {
			if !m.AppendDoor(models.Door{
				Position:  hit.Point,
				Rotation:  hit.Rotation,
				Width:     DefaultDoorWidth,
				Direction: models.DirectionInside,
			}) {
				return s, OutcomePlacementSkipped
			}
			return s, OutcomeDoorAdded
		}
		if !m.AppendWindow(models.Window{
			Position: hit.Point,
			Rotation: hit.Rotation,
			Width:    DefaultWindowWidth,
		}) {
			return s, OutcomePlacementSkipped
		}
		return s, OutcomeWindowAdded

	case models.ToolSelect:
		if i := hitDoor(m.Doors(), p); i >= 0 && m.ToggleDoorDirection(i) {
			return s, OutcomeDoorToggled
		}
	}
	return s, OutcomeNone
}

// Move handles pointer-move. It never mutates the model.
func Move(s Session, walls []models.Wall, p models.Point) (Session, Preview) {
	var pv Preview

	switch s.Tool {
	case models.ToolWall:
		end, snapped := snap.FindSnapPoint(p, walls)
		if snapped {
			pv.Snap = &end
		}
		if start, ok := s.Drawing(); ok {
			pv.Segment = &models.Wall{Start: start, End: end}
		}

	case models.ToolDoor, models.ToolWindow:
		if hit, ok := snap.FindWallSnap(p, walls); ok {
			pv.OnWall = &hit
		}
	}
	return s, pv
}

// Up handles pointer-up. A wall gesture always ends back in Idle, whether the wall was
// kept or not.
func Up(s Session, m *model.Model, p models.Point) (Session, Outcome) {
	start, ok := s.Drawing()
	if !ok {
		return s, OutcomeNone
	}
	next := NewSession(s.Tool)

	end, _ := snap.FindSnapPoint(p, m.Walls())
	wall := models.Wall{Start: start, End: end}
	if !wall.Finite() {
		return next, OutcomeWallRejected
	}
	if d := wall.Length(); !(d > MinWallLength) || math.IsInf(d, 0) {
		return next, OutcomeWallRejected
	}
	if !m.AppendWall(wall) {
		return next, OutcomeWallRejected
	}
	return next, OutcomeWallAdded
}

// hitDoor returns the first door within SelectRadius of p, or -1.
func hitDoor(doors []models.Door, p models.Point) int {
	for i, d := range doors {
		if d.Position.Distance(p) < SelectRadius {
			return i
		}
	}
	return -1
}
