package models

import (
	"encoding/json"
	"fmt"
	"math"
)

// UnitsPerMeter is the model-space scale shared by the 2D preview and the 3D scene.
const UnitsPerMeter = 50.0

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Finite() bool {
	return finite(p.X) && finite(p.Y)
}

func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

type Wall struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

func (w Wall) Finite() bool {
	return w.Start.Finite() && w.End.Finite()
}

// Degenerate reports a zero-length wall.
func (w Wall) Degenerate() bool {
	return w.Start == w.End
}

func (w Wall) Length() float64 {
	return w.Start.Distance(w.End)
}

// ============================================================
// Openings
// ============================================================

type Direction string

const (
	DirectionInside  Direction = "inside"
	DirectionOutside Direction = "outside"
)

func (d Direction) Toggle() Direction {
	if d == DirectionInside {
		return DirectionOutside
	}
	return DirectionInside
}

type Door struct {
	Position  Point     `json:"position"`
	Rotation  float64   `json:"rotation"`
	Width     float64   `json:"width"`
	Direction Direction `json:"direction"`
}

func (d Door) Finite() bool {
	return d.Position.Finite() && finite(d.Rotation) && finite(d.Width)
}

type Window struct {
	Position Point   `json:"position"`
	Rotation float64 `json:"rotation"`
	Width    float64 `json:"width"`
}

func (w Window) Finite() bool {
	return w.Position.Finite() && finite(w.Rotation) && finite(w.Width)
}

// ============================================================
// Tools
// ============================================================

type Tool string

const (
	ToolSelect Tool = "select"
	ToolWall   Tool = "wall"
	ToolDoor   Tool = "door"
	ToolWindow Tool = "window"
)

func ParseTool(s string) (Tool, error) {
	switch t := Tool(s); t {
	case ToolSelect, ToolWall, ToolDoor, ToolWindow:
		return t, nil
	}
	return "", fmt.Errorf("unknown tool %q", s)
}

// ============================================================
// Plan & Project
// ============================================================

// Plan holds the three geometry collections of a floor plan.
type Plan struct {
	Walls   []Wall   `json:"walls"`
	Doors   []Door   `json:"doors"`
	Windows []Window `json:"windows"`
}

// Normalize replaces absent collections with empty ones.
func (p *Plan) Normalize() {
	if p.Walls == nil {
		p.Walls = []Wall{}
	}
	if p.Doors == nil {
		p.Doors = []Door{}
	}
	if p.Windows == nil {
		p.Windows = []Window{}
	}
}

func (p *Plan) UnmarshalJSON(data []byte) error {
	type raw Plan
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*p = Plan(r)
	p.Normalize()
	return nil
}

// Project is the persisted and transmitted form of a plan.
type Project struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Plan
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (p *Project) UnmarshalJSON(data []byte) error {
	var head struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var plan Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return err
	}
	*p = Project{
		ID:        head.ID,
		Name:      head.Name,
		Plan:      plan,
		CreatedAt: head.CreatedAt,
		UpdatedAt: head.UpdatedAt,
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
