package svg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"structify/internal/plan/models"
)

const (
	margin         = 20.0
	emptySide      = 1000.0
	doorSwing      = 15.0
	doorDot        = 5.0
	windowSize     = 10.0
	strokeWall     = 2.0
	colorWall      = "#000"
	colorDoor      = "#4caf50"
	colorWindow    = "#2196f3"
	colorWindowMrk = "#fff"
)

// ============================================================
// Renderer
// ============================================================

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render writes the plan as a standalone SVG document in model units. Walls carry ids of
// the form Wall_N so the document can be imported back.
func (r *Renderer) Render(p models.Plan) (string, error) {
	for i, w := range p.Walls {
		if !w.Finite() {
			return "", fmt.Errorf("wall %d has non-finite coordinates", i)
		}
	}
	for i, d := range p.Doors {
		if !d.Finite() {
			return "", fmt.Errorf("door %d has non-finite coordinates", i)
		}
	}
	for i, w := range p.Windows {
		if !w.Finite() {
			return "", fmt.Errorf("window %d has non-finite coordinates", i)
		}
	}

	minX, minY, width, height := r.viewBox(p)

	var elements []string
	elements = append(elements, r.renderWalls(p.Walls)...)
	elements = append(elements, r.renderDoors(p.Doors)...)
	elements = append(elements, r.renderWindows(p.Windows)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(width), formatFloat(height),
		formatFloat(minX), formatFloat(minY), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Sizing
// ============================================================

// viewBox covers every element plus a margin. An empty plan gets a square centered on
// the origin.
func (r *Renderer) viewBox(p models.Plan) (minX, minY, width, height float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY := -math.MaxFloat64, -math.MaxFloat64

	grow := func(pt models.Point, pad float64) {
		minX = math.Min(minX, pt.X-pad)
		minY = math.Min(minY, pt.Y-pad)
		maxX = math.Max(maxX, pt.X+pad)
		maxY = math.Max(maxY, pt.Y+pad)
	}
	for _, w := range p.Walls {
		grow(w.Start, 0)
		grow(w.End, 0)
	}
	for _, d := range p.Doors {
		grow(d.Position, doorSwing)
	}
	for _, w := range p.Windows {
		grow(w.Position, windowSize)
	}

	if minX == math.MaxFloat64 {
		return -emptySide / 2, -emptySide / 2, emptySide, emptySide
	}

	return minX - margin, minY - margin, maxX - minX + 2*margin, maxY - minY + 2*margin
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderWalls(walls []models.Wall) []string {
	out := make([]string, 0, len(walls))
	for i, w := range walls {
		out = append(out, fmt.Sprintf(`<line id="Wall_%d" class="wall" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" />`,
			i, formatFloat(w.Start.X), formatFloat(w.Start.Y), formatFloat(w.End.X), formatFloat(w.End.Y),
			colorWall, formatFloat(strokeWall)))
	}
	return out
}

func (r *Renderer) renderDoors(doors []models.Door) []string {
	out := make([]string, 0, len(doors))
	for i, d := range doors {
		start := d.Rotation
		if d.Direction == models.DirectionOutside {
			start += math.Pi
		}
		from := polar(d.Position, doorSwing, start)
		to := polar(d.Position, doorSwing, start+math.Pi)

		var g strings.Builder
		g.WriteString(fmt.Sprintf(`<g id="Door_%d" class="door" data-direction="%s">`, i, d.Direction))
		g.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" fill="%s" />`,
			formatFloat(d.Position.X), formatFloat(d.Position.Y), formatFloat(doorDot), colorDoor))
		g.WriteString(fmt.Sprintf(`<path d="M %s A %s %s 0 0 1 %s" fill="none" stroke="%s" stroke-width="%s" />`,
			formatPoint(from), formatFloat(doorSwing), formatFloat(doorSwing), formatPoint(to),
			colorDoor, formatFloat(strokeWall)))
		g.WriteString(`</g>`)
		out = append(out, g.String())
	}
	return out
}

func (r *Renderer) renderWindows(windows []models.Window) []string {
	const half = windowSize / 2

	out := make([]string, 0, len(windows))
	for i, w := range windows {
		var g strings.Builder
		g.WriteString(fmt.Sprintf(`<g id="Window_%d" class="window" transform="translate(%s) rotate(%s)">`,
			i, formatPoint(w.Position), formatFloat(w.Rotation*180/math.Pi)))
		g.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="%s" />`,
			formatFloat(-half), formatFloat(-half), formatFloat(windowSize), formatFloat(windowSize), colorWindow))
		g.WriteString(fmt.Sprintf(`<path d="M %s 0 L %s 0 M 0 %s L 0 %s" stroke="%s" stroke-width="1" />`,
			formatFloat(-half), formatFloat(half), formatFloat(-half), formatFloat(half), colorWindowMrk))
		g.WriteString(`</g>`)
		out = append(out, g.String())
	}
	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func polar(c models.Point, r, angle float64) models.Point {
	return models.Point{X: c.X + r*math.Cos(angle), Y: c.Y + r*math.Sin(angle)}
}

func formatFloat(val float64) string {
	// keep documents stable against float noise from trig
	val = math.Round(val*1e6) / 1e6
	if val == 0 {
		val = 0 // no "-0"
	}
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
