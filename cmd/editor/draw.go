package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"structify/internal/plan/models"
	"structify/internal/render/preview"
)

var (
	palette = preview.DefaultPalette()

	// 1x1 white source for DrawTriangles
	whitePixel = func() *ebiten.Image {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}()
)

const (
	arcSteps = 24
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(palette.Background)

	m := g.editor.Model()
	for _, w := range m.Walls() {
		g.line(screen, w.Start, w.End, 2, palette.Wall)
	}
	for _, d := range m.Doors() {
		g.drawDoor(screen, d)
	}
	for _, w := range m.Windows() {
		g.drawWindow(screen, w)
	}

	pv := g.editor.Preview()
	if pv.Segment != nil {
		g.line(screen, pv.Segment.Start, pv.Segment.End, 2, palette.Wall)
	}
	if pv.Snap != nil {
		cx, cy := g.toScreen(*pv.Snap)
		vector.DrawFilledCircle(screen, cx, cy, 5, palette.Snap, true)
	}
	if pv.OnWall != nil {
		cx, cy := g.toScreen(pv.OnWall.Point)
		vector.StrokeCircle(screen, cx, cy, 6, 1, palette.Snap, true)
	}

	walls, doors, windows := m.Len()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"[1] select [2] wall [3] door [4] window [C] clear [Ctrl+S] save [I] import\ntool: %s | walls %d doors %d windows %d | %s",
		g.editor.Session().Tool, walls, doors, windows, g.status), 8, 8)
}

func (g *Game) toScreen(p models.Point) (float32, float32) {
	return float32(p.X + float64(g.width)/2), float32(p.Y + float64(g.height)/2)
}

func (g *Game) line(dst *ebiten.Image, a, b models.Point, width float32, clr color.Color) {
	x0, y0 := g.toScreen(a)
	x1, y1 := g.toScreen(b)
	vector.StrokeLine(dst, x0, y0, x1, y1, width, clr, true)
}

// drawDoor draws the hinge dot and the half-circle swing; outside doors swing the other way.
func (g *Game) drawDoor(dst *ebiten.Image, d models.Door) {
	cx, cy := g.toScreen(d.Position)
	vector.DrawFilledCircle(dst, cx, cy, 5, palette.Door, true)

	start := d.Rotation
	if d.Direction == models.DirectionOutside {
		start += math.Pi
	}
	prev := polar(d.Position, 15, start)
	for i := 1; i <= arcSteps; i++ {
		next := polar(d.Position, 15, start+math.Pi*float64(i)/arcSteps)
		g.line(dst, prev, next, 2, palette.Door)
		prev = next
	}
}

func (g *Game) drawWindow(dst *ebiten.Image, w models.Window) {
	const half = 5.0
	sin, cos := math.Sincos(w.Rotation)
	local := func(x, y float64) models.Point {
		return models.Point{X: w.Position.X + x*cos - y*sin, Y: w.Position.Y + x*sin + y*cos}
	}

	corners := []models.Point{local(-half, -half), local(half, -half), local(half, half), local(-half, half)}
	g.fillPolygon(dst, corners, palette.Window)
	g.line(dst, local(-half, 0), local(half, 0), 1, palette.WindowMark)
	g.line(dst, local(0, -half), local(0, half), 1, palette.WindowMark)
}

func (g *Game) fillPolygon(dst *ebiten.Image, pts []models.Point, clr color.Color) {
	var path vector.Path
	x, y := g.toScreen(pts[0])
	path.MoveTo(x, y)
	for _, p := range pts[1:] {
		x, y = g.toScreen(p)
		path.LineTo(x, y)
	}
	path.Close()

	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, gr, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(gr) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	dst.DrawTriangles(vs, is, whitePixel, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func polar(c models.Point, r, angle float64) models.Point {
	return models.Point{X: c.X + r*math.Cos(angle), Y: c.Y + r*math.Sin(angle)}
}
