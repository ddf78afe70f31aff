package detector

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================
// XML Structures
// ============================================================

type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	ViewBox string   `xml:"viewBox,attr"`
	svgGroup
}

type svgGroup struct {
	Rects  []svgRect  `xml:"rect"`
	Paths  []svgPath  `xml:"path"`
	Lines  []svgLine  `xml:"line"`
	Groups []svgGroup `xml:"g"`
	ID     string     `xml:"id,attr"`
	Class  string     `xml:"class,attr"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	Class  string  `xml:"class,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID    string `xml:"id,attr"`
	Class string `xml:"class,attr"`
	D     string `xml:"d,attr"`
}

type svgLine struct {
	ID    string  `xml:"id,attr"`
	Class string  `xml:"class,attr"`
	X1    float64 `xml:"x1,attr"`
	Y1    float64 `xml:"y1,attr"`
	X2    float64 `xml:"x2,attr"`
	Y2    float64 `xml:"y2,attr"`
}

// ============================================================
// SVG Detector
// ============================================================

// SVGDetector reads vector floor plans. Elements tagged as walls (id prefix "Wall_" or
// class "wall", directly or through an enclosing group) are reduced to their center lines
// and fitted into the analysis canvas the same way raster plans are.
type SVGDetector struct {
	Width  int
	Height int
}

func NewSVGDetector() *SVGDetector {
	return &SVGDetector{Width: CanvasWidth, Height: CanvasHeight}
}

func (d *SVGDetector) Detect(ctx context.Context, raster []byte) ([]Segment, error) {
	var doc svgDoc
	if err := xml.NewDecoder(bytes.NewReader(raster)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}

	var segs []Segment
	if err := collectWalls(ctx, doc.svgGroup, false, &segs); err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return segs, nil
	}

	minX, minY, w, h := docBounds(doc, segs)
	scale, offX, offY := fitRect(w, h, float64(d.Width), float64(d.Height))
	for i, s := range segs {
		segs[i] = Segment{
			X1: (s.X1-minX)*scale + offX,
			Y1: (s.Y1-minY)*scale + offY,
			X2: (s.X2-minX)*scale + offX,
			Y2: (s.Y2-minY)*scale + offY,
		}
	}
	return segs, nil
}

func collectWalls(ctx context.Context, g svgGroup, inherited bool, out *[]Segment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	wallGroup := inherited || isWall(g.ID, g.Class)

	for _, r := range g.Rects {
		if wallGroup || isWall(r.ID, r.Class) {
			*out = append(*out, centerLine(r.X, r.Y, r.X+r.Width, r.Y+r.Height))
		}
	}
	for _, l := range g.Lines {
		if wallGroup || isWall(l.ID, l.Class) {
			*out = append(*out, Segment{X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2})
		}
	}
	for _, p := range g.Paths {
		if !wallGroup && !isWall(p.ID, p.Class) {
			continue
		}
		pts, err := tracePath(p.D)
		if err != nil {
			return fmt.Errorf("wall path %q: %w", p.ID, err)
		}
		if len(pts) < 2 {
			return fmt.Errorf("wall path %q: single point", p.ID)
		}
		minX, minY, maxX, maxY := pts[0].x, pts[0].y, pts[0].x, pts[0].y
		for _, v := range pts[1:] {
			minX, maxX = math.Min(minX, v.x), math.Max(maxX, v.x)
			minY, maxY = math.Min(minY, v.y), math.Max(maxY, v.y)
		}
		if minX == maxX && minY == maxY {
			continue
		}
		*out = append(*out, centerLine(minX, minY, maxX, maxY))
	}
	for _, child := range g.Groups {
		if err := collectWalls(ctx, child, wallGroup, out); err != nil {
			return err
		}
	}
	return nil
}

// centerLine reduces a wall outline's bounding box to the segment running along its long
// side, halfway across its thickness.
func centerLine(minX, minY, maxX, maxY float64) Segment {
	w, h := maxX-minX, maxY-minY
	if w >= h {
		mid := minY + h/2
		return Segment{X1: minX, Y1: mid, X2: maxX, Y2: mid}
	}
	mid := minX + w/2
	return Segment{X1: mid, Y1: minY, X2: mid, Y2: maxY}
}

func isWall(id, class string) bool {
	if strings.HasPrefix(id, "Wall_") || strings.HasSuffix(id, "_Wall") {
		return true
	}
	for _, c := range strings.Fields(class) {
		if strings.EqualFold(c, "wall") {
			return true
		}
	}
	return false
}

// docBounds prefers the viewBox, then width/height, then the extent of the walls themselves.
func docBounds(doc svgDoc, segs []Segment) (minX, minY, w, h float64) {
	if vb := parseNumbers(doc.ViewBox); len(vb) == 4 && vb[2] > 0 && vb[3] > 0 {
		return vb[0], vb[1], vb[2], vb[3]
	}
	if w, h := parseLength(doc.Width), parseLength(doc.Height); w > 0 && h > 0 {
		return 0, 0, w, h
	}

	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range segs {
		minX = math.Min(minX, math.Min(s.X1, s.X2))
		minY = math.Min(minY, math.Min(s.Y1, s.Y2))
		maxX = math.Max(maxX, math.Max(s.X1, s.X2))
		maxY = math.Max(maxY, math.Max(s.Y1, s.Y2))
	}
	w, h = maxX-minX, maxY-minY
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return minX, minY, w, h
}

func parseLength(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
