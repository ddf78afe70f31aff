// Package mapper turns raw detector segments into model-space walls.
//
// Detector output lives in the analysis canvas (origin top-left, pixels);
// model space is centered on the drawing surface. The mapper re-centers each
// endpoint by half the canvas and multiplies by a fixed scale, one wall per
// segment, in the detector's order. It never merges, dedups or filters.
package mapper

import (
	"structify/internal/importer/detector"
	"structify/internal/plan/models"
)

// DefaultScale maps analysis pixels to model units so that imported plans come out at
// the renderers' 50-units-per-meter scale.
const DefaultScale = 0.4

// ============================================================
// Configuration
// ============================================================

type Config struct {
	CanvasWidth  float64
	CanvasHeight float64
	Scale        float64
}

func DefaultConfig() Config {
	return Config{
		CanvasWidth:  detector.CanvasWidth,
		CanvasHeight: detector.CanvasHeight,
		Scale:        DefaultScale,
	}
}

// ============================================================
// Mapper
// ============================================================

type Mapper struct {
	cfg Config
}

func New(cfg Config) *Mapper {
	def := DefaultConfig()
	if cfg.CanvasWidth <= 0 {
		cfg.CanvasWidth = def.CanvasWidth
	}
	if cfg.CanvasHeight <= 0 {
		cfg.CanvasHeight = def.CanvasHeight
	}
	if cfg.Scale <= 0 {
		cfg.Scale = def.Scale
	}
	return &Mapper{cfg: cfg}
}

func (m *Mapper) Config() Config {
	return m.cfg
}

// WithCanvas returns a mapper with the same scale for segments measured on a width×height
// canvas. Non-positive sizes keep the current canvas.
func (m *Mapper) WithCanvas(width, height float64) *Mapper {
	cfg := m.cfg
	if width > 0 && height > 0 {
		cfg.CanvasWidth, cfg.CanvasHeight = width, height
	}
	return &Mapper{cfg: cfg}
}

// MapPoint converts one analysis-canvas pixel position to model space.
func (m *Mapper) MapPoint(px, py float64) models.Point {
	return models.Point{
		X: (px - m.cfg.CanvasWidth/2) * m.cfg.Scale,
		Y: (py - m.cfg.CanvasHeight/2) * m.cfg.Scale,
	}
}

func (m *Mapper) MapSegment(s detector.Segment) models.Wall {
	return models.Wall{
		Start: m.MapPoint(s.X1, s.Y1),
		End:   m.MapPoint(s.X2, s.Y2),
	}
}

// Map returns one wall per segment, in order.
func (m *Mapper) Map(segs []detector.Segment) []models.Wall {
	walls := make([]models.Wall, len(segs))
	for i, s := range segs {
		walls[i] = m.MapSegment(s)
	}
	return walls
}
