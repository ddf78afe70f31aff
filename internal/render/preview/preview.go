// Package preview rasterizes a floor plan the way the editor canvas shows it:
// model space origin at the image center, walls as 2px strokes, doors with
// their swing arc, windows as small rotated squares.
package preview

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/gogpu/gg"

	"structify/internal/plan/models"
)

const (
	DefaultWidth  = 1200
	DefaultHeight = 900
	MaxSide       = 4096

	wallWidth    = 2.0
	doorDot      = 5.0
	doorSwing    = 15.0
	windowSize   = 10.0
	snapMarker   = 5.0
	windowStroke = 1.0
)

type Options struct {
	Width   int
	Height  int
	Palette Palette
	Snap    *models.Point // highlighted snap marker, if any
}

func (o Options) withDefaults() (Options, error) {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 || o.Width > MaxSide || o.Height > MaxSide {
		return o, fmt.Errorf("preview size %dx%d out of range", o.Width, o.Height)
	}
	if o.Palette == (Palette{}) {
		o.Palette = DefaultPalette()
	}
	return o, nil
}

// Render draws p and returns the image.
func Render(p models.Plan, opts Options) (image.Image, error) {
	dc, err := draw(p, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// EncodePNG draws p and writes it as PNG.
func EncodePNG(w io.Writer, p models.Plan, opts Options) error {
	dc, err := draw(p, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func draw(p models.Plan, opts Options) (*gg.Context, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	pal := opts.Palette

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.ClearWithColor(gg.FromColor(pal.Background))
	dc.Translate(float64(opts.Width)/2, float64(opts.Height)/2)

	dc.SetLineWidth(wallWidth)
	dc.SetColor(pal.Wall)
	for _, w := range p.Walls {
		dc.DrawLine(w.Start.X, w.Start.Y, w.End.X, w.End.Y)
		if err := dc.Stroke(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("stroke wall: %w", err)
		}
	}

	for _, d := range p.Doors {
		if err := drawDoor(dc, d, pal); err != nil {
			dc.Close()
			return nil, err
		}
	}

	for _, w := range p.Windows {
		if err := drawWindow(dc, w, pal); err != nil {
			dc.Close()
			return nil, err
		}
	}

	if opts.Snap != nil {
		dc.SetColor(pal.Snap)
		dc.DrawCircle(opts.Snap.X, opts.Snap.Y, snapMarker)
		if err := dc.Fill(); err != nil {
			dc.Close()
			return nil, fmt.Errorf("fill snap marker: %w", err)
		}
	}
	return dc, nil
}

// drawDoor draws the hinge dot and a half-circle swing starting at the wall angle, flipped
// for doors opening outside.
func drawDoor(dc *gg.Context, d models.Door, pal Palette) error {
	dc.SetColor(pal.Door)
	dc.DrawCircle(d.Position.X, d.Position.Y, doorDot)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill door: %w", err)
	}

	start := d.Rotation
	if d.Direction == models.DirectionOutside {
		start += math.Pi
	}
	dc.SetLineWidth(wallWidth)
	dc.DrawArc(d.Position.X, d.Position.Y, doorSwing, start, start+math.Pi)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke door swing: %w", err)
	}
	return nil
}

func drawWindow(dc *gg.Context, w models.Window, pal Palette) error {
	const half = windowSize / 2

	dc.Push()
	defer dc.Pop()
	dc.Translate(w.Position.X, w.Position.Y)
	dc.Rotate(w.Rotation)

	dc.SetColor(pal.Window)
	dc.DrawRectangle(-half, -half, windowSize, windowSize)
	if err := dc.Fill(); err != nil {
		return fmt.Errorf("fill window: %w", err)
	}

	dc.SetColor(pal.WindowMark)
	dc.SetLineWidth(windowStroke)
	dc.DrawLine(-half, 0, half, 0)
	dc.DrawLine(0, -half, 0, half)
	if err := dc.Stroke(); err != nil {
		return fmt.Errorf("stroke window: %w", err)
	}
	return nil
}
