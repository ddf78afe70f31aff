// Package detector defines the line-detector boundary used by the image
// importer: a raster goes in, raw pixel-space segments come out.
package detector

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Analysis canvas used by the raster detectors. Segment coordinates are
// reported in this pixel space, origin top-left.
const (
	CanvasWidth  = 1200
	CanvasHeight = 900
)

var ErrNotReady = errors.New("detector not ready")

// Segment is one detected line, (X1, Y1)-(X2, Y2), in analysis-canvas pixels.
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (s Segment) Finite() bool {
	for _, v := range [4]float64{s.X1, s.Y1, s.X2, s.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Detector extracts straight segments from an encoded raster. Implementations block until
// the analysis is complete.
type Detector interface {
	Detect(ctx context.Context, raster []byte) ([]Segment, error)
}

// Canvas is the analysis raster size a batch of segments refers to.
type Canvas struct {
	Width  int
	Height int
}

// CanvasDetector also reports the canvas its segments were measured on, for detectors
// configured elsewhere (a remote service).
type CanvasDetector interface {
	Detector
	DetectCanvas(ctx context.Context, raster []byte) ([]Segment, Canvas, error)
}

// ============================================================
// Loader
// ============================================================

// Loader is the handle for a detector whose initialization runs in the background.
// Callers Wait on it before issuing requests.
type Loader struct {
	done chan struct{}
	det  Detector
	err  error
}

// Load starts init on its own goroutine.
func Load(ctx context.Context, init func(context.Context) (Detector, error)) *Loader {
	l := &Loader{done: make(chan struct{})}
	go func() {
		defer close(l.done)
		defer func() {
			if r := recover(); r != nil {
				l.err = fmt.Errorf("detector init panic: %v", r)
			}
		}()
		l.det, l.err = init(ctx)
		if l.err == nil && l.det == nil {
			l.err = ErrNotReady
		}
	}()
	return l
}

// Ready wraps a detector that needs no initialization.
func Ready(d Detector) *Loader {
	l := &Loader{done: make(chan struct{}), det: d}
	if d == nil {
		l.err = ErrNotReady
	}
	close(l.done)
	return l
}

// Done is closed once initialization has finished, successfully or not.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the detector is initialized or ctx ends.
func (l *Loader) Wait(ctx context.Context) (Detector, error) {
	select {
	case <-l.done:
		if l.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotReady, l.err)
		}
		return l.det, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
