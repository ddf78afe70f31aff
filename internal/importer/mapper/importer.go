package mapper

import (
	"context"
	"errors"
	"fmt"
	"log"

	"structify/internal/importer/detector"
	"structify/internal/plan/model"
	"structify/internal/plan/models"
)

// ErrDetectorFailed wraps every failure coming from the line detector: errors, panics and
// malformed output. Failed imports are reported to the caller and never retried.
var ErrDetectorFailed = errors.New("line detector failed")

// Result is delivered by ImportAsync.
type Result struct {
	Walls    []models.Wall
	Segments int
	Err      error
}

// ============================================================
// Importer
// ============================================================

type Importer struct {
	loader *detector.Loader
	mapper *Mapper
}

func NewImporter(loader *detector.Loader, m *Mapper) *Importer {
	if m == nil {
		m = New(DefaultConfig())
	}
	return &Importer{loader: loader, mapper: m}
}

func (i *Importer) Mapper() *Mapper {
	return i.mapper
}

// Ready is closed once the detector has finished initializing.
func (i *Importer) Ready() <-chan struct{} {
	return i.loader.Done()
}

// Detect waits for the detector and runs it, returning its raw segments.
func (i *Importer) Detect(ctx context.Context, raster []byte) ([]detector.Segment, error) {
	segs, _, err := i.detect(ctx, raster)
	return segs, err
}

// Import blocks until detection is complete and returns the mapped walls. Segments from a
// detector that reports its own canvas are mapped against that canvas.
func (i *Importer) Import(ctx context.Context, raster []byte) ([]models.Wall, error) {
	segs, m, err := i.detect(ctx, raster)
	if err != nil {
		log.Printf("[IMPORT] %v", err)
		return nil, err
	}
	walls := m.Map(segs)
	log.Printf("[IMPORT] %d segments mapped", len(segs))
	return walls, nil
}

func (i *Importer) detect(ctx context.Context, raster []byte) ([]detector.Segment, *Mapper, error) {
	det, err := i.loader.Wait(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrDetectorFailed, err)
	}

	segs, canvas, err := safeDetect(ctx, det, raster)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrDetectorFailed, err)
	}
	for n, s := range segs {
		if !s.Finite() {
			return nil, nil, fmt.Errorf("%w: segment %d has non-finite coordinates", ErrDetectorFailed, n)
		}
	}
	return segs, i.mapper.WithCanvas(float64(canvas.Width), float64(canvas.Height)), nil
}

// ImportAsync runs Import on its own goroutine. The channel receives exactly one Result
// and is then closed.
func (i *Importer) ImportAsync(ctx context.Context, raster []byte) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		walls, err := i.Import(ctx, raster)
		out <- Result{Walls: walls, Segments: len(walls), Err: err}
	}()
	return out
}

// Apply appends imported walls to m and returns how many were committed. Zero-length
// walls are refused by the model itself.
func Apply(m *model.Model, walls []models.Wall) int {
	return m.AppendWalls(walls)
}

func safeDetect(ctx context.Context, det detector.Detector, raster []byte) (segs []detector.Segment, canvas detector.Canvas, err error) {
	defer func() {
		if r := recover(); r != nil {
			segs, canvas, err = nil, detector.Canvas{}, fmt.Errorf("panic: %v", r)
		}
	}()
	if cd, ok := det.(detector.CanvasDetector); ok {
		return cd.DetectCanvas(ctx, raster)
	}
	segs, err = det.Detect(ctx, raster)
	return segs, detector.Canvas{}, err
}
