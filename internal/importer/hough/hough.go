// Package hough is the OpenCV line detector for raster floor plans.
package hough

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"

	"gocv.io/x/gocv"

	"structify/internal/importer/detector"
)

// Params tunes the edge and line extraction.
type Params struct {
	Width, Height int
	BlurKernel    int
	CannyLow      float32
	CannyHigh     float32
	Rho           float32
	Theta         float32
	Threshold     int
	MinLineLength float32
	MaxLineGap    float32
}

func DefaultParams() Params {
	return Params{
		Width:         detector.CanvasWidth,
		Height:        detector.CanvasHeight,
		BlurKernel:    5,
		CannyLow:      50,
		CannyHigh:     150,
		Rho:           1,
		Theta:         math.Pi / 180,
		Threshold:     50,
		MinLineLength: 50,
		MaxLineGap:    10,
	}
}

type Detector struct {
	params Params
}

// Init checks that the OpenCV runtime is usable and returns a ready detector.
// It is meant to be handed to detector.Load.
func Init(params Params) func(context.Context) (detector.Detector, error) {
	return func(ctx context.Context) (detector.Detector, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		version := gocv.OpenCVVersion()
		if version == "" {
			return nil, fmt.Errorf("opencv runtime unavailable")
		}

		probe := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8U)
		defer probe.Close()
		if probe.Empty() {
			return nil, fmt.Errorf("opencv allocation failed")
		}

		log.Printf("[HOUGH] OpenCV %s ready", version)
		return &Detector{params: params}, nil
	}
}

// Detect fits the raster into the analysis canvas and returns HoughLinesP segments in
// canvas pixels.
func (d *Detector) Detect(ctx context.Context, raster []byte) ([]detector.Segment, error) {
	img, format, err := detector.Decode(raster)
	if err != nil {
		return nil, err
	}
	canvas := detector.FitCanvas(img, d.params.Width, d.params.Height)

	src, err := gocv.ImageToMatRGBA(canvas)
	if err != nil {
		return nil, fmt.Errorf("load canvas: %w", err)
	}
	defer src.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorRGBAToGray)

	k := d.params.BlurKernel
	gocv.GaussianBlur(gray, &gray, image.Point{X: k, Y: k}, 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, d.params.CannyLow, d.params.CannyHigh)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines,
		d.params.Rho, d.params.Theta, d.params.Threshold,
		d.params.MinLineLength, d.params.MaxLineGap)

	segs := make([]detector.Segment, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		v := lines.GetVeciAt(i, 0)
		if len(v) < 4 {
			return nil, fmt.Errorf("malformed line %d: %d values", i, len(v))
		}
		segs = append(segs, detector.Segment{
			X1: float64(v[0]),
			Y1: float64(v[1]),
			X2: float64(v[2]),
			Y2: float64(v[3]),
		})
	}

	log.Printf("[HOUGH] %s %dx%d -> %d segments", format, img.Bounds().Dx(), img.Bounds().Dy(), len(segs))
	return segs, nil
}
