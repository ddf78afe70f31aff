package detector

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// fitRatio leaves a margin around the plan so edge walls are not cut by the border.
const fitRatio = 0.95

// Decode decodes png, jpeg, gif, bmp, tiff and webp rasters.
func Decode(raster []byte) (image.Image, string, error) {
	if len(raster) == 0 {
		return nil, "", fmt.Errorf("empty raster")
	}
	img, format, err := image.Decode(bytes.NewReader(raster))
	if err != nil {
		return nil, "", fmt.Errorf("decode raster: %w", err)
	}
	return img, format, nil
}

// FitCanvas paints img onto a white width×height canvas, scaled to 95% of the limiting
// dimension with its aspect ratio kept, and centered.
func FitCanvas(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return dst
	}

	scale, offX, offY := fitRect(float64(b.Dx()), float64(b.Dy()), float64(width), float64(height))
	drawW := float64(b.Dx()) * scale
	drawH := float64(b.Dy()) * scale
	target := image.Rect(int(offX), int(offY), int(offX+drawW), int(offY+drawH))

	draw.CatmullRom.Scale(dst, target, img, b, draw.Over, nil)
	return dst
}

// fitRect returns the uniform scale and offsets that fit a srcW×srcH box into a
// dstW×dstH canvas at fitRatio, centered.
func fitRect(srcW, srcH, dstW, dstH float64) (scale, offX, offY float64) {
	if srcW <= 0 || srcH <= 0 {
		return 1, 0, 0
	}
	if srcW/srcH > dstW/dstH {
		scale = dstW * fitRatio / srcW
	} else {
		scale = dstH * fitRatio / srcH
	}
	offX = (dstW - srcW*scale) / 2
	offY = (dstH - srcH*scale) / 2
	return scale, offX, offY
}
