// Package main - capture.go
//
// This file handles screen capture and scan region selection.
//
// Key Responsibilities:
//   - Full-screen capture of the primary display (kbinani/screenshot)
//   - ScreenImage frame container with capture timestamp
//   - Scan region computation: permission dialogs and terminal banners
//     cluster in the bottom-right of the screen, so detection is restricted
//     to that area to bound OCR cost and false positives
//
// Capture vs Screen Size:
// On high-density displays the captured frame is larger than the logical
// screen. The frame records its own dimensions; coordinate scaling back to
// screen-space happens in action.go at click time.
package main

import (
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/kbinani/screenshot"
)

// minScanDimension is the smallest usable scan box edge; anything smaller
// degrades to a full-screen scan rather than scanning nothing useful.
const minScanDimension = 50

// ScreenImage is one captured frame, owned by a single monitoring cycle
type ScreenImage struct {
	Img        *image.RGBA
	Width      int
	Height     int
	CapturedAt time.Time
}

// CaptureScreen captures the primary display
func CaptureScreen() (*ScreenImage, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return nil, fmt.Errorf("no active displays found")
	}

	bounds := screenshot.GetDisplayBounds(0)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to capture screen: %w", err)
	}

	return &ScreenImage{
		Img:        img,
		Width:      img.Bounds().Dx(),
		Height:     img.Bounds().Dy(),
		CapturedAt: time.Now(),
	}, nil
}

// CaptureRegion captures a sub-rectangle of the primary display; used by
// the permission self-check, which only needs a tiny probe capture.
func CaptureRegion(b Bounds) (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(b.Rect())
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %w", err)
	}
	return img, nil
}

// ScanRegion computes the bottom-right scan box for a frame of the given
// size. The box is anchored at (width*xRatio, height*yRatio) and extends to
// the bottom-right corner. Degenerate results (either edge shorter than
// minScanDimension) fall back to the full frame.
func ScanRegion(width, height int, xRatio, yRatio float64) Bounds {
	if width <= 0 || height <= 0 {
		return Bounds{X: 0, Y: 0, W: width, H: height}
	}

	left := minInt(width-1, maxInt(0, int(float64(width)*xRatio)))
	top := minInt(height-1, maxInt(0, int(float64(height)*yRatio)))

	if width-left < minScanDimension || height-top < minScanDimension {
		return Bounds{X: 0, Y: 0, W: width, H: height}
	}

	return Bounds{X: left, Y: top, W: width - left, H: height - top}
}

// Crop copies the sub-rectangle covered by b into a fresh image anchored at
// (0,0). Copying keeps downstream Mat conversions free of sub-image offsets.
func (si *ScreenImage) Crop(b Bounds) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, b.W, b.H))
	draw.Draw(out, out.Bounds(), si.Img, image.Pt(b.X, b.Y), draw.Src)
	return out
}
