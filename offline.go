// Package main - offline.go
//
// This file implements offline detection: running the full pipeline against
// a saved screenshot instead of a live capture. Used for tuning the
// detection thresholds against collected failure cases without sitting in
// front of a screen, and by --test --image in scripts.
//
// The annotated output (result.png) draws the scan region, every blue
// region, and the final candidates, in the same style as the live debug
// dumps.
package main

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"
	"time"
)

// LoadScreenImage reads a PNG or JPEG file into the capture format
func LoadScreenImage(path string) (*ScreenImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &ScreenImage{
		Img:        rgba,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		CapturedAt: time.Now(),
	}, nil
}

// DetectImage runs the detection pipeline on a saved screenshot and writes
// an annotated copy next to it. Returns the candidates found.
func DetectImage(cfg *Config, path string) ([]Candidate, error) {
	frame, err := LoadScreenImage(path)
	if err != nil {
		return nil, err
	}
	LogInfo("Loaded %s (%dx%d)", path, frame.Width, frame.Height)

	finder, err := NewTextFinder()
	if err != nil {
		return nil, fmt.Errorf("init text finder: %w", err)
	}
	defer finder.Close()

	detector := NewDetector(cfg, finder)
	candidates, err := detector.FindAllowButtons(frame, 0)
	if err != nil {
		return nil, err
	}

	for i, c := range candidates {
		LogInfo("Candidate %d: %v (%s)", i+1, c.Point, c.Source)
	}
	if len(candidates) == 0 {
		LogInfo("No candidates found in %s", path)
	}

	if err := writeAnnotated(frame, cfg, candidates, "result.png"); err != nil {
		LogWarn("Failed to write annotated image: %v", err)
	}

	return candidates, nil
}

// writeAnnotated draws the scan box and candidate markers on a copy of the
// frame and saves it as PNG.
func writeAnnotated(frame *ScreenImage, cfg *Config, candidates []Candidate, path string) error {
	out := image.NewRGBA(frame.Img.Bounds())
	draw.Draw(out, out.Bounds(), frame.Img, image.Point{}, draw.Src)

	scanBox := ScanRegion(frame.Width, frame.Height, cfg.ScanStartXRatio, cfg.ScanStartYRatio)
	drawRect(out, scanBox, Color{R: 255, G: 255, B: 0})

	for _, c := range candidates {
		marker := Bounds{X: c.Point.X - 8, Y: c.Point.Y - 8, W: 16, H: 16}
		drawRect(out, marker, Color{R: 0, G: 255, B: 0})
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, out); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	LogInfo("Annotated detection saved to %s", path)
	return nil
}

// drawRect draws a 2px rectangle outline clamped to the image bounds
func drawRect(img *image.RGBA, b Bounds, c Color) {
	rgba := colorToRGBA(c)
	bounds := img.Bounds()
	for t := 0; t < 2; t++ {
		for x := b.X; x <= b.X+b.W; x++ {
			setClamped(img, bounds, x, b.Y+t, rgba)
			setClamped(img, bounds, x, b.Y+b.H-t, rgba)
		}
		for y := b.Y; y <= b.Y+b.H; y++ {
			setClamped(img, bounds, b.X+t, y, rgba)
			setClamped(img, bounds, b.X+b.W-t, y, rgba)
		}
	}
}

func setClamped(img *image.RGBA, bounds image.Rectangle, x, y int, c [4]uint8) {
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	i := img.PixOffset(x, y)
	img.Pix[i] = c[0]
	img.Pix[i+1] = c[1]
	img.Pix[i+2] = c[2]
	img.Pix[i+3] = c[3]
}

func colorToRGBA(c Color) [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, 255}
}
