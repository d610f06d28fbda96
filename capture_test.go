package main

import (
	"image"
	"testing"
)

func TestScanRegionBottomRight(t *testing.T) {
	b := ScanRegion(2000, 1000, 0.55, 0.4)
	if b.X != 1100 || b.Y != 400 {
		t.Errorf("origin = (%d, %d), want (1100, 400)", b.X, b.Y)
	}
	if b.W != 900 || b.H != 600 {
		t.Errorf("size = (%d, %d), want (900, 600)", b.W, b.H)
	}
}

func TestScanRegionFallsBackWhenTooNarrow(t *testing.T) {
	// 0.55 of 100 leaves 45 columns, under the minimum
	b := ScanRegion(100, 1000, 0.55, 0.4)
	if b.X != 0 || b.Y != 0 || b.W != 100 || b.H != 1000 {
		t.Errorf("expected full-frame fallback, got %+v", b)
	}
}

func TestScanRegionFallsBackWhenTooShort(t *testing.T) {
	b := ScanRegion(2000, 80, 0.55, 0.4)
	if b.X != 0 || b.Y != 0 || b.W != 2000 || b.H != 80 {
		t.Errorf("expected full-frame fallback, got %+v", b)
	}
}

func TestScanRegionZeroRatios(t *testing.T) {
	b := ScanRegion(800, 600, 0, 0)
	if b.X != 0 || b.Y != 0 || b.W != 800 || b.H != 600 {
		t.Errorf("zero ratios should cover the full frame, got %+v", b)
	}
}

func TestCropCopiesPixels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			src.Pix[src.PixOffset(x, y)] = uint8(x)
		}
	}
	frame := &ScreenImage{Img: src, Width: 100, Height: 100}

	crop := frame.Crop(Bounds{X: 40, Y: 40, W: 20, H: 20})
	if got := crop.Bounds(); got.Min.X != 0 || got.Min.Y != 0 || got.Dx() != 20 || got.Dy() != 20 {
		t.Fatalf("crop bounds = %v, want (0,0)-(20,20)", got)
	}
	if crop.Pix[crop.PixOffset(0, 0)] != 40 {
		t.Errorf("crop origin pixel = %d, want 40", crop.Pix[crop.PixOffset(0, 0)])
	}

	// Mutating the crop must not touch the source
	crop.Pix[crop.PixOffset(0, 0)] = 255
	if src.Pix[src.PixOffset(40, 40)] == 255 {
		t.Error("crop aliases the source image")
	}
}
