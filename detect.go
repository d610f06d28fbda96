// Package main - detect.go
//
// This file implements blue button region detection using OpenCV HSV color
// matching.
//
// Algorithm:
//   1. Convert the scan image to HSV
//   2. Build two inclusive hue-range masks: standard blues (H 100-130) and
//      lighter blues (H 90-140, looser S/V floor) to catch flat button
//      styles, then union them
//   3. Morphological close followed by open with a 2x2 kernel - small enough
//      to keep small buttons intact while stripping single-pixel noise
//   4. Find external contours and keep bounding boxes that look like
//      buttons: width 20-300, height 10-80, aspect ratio 0.8-8, and contour
//      area >= 100 (the area gate rejects thin noise that passes the box
//      filter)
//
// Every rejected contour is a silent filter; no detection miss here is
// fatal because OCR and the fallback policies cover the gaps.
package main

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Blue HSV ranges (OpenCV convention: H 0-180, S/V 0-255)
var (
	lowerBlue1 = gocv.NewScalar(100, 50, 50, 0)
	upperBlue1 = gocv.NewScalar(130, 255, 255, 0)

	// Lighter blues, like flat editor buttons
	lowerBlue2 = gocv.NewScalar(90, 30, 80, 0)
	upperBlue2 = gocv.NewScalar(140, 255, 255, 0)
)

// Button box filters
const (
	blueMinWidth    = 20
	blueMaxWidth    = 300
	blueMinHeight   = 10
	blueMaxHeight   = 80
	blueMinAspect   = 0.8
	blueMaxAspect   = 8.0
	blueMinArea     = 100.0
	morphKernelSize = 2
)

// ImageToMat converts a captured RGBA frame to a Mat for detection.
// The caller owns the returned Mat and must Close it.
func ImageToMat(img *image.RGBA) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("failed to convert frame: %w", err)
	}
	return mat, nil
}

// FindBlueRegions returns bounding boxes of button-shaped blue regions in
// the given image, in scan-space coordinates. Deterministic for a given
// input and mask parameters.
func FindBlueRegions(mat gocv.Mat) []Bounds {
	regions, mask := findBlueRegionsWithMask(mat)
	mask.Close()
	return regions
}

// findBlueRegionsWithMask additionally hands back the cleaned mask so debug
// mode can dump it. The caller must Close the mask.
func findBlueRegionsWithMask(mat gocv.Mat) ([]Bounds, gocv.Mat) {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)

	mask1 := gocv.NewMat()
	defer mask1.Close()
	gocv.InRangeWithScalar(hsv, lowerBlue1, upperBlue1, &mask1)

	mask2 := gocv.NewMat()
	defer mask2.Close()
	gocv.InRangeWithScalar(hsv, lowerBlue2, upperBlue2, &mask2)

	combined := gocv.NewMat()
	defer combined.Close()
	gocv.BitwiseOr(mask1, mask2, &combined)

	// Small kernel: close pinholes inside buttons, then open away speckle
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(morphKernelSize, morphKernelSize))
	defer kernel.Close()

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(combined, &closed, gocv.MorphClose, kernel)

	mask := gocv.NewMat()
	gocv.MorphologyEx(closed, &mask, gocv.MorphOpen, kernel)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var regions []Bounds
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		rect := gocv.BoundingRect(contour)
		area := gocv.ContourArea(contour)

		w := rect.Dx()
		h := rect.Dy()
		if !isButtonBox(w, h, area) {
			continue
		}

		regions = append(regions, Bounds{X: rect.Min.X, Y: rect.Min.Y, W: w, H: h})
		LogDebug("Found blue region: (%d, %d) size %dx%d, area %.0f", rect.Min.X, rect.Min.Y, w, h, area)
	}

	return regions, mask
}

// isButtonBox applies the size, aspect and area filters to a contour's
// bounding box.
func isButtonBox(w, h int, area float64) bool {
	if w < blueMinWidth || w > blueMaxWidth || h < blueMinHeight || h > blueMaxHeight {
		return false
	}
	aspect := float64(w) / float64(h)
	if aspect < blueMinAspect || aspect > blueMaxAspect {
		return false
	}
	return area >= blueMinArea
}
