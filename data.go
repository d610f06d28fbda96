// Package main - data.go
//
// This file defines core data structures used throughout the clicker application.
// It provides geometric primitives, detection results, and screen information.
//
// Major Data Categories:
//
// 1. Geometric Types:
//    - Point: 2D capture-space coordinates with distance calculations
//    - Bounds: Rectangles with center/size/containment operations
//
// 2. Detection Results:
//    - CandidateSource: Which fusion policy produced a candidate
//    - Candidate: A fused button-center estimate with its provenance
//
// 3. Screen Information:
//    - ScreenInfo: Physical screen resolution used for capture-to-screen scaling
//
// Coordinate Spaces:
// Capture-space is pixel coordinates inside a captured frame; on high-density
// displays it can be larger than screen-space, the coordinates the pointer
// interface expects. Candidates stay in capture-space until the click path
// rescales them (see action.go).
//
// Thread Safety:
// All types here are value types and should be copied when shared.
package main

import (
	"fmt"
	"image"
	"math"
)

// Point represents a 2D coordinate in capture space.
//
// Used for:
//   - OCR match centers
//   - Blue-region centers
//   - Click targets before screen-space scaling
type Point struct {
	X int
	Y int
}

// NewPoint creates a new Point
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Distance calculates Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Near reports whether the other point lies within dist units on BOTH axes.
// This is the box-distance test used by all deduplication passes.
func (p Point) Near(other Point, dist int) bool {
	return absInt(p.X-other.X) < dist && absInt(p.Y-other.Y) < dist
}

// String formats the point for logging
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Bounds represents a rectangular area
type Bounds struct {
	X int // Top-left X coordinate
	Y int // Top-left Y coordinate
	W int // Width
	H int // Height
}

// NewBounds creates a new Bounds
func NewBounds(x, y, w, h int) Bounds {
	return Bounds{X: x, Y: y, W: w, H: h}
}

// Center returns the center point of the bounds
func (b Bounds) Center() Point {
	return Point{
		X: b.X + b.W/2,
		Y: b.Y + b.H/2,
	}
}

// Size returns the area of the bounds
func (b Bounds) Size() int {
	return b.W * b.H
}

// Contains checks if a point is within the bounds
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.W &&
		p.Y >= b.Y && p.Y <= b.Y+b.H
}

// Grow expands the bounds by padding in all directions, clamped to the
// enclosing width and height.
func (b Bounds) Grow(padding, maxW, maxH int) Bounds {
	x1 := maxInt(0, b.X-padding)
	y1 := maxInt(0, b.Y-padding)
	x2 := minInt(maxW, b.X+b.W+padding)
	y2 := minInt(maxH, b.Y+b.H+padding)
	return Bounds{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// AspectRatio returns width/height, or 0 for degenerate heights
func (b Bounds) AspectRatio() float64 {
	if b.H == 0 {
		return 0
	}
	return float64(b.W) / float64(b.H)
}

// Rect converts the bounds to an image.Rectangle
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// CandidateSource identifies the fusion policy that produced a candidate
type CandidateSource int

const (
	SourceColorText CandidateSource = iota // Blue region confirmed by nearby text
	SourceTextColor                        // Text match confirmed by nearby blue sampling
	SourceTextOnly                         // Text match accepted by layout heuristics alone
	SourceColorOnly                        // Blue region accepted by fallback shape heuristics
)

// String returns the string representation of the source
func (s CandidateSource) String() string {
	switch s {
	case SourceColorText:
		return "color+text"
	case SourceTextColor:
		return "text+blue-area"
	case SourceTextOnly:
		return "text-only"
	case SourceColorOnly:
		return "color-fallback"
	default:
		return "unknown"
	}
}

// Candidate represents a fused button-center estimate in capture space
type Candidate struct {
	Point  Point
	Source CandidateSource
}

// dedupSeparation is the box distance two candidates must keep to survive
// the global dedup pass; maxCandidates caps how many are ever returned.
const (
	dedupSeparation = 30
	maxCandidates   = 3
)

// dedupCandidates keeps candidates in generation order, dropping any whose
// point sits within dedupSeparation units (on both axes) of an already-kept
// point, and caps the result at maxCandidates.
//
// The pass is idempotent: running it on its own output returns the same list.
func dedupCandidates(candidates []Candidate) []Candidate {
	var unique []Candidate
	for _, c := range candidates {
		keep := true
		for _, existing := range unique {
			if c.Point.Near(existing.Point, dedupSeparation) {
				keep = false
				break
			}
		}
		if keep {
			unique = append(unique, c)
		}
	}
	if len(unique) > maxCandidates {
		unique = unique[:maxCandidates]
	}
	return unique
}

// dedupPoints drops points within dist units (both axes) of an earlier point
func dedupPoints(points []Point, dist int) []Point {
	var unique []Point
	for _, p := range points {
		keep := true
		for _, existing := range unique {
			if p.Near(existing, dist) {
				keep = false
				break
			}
		}
		if keep {
			unique = append(unique, p)
		}
	}
	return unique
}

// Color represents an RGB color
type Color struct {
	R uint8
	G uint8
	B uint8
}

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ScreenInfo holds physical screen resolution information
type ScreenInfo struct {
	Width  int
	Height int
}

// ScalePoint converts a capture-space point to screen-space using the ratio
// between the physical screen size and the capture size. Retina and other
// high-density captures are larger than the logical screen, so a 1:1 mapping
// would click past the intended target.
func (si ScreenInfo) ScalePoint(p Point, captureW, captureH int) Point {
	if captureW <= 0 || captureH <= 0 {
		return p
	}
	scaleX := float64(si.Width) / float64(captureW)
	scaleY := float64(si.Height) / float64(captureH)
	return Point{
		X: int(float64(p.X) * scaleX),
		Y: int(float64(p.Y) * scaleY),
	}
}

// absInt returns absolute value of an integer
func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// maxInt returns the maximum of two integers
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// minInt returns the minimum of two integers
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
