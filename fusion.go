// Package main - fusion.go
//
// This file combines the color and text detection signals into ranked click
// candidates. Neither signal is reliable alone: HSV masking fires on any
// blue rectangle, and OCR misses small anti-aliased labels more often than
// it hits. The fusion layers four independent policies, each compensating
// for a failure mode of the others:
//
//   1. Color-confirmed-by-text: a blue region whose padded crop re-OCRs to
//      the label (very low confidence floor - the region already vouches
//      for itself)
//   2. Text-confirmed-by-color: a text match whose surrounding pixels
//      cluster to a blue dominant color
//   3. Text-only fallback: a text match in a screen area where permission
//      dialogs and terminal banners empirically live
//   4. Pure-color fallback: runs only when 1-3 found nothing; blue regions
//      re-filtered with shape and position heuristics, no OCR at all
//
// Policies run in that order, their outputs are pooled, and a global dedup
// keeps at most 3 candidates separated by at least 30 units on both axes.
//
// The boolean structure of policy 4 ((is_bottom_right OR is_button_shaped)
// AND medium-size gate) was tuned empirically; do not simplify it.
package main

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Blue classification thresholds (RGB space, policy 2)
const (
	blueMinChannel  = 100 // Minimum blue channel value
	blueOverMax     = 20  // Blue must exceed max(r, g) by this much
	blueOverAverage = 30  // Blue must exceed avg(r, g) by this much
)

// Fusion tuning
const (
	regionProbePadding = 5   // Padding around a blue region before re-OCR
	colorSampleRadius  = 20  // Half-size of the box sampled around a text match
	dominantColorCount = 3   // k for dominant color clustering
	menuBarMaxY        = 80  // Text above this is always menu/title bar
	fallbackMinY       = 100 // Color fallback ignores anything above this
	anchorMaxDX        = 240 // Horizontal reach of a contextual anchor
	anchorMaxDY        = 160 // Vertical reach of a contextual anchor
)

// isBlueColor reports whether an RGB color reads as button blue: a strong
// blue channel that clearly dominates both the stronger and the average of
// the other two channels. The third check rejects grayish and purple tones
// that pass the first two.
func isBlueColor(c Color) bool {
	if c.B < blueMinChannel {
		return false
	}
	if int(c.B) < maxInt(int(c.R), int(c.G))+blueOverMax {
		return false
	}
	avgRG := (float64(c.R) + float64(c.G)) / 2
	return float64(c.B) >= avgRG+blueOverAverage
}

// dominantColors clusters the pixels of rect (within img) into k
// representative colors using k-means.
func dominantColors(img *image.RGBA, rect image.Rectangle, k int) []Color {
	rect = rect.Intersect(img.Bounds())
	n := rect.Dx() * rect.Dy()
	if n == 0 {
		return nil
	}
	if k > n {
		k = n
	}

	data := gocv.NewMatWithSize(n, 3, gocv.MatTypeCV32F)
	defer data.Close()

	row := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := img.RGBAAt(x, y)
			data.SetFloatAt(row, 0, float32(c.R))
			data.SetFloatAt(row, 1, float32(c.G))
			data.SetFloatAt(row, 2, float32(c.B))
			row++
		}
	}

	labels := gocv.NewMat()
	defer labels.Close()
	centers := gocv.NewMat()
	defer centers.Close()

	criteria := gocv.NewTermCriteria(gocv.MaxIter|gocv.EPS, 10, 1.0)
	gocv.KMeans(data, k, &labels, criteria, 10, gocv.KMeansRandomCenters, &centers)

	colors := make([]Color, 0, centers.Rows())
	for r := 0; r < centers.Rows(); r++ {
		colors = append(colors, Color{
			R: clampChannel(centers.GetFloatAt(r, 0)),
			G: clampChannel(centers.GetFloatAt(r, 1)),
			B: clampChannel(centers.GetFloatAt(r, 2)),
		})
	}
	return colors
}

func clampChannel(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// isValidTextOnly applies the layout heuristics for text matches with no
// blue confirmation. It encodes where permission dialogs and terminal
// banners actually appear, without modeling the UI:
//
//   - the menu/title bar strip (y < 80) is never valid
//   - proximity to a contextual anchor (nearby banner text) is valid
//   - the lower 65% of the screen is valid
//   - the right 45% is valid once below the top 20%
func isValidTextOnly(p Point, screenW, screenH int, anchors []Point) bool {
	if p.Y < menuBarMaxY {
		return false
	}
	for _, a := range anchors {
		if absInt(a.X-p.X) <= anchorMaxDX && absInt(a.Y-p.Y) <= anchorMaxDY {
			return true
		}
	}
	if p.Y >= int(float64(screenH)*0.35) {
		return true
	}
	if p.X >= int(float64(screenW)*0.55) && p.Y >= int(float64(screenH)*0.2) {
		return true
	}
	return false
}

// FusionInput carries the shared inputs every policy reads
type FusionInput struct {
	ScreenW    int   // Full frame width (capture space)
	ScreenH    int   // Full frame height
	ScanOffset Point // Scan box origin within the frame

	BlueRegions []Bounds // Scan-space blue regions
	TextPoints  []Point  // Frame-space text matches (all spellings, merged)
	Anchors     []Point  // Frame-space contextual anchor points

	// ProbeText re-OCRs a padded scan-space region for any label spelling
	ProbeText func(region Bounds) bool
	// HasBlueNear samples the frame around a frame-space point and reports
	// whether a dominant color there is blue-classified
	HasBlueNear func(p Point) bool
}

// policyColorConfirmedByText emits the center of every blue region whose
// padded neighborhood re-OCRs to the target label.
func policyColorConfirmedByText(in FusionInput) []Candidate {
	if in.ProbeText == nil {
		return nil
	}
	var out []Candidate
	for _, region := range in.BlueRegions {
		if !in.ProbeText(region) {
			continue
		}
		center := region.Center()
		out = append(out, Candidate{
			Point:  Point{X: in.ScanOffset.X + center.X, Y: in.ScanOffset.Y + center.Y},
			Source: SourceColorText,
		})
	}
	return out
}

// policyTextConfirmedByColor splits text matches into blue-confirmed
// candidates and leftovers for the text-only policy.
func policyTextConfirmedByColor(in FusionInput) (confirmed []Candidate, leftover []Point) {
	for _, p := range in.TextPoints {
		if in.HasBlueNear != nil && in.HasBlueNear(p) {
			confirmed = append(confirmed, Candidate{Point: p, Source: SourceTextColor})
		} else {
			leftover = append(leftover, p)
		}
	}
	return confirmed, leftover
}

// policyTextOnly keeps leftover text matches that pass the layout heuristics
func policyTextOnly(in FusionInput, leftover []Point) []Candidate {
	var out []Candidate
	for _, p := range leftover {
		if isValidTextOnly(p, in.ScreenW, in.ScreenH, in.Anchors) {
			out = append(out, Candidate{Point: p, Source: SourceTextOnly})
		}
	}
	return out
}

// policyColorFallback re-filters blue regions with shape and position
// heuristics. Only invoked when every other policy came up empty.
func policyColorFallback(in FusionInput) []Candidate {
	var out []Candidate
	for _, region := range in.BlueRegions {
		globalX := in.ScanOffset.X + region.X
		globalY := in.ScanOffset.Y + region.Y

		// Not in the menu bar area, and not a tiny icon
		if globalY <= fallbackMinY || region.W < 30 || region.H < 15 {
			continue
		}

		isBottomRight := globalX > int(float64(in.ScreenW)*0.6) && globalY > int(float64(in.ScreenH)*0.6)
		aspect := region.AspectRatio()
		isButtonShaped := aspect >= 1.5 && aspect <= 5
		isMediumSize := region.W >= 30 && region.W <= 150 && region.H >= 15 && region.H <= 50

		if (isBottomRight || isButtonShaped) && isMediumSize {
			center := region.Center()
			out = append(out, Candidate{
				Point:  Point{X: in.ScanOffset.X + center.X, Y: in.ScanOffset.Y + center.Y},
				Source: SourceColorOnly,
			})
		}
	}
	return out
}

// FuseCandidates runs the policy chain and returns the deduplicated,
// priority-ordered candidate list (at most maxCandidates entries).
func FuseCandidates(in FusionInput) []Candidate {
	pool := policyColorConfirmedByText(in)

	confirmed, leftover := policyTextConfirmedByColor(in)
	pool = append(pool, confirmed...)
	pool = append(pool, policyTextOnly(in, leftover)...)

	if len(pool) == 0 {
		LogDebug("No fused candidates, trying color fallback")
		pool = policyColorFallback(in)
	}

	return dedupCandidates(pool)
}

// Detector owns the per-session detection pipeline: the OCR engine plus
// the configuration, wired into the fusion policies.
type Detector struct {
	cfg    *Config
	finder *TextFinder
}

// NewDetector creates a detector sharing the session's text finder
func NewDetector(cfg *Config, finder *TextFinder) *Detector {
	return &Detector{cfg: cfg, finder: finder}
}

// FindAllowButtons runs the full detection pipeline on one frame and
// returns up to maxCandidates click candidates in frame coordinates.
func (d *Detector) FindAllowButtons(frame *ScreenImage, cycle int64) ([]Candidate, error) {
	scanBox := ScanRegion(frame.Width, frame.Height, d.cfg.ScanStartXRatio, d.cfg.ScanStartYRatio)
	LogDebug("Scanning region (left=%d, top=%d, w=%d, h=%d)", scanBox.X, scanBox.Y, scanBox.W, scanBox.H)

	scanImg := frame.Crop(scanBox)
	scanMat, err := ImageToMat(scanImg)
	if err != nil {
		return nil, err
	}
	defer scanMat.Close()

	offset := Point{X: scanBox.X, Y: scanBox.Y}

	// Color and text extraction are independent; run them concurrently and
	// let fusion wait on both.
	var (
		wg          sync.WaitGroup
		blueRegions []Bounds
		blueMask    gocv.Mat
		textPoints  []Point
		anchors     []Point
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		blueRegions, blueMask = findBlueRegionsWithMask(scanMat)
	}()
	go func() {
		defer wg.Done()
		textPoints = d.locateLabel(scanMat, offset)
		anchors = offsetPoints(d.finder.FindText(scanMat, d.cfg.AnchorPhrase, d.cfg.AnchorConfidence), offset)
	}()
	wg.Wait()
	defer blueMask.Close()

	LogDebug("Found %d blue regions, %d %q text matches, %d anchors",
		len(blueRegions), len(textPoints), d.cfg.TargetPhrase, len(anchors))

	in := FusionInput{
		ScreenW:     frame.Width,
		ScreenH:     frame.Height,
		ScanOffset:  offset,
		BlueRegions: blueRegions,
		TextPoints:  textPoints,
		Anchors:     anchors,
		ProbeText:   d.regionProbe(scanImg),
		HasBlueNear: d.blueSampler(frame.Img),
	}

	candidates := FuseCandidates(in)
	if len(candidates) > 0 {
		LogDebug("Final candidates: %v", candidates)
	}

	SaveDebugMask(blueMask, cycle)
	SaveDebugFrame(scanMat, blueRegions, offsetCandidatesBack(candidates, offset), cycle)

	return candidates, nil
}

// locateLabel collects text matches for the true label, then retries with
// the known OCR misreadings at a lower confidence floor.
func (d *Detector) locateLabel(scanMat gocv.Mat, offset Point) []Point {
	points := offsetPoints(d.finder.FindText(scanMat, d.cfg.TargetPhrase, d.cfg.TextConfidence), offset)
	for _, variant := range d.cfg.PhraseVariants {
		points = append(points, offsetPoints(d.finder.FindText(scanMat, variant, d.cfg.VariantConfidence), offset)...)
	}
	return points
}

// regionProbe builds the policy-1 closure: crop a padded blue region from
// the scan image and re-OCR it for any label spelling.
func (d *Detector) regionProbe(scanImg *image.RGBA) func(Bounds) bool {
	return func(region Bounds) bool {
		bounds := scanImg.Bounds()
		padded := region.Grow(regionProbePadding, bounds.Dx(), bounds.Dy())
		if padded.W <= 0 || padded.H <= 0 {
			return false
		}

		crop := image.NewRGBA(image.Rect(0, 0, padded.W, padded.H))
		copyRegion(crop, scanImg, padded)

		mat, err := ImageToMat(crop)
		if err != nil {
			return false
		}
		defer mat.Close()

		for _, phrase := range d.cfg.AllPhrases() {
			if len(d.finder.FindText(mat, phrase, d.cfg.ProbeConfidence)) > 0 {
				return true
			}
		}
		return false
	}
}

// blueSampler builds the policy-2 closure: cluster the pixels around a
// frame-space point and check for a blue-classified dominant color.
func (d *Detector) blueSampler(full *image.RGBA) func(Point) bool {
	return func(p Point) bool {
		rect := image.Rect(p.X-colorSampleRadius, p.Y-colorSampleRadius,
			p.X+colorSampleRadius, p.Y+colorSampleRadius)
		for _, c := range dominantColors(full, rect, dominantColorCount) {
			if isBlueColor(c) {
				return true
			}
		}
		return false
	}
}

// offsetPoints shifts scan-space points into frame space
func offsetPoints(points []Point, offset Point) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: offset.X + p.X, Y: offset.Y + p.Y}
	}
	return out
}

// offsetCandidatesBack shifts frame-space candidates into scan space for
// drawing on the scan image.
func offsetCandidatesBack(candidates []Candidate, offset Point) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = Candidate{
			Point:  Point{X: c.Point.X - offset.X, Y: c.Point.Y - offset.Y},
			Source: c.Source,
		}
	}
	return out
}

// copyRegion copies the src pixels covered by b into dst anchored at (0,0)
func copyRegion(dst *image.RGBA, src *image.RGBA, b Bounds) {
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			dst.SetRGBA(x, y, src.RGBAAt(b.X+x, b.Y+y))
		}
	}
}
