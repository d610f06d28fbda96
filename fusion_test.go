package main

import (
	"testing"
)

func TestIsBlueColor(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		want bool
	}{
		{"typical button blue", Color{R: 0, G: 122, B: 255}, true},
		{"deep blue", Color{R: 30, G: 60, B: 200}, true},
		{"weak blue channel", Color{R: 10, G: 10, B: 99}, false},
		{"gray", Color{R: 128, G: 128, B: 128}, false},
		{"white", Color{R: 255, G: 255, B: 255}, false},
		{"cyan leaning", Color{R: 0, G: 200, B: 210}, false},
		{"purple", Color{R: 180, G: 40, B: 190}, false},
		{"red", Color{R: 220, G: 30, B: 30}, false},
		{"blue barely dominant", Color{R: 100, G: 100, B: 119}, false},
		{"blue clearly dominant", Color{R: 100, G: 100, B: 135}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBlueColor(tt.c); got != tt.want {
				t.Errorf("isBlueColor(%+v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestIsBlueColorBoundaries(t *testing.T) {
	// Blue channel floor
	if isBlueColor(Color{R: 0, G: 0, B: 99}) {
		t.Error("b=99 should fail the channel floor")
	}
	if !isBlueColor(Color{R: 0, G: 0, B: 100}) {
		t.Error("b=100 with dark r/g should pass")
	}
	// Must beat max(r, g) by 20
	if isBlueColor(Color{R: 120, G: 0, B: 139}) {
		t.Error("b only 19 over r should fail")
	}
	// Must beat avg(r, g) by 30 even when it clears max(r, g)+20
	if isBlueColor(Color{R: 100, G: 105, B: 130}) {
		t.Error("b under avg+30 should fail")
	}
}

func TestIsValidTextOnly(t *testing.T) {
	const w, h = 1200, 800
	tests := []struct {
		name    string
		p       Point
		anchors []Point
		want    bool
	}{
		{"menu bar strip", Point{50, 40}, nil, false},
		{"menu bar even with anchor", Point{600, 70}, []Point{{620, 90}}, false},
		{"lower screen half", Point{300, 500}, nil, true},
		{"exactly at lower threshold", Point{300, 280}, nil, true},
		{"upper-left, no anchor", Point{100, 150}, nil, false},
		{"upper-left near anchor", Point{100, 150}, []Point{{200, 200}}, true},
		{"anchor too far horizontally", Point{100, 150}, []Point{{400, 150}}, false},
		{"anchor too far vertically", Point{100, 150}, []Point{{100, 340}}, false},
		{"right side below top strip", Point{700, 170}, nil, true},
		{"right side inside top strip", Point{700, 120}, nil, false},
		{"left side above lower half", Point{300, 200}, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidTextOnly(tt.p, w, h, tt.anchors); got != tt.want {
				t.Errorf("isValidTextOnly(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolicyColorConfirmedByText(t *testing.T) {
	regions := []Bounds{
		{X: 100, Y: 200, W: 80, H: 40},
		{X: 400, Y: 300, W: 60, H: 30},
	}
	in := FusionInput{
		ScanOffset:  Point{1100, 400},
		BlueRegions: regions,
		ProbeText: func(b Bounds) bool {
			return b.X == 100 // only the first region OCRs to the label
		},
	}
	out := policyColorConfirmedByText(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	want := Point{1100 + 140, 400 + 220}
	if out[0].Point != want {
		t.Errorf("candidate at %v, want %v", out[0].Point, want)
	}
	if out[0].Source != SourceColorText {
		t.Errorf("source = %v, want %v", out[0].Source, SourceColorText)
	}
}

func TestPolicyTextConfirmedByColor(t *testing.T) {
	points := []Point{{500, 600}, {800, 700}}
	in := FusionInput{
		TextPoints: points,
		HasBlueNear: func(p Point) bool {
			return p.X == 500
		},
	}
	confirmed, leftover := policyTextConfirmedByColor(in)
	if len(confirmed) != 1 || confirmed[0].Point != (Point{500, 600}) {
		t.Fatalf("confirmed = %v", confirmed)
	}
	if confirmed[0].Source != SourceTextColor {
		t.Errorf("source = %v, want %v", confirmed[0].Source, SourceTextColor)
	}
	if len(leftover) != 1 || leftover[0] != (Point{800, 700}) {
		t.Fatalf("leftover = %v", leftover)
	}
}

func TestPolicyColorFallbackSteelBlueButton(t *testing.T) {
	// An 80x40 steel-blue rectangle in the scan region that OCR missed:
	// button-shaped (aspect 2) and medium-sized, so the fallback keeps it.
	in := FusionInput{
		ScreenW:     2000,
		ScreenH:     1000,
		ScanOffset:  Point{1100, 400},
		BlueRegions: []Bounds{{X: 200, Y: 150, W: 80, H: 40}},
	}
	out := policyColorFallback(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 fallback candidate, got %d", len(out))
	}
	want := Point{1100 + 240, 400 + 170}
	if out[0].Point != want {
		t.Errorf("candidate at %v, want %v", out[0].Point, want)
	}
	if out[0].Source != SourceColorOnly {
		t.Errorf("source = %v, want %v", out[0].Source, SourceColorOnly)
	}
}

func TestPolicyColorFallbackRejections(t *testing.T) {
	base := FusionInput{ScreenW: 2000, ScreenH: 1000, ScanOffset: Point{0, 0}}

	tests := []struct {
		name   string
		region Bounds
	}{
		{"menu bar area", Bounds{X: 1500, Y: 50, W: 80, H: 40}},
		{"too narrow", Bounds{X: 500, Y: 500, W: 25, H: 40}},
		{"too short", Bounds{X: 500, Y: 500, W: 80, H: 12}},
		{"too wide for medium size", Bounds{X: 500, Y: 500, W: 200, H: 40}},
		{"too tall for medium size", Bounds{X: 500, Y: 500, W: 80, H: 60}},
		{"square and not bottom-right", Bounds{X: 100, Y: 300, W: 40, H: 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.BlueRegions = []Bounds{tt.region}
			if out := policyColorFallback(in); len(out) != 0 {
				t.Errorf("expected rejection, got %v", out)
			}
		})
	}
}

func TestPolicyColorFallbackBottomRightSquare(t *testing.T) {
	// A square region fails the shape test but passes via bottom-right
	// position, as long as it stays medium-sized.
	in := FusionInput{
		ScreenW:     2000,
		ScreenH:     1000,
		ScanOffset:  Point{0, 0},
		BlueRegions: []Bounds{{X: 1500, Y: 700, W: 40, H: 40}},
	}
	out := policyColorFallback(in)
	if len(out) != 1 {
		t.Fatalf("expected bottom-right square to pass, got %d candidates", len(out))
	}
}

func TestFuseCandidatesFallbackOnlyWhenEmpty(t *testing.T) {
	region := Bounds{X: 200, Y: 150, W: 80, H: 40}
	in := FusionInput{
		ScreenW:     2000,
		ScreenH:     1000,
		ScanOffset:  Point{1100, 400},
		BlueRegions: []Bounds{region},
		TextPoints:  []Point{{1600, 900}},
		ProbeText:   func(Bounds) bool { return false },
		HasBlueNear: func(Point) bool { return true },
	}

	// Text-confirmed candidate exists, so the color fallback must not fire
	out := FuseCandidates(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	if out[0].Source != SourceTextColor {
		t.Errorf("source = %v, want %v", out[0].Source, SourceTextColor)
	}

	// Remove the text signal; now the same region surfaces via fallback
	in.TextPoints = nil
	out = FuseCandidates(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 fallback candidate, got %d", len(out))
	}
	if out[0].Source != SourceColorOnly {
		t.Errorf("source = %v, want %v", out[0].Source, SourceColorOnly)
	}
}

func TestFuseCandidatesPriorityOrder(t *testing.T) {
	// One blue region confirmed by text and one text-confirmed point,
	// far enough apart to both survive dedup; the color+text one must
	// come first.
	in := FusionInput{
		ScreenW:     2000,
		ScreenH:     1000,
		ScanOffset:  Point{0, 0},
		BlueRegions: []Bounds{{X: 200, Y: 300, W: 80, H: 40}},
		TextPoints:  []Point{{900, 800}},
		ProbeText:   func(Bounds) bool { return true },
		HasBlueNear: func(Point) bool { return true },
	}
	out := FuseCandidates(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}
	if out[0].Source != SourceColorText || out[1].Source != SourceTextColor {
		t.Errorf("order = [%v, %v], want [color+text, text+blue-area]", out[0].Source, out[1].Source)
	}
}

func TestFuseCandidatesDedupAcrossPolicies(t *testing.T) {
	// The same physical button found by both policy 1 and policy 2 must
	// collapse into a single candidate, keeping the policy-1 entry.
	in := FusionInput{
		ScreenW:     2000,
		ScreenH:     1000,
		ScanOffset:  Point{1100, 400},
		BlueRegions: []Bounds{{X: 200, Y: 150, W: 80, H: 40}}, // center (1340, 570)
		TextPoints:  []Point{{1345, 575}},
		ProbeText:   func(Bounds) bool { return true },
		HasBlueNear: func(Point) bool { return true },
	}
	out := FuseCandidates(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 deduplicated candidate, got %d", len(out))
	}
	if out[0].Source != SourceColorText {
		t.Errorf("source = %v, want %v", out[0].Source, SourceColorText)
	}
}

func TestOffsetPoints(t *testing.T) {
	out := offsetPoints([]Point{{10, 20}, {30, 40}}, Point{100, 200})
	if out[0] != (Point{110, 220}) || out[1] != (Point{130, 240}) {
		t.Errorf("offsetPoints = %v", out)
	}
}
