package main

import (
	"testing"
)

func TestPointNear(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		dist int
		want bool
	}{
		{"identical", Point{100, 100}, Point{100, 100}, 30, true},
		{"close both axes", Point{100, 100}, Point{110, 105}, 30, true},
		{"far on x only", Point{100, 100}, Point{150, 105}, 30, false},
		{"far on y only", Point{100, 100}, Point{105, 150}, 30, false},
		{"exactly at distance", Point{100, 100}, Point{130, 100}, 30, false},
		{"one inside distance", Point{100, 100}, Point{129, 100}, 30, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Near(tt.b, tt.dist); got != tt.want {
				t.Errorf("Near(%v, %v, %d) = %v, want %v", tt.a, tt.b, tt.dist, got, tt.want)
			}
		})
	}
}

func TestDedupCandidatesCollapsesNearby(t *testing.T) {
	in := []Candidate{
		{Point: Point{100, 100}, Source: SourceColorText},
		{Point: Point{110, 105}, Source: SourceTextColor},
	}
	out := dedupCandidates(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	if out[0].Point != (Point{100, 100}) {
		t.Errorf("expected the earlier candidate to survive, got %v", out[0].Point)
	}
	if out[0].Source != SourceColorText {
		t.Errorf("expected higher-priority source to survive, got %v", out[0].Source)
	}
}

func TestDedupCandidatesKeepsSeparated(t *testing.T) {
	in := []Candidate{
		{Point: Point{100, 100}},
		{Point: Point{200, 100}},
		{Point: Point{100, 200}},
	}
	out := dedupCandidates(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(out))
	}
}

func TestDedupCandidatesCap(t *testing.T) {
	var in []Candidate
	for i := 0; i < 10; i++ {
		in = append(in, Candidate{Point: Point{X: i * 100, Y: i * 100}})
	}
	out := dedupCandidates(in)
	if len(out) != maxCandidates {
		t.Fatalf("expected cap of %d, got %d", maxCandidates, len(out))
	}
}

func TestDedupCandidatesIdempotent(t *testing.T) {
	in := []Candidate{
		{Point: Point{100, 100}},
		{Point: Point{110, 110}},
		{Point: Point{300, 300}},
		{Point: Point{500, 100}},
		{Point: Point{505, 105}},
	}
	once := dedupCandidates(in)
	twice := dedupCandidates(once)
	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("candidate %d changed on second pass: %v vs %v", i, once[i], twice[i])
		}
	}
}

func TestBoundsCenter(t *testing.T) {
	b := Bounds{X: 10, Y: 20, W: 100, H: 40}
	c := b.Center()
	if c.X != 60 || c.Y != 40 {
		t.Errorf("Center() = %v, want (60, 40)", c)
	}
}

func TestBoundsGrowClamps(t *testing.T) {
	b := Bounds{X: 2, Y: 3, W: 10, H: 10}
	g := b.Grow(5, 100, 100)
	if g.X != 0 || g.Y != 0 {
		t.Errorf("Grow should clamp to origin, got (%d, %d)", g.X, g.Y)
	}
	if g.X+g.W != 17 || g.Y+g.H != 18 {
		t.Errorf("Grow extent wrong: %+v", g)
	}

	b = Bounds{X: 90, Y: 92, W: 8, H: 6}
	g = b.Grow(5, 100, 100)
	if g.X+g.W != 100 || g.Y+g.H != 100 {
		t.Errorf("Grow should clamp to max, got %+v", g)
	}
}

func TestBoundsAspectRatio(t *testing.T) {
	if got := (Bounds{W: 80, H: 40}).AspectRatio(); got != 2.0 {
		t.Errorf("AspectRatio = %v, want 2.0", got)
	}
	if got := (Bounds{W: 80, H: 0}).AspectRatio(); got != 0 {
		t.Errorf("degenerate AspectRatio = %v, want 0", got)
	}
}

func TestScalePoint(t *testing.T) {
	// Retina: capture is twice the logical screen size
	si := ScreenInfo{Width: 1440, Height: 900}
	got := si.ScalePoint(Point{2000, 1000}, 2880, 1800)
	if got.X != 1000 || got.Y != 500 {
		t.Errorf("ScalePoint = %v, want (1000, 500)", got)
	}

	// 1:1 display
	si = ScreenInfo{Width: 1920, Height: 1080}
	p := Point{640, 480}
	if got := si.ScalePoint(p, 1920, 1080); got != p {
		t.Errorf("1:1 ScalePoint changed the point: %v", got)
	}

	// Degenerate capture size must not divide by zero
	if got := si.ScalePoint(p, 0, 0); got != p {
		t.Errorf("degenerate ScalePoint = %v, want unchanged", got)
	}
}

func TestDedupPoints(t *testing.T) {
	in := []Point{{50, 50}, {55, 52}, {200, 200}}
	out := dedupPoints(in, 10)
	if len(out) != 2 {
		t.Fatalf("expected 2 points, got %d", len(out))
	}
	if out[0] != (Point{50, 50}) || out[1] != (Point{200, 200}) {
		t.Errorf("unexpected survivors: %v", out)
	}
}
