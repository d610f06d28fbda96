package main

import (
	"testing"
	"time"
)

func TestCooldownRemaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &Clicker{
		config: NewConfig(),
		screen: ScreenInfo{Width: 1920, Height: 1080},
		now:    func() time.Time { return now },
	}

	if got := c.CooldownRemaining(); got != 0 {
		t.Errorf("fresh clicker should have no cooldown, got %v", got)
	}

	c.lastClick = now
	if got := c.CooldownRemaining(); got != 2*time.Second {
		t.Errorf("immediately after click: %v, want 2s", got)
	}

	now = now.Add(1500 * time.Millisecond)
	if got := c.CooldownRemaining(); got != 500*time.Millisecond {
		t.Errorf("after 1.5s: %v, want 500ms", got)
	}

	now = now.Add(500 * time.Millisecond)
	if got := c.CooldownRemaining(); got != 0 {
		t.Errorf("after full cooldown: %v, want 0", got)
	}

	now = now.Add(time.Hour)
	if got := c.CooldownRemaining(); got != 0 {
		t.Errorf("long after cooldown: %v, want 0", got)
	}
}

func TestCooldownRespectsConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.ClickCooldownMS = 5000

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := &Clicker{
		config:    cfg,
		lastClick: now,
		now:       func() time.Time { return now.Add(3 * time.Second) },
	}
	if got := c.CooldownRemaining(); got != 2*time.Second {
		t.Errorf("5s cooldown after 3s: %v, want 2s", got)
	}
}

func TestPickMainArea(t *testing.T) {
	const w, h = 2000, 1000

	// No candidates
	if _, ok := PickMainArea(nil, w, h); ok {
		t.Error("expected no pick from empty list")
	}

	// A single edge candidate is still picked, just not preferred
	edge := Candidate{Point: Point{1990, 500}, Source: SourceColorOnly}
	got, ok := PickMainArea([]Candidate{edge}, w, h)
	if !ok || got != edge {
		t.Errorf("single edge candidate should be picked, got %v ok=%v", got, ok)
	}

	// An interior candidate beats an earlier edge candidate
	interior := Candidate{Point: Point{800, 500}, Source: SourceTextOnly}
	got, ok = PickMainArea([]Candidate{edge, interior}, w, h)
	if !ok || got != interior {
		t.Errorf("interior candidate should win, got %v", got)
	}

	// But an interior first candidate keeps its priority
	first := Candidate{Point: Point{600, 400}, Source: SourceColorText}
	got, _ = PickMainArea([]Candidate{first, interior}, w, h)
	if got != first {
		t.Errorf("first interior candidate should win, got %v", got)
	}

	// Menu-bar strip counts as edge
	top := Candidate{Point: Point{800, 30}, Source: SourceTextOnly}
	got, _ = PickMainArea([]Candidate{top, interior}, w, h)
	if got != interior {
		t.Errorf("top-strip candidate should lose to interior, got %v", got)
	}
}
