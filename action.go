// Package main - action.go
//
// This file implements the click execution path: taking a capture-space
// candidate, rescaling it to screen-space, moving the pointer, and
// clicking, with a cooldown gate so one lingering dialog cannot absorb a
// burst of clicks.
//
// The cooldown lives here rather than in the monitor loop because every
// click path (continuous monitoring, test mode, click-once) must honor it.
package main

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
)

// clickSettleDelay is the pause between moving the pointer and pressing,
// long enough for hover states to register.
const clickSettleDelay = 100 * time.Millisecond

// mainAreaMargin keeps click-once away from screen edges where stray
// detections (menu bar icons, dock badges) concentrate.
const mainAreaMargin = 50

// Clicker executes clicks on fused candidates, enforcing the cooldown and
// the capture-to-screen coordinate scaling.
type Clicker struct {
	config    *Config
	screen    ScreenInfo
	lastClick time.Time
	now       func() time.Time // swapped out by cooldown tests
}

// NewClicker creates a clicker bound to the primary display's logical size
func NewClicker(config *Config) *Clicker {
	w, h := robotgo.GetScreenSize()
	return &Clicker{
		config: config,
		screen: ScreenInfo{Width: w, Height: h},
		now:    time.Now,
	}
}

// Screen returns the logical screen size the clicker scales into
func (c *Clicker) Screen() ScreenInfo {
	return c.screen
}

// CooldownRemaining reports how long until the next click is permitted.
// Zero means a click may proceed now.
func (c *Clicker) CooldownRemaining() time.Duration {
	if c.lastClick.IsZero() {
		return 0
	}
	elapsed := c.now().Sub(c.lastClick)
	if remaining := c.config.ClickCooldown() - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

// Click moves the pointer to the candidate and left-clicks, scaling the
// capture-space point into screen-space first. Returns false without
// clicking when the cooldown has not elapsed.
func (c *Clicker) Click(candidate Candidate, captureW, captureH int) (bool, error) {
	if remaining := c.CooldownRemaining(); remaining > 0 {
		LogDebug("Cooldown active (%.1fs remaining), skipping click at %v", remaining.Seconds(), candidate.Point)
		return false, nil
	}

	target := c.screen.ScalePoint(candidate.Point, captureW, captureH)
	if target != candidate.Point {
		LogDebug("Scaled capture point %v to screen point %v", candidate.Point, target)
	}

	LogInfo("Clicking %s candidate at %v", candidate.Source, target)

	robotgo.MoveSmooth(target.X, target.Y, 0.5, 0.5)
	mx, my := robotgo.Location()
	if absInt(mx-target.X) > 2 || absInt(my-target.Y) > 2 {
		return false, fmt.Errorf("pointer move failed: wanted %v, pointer at (%d, %d)", target, mx, my)
	}

	time.Sleep(clickSettleDelay)
	robotgo.Click("left")

	c.lastClick = c.now()
	return true, nil
}

// ClickBest clicks the highest-priority candidate. Candidates arrive
// already ordered by fusion priority, so the first one wins.
func (c *Clicker) ClickBest(candidates []Candidate, captureW, captureH int) (bool, error) {
	if len(candidates) == 0 {
		return false, nil
	}
	return c.Click(candidates[0], captureW, captureH)
}

// PickMainArea prefers a candidate clear of the screen edges, falling back
// to the first candidate when none qualifies. Click-once mode uses this to
// avoid menu bar and dock detections on an otherwise quiet screen.
func PickMainArea(candidates []Candidate, captureW, captureH int) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	inner := Bounds{
		X: mainAreaMargin,
		Y: mainAreaMargin,
		W: captureW - 2*mainAreaMargin,
		H: captureH - 2*mainAreaMargin,
	}
	for _, c := range candidates {
		if inner.Contains(c.Point) {
			return c, true
		}
	}
	return candidates[0], true
}

// CheckPointerControl verifies the pointer can actually be moved, which on
// macOS fails silently without the accessibility permission. It nudges the
// pointer by one pixel and restores it.
func CheckPointerControl() error {
	startX, startY := robotgo.Location()
	robotgo.Move(startX+1, startY)
	mx, my := robotgo.Location()
	robotgo.Move(startX, startY)
	if mx == startX && my == startY {
		return fmt.Errorf("pointer did not move; missing accessibility permission?")
	}
	return nil
}
