// Package main - monitor.go
//
// This file implements the continuous monitoring loop: capture a frame,
// run the detection pipeline, click at most one candidate, sleep, repeat.
// It also hosts the single-shot entry points used by test mode and
// click-once mode, and the global ESC listener.
//
// Loop Behavior:
//   - Capture failures are logged and backed off, never fatal; transient
//     failures happen during screen lock and display reconfiguration
//   - At most one click per cycle, and the clicker's cooldown gates it
//   - Pause (from the tray) skips capture entirely
//
// Shutdown:
// Stop() flips an atomic flag checked at the top of every cycle, so the
// loop exits within one capture interval. It is safe to call from any
// goroutine (signal handler, ESC listener, tray menu).
package main

import (
	"fmt"
	"sync/atomic"
	"time"

	hook "github.com/robotn/gohook"
)

// Bot ties the capture, detection and click stages into a running session
type Bot struct {
	cfg      *Config
	finder   *TextFinder
	detector *Detector
	clicker  *Clicker

	stopped atomic.Bool
	cycles  atomic.Int64
	clicks  atomic.Int64
}

// NewBot builds a ready-to-run session. The caller owns shutdown and must
// call Close when done.
func NewBot(cfg *Config) (*Bot, error) {
	finder, err := NewTextFinder()
	if err != nil {
		return nil, fmt.Errorf("init text finder: %w", err)
	}
	return &Bot{
		cfg:      cfg,
		finder:   finder,
		detector: NewDetector(cfg, finder),
		clicker:  NewClicker(cfg),
	}, nil
}

// Close releases the OCR engine
func (b *Bot) Close() {
	b.finder.Close()
}

// Stop asks the monitor loop to exit at the next cycle boundary
func (b *Bot) Stop() {
	b.stopped.Store(true)
}

// Stopped reports whether a stop has been requested
func (b *Bot) Stopped() bool {
	return b.stopped.Load()
}

// Stats returns the cycle and click counters for status display
func (b *Bot) Stats() (cycles, clicks int64) {
	return b.cycles.Load(), b.clicks.Load()
}

// Run executes the monitor loop until Stop is called. Only unrecoverable
// setup problems return an error; per-cycle failures are logged and the
// loop keeps going.
func (b *Bot) Run() error {
	LogInfo("Monitoring for %q buttons (interval %v, cooldown %v)",
		b.cfg.TargetPhrase, b.cfg.CaptureInterval(), b.cfg.ClickCooldown())

	for !b.stopped.Load() {
		if b.cfg.GetPaused() {
			time.Sleep(b.cfg.CaptureInterval())
			continue
		}

		cycle := b.cycles.Add(1)

		frame, err := CaptureScreen()
		if err != nil {
			LogError("Screen capture failed: %v", err)
			time.Sleep(b.cfg.ErrorBackoff())
			continue
		}

		candidates, err := b.detector.FindAllowButtons(frame, cycle)
		if err != nil {
			LogError("Detection failed: %v", err)
			time.Sleep(b.cfg.ErrorBackoff())
			continue
		}

		if len(candidates) > 0 {
			clicked, err := b.clicker.ClickBest(candidates, frame.Width, frame.Height)
			if err != nil {
				LogError("Click failed: %v", err)
			} else if clicked {
				b.clicks.Add(1)
				LogInfo("Clicked 1 of %d candidates (total clicks: %d)",
					len(candidates), b.clicks.Load())
			}
		}

		time.Sleep(b.cfg.CaptureInterval())
	}

	cycles, clicks := b.Stats()
	LogInfo("Monitor stopped after %d cycles, %d clicks", cycles, clicks)
	return nil
}

// DetectOnce captures a single frame and returns its candidates without
// clicking anything. Test mode prints these.
func (b *Bot) DetectOnce() ([]Candidate, *ScreenImage, error) {
	frame, err := CaptureScreen()
	if err != nil {
		return nil, nil, fmt.Errorf("screen capture: %w", err)
	}
	candidates, err := b.detector.FindAllowButtons(frame, b.cycles.Add(1))
	if err != nil {
		return nil, nil, err
	}
	return candidates, frame, nil
}

// ClickOnce runs one detection pass and clicks the best candidate,
// preferring one away from the screen edges. Returns an error when nothing
// clickable was found, so callers can exit nonzero.
func (b *Bot) ClickOnce() error {
	candidates, frame, err := b.DetectOnce()
	if err != nil {
		return err
	}
	best, ok := PickMainArea(candidates, frame.Width, frame.Height)
	if !ok {
		return fmt.Errorf("no %q button found", b.cfg.TargetPhrase)
	}
	clicked, err := b.clicker.Click(best, frame.Width, frame.Height)
	if err != nil {
		return err
	}
	if !clicked {
		return fmt.Errorf("click suppressed by cooldown")
	}
	b.clicks.Add(1)
	return nil
}

// WatchEscape blocks on the global keyboard hook and stops the bot when
// ESC is pressed. Run it on its own goroutine.
func (b *Bot) WatchEscape() {
	defer func() {
		if r := recover(); r != nil {
			LogError("Keyboard hook panicked: %v", r)
		}
	}()

	hook.Register(hook.KeyDown, []string{"esc"}, func(e hook.Event) {
		LogInfo("ESC pressed, stopping")
		b.Stop()
		hook.End()
	})
	s := hook.Start()
	<-hook.Process(s)
}
