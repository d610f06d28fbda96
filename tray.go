// Package main - tray.go
//
// This file implements the optional system tray UI. Uses getlantern/systray
// for cross-platform tray menu support.
//
// Menu Structure:
//   Allow Clicker
//   ├─ Status: Watching | Paused + cycle/click counters (read-only)
//   ├─ Pause/Resume (checkbox, skips capture while paused)
//   ├─ Debug Logging (checkbox, toggles verbose output + image dumps)
//   ├─ Scan Interval
//   │  ├─ 250ms
//   │  ├─ 500ms (default)
//   │  ├─ 1 Second
//   │  └─ 2 Seconds
//   └─ Quit (graceful shutdown)
//
// Concurrency Model:
// One goroutine per menu item, each blocking on its ClickedCh, plus a
// ticker goroutine that refreshes the status line. Interval changes are
// saved to the config file immediately.
//
// Lifecycle:
//   1. NewTrayApp: Create instance with bot reference
//   2. Run: Start systray (blocking call)
//   3. onReady: Build menu, start the bot loop in the background
//   4. Quit item or tray exit: stop the bot, flush the logger, exit
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/getlantern/systray"
)

// trayIntervals are the scan interval choices offered in the menu
var trayIntervals = []struct {
	label string
	ms    int
}{
	{"250ms", 250},
	{"500ms", 500},
	{"1 Second", 1000},
	{"2 Seconds", 2000},
}

// TrayApp manages the system tray application and user interface
type TrayApp struct {
	bot        *Bot
	configPath string

	statusItem    *systray.MenuItem
	pauseItem     *systray.MenuItem
	debugItem     *systray.MenuItem
	intervalItems []*systray.MenuItem
}

// NewTrayApp creates a new tray application
func NewTrayApp(bot *Bot, configPath string) *TrayApp {
	return &TrayApp{
		bot:        bot,
		configPath: configPath,
	}
}

// Run starts the tray application. Blocks until quit.
func (t *TrayApp) Run() {
	LogInfo("Starting system tray application")
	systray.Run(t.onReady, func() {
		LogInfo("System tray exiting, stopping monitor")
		t.bot.Stop()
	})
}

// onReady is called when the tray is ready
func (t *TrayApp) onReady() {
	systray.SetTitle("Allow Clicker")
	systray.SetTooltip("Clicks Allow buttons automatically")

	t.statusItem = systray.AddMenuItem("Status: Starting...", "Current clicker status")
	t.statusItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItemCheckbox("Pause", "Suspend screen scanning", t.bot.cfg.GetPaused())
	t.debugItem = systray.AddMenuItemCheckbox("Debug Logging", "Verbose logs and detection image dumps", t.bot.cfg.GetDebug())

	systray.AddSeparator()

	intervalMenu := systray.AddMenuItem("Scan Interval", "How often to capture the screen")
	current := int(t.bot.cfg.CaptureInterval() / time.Millisecond)
	for _, iv := range trayIntervals {
		item := intervalMenu.AddSubMenuItemCheckbox(iv.label, "", iv.ms == current)
		t.intervalItems = append(t.intervalItems, item)
	}

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit the application")

	go t.handlePause()
	go t.handleDebug()
	for i, iv := range trayIntervals {
		go t.handleInterval(iv.ms, t.intervalItems[i])
	}
	go t.handleQuit(quitItem)
	go t.updateStatusLoop()

	LogInfo("System tray initialized")

	go func() {
		if err := t.bot.Run(); err != nil {
			LogError("Monitor loop failed: %v", err)
		}
	}()
}

// handlePause toggles the paused flag
func (t *TrayApp) handlePause() {
	for range t.pauseItem.ClickedCh {
		paused := !t.bot.cfg.GetPaused()
		t.bot.cfg.SetPaused(paused)
		if paused {
			t.pauseItem.Check()
			LogInfo("Paused from tray")
		} else {
			t.pauseItem.Uncheck()
			LogInfo("Resumed from tray")
		}
	}
}

// handleDebug toggles verbose logging
func (t *TrayApp) handleDebug() {
	for range t.debugItem.ClickedCh {
		debug := !t.bot.cfg.GetDebug()
		t.bot.cfg.SetDebug(debug)
		if globalLogger != nil {
			globalLogger.SetDebug(debug)
		}
		if debug {
			t.debugItem.Check()
		} else {
			t.debugItem.Uncheck()
		}
		LogInfo("Debug logging set to %v from tray", debug)
	}
}

// handleInterval applies a scan interval selection and persists it
func (t *TrayApp) handleInterval(ms int, item *systray.MenuItem) {
	for range item.ClickedCh {
		t.bot.cfg.SetCaptureInterval(ms)
		t.updateIntervalCheckmarks(ms)
		if t.configPath != "" {
			if err := t.bot.cfg.Save(t.configPath); err != nil {
				LogWarn("Failed to save config: %v", err)
			}
		}
		LogInfo("Scan interval set to %dms", ms)
	}
}

// updateIntervalCheckmarks marks only the selected interval
func (t *TrayApp) updateIntervalCheckmarks(selected int) {
	for i, iv := range trayIntervals {
		if iv.ms == selected {
			t.intervalItems[i].Check()
		} else {
			t.intervalItems[i].Uncheck()
		}
	}
}

// handleQuit performs the full shutdown sequence
func (t *TrayApp) handleQuit(quitItem *systray.MenuItem) {
	<-quitItem.ClickedCh
	LogInfo("Quit requested from tray")
	t.bot.Stop()
	t.bot.Close()
	CloseLogger()
	systray.Quit()
	os.Exit(0)
}

// updateStatusLoop refreshes the status line once a second
func (t *TrayApp) updateStatusLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for range ticker.C {
		cycles, clicks := t.bot.Stats()
		state := "Watching"
		if t.bot.cfg.GetPaused() {
			state = "Paused"
		}
		t.statusItem.SetTitle(fmt.Sprintf("Status: %s | %d scans | %d clicks", state, cycles, clicks))
	}
}
