// Package main - main.go
//
// This file is the application entry point. It parses the command line,
// initializes logging and configuration, wires the signal handlers, and
// dispatches to one of the run modes:
//
//   (default)     Continuous monitoring until ESC or SIGINT/SIGTERM
//   --test        One detection pass, print candidates, no clicking
//   --click-once  One detection pass, click the best candidate, exit
//   --interactive Console banner + confirmation prompt before monitoring
//   --check       Verify capture and pointer permissions, then exit
//   --tray        Continuous monitoring behind a system tray menu
//   --image PATH  Run detection on a saved screenshot
//
// The console is quiet by default; --debug or --interactive enable echo,
// and --quiet forces it off again. Debug.log always gets everything.
//
// Exit Codes:
//   - 0: Normal exit, or click-once clicked a button
//   - 1: Startup failure, or click-once/check found nothing clickable
//   - 2: Unhandled panic occurred
//
// Shutdown:
// SIGINT/SIGTERM request a graceful stop; a second wait of one second
// force-exits in case the loop is wedged inside a native call.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			LogError("PANIC in main: %v", r)
			CloseLogger()
			os.Exit(2)
		}
	}()

	var (
		debug       = flag.Bool("debug", false, "verbose logging and detection image dumps")
		quiet       = flag.Bool("quiet", false, "suppress console output below warnings")
		testMode    = flag.Bool("test", false, "run one detection pass without clicking")
		clickOnce   = flag.Bool("click-once", false, "click the best candidate once and exit")
		interactive = flag.Bool("interactive", false, "show console prompts and output")
		check       = flag.Bool("check", false, "verify capture and pointer permissions")
		tray        = flag.Bool("tray", false, "run with a system tray menu")
		imagePath   = flag.String("image", "", "detect on a saved screenshot instead of the live screen")
		configPath  = flag.String("config", "config.json", "configuration file path")
	)
	flag.Parse()

	// Without --debug or --interactive the console stays silent; the log
	// file still gets everything.
	quietMode := *quiet || (!*debug && !*interactive)

	if err := InitLogger(*debug, quietMode); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		LogInfo("=== Allow Clicker Shutdown ===")
		CloseLogger()
	}()

	LogInfo("=== Allow Clicker Started ===")

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		LogError("Configuration error: %v", err)
		os.Exit(1)
	}
	cfg.Debug = cfg.Debug || *debug
	cfg.Quiet = cfg.Quiet || quietMode

	if !quietMode {
		fmt.Println("=== Allow Button Clicker ===")
		fmt.Printf("This app will automatically click blue %q buttons.\n", cfg.TargetPhrase)
		fmt.Println("Press ESC to stop at any time.")
		fmt.Println("Make sure you've granted accessibility permissions!")
		fmt.Println()
	}

	if *interactive && !*testMode && !*clickOnce {
		fmt.Print("Press Enter to start monitoring...")
		bufio.NewReader(os.Stdin).ReadString('\n')
	}

	switch {
	case *check:
		runCheck()
	case *imagePath != "":
		runImage(cfg, *imagePath)
	case *testMode:
		runTest(cfg)
	case *clickOnce:
		runClickOnce(cfg)
	case *tray:
		runTray(cfg, *configPath)
	default:
		runMonitor(cfg)
	}
}

// runCheck verifies the runtime permissions this tool depends on. macOS
// gates both screen recording and pointer control behind per-app consent,
// and both fail silently at the API level.
func runCheck() {
	ok := true

	if _, err := CaptureRegion(Bounds{X: 0, Y: 0, W: 10, H: 10}); err != nil {
		LogError("Screen capture check failed: %v", err)
		ok = false
	} else {
		LogInfo("Screen capture: OK")
	}

	if err := CheckPointerControl(); err != nil {
		LogError("Pointer control check failed: %v", err)
		ok = false
	} else {
		LogInfo("Pointer control: OK")
	}

	if !ok {
		os.Exit(1)
	}
}

// runImage runs detection on a saved screenshot
func runImage(cfg *Config, path string) {
	if _, err := DetectImage(cfg, path); err != nil {
		LogError("Offline detection failed: %v", err)
		os.Exit(1)
	}
}

// runTest runs one live detection pass and reports what would be clicked
func runTest(cfg *Config) {
	bot, err := NewBot(cfg)
	if err != nil {
		LogError("Startup failed: %v", err)
		os.Exit(1)
	}
	defer bot.Close()

	candidates, frame, err := bot.DetectOnce()
	if err != nil {
		LogError("Detection failed: %v", err)
		os.Exit(1)
	}
	for i, c := range candidates {
		LogInfo("Candidate %d: %v (%s)", i+1, c.Point, c.Source)
	}
	if len(candidates) == 0 {
		LogInfo("No %q button found", cfg.TargetPhrase)
		return
	}
	if best, ok := PickMainArea(candidates, frame.Width, frame.Height); ok {
		LogInfo("Would click: %v (%s)", best.Point, best.Source)
	}
}

// runClickOnce clicks the best candidate exactly once; exits nonzero when
// nothing clickable was found so scripts can branch on it.
func runClickOnce(cfg *Config) {
	bot, err := NewBot(cfg)
	if err != nil {
		LogError("Startup failed: %v", err)
		os.Exit(1)
	}
	defer bot.Close()

	if err := bot.ClickOnce(); err != nil {
		LogError("Click-once failed: %v", err)
		os.Exit(1)
	}
	LogInfo("Clicked successfully")
}

// runMonitor is the default continuous mode
func runMonitor(cfg *Config) {
	bot, err := NewBot(cfg)
	if err != nil {
		LogError("Startup failed: %v", err)
		os.Exit(1)
	}
	defer bot.Close()

	installSignalHandler(bot)
	go bot.WatchEscape()

	if err := bot.Run(); err != nil {
		LogError("Monitor loop failed: %v", err)
		os.Exit(1)
	}
}

// runTray runs the monitor behind the system tray UI. systray.Run must own
// the main goroutine on macOS.
func runTray(cfg *Config, configPath string) {
	bot, err := NewBot(cfg)
	if err != nil {
		LogError("Startup failed: %v", err)
		os.Exit(1)
	}
	defer bot.Close()

	installSignalHandler(bot)
	go bot.WatchEscape()

	NewTrayApp(bot, configPath).Run()
}

// installSignalHandler wires SIGINT/SIGTERM to a graceful stop with a
// one-second force-exit fallback.
func installSignalHandler(bot *Bot) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		LogInfo("Received %v, stopping", sig)
		bot.Stop()
		time.Sleep(time.Second)
		LogWarn("Forcing exit")
		CloseLogger()
		os.Exit(0)
	}()
}
