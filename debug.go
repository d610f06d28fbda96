// Package main - debug.go
//
// This file implements centralized logging and debug artifact output.
//
// Major Components:
//
// 1. Logging System:
//    - Thread-safe file logging to Debug.log
//    - Four log levels: DEBUG, INFO, WARN, ERROR
//    - Microsecond timestamps for cycle timing analysis
//    - File is truncated (cleared) on each startup
//    - Console echo: INFO and above to stdout unless quiet mode,
//      DEBUG echoed only when debug mode is on, WARN/ERROR always echoed
//
// 2. Debug Artifacts:
//    - Blue-mask snapshots (mask_*.png) showing the HSV segmentation
//    - Annotated frames (detect_*.png) with candidate boxes drawn in
//    - Written only in debug mode, via gocv
//
// Logging Best Practices:
//   - DEBUG: Detailed detection info (region counts, coordinates, scores)
//   - INFO: Important events (startup, clicks, shutdown)
//   - WARN: Non-critical issues (capture retry, OCR engine hiccups)
//   - ERROR: Serious problems (click failures, file access errors)
package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// Logger provides thread-safe logging to Debug.log with console echo.
//
// Debug.log is truncated (O_TRUNC) on each startup so the file always
// contains only the current session.
type Logger struct {
	file    *os.File
	logger  *log.Logger
	console *log.Logger
	debug   bool
	quiet   bool
	mu      sync.Mutex
}

var globalLogger *Logger

// InitLogger initializes the global logger to write to Debug.log in the
// current directory; debug and quiet control console echo thresholds.
func InitLogger(debug, quiet bool) error {
	file, err := os.OpenFile("Debug.log", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	globalLogger = &Logger{
		file:    file,
		logger:  log.New(file, "", log.LstdFlags|log.Lmicroseconds),
		console: log.New(os.Stdout, "", log.LstdFlags),
		debug:   debug,
		quiet:   quiet,
	}

	globalLogger.Info("Logger initialized (log file cleared)")
	return nil
}

// CloseLogger closes the log file
func CloseLogger() {
	if globalLogger != nil && globalLogger.file != nil {
		globalLogger.Info("Logger closing")
		globalLogger.file.Close()
	}
}

func (l *Logger) write(level, format string, echo bool, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger.Printf("["+level+"] "+format, v...)
	if echo {
		l.console.Printf("["+level+"] "+format, v...)
	}
}

// Debug logs debug level messages
func (l *Logger) Debug(format string, v ...interface{}) {
	l.write("DEBUG", format, l.debug, v...)
}

// Info logs info level messages
func (l *Logger) Info(format string, v ...interface{}) {
	l.write("INFO", format, !l.quiet || l.debug, v...)
}

// Warn logs warning level messages
func (l *Logger) Warn(format string, v ...interface{}) {
	l.write("WARN", format, true, v...)
}

// Error logs error level messages
func (l *Logger) Error(format string, v ...interface{}) {
	l.write("ERROR", format, true, v...)
}

// SetDebug changes the console echo threshold at runtime (tray toggle)
func (l *Logger) SetDebug(debug bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = debug
}

// LogDebug is a convenience function for debug logging
func LogDebug(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debug(format, v...)
	}
}

// LogInfo is a convenience function for info logging
func LogInfo(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Info(format, v...)
	}
}

// LogWarn is a convenience function for warning logging
func LogWarn(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warn(format, v...)
	}
}

// LogError is a convenience function for error logging
func LogError(format string, v ...interface{}) {
	if globalLogger != nil {
		globalLogger.Error(format, v...)
	}
}

// debugEnabled reports whether debug artifacts should be written
func debugEnabled() bool {
	return globalLogger != nil && globalLogger.debug
}

// SaveDebugMask writes the blue segmentation mask for one cycle to disk
func SaveDebugMask(mask gocv.Mat, cycle int64) {
	if !debugEnabled() || mask.Empty() {
		return
	}
	name := fmt.Sprintf("mask_%04d.png", cycle)
	if ok := gocv.IMWrite(name, mask); !ok {
		LogWarn("Failed to write %s", name)
		return
	}
	LogDebug("Wrote %s", name)
}

// SaveDebugFrame writes an annotated copy of the frame with candidate
// boxes and centers drawn in.
func SaveDebugFrame(frame gocv.Mat, regions []Bounds, candidates []Candidate, cycle int64) {
	if !debugEnabled() || frame.Empty() {
		return
	}

	annotated := frame.Clone()
	defer annotated.Close()

	yellow := color.RGBA{R: 255, G: 255, B: 0, A: 255}
	green := color.RGBA{R: 0, G: 255, B: 0, A: 255}

	for _, r := range regions {
		gocv.Rectangle(&annotated, r.Rect(), yellow, 1)
	}
	for i, c := range candidates {
		marker := NewBounds(c.Point.X-4, c.Point.Y-4, 8, 8)
		gocv.Rectangle(&annotated, marker.Rect(), green, 2)
		gocv.PutText(&annotated, fmt.Sprintf("%d:%s", i+1, c.Source),
			image.Pt(c.Point.X+6, c.Point.Y-6), gocv.FontHersheyPlain, 1.0, green, 1)
	}

	name := fmt.Sprintf("detect_%04d.png", cycle)
	if ok := gocv.IMWrite(name, annotated); !ok {
		LogWarn("Failed to write %s", name)
		return
	}
	LogDebug("Wrote %s with %d regions, %d candidates", name, len(regions), len(candidates))
}
