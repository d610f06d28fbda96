// Package main - config.go
//
// This file manages configuration for the clicker.
//
// Configuration Sources (later sources override earlier ones):
//   1. Built-in defaults (tuned against real permission dialogs)
//   2. config.json next to the working directory (optional)
//   3. .env file / environment variables (ALLOW_CLICKER_* keys)
//
// The detection thresholds (hue ranges, box filters, heuristics) are
// deliberately NOT configurable; they were tuned together and changing one
// in isolation breaks the layered fallback behavior. Only operational knobs
// are exposed: scan ratios, cooldown, intervals, phrases, and output flags.
//
// Thread Safety:
// The tray UI mutates Paused, Debug and the capture interval at runtime,
// so those go through mutex-guarded accessors. Everything else is
// read-only after Load.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Config holds clicker configuration
type Config struct {
	// Scan region (fractions of the full screen)
	ScanStartXRatio float64 `json:"scanStartXRatio"` // Left edge of scan box, default 0.55
	ScanStartYRatio float64 `json:"scanStartYRatio"` // Top edge of scan box, default 0.4

	// Target text
	TargetPhrase   string   `json:"targetPhrase"`   // Button label to find, default "Allow"
	PhraseVariants []string `json:"phraseVariants"` // Known OCR misreadings of the label
	AnchorPhrase   string   `json:"anchorPhrase"`   // Contextual banner text near the button

	// OCR confidence thresholds (0-1)
	TextConfidence    float64 `json:"textConfidence"`    // Main phrase pass, default 0.4
	VariantConfidence float64 `json:"variantConfidence"` // Misreading passes, default 0.3
	AnchorConfidence  float64 `json:"anchorConfidence"`  // Anchor phrase pass, default 0.3
	ProbeConfidence   float64 `json:"probeConfidence"`   // Blue-region re-OCR probe, default 0.2

	// Timing (milliseconds)
	ClickCooldownMS   int `json:"clickCooldownMs"`   // Minimum time between clicks, default 2000
	CaptureIntervalMS int `json:"captureIntervalMs"` // Sleep between cycles, default 500
	ErrorBackoffMS    int `json:"errorBackoffMs"`    // Sleep after a failed cycle, default 1000

	// Output
	Debug bool `json:"debug"` // Verbose logging + mask/annotation dumps
	Quiet bool `json:"quiet"` // Suppress console output below warning

	// Runtime-only state, not persisted
	paused bool
	mu     sync.RWMutex
}

// NewConfig creates default configuration
func NewConfig() *Config {
	return &Config{
		ScanStartXRatio:   0.55,
		ScanStartYRatio:   0.4,
		TargetPhrase:      "Allow",
		PhraseVariants:    []string{"Al1ow", "A11ow"},
		AnchorPhrase:      "Copilot",
		TextConfidence:    0.4,
		VariantConfidence: 0.3,
		AnchorConfidence:  0.3,
		ProbeConfidence:   0.2,
		ClickCooldownMS:   2000,
		CaptureIntervalMS: 500,
		ErrorBackoffMS:    1000,
	}
}

// LoadConfig builds the effective configuration: defaults, then the JSON
// file at path (missing file is not an error), then environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	// .env beside the working directory feeds the same override keys
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays ALLOW_CLICKER_* environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("ALLOW_CLICKER_PHRASE"); v != "" {
		c.TargetPhrase = v
	}
	if v := os.Getenv("ALLOW_CLICKER_ANCHOR"); v != "" {
		c.AnchorPhrase = v
	}
	if v := os.Getenv("ALLOW_CLICKER_VARIANTS"); v != "" {
		var variants []string
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				variants = append(variants, trimmed)
			}
		}
		c.PhraseVariants = variants
	}
	if f, ok := envFloat("ALLOW_CLICKER_SCAN_X_RATIO"); ok {
		c.ScanStartXRatio = f
	}
	if f, ok := envFloat("ALLOW_CLICKER_SCAN_Y_RATIO"); ok {
		c.ScanStartYRatio = f
	}
	if f, ok := envFloat("ALLOW_CLICKER_CONFIDENCE"); ok {
		c.TextConfidence = f
	}
	if n, ok := envInt("ALLOW_CLICKER_COOLDOWN_MS"); ok {
		c.ClickCooldownMS = n
	}
	if n, ok := envInt("ALLOW_CLICKER_INTERVAL_MS"); ok {
		c.CaptureIntervalMS = n
	}
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// validate rejects values that would make the loop spin or never click
func (c *Config) validate() error {
	if c.ScanStartXRatio < 0 || c.ScanStartXRatio >= 1 {
		return fmt.Errorf("scanStartXRatio %.2f out of range [0, 1)", c.ScanStartXRatio)
	}
	if c.ScanStartYRatio < 0 || c.ScanStartYRatio >= 1 {
		return fmt.Errorf("scanStartYRatio %.2f out of range [0, 1)", c.ScanStartYRatio)
	}
	if c.TargetPhrase == "" {
		return fmt.Errorf("targetPhrase must not be empty")
	}
	if c.TextConfidence < 0 || c.TextConfidence > 1 {
		return fmt.Errorf("textConfidence %.2f out of range [0, 1]", c.TextConfidence)
	}
	if c.ClickCooldownMS < 0 {
		return fmt.Errorf("clickCooldownMs must not be negative")
	}
	if c.CaptureIntervalMS <= 0 {
		return fmt.Errorf("captureIntervalMs must be positive")
	}
	return nil
}

// Save writes the configuration to a JSON file
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ClickCooldown returns the cooldown as a duration
func (c *Config) ClickCooldown() time.Duration {
	return time.Duration(c.ClickCooldownMS) * time.Millisecond
}

// CaptureInterval returns the cycle sleep as a duration
func (c *Config) CaptureInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.CaptureIntervalMS) * time.Millisecond
}

// SetCaptureInterval safely changes the cycle sleep (tray menu)
func (c *Config) SetCaptureInterval(ms int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CaptureIntervalMS = ms
}

// ErrorBackoff returns the failed-cycle sleep as a duration
func (c *Config) ErrorBackoff() time.Duration {
	return time.Duration(c.ErrorBackoffMS) * time.Millisecond
}

// AllPhrases returns the target phrase followed by its misreading variants
func (c *Config) AllPhrases() []string {
	phrases := make([]string, 0, len(c.PhraseVariants)+1)
	phrases = append(phrases, c.TargetPhrase)
	phrases = append(phrases, c.PhraseVariants...)
	return phrases
}

// GetPaused safely returns whether the loop is paused
func (c *Config) GetPaused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paused
}

// SetPaused safely sets the paused flag
func (c *Config) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = paused
}

// GetDebug safely returns the debug flag
func (c *Config) GetDebug() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Debug
}

// SetDebug safely sets the debug flag
func (c *Config) SetDebug(debug bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Debug = debug
}
