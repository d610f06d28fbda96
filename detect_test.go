package main

import "testing"

func TestIsButtonBox(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		area float64
		want bool
	}{
		{"typical button", 80, 40, 3000, true},
		{"small button at limits", 20, 10, 190, true},
		{"too narrow", 19, 40, 760, false},
		{"too wide", 301, 60, 18000, false},
		{"too short", 40, 9, 360, false},
		{"too tall", 80, 81, 6400, false},
		{"aspect too tall", 20, 30, 600, false},
		{"aspect too wide", 240, 25, 6000, false},
		{"area too small", 30, 12, 99, false},
		{"thin L-shaped contour", 100, 40, 80, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isButtonBox(tt.w, tt.h, tt.area); got != tt.want {
				t.Errorf("isButtonBox(%d, %d, %.0f) = %v, want %v", tt.w, tt.h, tt.area, got, tt.want)
			}
		})
	}
}
