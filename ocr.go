// Package main - ocr.go
//
// This file implements OCR-based text localization using Tesseract.
//
// UI text renders in wildly different contrast conditions (dark terminals,
// light dialogs, anti-aliased buttons), so no single preprocessing or page
// segmentation setup recognizes all of them. FindText therefore fans out:
//
//   Preprocessing variants (3):
//     - raw grayscale
//     - Otsu global threshold
//     - Gaussian adaptive threshold (block 11, C 2)
//
//   Page segmentation modes (4):
//     - PSM_SINGLE_WORD: isolated button labels
//     - PSM_SINGLE_LINE: one-line dialogs
//     - PSM_SINGLE_BLOCK: terminal banner blocks
//     - PSM_RAW_LINE: raw line, no layout analysis
//
// Every recognized word is fuzzy-matched against the target phrase
// (containment either way, shared word, or equality after normalizing the
// 0<->o and 1<->l OCR confusions) and gated on Tesseract's 0-100 word
// confidence. Accepted matches yield box centers, deduplicated within 10
// units. Failures of individual variant/mode combinations are skipped
// silently; OCR is best-effort by design.
//
// Misspelled phrase variants ("Al1ow", "A11ow") are a caller-level retry:
// callers invoke FindText once per spelling rather than the finder
// expanding spellings internally.
package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// ocrDedupDistance is the box distance under which two text matches are
// considered the same occurrence.
const ocrDedupDistance = 10

// pageSegModes are tried in order for every preprocessing variant
var pageSegModes = []gosseract.PageSegMode{
	gosseract.PSM_SINGLE_WORD,
	gosseract.PSM_SINGLE_LINE,
	gosseract.PSM_SINGLE_BLOCK,
	gosseract.PSM_RAW_LINE,
}

// TextFinder locates a phrase in images using a shared Tesseract client.
//
// The client is stateful and not safe for concurrent use, so calls are
// serialized with a mutex. One finder spans the whole monitoring session.
type TextFinder struct {
	client *gosseract.Client
	mu     sync.Mutex
}

// NewTextFinder creates a Tesseract-backed text finder
func NewTextFinder() (*TextFinder, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}
	return &TextFinder{client: client}, nil
}

// Close releases the Tesseract client
func (tf *TextFinder) Close() error {
	if tf.client != nil {
		return tf.client.Close()
	}
	return nil
}

// FindText returns center points (in the image's own coordinate space) of
// every location where phrase was recognized with at least the given
// confidence (0-1 scale; Tesseract reports 0-100).
func (tf *TextFinder) FindText(mat gocv.Mat, phrase string, confidence float64) []Point {
	if mat.Empty() || phrase == "" {
		return nil
	}

	tf.mu.Lock()
	defer tf.mu.Unlock()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	otsu := gocv.NewMat()
	defer otsu.Close()
	gocv.Threshold(gray, &otsu, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	adaptive := gocv.NewMat()
	defer adaptive.Close()
	gocv.AdaptiveThreshold(gray, &adaptive, 255, gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary, 11, 2)

	minConf := confidence * 100

	var positions []Point
	for _, variant := range []gocv.Mat{gray, otsu, adaptive} {
		buf, err := gocv.IMEncode(gocv.PNGFileExt, variant)
		if err != nil {
			continue
		}
		png := buf.GetBytes()
		buf.Close()

		for _, psm := range pageSegModes {
			boxes, err := tf.recognize(png, psm)
			if err != nil {
				continue
			}
			for _, box := range boxes {
				if !tokenMatchesPhrase(box.Word, phrase) {
					continue
				}
				if box.Confidence < minConf {
					continue
				}
				positions = append(positions, Point{
					X: box.Box.Min.X + box.Box.Dx()/2,
					Y: box.Box.Min.Y + box.Box.Dy()/2,
				})
			}
		}
	}

	return dedupPoints(positions, ocrDedupDistance)
}

// recognize runs one Tesseract pass over encoded image bytes
func (tf *TextFinder) recognize(png []byte, psm gosseract.PageSegMode) ([]gosseract.BoundingBox, error) {
	if err := tf.client.SetPageSegMode(psm); err != nil {
		return nil, err
	}
	if err := tf.client.SetImageFromBytes(png); err != nil {
		return nil, err
	}
	return tf.client.GetBoundingBoxes(gosseract.RIL_WORD)
}

// tokenMatchesPhrase reports whether a recognized token is an acceptable
// match for the target phrase. Matching is case-insensitive and tolerant
// of partial recognition and the common 0<->o / 1<->l confusions.
func tokenMatchesPhrase(token, phrase string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	if token == "" || phrase == "" {
		return false
	}

	if strings.Contains(token, phrase) || strings.Contains(phrase, token) {
		return true
	}
	for _, word := range strings.Fields(phrase) {
		if strings.Contains(token, word) {
			return true
		}
	}
	if normalizeConfusions(token) == phrase {
		return true
	}
	if strings.Contains(token, normalizeConfusions(phrase)) {
		return true
	}
	return false
}

// normalizeConfusions rewrites digits Tesseract commonly swaps with letters
func normalizeConfusions(s string) string {
	s = strings.ReplaceAll(s, "0", "o")
	s = strings.ReplaceAll(s, "1", "l")
	return s
}
