// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package imaging shrinks page images that exceed the inference
// endpoint's payload budget.
package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
)

// DefaultBudget is the byte-size budget for one page image. Inline
// base64 payloads above this tend to be rejected or truncated upstream.
const DefaultBudget int64 = 5 << 20

// ShrinkToBudget downscales the image at path when its encoded size
// exceeds budget bytes, overwriting it in place, and reports whether a
// resize happened. Both dimensions are scaled by sqrt(budget/actual),
// floored, preserving aspect ratio. The shrink is a single best-effort
// pass: the re-encoded file is not measured again against the budget.
func ShrinkToBudget(path string, budget int64) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat image %s: %w", path, err)
	}
	if info.Size() <= budget {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening image %s: %w", path, err)
	}
	src, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return false, fmt.Errorf("decoding image %s: %w", path, err)
	}

	scale := math.Sqrt(float64(budget) / float64(info.Size()))
	bounds := src.Bounds()
	w := int(float64(bounds.Dx()) * scale)
	h := int(float64(bounds.Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	out, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("rewriting image %s: %w", path, err)
	}
	defer out.Close()

	switch format {
	case "png":
		err = png.Encode(out, dst)
	default:
		err = jpeg.Encode(out, dst, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return false, fmt.Errorf("encoding image %s: %w", path, err)
	}

	return true, nil
}
