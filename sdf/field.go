// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sdf

import "math"

// Field is a square single-channel distance field of one atlas cell.
// Pix holds normalized values in [0, 1], row-major.
type Field struct {
	Size int
	Pix  []float32
}

// NewField creates a field of size x size pixels, all zero (far outside).
func NewField(size int) *Field {
	return &Field{
		Size: size,
		Pix:  make([]float32, size*size),
	}
}

// At returns the value at (x, y).
func (f *Field) At(x, y int) float32 {
	return f.Pix[y*f.Size+x]
}

// Normalize maps a signed distance (destination pixels, positive inside)
// to the [0, 1] field encoding for the given spread.
func Normalize(signedDistance, spread float64) float32 {
	v := signedDistance / (2 * spread)
	v = math.Max(-0.5, math.Min(0.5, v))
	return float32(0.5 + v)
}

// Quantize maps a normalized field value to an 8-bit texel with rounding.
// Values outside [0, 1] are clamped.
func Quantize(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
