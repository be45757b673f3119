// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

// Mask is a square coverage bitmap for one glyph.
// Pix holds one value per pixel in row-major order; 0 is fully outside
// and 1 is fully inside, with fractional values along antialiased edges.
type Mask struct {
	Size int
	Pix  []float32
}

// NewMask creates an all-zero mask of size x size pixels.
func NewMask(size int) *Mask {
	return &Mask{
		Size: size,
		Pix:  make([]float32, size*size),
	}
}

// At returns the coverage at (x, y). Pixels outside the mask are 0.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= m.Size || y >= m.Size {
		return 0
	}
	return m.Pix[y*m.Size+x]
}

// Set sets the coverage at (x, y). Out-of-range writes are ignored.
func (m *Mask) Set(x, y int, v float32) {
	if x < 0 || y < 0 || x >= m.Size || y >= m.Size {
		return
	}
	m.Pix[y*m.Size+x] = v
}

// IsEmpty reports whether every pixel has zero coverage.
func (m *Mask) IsEmpty() bool {
	for _, v := range m.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}
