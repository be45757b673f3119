// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package raster renders glyph outlines into supersampled coverage masks.
//
// The coverage fill uses golang.org/x/image/vector with the nonzero winding
// rule. Masks are square: one grid cell of the atlas scaled by the
// supersampling factor.
package raster

import (
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/vector"
)

// Rasterizer converts outlines into coverage masks.
//
// Rasterizer is safe for concurrent use. Scratch rasterizers are pooled so
// that parallel glyph workers do not allocate a new one per glyph.
type Rasterizer struct {
	pool sync.Pool
}

// NewRasterizer creates a new Rasterizer.
func NewRasterizer() *Rasterizer {
	return &Rasterizer{
		pool: sync.Pool{
			New: func() any { return vector.NewRasterizer(0, 0) },
		},
	}
}

// Rasterize fills outline into a mask of (cellSize*factor)² pixels.
//
// origin is the position of the glyph origin inside the cell, in cell
// pixels. The outline is scaled by factor before filling. A nil or empty
// outline produces an all-zero mask.
func (r *Rasterizer) Rasterize(outline *Outline, origin Point, cellSize, factor int) *Mask {
	if factor < 1 {
		factor = 1
	}
	size := cellSize * factor
	mask := NewMask(size)
	if outline.IsEmpty() || size <= 0 {
		return mask
	}

	f := float32(factor)
	scaled := outline.Transform(f, Point{X: origin.X * f, Y: origin.Y * f})

	z := r.pool.Get().(*vector.Rasterizer)
	defer r.pool.Put(z)
	z.Reset(size, size)
	z.DrawOp = draw.Src

	open := false
	for _, seg := range scaled.Segments {
		a := seg.Args
		switch seg.Op {
		case OpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(a[0].X, a[0].Y)
			open = true
		case OpLineTo:
			z.LineTo(a[0].X, a[0].Y)
		case OpQuadTo:
			z.QuadTo(a[0].X, a[0].Y, a[1].X, a[1].Y)
		case OpCubeTo:
			z.CubeTo(a[0].X, a[0].Y, a[1].X, a[1].Y, a[2].X, a[2].Y)
		}
	}
	if open {
		z.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, size, size))
	z.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	for i, a := range dst.Pix {
		mask.Pix[i] = float32(a) / 255
	}
	return mask
}
