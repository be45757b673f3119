package sdfatlas

import (
	"context"
	"math"
)

// GridColumns returns the number of columns (and rows) of the square grid
// that holds glyphCount cells: ceil(sqrt(glyphCount)).
func GridColumns(glyphCount int) int {
	if glyphCount <= 0 {
		return 0
	}
	cols := int(math.Ceil(math.Sqrt(float64(glyphCount))))
	// Correct float rounding for large perfect squares.
	for cols*cols < glyphCount {
		cols++
	}
	for cols > 1 && (cols-1)*(cols-1) >= glyphCount {
		cols--
	}
	return cols
}

// CellSize returns the side length in pixels of one grid cell when
// glyphCount glyphs share a textureSize x textureSize texture.
func CellSize(textureSize, glyphCount int) int {
	cols := GridColumns(glyphCount)
	if cols == 0 {
		return 0
	}
	return textureSize / cols
}

// fits reports whether glyphs with metrics m, surrounded by spread pixels on
// every side, fit a cell of cellSize pixels.
func fits(m Metrics, cellSize int, spread float64) bool {
	box := m.GlyphBox()
	limit := float64(cellSize) - 2*spread
	return math.Ceil(box.Width()) <= limit && math.Ceil(box.Height()) <= limit
}

// FitPointSize returns the largest integer point size at which every glyph
// of p fits one grid cell of a textureSize x textureSize texture while
// keeping spread pixels of margin on all sides.
//
// The search is a binary search over [1, cellSize]; glyph boxes grow with
// the point size, so the predicate is monotonic. It returns a *ConfigError
// for a spread that is not positive, an *InvalidFontError when p has no
// glyphs and an *AtlasOverflowError when not even size 1 fits.
func FitPointSize(ctx context.Context, p FontProvider, textureSize int, spread float64) (float64, error) {
	if !(spread > 0) || math.IsInf(spread, 1) {
		return 0, &ConfigError{Field: "Spread", Reason: "must be positive"}
	}
	n := p.GlyphCount()
	if n <= 0 {
		return 0, &InvalidFontError{Font: p.Name(), Reason: "font has no glyphs"}
	}
	cell := CellSize(textureSize, n)
	overflow := &AtlasOverflowError{
		TextureSize: textureSize,
		GlyphCount:  n,
		CellSize:    cell,
		Spread:      spread,
	}
	if 2*spread >= float64(cell) {
		return 0, overflow
	}

	log := Logger()
	lo, hi := 0, cell // lo fits (or is 0), hi+1 does not
	for lo < hi {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		mid := lo + (hi-lo+1)/2
		ok := fits(p.Metrics(float64(mid)), cell, spread)
		log.Debug("sdfatlas: point size probe", "size", mid, "fits", ok)
		if ok {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo < 1 {
		return 0, overflow
	}

	log.Debug("sdfatlas: point size fitted",
		"font", p.Name(), "size", lo, "cell", cell, "glyphs", n)
	return float64(lo), nil
}
