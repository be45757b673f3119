package sdfatlas

import (
	"errors"
	"fmt"

	"github.com/gogpu/sdfatlas/raster"
)

// squareFont is a synthetic provider whose glyphs are squares. Its glyph
// box at size s is exactly s x s.
type squareFont struct {
	name  string
	count int
	fail  map[GlyphID]bool
}

func (f *squareFont) Name() string          { return f.name }
func (f *squareFont) GlyphCount() int       { return f.count }
func (f *squareFont) GlyphID(i int) GlyphID { return GlyphID(i) }

func (f *squareFont) Metrics(size float64) Metrics {
	return Metrics{
		Ascent:     size,
		MaxAdvance: size,
		Bounds:     Rect{MinX: 0, MinY: -size, MaxX: size, MaxY: 0},
	}
}

// Outline returns a square covering the middle 60% of the glyph box.
// Glyph 0 is empty, like a typical notdef without contours.
func (f *squareFont) Outline(id GlyphID, size float64) (*raster.Outline, error) {
	if f.fail[id] {
		return nil, fmt.Errorf("glyph %d: %w", id, errBrokenGlyph)
	}
	if id == 0 {
		return &raster.Outline{}, nil
	}
	s := float32(size)
	return raster.Rect(0.2*s, -0.8*s, 0.8*s, -0.2*s), nil
}

var errBrokenGlyph = errors.New("broken glyph")
