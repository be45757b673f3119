package sdfatlas

import (
	"math"

	"github.com/gogpu/sdfatlas/raster"
)

// GlyphID identifies a glyph within its font.
type GlyphID uint16

// Rect is an axis-aligned box in pixels, y pointing down, relative to the
// glyph origin on the baseline.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool { return r.MaxX <= r.MinX || r.MaxY <= r.MinY }

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	if r.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return r
	}
	return Rect{
		MinX: math.Min(r.MinX, s.MinX),
		MinY: math.Min(r.MinY, s.MinY),
		MaxX: math.Max(r.MaxX, s.MaxX),
		MaxY: math.Max(r.MaxY, s.MaxY),
	}
}

// Metrics holds font-wide measurements at one point size, in pixels.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the tallest
	// glyph. Positive.
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the lowest
	// glyph. Positive.
	Descent float64

	// MaxAdvance is the widest horizontal advance of any glyph.
	MaxAdvance float64

	// Bounds is the font bounding box, y down.
	Bounds Rect
}

// GlyphBox returns the box every glyph of the font fits in: the font bounding
// box extended by the advance width and the ascent/descent band.
func (m Metrics) GlyphBox() Rect {
	return m.Bounds.Union(Rect{
		MinX: 0,
		MinY: -m.Ascent,
		MaxX: m.MaxAdvance,
		MaxY: m.Descent,
	})
}

// FontProvider exposes the glyphs of one font.
//
// Glyph indexes run from 0 to GlyphCount()-1 and determine the cell each
// glyph occupies in the atlas. Implementations must be safe for concurrent
// use; Outline is called from several goroutines during a build.
type FontProvider interface {
	// Name identifies the font in the persisted atlas.
	Name() string

	// GlyphCount returns the number of glyphs in the atlas.
	GlyphCount() int

	// GlyphID returns the font glyph id of the glyph at index i.
	GlyphID(i int) GlyphID

	// Metrics returns font-wide measurements at the given point size.
	Metrics(size float64) Metrics

	// Outline returns the glyph outline at the given point size in pixels,
	// y down, relative to the glyph origin on the baseline. Glyphs without
	// contours return an empty outline and no error.
	Outline(id GlyphID, size float64) (*raster.Outline, error)
}
