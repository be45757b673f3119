package text

import (
	"slices"

	"github.com/gogpu/sdfatlas"
	"github.com/gogpu/sdfatlas/raster"
)

// Subset is a view of a Source restricted to the glyphs a set of runes maps
// to. Glyph 0 (notdef) is always included, so text with unmapped runes can
// still be drawn. Glyph ids are sorted and unique.
type Subset struct {
	src     *Source
	ids     []sdfatlas.GlyphID
	runes   map[rune]sdfatlas.GlyphID
	missing []rune
}

// Subset selects the glyphs that runes map to through the font's cmap.
// Runes the font does not cover are reported by Missing.
func (s *Source) Subset(runes []rune) (*Subset, error) {
	cmap, err := s.cmap()
	if err != nil {
		return nil, err
	}

	sub := &Subset{
		src:   s,
		ids:   []sdfatlas.GlyphID{0},
		runes: make(map[rune]sdfatlas.GlyphID, len(runes)),
	}
	seen := map[sdfatlas.GlyphID]bool{0: true}
	for _, r := range runes {
		gid, ok := cmap.NominalGlyph(r)
		if !ok {
			sub.missing = append(sub.missing, r)
			continue
		}
		id := sdfatlas.GlyphID(gid)
		sub.runes[r] = id
		if !seen[id] {
			seen[id] = true
			sub.ids = append(sub.ids, id)
		}
	}
	slices.Sort(sub.ids)

	if len(sub.missing) > 0 {
		sdfatlas.Logger().Debug("text: runes not in font",
			"font", s.name, "missing", len(sub.missing))
	}
	return sub, nil
}

// Name returns the name of the underlying font.
func (s *Subset) Name() string { return s.src.Name() }

// GlyphCount returns the number of selected glyphs.
func (s *Subset) GlyphCount() int { return len(s.ids) }

// GlyphID returns the i-th selected glyph id.
func (s *Subset) GlyphID(i int) sdfatlas.GlyphID { return s.ids[i] }

// Metrics returns the font-wide metrics of the underlying font.
func (s *Subset) Metrics(size float64) sdfatlas.Metrics { return s.src.Metrics(size) }

// Outline returns the outline of glyph id from the underlying font.
func (s *Subset) Outline(id sdfatlas.GlyphID, size float64) (*raster.Outline, error) {
	return s.src.Outline(id, size)
}

// Glyph returns the glyph id r maps to, if r is covered.
func (s *Subset) Glyph(r rune) (sdfatlas.GlyphID, bool) {
	id, ok := s.runes[r]
	return id, ok
}

// Missing returns the requested runes the font does not cover, in request
// order.
func (s *Subset) Missing() []rune {
	return s.missing
}

var _ sdfatlas.FontProvider = (*Subset)(nil)
