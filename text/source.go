package text

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	gotext "github.com/go-text/typesetting/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/sdfatlas"
	"github.com/gogpu/sdfatlas/raster"
)

// Source is a parsed font exposing all of its glyphs; glyph index i is
// glyph id i.
//
// Source is safe for concurrent use. Each call borrows its own sfnt.Buffer
// from a pool.
type Source struct {
	name string
	data []byte
	font *opentype.Font

	// Font-wide metrics in font units, scaled per query.
	upem       float64
	ascent     float64
	descent    float64
	maxAdvance float64
	bounds     sdfatlas.Rect

	buffers sync.Pool

	// cmap is parsed on first use by Subset.
	cmap func() (*gotext.Font, error)
}

// NewSource parses TTF or OTF data. The data slice is copied and can be
// reused after this call.
func NewSource(data []byte) (*Source, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}
	data = bytes.Clone(data)

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, &sdfatlas.InvalidFontError{Reason: "parse", Err: err}
	}

	s := &Source{
		data: data,
		font: f,
		buffers: sync.Pool{
			New: func() any { return new(sfnt.Buffer) },
		},
	}
	s.cmap = sync.OnceValues(func() (*gotext.Font, error) {
		face, err := gotext.ParseTTF(bytes.NewReader(s.data))
		if err != nil {
			return nil, fmt.Errorf("text: parse cmap: %w", err)
		}
		return face.Font, nil
	})

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSourceFromFile loads a Source from a font file path.
func NewSourceFromFile(path string) (*Source, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}
	return NewSource(data)
}

// load reads the name and the font-wide metrics at ppem = unitsPerEm, which
// yields values in font units.
func (s *Source) load() error {
	var buf sfnt.Buffer

	s.name = fontName(s.font, &buf)
	if s.font.NumGlyphs() == 0 {
		return &sdfatlas.InvalidFontError{Font: s.name, Reason: "font has no glyphs"}
	}

	upem := s.font.UnitsPerEm()
	if upem == 0 {
		return &sdfatlas.InvalidFontError{Font: s.name, Reason: "units per em is zero"}
	}
	s.upem = float64(upem)
	ppem := fixed.I(int(upem))

	m, err := s.font.Metrics(&buf, ppem, font.HintingNone)
	if err != nil {
		return &sdfatlas.InvalidFontError{Font: s.name, Reason: "metrics", Err: err}
	}
	s.ascent = fixedToFloat64(m.Ascent)
	s.descent = fixedToFloat64(m.Descent)

	b, err := s.font.Bounds(&buf, ppem, font.HintingNone)
	if err != nil {
		return &sdfatlas.InvalidFontError{Font: s.name, Reason: "bounds", Err: err}
	}
	s.bounds = sdfatlas.Rect{
		MinX: fixedToFloat64(b.Min.X),
		MinY: fixedToFloat64(b.Min.Y),
		MaxX: fixedToFloat64(b.Max.X),
		MaxY: fixedToFloat64(b.Max.Y),
	}

	s.maxAdvance, err = maxAdvance(s.font.NumGlyphs(), func(i int) (fixed.Int26_6, error) {
		return s.font.GlyphAdvance(&buf, sfnt.GlyphIndex(i), ppem, font.HintingNone)
	})
	if err != nil {
		return &sdfatlas.InvalidFontError{Font: s.name, Reason: "advance", Err: err}
	}
	return nil
}

// maxAdvance returns the largest of the n glyph advances. A glyph whose
// advance cannot be read fails the whole font, since the glyph box would
// otherwise be understated.
func maxAdvance(n int, advance func(i int) (fixed.Int26_6, error)) (float64, error) {
	var m float64
	for i := range n {
		adv, err := advance(i)
		if err != nil {
			return 0, fmt.Errorf("glyph %d: %w", i, err)
		}
		m = max(m, fixedToFloat64(adv))
	}
	return m, nil
}

// fontName returns the full font name, falling back to the family name.
func fontName(f *opentype.Font, buf *sfnt.Buffer) string {
	for _, id := range []sfnt.NameID{sfnt.NameIDFull, sfnt.NameIDFamily} {
		if name, err := f.Name(buf, id); err == nil && name != "" {
			return name
		}
	}
	return "unnamed"
}

// Name returns the full font name.
func (s *Source) Name() string {
	return s.name
}

// GlyphCount returns the number of glyphs in the font.
func (s *Source) GlyphCount() int {
	return s.font.NumGlyphs()
}

// GlyphID returns i.
func (s *Source) GlyphID(i int) sdfatlas.GlyphID {
	return sdfatlas.GlyphID(i)
}

// Metrics returns the font-wide metrics at size pixels per em.
func (s *Source) Metrics(size float64) sdfatlas.Metrics {
	k := size / s.upem
	return sdfatlas.Metrics{
		Ascent:     s.ascent * k,
		Descent:    s.descent * k,
		MaxAdvance: s.maxAdvance * k,
		Bounds: sdfatlas.Rect{
			MinX: s.bounds.MinX * k,
			MinY: s.bounds.MinY * k,
			MaxX: s.bounds.MaxX * k,
			MaxY: s.bounds.MaxY * k,
		},
	}
}

// Outline returns the outline of glyph id at size pixels per em, y down,
// relative to the glyph origin.
func (s *Source) Outline(id sdfatlas.GlyphID, size float64) (*raster.Outline, error) {
	buf := s.buffers.Get().(*sfnt.Buffer)
	defer s.buffers.Put(buf)

	segments, err := s.font.LoadGlyph(buf, sfnt.GlyphIndex(id), fixed.Int26_6(size*64), nil)
	if err != nil {
		return nil, fmt.Errorf("text: load glyph %d: %w", id, err)
	}

	// segments aliases buf; copy before the buffer returns to the pool.
	out := &raster.Outline{Segments: make([]raster.Segment, 0, len(segments))}
	for _, seg := range segments {
		var rs raster.Segment
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rs.Op = raster.OpMoveTo
		case sfnt.SegmentOpLineTo:
			rs.Op = raster.OpLineTo
		case sfnt.SegmentOpQuadTo:
			rs.Op = raster.OpQuadTo
		case sfnt.SegmentOpCubeTo:
			rs.Op = raster.OpCubeTo
		default:
			continue
		}
		for i, p := range seg.Args {
			rs.Args[i] = raster.Point{X: float32(p.X) / 64, Y: float32(p.Y) / 64}
		}
		out.Segments = append(out.Segments, rs)
	}
	return out, nil
}

// GlyphIndex returns the glyph the font's cmap maps r to.
func (s *Source) GlyphIndex(r rune) (sdfatlas.GlyphID, bool, error) {
	cmap, err := s.cmap()
	if err != nil {
		return 0, false, err
	}
	gid, ok := cmap.NominalGlyph(r)
	return sdfatlas.GlyphID(gid), ok, nil
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

var _ sdfatlas.FontProvider = (*Source)(nil)
