package sdfatlas

import (
	"image"
	"image/png"
	"io"
)

// TexCoord is a normalized texture coordinate.
type TexCoord struct {
	U, V float32
}

// GlyphDescriptor locates one glyph in the atlas texture.
type GlyphDescriptor struct {
	GlyphID GlyphID

	// TopLeft and BottomRight bound the glyph's cell in [0,1] texture space.
	TopLeft     TexCoord
	BottomRight TexCoord
}

// FontAtlas is a generated signed distance field atlas.
//
// A FontAtlas is never modified after generation; a different font, size or
// spread produces a new atlas.
type FontAtlas struct {
	// FontName identifies the source font.
	FontName string

	// PointSize is the size the glyphs were rendered at.
	PointSize float64

	// Spread is the distance in texture pixels over which the field ramps
	// from 0 to 1.
	Spread float64

	// TextureSize is the side length of the square texture in pixels.
	TextureSize int

	// Format is the texture pixel format.
	Format Format

	// Glyphs holds one descriptor per glyph, in provider order.
	Glyphs []GlyphDescriptor

	// Texture holds TextureSize*TextureSize*Format.Channels() bytes,
	// row-major. Each byte is a quantized field value; 128 is the outline.
	Texture []byte
}

// CellSize returns the side length of one grid cell in pixels.
func (a *FontAtlas) CellSize() int {
	return CellSize(a.TextureSize, len(a.Glyphs))
}

// Index returns the position of glyph id in Glyphs, or -1.
func (a *FontAtlas) Index(id GlyphID) int {
	for i := range a.Glyphs {
		if a.Glyphs[i].GlyphID == id {
			return i
		}
	}
	return -1
}

// Lookup returns the descriptor of glyph id.
func (a *FontAtlas) Lookup(id GlyphID) (GlyphDescriptor, bool) {
	i := a.Index(id)
	if i < 0 {
		return GlyphDescriptor{}, false
	}
	return a.Glyphs[i], true
}

// Image returns the texture as an image sharing the atlas pixels.
// R8 atlases are returned as *image.Gray, RGBA8 atlases as *image.RGBA.
func (a *FontAtlas) Image() image.Image {
	r := image.Rect(0, 0, a.TextureSize, a.TextureSize)
	if a.Format == FormatRGBA8 {
		return &image.RGBA{Pix: a.Texture, Stride: 4 * a.TextureSize, Rect: r}
	}
	return &image.Gray{Pix: a.Texture, Stride: a.TextureSize, Rect: r}
}

// WritePNG encodes the texture as a PNG image.
func (a *FontAtlas) WritePNG(w io.Writer) error {
	return png.Encode(w, a.Image())
}
