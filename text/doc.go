// Package text loads TrueType and OpenType fonts as atlas glyph sources.
//
// A [Source] exposes every glyph of a font to the atlas generator. Outlines
// and metrics come from golang.org/x/image/font/sfnt. [Source.Subset]
// restricts the atlas to the glyphs that a set of runes maps to, using the
// font's cmap as read by go-text/typesetting.
//
//	src, err := text.NewSource(goregular.TTF)
//	if err != nil {
//	    return err
//	}
//	ascii, err := src.Subset(charset.Runes(charset.ASCII))
//	if err != nil {
//	    return err
//	}
//	atlas, err := sdfatlas.NewGenerator(sdfatlas.DefaultConfig()).Generate(ctx, ascii)
package text
