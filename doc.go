// Package sdfatlas builds signed distance field font atlases for GPU text
// rendering.
//
// # Overview
//
// Every glyph of a font is rasterized into a supersampled coverage mask,
// converted into a normalized signed distance field and written into its own
// cell of a single square texture. Each glyph gets a [GlyphDescriptor] with
// the normalized texture rectangle of its cell. A renderer samples the
// texture with a smoothstep around 0.5 to draw crisp text at any scale with
// one draw call per string.
//
// # Quick Start
//
//	src, err := text.NewSource(goregular.TTF)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gen := sdfatlas.NewGenerator(sdfatlas.DefaultConfig())
//	atlas, err := gen.Generate(ctx, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Persist the atlas; Decode restores an identical value.
//	err = sdfatlas.Encode(f, atlas)
//
// # Pipeline
//
//   - [FitPointSize] finds the largest point size whose glyph box plus the
//     spread margin fits one grid cell.
//   - [raster.Rasterizer] fills each glyph outline into a coverage mask.
//   - [sdf.Computer] turns the mask into a distance field of the cell size.
//   - [Generator] lays the cells out on a grid and runs the glyphs in
//     parallel.
//   - [Encode] and [Decode] persist the result in a versioned binary format.
//
// Sub-packages: text (font sources), charset (character set expressions),
// cache (in-memory atlas cache) and store (sqlite-backed persistence).
package sdfatlas
