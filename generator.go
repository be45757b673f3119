package sdfatlas

import (
	"context"
	"time"

	"github.com/gogpu/sdfatlas/internal/parallel"
	"github.com/gogpu/sdfatlas/raster"
	"github.com/gogpu/sdfatlas/sdf"
)

// Report describes one atlas build.
type Report struct {
	// Warnings lists glyphs whose outline could not be loaded. Their cells
	// are present but empty.
	Warnings []*RasterizationWarning

	// Columns is the number of grid columns (and rows).
	Columns int

	// CellSize is the side length of one grid cell in pixels.
	CellSize int

	// Elapsed is the wall time of the build.
	Elapsed time.Duration
}

// Generator builds font atlases.
//
// A Generator may be reused for several fonts and is safe for concurrent
// use. Each build runs its glyphs on its own worker pool.
type Generator struct {
	cfg        Config
	rasterizer *raster.Rasterizer
	computer   *sdf.Computer
}

// NewGenerator creates a generator. The configuration is validated by
// Generate.
func NewGenerator(cfg Config) *Generator {
	return &Generator{
		cfg:        cfg,
		rasterizer: raster.NewRasterizer(),
		computer:   sdf.NewComputer(),
	}
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate builds the atlas of every glyph of p.
//
// Generation either returns a complete atlas or an error; a canceled context
// aborts the build and returns the context error.
func (g *Generator) Generate(ctx context.Context, p FontProvider) (*FontAtlas, error) {
	atlas, _, err := g.GenerateReport(ctx, p)
	return atlas, err
}

// GenerateReport is like Generate and also returns a build report.
func (g *Generator) GenerateReport(ctx context.Context, p FontProvider) (*FontAtlas, *Report, error) {
	start := time.Now()
	cfg := g.cfg
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	n := p.GlyphCount()
	if n <= 0 {
		return nil, nil, &InvalidFontError{Font: p.Name(), Reason: "font has no glyphs"}
	}

	size, err := g.pointSize(ctx, p, n)
	if err != nil {
		return nil, nil, err
	}

	cols := GridColumns(n)
	cell := cfg.TextureSize / cols
	box := p.Metrics(size).GlyphBox()
	// Center the font box in the cell; fits guarantees spread pixels of
	// margin on every side.
	origin := raster.Point{
		X: float32((float64(cell)-box.Width())/2 - box.MinX),
		Y: float32((float64(cell)-box.Height())/2 - box.MinY),
	}

	t := cfg.TextureSize
	ch := cfg.Format.Channels()
	atlas := &FontAtlas{
		FontName:    p.Name(),
		PointSize:   size,
		Spread:      cfg.Spread,
		TextureSize: t,
		Format:      cfg.Format,
		Glyphs:      make([]GlyphDescriptor, n),
		Texture:     make([]byte, t*t*ch),
	}
	warnings := make([]*RasterizationWarning, n)

	pool := parallel.NewPool(cfg.Workers)
	defer pool.Close()

	err = pool.ForEach(ctx, n, func(i int) {
		id := p.GlyphID(i)
		outline, err := p.Outline(id, size)
		if err != nil {
			warnings[i] = &RasterizationWarning{GlyphID: id, Err: err}
			outline = nil
		}
		mask := g.rasterizer.Rasterize(outline, origin, cell, cfg.Supersample)
		field := g.computer.Compute(mask, cell, cfg.Supersample, cfg.Spread)

		x0, y0 := (i%cols)*cell, (i/cols)*cell
		atlas.writeCell(field, x0, y0)
		atlas.Glyphs[i] = cellDescriptor(id, x0, y0, cell, t)
	})
	if err != nil {
		return nil, nil, err
	}

	report := &Report{
		Columns:  cols,
		CellSize: cell,
	}
	log := Logger()
	for _, w := range warnings {
		if w == nil {
			continue
		}
		log.Warn("sdfatlas: glyph rasterized as empty", "font", p.Name(), "glyph", w.GlyphID, "err", w.Err)
		report.Warnings = append(report.Warnings, w)
	}
	report.Elapsed = time.Since(start)

	log.Info("sdfatlas: atlas generated",
		"font", p.Name(),
		"glyphs", n,
		"size", size,
		"cell", cell,
		"texture", t,
		"warnings", len(report.Warnings),
		"elapsed", report.Elapsed)
	return atlas, report, nil
}

// pointSize returns the configured point size, checked against the cell, or
// searches for the largest one that fits.
func (g *Generator) pointSize(ctx context.Context, p FontProvider, n int) (float64, error) {
	cfg := g.cfg
	if cfg.PointSize == 0 {
		return FitPointSize(ctx, p, cfg.TextureSize, cfg.Spread)
	}
	cell := CellSize(cfg.TextureSize, n)
	if 2*cfg.Spread >= float64(cell) || !fits(p.Metrics(cfg.PointSize), cell, cfg.Spread) {
		return 0, &AtlasOverflowError{
			TextureSize: cfg.TextureSize,
			GlyphCount:  n,
			CellSize:    cell,
			Spread:      cfg.Spread,
			PointSize:   cfg.PointSize,
		}
	}
	return cfg.PointSize, nil
}

// writeCell quantizes field into the texture at (x0, y0). Cells of distinct
// glyphs never overlap, so concurrent calls write disjoint bytes.
func (a *FontAtlas) writeCell(field *sdf.Field, x0, y0 int) {
	ch := a.Format.Channels()
	stride := a.TextureSize * ch
	for y := range field.Size {
		row := a.Texture[(y0+y)*stride+x0*ch : (y0+y)*stride+(x0+field.Size)*ch]
		src := field.Pix[y*field.Size : (y+1)*field.Size]
		for x, v := range src {
			q := sdf.Quantize(v)
			if ch == 1 {
				row[x] = q
				continue
			}
			px := row[x*4 : x*4+4]
			px[0], px[1], px[2], px[3] = q, q, q, 0xff
		}
	}
}

// cellDescriptor returns the descriptor of the cell at (x0, y0).
func cellDescriptor(id GlyphID, x0, y0, cell, textureSize int) GlyphDescriptor {
	t := float32(textureSize)
	return GlyphDescriptor{
		GlyphID:     id,
		TopLeft:     TexCoord{U: float32(x0) / t, V: float32(y0) / t},
		BottomRight: TexCoord{U: float32(x0+cell) / t, V: float32(y0+cell) / t},
	}
}
