package sdfatlas_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/sdfatlas"
	"github.com/gogpu/sdfatlas/charset"
	"github.com/gogpu/sdfatlas/text"
)

func TestGenerate_GoRegularASCII(t *testing.T) {
	src, err := text.NewSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewSource() error = %v", err)
	}
	sub, err := src.Subset(charset.Runes(charset.ASCII))
	if err != nil {
		t.Fatalf("Subset() error = %v", err)
	}
	if len(sub.Missing()) != 0 {
		t.Fatalf("Go Regular misses ASCII runes %q", sub.Missing())
	}

	cfg := sdfatlas.DefaultConfig()
	cfg.TextureSize = 256
	cfg.Spread = 2
	cfg.Supersample = 2
	atlas, err := sdfatlas.NewGenerator(cfg).Generate(context.Background(), sub)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// 95 printable runes plus notdef.
	n := sub.GlyphCount()
	if len(atlas.Glyphs) != n {
		t.Fatalf("len(Glyphs) = %d, want %d", len(atlas.Glyphs), n)
	}
	cols := sdfatlas.GridColumns(n)
	cell := sdfatlas.CellSize(cfg.TextureSize, n)
	if cols != 10 || cell != 25 {
		t.Errorf("grid = %d cols of %dpx, want 10 of 25px", cols, cell)
	}
	if atlas.PointSize < 1 {
		t.Errorf("PointSize = %g", atlas.PointSize)
	}

	for i, g := range atlas.Glyphs {
		if i > 0 && g.GlyphID <= atlas.Glyphs[i-1].GlyphID {
			t.Fatalf("glyph ids not increasing at %d", i)
		}
		du := g.BottomRight.U - g.TopLeft.U
		dv := g.BottomRight.V - g.TopLeft.V
		if du <= 0 || dv <= 0 || g.BottomRight.U > 1 || g.BottomRight.V > 1 {
			t.Errorf("glyph %d has bad rect %+v", g.GlyphID, g)
		}
	}

	// The cell of 'H' contains ink.
	h, ok := sub.Glyph('H')
	if !ok {
		t.Fatal("no glyph for H")
	}
	d, ok := atlas.Lookup(h)
	if !ok {
		t.Fatal("H not in atlas")
	}
	x0 := int(d.TopLeft.U * float32(cfg.TextureSize))
	y0 := int(d.TopLeft.V * float32(cfg.TextureSize))
	var inside int
	for y := y0; y < y0+cell; y++ {
		for x := x0; x < x0+cell; x++ {
			if atlas.Texture[y*cfg.TextureSize+x] > 128 {
				inside++
			}
		}
	}
	if inside == 0 {
		t.Error("H cell has no inside texels")
	}

	var buf bytes.Buffer
	if err := sdfatlas.Encode(&buf, atlas); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := sdfatlas.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(atlas, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
