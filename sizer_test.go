package sdfatlas

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestGridColumns(t *testing.T) {
	tests := []struct {
		n, want int
	}{
		{0, 0},
		{1, 1},
		{2, 2},
		{4, 2},
		{5, 3},
		{95, 10},
		{100, 10},
		{101, 11},
		{65536, 256},
		{65537, 257},
	}
	for _, tt := range tests {
		if got := GridColumns(tt.n); got != tt.want {
			t.Errorf("GridColumns(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestCellSize(t *testing.T) {
	if got := CellSize(1024, 95); got != 102 {
		t.Errorf("CellSize(1024, 95) = %d, want 102", got)
	}
	if got := CellSize(1024, 0); got != 0 {
		t.Errorf("CellSize(1024, 0) = %d, want 0", got)
	}
}

func TestFitPointSize(t *testing.T) {
	tests := []struct {
		name    string
		texture int
		glyphs  int
		spread  float64
		want    float64
	}{
		// cellSize 102, largest P with P + 8 <= 102.
		{"ascii in 1024", 1024, 95, 4, 94},
		{"single glyph", 64, 1, 4, 56},
		{"fractional spread", 100, 4, 2.5, 45},
		{"tight", 16, 1, 7.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &squareFont{name: "square", count: tt.glyphs}
			got, err := FitPointSize(context.Background(), f, tt.texture, tt.spread)
			if err != nil {
				t.Fatalf("FitPointSize() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FitPointSize() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitPointSize_Overflow(t *testing.T) {
	tests := []struct {
		name    string
		texture int
		glyphs  int
		spread  float64
	}{
		{"one pixel cells", 16, 95, 8},
		{"spread fills cell", 64, 4, 16},
		{"nothing left for the glyph", 16, 1, 7.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &squareFont{name: "square", count: tt.glyphs}
			_, err := FitPointSize(context.Background(), f, tt.texture, tt.spread)
			if !errors.Is(err, ErrAtlasOverflow) {
				t.Fatalf("FitPointSize() error = %v, want ErrAtlasOverflow", err)
			}
			var oe *AtlasOverflowError
			if !errors.As(err, &oe) {
				t.Fatalf("error %T is not *AtlasOverflowError", err)
			}
			if oe.GlyphCount != tt.glyphs || oe.TextureSize != tt.texture {
				t.Errorf("overflow error = %+v", oe)
			}
		})
	}
}

func TestFitPointSize_InvalidSpread(t *testing.T) {
	for _, spread := range []float64{0, -4, math.NaN(), math.Inf(1)} {
		_, err := FitPointSize(context.Background(), &squareFont{name: "square", count: 10}, 128, spread)
		var ce *ConfigError
		if !errors.As(err, &ce) || ce.Field != "Spread" {
			t.Errorf("FitPointSize(spread=%g) error = %v, want Spread ConfigError", spread, err)
		}
	}
}

func TestFitPointSize_NoGlyphs(t *testing.T) {
	_, err := FitPointSize(context.Background(), &squareFont{name: "empty"}, 1024, 4)
	if !errors.Is(err, ErrInvalidFont) {
		t.Fatalf("FitPointSize() error = %v, want ErrInvalidFont", err)
	}
}

func TestFitPointSize_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FitPointSize(ctx, &squareFont{name: "square", count: 95}, 1024, 4)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("FitPointSize() error = %v, want context.Canceled", err)
	}
}

func TestMetrics_GlyphBox(t *testing.T) {
	m := Metrics{
		Ascent:     10,
		Descent:    3,
		MaxAdvance: 8,
		Bounds:     Rect{MinX: -1, MinY: -9, MaxX: 7, MaxY: 2},
	}
	want := Rect{MinX: -1, MinY: -10, MaxX: 8, MaxY: 3}
	if got := m.GlyphBox(); got != want {
		t.Errorf("GlyphBox() = %+v, want %+v", got, want)
	}

	// An empty bounding box contributes nothing.
	m.Bounds = Rect{}
	if got := m.GlyphBox(); got != (Rect{MinX: 0, MinY: -10, MaxX: 8, MaxY: 3}) {
		t.Errorf("GlyphBox() with empty bounds = %+v", got)
	}
}
