package text

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/sdfatlas"
	"github.com/gogpu/sdfatlas/raster"
)

func loadGoRegular(t *testing.T) *Source {
	t.Helper()
	src, err := NewSource(goregular.TTF)
	if err != nil {
		t.Fatalf("NewSource(goregular) error = %v", err)
	}
	return src
}

func TestNewSource(t *testing.T) {
	src := loadGoRegular(t)

	if src.Name() != "Go Regular" {
		t.Errorf("Name() = %q, want Go Regular", src.Name())
	}
	if src.GlyphCount() < 95 {
		t.Errorf("GlyphCount() = %d, want at least 95", src.GlyphCount())
	}
	if src.GlyphID(42) != 42 {
		t.Errorf("GlyphID(42) = %d", src.GlyphID(42))
	}
}

func TestNewSource_Errors(t *testing.T) {
	if _, err := NewSource(nil); !errors.Is(err, ErrEmptyFontData) {
		t.Errorf("NewSource(nil) error = %v, want ErrEmptyFontData", err)
	}
	_, err := NewSource([]byte("definitely not a font"))
	if !errors.Is(err, sdfatlas.ErrInvalidFont) {
		t.Errorf("NewSource(garbage) error = %v, want ErrInvalidFont", err)
	}
}

func TestNewSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "go.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}
	src, err := NewSourceFromFile(path)
	if err != nil {
		t.Fatalf("NewSourceFromFile() error = %v", err)
	}
	if src.Name() != "Go Regular" {
		t.Errorf("Name() = %q", src.Name())
	}

	if _, err := NewSourceFromFile(filepath.Join(t.TempDir(), "missing.ttf")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestSource_Metrics(t *testing.T) {
	src := loadGoRegular(t)

	m := src.Metrics(32)
	if m.Ascent <= 0 || m.Descent <= 0 || m.MaxAdvance <= 0 {
		t.Fatalf("Metrics(32) = %+v, want positive ascent, descent and advance", m)
	}
	if m.Ascent > 64 || m.MaxAdvance > 96 {
		t.Errorf("Metrics(32) = %+v, implausibly large", m)
	}
	if m.Bounds.IsEmpty() || m.Bounds.MinY >= 0 {
		t.Errorf("Bounds = %+v, want non-empty box above the baseline", m.Bounds)
	}

	// Metrics scale linearly with the size.
	m2 := src.Metrics(64)
	if diff := m2.Ascent - 2*m.Ascent; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Metrics(64).Ascent = %v, want %v", m2.Ascent, 2*m.Ascent)
	}
}

func TestSource_Outline(t *testing.T) {
	src := loadGoRegular(t)

	id, ok, err := src.GlyphIndex('H')
	if err != nil || !ok {
		t.Fatalf("GlyphIndex('H') = %d, %v, %v", id, ok, err)
	}
	o, err := src.Outline(id, 40)
	if err != nil {
		t.Fatalf("Outline() error = %v", err)
	}
	if o.IsEmpty() {
		t.Fatal("outline of H is empty")
	}
	if o.Segments[0].Op != raster.OpMoveTo {
		t.Errorf("first segment = %v, want MoveTo", o.Segments[0].Op)
	}
	minPt, maxPt, ok := o.Bounds()
	if !ok {
		t.Fatal("Bounds() not ok")
	}
	// A capital letter sits on the baseline and extends upward (negative y).
	if maxPt.Y > 0.5 || minPt.Y > -20 {
		t.Errorf("H bounds = %v..%v, want glyph above the baseline", minPt, maxPt)
	}
	if m := src.Metrics(40); float64(-minPt.Y) > m.Ascent+0.5 {
		t.Errorf("H taller (%v) than ascent %v", -minPt.Y, m.Ascent)
	}
}

func TestSource_OutlineEmptyGlyph(t *testing.T) {
	src := loadGoRegular(t)
	id, ok, err := src.GlyphIndex(' ')
	if err != nil || !ok {
		t.Fatalf("GlyphIndex(' ') = %d, %v, %v", id, ok, err)
	}
	o, err := src.Outline(id, 20)
	if err != nil {
		t.Fatalf("Outline(space) error = %v", err)
	}
	if !o.IsEmpty() {
		t.Errorf("space outline has %d segments, want 0", len(o.Segments))
	}
}

func TestSource_OutlineInvalidGlyph(t *testing.T) {
	src := loadGoRegular(t)
	if _, err := src.Outline(sdfatlas.GlyphID(src.GlyphCount()+10), 20); err == nil {
		t.Error("Outline() of a glyph past the end should fail")
	}
}

func TestSource_ConcurrentOutline(t *testing.T) {
	src := loadGoRegular(t)
	want, err := src.Outline(40, 24)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range 100 {
				if _, err := src.Outline(sdfatlas.GlyphID(id), 24); err != nil {
					t.Errorf("Outline(%d) error = %v", id, err)
					return
				}
			}
			got, _ := src.Outline(40, 24)
			if len(got.Segments) != len(want.Segments) {
				t.Errorf("concurrent outline differs")
			}
		}()
	}
	wg.Wait()
}

func TestMaxAdvance(t *testing.T) {
	advances := []fixed.Int26_6{fixed.I(5), fixed.I(12), fixed.I(7)}

	got, err := maxAdvance(len(advances), func(i int) (fixed.Int26_6, error) {
		return advances[i], nil
	})
	if err != nil || got != 12 {
		t.Errorf("maxAdvance() = %v, %v, want 12", got, err)
	}

	errHmtx := errors.New("bad hmtx")
	_, err = maxAdvance(len(advances), func(i int) (fixed.Int26_6, error) {
		if i == 2 {
			return 0, errHmtx
		}
		return advances[i], nil
	})
	if !errors.Is(err, errHmtx) {
		t.Errorf("maxAdvance() error = %v, want the advance error", err)
	}
}
