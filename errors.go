package sdfatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for sdfatlas. The typed errors below match them via
// errors.Is.
var (
	// ErrInvalidFont is returned when a font has no glyphs or cannot be used.
	ErrInvalidFont = errors.New("sdfatlas: invalid font")

	// ErrAtlasOverflow is returned when no point size fits the texture.
	ErrAtlasOverflow = errors.New("sdfatlas: glyphs do not fit the atlas")

	// ErrFormat is returned when persisted atlas bytes cannot be decoded.
	ErrFormat = errors.New("sdfatlas: invalid atlas format")
)

// InvalidFontError reports an unusable font provider.
type InvalidFontError struct {
	Font   string
	Reason string
	Err    error
}

func (e *InvalidFontError) Error() string {
	msg := "sdfatlas: invalid font: " + e.Reason
	if e.Font != "" {
		msg = fmt.Sprintf("sdfatlas: invalid font %q: %s", e.Font, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidFontError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidFont.
func (e *InvalidFontError) Is(target error) bool { return target == ErrInvalidFont }

// AtlasOverflowError reports that no point size of at least 1 leaves the
// requested spread margin inside a grid cell.
type AtlasOverflowError struct {
	TextureSize int
	GlyphCount  int
	CellSize    int
	Spread      float64
	PointSize   float64 // non-zero when a fixed point size was requested
}

func (e *AtlasOverflowError) Error() string {
	if e.PointSize > 0 {
		return fmt.Sprintf("sdfatlas: %d glyphs at %gpt with spread %g do not fit %dpx cells of a %dpx texture",
			e.GlyphCount, e.PointSize, e.Spread, e.CellSize, e.TextureSize)
	}
	return fmt.Sprintf("sdfatlas: %d glyphs with spread %g do not fit %dpx cells of a %dpx texture",
		e.GlyphCount, e.Spread, e.CellSize, e.TextureSize)
}

// Is reports whether target is ErrAtlasOverflow.
func (e *AtlasOverflowError) Is(target error) bool { return target == ErrAtlasOverflow }

// RasterizationWarning records a glyph that could not be outlined.
// The glyph's cell is left empty; the build continues.
type RasterizationWarning struct {
	GlyphID GlyphID
	Err     error
}

func (w *RasterizationWarning) Error() string {
	return fmt.Sprintf("sdfatlas: glyph %d rasterized as empty: %v", w.GlyphID, w.Err)
}

func (w *RasterizationWarning) Unwrap() error { return w.Err }

// FormatError reports malformed or incompatible persisted atlas data.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return "sdfatlas: invalid atlas format: " + e.Reason + ": " + e.Err.Error()
	}
	return "sdfatlas: invalid atlas format: " + e.Reason
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "sdfatlas: invalid config." + e.Field + ": " + e.Reason
}
