package sdfatlas

import (
	"strings"

	"github.com/gogpu/gputypes"
)

// Format is the pixel format of the atlas texture.
type Format uint8

const (
	// FormatR8 stores one distance byte per pixel.
	FormatR8 Format = iota

	// FormatRGBA8 replicates the distance into RGB with opaque alpha, for
	// pipelines that cannot sample single-channel textures.
	FormatRGBA8
)

// Channels returns the number of bytes per pixel, or 0 for an unknown format.
func (f Format) Channels() int {
	switch f {
	case FormatR8:
		return 1
	case FormatRGBA8:
		return 4
	default:
		return 0
	}
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatR8:
		return "r8"
	case FormatRGBA8:
		return "rgba8"
	default:
		return "unknown"
	}
}

// TextureFormat returns the GPU texture format matching f.
func (f Format) TextureFormat() gputypes.TextureFormat {
	if f == FormatRGBA8 {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatR8Unorm
}

// formatForChannels is the inverse of Format.Channels.
func formatForChannels(n int) (Format, bool) {
	switch n {
	case 1:
		return FormatR8, true
	case 4:
		return FormatRGBA8, true
	default:
		return 0, false
	}
}

// ParseFormat parses a format name as returned by Format.String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "r8":
		return FormatR8, nil
	case "rgba8":
		return FormatRGBA8, nil
	default:
		return 0, &ConfigError{Field: "Format", Reason: "unknown format " + s}
	}
}

// Config controls atlas generation.
type Config struct {
	// TextureSize is the side length of the square texture in pixels.
	// Default: 1024
	TextureSize int

	// Spread is the distance in texture pixels over which the field ramps
	// from 0 to 1. Each glyph keeps at least this much margin in its cell.
	// Default: 4
	Spread float64

	// Supersample is the rasterization resolution multiplier.
	// Default: 3
	Supersample int

	// Workers is the number of goroutines used per build.
	// 0 means GOMAXPROCS.
	Workers int

	// Format is the texture pixel format.
	// Default: FormatR8
	Format Format

	// PointSize fixes the point size instead of searching for the largest
	// one that fits. 0 means search.
	PointSize float64
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		TextureSize: 1024,
		Spread:      4,
		Supersample: 3,
		Format:      FormatR8,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TextureSize < 16 {
		return &ConfigError{Field: "TextureSize", Reason: "must be at least 16"}
	}
	if c.TextureSize > 16384 {
		return &ConfigError{Field: "TextureSize", Reason: "must be at most 16384"}
	}
	if c.Spread <= 0 {
		return &ConfigError{Field: "Spread", Reason: "must be positive"}
	}
	if c.Supersample < 1 {
		return &ConfigError{Field: "Supersample", Reason: "must be at least 1"}
	}
	if c.Supersample > 16 {
		return &ConfigError{Field: "Supersample", Reason: "must be at most 16"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "Workers", Reason: "must be non-negative"}
	}
	if c.Format.Channels() == 0 {
		return &ConfigError{Field: "Format", Reason: "unknown format"}
	}
	if c.PointSize < 0 {
		return &ConfigError{Field: "PointSize", Reason: "must be non-negative"}
	}
	return nil
}
