package cache

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/gogpu/sdfatlas"
)

// Key identifies one atlas build. Two builds with equal keys produce equal
// atlases.
type Key struct {
	// Font identifies the font data, for example its name and file digest.
	Font string

	// Charset is the character set expression, empty for every glyph.
	Charset string

	TextureSize int
	Spread      float64
	Supersample int
	Format      sdfatlas.Format

	// PointSize is the fixed point size, 0 for the fitted one.
	PointSize float64
}

// NewKey returns the key of building font with cfg.
func NewKey(font, charset string, cfg sdfatlas.Config) Key {
	return Key{
		Font:        font,
		Charset:     charset,
		TextureSize: cfg.TextureSize,
		Spread:      cfg.Spread,
		Supersample: cfg.Supersample,
		Format:      cfg.Format,
		PointSize:   cfg.PointSize,
	}
}

// String returns a canonical text form of k, usable as a persistent key.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(k.Font))
	b.WriteByte('/')
	b.WriteString(strconv.Quote(k.Charset))
	b.WriteByte('/')
	b.WriteString(strconv.Itoa(k.TextureSize))
	b.WriteString("/s")
	b.WriteString(strconv.FormatFloat(k.Spread, 'g', -1, 64))
	b.WriteString("/x")
	b.WriteString(strconv.Itoa(k.Supersample))
	b.WriteByte('/')
	b.WriteString(k.Format.String())
	b.WriteString("/p")
	b.WriteString(strconv.FormatFloat(k.PointSize, 'g', -1, 64))
	return b.String()
}

// hash computes the FNV-1a hash of k for shard selection.
func (k Key) hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(k.String())) // fnv.Write never returns an error
	return h.Sum64()
}
