package sdfatlas

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
)

// Persisted atlas layout, little endian:
//
//	magic        [4]byte "SDFA"
//	version      uint16
//	nameLen      uint16
//	name         [nameLen]byte
//	pointSize    float64
//	spread       float64
//	textureSize  uint32
//	channels     uint8
//	glyphCount   uint32
//	glyphs       [glyphCount]{id uint32; u0, v0, u1, v1 float32}
//	texture      [textureSize*textureSize*channels]byte
//	crc          uint32 (IEEE, over everything above)
const (
	// FormatVersion is the version written by Encode. Decode rejects any
	// other version.
	FormatVersion uint16 = 1

	magic          = "SDFA"
	headerFixed    = 4 + 2 + 2 + 8 + 8 + 4 + 1 + 4 // without the name
	descriptorSize = 4 + 4*4
	crcSize        = 4

	maxTextureSize = 16384
)

// Encode writes a in the persisted atlas format.
func Encode(w io.Writer, a *FontAtlas) error {
	data, err := a.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("sdfatlas: write atlas: %w", err)
	}
	return nil
}

// Decode reads an atlas written by Encode. Any structural problem is
// reported as a *FormatError; callers should then regenerate the atlas from
// the source font.
func Decode(r io.Reader) (*FontAtlas, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("sdfatlas: read atlas: %w", err)
	}
	a := new(FontAtlas)
	if err := a.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return a, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (a *FontAtlas) MarshalBinary() ([]byte, error) {
	ch := a.Format.Channels()
	switch {
	case ch == 0:
		return nil, &FormatError{Reason: "unknown texture format"}
	case len(a.Glyphs) == 0:
		return nil, &FormatError{Reason: "atlas has no glyphs"}
	case len(a.FontName) > math.MaxUint16:
		return nil, &FormatError{Reason: "font name too long"}
	case a.TextureSize <= 0 || a.TextureSize > maxTextureSize:
		return nil, &FormatError{Reason: fmt.Sprintf("texture size %d out of range", a.TextureSize)}
	case len(a.Texture) != a.TextureSize*a.TextureSize*ch:
		return nil, &FormatError{Reason: fmt.Sprintf("texture has %d bytes, want %d",
			len(a.Texture), a.TextureSize*a.TextureSize*ch)}
	}

	size := headerFixed + len(a.FontName) + len(a.Glyphs)*descriptorSize + len(a.Texture) + crcSize
	b := make([]byte, 0, size)
	b = append(b, magic...)
	b = binary.LittleEndian.AppendUint16(b, FormatVersion)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(a.FontName)))
	b = append(b, a.FontName...)
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(a.PointSize))
	b = binary.LittleEndian.AppendUint64(b, math.Float64bits(a.Spread))
	b = binary.LittleEndian.AppendUint32(b, uint32(a.TextureSize))
	b = append(b, byte(ch))
	b = binary.LittleEndian.AppendUint32(b, uint32(len(a.Glyphs)))
	for _, g := range a.Glyphs {
		b = binary.LittleEndian.AppendUint32(b, uint32(g.GlyphID))
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(g.TopLeft.U))
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(g.TopLeft.V))
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(g.BottomRight.U))
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(g.BottomRight.V))
	}
	b = append(b, a.Texture...)
	b = binary.LittleEndian.AppendUint32(b, crc32.ChecksumIEEE(b))
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. On error a is left
// unchanged.
func (a *FontAtlas) UnmarshalBinary(data []byte) error {
	d := decoder{buf: data}

	if string(d.bytes(len(magic))) != magic {
		if d.short {
			return &FormatError{Reason: "truncated header"}
		}
		return &FormatError{Reason: "bad magic"}
	}
	if v := d.uint16(); !d.short && v != FormatVersion {
		return &FormatError{Reason: fmt.Sprintf("version %d, want %d", v, FormatVersion)}
	}
	name := string(d.bytes(int(d.uint16())))
	pointSize := math.Float64frombits(d.uint64())
	spread := math.Float64frombits(d.uint64())
	textureSize := d.uint32()
	channels := d.uint8()
	glyphCount := d.uint32()
	if d.short {
		return &FormatError{Reason: "truncated header"}
	}

	format, ok := formatForChannels(int(channels))
	switch {
	case !ok:
		return &FormatError{Reason: fmt.Sprintf("unsupported channel count %d", channels)}
	case textureSize == 0 || textureSize > maxTextureSize:
		return &FormatError{Reason: fmt.Sprintf("texture size %d out of range", textureSize)}
	case glyphCount == 0:
		return &FormatError{Reason: "atlas has no glyphs"}
	case !(pointSize > 0) || math.IsInf(pointSize, 0):
		return &FormatError{Reason: fmt.Sprintf("invalid point size %g", pointSize)}
	}

	t := int(textureSize)
	texLen := t * t * format.Channels()
	want := d.off + int(glyphCount)*descriptorSize + texLen + crcSize
	switch {
	case uint64(glyphCount) > uint64(len(data)) || len(data) < want:
		return &FormatError{Reason: "truncated body"}
	case len(data) > want:
		return &FormatError{Reason: fmt.Sprintf("%d trailing bytes", len(data)-want)}
	}
	body := len(data) - crcSize
	if sum := binary.LittleEndian.Uint32(data[body:]); sum != crc32.ChecksumIEEE(data[:body]) {
		return &FormatError{Reason: "checksum mismatch"}
	}

	n := int(glyphCount)
	cols := GridColumns(n)
	cell := t / cols
	if cell < 1 {
		return &FormatError{Reason: fmt.Sprintf("%d glyphs do not fit a %dpx texture", n, t)}
	}
	if !(spread > 0) || 2*spread >= float64(cell) {
		return &FormatError{Reason: fmt.Sprintf("spread %g invalid for %dpx cells", spread, cell)}
	}

	glyphs := make([]GlyphDescriptor, n)
	for i := range glyphs {
		id := d.uint32()
		g := GlyphDescriptor{
			TopLeft:     TexCoord{U: math.Float32frombits(d.uint32()), V: math.Float32frombits(d.uint32())},
			BottomRight: TexCoord{U: math.Float32frombits(d.uint32()), V: math.Float32frombits(d.uint32())},
		}
		if id > math.MaxUint16 {
			return &FormatError{Reason: fmt.Sprintf("glyph %d: id %d out of range", i, id)}
		}
		g.GlyphID = GlyphID(id)
		if !inUnitSquare(g.TopLeft) || !inUnitSquare(g.BottomRight) {
			return &FormatError{Reason: fmt.Sprintf("glyph %d: rectangle outside [0,1]", i)}
		}
		expected := cellDescriptor(g.GlyphID, (i%cols)*cell, (i/cols)*cell, cell, t)
		if g != expected {
			return &FormatError{Reason: fmt.Sprintf("glyph %d: rectangle does not match grid cell", i)}
		}
		glyphs[i] = g
	}
	texture := make([]byte, texLen)
	copy(texture, d.bytes(texLen))

	*a = FontAtlas{
		FontName:    name,
		PointSize:   pointSize,
		Spread:      spread,
		TextureSize: t,
		Format:      format,
		Glyphs:      glyphs,
		Texture:     texture,
	}
	return nil
}

func inUnitSquare(c TexCoord) bool {
	return c.U >= 0 && c.U <= 1 && c.V >= 0 && c.V <= 1
}

// decoder reads little-endian values from buf. Reads past the end return
// zero values and set short.
type decoder struct {
	buf   []byte
	off   int
	short bool
}

func (d *decoder) bytes(n int) []byte {
	if d.short || n < 0 || len(d.buf)-d.off < n {
		d.short = true
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) uint8() uint8 {
	b := d.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) uint16() uint16 {
	b := d.bytes(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (d *decoder) uint32() uint32 {
	b := d.bytes(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) uint64() uint64 {
	b := d.bytes(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}
