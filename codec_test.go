package sdfatlas

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func generateSmall(t *testing.T, format Format) *FontAtlas {
	t.Helper()
	cfg := smallConfig()
	cfg.Format = format
	atlas, err := NewGenerator(cfg).Generate(context.Background(), &squareFont{name: "square", count: 10})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return atlas
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatR8, FormatRGBA8} {
		t.Run(format.String(), func(t *testing.T) {
			atlas := generateSmall(t, format)

			var buf bytes.Buffer
			if err := Encode(&buf, atlas); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if diff := cmp.Diff(atlas, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCodec_Layout(t *testing.T) {
	atlas := generateSmall(t, FormatR8)
	data, err := atlas.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	if string(data[:4]) != "SDFA" {
		t.Errorf("magic = %q", data[:4])
	}
	if v := binary.LittleEndian.Uint16(data[4:]); v != FormatVersion {
		t.Errorf("version = %d, want %d", v, FormatVersion)
	}
	want := headerFixed + len("square") + 10*descriptorSize + 128*128 + crcSize
	if len(data) != want {
		t.Errorf("encoded length = %d, want %d", len(data), want)
	}
}

// reseal recomputes the trailing checksum after a deliberate edit.
func reseal(b []byte) []byte {
	body := len(b) - crcSize
	binary.LittleEndian.PutUint32(b[body:], crc32.ChecksumIEEE(b[:body]))
	return b
}

func TestCodec_DecodeErrors(t *testing.T) {
	atlas := generateSmall(t, FormatR8)
	good, err := atlas.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	edit := func(fn func(b []byte) []byte) []byte {
		return fn(bytes.Clone(good))
	}

	// Field offsets for the font name "square".
	const (
		spreadOff   = 8 + 6 + 8
		channelsOff = 8 + 6 + 8 + 8 + 4
		countOff    = channelsOff + 1
		glyphsOff   = countOff + 4
	)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short magic", good[:3]},
		{"bad magic", edit(func(b []byte) []byte { b[0] = 'X'; return b })},
		{"version mismatch", edit(func(b []byte) []byte {
			binary.LittleEndian.PutUint16(b[4:], FormatVersion+1)
			return reseal(b)
		})},
		{"truncated header", good[:20]},
		{"truncated descriptors", good[:glyphsOff+7]},
		{"truncated texture", good[:len(good)-100]},
		{"missing checksum", good[:len(good)-crcSize]},
		{"trailing bytes", append(bytes.Clone(good), 0)},
		{"checksum mismatch", edit(func(b []byte) []byte { b[len(b)-crcSize-1] ^= 0xff; return b })},
		{"unknown channels", edit(func(b []byte) []byte { b[channelsOff] = 3; return reseal(b) })},
		{"zero glyphs", edit(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[countOff:], 0)
			return reseal(b)
		})},
		{"glyph count mismatch", edit(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[countOff:], 11)
			return reseal(b)
		})},
		{"spread too large", edit(func(b []byte) []byte {
			binary.LittleEndian.PutUint64(b[spreadOff:], math.Float64bits(16))
			return reseal(b)
		})},
		{"rectangle outside unit square", edit(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[glyphsOff+12:], math.Float32bits(1.5))
			return reseal(b)
		})},
		{"rectangle off grid", edit(func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[glyphsOff+4:], math.Float32bits(0.01))
			return reseal(b)
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("Decode() error = %v, want ErrFormat", err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) || fe.Reason == "" {
				t.Errorf("error %v is not a *FormatError with a reason", err)
			}
			if got != nil {
				t.Error("Decode() returned an atlas on error")
			}
		})
	}
}

func TestCodec_UnmarshalKeepsAtlasOnError(t *testing.T) {
	a := &FontAtlas{FontName: "keep"}
	if err := a.UnmarshalBinary([]byte("nope")); err == nil {
		t.Fatal("UnmarshalBinary() error = nil")
	}
	if a.FontName != "keep" {
		t.Error("UnmarshalBinary modified the atlas on error")
	}
}

func TestCodec_MarshalErrors(t *testing.T) {
	good := generateSmall(t, FormatR8)

	short := *good
	short.Texture = short.Texture[:10]
	empty := *good
	empty.Glyphs = nil
	unknown := *good
	unknown.Format = Format(9)

	for name, a := range map[string]*FontAtlas{
		"short texture":  &short,
		"no glyphs":      &empty,
		"unknown format": &unknown,
	} {
		if _, err := a.MarshalBinary(); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: MarshalBinary() error = %v, want ErrFormat", name, err)
		}
	}
}
