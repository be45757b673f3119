// Package charset parses character set expressions into Unicode range
// tables.
//
// An expression is a comma-separated list of items. Each item is a named
// set, a single code point or an inclusive range:
//
//	ascii                    printable ASCII, U+0020..U+007E
//	latin1                   ascii plus U+00A0..U+00FF
//	all                      every graphic character
//	Greek, Cyrillic, Han     Unicode scripts
//	Lu, Nd, P                Unicode general categories
//	U+00E9, 'x'              single code points
//	U+0400-U+04FF, 'a'-'z'   ranges
//
// For example "ascii, U+00C0-U+00FF, Greek".
package charset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"golang.org/x/text/unicode/rangetable"
)

var (
	// ErrUnknownSet is returned for a name that is neither a built-in set,
	// a script nor a category.
	ErrUnknownSet = errors.New("charset: unknown set")

	// ErrInvalidRange is returned for a range whose end precedes its start
	// or lies beyond unicode.MaxRune.
	ErrInvalidRange = errors.New("charset: invalid range")
)

// ASCII is printable ASCII, space through tilde.
var ASCII = &unicode.RangeTable{
	R16:         []unicode.Range16{{Lo: 0x20, Hi: 0x7e, Stride: 1}},
	LatinOffset: 1,
}

// Latin1 is printable ASCII plus the printable Latin-1 supplement.
var Latin1 = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x20, Hi: 0x7e, Stride: 1},
		{Lo: 0xa0, Hi: 0xff, Stride: 1},
	},
	LatinOffset: 2,
}

var (
	charsetLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "CodePoint", Pattern: `[Uu]\+[0-9A-Fa-f]{1,6}`},
		{Name: "Char", Pattern: `'(?:\\['\\]|[^'\\])'`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `[,-]`},
	})

	exprParser = participle.MustBuild[expression](
		participle.Lexer(charsetLexer),
		participle.Elide("Whitespace"),
	)
)

// expression is the root of a parsed charset expression.
type expression struct {
	Items []*item `parser:"@@ ( ',' @@ )*"`
}

type item struct {
	Name string `parser:"  @Ident"`
	Span *span  `parser:"| @@"`
}

type span struct {
	From *point `parser:"@@"`
	To   *point `parser:"( '-' @@ )?"`
}

type point struct {
	CodePoint string `parser:"  @CodePoint"`
	Char      string `parser:"| @Char"`
}

// Parse parses a charset expression.
func Parse(expr string) (*unicode.RangeTable, error) {
	ast, err := exprParser.ParseString("", expr)
	if err != nil {
		return nil, fmt.Errorf("charset: %w", err)
	}

	tables := make([]*unicode.RangeTable, 0, len(ast.Items))
	for _, it := range ast.Items {
		t, err := it.table()
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return rangetable.Merge(tables...), nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) *unicode.RangeTable {
	t, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return t
}

// Runes returns the runes of t in ascending order.
func Runes(t *unicode.RangeTable) []rune {
	var runes []rune
	rangetable.Visit(t, func(r rune) {
		runes = append(runes, r)
	})
	return runes
}

func (it *item) table() (*unicode.RangeTable, error) {
	if it.Span != nil {
		return it.Span.table()
	}
	return named(it.Name)
}

// named resolves a built-in set, script or category name.
func named(name string) (*unicode.RangeTable, error) {
	switch strings.ToLower(name) {
	case "ascii":
		return ASCII, nil
	case "latin1":
		return Latin1, nil
	case "all":
		return rangetable.Merge(unicode.GraphicRanges...), nil
	}
	if t, ok := unicode.Scripts[name]; ok {
		return t, nil
	}
	if t, ok := unicode.Categories[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownSet, name)
}

func (s *span) table() (*unicode.RangeTable, error) {
	lo, err := s.From.value()
	if err != nil {
		return nil, err
	}
	hi := lo
	if s.To != nil {
		if hi, err = s.To.value(); err != nil {
			return nil, err
		}
	}
	if hi < lo {
		return nil, fmt.Errorf("%w: %U-%U", ErrInvalidRange, lo, hi)
	}
	return spanTable(lo, hi), nil
}

func (p *point) value() (rune, error) {
	if p.CodePoint != "" {
		v, err := strconv.ParseUint(p.CodePoint[2:], 16, 32)
		if err != nil || v > unicode.MaxRune {
			return 0, fmt.Errorf("%w: %s beyond U+10FFFF", ErrInvalidRange, p.CodePoint)
		}
		return rune(v), nil
	}
	s := p.Char[1 : len(p.Char)-1]
	s = strings.TrimPrefix(s, `\`)
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// spanTable returns a table holding lo..hi inclusive.
func spanTable(lo, hi rune) *unicode.RangeTable {
	t := new(unicode.RangeTable)
	if lo <= 0xffff {
		t.R16 = []unicode.Range16{{Lo: uint16(lo), Hi: uint16(min(hi, 0xffff)), Stride: 1}}
		if hi <= unicode.MaxLatin1 {
			t.LatinOffset = 1
		}
	}
	if hi > 0xffff {
		t.R32 = []unicode.Range32{{Lo: uint32(max(lo, 0x10000)), Hi: uint32(hi), Stride: 1}}
	}
	return t
}
