// Command sdfatlas generates a signed distance field font atlas.
//
// Usage:
//
//	sdfatlas -font DejaVuSans.ttf -charset "ascii, latin1" -size 1024 -out atlas.sdfa -png atlas.png
//
// Without -font the embedded Go Regular font is used. An empty -charset
// puts every glyph of the font into the atlas. With -db, atlases are cached
// in a sqlite database and reused across runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"hash/crc32"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/sdfatlas"
	"github.com/gogpu/sdfatlas/cache"
	"github.com/gogpu/sdfatlas/charset"
	"github.com/gogpu/sdfatlas/store"
	"github.com/gogpu/sdfatlas/text"
)

type options struct {
	font    string
	charset string
	out     string
	png     string
	db      string
	format  string
	cfg     sdfatlas.Config
}

func main() {
	cfg := sdfatlas.DefaultConfig()
	var (
		opts    options
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.StringVar(&opts.font, "font", "", "TTF/OTF font file (default: embedded Go Regular)")
	flag.StringVar(&opts.charset, "charset", "ascii", "character set expression; empty for every glyph")
	flag.IntVar(&cfg.TextureSize, "size", cfg.TextureSize, "texture side length in pixels")
	flag.Float64Var(&cfg.Spread, "spread", cfg.Spread, "distance field spread in texture pixels")
	flag.IntVar(&cfg.Supersample, "supersample", cfg.Supersample, "rasterization supersampling factor")
	flag.Float64Var(&cfg.PointSize, "point-size", 0, "fixed point size (default: largest that fits)")
	flag.IntVar(&cfg.Workers, "workers", 0, "worker goroutines (default: GOMAXPROCS)")
	flag.StringVar(&opts.format, "format", cfg.Format.String(), "texture format: r8 or rgba8")
	flag.StringVar(&opts.out, "out", "atlas.sdfa", "output atlas file")
	flag.StringVar(&opts.png, "png", "", "also write the texture as PNG")
	flag.StringVar(&opts.db, "db", "", "sqlite atlas cache database")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	sdfatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts.cfg = cfg
	if err := run(ctx, opts); err != nil {
		log.Fatalf("sdfatlas: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	format, err := sdfatlas.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	cfg := opts.cfg
	cfg.Format = format
	if err := cfg.Validate(); err != nil {
		return err
	}

	data := goregular.TTF
	if opts.font != "" {
		// #nosec G304 -- Font file path is provided by the user
		if data, err = os.ReadFile(opts.font); err != nil {
			return err
		}
	}
	src, err := text.NewSource(data)
	if err != nil {
		return err
	}

	var provider sdfatlas.FontProvider = src
	if opts.charset != "" {
		table, err := charset.Parse(opts.charset)
		if err != nil {
			return err
		}
		sub, err := src.Subset(charset.Runes(table))
		if err != nil {
			return err
		}
		if n := len(sub.Missing()); n > 0 {
			sdfatlas.Logger().Info("runes not covered by font", "font", src.Name(), "count", n)
		}
		provider = sub
	}

	atlas, err := build(ctx, opts, cfg, provider, data)
	if err != nil {
		return err
	}

	if err := writeFile(opts.out, func(f *os.File) error { return sdfatlas.Encode(f, atlas) }); err != nil {
		return err
	}
	if opts.png != "" {
		if err := writeFile(opts.png, func(f *os.File) error { return atlas.WritePNG(f) }); err != nil {
			return err
		}
	}

	sdfatlas.Logger().Info("atlas written",
		"out", opts.out,
		"font", atlas.FontName,
		"glyphs", len(atlas.Glyphs),
		"point_size", atlas.PointSize,
		"cell", atlas.CellSize())
	return nil
}

// build generates the atlas, going through the sqlite cache when one is
// configured.
func build(ctx context.Context, opts options, cfg sdfatlas.Config, p sdfatlas.FontProvider, data []byte) (*sdfatlas.FontAtlas, error) {
	gen := sdfatlas.NewGenerator(cfg)
	if opts.db == "" {
		return gen.Generate(ctx, p)
	}

	st, err := store.Open(opts.db)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	font := fmt.Sprintf("%s#%08x", p.Name(), crc32.ChecksumIEEE(data))
	key := cache.NewKey(font, opts.charset, cfg)
	return cache.New(1, st).GetOrBuild(ctx, key, func(ctx context.Context) (*sdfatlas.FontAtlas, error) {
		return gen.Generate(ctx, p)
	})
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
