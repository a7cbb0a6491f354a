// Command atlasdemo renders text through a glyph atlas cache and writes
// every atlas texture to a PNG file.
//
// Usage:
//
//	atlasdemo [-config demo.toml] [-font path.ttf] [-size 32] [-text "..."] [-out atlas] [-v]
//
// Flags override the config file.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/backend/memory"
	"github.com/gogpu/glyphatlas/sfntface"
	"github.com/gogpu/glyphatlas/textrender"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		fontPath   = flag.String("font", "", "font file (default: Go Regular)")
		size       = flag.Float64("size", 0, "font size in pixels")
		text       = flag.String("text", "", "text to render")
		out        = flag.String("out", "atlas", "output file prefix")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		glyphatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *fontPath != "" {
		cfg.Font.Path = *fontPath
	}
	if *size > 0 {
		cfg.Font.Size = *size
	}
	if *text != "" {
		cfg.Text = *text
	}

	if err := run(cfg, *out); err != nil {
		log.Fatal(err)
	}
}

func run(cfg Config, out string) error {
	atlasCfg, err := cfg.Atlas.atlasConfig()
	if err != nil {
		return fmt.Errorf("atlas config: %w", err)
	}

	data := goregular.TTF
	if cfg.Font.Path != "" {
		if data, err = os.ReadFile(cfg.Font.Path); err != nil {
			return fmt.Errorf("read font: %w", err)
		}
	}
	face, err := sfntface.Parse(data, cfg.Font.Size)
	if err != nil {
		return err
	}

	backend := memory.New()
	cache := glyphatlas.New(backend, glyphatlas.WithAtlasConfig(atlasCfg))
	defer cache.Close()

	r := textrender.New(cache, backend)
	defer r.Close()

	t, err := r.Layout(face, cfg.Text, 0, cfg.Font.Size)
	if err != nil {
		return fmt.Errorf("layout: %w", err)
	}

	stats := cache.Stats()
	log.Printf("%d glyphs in %d atlases, %d quads, %d reorganizes",
		stats.Glyphs, stats.Atlases, len(r.Quads(t)), stats.Reorganizes)

	for i, tex := range backend.LiveTextures() {
		name := fmt.Sprintf("%s_%d.png", out, i)
		if err := writePNG(name, tex); err != nil {
			return err
		}
		log.Printf("wrote %s (%dx%d)", name, tex.Width(), tex.Height())
	}
	return nil
}

func writePNG(name string, tex *memory.Texture) error {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if err := png.Encode(f, tex.Image()); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return f.Close()
}
