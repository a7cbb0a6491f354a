package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/glyphatlas/atlas"
)

// Config is the demo configuration, read from a TOML file:
//
//	text = "Hello, atlas!"
//
//	[font]
//	path = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
//	size = 32
//
//	[atlas]
//	initial_width = 128
//	initial_height = 128
//	max_width = 1024
//	max_height = 1024
//	packer = "skyline"
type Config struct {
	Text  string      `toml:"text"`
	Font  FontConfig  `toml:"font"`
	Atlas AtlasConfig `toml:"atlas"`
}

// FontConfig selects the face to render with. An empty path selects the
// built-in Go Regular font.
type FontConfig struct {
	Path string  `toml:"path"`
	Size float64 `toml:"size"`
}

// AtlasConfig sizes the glyph atlases.
type AtlasConfig struct {
	InitialWidth  int    `toml:"initial_width"`
	InitialHeight int    `toml:"initial_height"`
	MaxWidth      int    `toml:"max_width"`
	MaxHeight     int    `toml:"max_height"`
	Packer        string `toml:"packer"`
}

// defaultConfig returns the configuration used without a config file.
func defaultConfig() Config {
	def := atlas.DefaultConfig()
	return Config{
		Text: "The quick brown fox jumps over the lazy dog",
		Font: FontConfig{Size: 24},
		Atlas: AtlasConfig{
			InitialWidth:  def.InitialWidth,
			InitialHeight: def.InitialHeight,
			MaxWidth:      def.MaxWidth,
			MaxHeight:     def.MaxHeight,
			Packer:        "shelf",
		},
	}
}

// loadConfig reads path over the defaults. Unknown keys are errors.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := decodeConfig(f, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return errors.New(strict.String())
		}
		return err
	}
	return nil
}

// atlasConfig converts the file settings into an atlas.Config.
func (c AtlasConfig) atlasConfig() (atlas.Config, error) {
	cfg := atlas.Config{
		InitialWidth:  c.InitialWidth,
		InitialHeight: c.InitialHeight,
		MaxWidth:      c.MaxWidth,
		MaxHeight:     c.MaxHeight,
	}
	switch c.Packer {
	case "", "shelf":
		cfg.Packer = atlas.ShelfPackerFunc
	case "skyline":
		cfg.Packer = atlas.SkylinePackerFunc
	default:
		return cfg, fmt.Errorf("unknown packer %q (want shelf or skyline)", c.Packer)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
