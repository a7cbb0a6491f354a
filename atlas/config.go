package atlas

// MaxTextureSize is the largest texture side an atlas will ask for.
const MaxTextureSize = 16384

// PackerFunc creates an empty packer for a width x height area.
type PackerFunc func(width, height int) Packer

// Config holds atlas sizing and packing configuration.
type Config struct {
	// InitialWidth and InitialHeight size the first texture.
	// Default: 256x256
	InitialWidth  int
	InitialHeight int

	// MaxWidth and MaxHeight bound texture growth during reorganize.
	// Default: 2048x2048
	MaxWidth  int
	MaxHeight int

	// Packer creates the packing strategy. Default: NewShelfPacker.
	Packer PackerFunc
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		InitialWidth:  256,
		InitialHeight: 256,
		MaxWidth:      2048,
		MaxHeight:     2048,
		Packer:        ShelfPackerFunc,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.InitialWidth <= 0 {
		return &ConfigError{Field: "InitialWidth", Reason: "must be positive"}
	}
	if c.InitialHeight <= 0 {
		return &ConfigError{Field: "InitialHeight", Reason: "must be positive"}
	}
	if c.MaxWidth < c.InitialWidth {
		return &ConfigError{Field: "MaxWidth", Reason: "must be at least InitialWidth"}
	}
	if c.MaxHeight < c.InitialHeight {
		return &ConfigError{Field: "MaxHeight", Reason: "must be at least InitialHeight"}
	}
	if c.MaxWidth > MaxTextureSize {
		return &ConfigError{Field: "MaxWidth", Reason: "must be at most 16384"}
	}
	if c.MaxHeight > MaxTextureSize {
		return &ConfigError{Field: "MaxHeight", Reason: "must be at most 16384"}
	}
	return nil
}
