package atlas

import "fmt"

// Format is the pixel format of an atlas texture.
type Format uint8

const (
	// FormatA8 is a single 8-bit coverage channel, used for glyph masks.
	FormatA8 Format = iota

	// FormatRGBA8 is 8 bits per channel RGBA.
	FormatRGBA8
)

// BytesPerPixel returns the size of one pixel in bytes.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatA8:
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
	case FormatA8:
		return "A8"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Flags carry texture policy from the atlas owner to the backend.
// The atlas passes them to Backend.CreateTexture without interpreting them.
type Flags uint8

const (
	// FlagClearTexture asks the backend to clear new texture storage.
	FlagClearTexture Flags = 1 << iota

	// FlagDisableMigration asks the backend not to move the texture to a
	// different format or storage when the atlas is repacked.
	FlagDisableMigration
)

// Has reports whether all bits of flag are set.
func (f Flags) Has(flag Flags) bool {
	return f&flag == flag
}

// Texture is a backend texture handle.
type Texture interface {
	Width() int
	Height() int
}

// Backend creates, fills and releases textures.
type Backend interface {
	// CreateTexture allocates a width x height texture.
	CreateTexture(width, height int, format Format, flags Flags) (Texture, error)

	// UploadRegion writes tightly packed row-major pixels into the
	// width x height region at (x, y).
	UploadRegion(tex Texture, x, y, width, height int, pixels []byte) error

	// ReleaseTexture frees the texture. The handle must not be used afterwards.
	ReleaseTexture(tex Texture)
}

// Migrator is implemented by backends that can copy pixels between
// textures. When available, a reorganize carries the existing pixels of
// each reservation over to its new place.
type Migrator interface {
	CopyRegion(dst Texture, dx, dy int, src Texture, sx, sy, width, height int) error
}

// Rect is an integer rectangle in texture pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects reports whether r and o share at least one pixel.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}
