// Package memory provides a CPU texture backend for glyph atlases.
//
// Textures are plain [image.Alpha] or [image.RGBA] images. The backend is
// useful for tests, for software rendering and for dumping atlas contents
// to disk.
package memory

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"slices"

	"golang.org/x/image/draw"

	"github.com/gogpu/glyphatlas/atlas"
)

// Errors returned by Backend methods.
var (
	// ErrForeignTexture is returned for textures not created by this backend.
	ErrForeignTexture = errors.New("memory: texture was not created by this backend")

	// ErrReleased is returned when using a released texture.
	ErrReleased = errors.New("memory: texture is released")

	// ErrOutOfBounds is returned when a region does not lie inside the texture.
	ErrOutOfBounds = errors.New("memory: region out of bounds")

	// ErrPixelCount is returned when the pixel slice does not match the region.
	ErrPixelCount = errors.New("memory: pixel count does not match region")

	// ErrUnsupportedFormat is returned for formats the backend cannot store.
	ErrUnsupportedFormat = errors.New("memory: unsupported format")
)

// Texture is a CPU texture.
type Texture struct {
	id       uint64
	img      draw.Image
	format   atlas.Format
	flags    atlas.Flags
	released bool
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.img.Bounds().Dx() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.img.Bounds().Dy() }

// ID returns the backend-unique texture ID.
func (t *Texture) ID() uint64 { return t.id }

// Format returns the pixel format.
func (t *Texture) Format() atlas.Format { return t.format }

// Flags returns the flags the texture was created with.
func (t *Texture) Flags() atlas.Flags { return t.flags }

// Released reports whether ReleaseTexture was called.
func (t *Texture) Released() bool { return t.released }

// Image returns the texture pixels. The image is shared, not copied.
func (t *Texture) Image() image.Image { return t.img }

// Backend implements atlas.Backend and atlas.Migrator on the CPU.
//
// Backend is NOT safe for concurrent use.
type Backend struct {
	lastID   uint64
	live     map[*Texture]struct{}
	created  int
	released int
}

// New creates an empty backend.
func New() *Backend {
	return &Backend{live: make(map[*Texture]struct{})}
}

// CreateTexture implements atlas.Backend.
// New textures are always cleared to zero, with or without
// atlas.FlagClearTexture.
func (b *Backend) CreateTexture(width, height int, format atlas.Format, flags atlas.Flags) (atlas.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("memory: invalid texture size %dx%d", width, height)
	}

	r := image.Rect(0, 0, width, height)
	var img draw.Image
	switch format {
	case atlas.FormatA8:
		img = image.NewAlpha(r)
	case atlas.FormatRGBA8:
		img = image.NewRGBA(r)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	b.lastID++
	t := &Texture{id: b.lastID, img: img, format: format, flags: flags}
	b.live[t] = struct{}{}
	b.created++
	return t, nil
}

// UploadRegion implements atlas.Backend.
func (b *Backend) UploadRegion(tex atlas.Texture, x, y, width, height int, pixels []byte) error {
	t, err := b.texture(tex)
	if err != nil {
		return err
	}
	if width == 0 || height == 0 {
		return nil
	}
	dst := image.Rect(x, y, x+width, y+height)
	if width < 0 || height < 0 || !dst.In(t.img.Bounds()) {
		return fmt.Errorf("%w: %v in %v", ErrOutOfBounds, dst, t.img.Bounds())
	}
	bpp := t.format.BytesPerPixel()
	if len(pixels) != width*height*bpp {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrPixelCount, len(pixels), width*height*bpp)
	}

	src := wrapPixels(t.format, width, height, pixels)
	draw.Copy(t.img, dst.Min, src, src.Bounds(), draw.Src, nil)
	return nil
}

// CopyRegion implements atlas.Migrator.
func (b *Backend) CopyRegion(dst atlas.Texture, dx, dy int, src atlas.Texture, sx, sy, width, height int) error {
	d, err := b.texture(dst)
	if err != nil {
		return err
	}
	s, err := b.texture(src)
	if err != nil {
		return err
	}
	sr := image.Rect(sx, sy, sx+width, sy+height)
	dr := image.Rect(dx, dy, dx+width, dy+height)
	if !sr.In(s.img.Bounds()) || !dr.In(d.img.Bounds()) {
		return fmt.Errorf("%w: copy %v to %v", ErrOutOfBounds, sr, dr)
	}
	draw.Copy(d.img, dr.Min, s.img, sr, draw.Src, nil)
	return nil
}

// ReleaseTexture implements atlas.Backend. Releasing twice is a no-op.
func (b *Backend) ReleaseTexture(tex atlas.Texture) {
	t, ok := tex.(*Texture)
	if !ok || t.released {
		return
	}
	t.released = true
	delete(b.live, t)
	b.released++
}

// Live returns the number of textures created and not yet released.
func (b *Backend) Live() int { return len(b.live) }

// Created returns the number of textures ever created.
func (b *Backend) Created() int { return b.created }

// Released returns the number of textures released.
func (b *Backend) Released() int { return b.released }

// LiveTextures returns the live textures in creation order.
func (b *Backend) LiveTextures() []*Texture {
	out := make([]*Texture, 0, len(b.live))
	for t := range b.live {
		out = append(out, t)
	}
	slices.SortFunc(out, func(a, b *Texture) int {
		return cmp.Compare(a.id, b.id)
	})
	return out
}

func (b *Backend) texture(tex atlas.Texture) (*Texture, error) {
	t, ok := tex.(*Texture)
	if !ok || t == nil {
		return nil, ErrForeignTexture
	}
	if t.released {
		return nil, ErrReleased
	}
	if _, ok := b.live[t]; !ok {
		return nil, ErrForeignTexture
	}
	return t, nil
}

// wrapPixels views tightly packed pixels as an image without copying.
func wrapPixels(format atlas.Format, width, height int, pixels []byte) image.Image {
	r := image.Rect(0, 0, width, height)
	if format == atlas.FormatRGBA8 {
		return &image.RGBA{Pix: pixels, Stride: width * 4, Rect: r}
	}
	return &image.Alpha{Pix: pixels, Stride: width, Rect: r}
}
