package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/glyphatlas"
	"github.com/gogpu/glyphatlas/atlas"
)

// Texture is an atlas texture in GPU memory.
type Texture struct {
	tex      hal.Texture
	view     hal.TextureView
	width    int
	height   int
	format   atlas.Format
	released bool
}

// Width implements atlas.Texture.
func (t *Texture) Width() int { return t.width }

// Height implements atlas.Texture.
func (t *Texture) Height() int { return t.height }

// Format returns the atlas format of the texture.
func (t *Texture) Format() atlas.Format { return t.format }

// HAL returns the underlying HAL texture, nil once released.
func (t *Texture) HAL() hal.Texture { return t.tex }

// View returns the default view for binding in shaders, nil once released.
func (t *Texture) View() hal.TextureView { return t.view }

// Backend creates atlas textures on a HAL device.
//
// Backend is safe for concurrent use.
type Backend struct {
	mu     sync.Mutex
	device hal.Device
	queue  hal.Queue

	live   map[*Texture]struct{}
	serial int

	shader hal.ShaderModule
}

// New creates a backend using device and queue. The backend does not own
// them; Close releases only the resources the backend created.
func New(device hal.Device, queue hal.Queue) *Backend {
	return &Backend{
		device: device,
		queue:  queue,
		live:   make(map[*Texture]struct{}),
	}
}

// NewFromProvider creates a backend on the device shared by provider.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Backend, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return New(device, queue), nil
}

// textureFormat maps an atlas format to its GPU texture format.
func textureFormat(f atlas.Format) (gputypes.TextureFormat, error) {
	switch f {
	case atlas.FormatA8:
		return gputypes.TextureFormatR8Unorm, nil
	case atlas.FormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm, nil
	default:
		return gputypes.TextureFormatUndefined, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// CreateTexture implements atlas.Backend.
func (b *Backend) CreateTexture(width, height int, format atlas.Format, flags atlas.Flags) (atlas.Texture, error) {
	gpuFormat, err := textureFormat(format)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrOutOfBounds, width, height)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device == nil {
		return nil, ErrNilDevice
	}

	b.serial++
	label := fmt.Sprintf("glyph_atlas_%d", b.serial)
	size := hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1} //nolint:gosec // atlas sizes are bounded by atlas.MaxTextureSize

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gpuFormat,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture %s: %w", label, err)
	}

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        gpuFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return nil, fmt.Errorf("wgpu: create texture view %s: %w", label, err)
	}

	t := &Texture{tex: tex, view: view, width: width, height: height, format: format}
	if flags.Has(atlas.FlagClearTexture) {
		b.write(t, 0, 0, width, height, make([]byte, width*height*format.BytesPerPixel()))
	}
	b.live[t] = struct{}{}

	glyphatlas.Logger().Debug("wgpu: created atlas texture",
		"label", label, "width", width, "height", height, "format", format)
	return t, nil
}

// UploadRegion implements atlas.Backend.
func (b *Backend) UploadRegion(tex atlas.Texture, x, y, width, height int, pixels []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, err := b.texture(tex)
	if err != nil {
		return err
	}
	if x < 0 || y < 0 || width <= 0 || height <= 0 || x+width > t.width || y+height > t.height {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d", ErrOutOfBounds, width, height, x, y, t.width, t.height)
	}
	if want := width * height * t.format.BytesPerPixel(); len(pixels) != want {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrPixelCount, len(pixels), want)
	}

	b.write(t, x, y, width, height, pixels)
	return nil
}

// write uploads pixels into a region of t. b.mu must be held.
func (b *Backend) write(t *Texture, x, y, width, height int, pixels []byte) {
	bpp := t.format.BytesPerPixel()
	b.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y)}, //nolint:gosec // validated against texture bounds
			Aspect:   gputypes.TextureAspectAll,
		},
		pixels,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(width * bpp),  //nolint:gosec // bounded by texture width
			RowsPerImage: uint32(height),       //nolint:gosec // bounded by texture height
		},
		&hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // bounded by texture size
	)
}

// ReleaseTexture implements atlas.Backend. Releasing twice is a no-op.
func (b *Backend) ReleaseTexture(tex atlas.Texture) {
	t, ok := tex.(*Texture)
	if !ok || t == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroy(t)
}

// destroy frees the GPU objects of t. b.mu must be held.
func (b *Backend) destroy(t *Texture) {
	if t.released {
		return
	}
	if b.device != nil {
		if t.view != nil {
			b.device.DestroyTextureView(t.view)
		}
		if t.tex != nil {
			b.device.DestroyTexture(t.tex)
		}
	}
	t.view = nil
	t.tex = nil
	t.released = true
	delete(b.live, t)
}

// texture validates tex. b.mu must be held.
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

// Live returns the number of textures created and not yet released.
func (b *Backend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.live)
}

// Close releases every live texture and the glyph shader module.
// Textures still referenced by a cache become unusable; clear the cache
// first.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for t := range b.live {
		b.destroy(t)
	}
	if b.shader != nil && b.device != nil {
		b.device.DestroyShaderModule(b.shader)
	}
	b.shader = nil
}

var _ atlas.Backend = (*Backend)(nil)
