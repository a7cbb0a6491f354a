package wgpu

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/glyphatlas/atlas"
	"github.com/gogpu/glyphatlas/backend/memory"
)

type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}

type mockQueue struct{}

type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "mock"}
}

var _ gpucontext.DeviceProvider = (*mockProvider)(nil)

// wrongHALProvider exposes HAL accessors returning the wrong types.
type wrongHALProvider struct{ mockProvider }

func (w *wrongHALProvider) HalDevice() any { return "device" }
func (w *wrongHALProvider) HalQueue() any  { return "queue" }

func TestNewFromProvider(t *testing.T) {
	_, err := NewFromProvider(nil)
	assert.ErrorIs(t, err, ErrNilProvider)

	_, err = NewFromProvider(&mockProvider{})
	assert.ErrorIs(t, err, ErrNoHAL)

	_, err = NewFromProvider(&wrongHALProvider{})
	assert.ErrorIs(t, err, ErrNoHAL)
}

func TestTextureFormat(t *testing.T) {
	f, err := textureFormat(atlas.FormatA8)
	require.NoError(t, err)
	assert.Equal(t, gputypes.TextureFormatR8Unorm, f)

	f, err = textureFormat(atlas.FormatRGBA8)
	require.NoError(t, err)
	assert.Equal(t, gputypes.TextureFormatRGBA8Unorm, f)

	_, err = textureFormat(atlas.Format(99))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestBackendWithoutDevice(t *testing.T) {
	b := New(nil, nil)

	_, err := b.CreateTexture(64, 64, atlas.FormatA8, atlas.FlagClearTexture)
	assert.ErrorIs(t, err, ErrNilDevice)

	_, err = b.CreateTexture(64, 64, atlas.Format(7), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = b.CreateTexture(0, 64, atlas.FormatA8, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	_, err = b.GlyphShader()
	assert.ErrorIs(t, err, ErrNilDevice)

	assert.Zero(t, b.Live())
	b.Close()
}

func TestUploadRejectsForeignTextures(t *testing.T) {
	b := New(nil, nil)

	foreign, err := memory.New().CreateTexture(8, 8, atlas.FormatA8, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, b.UploadRegion(foreign, 0, 0, 1, 1, []byte{1}), ErrForeignTexture)

	// Unknown *Texture values are foreign too.
	stray := &Texture{width: 8, height: 8, format: atlas.FormatA8}
	assert.ErrorIs(t, b.UploadRegion(stray, 0, 0, 1, 1, []byte{1}), ErrForeignTexture)

	released := &Texture{width: 8, height: 8, released: true}
	assert.ErrorIs(t, b.UploadRegion(released, 0, 0, 1, 1, []byte{1}), ErrReleased)

	// Releasing foreign or already released textures is harmless.
	b.ReleaseTexture(foreign)
	b.ReleaseTexture(released)
}

func TestCompileGlyphShader(t *testing.T) {
	code, err := compileGlyphShader()
	require.NoError(t, err)
	require.NotEmpty(t, code)

	const spirvMagic = 0x07230203
	assert.Equal(t, uint32(spirvMagic), code[0])

	// Words round-trip to the little-endian byte stream naga produced.
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, code[0])
	assert.Equal(t, []byte{0x03, 0x02, 0x23, 0x07}, buf)
}
