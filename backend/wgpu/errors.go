package wgpu

import "errors"

var (
	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("wgpu: nil DeviceProvider")

	// ErrNoHAL is returned when a provider does not expose HAL device and queue.
	ErrNoHAL = errors.New("wgpu: provider does not expose HAL device and queue")

	// ErrNilDevice is returned when the backend has no device.
	ErrNilDevice = errors.New("wgpu: HAL device is nil")

	// ErrForeignTexture is returned for textures not created by this backend.
	ErrForeignTexture = errors.New("wgpu: texture not created by this backend")

	// ErrReleased is returned when using a released texture.
	ErrReleased = errors.New("wgpu: texture has been released")

	// ErrOutOfBounds is returned when a region lies outside the texture.
	ErrOutOfBounds = errors.New("wgpu: region out of bounds")

	// ErrPixelCount is returned when pixel data does not match the region.
	ErrPixelCount = errors.New("wgpu: pixel data does not match region size")

	// ErrUnsupportedFormat is returned for unknown atlas formats.
	ErrUnsupportedFormat = errors.New("wgpu: unsupported atlas format")
)
