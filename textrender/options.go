package textrender

// DefaultShapeCacheSize is the number of shaped strings a Renderer keeps.
const DefaultShapeCacheSize = 512

// Option configures a Renderer during creation.
type Option func(*rendererOptions)

type rendererOptions struct {
	shapeCacheSize int
}

func defaultOptions() rendererOptions {
	return rendererOptions{shapeCacheSize: DefaultShapeCacheSize}
}

// WithShapeCacheSize sets how many shaped strings are kept for reuse.
// Non-positive sizes select DefaultShapeCacheSize.
func WithShapeCacheSize(n int) Option {
	return func(o *rendererOptions) {
		if n <= 0 {
			n = DefaultShapeCacheSize
		}
		o.shapeCacheSize = n
	}
}
