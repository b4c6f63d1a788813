package ferry

// DefaultMaxDepth is the nesting limit applied when WithMaxDepth is not given.
const DefaultMaxDepth = 255

// TupleHintLimit is the largest tuple arity for which a TupleSink receives a
// fixed-arity hint.
const TupleHintLimit = 8

// config holds encoder settings. It is copied into the Encoder and never
// mutated afterwards.
type config struct {
	maxDepth   int
	fallback   Fallback
	sortedSets bool
}

// Option configures an Encoder.
type Option func(*config)

func defaultConfig() config {
	return config{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the maximum container nesting. Values below one are
// ignored.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithFallback installs a transform for values that cannot be classified.
func WithFallback(f Fallback) Option {
	return func(c *config) {
		c.fallback = f
	}
}

// WithSortedSets emits set members sorted by their canonical key text
// instead of iteration order. Every member must then have a canonical text
// form.
func WithSortedSets() Option {
	return func(c *config) {
		c.sortedSets = true
	}
}
