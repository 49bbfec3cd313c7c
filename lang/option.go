package lang

import "github.com/ardnew/recipe/log"

// DefaultMaxDepth is the default maximum nesting depth of embedded recipes.
// Users may modify this before parsing to change the default.
var DefaultMaxDepth = 1024

// options holds parser configuration.
type options struct {
	maxDepth int
	logger   log.Logger
}

// Option configures parsing behavior.
type Option func(*options)

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&o)
	}

	if o.maxDepth <= 0 {
		o.maxDepth = DefaultMaxDepth
	}

	return o
}

// WithMaxDepth sets the maximum nesting depth of parenthesized sub-recipes.
// Non-positive values select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLogger sets the logger used to trace parsing.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}
