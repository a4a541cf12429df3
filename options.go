package slabJSON

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultMaxDepth is the container nesting limit of a default Parser.
const DefaultMaxDepth = 512

// Options configures a Parser.
type Options struct {
	// MaxDepth bounds array and object nesting. Opening a container past it
	// fails the parse with ErrDepthExceeded.
	//
	// Default: 512.
	MaxDepth int `yaml:"maxDepth"`
	// LogLevel builds a console logger at that level when Logger is unset.
	// Only read by LoadOptions.
	LogLevel string `yaml:"logLevel"`

	Logger    *zap.Logger `yaml:"-"`
	Allocator *Allocator  `yaml:"-"`
}

// Option is the functional option type.
type Option func(*Options)

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(depth int) Option {
	return func(opts *Options) {
		opts.MaxDepth = depth
	}
}

// WithLogger sets the logger failed parses are reported to.
func WithLogger(l *zap.Logger) Option {
	return func(opts *Options) {
		opts.Logger = l
	}
}

// WithAllocator sets the allocator trees are built from.
func WithAllocator(a *Allocator) Option {
	return func(opts *Options) {
		opts.Allocator = a
	}
}

// WithOptions replaces all options with a copy of o, for example the
// result of LoadOptions.
func WithOptions(o *Options) Option {
	return func(opts *Options) {
		*opts = *o
	}
}

// NewDefault returns a default Options.
func NewDefault() *Options {
	return &Options{
		MaxDepth: DefaultMaxDepth,
	}
}

// ParseOptions parses functional options and merge them to default Options.
func ParseOptions(setters ...Option) *Options {
	opts := NewDefault()
	for _, setter := range setters {
		setter(opts)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return opts
}

// LoadOptions reads options from YAML bytes on top of the defaults, then
// applies setters.
func LoadOptions(data []byte, setters ...Option) (*Options, error) {
	opts := NewDefault()
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, errors.Wrap(err, "decode options")
	}
	for _, setter := range setters {
		setter(opts)
	}
	if opts.MaxDepth <= 0 {
		return nil, errors.Errorf("maxDepth must be positive, got %d", opts.MaxDepth)
	}
	if opts.LogLevel != "" && opts.Logger == nil {
		logger, err := NewConsoleLogger(opts.LogLevel)
		if err != nil {
			return nil, err
		}
		opts.Logger = logger
	}
	return opts, nil
}
