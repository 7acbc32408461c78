package microjson

import (
	"context"
	"log/slog"
)

const (
	//AttrNameMax is the default and upper bound of attribute name bytes
	AttrNameMax = 31
	//ValueMax is the default and upper bound of scalar value bytes
	ValueMax = 512
	//DefaultMaxDepth limits nesting of objects and arrays
	DefaultMaxDepth = 64
	//LevelTrace is used for per character state transitions
	LevelTrace = slog.LevelDebug - 4
)

// Option mutates parse options
type Option interface{ apply(*Options) }

type optionFn func(*Options)

func (o optionFn) apply(opts *Options) { o(opts) }

// Options defines parse behaviour
type Options struct {
	Ctx context.Context
	//Logger receives diagnostic trace, nil disables tracing
	Logger      *slog.Logger
	AttrNameMax int
	ValueMax    int
	MaxDepth    int
}

// WithContext sets context passed to the logger
func WithContext(ctx context.Context) Option {
	return optionFn(func(o *Options) { o.Ctx = ctx })
}

// WithLogger enables diagnostic trace; debug level reports matched tokens, LevelTrace state transitions
func WithLogger(logger *slog.Logger) Option {
	return optionFn(func(o *Options) { o.Logger = logger })
}

// WithAttrNameMax lowers maximum attribute name length
func WithAttrNameMax(limit int) Option {
	return optionFn(func(o *Options) { o.AttrNameMax = limit })
}

// WithValueMax lowers maximum value token length
func WithValueMax(limit int) Option {
	return optionFn(func(o *Options) { o.ValueMax = limit })
}

// WithMaxDepth limits nesting of objects and arrays
func WithMaxDepth(depth int) Option {
	return optionFn(func(o *Options) { o.MaxDepth = depth })
}

func defaultOptions() Options {
	return Options{
		Ctx:         context.Background(),
		AttrNameMax: AttrNameMax,
		ValueMax:    ValueMax,
		MaxDepth:    DefaultMaxDepth,
	}
}

func resolveOptions(opts []Option) Options {
	result := defaultOptions()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(&result)
	}
	if result.Ctx == nil {
		result.Ctx = context.Background()
	}
	result.AttrNameMax = clamp(result.AttrNameMax, AttrNameMax)
	result.ValueMax = clamp(result.ValueMax, ValueMax)
	if result.MaxDepth <= 0 {
		result.MaxDepth = DefaultMaxDepth
	}
	return result
}

func clamp(value, upper int) int {
	if value <= 0 || value > upper {
		return upper
	}
	return value
}
