package morenodes

import (
	"io"
	"log/slog"

	"github.com/aretw0/morenodes/pkg/nodes/colorconvert"
	"github.com/aretw0/morenodes/pkg/nodes/dynamicmatcher"
	"github.com/aretw0/morenodes/pkg/nodes/loggingnode"
	"github.com/aretw0/morenodes/pkg/registry"
)

type builtins struct {
	logger  *slog.Logger
	out     io.Writer
	observe func(error)
}

// BuiltinOption configures the node types created by NewRegistry.
type BuiltinOption func(*builtins)

// WithNodeLogger sets the logger node types use outside of compute.
func WithNodeLogger(logger *slog.Logger) BuiltinOption {
	return func(b *builtins) {
		b.logger = logger
	}
}

// WithLogOutput redirects LoggingNode output (default os.Stdout).
func WithLogOutput(w io.Writer) BuiltinOption {
	return func(b *builtins) {
		b.out = w
	}
}

// WithConversionObserver is called with the outcome of every RGBToHSV compute.
func WithConversionObserver(fn func(error)) BuiltinOption {
	return func(b *builtins) {
		b.observe = fn
	}
}

// NewRegistry returns a registry holding the built-in node types.
func NewRegistry(opts ...BuiltinOption) *registry.Registry {
	b := &builtins{}
	for _, opt := range opts {
		opt(b)
	}

	var (
		matcherOpts []dynamicmatcher.Option
		loggingOpts []loggingnode.Option
		convertOpts []colorconvert.Option
	)
	if b.logger != nil {
		matcherOpts = append(matcherOpts, dynamicmatcher.WithLogger(b.logger))
		loggingOpts = append(loggingOpts, loggingnode.WithLogger(b.logger))
	}
	if b.out != nil {
		loggingOpts = append(loggingOpts, loggingnode.WithOutput(b.out))
	}
	if b.observe != nil {
		convertOpts = append(convertOpts, colorconvert.WithObserver(b.observe))
	}

	return registry.NewRegistry(
		colorconvert.New(convertOpts...),
		dynamicmatcher.New(matcherOpts...),
		loggingnode.New(loggingOpts...),
	)
}
