package milkshake

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// GeneratorFactory builds the backend once the API key is known.
type GeneratorFactory func(ctx context.Context, cfg *Config) (ImageGenerator, error)

// RunnerOption configures the Runner.
type RunnerOption func(*Runner)

// WithLogger sets a structured logger for the runner.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClipboard sets the clipboard used when copying is enabled.
func WithClipboard(clipboard Clipboard) RunnerOption {
	return func(r *Runner) {
		r.clipboard = clipboard
	}
}

// WithOutputResolver overrides where generated images are placed.
func WithOutputResolver(resolver *OutputResolver) RunnerOption {
	return func(r *Runner) {
		if resolver != nil {
			r.resolver = resolver
		}
	}
}

// WithStdin sets the prompt source used when no prompt arguments are given.
// interactive marks stdin as a terminal, which is never read.
func WithStdin(stdin io.Reader, interactive bool) RunnerOption {
	return func(r *Runner) {
		r.stdin = stdin
		r.interactive = interactive
	}
}

// WithOutput sets the writers for status lines and warnings.
func WithOutput(stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// NewRunner creates a Runner for one invocation.
//
// Example:
//
//	runner := milkshake.NewRunner(cfg, newGenerator,
//	    milkshake.WithLogger(slog.Default()),
//	    milkshake.WithClipboard(clipboard.New()),
//	)
//	result, err := runner.Run(ctx)
func NewRunner(cfg *Config, factory GeneratorFactory, opts ...RunnerOption) *Runner {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	r := &Runner{
		cfg:         cfg,
		factory:     factory,
		logger:      slog.New(slog.DiscardHandler),
		resolver:    NewOutputResolver(),
		stdin:       os.Stdin,
		interactive: IsInteractive(os.Stdin),
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}
