package milkshake

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"
)

// Clipboard status lines printed after a successful save.
const (
	ClipboardCopied      = "copied to clipboard"
	ClipboardUnavailable = "clipboard unavailable"
)

// ErrNoGenerator is returned when a Runner has no GeneratorFactory.
var ErrNoGenerator = errors.New("no image generator configured")

// Runner sequences one invocation: prompt, API call, decode, save, clipboard.
type Runner struct {
	cfg     *Config
	factory GeneratorFactory

	// Logger for structured logging (diagnostics only, never user output)
	logger *slog.Logger

	clipboard Clipboard
	resolver  *OutputResolver

	stdin       io.Reader
	interactive bool

	stdout io.Writer
	stderr io.Writer
}

// RunResult describes what a successful run produced.
type RunResult struct {
	// Path the image was written to
	Path string

	// ClipboardStatus is empty when copying was disabled
	ClipboardStatus string

	// Format detected while decoding (e.g. "png", "jpeg")
	DetectedFormat string

	Generation *GenerationResult
}

// Run executes the invocation. Clipboard failures are reported as warnings
// and never fail the run.
func (r *Runner) Run(ctx context.Context) (*RunResult, error) {
	cfg := r.cfg

	prompt, err := ResolvePrompt(cfg.PromptArgs, r.stdin, r.interactive)
	if err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if r.factory == nil {
		return nil, ErrNoGenerator
	}
	gen, err := r.factory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer gen.Close()

	start := time.Now()
	r.logger.Debug("starting image generation",
		"model", cfg.Model,
		"backend", string(cfg.Backend),
		"prompt_length", len(prompt),
	)

	generated, err := gen.Generate(ctx, GenerationRequest{Prompt: prompt, Model: cfg.Model})
	duration := time.Since(start)
	if err != nil {
		r.logger.Error("generation failed",
			"model", cfg.Model,
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	r.logger.Info("generation completed",
		"model", cfg.Model,
		"duration_ms", duration.Milliseconds(),
		"mime_type", generated.MIMEType,
		"bytes", len(generated.Data),
	)

	if expected := cfg.Format.MIMEType(); generated.MIMEType != expected {
		r.warnf("expected %s, but model returned %s", expected, generated.MIMEType)
	}

	if mime, ok := MIMETypeForPath(cfg.OutputPath); ok && mime != cfg.Format.MIMEType() {
		r.warnf("output path %s names %s, but the image is written as %s", cfg.OutputPath, mime, cfg.Format)
	}

	img, detected, err := DecodeImage(generated.Data)
	if err != nil {
		return nil, err
	}

	path, err := r.resolver.Resolve(cfg.OutputPath, cfg.Format)
	if err != nil {
		return nil, err
	}

	// The declared format is used for encoding even if the payload differed.
	if err := SaveImage(path, img, cfg.Format); err != nil {
		return nil, err
	}
	r.logger.Debug("image saved", "path", path, "detected_format", detected)

	result := &RunResult{
		Path:           path,
		DetectedFormat: detected,
		Generation:     generated,
	}

	if !cfg.NoCopy {
		result.ClipboardStatus = r.copyToClipboard(img)
	}

	r.report(result)
	return result, nil
}

func (r *Runner) copyToClipboard(img image.Image) string {
	if r.clipboard == nil {
		r.warnf("failed to copy image to clipboard: %v", ErrClipboardUnavailable)
		return ClipboardUnavailable
	}

	if err := r.clipboard.WriteImage(img); err != nil {
		r.logger.Debug("clipboard write failed", "error", err.Error())
		r.warnf("failed to copy image to clipboard: %v", err)
		return ClipboardUnavailable
	}
	return ClipboardCopied
}

// report prints the success summary and any blocked safety ratings.
func (r *Runner) report(result *RunResult) {
	if r.cfg.Quiet {
		return
	}

	fmt.Fprintf(r.stdout, "Saved image to %s\n", result.Path)
	if result.ClipboardStatus != "" {
		fmt.Fprintf(r.stdout, "Clipboard status: %s\n", result.ClipboardStatus)
	}
	for _, rating := range result.Generation.BlockedRatings() {
		fmt.Fprintf(r.stdout, "Safety rating: %s flagged (probability %s).\n", rating.Category, rating.Probability)
	}
	for _, rating := range result.Generation.BlockedPromptRatings() {
		fmt.Fprintf(r.stdout, "Prompt feedback: %s blocked (probability %s).\n", rating.Category, rating.Probability)
	}
}

func (r *Runner) warnf(format string, args ...any) {
	if r.cfg.Quiet {
		return
	}
	fmt.Fprintf(r.stderr, "Warning: "+format+"\n", args...)
}
