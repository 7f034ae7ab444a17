// Command milkshake generates an image from a text prompt with the Gemini API,
// saves it to disk and copies it to the clipboard.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mhpenta/milkshake"
	"github.com/mhpenta/milkshake/provider/gemini"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := defaultApp(os.Stdin, milkshake.IsInteractive(os.Stdin), os.Stdout, os.Stderr)
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// newGenerator picks the backend named in the config.
func newGenerator(ctx context.Context, cfg *milkshake.Config) (milkshake.ImageGenerator, error) {
	gcfg := gemini.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	}

	if cfg.Backend == milkshake.BackendSDK {
		gen, err := gemini.NewSDK(ctx, gcfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}

	gen, err := gemini.New(gcfg)
	if err != nil {
		return nil, err
	}
	return gen, nil
}
