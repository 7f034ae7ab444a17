package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mhpenta/milkshake"
	"github.com/mhpenta/milkshake/clipboard"
)

// Config keys, shared by flags, environment variables and the config file.
const (
	keyModel   = "model"
	keyAPIKey  = "api-key"
	keyOutput  = "output"
	keyNoCopy  = "no-copy"
	keyTimeout = "timeout"
	keyQuiet   = "quiet"
	keyFormat  = "format"
	keyBackend = "backend"
	keyBaseURL = "base-url"
	keyVerbose = "verbose"

	configFile = "milkshake/config.yaml"
)

// app carries what the command needs from main, so tests can swap the
// environment pieces out.
type app struct {
	stdin       io.Reader
	interactive bool
	stdout      io.Writer
	stderr      io.Writer

	factory    milkshake.GeneratorFactory
	clipboard  milkshake.Clipboard
	resolver   *milkshake.OutputResolver
	configPath string
}

func newRootCmd(a *app) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "milkshake [PROMPT...]",
		Short: "Generate images with Google's Nano Banana model from your terminal.",
		Long: `Generate images with Google's Nano Banana model from your terminal.

The prompt is taken from the arguments, or read from STDIN when none are given.
The image is saved under your Pictures/milkshake directory (or ./milkshake)
unless --output is set, and copied to the clipboard unless --no-copy is set.

Examples:
  $ milkshake "a strawberry milkshake on a neon diner counter"
  $ echo "a watercolor fox" | milkshake -o fox.png --no-copy`,
		Version:       milkshake.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cmd.Flags(), a, args)
			if err != nil {
				return err
			}

			runner := milkshake.NewRunner(cfg, a.factory,
				milkshake.WithLogger(newLogger(a.stderr, cfg.Verbose)),
				milkshake.WithClipboard(a.clipboard),
				milkshake.WithOutputResolver(a.resolver),
				milkshake.WithStdin(a.stdin, a.interactive),
				milkshake.WithOutput(a.stdout, a.stderr),
			)
			_, err = runner.Run(cmd.Context())
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringP(keyModel, "m", milkshake.DefaultModel, "Model identifier to call (env "+milkshake.EnvModel+")")
	flags.String(keyAPIKey, "", "Google AI for Developers API key (env "+milkshake.EnvAPIKey+")")
	flags.StringP(keyOutput, "o", "", "Output path for the generated image (default Pictures/milkshake)")
	flags.Bool(keyNoCopy, false, "Disable copying the generated image to the clipboard")
	flags.Int(keyTimeout, int(milkshake.DefaultTimeout/time.Second), "Request timeout in seconds")
	flags.BoolP(keyQuiet, "q", false, "Suppress informational output (errors are still printed)")
	flags.String(keyFormat, string(milkshake.FormatDefault), "Output image encoding (png)")
	flags.String(keyBackend, string(milkshake.BackendREST), "API transport: rest or sdk")
	flags.String(keyBaseURL, "", "API base URL override (env "+milkshake.EnvBaseURL+")")
	flags.BoolP(keyVerbose, "v", false, "Log diagnostics to stderr")
	flags.SortFlags = false

	return cmd
}

// loadConfig layers flags over environment variables over the optional
// config file over defaults.
func loadConfig(v *viper.Viper, flags *pflag.FlagSet, a *app, args []string) (*milkshake.Config, error) {
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	for key, env := range map[string]string{
		keyAPIKey:  milkshake.EnvAPIKey,
		keyModel:   milkshake.EnvModel,
		keyBaseURL: milkshake.EnvBaseURL,
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if a.configPath != "" {
		v.SetConfigFile(a.configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config %s: %w", a.configPath, err)
			}
		}
	}

	format, err := milkshake.ParseOutputFormat(v.GetString(keyFormat))
	if err != nil {
		return nil, err
	}

	cfg := &milkshake.Config{
		PromptArgs: args,
		Model:      strings.TrimSpace(v.GetString(keyModel)),
		APIKey:     strings.TrimSpace(v.GetString(keyAPIKey)),
		OutputPath: v.GetString(keyOutput),
		NoCopy:     v.GetBool(keyNoCopy),
		Timeout:    time.Duration(v.GetInt(keyTimeout)) * time.Second,
		Quiet:      v.GetBool(keyQuiet),
		Format:     format,
		Backend:    milkshake.Backend(strings.ToLower(v.GetString(keyBackend))),
		BaseURL:    v.GetString(keyBaseURL),
		Verbose:    v.GetBool(keyVerbose),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultConfigPath returns the config file path if one exists.
func defaultConfigPath() string {
	path, err := xdg.SearchConfigFile(configFile)
	if err != nil {
		return ""
	}
	return path
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func defaultApp(stdin io.Reader, interactive bool, stdout, stderr io.Writer) *app {
	return &app{
		stdin:       stdin,
		interactive: interactive,
		stdout:      stdout,
		stderr:      stderr,
		factory:     newGenerator,
		clipboard:   clipboard.New(),
		resolver:    milkshake.NewOutputResolver(),
		configPath:  defaultConfigPath(),
	}
}
