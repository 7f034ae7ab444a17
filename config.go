package milkshake

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultModel is the Nano Banana model identifier.
	DefaultModel = "gemini-2.5-flash-image-preview"

	// DefaultTimeout is the request timeout applied when none is configured.
	DefaultTimeout = 60 * time.Second

	// EnvAPIKey holds the Google AI for Developers API key.
	EnvAPIKey = "GOOGLE_API_KEY"

	// EnvModel overrides the model identifier.
	EnvModel = "MILKSHAKE_MODEL"

	// EnvBaseURL overrides the API base URL.
	EnvBaseURL = "MILKSHAKE_BASE_URL"
)

// Backend selects how the API is reached.
type Backend string

const (
	// BackendREST posts JSON to the generateContent endpoint directly.
	BackendREST Backend = "rest"

	// BackendSDK goes through google.golang.org/genai.
	BackendSDK Backend = "sdk"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the fully resolved settings for one invocation.
type Config struct {
	// PromptArgs are the positional prompt tokens, possibly empty
	PromptArgs []string

	Model string

	// APIKey is never printed or logged
	APIKey string

	// OutputPath is the explicit destination; empty means generate one
	OutputPath string

	// NoCopy disables the clipboard step entirely
	NoCopy bool

	Timeout time.Duration

	// Quiet suppresses informational output and warnings, not errors
	Quiet bool

	Format OutputFormat

	Backend Backend

	// BaseURL for custom endpoints (optional)
	BaseURL string

	// Verbose enables debug logging on stderr
	Verbose bool
}

// DefaultConfig returns a Config with the CLI defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:   DefaultModel,
		Timeout: DefaultTimeout,
		Format:  FormatDefault,
		Backend: BackendREST,
	}
}

// Validate checks settings that do not depend on the prompt or the API key.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	if _, err := ParseOutputFormat(string(c.Format)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.Backend {
	case BackendREST, BackendSDK:
	default:
		return fmt.Errorf("%w: unknown backend %q (want %s or %s)", ErrInvalidConfig, c.Backend, BackendREST, BackendSDK)
	}
	return nil
}

// String renders the config with the API key redacted.
func (c Config) String() string {
	key := "<unset>"
	if c.APIKey != "" {
		key = "<redacted>"
	}
	return fmt.Sprintf("model=%s backend=%s format=%s timeout=%s output=%q no_copy=%t quiet=%t api_key=%s",
		c.Model, c.Backend, c.Format, c.Timeout, c.OutputPath, c.NoCopy, c.Quiet, key)
}
