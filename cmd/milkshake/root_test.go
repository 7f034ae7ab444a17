package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhpenta/milkshake"
	"github.com/mhpenta/milkshake/provider/gemini"
)

type fakeGenerator struct {
	data []byte
}

func (f *fakeGenerator) Generate(ctx context.Context, req milkshake.GenerationRequest) (*milkshake.GenerationResult, error) {
	return &milkshake.GenerationResult{MIMEType: "image/png", Data: f.data}, nil
}

func (f *fakeGenerator) Close() error { return nil }

type failingClipboard struct{}

func (failingClipboard) WriteImage(image.Image) error { return milkshake.ErrClipboardUnavailable }

type testApp struct {
	*app
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	gotCfg *milkshake.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv(milkshake.EnvAPIKey, "")
	t.Setenv(milkshake.EnvModel, "")
	t.Setenv(milkshake.EnvBaseURL, "")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 3, 3))))

	ta := &testApp{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	outDir := t.TempDir()
	ta.app = &app{
		stdin:       strings.NewReader(""),
		interactive: true,
		stdout:      ta.stdout,
		stderr:      ta.stderr,
		factory: func(ctx context.Context, cfg *milkshake.Config) (milkshake.ImageGenerator, error) {
			ta.gotCfg = cfg
			return &fakeGenerator{data: buf.Bytes()}, nil
		},
		clipboard: failingClipboard{},
		resolver: &milkshake.OutputResolver{Locators: []milkshake.DirLocator{{
			Name:   "test",
			Locate: func() (string, error) { return outDir, nil },
		}}},
	}
	return ta
}

func (ta *testApp) execute(args ...string) error {
	cmd := newRootCmd(ta.app)
	cmd.SetArgs(args)
	cmd.SetOut(ta.stdout)
	cmd.SetErr(ta.stderr)
	return cmd.ExecuteContext(context.Background())
}

func TestRootCmd_Help(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.execute("--help"))
	assert.Contains(t, ta.stdout.String(), "milkshake")
	assert.Contains(t, ta.stdout.String(), "--no-copy")
}

func TestRootCmd_Defaults(t *testing.T) {
	ta := newTestApp(t)
	t.Setenv(milkshake.EnvAPIKey, "env-key")

	require.NoError(t, ta.execute("a", "pink", "milkshake"))

	cfg := ta.gotCfg
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"a", "pink", "milkshake"}, cfg.PromptArgs)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, milkshake.DefaultModel, cfg.Model)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, milkshake.FormatPNG, cfg.Format)
	assert.Equal(t, milkshake.BackendREST, cfg.Backend)
	assert.False(t, cfg.NoCopy)
	assert.False(t, cfg.Quiet)

	assert.Contains(t, ta.stdout.String(), "Saved image to ")
	assert.Contains(t, ta.stdout.String(), "Clipboard status: clipboard unavailable")
	assert.Contains(t, ta.stderr.String(), "Warning: failed to copy image to clipboard")
}

func TestRootCmd_FlagsOverrideEnv(t *testing.T) {
	ta := newTestApp(t)
	t.Setenv(milkshake.EnvAPIKey, "env-key")
	t.Setenv(milkshake.EnvModel, "env-model")

	out := filepath.Join(t.TempDir(), "sub", "x.png")
	require.NoError(t, ta.execute(
		"--api-key", "flag-key",
		"-m", "flag-model",
		"-o", out,
		"--no-copy",
		"--timeout", "5",
		"--backend", "SDK",
		"-q",
		"prompt",
	))

	cfg := ta.gotCfg
	assert.Equal(t, "flag-key", cfg.APIKey)
	assert.Equal(t, "flag-model", cfg.Model)
	assert.Equal(t, out, cfg.OutputPath)
	assert.True(t, cfg.NoCopy)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, milkshake.BackendSDK, cfg.Backend)

	assert.FileExists(t, out)
	assert.Empty(t, ta.stdout.String())
	assert.Empty(t, ta.stderr.String())
}

func TestRootCmd_EnvModel(t *testing.T) {
	ta := newTestApp(t)
	t.Setenv(milkshake.EnvAPIKey, "k")
	t.Setenv(milkshake.EnvModel, "models/env-model")

	require.NoError(t, ta.execute("--no-copy", "prompt"))
	assert.Equal(t, "models/env-model", ta.gotCfg.Model)
}

func TestRootCmd_ConfigFile(t *testing.T) {
	ta := newTestApp(t)
	ta.configPath = filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(ta.configPath, []byte("api-key: file-key\nmodel: file-model\nno-copy: true\n"), 0o600))
	t.Setenv(milkshake.EnvModel, "env-model")

	require.NoError(t, ta.execute("prompt"))

	assert.Equal(t, "file-key", ta.gotCfg.APIKey)
	assert.Equal(t, "env-model", ta.gotCfg.Model)
	assert.True(t, ta.gotCfg.NoCopy)
}

func TestRootCmd_Errors(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		ta := newTestApp(t)
		err := ta.execute("prompt")
		assert.ErrorIs(t, err, milkshake.ErrMissingAPIKey)
		assert.Nil(t, ta.gotCfg)
	})

	t.Run("no prompt on a terminal", func(t *testing.T) {
		ta := newTestApp(t)
		t.Setenv(milkshake.EnvAPIKey, "k")
		assert.ErrorIs(t, ta.execute(), milkshake.ErrNoPromptProvided)
	})

	t.Run("unsupported format", func(t *testing.T) {
		ta := newTestApp(t)
		t.Setenv(milkshake.EnvAPIKey, "k")
		assert.ErrorContains(t, ta.execute("--format", "tiff", "prompt"), "unsupported output format")
	})

	t.Run("unknown backend", func(t *testing.T) {
		ta := newTestApp(t)
		t.Setenv(milkshake.EnvAPIKey, "k")
		assert.ErrorIs(t, ta.execute("--backend", "grpc", "prompt"), milkshake.ErrInvalidConfig)
	})

	t.Run("zero timeout", func(t *testing.T) {
		ta := newTestApp(t)
		t.Setenv(milkshake.EnvAPIKey, "k")
		assert.ErrorIs(t, ta.execute("--timeout", "0", "prompt"), milkshake.ErrInvalidConfig)
	})
}

func TestNewGenerator_SelectsBackend(t *testing.T) {
	cfg := milkshake.DefaultConfig()
	cfg.APIKey = "k"

	gen, err := newGenerator(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &gemini.Client{}, gen)

	cfg.Backend = milkshake.BackendSDK
	gen, err = newGenerator(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &gemini.SDKGenerator{}, gen)

	cfg.APIKey = ""
	_, err = newGenerator(context.Background(), cfg)
	assert.ErrorIs(t, err, milkshake.ErrMissingAPIKey)
}
