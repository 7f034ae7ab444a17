package milkshake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "sdk backend", mutate: func(c *Config) { c.Backend = BackendSDK }},
		{name: "empty model", mutate: func(c *Config) { c.Model = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -time.Second }, wantErr: true},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "tiff" }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "grpc" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_StringRedactsAPIKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "AIza-secret"

	s := cfg.String()
	assert.NotContains(t, s, "AIza-secret")
	assert.Contains(t, s, "api_key=<redacted>")
	assert.Contains(t, s, "model="+DefaultModel)
}
