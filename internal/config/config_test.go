package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultUsername, cfg.Username)
	assert.Equal(t, DefaultPassword, cfg.Password)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spoilercheck.yaml")
	content := "base_url: http://localhost:9000\nusername: alice\ntimeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("SPOILER_USER", "bob")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000", cfg.BaseURL)
	assert.Equal(t, "bob", cfg.Username, "env overrides file")
	assert.Equal(t, DefaultPassword, cfg.Password, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("SPOILER_TIMEOUT", "soon")
	_, err = Load("")
	assert.ErrorContains(t, err, "SPOILER_TIMEOUT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty url", func(c *Config) { c.BaseURL = "" }},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://example.com" }},
		{"no host", func(c *Config) { c.BaseURL = "http://" }},
		{"empty username", func(c *Config) { c.Username = " " }},
		{"empty password", func(c *Config) { c.Password = "" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetEnvVarName(t *testing.T) {
	assert.Equal(t, "SPOILER_URL", GetEnvVarName("url"))
}
