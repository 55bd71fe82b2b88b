package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultBaseURL is the public Story Spoiler deployment.
	DefaultBaseURL  = "https://d3s5nxhwblsjbi.cloudfront.net"
	DefaultUsername = "Angel123"
	DefaultPassword = "123456"
	DefaultTimeout  = 30 * time.Second

	envPrefix = "SPOILER_"
)

// Config holds the runner configuration
type Config struct {
	BaseURL  string        `yaml:"base_url"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Username: DefaultUsername,
		Password: DefaultPassword,
		Timeout:  DefaultTimeout,
	}
}

// Load builds a config from defaults, an optional YAML file and SPOILER_* env vars.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := GetEnv("url"); v != "" {
		c.BaseURL = v
	}
	if v := GetEnv("user"); v != "" {
		c.Username = v
	}
	if v := GetEnv("pass"); v != "" {
		c.Password = v
	}
	if v := GetEnv("timeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", GetEnvVarName("timeout"), err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks that the config can be used for a run
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base URL cannot be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must use http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL has no host: %s", c.BaseURL)
	}
	if strings.TrimSpace(c.Username) == "" {
		return errors.New("username cannot be empty")
	}
	if strings.TrimSpace(c.Password) == "" {
		return errors.New("password cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %s", c.Timeout)
	}
	return nil
}

// GetEnvVarName returns the environment variable name for a config key
func GetEnvVarName(key string) string {
	return envPrefix + strings.ToUpper(key)
}

// GetEnv retrieves an environment variable with the SPOILER_ prefix
func GetEnv(key string) string {
	return os.Getenv(GetEnvVarName(key))
}
