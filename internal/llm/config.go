package llm

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
)

// Config holds chat-completions endpoint and sampling parameters.
type Config struct {
	Provider    string  `toml:"provider"`
	Endpoint    string  `toml:"endpoint"`
	Deployment  string  `toml:"deployment"`
	APIVersion  string  `toml:"api_version"`
	Model       string  `toml:"model"`
	APIKey      string  `toml:"api_key"`
	Temperature float64 `toml:"temperature"`
	MaxTokens   int     `toml:"max_tokens"`
	Timeout     string  `toml:"timeout"`
	Retry       Retry   `toml:"retry"`
}

// Retry bounds retries of transient model failures.
type Retry struct {
	Attempts uint   `toml:"attempts"`
	Delay    string `toml:"delay"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider    string
	Endpoint    string
	Deployment  string
	APIVersion  string
	Model       string
	APIKey      string
	Temperature string
	MaxTokens   string
	Timeout     string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// DelayDuration returns the retry delay as a time.Duration.
func (c *Retry) DelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.Delay)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Deployment != "" {
		c.Deployment = overlay.Deployment
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.MaxTokens != 0 {
		c.MaxTokens = overlay.MaxTokens
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.Retry.Attempts != 0 {
		c.Retry.Attempts = overlay.Retry.Attempts
	}
	if overlay.Retry.Delay != "" {
		c.Retry.Delay = overlay.Retry.Delay
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderAzure
	}
	if c.APIVersion == "" {
		c.APIVersion = "2024-12-01-preview"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.1
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 500
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = 3
	}
	if c.Retry.Delay == "" {
		c.Retry.Delay = "500ms"
	}
}

func (c *Config) loadEnv(env *Env) {
	str := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	str(env.Provider, &c.Provider)
	str(env.Endpoint, &c.Endpoint)
	str(env.Deployment, &c.Deployment)
	str(env.APIVersion, &c.APIVersion)
	str(env.Model, &c.Model)
	str(env.APIKey, &c.APIKey)
	str(env.Timeout, &c.Timeout)

	if env.Temperature != "" {
		if v := os.Getenv(env.Temperature); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.Temperature = f
			}
		}
	}
	if env.MaxTokens != "" {
		if v := os.Getenv(env.MaxTokens); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxTokens = n
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderAzure:
		if c.Deployment == "" {
			return fmt.Errorf("deployment required for provider %s", c.Provider)
		}
	case ProviderOpenAI:
		if c.Model == "" {
			return fmt.Errorf("model required for provider %s", c.Provider)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid endpoint: %q", c.Endpoint)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature %.2f out of range [0, 2]", c.Temperature)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be positive")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Retry.Delay); err != nil {
		return fmt.Errorf("invalid retry.delay: %w", err)
	}
	return nil
}
