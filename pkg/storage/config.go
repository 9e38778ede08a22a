package storage

import (
	"fmt"
	"net/url"
	"os"
)

// Config holds Azure Blob Storage connection parameters shared by the
// template and output containers.
//
// Either ConnectionString or AccountURL must be set. When only AccountURL is
// set the client authenticates with the default Azure credential chain.
type Config struct {
	ConnectionString  string `toml:"connection_string"`
	AccountURL        string `toml:"account_url"`
	TemplateContainer string `toml:"template_container"`
	OutputContainer   string `toml:"output_container"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ConnectionString  string
	AccountURL        string
	TemplateContainer string
	OutputContainer   string
}

// UsesConnectionString reports whether the client authenticates with a shared key.
func (c *Config) UsesConnectionString() bool {
	return c.ConnectionString != ""
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
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
	if overlay.TemplateContainer != "" {
		c.TemplateContainer = overlay.TemplateContainer
	}
	if overlay.OutputContainer != "" {
		c.OutputContainer = overlay.OutputContainer
	}
}

func (c *Config) loadDefaults() {
	if c.TemplateContainer == "" {
		c.TemplateContainer = "templates"
	}
	if c.OutputContainer == "" {
		c.OutputContainer = "generated"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.AccountURL != "" {
		if v := os.Getenv(env.AccountURL); v != "" {
			c.AccountURL = v
		}
	}
	if env.TemplateContainer != "" {
		if v := os.Getenv(env.TemplateContainer); v != "" {
			c.TemplateContainer = v
		}
	}
	if env.OutputContainer != "" {
		if v := os.Getenv(env.OutputContainer); v != "" {
			c.OutputContainer = v
		}
	}
}

func (c *Config) validate() error {
	if c.ConnectionString == "" && c.AccountURL == "" {
		return fmt.Errorf("connection_string or account_url required")
	}
	if c.AccountURL != "" {
		u, err := url.Parse(c.AccountURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid account_url: %q", c.AccountURL)
		}
	}
	if c.TemplateContainer == c.OutputContainer {
		return fmt.Errorf("template_container and output_container must differ")
	}
	return nil
}
