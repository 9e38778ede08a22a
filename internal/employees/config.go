package employees

import (
	"fmt"
	"os"
	"regexp"
)

// DefaultNumberPattern matches the numeric employee numbers issued by payroll.
const DefaultNumberPattern = `^\d{4,10}$`

// Config holds subject resolution settings.
type Config struct {
	NumberPattern string `toml:"number_pattern"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	NumberPattern string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.NumberPattern == "" {
		c.NumberPattern = DefaultNumberPattern
	}
	if env != nil && env.NumberPattern != "" {
		if v := os.Getenv(env.NumberPattern); v != "" {
			c.NumberPattern = v
		}
	}
	if _, err := regexp.Compile(c.NumberPattern); err != nil {
		return fmt.Errorf("invalid number_pattern: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.NumberPattern != "" {
		c.NumberPattern = overlay.NumberPattern
	}
}
