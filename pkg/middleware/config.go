package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
)

// CORSConfig holds the cross-origin policy for browser clients such as an
// HR portal.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv maps CORS config fields to environment variable names for override injection.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge == 0 {
		c.MaxAge = 600
	}

	if env != nil {
		boolean(env.Enabled, &c.Enabled)
		boolean(env.AllowCredentials, &c.AllowCredentials)
		list(env.Origins, &c.Origins)
		list(env.AllowedMethods, &c.AllowedMethods)
		list(env.AllowedHeaders, &c.AllowedHeaders)
		if v := lookup(env.MaxAge); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxAge = n
			}
		}
	}

	if c.MaxAge < 0 {
		return fmt.Errorf("max_age must not be negative")
	}
	if c.AllowCredentials && c.allows("*") && len(c.Origins) == 1 {
		return fmt.Errorf("allow_credentials requires explicit origins")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay. Enabled and
// AllowCredentials can only be switched on by an overlay.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.AllowCredentials {
		c.AllowCredentials = true
	}
	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.AllowedMethods != nil {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if overlay.AllowedHeaders != nil {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
	if overlay.MaxAge != 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func boolean(name string, dst *bool) {
	if v := lookup(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// list splits a comma-separated variable, dropping empty entries.
func list(name string, dst *[]string) {
	v := lookup(name)
	if v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}
