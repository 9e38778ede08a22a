package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/formatting"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/middleware"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "HRDOCS_CORS_ENABLED",
	Origins:          "HRDOCS_CORS_ORIGINS",
	AllowedMethods:   "HRDOCS_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "HRDOCS_CORS_ALLOWED_HEADERS",
	AllowCredentials: "HRDOCS_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "HRDOCS_CORS_MAX_AGE",
}

// APIConfig holds API routing, request limits, and CORS settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes. Call after Finalize.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, _ := formatting.ParseBytes(c.MaxBodySize)
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "64KB"
	}
	if v := os.Getenv("HRDOCS_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("HRDOCS_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}

	if !strings.HasPrefix(c.BasePath, "/") || (len(c.BasePath) > 1 && strings.HasSuffix(c.BasePath, "/")) {
		return fmt.Errorf("base_path must start and not end with /: %q", c.BasePath)
	}
	if size, err := formatting.ParseBytes(c.MaxBodySize); err != nil || size <= 0 {
		return fmt.Errorf("invalid max_body_size: %q", c.MaxBodySize)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
	c.CORS.Merge(&overlay.CORS)
}
