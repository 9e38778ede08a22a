package render

import (
	"fmt"
	"os"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// DefaultEmployerName is written into the employer box of tax slips.
const DefaultEmployerName = "TD Bank Group"

// Config holds rendering settings. FieldMaps is keyed by document kind, then
// by logical field name, and overrides entries of DefaultFieldMaps.
type Config struct {
	EmployerName string                       `toml:"employer_name"`
	FieldMaps    map[string]map[string]string `toml:"field_maps"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	EmployerName string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.EmployerName == "" {
		c.EmployerName = DefaultEmployerName
	}
	if env != nil && env.EmployerName != "" {
		if v := os.Getenv(env.EmployerName); v != "" {
			c.EmployerName = v
		}
	}

	for kind, m := range c.FieldMaps {
		k, err := requests.ParseKind(kind)
		if err != nil {
			return fmt.Errorf("field_maps: %w", err)
		}
		if k.RequiresPeriod() {
			return fmt.Errorf("field_maps: %s has no form fields", k)
		}
		for logical, name := range m {
			if name == "" {
				return fmt.Errorf("field_maps.%s.%s: empty field name", kind, logical)
			}
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay. Field map entries merge per key.
func (c *Config) Merge(overlay *Config) {
	if overlay.EmployerName != "" {
		c.EmployerName = overlay.EmployerName
	}
	for kind, m := range overlay.FieldMaps {
		if c.FieldMaps == nil {
			c.FieldMaps = make(map[string]map[string]string)
		}
		if c.FieldMaps[kind] == nil {
			c.FieldMaps[kind] = make(map[string]string)
		}
		for k, v := range m {
			c.FieldMaps[kind][k] = v
		}
	}
}

// Overrides returns FieldMaps keyed by parsed kind. Call after Finalize.
func (c *Config) Overrides() map[requests.Kind]FieldMap {
	out := make(map[requests.Kind]FieldMap, len(c.FieldMaps))
	for kind, m := range c.FieldMaps {
		k, err := requests.ParseKind(kind)
		if err != nil {
			continue
		}
		out[k] = FieldMap(m)
	}
	return out
}
