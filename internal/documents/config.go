package documents

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// DefaultTemplates maps each kind's template name to its blob key.
var DefaultTemplates = map[string]string{
	requests.KindPayslip.TemplateName(): "payslip_template.docx",
	requests.KindT4.TemplateName():      "t4-fill-24e.pdf",
	requests.KindT4A.TemplateName():     "t4a-fill-24e.pdf",
}

// Config maps template names to blob keys and places generated output.
type Config struct {
	Templates    map[string]string `toml:"templates"`
	OutputPrefix string            `toml:"output_prefix"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	OutputPrefix string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	merged := maps.Clone(DefaultTemplates)
	maps.Copy(merged, c.Templates)
	c.Templates = merged

	if env != nil && env.OutputPrefix != "" {
		if v := os.Getenv(env.OutputPrefix); v != "" {
			c.OutputPrefix = v
		}
	}

	for name, key := range c.Templates {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("templates.%s: blob key required", name)
		}
	}
	if strings.Contains(c.OutputPrefix, "..") {
		return fmt.Errorf("invalid output_prefix %q", c.OutputPrefix)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay. Template entries merge per key.
func (c *Config) Merge(overlay *Config) {
	if len(overlay.Templates) > 0 {
		if c.Templates == nil {
			c.Templates = make(map[string]string, len(overlay.Templates))
		}
		maps.Copy(c.Templates, overlay.Templates)
	}
	if overlay.OutputPrefix != "" {
		c.OutputPrefix = overlay.OutputPrefix
	}
}
