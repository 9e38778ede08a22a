// Package config loads the hrdocs configuration: config.toml, an optional
// config.<env>.toml overlay, a .env file, and HRDOCS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/documents"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/employees"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/llm"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/records"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/sessions"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/database"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvHrdocsEnv             = "HRDOCS_ENV"
	EnvHrdocsShutdownTimeout = "HRDOCS_SHUTDOWN_TIMEOUT"
	EnvHrdocsVersion         = "HRDOCS_VERSION"
	EnvHrdocsLogLevel        = "HRDOCS_LOG_LEVEL"
	EnvHrdocsCurrentEmployee = "HRDOCS_CURRENT_EMPLOYEE"
)

var databaseEnv = &database.Env{
	Host:            "HRDOCS_DB_HOST",
	Port:            "HRDOCS_DB_PORT",
	Name:            "HRDOCS_DB_NAME",
	User:            "HRDOCS_DB_USER",
	Password:        "HRDOCS_DB_PASSWORD",
	SSLMode:         "HRDOCS_DB_SSL_MODE",
	MaxOpenConns:    "HRDOCS_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "HRDOCS_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "HRDOCS_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "HRDOCS_DB_CONN_TIMEOUT",
	ApplicationName: "HRDOCS_DB_APPLICATION_NAME",
}

var storageEnv = &storage.Env{
	ConnectionString:  "HRDOCS_STORAGE_CONNECTION_STRING",
	AccountURL:        "HRDOCS_STORAGE_ACCOUNT_URL",
	TemplateContainer: "HRDOCS_STORAGE_TEMPLATE_CONTAINER",
	OutputContainer:   "HRDOCS_STORAGE_OUTPUT_CONTAINER",
}

var llmEnv = &llm.Env{
	Provider:    "HRDOCS_LLM_PROVIDER",
	Endpoint:    "HRDOCS_LLM_ENDPOINT",
	Deployment:  "HRDOCS_LLM_DEPLOYMENT",
	APIVersion:  "HRDOCS_LLM_API_VERSION",
	Model:       "HRDOCS_LLM_MODEL",
	APIKey:      "HRDOCS_LLM_API_KEY",
	Temperature: "HRDOCS_LLM_TEMPERATURE",
	MaxTokens:   "HRDOCS_LLM_MAX_TOKENS",
	Timeout:     "HRDOCS_LLM_TIMEOUT",
}

var resolverEnv = &employees.Env{
	NumberPattern: "HRDOCS_RESOLVER_NUMBER_PATTERN",
}

var retryEnv = &records.RetryEnv{
	Attempts: "HRDOCS_RECORDS_RETRY_ATTEMPTS",
	Delay:    "HRDOCS_RECORDS_RETRY_DELAY",
}

var renderEnv = &render.Env{
	EmployerName: "HRDOCS_RENDER_EMPLOYER_NAME",
}

var documentsEnv = &documents.Env{
	OutputPrefix: "HRDOCS_DOCUMENTS_OUTPUT_PREFIX",
}

var sessionsEnv = &sessions.Env{
	Backend:  "HRDOCS_SESSIONS_BACKEND",
	Addr:     "HRDOCS_SESSIONS_ADDR",
	Password: "HRDOCS_SESSIONS_PASSWORD",
	DB:       "HRDOCS_SESSIONS_DB",
	TTL:      "HRDOCS_SESSIONS_TTL",
}

// Config is the root configuration for the hrdocs CLI and server.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	API             APIConfig        `toml:"api"`
	Database        database.Config  `toml:"database"`
	Storage         storage.Config   `toml:"storage"`
	LLM             llm.Config       `toml:"llm"`
	Resolver        employees.Config `toml:"resolver"`
	Records         RecordsConfig    `toml:"records"`
	Render          render.Config    `toml:"render"`
	Documents       documents.Config `toml:"documents"`
	Sessions        sessions.Config  `toml:"sessions"`
	Pipeline        PipelineConfig   `toml:"pipeline"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
	LogLevel        string           `toml:"log_level"`
}

// RecordsConfig holds payroll query settings.
type RecordsConfig struct {
	Retry records.RetryConfig `toml:"retry"`
}

// PipelineConfig holds request handling settings.
type PipelineConfig struct {
	// CurrentEmployee answers "my payslip" style requests.
	CurrentEmployee string `toml:"current_employee"`
}

// Env returns the HRDOCS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvHrdocsEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads .env (if present) into the environment, then the base config
// (if present), applies any environment overlay, and finalizes all values.
// Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.Pipeline.CurrentEmployee != "" {
		c.Pipeline.CurrentEmployee = overlay.Pipeline.CurrentEmployee
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.LLM.Merge(&overlay.LLM)
	c.Resolver.Merge(&overlay.Resolver)
	c.Records.Retry.Merge(&overlay.Records.Retry)
	c.Render.Merge(&overlay.Render)
	c.Documents.Merge(&overlay.Documents)
	c.Sessions.Merge(&overlay.Sessions)
}

// Finalize applies defaults, environment overrides and validation to every
// section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"api", c.API.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"llm", func() error { return c.LLM.Finalize(llmEnv) }},
		{"resolver", func() error { return c.Resolver.Finalize(resolverEnv) }},
		{"records.retry", func() error { return c.Records.Retry.Finalize(retryEnv) }},
		{"render", func() error { return c.Render.Finalize(renderEnv) }},
		{"documents", func() error { return c.Documents.Finalize(documentsEnv) }},
		{"sessions", func() error { return c.Sessions.Finalize(sessionsEnv) }},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvHrdocsShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvHrdocsVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvHrdocsLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvHrdocsCurrentEmployee); v != "" {
		c.Pipeline.CurrentEmployee = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvHrdocsEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
