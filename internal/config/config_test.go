package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/config"
)

const baseTOML = `
version = "1.2.0"
log_level = "debug"

[server]
port = 9090

[database]
name = "payroll"
user = "hrdocs"

[storage]
connection_string = "UseDevelopmentStorage=true"

[llm]
provider = "azure"
endpoint = "https://example.openai.azure.com"
deployment = "gpt-4o"

[render]
employer_name = "TD Bank Group"

[render.field_maps.T4]
SIN = "custom_sin"

[documents.templates]
payslip_template = "payslips/template.docx"

[pipeline]
current_employee = "102938"
`

const overlayTOML = `
[server]
port = 9191

[sessions]
backend = "redis"
ttl = "5m"
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, config.BaseConfigFile, baseTOML)
	writeFile(t, dir, "config.test.toml", overlayTOML)
	writeFile(t, dir, config.DotEnvFile, "HRDOCS_DB_PASSWORD=from-dotenv\nHRDOCS_RECORDS_RETRY_ATTEMPTS=3\n")

	t.Setenv(config.EnvHrdocsEnv, "test")
	t.Setenv("HRDOCS_LLM_API_KEY", "secret")
	t.Setenv("HRDOCS_DB_PASSWORD", "")
	os.Unsetenv("HRDOCS_DB_PASSWORD")
	t.Setenv("HRDOCS_RECORDS_RETRY_ATTEMPTS", "")
	os.Unsetenv("HRDOCS_RECORDS_RETRY_ATTEMPTS")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"version", cfg.Version, "1.2.0"},
		{"overlay port", cfg.Server.Port, 9191},
		{"database name", cfg.Database.Name, "payroll"},
		{"dotenv password", cfg.Database.Password, "from-dotenv"},
		{"dotenv retry attempts", cfg.Records.Retry.Attempts, uint(3)},
		{"env api key", cfg.LLM.APIKey, "secret"},
		{"overlay sessions backend", cfg.Sessions.Backend, "redis"},
		{"overlay sessions ttl", cfg.Sessions.TTL, "5m"},
		{"current employee", cfg.Pipeline.CurrentEmployee, "102938"},
		{"template override", cfg.Documents.Templates["payslip_template"], "payslips/template.docx"},
		{"template default", cfg.Documents.Templates["T4_template"], "t4-fill-24e.pdf"},
		{"field map", cfg.Render.FieldMaps["T4"]["SIN"], "custom_sin"},
		{"api base path", cfg.API.BasePath, "/api"},
		{"shutdown timeout", cfg.ShutdownTimeout, "30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}

	if cfg.Env() != "test" {
		t.Errorf("Env() = %q", cfg.Env())
	}
	if cfg.API.MaxBodySizeBytes() != 64*1024 {
		t.Errorf("MaxBodySizeBytes() = %d", cfg.API.MaxBodySizeBytes())
	}
	if !cfg.NewLogger(os.Stderr).Enabled(t.Context(), slog.LevelDebug) {
		t.Error("debug logging should be enabled")
	}
}

func TestLoadFailsWithoutRequiredSections(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvHrdocsEnv, "")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "finalize config") {
		t.Errorf("error = %v", err)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{"bad shutdown timeout", func(c *config.Config) { c.ShutdownTimeout = "later" }, "shutdown_timeout"},
		{"bad log level", func(c *config.Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad port", func(c *config.Config) { c.Server.Port = 70000 }, "server"},
		{"bad base path", func(c *config.Config) { c.API.BasePath = "api/" }, "api"},
		{"bad body size", func(c *config.Config) { c.API.MaxBodySize = "lots" }, "api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Database.Name, cfg.Database.User = "payroll", "hrdocs"
			cfg.Storage.ConnectionString = "UseDevelopmentStorage=true"
			cfg.LLM.Endpoint, cfg.LLM.Deployment = "https://example.openai.azure.com", "gpt-4o"
			tt.mutate(cfg)

			err := cfg.Finalize()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}
