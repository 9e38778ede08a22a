package storage_test

import (
	"strings"
	"testing"

	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/storage"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := storage.Config{ConnectionString: azuriteConnString}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.TemplateContainer != "templates" {
		t.Errorf("template_container: got %q", cfg.TemplateContainer)
	}
	if cfg.OutputContainer != "generated" {
		t.Errorf("output_container: got %q", cfg.OutputContainer)
	}
	if !cfg.UsesConnectionString() {
		t.Error("UsesConnectionString() = false")
	}
}

func TestConfigEnvOverrides(t *testing.T) {
	t.Setenv("TEST_STORAGE_ACCOUNT_URL", "https://hrdocs.blob.core.windows.net")
	t.Setenv("TEST_STORAGE_TEMPLATES", "hr-templates")
	t.Setenv("TEST_STORAGE_OUTPUT", "hr-output")

	env := &storage.Env{
		AccountURL:        "TEST_STORAGE_ACCOUNT_URL",
		TemplateContainer: "TEST_STORAGE_TEMPLATES",
		OutputContainer:   "TEST_STORAGE_OUTPUT",
	}

	cfg := storage.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if cfg.AccountURL != "https://hrdocs.blob.core.windows.net" {
		t.Errorf("account_url: got %q", cfg.AccountURL)
	}
	if cfg.TemplateContainer != "hr-templates" || cfg.OutputContainer != "hr-output" {
		t.Errorf("containers: got %q / %q", cfg.TemplateContainer, cfg.OutputContainer)
	}
	if cfg.UsesConnectionString() {
		t.Error("UsesConnectionString() = true without a connection string")
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     storage.Config
		wantErr string
	}{
		{"no credentials", storage.Config{}, "connection_string or account_url required"},
		{"bad account url", storage.Config{AccountURL: "blob-host"}, "invalid account_url"},
		{
			"same containers",
			storage.Config{ConnectionString: azuriteConnString, TemplateContainer: "docs", OutputContainer: "docs"},
			"must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := storage.Config{ConnectionString: "base", TemplateContainer: "templates"}
	base.Merge(&storage.Config{OutputContainer: "prod-output"})

	if base.ConnectionString != "base" || base.TemplateContainer != "templates" {
		t.Errorf("zero overlay fields must not overwrite: %+v", base)
	}
	if base.OutputContainer != "prod-output" {
		t.Errorf("output_container: got %q", base.OutputContainer)
	}
}
