package render_test

import (
	"testing"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_EMPLOYER", "Payroll Inc")

	tests := []struct {
		name     string
		cfg      render.Config
		env      *render.Env
		employer string
		wantErr  bool
	}{
		{name: "default employer", cfg: render.Config{}, employer: render.DefaultEmployerName},
		{name: "env employer", cfg: render.Config{}, env: &render.Env{EmployerName: "TEST_EMPLOYER"}, employer: "Payroll Inc"},
		{
			name: "valid field map",
			cfg: render.Config{FieldMaps: map[string]map[string]string{
				"t4": {render.FieldSIN: "SIN"},
			}},
			employer: render.DefaultEmployerName,
		},
		{
			name:    "unknown kind",
			cfg:     render.Config{FieldMaps: map[string]map[string]string{"W2": {"SIN": "x"}}},
			wantErr: true,
		},
		{
			name:    "payslip has no form",
			cfg:     render.Config{FieldMaps: map[string]map[string]string{"PAYSLIP": {"SIN": "x"}}},
			wantErr: true,
		},
		{
			name:    "empty name",
			cfg:     render.Config{FieldMaps: map[string]map[string]string{"T4A": {"SIN": ""}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(tt.env)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Finalize() error = %v", err)
			}
			if tt.cfg.EmployerName != tt.employer {
				t.Errorf("employer = %q, want %q", tt.cfg.EmployerName, tt.employer)
			}
		})
	}
}

func TestConfigMergeAndOverrides(t *testing.T) {
	base := render.Config{FieldMaps: map[string]map[string]string{"T4": {"SIN": "a", "Year": "y"}}}
	base.Merge(&render.Config{
		EmployerName: "Acme",
		FieldMaps:    map[string]map[string]string{"T4": {"SIN": "b"}, "T4A": {"Year": "z"}},
	})

	if base.EmployerName != "Acme" {
		t.Errorf("employer = %q", base.EmployerName)
	}

	o := base.Overrides()
	if o[requests.KindT4]["SIN"] != "b" || o[requests.KindT4]["Year"] != "y" {
		t.Errorf("T4 overrides = %v", o[requests.KindT4])
	}
	if o[requests.KindT4A]["Year"] != "z" {
		t.Errorf("T4A overrides = %v", o[requests.KindT4A])
	}
}
