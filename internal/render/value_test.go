package render_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

func TestValueFormat(t *testing.T) {
	tests := []struct {
		name  string
		value render.Value
		want  string
	}{
		{"money two decimals", render.Money(decimal.RequireFromString("4200")), "4200.00"},
		{"money rounds", render.Money(decimal.RequireFromString("152.005")), "152.01"},
		{"money negative", render.Money(decimal.RequireFromString("-3.5")), "-3.50"},
		{"date", render.Date(requests.NewDate(2022, time.March, 1)), "2022-03-01"},
		{"integer", render.Integer(2023), "2023"},
		{"text verbatim", render.Text("  Alex & Co "), "  Alex & Co "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Format(); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldsKeysSorted(t *testing.T) {
	f := render.Fields{"b": render.Text("2"), "a": render.Text("1"), "C": render.Text("3")}
	got := f.Keys()
	want := []string{"C", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys() = %v, want %v", got, want)
		}
	}
}
