package employees_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/employees"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

func TestPromptSelector(t *testing.T) {
	set, err := requests.NewCandidateSet([]requests.Subject{alex1, alex2})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		input      string
		want       int
		cancelled  bool
		reprompted bool
	}{
		{"first", "1\n", 0, false, false},
		{"second with spaces", "  2  \n", 1, false, false},
		{"cancel", "c\n", 0, true, false},
		{"cancel uppercase", "C\n", 0, true, false},
		{"out of range then valid", "3\n2\n", 1, false, true},
		{"garbage then cancel", "abc\nc\n", 0, true, true},
		{"blank then valid", "\n1\n", 0, false, false},
		{"eof", "", 0, true, false},
		{"valid without newline", "2", 1, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := employees.NewPromptSelector(strings.NewReader(tt.input), &out).Select(context.Background(), set)

			if tt.cancelled {
				if !errors.Is(err, employees.ErrSelectionCancelled) {
					t.Fatalf("err = %v, want ErrSelectionCancelled", err)
				}
			} else if err != nil || got != tt.want {
				t.Fatalf("Select() = %d, %v, want %d", got, err, tt.want)
			}

			if !strings.Contains(out.String(), "1. Alex Martin (ID: 102938)") {
				t.Errorf("candidates not listed:\n%s", out.String())
			}
			if strings.Contains(out.String(), "Please enter a number") != tt.reprompted {
				t.Errorf("reprompt mismatch:\n%s", out.String())
			}
		})
	}
}

func TestFixedSelector(t *testing.T) {
	if idx, err := (employees.FixedSelector{Index: 1}).Select(context.Background(), nil); err != nil || idx != 1 {
		t.Errorf("got %d, %v", idx, err)
	}
	if _, err := (employees.FixedSelector{Index: -1}).Select(context.Background(), nil); !errors.Is(err, employees.ErrSelectionCancelled) {
		t.Errorf("err = %v", err)
	}
}
