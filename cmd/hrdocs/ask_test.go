package main

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/employees"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/render"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

type fakeExecutor struct {
	texts    []string
	selected []int
}

func (f *fakeExecutor) Execute(ctx context.Context, text string, sel employees.Selector) *pipeline.Run {
	f.texts = append(f.texts, text)

	run := &pipeline.Run{
		State: pipeline.StatePersisted,
		Usage: requests.TokenUsage{PromptTokens: 100, CompletionTokens: 20},
		Document: &render.RenderedDocument{
			Name: "payslip_102938_20220301_to_20220331.docx",
		},
		Location: "https://hrdocs.blob.core.windows.net/output/payslip_102938_20220301_to_20220331.docx",
	}

	if strings.Contains(text, "Alex Martin") {
		index, err := sel.Select(ctx, requests.CandidateSet{
			{ID: "102938", DisplayName: "Alex Martin"},
			{ID: "445566", DisplayName: "Alex Martin"},
		})
		if err != nil {
			run.State = pipeline.StateAborted
			run.Document, run.Location = nil, ""
			run.Err = &requests.StageError{
				Stage: pipeline.StageSelect,
				Err:   &requests.DisambiguationCancelledError{Reason: err.Error()},
			}
			return run
		}
		f.selected = append(f.selected, index)
	}
	return run
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		texts    []string
		selected []int
		output   []string
	}{
		{
			name:   "quit ends the loop",
			input:  "payslip for 102938 March 2022\nquit\nT4 for 556677\n",
			texts:  []string{"payslip for 102938 March 2022"},
			output: []string{"What is your query?", "Saved to: https://", "Tokens: 100 prompt, 20 completion, 120 total"},
		},
		{
			name:  "exit and q are accepted",
			input: "\n  \nEXIT\n",
		},
		{
			name:     "selection reads from the same input",
			input:    "T4 2023 for Alex Martin\n2\nq\n",
			texts:    []string{"T4 2023 for Alex Martin"},
			selected: []int{1},
			output:   []string{"Multiple employees found:", "Selected: Alex Martin (ID: 445566)"},
		},
		{
			name:   "cancelled selection reports failure",
			input:  "T4 2023 for Alex Martin\nc\nq\n",
			texts:  []string{"T4 2023 for Alex Martin"},
			output: []string{"Request failed: [select] request cancelled during employee selection"},
		},
		{
			name:   "end of input after a request",
			input:  "T4 for 556677",
			texts:  []string{"T4 for 556677"},
			output: []string{"Document generated:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &fakeExecutor{}
			var out bytes.Buffer

			ask(context.Background(), exec, bufio.NewReader(strings.NewReader(tt.input)), &out)

			if strings.Join(exec.texts, "|") != strings.Join(tt.texts, "|") {
				t.Errorf("executed: got %q, want %q", exec.texts, tt.texts)
			}
			if len(exec.selected) != len(tt.selected) {
				t.Fatalf("selections: got %v, want %v", exec.selected, tt.selected)
			}
			for i := range tt.selected {
				if exec.selected[i] != tt.selected[i] {
					t.Errorf("selection %d: got %d, want %d", i, exec.selected[i], tt.selected[i])
				}
			}
			for _, want := range tt.output {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestAskStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExecutor{}
	var out bytes.Buffer
	ask(ctx, exec, bufio.NewReader(strings.NewReader("T4 for 556677\n")), &out)

	if len(exec.texts) != 0 {
		t.Errorf("executed %q after cancellation", exec.texts)
	}
}

func TestPrintRun(t *testing.T) {
	tests := []struct {
		name string
		run  *pipeline.Run
		want []string
	}{
		{
			name: "persisted with missing placeholders",
			run: &pipeline.Run{
				State:    pipeline.StatePersisted,
				Document: &render.RenderedDocument{Name: "payslip.docx", Missing: []string{"Department"}},
				Location: "https://example/payslip.docx",
			},
			want: []string{"Document generated: payslip.docx", "Saved to: https://example/payslip.docx", "[Department]"},
		},
		{
			name: "aborted",
			run: &pipeline.Run{
				State: pipeline.StateAborted,
				Err:   &requests.StageError{Stage: pipeline.StageResolve, Err: &requests.NotFoundError{Hint: "Sam"}},
				Usage: requests.TokenUsage{PromptTokens: 90, CompletionTokens: 10},
			},
			want: []string{`Request failed: [resolve] no employee matches "Sam"`, "100 total"},
		},
		{
			name: "suspended",
			run:  &pipeline.Run{State: pipeline.StateAwaitingSelection},
			want: []string{"Request stopped in state awaiting_selection"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printRun(&out, tt.run)
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}
