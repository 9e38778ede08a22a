package employees

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// Selector asks someone to pick one candidate. Any error means the
// selection was cancelled.
type Selector interface {
	Select(ctx context.Context, candidates requests.CandidateSet) (int, error)
}

// FixedSelector always selects Index. A negative Index cancels.
type FixedSelector struct {
	Index int
}

func (f FixedSelector) Select(context.Context, requests.CandidateSet) (int, error) {
	if f.Index < 0 {
		return 0, ErrSelectionCancelled
	}
	return f.Index, nil
}

// PromptSelector lists candidates on a terminal and reads a 1-based choice.
// Entering 'c' or reaching end of input cancels; invalid numbers re-prompt.
type PromptSelector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptSelector creates a PromptSelector reading from in and writing to out.
func NewPromptSelector(in io.Reader, out io.Writer) *PromptSelector {
	return &PromptSelector{in: bufio.NewReader(in), out: out}
}

func (p *PromptSelector) Select(ctx context.Context, candidates requests.CandidateSet) (int, error) {
	fmt.Fprintf(p.out, "\nMultiple employees found:\n")
	for i, c := range candidates {
		fmt.Fprintf(p.out, "  %d. %s (ID: %s)\n", i+1, c.DisplayName, c.ID)
	}

	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		fmt.Fprintf(p.out, "Select employee (1-%d) or 'c' to cancel: ", len(candidates))
		line, err := p.in.ReadString('\n')
		choice := strings.TrimSpace(line)

		if strings.EqualFold(choice, "c") {
			return 0, ErrSelectionCancelled
		}
		if choice != "" {
			if n, convErr := strconv.Atoi(choice); convErr == nil && n >= 1 && n <= len(candidates) {
				selected := candidates[n-1]
				fmt.Fprintf(p.out, "Selected: %s (ID: %s)\n", selected.DisplayName, selected.ID)
				return n - 1, nil
			}
			fmt.Fprintf(p.out, "Please enter a number between 1 and %d.\n", len(candidates))
		}

		if err != nil {
			return 0, ErrSelectionCancelled
		}
	}
}
