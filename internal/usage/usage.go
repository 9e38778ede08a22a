// Package usage keeps the process-wide running total of language-model token
// consumption and mirrors it into Prometheus counters.
package usage

import (
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// Snapshot is a point-in-time copy of the running totals.
type Snapshot struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
	Requests         int64 `json:"requests"`
}

// Accountant accumulates token usage. It is safe for concurrent use and is
// never reset during the life of the process.
type Accountant struct {
	prompt     atomic.Int64
	completion atomic.Int64
	calls      atomic.Int64

	promptCounter     prometheus.Counter
	completionCounter prometheus.Counter
	callCounter       prometheus.Counter
}

// New creates an Accountant and registers its counters on reg. A nil reg
// skips registration. Registration failures are logged and the Accountant
// keeps counting in memory.
func New(reg prometheus.Registerer, logger *slog.Logger) *Accountant {
	a := &Accountant{
		promptCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hrdocs_llm_prompt_tokens_total",
			Help: "Prompt tokens consumed by request classification.",
		}),
		completionCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hrdocs_llm_completion_tokens_total",
			Help: "Completion tokens produced by request classification.",
		}),
		callCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hrdocs_llm_requests_total",
			Help: "Language model calls made by request classification.",
		}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{a.promptCounter, a.completionCounter, a.callCounter} {
			if err := reg.Register(c); err != nil {
				logger.With("system", "usage").Warn("usage metric registration failed", "error", err)
			}
		}
	}

	return a
}

// Record adds one model call's usage to the totals.
func (a *Accountant) Record(u requests.TokenUsage) {
	a.prompt.Add(u.PromptTokens)
	a.completion.Add(u.CompletionTokens)
	a.calls.Add(1)

	a.promptCounter.Add(float64(max(u.PromptTokens, 0)))
	a.completionCounter.Add(float64(max(u.CompletionTokens, 0)))
	a.callCounter.Inc()
}

// Snapshot returns the current totals.
func (a *Accountant) Snapshot() Snapshot {
	p, c := a.prompt.Load(), a.completion.Load()
	return Snapshot{
		PromptTokens:     p,
		CompletionTokens: c,
		TotalTokens:      p + c,
		Requests:         a.calls.Load(),
	}
}

// Summary renders the session token summary printed when the CLI exits.
func (a *Accountant) Summary() string {
	s := a.Snapshot()

	var b strings.Builder
	b.WriteString("SESSION TOKEN SUMMARY\n")
	fmt.Fprintf(&b, "  Requests:          %d\n", s.Requests)
	fmt.Fprintf(&b, "  Prompt tokens:     %d\n", s.PromptTokens)
	fmt.Fprintf(&b, "  Completion tokens: %d\n", s.CompletionTokens)
	fmt.Fprintf(&b, "  Total tokens:      %d\n", s.TotalTokens)
	if s.Requests > 0 {
		fmt.Fprintf(&b, "  Average per request: %.1f\n", float64(s.TotalTokens)/float64(s.Requests))
	}
	return b.String()
}
