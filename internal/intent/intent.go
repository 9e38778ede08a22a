// Package intent turns a free-text HR request into a typed DocumentRequest
// by asking a language model to classify it.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/llm"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
	"github.com/ZahraAsadiMSFT/hr-modernization/pkg/formatting"
)

// Recorder receives the token usage of every model call.
type Recorder interface {
	Record(requests.TokenUsage)
}

type subjectSource int

const (
	fromSelf subjectSource = iota
	fromNumber
	fromName
)

type intentSpec struct {
	kind    requests.Kind
	subject subjectSource
}

var intents = map[string]intentSpec{
	"PAYSLIP_SELF":      {requests.KindPayslip, fromSelf},
	"PAYSLIP_ON_BEHALF": {requests.KindPayslip, fromNumber},
	"PAYSLIP_BY_NAME":   {requests.KindPayslip, fromName},
	"T4_SELF":           {requests.KindT4, fromSelf},
	"T4_ON_BEHALF":      {requests.KindT4, fromNumber},
	"T4_BY_NAME":        {requests.KindT4, fromName},
	"T4A_SELF":          {requests.KindT4A, fromSelf},
	"T4A_ON_BEHALF":     {requests.KindT4A, fromNumber},
	"T4A_BY_NAME":       {requests.KindT4A, fromName},
}

// Options configures a Classifier.
type Options struct {
	// CurrentEmployee is the employee number used for *_SELF intents.
	CurrentEmployee string
}

// Classifier implements request classification over an llm.Model.
type Classifier struct {
	model    llm.Model
	recorder Recorder
	self     string
	logger   *slog.Logger
}

// New creates a Classifier. Usage of every model call is sent to recorder.
func New(model llm.Model, recorder Recorder, opts Options, logger *slog.Logger) *Classifier {
	return &Classifier{
		model:    model,
		recorder: recorder,
		self:     strings.TrimSpace(opts.CurrentEmployee),
		logger:   logger.With("system", "intent"),
	}
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

type reply struct {
	Intent     string `json:"intent"`
	Parameters struct {
		EmployeeNumber flexString `json:"employeeNumber"`
		EmployeeName   string     `json:"employeeName"`
		FromDate       string     `json:"fromDate"`
		ToDate         string     `json:"toDate"`
		Year           flexString `json:"year"`
	} `json:"parameters"`
	Missing []string `json:"missing"`
}

// Classify sends text to the model and builds a DocumentRequest from its
// reply. Empty text is rejected without calling the model. Every model call
// is recorded, and its usage returned, whether or not classification succeeds.
func (c *Classifier) Classify(ctx context.Context, text string) (requests.DocumentRequest, requests.TokenUsage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return requests.DocumentRequest{}, requests.TokenUsage{}, &requests.ClassificationError{Reason: "request text is empty"}
	}

	completion, err := c.model.Complete(ctx, []llm.Message{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: text},
	})
	c.record(ctx, completion.Usage)

	if err != nil {
		return requests.DocumentRequest{}, completion.Usage, &requests.ClassificationError{
			Raw:    completion.Content,
			Reason: "model call failed",
			Err:    err,
		}
	}

	req, err := c.interpret(completion.Content)
	if err != nil {
		c.logger.WarnContext(ctx, "classification rejected", "error", err, "raw", completion.Content)
		return requests.DocumentRequest{}, completion.Usage, err
	}

	c.logger.InfoContext(ctx, "request classified",
		"kind", req.Kind(),
		"subject_hint", req.SubjectHint(),
		"scope", req.Scope().String(),
	)
	return req, completion.Usage, nil
}

func (c *Classifier) record(ctx context.Context, u requests.TokenUsage) {
	if c.recorder == nil {
		return
	}
	c.recorder.Record(u)
	c.logger.DebugContext(ctx, "token usage",
		"prompt_tokens", u.PromptTokens,
		"completion_tokens", u.CompletionTokens,
		"total_tokens", u.Total(),
	)
}

func (c *Classifier) interpret(raw string) (requests.DocumentRequest, error) {
	fail := func(format string, args ...any) (requests.DocumentRequest, error) {
		return requests.DocumentRequest{}, &requests.ClassificationError{Raw: raw, Reason: fmt.Sprintf(format, args...)}
	}

	if strings.TrimSpace(raw) == "" {
		return fail("model returned an empty response")
	}

	r, err := formatting.Parse[reply](raw)
	if err != nil {
		return fail("model response is not valid JSON")
	}

	spec, ok := intents[strings.ToUpper(strings.TrimSpace(r.Intent))]
	if !ok {
		return fail("unrecognized intent %q", r.Intent)
	}
	if len(r.Missing) > 0 {
		return fail("request is missing %s", strings.Join(r.Missing, ", "))
	}

	hint, err := c.subjectHint(spec.subject, r)
	if err != nil {
		return fail("%v", err)
	}

	scope, err := scopeFor(spec.kind, r)
	if err != nil {
		return fail("%v", err)
	}

	req, err := requests.NewDocumentRequest(spec.kind, hint, scope)
	if err != nil {
		return fail("%v", err)
	}
	return req, nil
}

func (c *Classifier) subjectHint(src subjectSource, r reply) (string, error) {
	number := strings.TrimSpace(string(r.Parameters.EmployeeNumber))
	name := strings.TrimSpace(r.Parameters.EmployeeName)

	switch src {
	case fromSelf:
		if c.self == "" {
			return "", fmt.Errorf("no current employee is configured for a self-service request")
		}
		return c.self, nil
	case fromNumber:
		if number != "" {
			return number, nil
		}
		if name != "" {
			return name, nil
		}
		return "", fmt.Errorf("employeeNumber is required")
	case fromName:
		if name != "" {
			return name, nil
		}
		if number != "" {
			return number, nil
		}
		return "", fmt.Errorf("employeeName is required")
	}
	return "", fmt.Errorf("unsupported subject source")
}

func scopeFor(kind requests.Kind, r reply) (requests.Scope, error) {
	switch kind {
	case requests.KindPayslip:
		if r.Parameters.FromDate == "" || r.Parameters.ToDate == "" {
			return nil, fmt.Errorf("fromDate and toDate are required")
		}
		from, err := requests.ParseDate(strings.TrimSpace(r.Parameters.FromDate))
		if err != nil {
			return nil, err
		}
		to, err := requests.ParseDate(strings.TrimSpace(r.Parameters.ToDate))
		if err != nil {
			return nil, err
		}
		return requests.PeriodScope{Start: from, End: to}, nil
	case requests.KindT4, requests.KindT4A:
		raw := strings.TrimSpace(string(r.Parameters.Year))
		if raw == "" {
			return nil, fmt.Errorf("year is required")
		}
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", raw)
		}
		return requests.YearScope{Year: year}, nil
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}
