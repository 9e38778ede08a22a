// Package llm is a chat-completions client for Azure OpenAI deployments and
// OpenAI-compatible endpoints (OpenAI, Ollama, vLLM).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/avast/retry-go/v4"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/requests"
)

// CognitiveServicesScope is the token scope for Azure OpenAI.
const CognitiveServicesScope = "https://cognitiveservices.azure.com/.default"

const maxErrorBody = 512

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completion is the first choice of a chat completion plus the usage the
// endpoint reported for the call.
type Completion struct {
	Content string
	Usage   requests.TokenUsage
}

// Model completes a conversation.
type Model interface {
	Complete(ctx context.Context, messages []Message) (Completion, error)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCredential sets the token credential used when no API key is configured.
func WithCredential(cred azcore.TokenCredential) Option {
	return func(c *Client) { c.cred = cred }
}

// Client implements Model over HTTP.
type Client struct {
	cfg    *Config
	url    string
	http   *http.Client
	cred   azcore.TokenCredential
	logger *slog.Logger
}

// New creates a Client. Azure deployments without an API key authenticate
// with DefaultAzureCredential unless WithCredential supplies one.
func New(cfg *Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	endpoint, err := completionsURL(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		url:    endpoint,
		http:   &http.Client{Timeout: cfg.TimeoutDuration()},
		logger: logger.With("system", "llm"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.APIKey == "" && cfg.Provider == ProviderAzure && c.cred == nil {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("create model credential: %w", err)
		}
		c.cred = cred
	}

	return c, nil
}

type chatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends messages and returns the first choice. Network failures,
// 429 and 5xx responses are retried; other failures return immediately.
// Usage is returned whenever the endpoint produced a parseable response,
// including one without choices.
func (c *Client) Complete(ctx context.Context, messages []Message) (Completion, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model(),
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return Completion{}, fmt.Errorf("encode request: %w", err)
	}

	var completion Completion
	err = retry.Do(
		func() error {
			var callErr error
			completion, callErr = c.call(ctx, body)
			return callErr
		},
		retry.Context(ctx),
		retry.Attempts(max(c.cfg.Retry.Attempts, 1)),
		retry.Delay(c.cfg.Retry.DelayDuration()),
		retry.RetryIf(IsTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.WarnContext(ctx, "model call failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return completion, err
	}

	c.logger.DebugContext(ctx, "model call complete",
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
	)
	return completion, nil
}

func (c *Client) call(ctx context.Context, body []byte) (Completion, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.authorize(ctx, req); err != nil {
		return Completion{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Completion{}, &transientError{err: fmt.Errorf("model request failed: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, &transientError{err: fmt.Errorf("read model response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode, Body: truncate(string(data), maxErrorBody)}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return Completion{}, fmt.Errorf("%w: %w", ErrUnauthorized, se)
		}
		return Completion{}, se
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Completion{}, fmt.Errorf("decode model response: %w", err)
	}

	completion := Completion{
		Usage: requests.TokenUsage{
			PromptTokens:     parsed.Usage.PromptTokens,
			CompletionTokens: parsed.Usage.CompletionTokens,
		},
	}
	if len(parsed.Choices) == 0 {
		return completion, ErrEmptyResponse
	}
	completion.Content = parsed.Choices[0].Message.Content
	return completion, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	switch {
	case c.cfg.APIKey != "" && c.cfg.Provider == ProviderAzure:
		req.Header.Set("api-key", c.cfg.APIKey)
	case c.cfg.APIKey != "":
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	case c.cred != nil:
		tok, err := c.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{CognitiveServicesScope}})
		if err != nil {
			return fmt.Errorf("acquire model token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok.Token)
	}
	return nil
}

func (c *Client) model() string {
	if c.cfg.Provider == ProviderAzure {
		return ""
	}
	return c.cfg.Model
}

func completionsURL(cfg *Config) (string, error) {
	base := strings.TrimSuffix(cfg.Endpoint, "/")

	switch cfg.Provider {
	case ProviderAzure:
		u, err := url.Parse(base + "/openai/deployments/" + url.PathEscape(cfg.Deployment) + "/chat/completions")
		if err != nil {
			return "", fmt.Errorf("invalid endpoint: %w", err)
		}
		q := u.Query()
		q.Set("api-version", cfg.APIVersion)
		u.RawQuery = q.Encode()
		return u.String(), nil
	case ProviderOpenAI:
		if strings.HasSuffix(base, "/chat/completions") {
			return base, nil
		}
		return base + "/chat/completions", nil
	}
	return "", fmt.Errorf("unknown provider %q", cfg.Provider)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
