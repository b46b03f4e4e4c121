// Package anthropic provides an LLM service adapter using the Anthropic API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.anthropic.com"
	DefaultModel   = "claude-3-5-sonnet-latest"
	DefaultTimeout = 120 * time.Second

	// anthropicVersion is the required API version header.
	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic LLM service.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the LLM model to use (default: claude-3-5-sonnet-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides chat completion using the Anthropic API.
type LLMService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// messagesRequest is the Anthropic /v1/messages request format.
type messagesRequest struct {
	Model       string            `json:"model"`
	Messages    []messagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	System      string            `json:"system,omitempty"`
	Temperature float64           `json:"temperature,omitempty"`
	StopSeqs    []string          `json:"stop_sequences,omitempty"`
}

// messagesMessage is the Anthropic message format.
type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic /v1/messages response format.
type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// defaultMaxTokens is used when the caller does not set a limit;
// the Anthropic API requires max_tokens.
const defaultMaxTokens = 1024

// NewLLMService creates a new Anthropic LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &LLMService{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Generate produces a text completion from a single prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	messages := []messagesMessage{{Role: driven.ChatRoleUser, Content: prompt}}
	return s.complete(ctx, "", messages, opts.MaxTokens, opts.Temperature, opts.StopWords)
}

// Chat conducts a multi-turn conversation. A leading system message is
// lifted into the Anthropic system field.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	var system string
	msgs := make([]messagesMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == driven.ChatRoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		msgs = append(msgs, messagesMessage{Role: m.Role, Content: m.Content})
	}
	return s.complete(ctx, system, msgs, opts.MaxTokens, opts.Temperature, nil)
}

// complete issues one /v1/messages call.
func (s *LLMService) complete(
	ctx context.Context, system string, messages []messagesMessage,
	maxTokens int, temperature float64, stop []string,
) (string, error) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	reqBody := messagesRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: temperature,
		StopSeqs:    stop,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/messages",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", providerErr("chat", transportKind(ctx, err), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", providerErr("chat", domain.KindUnknown, fmt.Errorf("read response: %w", err))
	}

	var msgResp messagesResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", providerErr("chat", domain.KindUnknown, fmt.Errorf("decode response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		message := string(body)
		kind := statusKind(resp.StatusCode)
		if msgResp.Error != nil {
			message = msgResp.Error.Message
			if msgResp.Error.Type == "invalid_request_error" {
				kind = domain.KindRejected
			}
		}
		return "", providerErr("chat", kind, fmt.Errorf("status %d: %s", resp.StatusCode, message))
	}

	var text string
	for _, block := range msgResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", providerErr("chat", domain.KindUnknown, errors.New("no completion returned"))
	}
	return text, nil
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable with a minimal message request.
func (s *LLMService) Ping(ctx context.Context) error {
	_, err := s.complete(ctx, "", []messagesMessage{
		{Role: driven.ChatRoleUser, Content: "ping"},
	}, 1, 0, nil)
	return err
}

// Close releases resources.
func (s *LLMService) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// providerErr wraps an error as a domain.ProviderError.
func providerErr(op string, kind domain.ErrorKind, err error) error {
	return &domain.ProviderError{Provider: "anthropic", Op: op, Kind: kind, Err: err}
}

// transportKind classifies a transport-level failure.
func transportKind(ctx context.Context, err error) domain.ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.KindTimeout
	}
	return domain.KindUnavailable
}

// statusKind classifies an HTTP status code.
func statusKind(status int) domain.ErrorKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.KindAuth
	case status == http.StatusTooManyRequests:
		return domain.KindRateLimited
	case status >= 500:
		return domain.KindUnavailable
	case status == http.StatusBadRequest:
		return domain.KindRejected
	default:
		return domain.KindUnknown
	}
}
