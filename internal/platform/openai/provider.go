// Package openai implements generation.Provider for OpenAI-compatible
// chat-completions endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/smarttodo/smarttodo-api/internal/generation"
)

// ProviderName identifies this provider in logs and errors.
const ProviderName = "openai"

// finishContentFilter is the finish reason reported for filtered output.
const finishContentFilter = "content_filter"

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 1024

// Config holds the endpoint and credentials of an OpenAI-compatible server.
type Config struct {
	Endpoint     string
	APIKey       string
	ModelName    string
	SystemPrompt string
}

// Provider posts prompts to a chat-completions endpoint.
type Provider struct {
	endpoint     string
	apiKey       string
	model        string
	systemPrompt string
	httpClient   *http.Client
	logger       *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider builds a provider from cfg. A nil httpClient means
// http.DefaultClient; the request context bounds every call.
func NewProvider(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Provider, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" || cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: openai endpoint, API key and model are required", generation.ErrInvalidConfig)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		model:        cfg.ModelName,
		systemPrompt: safePrompt(cfg.SystemPrompt),
		httpClient:   httpClient,
		logger:       logger.With(slog.String("component", "openai_provider"), slog.String("model", cfg.ModelName)),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	// OutputText is the flattened text some compatible servers expose.
	OutputText *string `json:"output_text"`
	Choices    []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Generate implements generation.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string) (generation.Reply, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: p.systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return generation.Reply{}, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return generation.Reply{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return generation.Reply{}, fmt.Errorf("send chat request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return generation.Reply{}, fmt.Errorf("chat completion error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return generation.Reply{}, fmt.Errorf("decode chat response: %w", err)
	}

	reply := toReply(decoded)
	p.logger.DebugContext(ctx, "chat completion received",
		slog.Int("choices", len(decoded.Choices)),
		slog.String("reply_shape", reply.Shape().String()))

	return reply, nil
}

// toReply exposes the first unfiltered choice as the direct text field and
// keeps every choice as a candidate.
func toReply(r chatResponse) generation.Reply {
	reply := generation.Reply{Text: r.OutputText}

	for _, c := range r.Choices {
		blocked := c.FinishReason == finishContentFilter
		reply.Candidates = append(reply.Candidates, generation.Candidate{
			Parts:        []string{c.Message.Content},
			FinishReason: c.FinishReason,
			Blocked:      blocked,
		})
		if reply.Text == nil && !blocked {
			content := c.Message.Content
			reply.Text = &content
		}
	}

	return reply
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a task-planning assistant. Answer with JSON only."
	}
	return prompt
}
