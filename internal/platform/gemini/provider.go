package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smarttodo/smarttodo-api/internal/generation"
	"google.golang.org/genai"
)

// ProviderName identifies this provider in logs and errors.
const ProviderName = "gemini"

// DefaultModel is used when Config.ModelName is empty.
const DefaultModel = "gemini-2.5-flash"

// Config holds the credentials and model selection for the Gemini provider.
type Config struct {
	APIKey    string
	ModelName string
	// Temperature is passed to the model when non-nil.
	Temperature *float32
}

// contentGenerator is the subset of *genai.Models used by Provider.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Provider sends prompts to a Gemini model.
type Provider struct {
	models contentGenerator
	model  string
	temp   *float32
	logger *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Gemini client for cfg.
func NewProvider(ctx context.Context, cfg Config, logger *slog.Logger) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newProvider(client.Models, cfg, logger)
}

func newProvider(models contentGenerator, cfg Config, logger *slog.Logger) (*Provider, error) {
	if models == nil {
		return nil, errors.New("gemini models client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}
	return &Provider{
		models: models,
		model:  model,
		temp:   cfg.Temperature,
		logger: logger.With(slog.String("component", "gemini_provider"), slog.String("model", model)),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Model returns the model the provider calls.
func (p *Provider) Model() string {
	return p.model
}

// Generate implements generation.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string) (generation.Reply, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      p.temp,
	}

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(prompt), cfg)
	if err != nil {
		return generation.Reply{}, fmt.Errorf("gemini generate content: %w", err)
	}

	reply := toReply(resp)
	p.logger.DebugContext(ctx, "gemini response received",
		slog.Int("candidates", len(reply.Candidates)),
		slog.Bool("blocked", reply.Blocked()))

	return reply, nil
}

// toReply converts a Gemini response into a reply. The first candidate's
// text is also exposed as the direct text unless that candidate was blocked.
// A prompt rejected outright is reported as a single blocked candidate.
func toReply(resp *genai.GenerateContentResponse) generation.Reply {
	if resp == nil {
		return generation.Reply{}
	}

	if len(resp.Candidates) == 0 && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return generation.PartsReply(generation.Candidate{
			FinishReason: string(resp.PromptFeedback.BlockReason),
			Blocked:      true,
		})
	}

	candidates := make([]generation.Candidate, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		if c == nil {
			continue
		}
		candidate := generation.Candidate{
			FinishReason: string(c.FinishReason),
			Blocked:      blockedFinish(c.FinishReason),
		}
		if c.Content != nil {
			for _, part := range c.Content.Parts {
				if part != nil && part.Text != "" {
					candidate.Parts = append(candidate.Parts, part.Text)
				}
			}
		}
		candidates = append(candidates, candidate)
	}

	reply := generation.PartsReply(candidates...)
	if len(candidates) > 0 && !candidates[0].Blocked {
		if text := strings.Join(candidates[0].Parts, ""); strings.TrimSpace(text) != "" {
			reply.Text = &text
		}
	}
	return reply
}

// blockedFinish reports whether a finish reason means the content was withheld.
func blockedFinish(reason genai.FinishReason) bool {
	switch reason {
	case genai.FinishReasonSafety,
		genai.FinishReasonBlocklist,
		genai.FinishReasonProhibitedContent,
		genai.FinishReasonSPII:
		return true
	default:
		return false
	}
}
