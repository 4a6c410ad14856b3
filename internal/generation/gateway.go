package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/smarttodo/smarttodo-api/internal/platform/logger"
)

// Provider is a single-shot text-completion service. Implementations return
// the provider's answer as a Reply without interpreting its content.
type Provider interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// Generate sends prompt and returns the provider's reply. Transport or
	// API failures are returned as errors; an empty reply is not an error at
	// this level.
	Generate(ctx context.Context, prompt string) (Reply, error)
}

// Gateway wraps a Provider and turns a prompt into raw model text.
// It does not inspect the payload; that is the job of the response package.
type Gateway struct {
	provider Provider
	logger   *slog.Logger
}

// NewGateway creates a Gateway over provider.
func NewGateway(provider Provider, log *slog.Logger) (*Gateway, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: provider cannot be nil", ErrInvalidConfig)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Gateway{
		provider: provider,
		logger:   log.With(slog.String("component", "model_gateway")),
	}, nil
}

// Complete sends prompt to the provider once and returns the raw reply text.
//
// It fails with ErrUpstreamUnavailable when the provider call fails or the
// reply carries no usable text in either of its shapes, and with
// ErrContentBlocked when every candidate was withheld by safety filters.
// There is no retry; ctx bounds the call.
func (g *Gateway) Complete(ctx context.Context, prompt string) (string, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	start := time.Now()
	log.DebugContext(ctx, "invoking language model",
		slog.String("provider", g.provider.Name()),
		slog.Int("prompt_length", len(prompt)))

	reply, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		log.ErrorContext(ctx, "language model call failed",
			slog.String("provider", g.provider.Name()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("error", err.Error()))
		if errors.Is(err, ErrUpstreamUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, g.provider.Name(), err)
	}

	text, shape, ok := reply.Extract()
	if !ok {
		if reply.Blocked() {
			log.WarnContext(ctx, "language model reply blocked",
				slog.String("provider", g.provider.Name()))
			return "", fmt.Errorf("%w: %s", ErrContentBlocked, g.provider.Name())
		}
		log.WarnContext(ctx, "language model returned no text",
			slog.String("provider", g.provider.Name()),
			slog.Int("candidates", len(reply.Candidates)))
		return "", fmt.Errorf("%w: %s returned no text content", ErrUpstreamUnavailable, g.provider.Name())
	}

	log.DebugContext(ctx, "language model replied",
		slog.String("provider", g.provider.Name()),
		slog.String("reply_shape", shape.String()),
		slog.Int("reply_length", len(text)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	return text, nil
}
