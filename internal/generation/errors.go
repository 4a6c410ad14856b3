package generation

import (
	"errors"
	"fmt"
)

// Common errors returned by the AI pipeline
var (
	// ErrUpstreamUnavailable is returned when the provider cannot be reached
	// or returns nothing usable.
	ErrUpstreamUnavailable = errors.New("language model unavailable")

	// ErrContentBlocked is returned when the provider refuses to answer due to
	// safety filters. It is a kind of ErrUpstreamUnavailable.
	ErrContentBlocked = fmt.Errorf("%w: content blocked by safety filters", ErrUpstreamUnavailable)

	// ErrMalformedResponse is returned when model text cannot be parsed as
	// the required JSON shape.
	ErrMalformedResponse = errors.New("malformed AI response")

	// ErrValidation is returned when model output parses but violates field
	// constraints such as score range or category membership.
	ErrValidation = errors.New("AI response failed validation")

	// ErrInvalidConfig is returned when a provider or gateway is misconfigured.
	ErrInvalidConfig = errors.New("invalid language model configuration")

	// ErrEmptyPrompt is returned when an empty prompt is submitted.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)
