// Package llm exposes a uniform gateway over interchangeable chat backends.
// One backend is selected from configuration at process start; every
// implementation adapts the common prompt to its vendor's request shape and
// normalizes failures into canned user-facing strings, so transport errors
// never cross the gateway boundary.
package llm

import (
	"context"

	"expense-advisor/pkg/config"

	"go.uber.org/zap"
)

type Status int

const (
	StatusOK Status = iota
	StatusUnavailable
	StatusError
)

// Response is the gateway's only output. Text is always safe to show the
// user; Detail carries the diagnostic that goes to the log, never the caller.
type Response struct {
	Text   string
	Status Status
	Detail string
}

const (
	// MessageUnavailable is returned when a backend answers with a non-2xx
	// status.
	MessageUnavailable = "I'm currently unavailable. Please try again later."

	// MessageConnection is returned when the request never completed
	// (timeout, refused connection, DNS).
	MessageConnection = "Connection issues. Please try again."

	// MessageNoResponse is returned when a backend answered 2xx but produced
	// no usable completion.
	MessageNoResponse = "No response generated."
)

type Provider interface {
	Name() string
	// Generate sends one prompt and returns the normalized result. It never
	// returns a Go error: failures surface as StatusUnavailable or
	// StatusError with canned text.
	Generate(ctx context.Context, prompt string) Response
}

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// New picks exactly one backend from configuration. There is no per-request
// override; an unrecognized value falls back to the local Ollama backend.
func New(cfg *config.LLMConfig, logger *zap.Logger) Provider {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg, logger)
	case ProviderGemini:
		return NewGemini(cfg, logger)
	case ProviderOllama:
		return NewOllama(cfg, logger)
	default:
		logger.Warn("Unrecognized LLM provider, falling back to ollama",
			zap.String("provider", cfg.Provider))
		return NewOllama(cfg, logger)
	}
}

func unavailable(detail string) Response {
	return Response{Text: MessageUnavailable, Status: StatusUnavailable, Detail: detail}
}

func connectionIssue(detail string) Response {
	return Response{Text: MessageConnection, Status: StatusUnavailable, Detail: detail}
}

func malformed(detail string) Response {
	return Response{Text: MessageUnavailable, Status: StatusError, Detail: detail}
}
