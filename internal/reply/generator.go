// Package reply produces short reply texts for harvested comments. The
// production generator calls a Groq-hosted model through its
// OpenAI-compatible API; callers must treat generation as best-effort and
// fall back to the platform's static template on any error.
package reply

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator turns (author, comment) into a reply string.
type Generator interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the completion model used when config names none.
	DefaultModel = "llama-3.3-70b-versatile"
)

// GroqGenerator is the production Generator.
type GroqGenerator struct {
	llm *openai.LLM
}

// NewGroqGenerator builds a generator against an OpenAI-compatible
// endpoint. Empty baseURL and model fall back to the Groq defaults.
func NewGroqGenerator(apiKey, baseURL, model string) (*GroqGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize completion client: %w", err)
	}
	return &GroqGenerator{llm: llm}, nil
}

// Reply generates one short reply for the prompt.
func (g *GroqGenerator) Reply(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(0.6),
		llms.WithMaxTokens(120),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("completion was empty")
	}
	return out, nil
}
