// Package llm adapts the Genkit generation API to the narrow Generator
// contract the chat orchestrator consumes.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// ErrEmptyResponse indicates the model returned no usable text.
var ErrEmptyResponse = errors.New("model returned empty response")

// Generator produces answers from assembled prompts using a named model.
type Generator struct {
	g      *genkit.Genkit
	model  string
	logger *slog.Logger
}

// NewGenerator creates a Generator bound to a model name such as
// "googleai/gemini-2.0-flash".
func NewGenerator(g *genkit.Genkit, model string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{g: g, model: model, logger: logger}
}

// Generate sends the prompt to the model and returns its text answer.
// The call is made exactly once; retry policy belongs to the caller.
func (gen *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := genkit.Generate(ctx, gen.g,
		ai.WithModelName(gen.model),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", gen.model, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generate with %s: %w", gen.model, ErrEmptyResponse)
	}

	gen.logger.Debug("generated answer", "model", gen.model, "chars", len(text))
	return text, nil
}
