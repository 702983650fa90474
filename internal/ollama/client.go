// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ollama

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tmc/langchaingo/llms"
	llmollama "github.com/tmc/langchaingo/llms/ollama"
)

// Sampling options per task. Classification wants near-deterministic
// short output; synthesis wants room for coherent long-form text.
const (
	classifyTemperature = 0.2
	classifyTopP        = 0.9
	classifyMaxTokens   = 200

	generateTemperature       = 0.7
	generateTopP              = 0.9
	generateMaxTokens         = 1500
	generateRepetitionPenalty = 1.1
)

// referencesPattern matches a trailing References/Sources/Bibliography
// section. Models append one despite instructions; sources are shown
// separately, so it gets stripped.
var referencesPattern = regexp.MustCompile(`(?is)\n\s*\[?(references?|sources?|bibliography)\]?[:\-]?\s*(\n.*)?$`)

// Classifier answers article-selection prompts with a low-temperature
// model. It satisfies the selection stage's classifier interface.
type Classifier struct {
	llm   llms.Model
	model string
}

// NewClassifier connects to the Ollama server for the given model.
func NewClassifier(host, model string) (*Classifier, error) {
	llm, err := llmollama.New(llmollama.WithServerURL(host), llmollama.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("connect ollama classifier: %w", err)
	}
	return &Classifier{llm: llm, model: model}, nil
}

// Model returns the model name in use.
func (c *Classifier) Model() string { return c.model }

// Classify runs the prompt and returns the model's raw reply.
func (c *Classifier) Classify(ctx context.Context, prompt string) (string, error) {
	reply, err := llms.GenerateFromSinglePrompt(ctx, c.llm, prompt,
		llms.WithTemperature(classifyTemperature),
		llms.WithTopP(classifyTopP),
		llms.WithMaxTokens(classifyMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("classify with %s: %w", c.model, err)
	}
	return strings.TrimSpace(reply), nil
}

// Generator produces the synthesized answer.
type Generator struct {
	llm   llms.Model
	model string
}

// NewGenerator connects to the Ollama server for the given model.
func NewGenerator(host, model string) (*Generator, error) {
	llm, err := llmollama.New(llmollama.WithServerURL(host), llmollama.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("connect ollama generator: %w", err)
	}
	return &Generator{llm: llm, model: model}, nil
}

// Model returns the model name in use.
func (g *Generator) Model() string { return g.model }

// Generate runs the synthesis prompt and returns the answer with any
// trailing references section removed.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	answer, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt,
		llms.WithTemperature(generateTemperature),
		llms.WithTopP(generateTopP),
		llms.WithMaxTokens(generateMaxTokens),
		llms.WithRepetitionPenalty(generateRepetitionPenalty),
	)
	if err != nil {
		return "", fmt.Errorf("generate with %s: %w", g.model, err)
	}
	return StripTrailingReferences(answer), nil
}

// StripTrailingReferences removes a References/Sources/Bibliography
// section from the end of an answer.
func StripTrailingReferences(answer string) string {
	return strings.TrimRight(referencesPattern.ReplaceAllString(answer, ""), " \t\n")
}
