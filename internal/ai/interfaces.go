package ai

import (
	"context"
)

// TextGenerator is the pluggable backend of the refinement stage. A
// generator takes a fully rendered prompt and returns the model's free-text
// reply. Token usage may be nil when the backend does not report it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
