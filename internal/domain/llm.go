package domain

import "context"

// ChatModel is the shared language model contract for prompt completion.
// The pipeline treats returned text identically regardless of which model
// produced it.
type ChatModel interface {
	Complete(ctx context.Context, prompt string) (ChatResult, error)
}

// ChatResult carries the completion text and token usage.
type ChatResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
