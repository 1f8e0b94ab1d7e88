// Package enhance rewrites free-text user requests into dense search
// queries suited to vector retrieval.
package enhance

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vibefinder/vibefinder/internal/domain"
)

const promptTemplate = `You are an AI assistant helping users find mobile games based on their descriptions.
Convert the user's query into a search query that will help find relevant games.
Extract key elements like visual style, gameplay mechanics, mood, and theme.
Do not add any greeting, notes etc, finish after one line.

Example:
User query: "show me some cool games about ghosts, haunted houses and stuff!"

Search query: "ghost games, dark and eerie aesthetic, horror, mystery, paranormal investigations, supernatural abilities, exploration of haunted locations"

User query: %s

Search query:
`

// Enhancer turns user queries into search queries via a chat model.
type Enhancer struct {
	llm    domain.ChatModel
	logger *zap.Logger
}

// NewEnhancer creates an enhancer backed by the given chat model.
func NewEnhancer(llm domain.ChatModel, logger *zap.Logger) *Enhancer {
	return &Enhancer{llm: llm, logger: logger}
}

// Enhance asks the model to extract visual style, mechanics, mood, and
// theme from the user's request, then strips label echoes and wrapping
// quotes from the reply.
func (e *Enhancer) Enhance(ctx context.Context, userQuery string) (string, error) {
	result, err := e.llm.Complete(ctx, fmt.Sprintf(promptTemplate, userQuery))
	if err != nil {
		return "", fmt.Errorf("enhance query: %w", err)
	}

	enhanced := Clean(result.Content)
	e.logger.Debug("enhanced query",
		zap.String("user_query", userQuery),
		zap.String("enhanced_query", enhanced),
		zap.Int("total_tokens", result.TotalTokens))
	return enhanced, nil
}
