// Package synthesize turns ranked search hits into a narrative
// recommendation addressed to the user.
package synthesize

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vibefinder/vibefinder/internal/domain"
)

const promptTemplate = `You are an AI assistant helping users find mobile games based on their descriptions.
The user is looking for: %s

Based on this query, here are the search results:
%s

Analyze these results and provide a helpful recommendation to the user.
For each recommended game, explain why it matches what they're looking for.
Focus particularly on how the game's visuals and gameplay relate to their query.
If the results don't seem to match the query well, please acknowledge that and suggest
refining the search.

Your game recommendations:
`

// Synthesizer writes recommendation prose over search hits.
type Synthesizer struct {
	llm    domain.ChatModel
	logger *zap.Logger
}

// NewSynthesizer creates a synthesizer backed by the given chat model.
func NewSynthesizer(llm domain.ChatModel, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{llm: llm, logger: logger}
}

// Synthesize renders the hits into a digest and asks the model to explain,
// per game, why it matches the original request. The digest carries markdown
// store links so the reply can cite them.
func (s *Synthesizer) Synthesize(ctx context.Context, userQuery string, hits []domain.SearchHit) (string, error) {
	digest := renderDigest(hits)
	result, err := s.llm.Complete(ctx, fmt.Sprintf(promptTemplate, userQuery, digest))
	if err != nil {
		return "", fmt.Errorf("synthesize recommendation: %w", err)
	}

	s.logger.Debug("synthesized recommendation",
		zap.Int("hits", len(hits)),
		zap.Int("total_tokens", result.TotalTokens))
	return result.Content, nil
}
