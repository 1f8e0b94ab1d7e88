// Package recommend runs the full recommendation flow: query enhancement,
// vector search, and narrative synthesis, as a small state machine.
package recommend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vibefinder/vibefinder/internal/domain"
)

// noResultsText is returned verbatim when no game clears the score
// threshold. No model call happens on this path.
const noResultsText = "No results found"

// enhancer rewrites the user query for retrieval.
type enhancer interface {
	Enhance(ctx context.Context, userQuery string) (string, error)
}

// searcher runs threshold-filtered vector search.
type searcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchHit, error)
}

// synthesizer writes the final recommendation prose.
type synthesizer interface {
	Synthesize(ctx context.Context, userQuery string, hits []domain.SearchHit) (string, error)
}

// Config holds pipeline tuning.
type Config struct {
	// StageTimeout bounds each stage separately; zero disables the bound.
	StageTimeout time.Duration
}

// Result is the complete outcome of one recommendation run.
type Result struct {
	UserQuery          string
	EnhancedQuery      string
	Recommendations    []domain.SearchHit
	RecommendationText string
}

// Pipeline wires the three stages together.
type Pipeline struct {
	enhancer    enhancer
	searcher    searcher
	synthesizer synthesizer
	cfg         Config
	logger      *zap.Logger
}

// NewPipeline creates a recommendation pipeline.
func NewPipeline(e enhancer, s searcher, syn synthesizer, cfg Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		enhancer:    e,
		searcher:    s,
		synthesizer: syn,
		cfg:         cfg,
		logger:      logger,
	}
}

// Recommend walks the flow from start to end. A stage failure aborts the
// run with a RecommendationError naming the stage; the no-results branch is
// not a failure.
func (p *Pipeline) Recommend(ctx context.Context, userQuery string) (Result, error) {
	fs := &flowState{userQuery: userQuery}

	for current := transition(stateStart, fs); current != stateEnd; current = transition(current, fs) {
		if err := p.runStage(ctx, current, fs); err != nil {
			return Result{}, err
		}
	}

	p.logger.Info("recommendation complete",
		zap.String("user_query", fs.userQuery),
		zap.String("enhanced_query", fs.enhancedQuery),
		zap.Int("recommendations", len(fs.searchResults)))

	return Result{
		UserQuery:          fs.userQuery,
		EnhancedQuery:      fs.enhancedQuery,
		Recommendations:    fs.searchResults,
		RecommendationText: fs.recommendationText,
	}, nil
}

func (p *Pipeline) runStage(ctx context.Context, current state, fs *flowState) error {
	if p.cfg.StageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.StageTimeout)
		defer cancel()
	}

	switch current {
	case stateEnhance:
		enhanced, err := p.enhancer.Enhance(ctx, fs.userQuery)
		if err != nil {
			return domain.NewRecommendationFailed(domain.StageEnhance, err)
		}
		fs.enhancedQuery = enhanced

	case stateSearch:
		hits, err := p.searcher.Search(ctx, fs.enhancedQuery)
		if err != nil {
			return domain.NewRecommendationFailed(domain.StageSearch, err)
		}
		fs.searchResults = hits

	case stateSynthesize:
		text, err := p.synthesizer.Synthesize(ctx, fs.userQuery, fs.searchResults)
		if err != nil {
			return domain.NewRecommendationFailed(domain.StageSynthesize, err)
		}
		fs.recommendationText = text

	case stateNoResults:
		fs.recommendationText = noResultsText
	}
	return nil
}
