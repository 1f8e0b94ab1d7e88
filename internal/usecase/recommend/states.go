package recommend

import "github.com/vibefinder/vibefinder/internal/domain"

// state names one node of the recommendation flow.
type state string

const (
	stateStart      state = "start"
	stateEnhance    state = "enhance_query"
	stateSearch     state = "search_games"
	stateSynthesize state = "format_results"
	stateNoResults  state = "no_results"
	stateEnd        state = "end"
)

// flowState carries intermediate values between pipeline stages.
type flowState struct {
	userQuery          string
	enhancedQuery      string
	searchResults      []domain.SearchHit
	recommendationText string
}

// transition picks the next state. Only search_games branches: it routes
// on whether any hits survived the score threshold.
func transition(current state, fs *flowState) state {
	switch current {
	case stateStart:
		return stateEnhance
	case stateEnhance:
		return stateSearch
	case stateSearch:
		if len(fs.searchResults) > 0 {
			return stateSynthesize
		}
		return stateNoResults
	case stateSynthesize, stateNoResults:
		return stateEnd
	default:
		return stateEnd
	}
}
