package chi

import (
	"github.com/vibefinder/vibefinder/internal/domain"
	"github.com/vibefinder/vibefinder/internal/domain/batch"
	"github.com/vibefinder/vibefinder/internal/usecase/health"
	"github.com/vibefinder/vibefinder/internal/usecase/recommend"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type recommendRequest struct {
	Query string `json:"query"`
}

type recommendResponse struct {
	UserQuery          string             `json:"user_query"`
	EnhancedQuery      string             `json:"enhanced_query"`
	Recommendations    []domain.SearchHit `json:"recommendations"`
	RecommendationText string             `json:"recommendation_text"`
}

func recommendResponseFromResult(r recommend.Result) recommendResponse {
	recs := r.Recommendations
	if recs == nil {
		recs = []domain.SearchHit{}
	}
	return recommendResponse{
		UserQuery:          r.UserQuery,
		EnhancedQuery:      r.EnhancedQuery,
		Recommendations:    recs,
		RecommendationText: r.RecommendationText,
	}
}

type addGamesRequest struct {
	Games []domain.GameRecord `json:"games"`
}

type addGamesItem struct {
	AppID  string `json:"app_id"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type addGamesResponse struct {
	Items     []addGamesItem `json:"items"`
	Succeeded int            `json:"succeeded"`
	Skipped   int            `json:"skipped"`
}

func addGamesResponseFromReport(report *batch.Report) addGamesResponse {
	items := make([]addGamesItem, 0, len(report.Items()))
	for _, item := range report.Items() {
		items = append(items, addGamesItem{
			AppID:  item.ID(),
			Status: string(item.Status()),
			Reason: item.Reason(),
		})
	}
	return addGamesResponse{
		Items:     items,
		Succeeded: report.Succeeded(),
		Skipped:   report.Skipped(),
	}
}

type statsResponse struct {
	GameCount int `json:"game_count"`
}

type healthResponse struct {
	Status string                        `json:"status"`
	Checks map[string]health.CheckResult `json:"checks"`
}
