package server

import (
	"errors"
	"fmt"

	"github.com/lox/tablevision/internal/analyzer"
)

// AnalyzeResponse is the payload returned for every analyzed frame,
// over HTTP and over the websocket alike.
type AnalyzeResponse struct {
	Success        bool                   `json:"success"`
	HeroTurn       *bool                  `json:"hero_turn,omitempty"`
	Message        string                 `json:"message,omitempty"`
	Recommendation *RecommendationPayload `json:"recommendation,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

// RecommendationPayload is the advice block sent when it is the
// hero's turn to act.
type RecommendationPayload struct {
	Action    string `json:"action"`
	PotSize   string `json:"pot_size"`
	EV        string `json:"ev"`
	Reasoning string `json:"reasoning"`
}

const notYourTurnMessage = "Not your turn yet. Capture again when the action is on you."

// responseFor shapes an analysis into the wire payload.
func responseFor(a *analyzer.Analysis) *AnalyzeResponse {
	heroTurn := a.GameInfo.IsHeroTurn
	resp := &AnalyzeResponse{
		Success:  true,
		HeroTurn: &heroTurn,
	}

	if !heroTurn {
		resp.Message = notYourTurnMessage
		return resp
	}

	ev := a.Detailed.EVCalculation
	if ev == "" {
		ev = "N/A"
	}
	resp.Recommendation = &RecommendationPayload{
		Action:    a.Recommendation.Action,
		PotSize:   fmt.Sprintf("%.1f BB", a.GameInfo.PotSizeBB),
		EV:        ev,
		Reasoning: a.Recommendation.Reasoning,
	}
	return resp
}

// errorResponseFor shapes an analysis failure into the wire payload.
func errorResponseFor(err error) *AnalyzeResponse {
	code := "analysis_failed"
	if errors.Is(err, analyzer.ErrUnconfigured) {
		code = "not_configured"
	}
	return &AnalyzeResponse{
		Success: false,
		Error:   code,
		Message: err.Error(),
	}
}

// badRequestResponse reports a request the server could not read at all.
func badRequestResponse(message string) *AnalyzeResponse {
	return &AnalyzeResponse{
		Success: false,
		Error:   "bad_request",
		Message: message,
	}
}
