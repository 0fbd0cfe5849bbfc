package rest

import (
	"net/http"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/sequencer"
	"github.com/ewilliams-labs/segue/internal/core/services"
)

type optimizeRequest struct {
	Name    string          `json:"name"`
	Tracks  []domain.Track  `json:"tracks"`
	Start   string          `json:"start"`
	Weights *domain.Weights `json:"weights"`
}

type searchStats struct {
	Cost      float64 `json:"cost"`
	Expanded  int     `json:"expanded"`
	Generated int     `json:"generated"`
	Pruned    int     `json:"pruned"`
	ElapsedMs float64 `json:"elapsed_ms"`
}

func statsOf(res sequencer.Result) searchStats {
	return searchStats{
		Cost:      res.Cost,
		Expanded:  res.Expanded,
		Generated: res.Generated,
		Pruned:    res.Pruned,
		ElapsedMs: float64(res.Elapsed.Microseconds()) / 1000,
	}
}

type optimizeResponse struct {
	Order    []domain.Track    `json:"order"`
	Stats    searchStats       `json:"stats"`
	Analysis services.Analysis `json:"analysis"`
}

// Optimize handles POST /optimize
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Tracks) == 0 {
		writeErrorWithCode(w, http.StatusBadRequest, "tracks are required", errCodeInvalidInput)
		return
	}
	if !h.checkTrackCount(w, len(req.Tracks)) {
		return
	}

	res, err := h.svc.OptimizeTracks(r.Context(), req.Tracks, req.Start, req.Weights)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	name := req.Name
	if name == "" {
		name = "request"
	}
	writeJSON(w, http.StatusOK, optimizeResponse{
		Order:    res.Order,
		Stats:    statsOf(res),
		Analysis: h.svc.AnalyzeResult(name, req.Tracks, res, req.Weights),
	})
}

type startOutcome struct {
	StartID string       `json:"start_id"`
	Order   []string     `json:"order,omitempty"`
	Stats   *searchStats `json:"stats,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type bestStartResponse struct {
	Best     startOutcome   `json:"best"`
	Outcomes []startOutcome `json:"outcomes"`
}

// BestStart handles POST /best-start
func (h *Handler) BestStart(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Tracks) == 0 {
		writeErrorWithCode(w, http.StatusBadRequest, "tracks are required", errCodeInvalidInput)
		return
	}
	if !h.checkTrackCount(w, len(req.Tracks)) {
		return
	}

	ranking, err := h.svc.BestStart(r.Context(), req.Tracks, req.Weights)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := bestStartResponse{Best: outcomeOf(ranking.Best.Start, ranking.Best.Result, nil)}
	for _, oc := range ranking.Outcomes {
		resp.Outcomes = append(resp.Outcomes, outcomeOf(oc.Start, oc.Result, oc.Err))
	}
	writeJSON(w, http.StatusOK, resp)
}

func outcomeOf(start domain.Track, res sequencer.Result, err error) startOutcome {
	if err != nil {
		return startOutcome{StartID: start.ID, Error: err.Error()}
	}
	ids := make([]string, len(res.Order))
	for i, t := range res.Order {
		ids[i] = t.ID
	}
	stats := statsOf(res)
	return startOutcome{StartID: start.ID, Order: ids, Stats: &stats}
}
