package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/goalcast/goalcast/internal/usecase"
)

type submitPredictionRequest struct {
	UserID    string   `json:"userId" validate:"required"`
	MatchID   string   `json:"matchId" validate:"required"`
	HomeScore *int     `json:"homeScore" validate:"omitempty,gte=0,lte=99"`
	AwayScore *int     `json:"awayScore" validate:"omitempty,gte=0,lte=99"`
	Scorers   []string `json:"scorers" validate:"max=10,dive,max=100"`
}

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	var req submitPredictionRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	saved, err := h.predictionService.Submit(ctx, usecase.SubmitPredictionInput{
		UserID:    req.UserID,
		MatchID:   req.MatchID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
		Scorers:   req.Scorers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed", "user_id", req.UserID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(saved))
}

func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrediction")
	defer span.End()

	userID := r.PathValue("userID")
	matchID := r.PathValue("matchID")

	item, err := h.predictionService.Get(ctx, userID, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}

// ListUserPredictions returns the user's scored history, optionally narrowed
// to a comma-separated matchIds set.
func (h *Handler) ListUserPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserPredictions")
	defer span.End()

	userID := r.PathValue("userID")
	matchIDs := queryCSV(r, "matchIds")

	items, err := h.predictionService.ListScored(ctx, userID, matchIDs)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	out := make([]predictionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, predictionToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
