package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/goalcast/goalcast/internal/usecase"
)

func (h *Handler) GetMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchResult")
	defer span.End()

	matchID := r.PathValue("matchID")
	forceRefresh := queryBool(r, "forceRefresh")

	result, ok, err := h.resultsService.FetchMatchResult(ctx, matchID, forceRefresh)
	if err != nil {
		h.logger.WarnContext(ctx, "fetch match result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no finished result for match %s", usecase.ErrNotFound, matchID))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchResultToDTO(result))
}

type batchResultsRequest struct {
	MatchIDs     []string `json:"matchIds" validate:"required,min=1,dive,required"`
	ForceRefresh bool     `json:"forceRefresh"`
	MaxAPICalls  int      `json:"maxApiCalls" validate:"gte=0"`
}

func (h *Handler) GetMultipleResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMultipleResults")
	defer span.End()

	var req batchResultsRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	results, err := h.resultsService.FetchMultipleResults(ctx, req.MatchIDs, req.ForceRefresh, req.MaxAPICalls)
	if err != nil {
		h.logger.WarnContext(ctx, "fetch multiple results failed", "count", len(req.MatchIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make(map[string]matchResultDTO, len(results))
	for matchID, result := range results {
		items[matchID] = matchResultToDTO(result)
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"requested": len(req.MatchIDs),
		"found":     len(items),
		"results":   items,
	})
}
