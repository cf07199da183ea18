package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/goalcast/goalcast/internal/usecase"
)

const defaultScheduleWindow = 7 * 24 * time.Hour

type updateRecentResultsRequest struct {
	MaxMatches   int      `json:"maxMatches" validate:"gte=0,lte=50"`
	Competitions []string `json:"competitions" validate:"max=20,dive,required"`
}

func (h *Handler) RunUpdateRecentResultsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunUpdateRecentResultsJob")
	defer span.End()

	var req updateRecentResultsRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	summary, err := h.resultsService.UpdateRecentResults(ctx, req.MaxMatches, req.Competitions)
	if err != nil {
		h.logger.ErrorContext(ctx, "update recent results failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "recent results updated",
		"updated", summary.Updated,
		"processed", summary.Processed,
		"errors", len(summary.Errors),
	)
	writeSuccess(ctx, w, http.StatusOK, updateSummaryToDTO(summary))
}

type processMatchResultRequest struct {
	MatchID      string `json:"matchId" validate:"required"`
	ForceRefresh bool   `json:"forceRefresh"`
}

func (h *Handler) RunProcessMatchResultJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunProcessMatchResultJob")
	defer span.End()

	var req processMatchResultRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, ok, err := h.resultsService.FetchMatchResult(ctx, req.MatchID, req.ForceRefresh)
	if err != nil {
		h.logger.ErrorContext(ctx, "fetch result for scoring failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no finished result for match %s", usecase.ErrNotFound, req.MatchID))
		return
	}

	processed, err := h.scoringService.ProcessMatchResult(ctx, req.MatchID, result)
	if err != nil {
		h.logger.ErrorContext(ctx, "process match result failed", "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"matchId":   req.MatchID,
		"processed": processed,
	})
}

type recalculateLeaderboardRequest struct {
	LeagueID string `json:"leagueId"`
}

func (h *Handler) RunRecalculateLeaderboardJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRecalculateLeaderboardJob")
	defer span.End()

	var req recalculateLeaderboardRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.Recalculate(ctx, req.LeagueID)
	if err != nil {
		h.logger.ErrorContext(ctx, "recalculate leaderboard failed", "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"leagueId": req.LeagueID,
		"entries":  len(entries),
	})
}

type syncScheduleRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (h *Handler) RunSyncScheduleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncScheduleJob")
	defer span.End()

	var req syncScheduleRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.From.IsZero() {
		req.From = time.Now().UTC()
	}
	if req.To.IsZero() {
		req.To = req.From.Add(defaultScheduleWindow)
	}
	if !req.To.After(req.From) {
		writeError(ctx, w, fmt.Errorf("%w: schedule window end must be after start", usecase.ErrInvalidInput))
		return
	}

	stored, err := h.resultsService.SyncUpcomingMatches(ctx, req.From, req.To)
	if err != nil {
		h.logger.ErrorContext(ctx, "sync schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"stored": stored,
		"from":   req.From,
		"to":     req.To,
	})
}

// decodeOptionalBody tolerates an empty body so jobs can be triggered with
// bare POSTs; anything present must still be valid JSON.
func decodeOptionalBody(r *http.Request, out any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("%w: unreadable request body", usecase.ErrInvalidInput)
	}
	if len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: malformed request body", usecase.ErrInvalidInput)
	}
	return nil
}
