package httpapi

import (
	"net/http"

	"github.com/goalcast/goalcast/internal/domain/achievement"
)

func (h *Handler) GetUserStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserStatistics")
	defer span.End()

	userID := r.PathValue("userID")
	forceRefresh := queryBool(r, "forceRefresh")

	report, err := h.statsService.GetUserStatistics(ctx, userID, forceRefresh)
	if err != nil {
		h.logger.WarnContext(ctx, "get user statistics failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statisticsReportToDTO(userID, report))
}

func (h *Handler) GetUserAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserAchievements")
	defer span.End()

	userID := r.PathValue("userID")
	forceRefresh := queryBool(r, "forceRefresh")

	// Achievement evaluation degrades internally; a stats failure here only
	// means the rules see zeroed inputs.
	input := achievement.Input{}
	if report, err := h.statsService.GetUserStatistics(ctx, userID, forceRefresh); err == nil {
		input.Stats = report.Stats
		input.Weekly = report.Weekly
	} else {
		h.logger.WarnContext(ctx, "statistics unavailable for achievement evaluation", "user_id", userID, "error", err)
	}

	summary := h.achievementService.Evaluate(ctx, userID, input, forceRefresh)

	writeSuccess(ctx, w, http.StatusOK, achievementSummaryToDTO(summary))
}
