package httpapi

import (
	"net/http"
	"strings"

	"github.com/goalcast/goalcast/internal/domain/leaderboard"
)

func (h *Handler) GetLeagueLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueLeaderboard")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	period := queryPeriod(r)

	entries, err := h.leaderboardService.Ranked(ctx, leagueID, period)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, rankedEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardDTO{
		LeagueID: leagueID,
		Period:   period,
		Entries:  items,
	})
}

func (h *Handler) GetUserPosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserPosition")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	userID := r.PathValue("userID")
	period := queryPeriod(r)

	position, err := h.leaderboardService.UserPosition(ctx, leagueID, period, userID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, positionToDTO(position))
}

func queryPeriod(r *http.Request) string {
	period := strings.TrimSpace(r.URL.Query().Get("period"))
	if period == "" {
		return leaderboard.PeriodOverall
	}
	return period
}
