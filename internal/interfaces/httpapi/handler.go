package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goalcast/goalcast/internal/usecase"
)

type Handler struct {
	resultsService     *usecase.ResultsService
	scoringService     *usecase.ScoringService
	predictionService  *usecase.PredictionService
	statsService       *usecase.StatsService
	leaderboardService *usecase.LeaderboardService
	achievementService *usecase.AchievementService
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	resultsService *usecase.ResultsService,
	scoringService *usecase.ScoringService,
	predictionService *usecase.PredictionService,
	statsService *usecase.StatsService,
	leaderboardService *usecase.LeaderboardService,
	achievementService *usecase.AchievementService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		resultsService:     resultsService,
		scoringService:     scoringService,
		predictionService:  predictionService,
		statsService:       statsService,
		leaderboardService: leaderboardService,
		achievementService: achievementService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryBool(r *http.Request, key string) bool {
	value := strings.TrimSpace(strings.ToLower(r.URL.Query().Get(key)))
	switch value {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func queryCSV(r *http.Request, key string) []string {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
