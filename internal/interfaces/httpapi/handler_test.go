package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/goalcast/goalcast/internal/domain/achievement"
	"github.com/goalcast/goalcast/internal/domain/competition"
	"github.com/goalcast/goalcast/internal/domain/match"
	"github.com/goalcast/goalcast/internal/domain/matchresult"
	"github.com/goalcast/goalcast/internal/infrastructure/repository/memory"
	"github.com/goalcast/goalcast/internal/domain/prediction"
	"github.com/goalcast/goalcast/internal/platform/cache"
	"github.com/goalcast/goalcast/internal/platform/logging"
	"github.com/goalcast/goalcast/internal/usecase"
)

const testJobToken = "test-job-token"

type stubResultGateway struct{}

func (stubResultGateway) UpcomingMatches(_ context.Context, _ []competition.Competition, _ time.Time, _ time.Time) ([]match.Match, error) {
	return nil, nil
}

func (stubResultGateway) FinishedMatches(_ context.Context, _ []competition.Competition, _ int) ([]matchresult.MatchResult, error) {
	return nil, nil
}

func (stubResultGateway) EventResult(_ context.Context, _ string) (matchresult.MatchResult, bool, error) {
	return matchresult.MatchResult{}, false, nil
}

type stubNotifier struct{}

func (stubNotifier) AchievementUnlocked(_ context.Context, _ string, _ achievement.Definition) error {
	return nil
}

func (stubNotifier) MatchScored(_ context.Context, _ string, _ string, _ int) error {
	return nil
}

type testEnvelope struct {
	APIVersion string          `json:"apiVersion"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	nop := logging.NewNop()
	kickoff := time.Now().UTC().Add(48 * time.Hour)

	matchRepo := memory.NewMatchRepository([]match.Match{
		{
			ID:          "3080001",
			Competition: "premier-league",
			HomeTeam:    "Arsenal",
			AwayTeam:    "Chelsea",
			KickoffAt:   kickoff,
			Status:      match.StatusScheduled,
			Season:      "2026-2027",
		},
	})
	resultRepo := memory.NewMatchResultRepository([]matchresult.MatchResult{
		{
			MatchID:     "3080009",
			HomeScore:   2,
			AwayScore:   1,
			Status:      matchresult.StatusFinished,
			Scorers:     []string{"Saka", "Palmer"},
			HomeTeam:    "Arsenal",
			AwayTeam:    "Chelsea",
			Competition: "premier-league",
			CachedAt:    time.Now().UTC(),
			LastUpdated: time.Now().UTC(),
		},
	})
	predictionRepo := memory.NewPredictionRepository(nil)
	statsRepo := memory.NewUserStatsRepository(nil)
	leaderboardRepo := memory.NewLeaderboardRepository()
	achievementRepo := memory.NewAchievementRepository()
	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedLeagueMembers())

	statsService := usecase.NewStatsService(statsRepo, predictionRepo, cache.NewStore(time.Minute), nop)
	scoringService := usecase.NewScoringService(predictionRepo, statsService, stubNotifier{}, nop)
	resultsService := usecase.NewResultsService(resultRepo, stubResultGateway{}, matchRepo, scoringService, competition.DefaultRegistry(), 10, nop)
	predictionService := usecase.NewPredictionService(predictionRepo, matchRepo, nop)
	leaderboardService := usecase.NewLeaderboardService(leaderboardRepo, leagueRepo, predictionRepo, matchRepo, nop)
	achievementService := usecase.NewAchievementService(achievementRepo, stubNotifier{}, cache.NewStore(time.Minute), nop)

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(resultsService, scoringService, predictionService, statsService, leaderboardService, achievementService, discard)
	return NewRouter(handler, discard, false, nil, testJobToken)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()

	var envelope testEnvelope
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response envelope: %v", err)
	}
	if envelope.APIVersion != "2.0" {
		t.Fatalf("expected apiVersion 2.0, got %q", envelope.APIVersion)
	}
	return envelope
}

func TestRouter_GetMatchResultFromCache(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/3080009/result", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d body=%s", http.StatusOK, rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	var result matchResultDTO
	if err := sonic.Unmarshal(envelope.Data, &result); err != nil {
		t.Fatalf("decode result payload: %v", err)
	}
	if result.MatchID != "3080009" {
		t.Fatalf("unexpected match id: %q", result.MatchID)
	}
	if result.HomeScore != 2 || result.AwayScore != 1 {
		t.Fatalf("unexpected score: %d-%d", result.HomeScore, result.AwayScore)
	}
}

func TestRouter_GetMatchResultNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches/9999999/result", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d body=%s", http.StatusNotFound, rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil {
		t.Fatal("expected error payload")
	}
	if envelope.Error.Status != "NOT_FOUND" {
		t.Fatalf("unexpected error status: %q", envelope.Error.Status)
	}
}

func TestRouter_SubmitPrediction(t *testing.T) {
	router := newTestRouter(t)

	t.Run("valid submission", func(t *testing.T) {
		body := `{"userId":"user-ana","matchId":"3080001","homeScore":2,"awayScore":1,"scorers":["Saka"]}`
		req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d body=%s", http.StatusOK, rec.Code, rec.Body.String())
		}

		envelope := decodeEnvelope(t, rec)
		var saved predictionDTO
		if err := sonic.Unmarshal(envelope.Data, &saved); err != nil {
			t.Fatalf("decode prediction payload: %v", err)
		}
		if saved.UserID != "user-ana" || saved.MatchID != "3080001" {
			t.Fatalf("unexpected prediction identity: %s/%s", saved.UserID, saved.MatchID)
		}
		if saved.Status != prediction.StatusPending {
			t.Fatalf("unexpected prediction status: %q", saved.Status)
		}
	})

	t.Run("missing user id", func(t *testing.T) {
		body := `{"matchId":"3080001","homeScore":2,"awayScore":1}`
		req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d body=%s", http.StatusBadRequest, rec.Code, rec.Body.String())
		}
		envelope := decodeEnvelope(t, rec)
		if envelope.Error == nil || envelope.Error.Status != "INVALID_ARGUMENT" {
			t.Fatalf("unexpected error payload: %+v", envelope.Error)
		}
	})

	t.Run("unknown match", func(t *testing.T) {
		body := `{"userId":"user-ana","matchId":"404404","homeScore":1,"awayScore":0}`
		req := httptest.NewRequest(http.MethodPost, "/v1/predictions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d body=%s", http.StatusNotFound, rec.Code, rec.Body.String())
		}
	})
}

func TestRouter_ListUserPredictions(t *testing.T) {
	router := newTestRouter(t)

	t.Run("empty history", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users/user-ana/predictions?matchIds=3080001,3080002", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d body=%s", http.StatusOK, rec.Code, rec.Body.String())
		}

		envelope := decodeEnvelope(t, rec)
		var items []predictionDTO
		if err := sonic.Unmarshal(envelope.Data, &items); err != nil {
			t.Fatalf("decode history payload: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("expected no scored predictions yet, got %d", len(items))
		}
	})

	t.Run("single prediction read still routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users/user-ana/predictions/3080001", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d body=%s", http.StatusNotFound, rec.Code, rec.Body.String())
		}
	})
}

func TestRouter_InternalJobTokenGuard(t *testing.T) {
	router := newTestRouter(t)

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate-leaderboard", strings.NewReader(`{"leagueId":"office-pool"}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status %d, got %d body=%s", http.StatusUnauthorized, rec.Code, rec.Body.String())
		}
		envelope := decodeEnvelope(t, rec)
		if envelope.Error == nil || envelope.Error.Status != "UNAUTHENTICATED" {
			t.Fatalf("unexpected error payload: %+v", envelope.Error)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate-leaderboard", strings.NewReader(`{"leagueId":"office-pool"}`))
		req.Header.Set("X-Internal-Job-Token", testJobToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d body=%s", http.StatusOK, rec.Code, rec.Body.String())
		}
	})
}

func TestRouter_GetUserStatisticsEmpty(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/user-ana/statistics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d body=%s", http.StatusOK, rec.Code, rec.Body.String())
	}

	envelope := decodeEnvelope(t, rec)
	var report statisticsDTO
	if err := sonic.Unmarshal(envelope.Data, &report); err != nil {
		t.Fatalf("decode statistics payload: %v", err)
	}
	if report.UserID != "user-ana" {
		t.Fatalf("unexpected user id: %q", report.UserID)
	}
	if report.TotalPredictions != 0 {
		t.Fatalf("expected zero predictions for a new user, got %d", report.TotalPredictions)
	}
}
