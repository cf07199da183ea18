package sportsdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goalcast/goalcast/internal/domain/competition"
	"github.com/goalcast/goalcast/internal/platform/logging"
	"github.com/goalcast/goalcast/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		APIKey:     "testkey",
		Logger:     logging.NewNop(),
	})
	client.sleep = func(context.Context, time.Duration) error { return nil }
	return client, server
}

func testCompetition() competition.Competition {
	return competition.Competition{
		Slug:             "premier-league",
		Name:             "English Premier League",
		ProviderLeagueID: "4328",
		Aliases:          []string{"Premier League", "EPL"},
		Country:          "England",
		SeasonHints:      []string{"2025-2026"},
	}
}

func finishedEventJSON(id string) string {
	return fmt.Sprintf(`{
		"idEvent": %q,
		"idLeague": "4328",
		"strLeague": "English Premier League",
		"strCountry": "England",
		"strSeason": "2025-2026",
		"strHomeTeam": "Arsenal",
		"strAwayTeam": "Chelsea",
		"intHomeScore": "2",
		"intAwayScore": "1",
		"strStatus": "Match Finished",
		"dateEvent": "2026-08-22",
		"strTime": "16:30:00",
		"strHomeGoalDetails": "23':Saka;67':Havertz",
		"strAwayGoalDetails": "Palmer 80'"
	}`, id)
}

func TestEventResult_ParsesFinishedEvent(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/testkey/lookupevent.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "602195" {
			t.Errorf("unexpected event id %s", got)
		}
		fmt.Fprintf(w, `{"events":[%s]}`, finishedEventJSON("602195"))
	}))

	result, ok, err := client.EventResult(context.Background(), "602195")
	if err != nil {
		t.Fatalf("EventResult: %v", err)
	}
	if !ok {
		t.Fatal("expected a finished result")
	}
	if result.HomeScore != 2 || result.AwayScore != 1 {
		t.Errorf("got score %d-%d, want 2-1", result.HomeScore, result.AwayScore)
	}
	if !result.IsFinished() {
		t.Errorf("status %q not treated as finished", result.Status)
	}
	if len(result.Scorers) != 3 {
		t.Fatalf("got scorers %v, want 3 names", result.Scorers)
	}
	if !result.HasScorer("saka") || !result.HasScorer("Palmer") {
		t.Errorf("scorer parsing lost names: %v", result.Scorers)
	}
}

func TestEventResult_UnfinishedReturnsNotFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"events":[{"idEvent":"900","strStatus":"Not Started","intHomeScore":"","intAwayScore":""}]}`)
	}))

	_, ok, err := client.EventResult(context.Background(), "900")
	if err != nil {
		t.Fatalf("EventResult: %v", err)
	}
	if ok {
		t.Fatal("an unplayed event must not produce a result")
	}
}

func TestExecuteRequest_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"events":[%s]}`, finishedEventJSON("11"))
	}))

	_, ok, err := client.EventResult(context.Background(), "11")
	if err != nil {
		t.Fatalf("EventResult after retries: %v", err)
	}
	if !ok {
		t.Fatal("expected a result from the final attempt")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("got %d attempts, want 3", got)
	}
}

func TestExecuteRequest_ExhaustedRetriesClassified(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, _, err := client.EventResult(context.Background(), "11")
	if !errors.Is(err, usecase.ErrProviderUnavailable) {
		t.Fatalf("got %v, want ErrProviderUnavailable", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("got %d attempts, want 3", got)
	}
}

func TestExecuteRequest_RateLimitIsTerminal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, _, err := client.EventResult(context.Background(), "11")
	if !errors.Is(err, usecase.ErrRateLimited) {
		t.Fatalf("got %v, want ErrRateLimited", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("got %d attempts, want no retries on 429", got)
	}
}

func TestExecuteRequest_ClientErrorIsTerminal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))

	_, _, err := client.EventResult(context.Background(), "11")
	if err == nil {
		t.Fatal("expected an error for 404")
	}
	if errors.Is(err, usecase.ErrProviderUnavailable) || errors.Is(err, usecase.ErrRateLimited) {
		t.Fatalf("4xx must stay a plain terminal error, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("got %d attempts, want no retries on 4xx", got)
	}
}

func TestUpcomingMatches_SeasonFallback(t *testing.T) {
	t.Parallel()

	comp := testCompetition()
	var seasonsTried []string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/testkey/eventsnextleague.php":
			// Cross-contaminated schedule for a different league.
			fmt.Fprint(w, `{"events":[{"idEvent":"1","idLeague":"9999","strLeague":"MLS","strCountry":"USA","dateEvent":"2026-09-01"}]}`)
		case "/testkey/eventsseason.php":
			season := r.URL.Query().Get("s")
			seasonsTried = append(seasonsTried, season)
			if season != "2024-2025" {
				fmt.Fprint(w, `{"events":null}`)
				return
			}
			fmt.Fprint(w, `{"events":[{
				"idEvent":"55","idLeague":"4328","strLeague":"English Premier League",
				"strCountry":"England","strSeason":"2024-2025",
				"strHomeTeam":"Liverpool","strAwayTeam":"Everton",
				"dateEvent":"2026-09-05","strTime":"15:00:00","strStatus":"Not Started"
			}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	matches, err := client.UpcomingMatches(context.Background(), []competition.Competition{comp}, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("UpcomingMatches: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "55" {
		t.Fatalf("got %+v, want the season-fallback fixture", matches)
	}
	if len(seasonsTried) < 2 || seasonsTried[0] != "2025-2026" || seasonsTried[1] != "2024-2025" {
		t.Errorf("candidate order wrong: %v", seasonsTried)
	}
	if cached, ok := client.cachedSeason(comp.ProviderLeagueID); !ok || cached != "2024-2025" {
		t.Errorf("resolved season not cached: %q %v", cached, ok)
	}
}

func TestSeasonCandidates_OrderAndDedup(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{SeasonOverride: "2023-2024", Logger: logging.NewNop()})
	client.now = func() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) }
	client.rememberSeason("4328", "2025-2026")

	got := client.seasonCandidates(testCompetition())
	want := []string{"2023-2024", "2022-2023", "2025-2026", "2024-2025"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestThrottle_SpacesConsecutiveRequests(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"events":null}`)
	}))

	current := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return current }
	var slept []time.Duration
	client.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		current = current.Add(d)
		return nil
	}

	for i := 0; i < 2; i++ {
		if _, _, err := client.EventResult(context.Background(), "1"); err != nil {
			t.Fatalf("EventResult: %v", err)
		}
	}

	if len(slept) != 1 || slept[0] != defaultRequestSpacing {
		t.Errorf("got sleeps %v, want one spacing gap of %v", slept, defaultRequestSpacing)
	}
}

func TestFinishedMatches_ValidatesAndCaps(t *testing.T) {
	t.Parallel()

	comp := testCompetition()
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/testkey/eventspastleague.php" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprintf(w, `{"events":[
			{"idEvent":"901","idLeague":"9999","strLeague":"MLS","strCountry":"USA","intHomeScore":"1","intAwayScore":"0","strStatus":"Match Finished"},
			%s,
			%s
		]}`, finishedEventJSON("902"), finishedEventJSON("903"))
	}))

	results, err := client.FinishedMatches(context.Background(), []competition.Competition{comp}, 1)
	if err != nil {
		t.Fatalf("FinishedMatches: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want cap of 1", len(results))
	}
	if results[0].MatchID != "902" {
		t.Errorf("cross-league event leaked or order lost: %+v", results[0])
	}
	if results[0].Competition != comp.Slug {
		t.Errorf("got competition %q, want %q", results[0].Competition, comp.Slug)
	}
}
