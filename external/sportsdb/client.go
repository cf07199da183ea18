package sportsdb

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/goalcast/goalcast/internal/domain/competition"
	"github.com/goalcast/goalcast/internal/domain/match"
	"github.com/goalcast/goalcast/internal/domain/matchresult"
	"github.com/goalcast/goalcast/internal/platform/logging"
	"github.com/goalcast/goalcast/internal/platform/resilience"
	"github.com/goalcast/goalcast/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL        = "https://www.thesportsdb.com/api/v1/json"
	defaultAttemptLimit   = 3
	defaultAttemptTimeout = 15 * time.Second
	// defaultRequestSpacing keeps bulk detail fetches inside the
	// provider's requests-per-minute budget.
	defaultRequestSpacing = 2100 * time.Millisecond

	backoffBase = time.Second
	backoffCap  = 5 * time.Second
)

var errProviderTransient = crerr.New("sportsdb transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	AttemptTimeout time.Duration
	MaxAttempts    int
	RequestSpacing time.Duration
	SeasonOverride string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the sports-data provider. It owns retry, backoff, the
// per-attempt timeout, request spacing, and the season-fallback search.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	attemptTimeout time.Duration
	maxAttempts    int
	requestSpacing time.Duration
	seasonOverride string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	// seasonByLeague lives for the process lifetime and is never
	// invalidated; season identity for a league does not churn mid-run.
	seasonMu       sync.Mutex
	seasonByLeague map[string]string

	throttleMu sync.Mutex
	lastReqAt  time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	attemptTimeout := cfg.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = defaultAttemptTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   attemptTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultAttemptLimit
	}

	spacing := cfg.RequestSpacing
	if spacing <= 0 {
		spacing = defaultRequestSpacing
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		attemptTimeout: attemptTimeout,
		maxAttempts:    maxAttempts,
		requestSpacing: spacing,
		seasonOverride: strings.TrimSpace(cfg.SeasonOverride),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		seasonByLeague: make(map[string]string),
		now:            time.Now,
		sleep:          sleepContext,
	}
}

// UpcomingMatches pulls the scheduled events for each competition inside the
// date range. When the default schedule endpoint yields nothing that
// validates against the competition, the season-fallback search kicks in.
func (c *Client) UpcomingMatches(ctx context.Context, comps []competition.Competition, from, to time.Time) ([]match.Match, error) {
	out := make([]match.Match, 0, 32)
	for _, comp := range comps {
		events, err := c.fetchUpcomingEvents(ctx, comp)
		if err != nil {
			return nil, fmt.Errorf("fetch upcoming events competition=%s: %w", comp.Slug, err)
		}
		for _, event := range events {
			item, ok := mapEventToMatch(event, comp)
			if !ok {
				continue
			}
			if !from.IsZero() && item.KickoffAt.Before(from) {
				continue
			}
			if !to.IsZero() && item.KickoffAt.After(to) {
				continue
			}
			out = append(out, item)
		}
	}
	return out, nil
}

// FinishedMatches pulls each competition's recently finished events,
// validated and capped at limit across the whole call.
func (c *Client) FinishedMatches(ctx context.Context, comps []competition.Competition, limit int) ([]matchresult.MatchResult, error) {
	out := make([]matchresult.MatchResult, 0, limit)
	for _, comp := range comps {
		path := "/eventspastleague.php"
		query := map[string]string{"id": comp.ProviderLeagueID}

		var envelope eventsEnvelope
		if err := c.doJSON(ctx, path, query, &envelope); err != nil {
			return nil, fmt.Errorf("fetch past events competition=%s: %w", comp.Slug, err)
		}

		for _, event := range envelope.Events {
			if !comp.MatchesEvent(event.LeagueID, event.LeagueName, event.Country) {
				c.logger.DebugContext(ctx, "skip cross-contaminated past event",
					"competition", comp.Slug, "event_id", event.ID, "event_league", event.LeagueName)
				continue
			}
			result, ok := mapEventToResult(event, comp, c.now().UTC())
			if !ok {
				continue
			}
			out = append(out, result)
			if limit > 0 && len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// EventResult looks up one event. ok=false means the provider does not know
// the event or it has not finished yet.
func (c *Client) EventResult(ctx context.Context, matchID string) (matchresult.MatchResult, bool, error) {
	if strings.TrimSpace(matchID) == "" {
		return matchresult.MatchResult{}, false, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	var envelope eventsEnvelope
	if err := c.doJSON(ctx, "/lookupevent.php", map[string]string{"id": matchID}, &envelope); err != nil {
		return matchresult.MatchResult{}, false, fmt.Errorf("lookup event id=%s: %w", matchID, err)
	}
	if len(envelope.Events) == 0 {
		return matchresult.MatchResult{}, false, nil
	}

	event := envelope.Events[0]
	result, ok := mapLookupToResult(event, c.now().UTC())
	if !ok {
		return matchresult.MatchResult{}, false, nil
	}
	return result, true, nil
}

func (c *Client) fetchUpcomingEvents(ctx context.Context, comp competition.Competition) ([]eventItem, error) {
	var envelope eventsEnvelope
	if err := c.doJSON(ctx, "/eventsnextleague.php", map[string]string{"id": comp.ProviderLeagueID}, &envelope); err != nil {
		return nil, err
	}

	validated := filterValidated(envelope.Events, comp)
	if len(validated) > 0 {
		return validated, nil
	}

	// Empty or fully cross-contaminated default schedule: walk the season
	// candidate list until one yields events that validate.
	for _, season := range c.seasonCandidates(comp) {
		var seasonEnvelope eventsEnvelope
		err := c.doJSON(ctx, "/eventsseason.php", map[string]string{
			"id": comp.ProviderLeagueID,
			"s":  season,
		}, &seasonEnvelope)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WarnContext(ctx, "season schedule fetch failed, trying next candidate",
				"competition", comp.Slug, "season", season, "error", err)
			continue
		}

		validated = filterValidated(seasonEnvelope.Events, comp)
		if len(validated) == 0 {
			continue
		}

		c.rememberSeason(comp.ProviderLeagueID, season)
		c.logger.InfoContext(ctx, "season fallback resolved schedule",
			"competition", comp.Slug, "season", season, "events", len(validated))
		return validated, nil
	}

	// Candidate list exhausted: partial/empty result, not an error.
	return nil, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportsdb circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + "/" + c.apiKey + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isTransient(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

// executeRequest runs one logical call with throttling, retries, and final
// error classification. 429 and other 4xx responses short-circuit; 5xx and
// network/timeout failures retry with capped exponential backoff.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		raw, err := c.attempt(ctx, fullURL)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if !isTransient(err) {
			return nil, classify(err)
		}
		if attempt == c.maxAttempts-1 {
			break
		}

		if sleepErr := c.sleep(ctx, backoffDelay(attempt)); sleepErr != nil {
			return nil, sleepErr
		}
	}

	classified := classify(lastErr)
	c.logger.WarnContext(ctx, "sportsdb request failed", "url", redactAPIKey(fullURL, c.apiKey), "error", classified)
	return nil, classified
}

func (c *Client) attempt(ctx context.Context, fullURL string) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %s", errProviderTransient, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errProviderTransient, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return raw, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: provider status=429", usecase.ErrRateLimited)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errProviderTransient, resp.StatusCode, abbreviateBody(raw))
	default:
		return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
}

// throttle spaces consecutive provider calls by requestSpacing, which keeps
// serialized detail fetches within the per-minute budget.
func (c *Client) throttle(ctx context.Context) error {
	c.throttleMu.Lock()
	now := c.now()
	wait := time.Duration(0)
	if !c.lastReqAt.IsZero() {
		if elapsed := now.Sub(c.lastReqAt); elapsed < c.requestSpacing {
			wait = c.requestSpacing - elapsed
		}
	}
	c.lastReqAt = now.Add(wait)
	c.throttleMu.Unlock()

	if wait <= 0 {
		return nil
	}
	return c.sleep(ctx, wait)
}

func (c *Client) rememberSeason(providerLeagueID, season string) {
	c.seasonMu.Lock()
	c.seasonByLeague[providerLeagueID] = season
	c.seasonMu.Unlock()
}

func (c *Client) cachedSeason(providerLeagueID string) (string, bool) {
	c.seasonMu.Lock()
	defer c.seasonMu.Unlock()
	season, ok := c.seasonByLeague[providerLeagueID]
	return season, ok
}

func backoffDelay(attempt int) time.Duration {
	delay := backoffBase << attempt
	if delay > backoffCap {
		return backoffCap
	}
	return delay
}

func isTransient(err error) bool {
	return stderrors.Is(err, errProviderTransient) || stderrors.Is(err, context.DeadlineExceeded)
}

// classify maps an exhausted or terminal failure onto the error taxonomy,
// keeping the last underlying message.
func classify(err error) error {
	switch {
	case err == nil:
		return fmt.Errorf("%w: provider request failed", usecase.ErrProviderUnavailable)
	case stderrors.Is(err, usecase.ErrRateLimited):
		return err
	case stderrors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", usecase.ErrTimeout, err)
	case stderrors.Is(err, errProviderTransient):
		message := err.Error()
		if strings.Contains(message, "provider status=5") {
			return fmt.Errorf("%w: %s", usecase.ErrProviderUnavailable, message)
		}
		if strings.Contains(message, "Client.Timeout") || strings.Contains(message, "deadline exceeded") {
			return fmt.Errorf("%w: %s", usecase.ErrTimeout, message)
		}
		return fmt.Errorf("%w: %s", usecase.ErrNetwork, message)
	default:
		return err
	}
}

func filterValidated(events []eventItem, comp competition.Competition) []eventItem {
	out := make([]eventItem, 0, len(events))
	for _, event := range events {
		if comp.MatchesEvent(event.LeagueID, event.LeagueName, event.Country) {
			out = append(out, event)
		}
	}
	return out
}

func redactAPIKey(fullURL, apiKey string) string {
	if apiKey == "" {
		return fullURL
	}
	return strings.ReplaceAll(fullURL, "/"+apiKey+"/", "/REDACTED/")
}

func abbreviateBody(raw []byte) string {
	const max = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > max {
		return body[:max] + "..."
	}
	return body
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
