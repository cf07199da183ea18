package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/goalcast/goalcast/internal/domain/achievement"
	"github.com/goalcast/goalcast/internal/platform/id"
	"github.com/goalcast/goalcast/internal/platform/logging"
	"github.com/goalcast/goalcast/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var errWebhookTransient = crerr.New("webhook transient failure")

const (
	eventAchievementUnlocked = "achievement.unlocked"
	eventMatchScored         = "match.scored"
)

type WebhookPublisherConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher delivers game events to a configured HTTP endpoint. One
// attempt per event; delivery is best-effort and callers treat failures as
// log-and-continue.
type WebhookPublisher struct {
	client         *http.Client
	baseURL        string
	token          string
	logger         *logging.Logger
	ids            id.Generator
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, ids id.Generator, logger *logging.Logger) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:          strings.TrimSpace(cfg.Token),
		logger:         logger,
		ids:            ids,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (p *WebhookPublisher) AchievementUnlocked(ctx context.Context, userID string, def achievement.Definition) error {
	return p.publish(ctx, eventAchievementUnlocked, map[string]any{
		"userId":        userID,
		"achievementId": def.ID,
		"title":         def.Title,
		"description":   def.Description,
		"category":      def.Category,
		"rarity":        def.Rarity,
		"points":        def.Points,
	})
}

func (p *WebhookPublisher) MatchScored(ctx context.Context, userID, matchID string, points int) error {
	return p.publish(ctx, eventMatchScored, map[string]any{
		"userId":  userID,
		"matchId": matchID,
		"points":  points,
	})
}

func (p *WebhookPublisher) publish(ctx context.Context, eventType string, payload map[string]any) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "webhook circuit breaker rejected event", "state", p.breaker.State(), "event", eventType)
			return fmt.Errorf("webhook endpoint is temporarily unavailable: %w", err)
		}
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return crerr.Wrap(err, "invalid WEBHOOK_BASE_URL")
	}
	publishURL := baseURL + "/v1/events"

	eventID, err := p.ids.NewID()
	if err != nil {
		return crerr.Wrap(err, "generate event id")
	}

	envelope := map[string]any{
		"id":   eventID,
		"type": eventType,
		"data": payload,
	}
	body, err := sonic.Marshal(envelope)
	if err != nil {
		return crerr.Wrap(err, "marshal event payload")
	}

	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildCurlPreview(publishURL, eventID, bodyText, p.token != "")

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.publish_url", publishURL),
			attribute.String("webhook.event_type", eventType),
			attribute.String("webhook.event_id", eventID),
			attribute.String("webhook.request_curl_preview", curlPreview),
		)
	}
	p.logger.DebugContext(ctx, "webhook publish request", "event", eventType, "event_id", eventID, "curl_preview", curlPreview)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Idempotency-Key", eventID)
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: deliver %s event publish_url=%s: %v", errWebhookTransient, eventType, publishURL, err)
		p.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if isRetryableStatus(resp.StatusCode) {
			callErr := fmt.Errorf(
				"%w: deliver %s event status=%d publish_url=%s body=%s",
				errWebhookTransient, eventType, resp.StatusCode, publishURL, strings.TrimSpace(string(raw)),
			)
			p.recordCircuitResult(callErr)
			return callErr
		}

		callErr := fmt.Errorf(
			"deliver %s event status=%d publish_url=%s body=%s",
			eventType, resp.StatusCode, publishURL, strings.TrimSpace(string(raw)),
		)
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.logger.InfoContext(ctx, "webhook event delivered", "event", eventType, "event_id", eventID)
	p.recordCircuitResult(nil)
	return nil
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled || p.breaker == nil {
		return
	}
	if err == nil || !stderrors.Is(err, errWebhookTransient) {
		p.breaker.RecordSuccess()
		return
	}
	p.breaker.RecordFailure()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

func buildCurlPreview(publishURL, eventID, body string, withToken bool) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}
	appendHeader := func(value string) {
		appendPart("-H")
		appendPart(shellQuote(value))
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(publishURL))
	appendHeader("Content-Type: application/json")
	appendHeader("X-Idempotency-Key: " + eventID)
	if withToken {
		appendHeader("Authorization: Bearer ***")
	}
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}
