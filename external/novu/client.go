package novu

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fitclash/fitclash/internal/platform/logging"
	"github.com/fitclash/fitclash/internal/platform/resilience"
)

var errNovuTransient = crerr.New("novu transient failure")

const triggerWorkflow = "fitclash-push"

type Config struct {
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client delivers push notifications through the Novu events API.
type Client struct {
	client         *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		client:         &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type triggerRequest struct {
	Name    string         `json:"name"`
	To      triggerTarget  `json:"to"`
	Payload triggerPayload `json:"payload"`
}

type triggerTarget struct {
	SubscriberID string `json:"subscriberId"`
}

type triggerPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SendPush triggers the push workflow for one subscriber. Transient provider
// failures are retried up to MaxRetries times and feed the circuit breaker.
func (c *Client) SendPush(ctx context.Context, userID, title, body string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return crerr.New("subscriber id is required")
	}
	if c.apiKey == "" {
		return crerr.New("novu api key is not configured")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "novu circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("novu is temporarily unavailable: %w", err)
		}
	}

	payload, err := sonic.Marshal(triggerRequest{
		Name:    triggerWorkflow,
		To:      triggerTarget{SubscriberID: userID},
		Payload: triggerPayload{Title: title, Body: body},
	})
	if err != nil {
		return crerr.Wrap(err, "marshal trigger payload")
	}

	triggerURL := c.baseURL + "/v1/events/trigger"

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("novu.trigger_url", triggerURL),
			attribute.String("novu.subscriber_id", userID),
			attribute.String("novu.workflow", triggerWorkflow),
		)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return crerr.Wrap(ctx.Err(), "novu retry aborted")
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		lastErr = c.trigger(ctx, triggerURL, payload)
		if lastErr == nil {
			c.recordCircuitResult(nil)
			return nil
		}
		if !stderrors.Is(lastErr, errNovuTransient) {
			break
		}
		c.logger.WarnContext(ctx, "novu trigger attempt failed",
			"attempt", attempt+1, "subscriber_id", userID, "error", lastErr)
	}

	c.recordCircuitResult(lastErr)
	return lastErr
}

func (c *Client) trigger(ctx context.Context, triggerURL string, payload []byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, triggerURL, strings.NewReader(buf.String()))
	if err != nil {
		return crerr.Wrap(err, "create novu request")
	}
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: trigger novu event: %v", errNovuTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if isRetryableStatus(resp.StatusCode) {
		return fmt.Errorf("%w: trigger novu event status=%d body=%s",
			errNovuTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return fmt.Errorf("trigger novu event status=%d body=%s",
		resp.StatusCode, strings.TrimSpace(string(raw)))
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errNovuTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
