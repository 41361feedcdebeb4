package onesignal

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

var errOneSignalTransient = crerr.New("onesignal transient failure")

type Config struct {
	BaseURL        string
	AppID          string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client delivers push notifications through the OneSignal create
// notification API, targeting users by external user id.
type Client struct {
	client         *http.Client
	baseURL        string
	appID          string
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
		appID:          strings.TrimSpace(cfg.AppID),
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     cfg.MaxRetries,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type createNotificationRequest struct {
	AppID                  string            `json:"app_id"`
	IncludeExternalUserIDs []string          `json:"include_external_user_ids"`
	Headings               map[string]string `json:"headings"`
	Contents               map[string]string `json:"contents"`
}

func (c *Client) SendPush(ctx context.Context, userID, title, body string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return crerr.New("external user id is required")
	}
	if c.appID == "" || c.apiKey == "" {
		return crerr.New("onesignal credentials are not configured")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "onesignal circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("onesignal is temporarily unavailable: %w", err)
		}
	}

	payload, err := sonic.Marshal(createNotificationRequest{
		AppID:                  c.appID,
		IncludeExternalUserIDs: []string{userID},
		Headings:               map[string]string{"en": title},
		Contents:               map[string]string{"en": body},
	})
	if err != nil {
		return crerr.Wrap(err, "marshal notification payload")
	}

	notifyURL := c.baseURL + "/notifications"

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("onesignal.notify_url", notifyURL),
			attribute.String("onesignal.external_user_id", userID),
		)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return crerr.Wrap(ctx.Err(), "onesignal retry aborted")
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		lastErr = c.createNotification(ctx, notifyURL, payload)
		if lastErr == nil {
			c.recordCircuitResult(nil)
			return nil
		}
		if !stderrors.Is(lastErr, errOneSignalTransient) {
			break
		}
		c.logger.WarnContext(ctx, "onesignal create attempt failed",
			"attempt", attempt+1, "external_user_id", userID, "error", lastErr)
	}

	c.recordCircuitResult(lastErr)
	return lastErr
}

func (c *Client) createNotification(ctx context.Context, notifyURL string, payload []byte) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_, _ = buf.Write(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, notifyURL, strings.NewReader(buf.String()))
	if err != nil {
		return crerr.Wrap(err, "create onesignal request")
	}
	req.Header.Set("Authorization", "Basic "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: create onesignal notification: %v", errOneSignalTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 == 2 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if isRetryableStatus(resp.StatusCode) {
		return fmt.Errorf("%w: create onesignal notification status=%d body=%s",
			errOneSignalTransient, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return fmt.Errorf("create onesignal notification status=%d body=%s",
		resp.StatusCode, strings.TrimSpace(string(raw)))
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errOneSignalTransient) {
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
