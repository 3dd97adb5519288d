package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/yungbote/leettrack-backend/internal/observability"
	"github.com/yungbote/leettrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/leettrack-backend/internal/platform/httpx"
	"github.com/yungbote/leettrack-backend/internal/platform/logger"
)

// ErrNotFound is returned when the upstream reports the user does not exist.
var ErrNotFound = errors.New("leetcode: user not found")

// ErrInvalidPayload marks a 2xx response whose body is not JSON.
var ErrInvalidPayload = errors.New("leetcode: invalid payload")

const maxBodyBytes = 4 << 20

type Client interface {
	FetchSolved(ctx context.Context, username string) (json.RawMessage, error)
	FetchRecentSubmissions(ctx context.Context, username string) (json.RawMessage, error)
	FetchDailyProblem(ctx context.Context) (json.RawMessage, error)
}

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256] + "..."
	}
	return fmt.Sprintf("leetcode http %d: %s", e.StatusCode, strings.TrimSpace(body))
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	maxRetries int
	backoff    time.Duration
}

func NewFromEnv(log *logger.Logger, metrics *observability.Metrics) (Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(log, cfg, metrics)
}

func New(log *logger.Logger, cfg Config, metrics *observability.Metrics) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid LEETCODE_API_URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.SubmissionLimit <= 0 {
		cfg.SubmissionLimit = 20
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &client{
		log: log.With("client", "LeetCodeClient"),
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter:    rate.NewLimiter(limit, cfg.Burst),
		metrics:    metrics,
		maxRetries: cfg.MaxRetries,
		backoff:    500 * time.Millisecond,
	}, nil
}

func (c *client) FetchSolved(ctx context.Context, username string) (json.RawMessage, error) {
	return c.do(ctx, "solved", "/"+url.PathEscape(username)+"/solved")
}

func (c *client) FetchRecentSubmissions(ctx context.Context, username string) (json.RawMessage, error) {
	path := "/" + url.PathEscape(username) + "/submission?limit=" + strconv.Itoa(c.cfg.SubmissionLimit)
	return c.do(ctx, "submission", path)
}

func (c *client) FetchDailyProblem(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, "daily", "/daily")
}

func (c *client) do(ctx context.Context, endpoint, path string) (json.RawMessage, error) {
	ctx = ctxutil.Default(ctx)
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, raw, err := c.doOnce(ctx, endpoint, path)
		if err == nil {
			return raw, nil
		}
		if errors.Is(err, ErrNotFound) || !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return nil, err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 5*time.Second))
		c.log.Warn("LeetCode request retrying",
			"endpoint", endpoint,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		if err := httpx.SleepContext(ctx, sleepFor); err != nil {
			return nil, err
		}
		backoff *= 2
	}

	return nil, errors.New("unreachable retry loop")
}

func (c *client) doOnce(ctx context.Context, endpoint, path string) (*http.Response, json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, "error", time.Since(start))
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	c.metrics.ObserveUpstream(endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))
	if readErr != nil {
		return resp, nil, readErr
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return resp, nil, fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return resp, nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	case !json.Valid(raw):
		return resp, nil, fmt.Errorf("%w from %s", ErrInvalidPayload, endpoint)
	}
	return resp, json.RawMessage(raw), nil
}
