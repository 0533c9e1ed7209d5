package fetch

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/haukened/dnr-rulegen/internal/rulegen/common/log"
)

// Doer executes HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	defaultTimeout    = 30 * time.Second
	defaultRetries    = 3
	defaultMaxBodyLen = 256 << 20
)

// HTTP fetches sources with GET, retrying transient failures with
// exponential backoff and full jitter.
type HTTP struct {
	client     Doer
	retries    int
	baseDelay  time.Duration
	maxDelay   time.Duration
	userAgent  string
	maxBodyLen int64
	logger     log.Logger
}

// NewHTTP wraps client, or a default client using opts.Timeout when nil.
func NewHTTP(client Doer, opts Options, logger log.Logger) *HTTP {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Retries < 0 {
		opts.Retries = defaultRetries
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyLen <= 0 {
		opts.MaxBodyLen = defaultMaxBodyLen
	}
	return &HTTP{
		client:     client,
		retries:    opts.Retries,
		baseDelay:  time.Second,
		maxDelay:   30 * time.Second,
		userAgent:  opts.UserAgent,
		maxBodyLen: opts.MaxBodyLen,
		logger:     logger,
	}
}

// Fetch implements Fetcher. 429 and 5xx gateway statuses and network errors
// are retried; any other non-2xx status fails immediately.
func (h *HTTP) Fetch(ctx context.Context, source string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= h.retries; attempt++ {
		if attempt > 0 {
			delay := h.delay(attempt)
			h.logger.Warn(map[string]any{
				"source":  source,
				"attempt": attempt,
				"retries": h.retries,
				"delay":   delay.String(),
				"error":   lastErr.Error(),
			}, "fetch_retry")

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, fmt.Errorf("%w: %s: %v", ErrFetch, source, lastErr)
			}
		}

		body, retry, err := h.once(ctx, source)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry || ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrFetch, source, lastErr)
}

func (h *HTTP) once(ctx context.Context, source string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, isRetryableStatus(resp.StatusCode), fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBodyLen+1))
	if err != nil {
		return nil, true, err
	}
	if int64(len(body)) > h.maxBodyLen {
		return nil, false, fmt.Errorf("body exceeds %d bytes", h.maxBodyLen)
	}
	return body, false, nil
}

// delay is random(0, min(maxDelay, baseDelay*2^(attempt-1))) with a floor of
// a tenth of baseDelay.
func (h *HTTP) delay(attempt int) time.Duration {
	exp := float64(h.baseDelay) * math.Pow(2, float64(attempt-1))
	if exp > float64(h.maxDelay) {
		exp = float64(h.maxDelay)
	}
	d := time.Duration(rand.Float64() * exp)
	if floor := h.baseDelay / 10; d < floor {
		d = floor
	}
	return d
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
