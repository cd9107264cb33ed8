package komerce

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"ongkir-gateway/internal/metrics"

	"go.uber.org/zap"
)

// Taxonomy of final upstream failures. Rate limiting on an individual
// credential is internal to Do and never surfaced on its own.
var (
	// ErrExhausted: every credential in the pool was tried and the last
	// attempt was still classified rate-limited.
	ErrExhausted = errors.New("komerce: all credentials rate limited")

	// ErrUnavailable: a network or HTTP failure with no credentials left
	// to try.
	ErrUnavailable = errors.New("komerce: upstream unavailable")
)

const maxResponseSize = 2 * 1024 * 1024 // 2MB response body cap

// Do executes one logical call against the provider, iterating the
// credential pool sequentially on rate-limit signals. Iteration is
// deliberately sequential, not fanned out, to avoid multiplying load
// against a provider that is already rate limiting us.
//
// On success it returns the response body and the ordinal of the
// credential that served the call.
func (c *Client) Do(ctx context.Context, method, path string, body []byte, contentType string) ([]byte, int, error) {
	n := c.pool.Len()
	var lastErr error

	for ordinal := 0; ordinal < n; ordinal++ {
		// A cancelled caller stops the rotation outright; this is not an
		// upstream failure.
		if err := ctx.Err(); err != nil {
			return nil, ordinal, err
		}

		cred := c.pool.At(ordinal)
		start := time.Now()
		respBody, status, err := c.attempt(ctx, method, path, body, contentType, cred)
		duration := time.Since(start)

		c.logger.Debug("upstream attempt",
			zap.String("path", path),
			zap.Int("ordinal", ordinal),
			zap.Int("pool_size", n),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.Error(err),
		)

		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil, ordinal, err
			}

			// Transport failure or attempt timeout. Possibly
			// credential-independent, but with another credential left the
			// retry costs one cheap request.
			metrics.UpstreamAttemptsTotal.WithLabelValues(strconv.Itoa(ordinal), "transient").Inc()
			lastErr = err
			if ordinal == n-1 {
				return nil, ordinal, fmt.Errorf("%w: credential #%d: %v", ErrUnavailable, ordinal, err)
			}
			c.logger.Warn("network error, trying next credential",
				zap.Int("ordinal", ordinal),
				zap.Error(err),
			)
			continue
		}

		if RateLimitSignal(status, respBody) {
			metrics.UpstreamAttemptsTotal.WithLabelValues(strconv.Itoa(ordinal), "rate_limited").Inc()
			lastErr = fmt.Errorf("credential #%d rate limited (status %d)", ordinal, status)
			if ordinal == n-1 {
				return nil, ordinal, fmt.Errorf("%w: tried %d credentials", ErrExhausted, n)
			}
			c.logger.Warn("credential rate limited, trying next",
				zap.Int("ordinal", ordinal),
				zap.Int("status", status),
			)
			continue
		}

		if status < 200 || status >= 300 {
			metrics.UpstreamAttemptsTotal.WithLabelValues(strconv.Itoa(ordinal), "transient").Inc()
			lastErr = fmt.Errorf("upstream status %d: %s", status, truncate(string(respBody), 200))
			if ordinal == n-1 {
				return nil, ordinal, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
			}
			c.logger.Warn("upstream error status, trying next credential",
				zap.Int("ordinal", ordinal),
				zap.Int("status", status),
			)
			continue
		}

		metrics.UpstreamAttemptsTotal.WithLabelValues(strconv.Itoa(ordinal), "success").Inc()
		c.pool.MarkGood(ordinal)
		return respBody, ordinal, nil
	}

	// Unreachable: the last iteration always returns.
	return nil, n - 1, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// attempt issues a single HTTP call with one credential. Each attempt gets
// a fresh request and its own timeout.
func (c *Client) attempt(parentCtx context.Context, method, path string, body []byte, contentType string, cred Credential) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(parentCtx, c.cfg.AttemptTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build HTTP request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	// The provider reads the secret under inconsistent header casings
	// depending on the endpoint, so send both. Header.Set would canonicalize
	// "key" to "Key"; the lowercase variant has to go in directly.
	req.Header.Set("Key", cred.Secret)
	req.Header["key"] = []string{cred.Secret}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// truncate limits string length for logging
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
