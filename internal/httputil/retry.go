// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers for the catalog client: bounded
// retry on throttling responses and size-limited body reads.
package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// throttling responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-supplied Retry-After so a misbehaving server
// cannot park a request for minutes.
const maxRetryAfter = 60 * time.Second

const defaultMaxRetries = 3

// Retrier re-issues a request when the server answers 429 (Too Many
// Requests) or 503 (Service Unavailable). Transport errors are returned
// immediately: whether to try again is the caller's decision.
type Retrier struct {
	// MaxRetries is the number of retries after the first attempt. Zero
	// selects the default (3); a negative value disables retries.
	MaxRetries int

	// BaseDelay overrides RetryBaseDelay when positive.
	BaseDelay time.Duration

	Logger zerolog.Logger
}

// Do executes req and retries throttled responses with exponential backoff.
// A Retry-After header given in seconds takes precedence over the computed
// backoff. Between attempts the response body is drained and closed. If ctx
// ends during a wait, Do returns ctx.Err(). After exhausting retries the last
// throttled response is returned so the caller can inspect it.
func (r Retrier) Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	maxRetries := r.MaxRetries
	switch {
	case maxRetries == 0:
		maxRetries = defaultMaxRetries
	case maxRetries < 0:
		maxRetries = 0
	}
	base := r.BaseDelay
	if base <= 0 {
		base = RetryBaseDelay
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		wait := base << attempt
		if ra, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			wait = ra
		}
		r.Logger.Debug().
			Int("status", resp.StatusCode).
			Dur("wait", wait).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Str("url", req.URL.String()).
			Msg("throttled, retrying")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// retryAfter parses a Retry-After header in delta-seconds form. HTTP-date
// values are ignored and the computed backoff applies.
func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d, true
}
