package letterboxd

import (
	"errors"
	"net/http"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "movielog/1.0 (+https://github.com/movielog)"
)

// retryTransport retries idempotent requests that fail at the transport level
// or return a 5xx or 429 status. RetryMax counts retries, not attempts.
type retryTransport struct {
	base     http.RoundTripper
	retryMax int
	backoff  time.Duration
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	canRetry := (req.Method == http.MethodGet || req.Method == http.MethodHead) && req.Body == nil
	limit := t.retryMax
	if limit < 0 || !canRetry {
		limit = 0
	}

	var (
		resp    *http.Response
		lastErr error
	)
	for attempt := 0; attempt <= limit; attempt++ {
		if attempt > 0 {
			if err := sleep(req, t.backoff*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
		r := req.Clone(req.Context())
		if r.Header.Get("User-Agent") == "" {
			r.Header.Set("User-Agent", userAgent)
		}

		resp, lastErr = base.RoundTrip(r)
		if lastErr != nil {
			if req.Context().Err() != nil {
				return nil, lastErr
			}
			continue
		}
		if !retryableStatus(resp.StatusCode) || attempt == limit {
			return resp, nil
		}
		resp.Body.Close()
	}
	return resp, lastErr
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func sleep(req *http.Request, d time.Duration) error {
	if d <= 0 {
		return req.Context().Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-req.Context().Done():
		return req.Context().Err()
	case <-timer.C:
		return nil
	}
}

// NewHTTPClient builds the client used to fetch rating pages: bounded
// retries for GETs and an overall per-request timeout.
func NewHTTPClient(timeout time.Duration, retries int) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{
		Transport: &retryTransport{base: base, retryMax: retries, backoff: 500 * time.Millisecond},
		Timeout:   timeout,
	}
}
