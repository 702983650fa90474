// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NewClient returns an HTTP client without a global timeout. Callers bound
// each request with a per-call deadline instead, because different probes
// carry different budgets (a HEAD probe gets 2 s, a content fetch 10 s).
// Failed calls are never retried: the pipeline degrades to an empty result
// rather than waiting on a flaky backend.
func NewClient() *http.Client {
	return &http.Client{}
}

// GetBody issues a GET bounded by timeout and returns the full response
// body. A non-2xx status is an error.
func GetBody(ctx context.Context, client *http.Client, url, userAgent string, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// Exists issues a HEAD bounded by timeout and reports whether the URL
// answered 200. Redirects are followed; any error means absent.
func Exists(ctx context.Context, client *http.Client, url, userAgent string, timeout time.Duration) bool {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
