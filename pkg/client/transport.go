// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Doer is the transport boundary. The client core holds exactly one of
// these and treats it as a black box: connection reuse, TLS and
// timeouts all live behind it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewTransport returns a pooled HTTP client suitable for sustained
// request streams against a single service endpoint.
func NewTransport(timeout time.Duration, maxIdleConns int) *http.Client {
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	if maxIdleConns == 0 {
		maxIdleConns = 100
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConns / 10, // 10% per host
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

type limitedTransport struct {
	next    Doer
	limiter *rate.Limiter
}

// WithRateLimit wraps a transport with a client-side request rate cap.
// Useful when driving bulk deletes or part uploads hard enough to trip
// the service's own throttling.
func WithRateLimit(next Doer, rps float64, burst int) Doer {
	return &limitedTransport{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (t *limitedTransport) Do(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.Do(req)
}
