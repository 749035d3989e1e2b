package httputil

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// TokenSource supplies the bearer token for an outbound call.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// APITransport is an http.RoundTripper that applies the outbound pipeline:
// Headers → Bearer token → RateLimiter → Send
type APITransport struct {
	Base        http.RoundTripper
	Tokens      TokenSource
	RateLimiter *rate.Limiter
}

func (t *APITransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not mutate the caller's request.
	req = req.Clone(req.Context())

	// 1. Default headers
	ApplyHeaders(req, JSONHeaders())

	// 2. Bearer token
	if t.Tokens != nil {
		token, err := t.Tokens.Token(req.Context())
		if err != nil {
			return nil, fmt.Errorf("access token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// 3. Wait for rate limiter token
	if t.RateLimiter != nil {
		if err := t.RateLimiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	transport := t.Base
	if transport == nil {
		transport = http.DefaultTransport
	}
	return transport.RoundTrip(req)
}
