package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

type fixedToken struct {
	token string
	err   error
}

func (f fixedToken) Token(context.Context) (string, error) { return f.token, f.err }

func TestAPITransportSetsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	client := &http.Client{Transport: &APITransport{
		Tokens:      fixedToken{token: "APP_USR-123"},
		RateLimiter: rate.NewLimiter(rate.Inf, 1),
	}}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/plain")

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer APP_USR-123", got.Get("Authorization"))
	assert.Equal(t, UserAgent, got.Get("User-Agent"))
	assert.Equal(t, "text/plain", got.Get("Accept"), "caller headers win")
	assert.Empty(t, req.Header.Get("Authorization"), "caller request must stay untouched")
}

func TestAPITransportTokenError(t *testing.T) {
	client := &http.Client{Transport: &APITransport{
		Tokens: fixedToken{err: errors.New("expired")},
	}}
	_, err := client.Get("http://127.0.0.1:1/never")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token: expired")
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "abc", Snippet([]byte("abc"), 10))
	assert.Equal(t, "añ", Snippet([]byte("añbc"), 2))
}
