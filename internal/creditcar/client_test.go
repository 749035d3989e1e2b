package creditcar

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lukman83/autolot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func provider(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var seen http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = *r.Clone(context.Background())
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func newClient(t *testing.T, base, method string, timeout time.Duration) *Client {
	t.Helper()
	c, err := NewClient(nil, Options{BaseURL: base, Method: method, Timeout: timeout})
	require.NoError(t, err)
	return c
}

func TestQuoteGetBareArray(t *testing.T) {
	srv, seen := provider(t, http.StatusOK,
		`[{"plazo":12,"cuota":"45000","inclusion":0},{"plazo":36,"cuota":"20000","inclusion":0}]`)

	q, err := newClient(t, srv.URL+"/cotizar?canal=web", "GET", time.Second).Quote(context.Background(), 300000, 2013)
	require.NoError(t, err)

	assert.Equal(t, "300000", seen.URL.Query().Get("monto"))
	assert.Equal(t, "2013", seen.URL.Query().Get("modelo"))
	assert.Equal(t, "web", seen.URL.Query().Get("canal"), "configured query params are kept")
	assert.Equal(t, []models.QuoteOption{{Term: 12, Installment: 45000}}, q.Options)
	assert.Empty(t, q.RawText)
}

func TestQuotePostWrappedShape(t *testing.T) {
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		json.NewDecoder(r.Body).Decode(&payload)
		io.WriteString(w, `{"quote":{"raw":[{"plazo":24,"cuota":1000},{"plazo":6,"cuota":3000,"inclusion":"1.500,50"}]}}`)
	}))
	defer srv.Close()

	q, err := newClient(t, srv.URL, "POST", time.Second).Quote(context.Background(), 500, 2020)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"monto": 500.0, "modelo": 2020.0}, payload)
	assert.Equal(t, []models.QuoteOption{
		{Term: 6, Installment: 3000, InclusionFee: 1500.5},
		{Term: 24, Installment: 1000},
	}, q.Options)
}

func TestQuoteUnknownShapeHasNoOptions(t *testing.T) {
	srv, _ := provider(t, http.StatusOK, `{"message":"ok","payload":{"x":1}}`)
	q, err := newClient(t, srv.URL, "GET", time.Second).Quote(context.Background(), 1, 2013)
	require.NoError(t, err)
	assert.Empty(t, q.Options)
	assert.NotNil(t, q.Options)
}

func TestQuoteNonJSONFallsBackToRawText(t *testing.T) {
	srv, _ := provider(t, http.StatusOK, `<html>maintenance</html>`)
	q, err := newClient(t, srv.URL, "GET", time.Second).Quote(context.Background(), 1, 2013)
	require.NoError(t, err)
	assert.Equal(t, "<html>maintenance</html>", q.RawText)
	assert.Empty(t, q.Options)
}

func TestQuoteUpstreamStatus(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantData any
	}{
		{"json body", `{"error":"modelo fuera de rango"}`, map[string]any{"error": "modelo fuera de rango"}},
		{"text body", `Service Unavailable`, map[string]any{"rawText": "Service Unavailable"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := provider(t, http.StatusServiceUnavailable, tt.body)
			_, err := newClient(t, srv.URL, "GET", time.Second).Quote(context.Background(), 1, 2013)

			var upErr *UpstreamError
			require.True(t, errors.As(err, &upErr))
			assert.Equal(t, http.StatusServiceUnavailable, upErr.Status)
			assert.Equal(t, tt.wantData, upErr.Data)
			assert.Contains(t, upErr.URL, "monto=1")
			assert.False(t, upErr.Timeout())
		})
	}
}

func TestQuoteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := newClient(t, srv.URL, "GET", 50*time.Millisecond).Quote(context.Background(), 1, 2013)

	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.True(t, upErr.Timeout())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewClientValidates(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"missing url", Options{}},
		{"relative url", Options{BaseURL: "/quote"}},
		{"bad method", Options{BaseURL: "https://example.com", Method: "PUT"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(nil, tt.opts)
			assert.Error(t, err)
		})
	}
}
