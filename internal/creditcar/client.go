// Package creditcar is the client for the external credit provider's quote API.
package creditcar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lukman83/autolot/internal/httputil"
	"github.com/lukman83/autolot/internal/models"
	"github.com/lukman83/autolot/internal/platform"
)

const DefaultTimeout = 8 * time.Second

// ErrTimeout marks a provider call cancelled after the configured timeout.
var ErrTimeout = errors.New("credit provider timed out")

// UpstreamError reports a provider failure: a non-2xx reply, a transport
// error, or a timeout. Data echoes the provider body for diagnosis.
type UpstreamError struct {
	Status int
	URL    string
	Data   any
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credit provider %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("credit provider %s: status %d", e.URL, e.Status)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Timeout reports whether the call was cancelled by the client-side timeout.
func (e *UpstreamError) Timeout() bool { return errors.Is(e.Err, ErrTimeout) }

// Quote is a normalized provider answer. RawText is set only when the
// provider replied 2xx with a body that is not JSON.
type Quote struct {
	Options []models.QuoteOption
	RawText string
}

type Options struct {
	BaseURL string
	Method  string // GET (query string) or POST (JSON body)
	Timeout time.Duration
}

type Client struct {
	client  *http.Client
	baseURL *url.URL
	method  string
	timeout time.Duration
}

// NewClient validates the endpoint eagerly so a missing URL fails at startup.
func NewClient(client *http.Client, opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, errors.New("creditcar: BaseURL is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("creditcar: invalid BaseURL %q", base)
	}
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("creditcar: unsupported method %q", opts.Method)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if client == nil {
		client = httputil.NewHTTPClient(nil, 0)
	}
	return &Client{client: client, baseURL: u, method: method, timeout: opts.Timeout}, nil
}

// Quote asks the provider for financing plans on amount for a model year.
func (c *Client) Quote(ctx context.Context, amount int64, modelo int) (*Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, amount, modelo)
	if err != nil {
		return nil, err
	}
	target := req.URL.String()

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.transportError(target, err)
	}
	defer resp.Body.Close()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, c.transportError(target, err)
	}
	log.Printf("[creditcar] %s %s status=%d duration=%s", c.method, target, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	var data any
	parsed := json.Unmarshal(body, &data) == nil
	if !parsed {
		data = map[string]any{"rawText": httputil.Snippet(body, 500)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, URL: target, Data: data}
	}
	if !parsed {
		return &Quote{Options: []models.QuoteOption{}, RawText: httputil.Snippet(body, 500)}, nil
	}

	raw, _ := platform.FirstMatch(data, optionArrays...)
	return &Quote{Options: NormalizeOptions(raw)}, nil
}

func (c *Client) newRequest(ctx context.Context, amount int64, modelo int) (*http.Request, error) {
	u := *c.baseURL
	if c.method == http.MethodGet {
		q := u.Query()
		q.Set("monto", strconv.FormatInt(amount, 10))
		q.Set("modelo", strconv.Itoa(modelo))
		u.RawQuery = q.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		httputil.ApplyHeaders(req, httputil.JSONHeaders())
		return req, nil
	}

	payload, err := json.Marshal(map[string]any{"monto": amount, "modelo": modelo})
	if err != nil {
		return nil, fmt.Errorf("marshal quote request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	httputil.ApplyHeaders(req, httputil.JSONHeaders())
	return req, nil
}

func (c *Client) transportError(target string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &UpstreamError{URL: target, Err: fmt.Errorf("%w after %s", ErrTimeout, c.timeout)}
	}
	return &UpstreamError{URL: target, Err: err}
}
