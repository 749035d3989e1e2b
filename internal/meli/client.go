package meli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lukman83/autolot/internal/httputil"
	"github.com/lukman83/autolot/internal/platform"
)

const (
	DefaultPageSize  = 50
	DefaultBatchSize = 20
)

// Options configures a marketplace Client.
type Options struct {
	BaseURL   string
	PageSize  int // listing-search page size
	BatchSize int // ids per multi-get request
}

// Client talks to the marketplace REST API. Authentication and rate
// limiting live in the injected http.Client's transport.
type Client struct {
	client    *http.Client
	baseURL   string
	pageSize  int
	batchSize int
}

// NewClient creates a marketplace client. BaseURL is required.
func NewClient(client *http.Client, opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("meli: BaseURL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("meli: invalid BaseURL: %w", err)
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	return &Client{
		client:    client,
		baseURL:   base,
		pageSize:  opts.PageSize,
		batchSize: opts.BatchSize,
	}, nil
}

// ActiveListingIDs pages through the seller's active items until a short page.
func (c *Client) ActiveListingIDs(ctx context.Context, sellerID string) ([]string, error) {
	if sellerID == "" {
		return nil, errors.New("seller id is required")
	}

	var ids []string
	for offset := 0; ; offset += c.pageSize {
		q := url.Values{}
		q.Set("status", "active")
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("offset", strconv.Itoa(offset))
		u := fmt.Sprintf("%s/users/%s/items/search?%s", c.baseURL, url.PathEscape(sellerID), q.Encode())

		var page searchResponse
		if err := c.getJSON(ctx, u, &page); err != nil {
			return nil, fmt.Errorf("listing page at offset %d: %w", offset, err)
		}
		ids = append(ids, page.Results...)
		platform.ReportProgress(ctx, "Found %d active listings...", len(ids))

		if len(page.Results) < c.pageSize {
			return ids, nil
		}
	}
}

// Items fetches full item details in sequential batches. The first failing
// batch aborts the whole call.
func (c *Client) Items(ctx context.Context, ids []string) ([]Item, error) {
	var items []Item
	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))

		q := url.Values{}
		q.Set("ids", strings.Join(ids[start:end], ","))
		u := fmt.Sprintf("%s/items?%s", c.baseURL, q.Encode())

		body, err := c.get(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("item batch %d-%d: %w", start, end, err)
		}
		batch, err := decodeItems(body)
		if err != nil {
			return nil, fmt.Errorf("item batch %d-%d: %w", start, end, err)
		}
		items = append(items, batch...)
		platform.ReportProgress(ctx, "Fetched details for %d/%d listings...", end, len(ids))
	}
	return items, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	body, err := c.get(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal %s: %w", u, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode, URL: u, Body: httputil.Snippet(body, 500)}
	}
	return body, nil
}
