package meli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMarketplace serves a seller with n active listings.
func fakeMarketplace(t *testing.T, n int) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	mux := http.NewServeMux()
	mux.HandleFunc("/users/42/items/search", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.RawQuery)
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		results := []string{}
		for i := offset; i < n && i < offset+limit; i++ {
			results = append(results, fmt.Sprintf("MLA%d", i))
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	})
	mux.HandleFunc("/items", func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.RawQuery)
		var out []any
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			out = append(out, map[string]any{
				"code": 200,
				"body": map[string]any{"id": id, "title": "Auto " + id},
			})
		}
		json.NewEncoder(w).Encode(out)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestClient(t *testing.T, base string, page, batch int) *Client {
	t.Helper()
	c, err := NewClient(http.DefaultClient, Options{BaseURL: base, PageSize: page, BatchSize: batch})
	require.NoError(t, err)
	return c
}

func TestActiveListingIDsPaginates(t *testing.T) {
	tests := []struct {
		name      string
		listings  int
		wantPages int
	}{
		{"no listings", 0, 1},
		{"short first page", 3, 1},
		{"exact multiple needs empty page", 10, 3},
		{"several pages", 12, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, calls := fakeMarketplace(t, tt.listings)
			c := newTestClient(t, srv.URL, 5, 20)

			ids, err := c.ActiveListingIDs(context.Background(), "42")
			require.NoError(t, err)
			assert.Len(t, ids, tt.listings)
			assert.Len(t, *calls, tt.wantPages)
			if tt.listings > 0 {
				assert.Equal(t, "MLA0", ids[0])
			}
		})
	}
}

func TestActiveListingIDsFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid_token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 5, 20).ActiveListingIDs(context.Background(), "42")
	var upErr *UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnauthorized, upErr.Status)
	assert.Contains(t, upErr.Body, "invalid_token")
}

func TestItemsBatches(t *testing.T) {
	srv, calls := fakeMarketplace(t, 0)
	c := newTestClient(t, srv.URL, 5, 2)

	items, err := c.Items(context.Background(), []string{"A", "B", "C", "D", "E"})
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, "E", items[4].ID)
	assert.Equal(t, []string{"ids=A%2CB", "ids=C%2CD", "ids=E"}, *calls)
}

func TestItemsBatchFailureAborts(t *testing.T) {
	n := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n++
		if n == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 5, 1).Items(context.Background(), []string{"A", "B", "C"})
	require.Error(t, err)
	assert.Equal(t, 2, n, "third batch must not run")
}

func TestDecodeItemsShapes(t *testing.T) {
	payload := `[
		{"code":200,"body":{"id":"MLA1","title":"Wrapped"}},
		{"id":"MLA2","title":"Bare"},
		{"code":404,"body":{"message":"not found","error":"not_found"}},
		{"code":200,"body":null},
		{"title":"no id"},
		"garbage"
	]`
	items, err := decodeItems([]byte(payload))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Wrapped", items[0].Title)
	assert.Equal(t, "Bare", items[1].Title)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(http.DefaultClient, Options{})
	assert.Error(t, err)
}
