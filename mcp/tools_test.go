package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/lukman83/autolot/internal/catalog"
	"github.com/lukman83/autolot/internal/creditcar"
	"github.com/lukman83/autolot/internal/financing"
	"github.com/lukman83/autolot/internal/models"
	"github.com/lukman83/autolot/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedQuoter struct {
	modelo int
}

func (f *fixedQuoter) Quote(ctx context.Context, amount int64, modelo int) (*creditcar.Quote, error) {
	f.modelo = modelo
	return &creditcar.Quote{Options: []models.QuoteOption{{Term: 6, Installment: 100}}}, nil
}

type countingSyncer struct{ n int }

func (c *countingSyncer) Run(context.Context) (catalog.Result, error) {
	c.n++
	return catalog.Result{Count: 3}, nil
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func testTools(t *testing.T) (*tools, *fixedQuoter, *countingSyncer) {
	t.Helper()
	q := &fixedQuoter{}
	svc, err := financing.NewService(q, 2013)
	require.NoError(t, err)

	mem := store.NewMemory()
	brand := "Ford"
	require.NoError(t, mem.UpsertVehicles(context.Background(), []models.Vehicle{
		{ID: "MLA1", Title: "Ford Ka 2015", Slug: "ford-ka-2015", Brand: &brand},
		{ID: "MLA2", Title: "Fiat Cronos", Slug: "fiat-cronos"},
	}))
	s := &countingSyncer{}
	return &tools{Backend{Quotes: svc, Syncer: s, Catalog: mem}}, q, s
}

func TestQuoteTool(t *testing.T) {
	tl, q, _ := testTools(t)

	res, err := tl.handleQuote(context.Background(), call("quote_financing", map[string]any{
		"price": 1000000.0, "amount_to_finance": 300000.0, "year": 2008.0,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, 2013, q.modelo)

	var out financing.Result
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &out))
	assert.Equal(t, 2013, out.Modelo)
	assert.Len(t, out.Options, 1)
}

func TestQuoteToolLimit(t *testing.T) {
	tl, _, _ := testTools(t)
	res, err := tl.handleQuote(context.Background(), call("quote_financing", map[string]any{
		"price": 1000000.0, "amount_to_finance": 500000.0,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "min down payment 600000")
}

func TestSyncTool(t *testing.T) {
	tl, _, s := testTools(t)
	res, err := tl.handleSync(context.Background(), call("sync_catalog", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":3}`, text(t, res))
	assert.Equal(t, 1, s.n)
}

func TestVehicleTools(t *testing.T) {
	tl, _, _ := testTools(t)

	res, err := tl.handleListVehicles(context.Background(), call("list_vehicles", map[string]any{"brand": "FORD"}))
	require.NoError(t, err)
	var list []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Consultar", list[0]["priceText"])

	res, err = tl.handleGetVehicle(context.Background(), call("get_vehicle", map[string]any{"slug": "fiat-cronos"}))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), `"id": "MLA2"`)

	res, err = tl.handleGetVehicle(context.Background(), call("get_vehicle", map[string]any{"slug": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestUnconfiguredTools(t *testing.T) {
	tl := &tools{Backend{Catalog: store.NewMemory()}}
	res, err := tl.handleQuote(context.Background(), call("quote_financing", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = tl.handleSync(context.Background(), call("sync_catalog", nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
