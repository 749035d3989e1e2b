package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lukman83/autolot/internal/catalog"
	"github.com/lukman83/autolot/internal/financing"
	"github.com/lukman83/autolot/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type tools struct {
	Backend
}

func registerTools(s *server.MCPServer, t *tools) {
	// quote_financing
	quoteTool := mcp.NewTool("quote_financing",
		mcp.WithDescription("Quote financing options for a vehicle. At most 40% of the price can be financed."),
		mcp.WithNumber("price",
			mcp.Required(),
			mcp.Description("Vehicle price"),
		),
		mcp.WithNumber("amount_to_finance",
			mcp.Required(),
			mcp.Description("Amount the buyer wants to finance"),
		),
		mcp.WithNumber("year",
			mcp.Description("Model year (older models are quoted at the floor year)"),
		),
	)
	s.AddTool(quoteTool, t.handleQuote)

	// sync_catalog
	syncTool := mcp.NewTool("sync_catalog",
		mcp.WithDescription("Mirror the seller's active marketplace listings into the catalog"),
	)
	s.AddTool(syncTool, t.handleSync)

	// list_vehicles
	listTool := mcp.NewTool("list_vehicles",
		mcp.WithDescription("List vehicles in the catalog"),
		mcp.WithString("brand",
			mcp.Description("Only vehicles of this brand (case-insensitive)"),
		),
	)
	s.AddTool(listTool, t.handleListVehicles)

	// get_vehicle
	vehicleTool := mcp.NewTool("get_vehicle",
		mcp.WithDescription("Get one vehicle by its URL slug"),
		mcp.WithString("slug",
			mcp.Required(),
			mcp.Description("Vehicle slug, e.g. ford-ka-2015"),
		),
	)
	s.AddTool(vehicleTool, t.handleGetVehicle)
}

func (t *tools) handleQuote(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.Quotes == nil {
		return mcp.NewToolResultError("credit provider is not configured"), nil
	}
	args := request.GetArguments()
	body := map[string]any{
		"price":           args["price"],
		"amountToFinance": args["amount_to_finance"],
	}
	if year, ok := args["year"]; ok {
		body["modelo"] = year
	}

	res, err := t.Quotes.Quote(ctx, body)
	if err != nil {
		var limit *financing.LimitError
		if errors.As(err, &limit) {
			return mcp.NewToolResultError(fmt.Sprintf("amount exceeds 40%% of the price: max finance %.0f, min down payment %.0f",
				limit.MaxFinance, limit.MinDownPayment)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("quote error: %v", err)), nil
	}
	return jsonResult(res)
}

func (t *tools) handleSync(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.Syncer == nil {
		return mcp.NewToolResultError("marketplace sync is not configured"), nil
	}
	res, err := t.Syncer.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("sync error: %v", err)), nil
	}
	return jsonResult(res)
}

func (t *tools) handleListVehicles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vehicles, err := t.Catalog.Vehicles(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog error: %v", err)), nil
	}
	return jsonResult(catalog.Listings(vehicles, request.GetString("brand", "")))
}

func (t *tools) handleGetVehicle(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug := request.GetString("slug", "")
	if slug == "" {
		return mcp.NewToolResultError("slug is required"), nil
	}
	v, err := t.Catalog.VehicleBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("no vehicle with slug %q", slug)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("catalog error: %v", err)), nil
	}
	return jsonResult(catalog.NewListing(*v))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
