// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// inputOptions are the arguments every tool accepts to pick the event file.
func inputOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("input_path", mcp.Description("Path to the event file (defaults to the file the server was started with).")),
		mcp.WithString("input_format", mcp.Description("Event file format. Inferred from the extension when omitted."), mcp.Enum("csv", "json", "yaml", "lists")),
		mcp.WithBoolean("fill_gaps", mcp.Description("Emit a carried-forward snapshot for every episode without events.")),
	}
}

// newTool builds a tool that takes the common input options plus its own.
func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	all := append([]mcp.ToolOption{mcp.WithDescription(description)}, inputOptions()...)
	return mcp.NewTool(name, append(all, opts...)...)
}

// NewMCPServer initializes and configures the list MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"The List History Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_history ---
	s.AddTool(newTool("get_history",
		"Replay the ranking events and return the ordered list after every episode.",
	), h.handleGetHistory)

	// --- 2. Tool: get_item_timeline ---
	s.AddTool(newTool("get_item_timeline",
		"Return the rank of one item at every episode and the intervals it stayed on the list.",
		mcp.WithString("item", mcp.Description("Identifier of the item."), mcp.Required()),
		mcp.WithString("layout", mcp.Description("Track assignment strategy used for lanes."), mcp.Enum("stable", "rank")),
	), h.handleGetItemTimeline)

	// --- 3. Tool: get_series ---
	s.AddTool(newTool("get_series",
		"Export the bump-chart series: one point per item and episode with track, lane, color and display metadata.",
		mcp.WithString("layout", mcp.Description("Track assignment strategy."), mcp.Enum("stable", "rank")),
	), h.handleGetSeries)

	// --- 4. Tool: get_layout ---
	s.AddTool(newTool("get_layout",
		"Assign tracks to every episode and count the crossings between adjacent episodes.",
		mcp.WithString("layout", mcp.Description("Track assignment strategy."), mcp.Enum("stable", "rank")),
	), h.handleGetLayout)

	// --- 5. Tool: get_summary ---
	s.AddTool(newTool("get_summary",
		"Summarize the list history: time at the top and bottom, longest tenures, overrated and underrated items, genre, engine, company and platform tallies, and release range.",
		mcp.WithNumber("limit", mcp.Description("Limit the number of entries per statistic.")),
	), h.handleGetSummary)

	// --- 6. Tool: get_rating_diffs ---
	s.AddTool(newTool("get_rating_diffs",
		"Compare the latest list with the catalog ranking by rating.",
		mcp.WithString("rating", mcp.Description("Which catalog rating to rank by. Defaults to 'total'."), mcp.Enum("user", "critic", "total")),
	), h.handleGetRatingDiffs)

	return s
}

// StartMCPServer starts the list MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
