package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bonuspoints/thelist/core"
	"github.com/bonuspoints/thelist/internal/contract"
	"github.com/bonuspoints/thelist/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// requestConfig copies the base config and applies the common input arguments.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateInput(cfg, request.GetString("input_path", ""), request.GetString("input_format", "")); err != nil {
		return nil, err
	}
	cfg.FillGaps = request.GetBool("fill_gaps", cfg.FillGaps)
	if err := contract.RevalidateLayout(cfg, request.GetString("layout", "")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// jsonResult marshals a result into a text tool result.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid history parameters: %v", err)), nil
	}

	result, _, err := core.GetHistoryResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("replay failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetItemTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid timeline parameters: %v", err)), nil
	}
	cfg.Item = strings.TrimSpace(request.GetString("item", ""))
	if cfg.Item == "" {
		return mcp.NewToolResultError("invalid timeline parameters: item is required"), nil
	}

	result, _, err := core.GetTimelineResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeline failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series parameters: %v", err)), nil
	}

	result, _, err := core.GetSeriesResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series export failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetLayout(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid layout parameters: %v", err)), nil
	}

	result, _, err := core.GetLayoutResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("layout failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid summary parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}

	result, _, err := core.GetSummaryResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(result), nil
}

func (h *toolHandler) handleGetRatingDiffs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid diff parameters: %v", err)), nil
	}
	if r := request.GetString("rating", ""); r != "" {
		kind := schema.RatingKind(strings.ToLower(r))
		if _, ok := schema.ValidRatingKinds[kind]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid diff parameters: unknown rating %q", r)), nil
		}
		cfg.Rating = kind
	}

	result, _, err := core.GetDiffResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rating diffs failed: %v", err)), nil
	}
	return jsonResult(result), nil
}
