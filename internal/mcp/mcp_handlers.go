package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/covtree/core"
	"github.com/huangsam/covtree/core/registry"
	"github.com/huangsam/covtree/internal/contract"
	"github.com/huangsam/covtree/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// reportConfig clones the base config and points it at the requested reports.
func (h *toolHandler) reportConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	err := contract.ApplyReportOverrides(cfg,
		request.GetString("paths", ""),
		request.GetString("base_paths", ""),
		request.GetString("format", ""),
	)
	if err != nil {
		return nil, err
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	return cfg, nil
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.reportConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetSummaryResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.reportConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if f := request.GetString("filter", ""); f != "" {
		cfg.PathFilter = f
	}

	ranked, err := core.GetFileResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(schema.EnrichFiles(ranked))
}

func (h *toolHandler) handleGetPackages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.reportConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	ranked, err := core.GetPackageResults(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(schema.EnrichPackages(ranked))
}

func (h *toolHandler) handleCompareCoverage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetString("base_paths", "") == "" {
		return mcp.NewToolResultError("invalid comparison parameters: base_paths is required"), nil
	}
	cfg, err := h.reportConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}

	result, err := core.GetComparisonResult(core.WithSuppressHeader(ctx), cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleCheckThresholds(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.reportConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if err := contract.ApplyThresholdOverrides(cfg, request.GetString("thresholds", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid thresholds: %v", err)), nil
	}

	// A failed check is a successful tool call; the result says which metrics failed
	result, err := core.GetCheckResult(core.WithSuppressHeader(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleListFormats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(registry.Describe())
}

// jsonResult marshals v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
