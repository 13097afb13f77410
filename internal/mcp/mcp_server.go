// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/covtree/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the covtree MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Covtree Coverage Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Merge coverage reports and return one aggregate value per metric."),
		mcp.WithString("paths", mcp.Description("Comma-separated report file paths."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Report format (see list_formats). Defaults to the server format.")),
	), h.handleGetSummary)

	// --- 2. Tool: get_files ---
	s.AddTool(mcp.NewTool("get_files",
		mcp.WithDescription("Merge coverage reports and list the least covered files."),
		mcp.WithString("paths", mcp.Description("Comma-separated report file paths."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Report format.")),
		mcp.WithString("filter", mcp.Description("Only keep files whose path starts with this prefix.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleGetFiles)

	// --- 3. Tool: get_packages ---
	s.AddTool(mcp.NewTool("get_packages",
		mcp.WithDescription("Merge coverage reports and list the least covered packages."),
		mcp.WithString("paths", mcp.Description("Comma-separated report file paths."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Report format.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results.")),
	), h.handleGetPackages)

	// --- 4. Tool: compare_coverage ---
	s.AddTool(mcp.NewTool("compare_coverage",
		mcp.WithDescription("Compare the coverage of two report sets, metric by metric and file by file."),
		mcp.WithString("base_paths", mcp.Description("Comma-separated base report file paths."), mcp.Required()),
		mcp.WithString("paths", mcp.Description("Comma-separated target report file paths."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Report format of both sets.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of file changes.")),
	), h.handleCompareCoverage)

	// --- 5. Tool: check_thresholds ---
	s.AddTool(mcp.NewTool("check_thresholds",
		mcp.WithDescription("Check the merged coverage against minimum percentages per metric."),
		mcp.WithString("paths", mcp.Description("Comma-separated report file paths."), mcp.Required()),
		mcp.WithString("format", mcp.Description("Report format.")),
		mcp.WithString("thresholds", mcp.Description("Thresholds like 'line:80,branch:60'. Defaults to the server thresholds.")),
	), h.handleCheckThresholds)

	// --- 6. Tool: list_formats ---
	s.AddTool(mcp.NewTool("list_formats",
		mcp.WithDescription("List the supported report formats."),
	), h.handleListFormats)

	return s
}

// StartMCPServer starts the covtree MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
