package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all pymigrate MCP tools with the server
func RegisterTools(s *server.MCPServer) {
	// Tool 1: scan_project - full project analysis
	s.AddTool(mcp.NewTool("scan_project",
		mcp.WithDescription("Analyze a Python project tree: class hierarchies, embedded configuration findings, and per-function complexity metrics"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the project directory to scan")),
	), HandleScanProject)

	// Tool 2: plan_migration - compute a migration plan
	s.AddTool(mcp.NewTool("plan_migration",
		mcp.WithDescription("Compute a validated migration plan for a project from a mapping file, without touching the filesystem"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the project directory")),
		mcp.WithString("mapping",
			mcp.Required(),
			mcp.Description("Path to the migration mapping YAML file")),
	), HandlePlanMigration)

	// Tool 3: class_diagram - Mermaid class diagram
	s.AddTool(mcp.NewTool("class_diagram",
		mcp.WithDescription("Render the project's class hierarchies as a Mermaid classDiagram"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the project directory to scan")),
	), HandleClassDiagram)
}
