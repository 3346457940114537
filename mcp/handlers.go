package mcp

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pymigrate/pymigrate/app"
	"github.com/pymigrate/pymigrate/domain"
)

// HandleScanProject handles the scan_project tool
func HandleScanProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := pathArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	var buf bytes.Buffer
	_, err := app.NewScanUseCase().Execute(ctx, app.ScanRequest{
		Root:         path,
		OutputFormat: domain.OutputFormatJSON,
		OutputWriter: &buf,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	return mcp.NewToolResultText(buf.String()), nil
}

// HandlePlanMigration handles the plan_migration tool
func HandlePlanMigration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := pathArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	args, _ := request.Params.Arguments.(map[string]interface{})
	mapping, ok := args["mapping"].(string)
	if !ok || mapping == "" {
		return mcp.NewToolResultError("mapping parameter is required and must be a string"), nil
	}

	var buf bytes.Buffer
	_, err := app.NewPlanUseCase().Execute(ctx, app.PlanRequest{
		Root:         path,
		MappingPath:  mapping,
		OutputFormat: domain.OutputFormatJSON,
		OutputWriter: &buf,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("planning failed: %v", err)), nil
	}

	return mcp.NewToolResultText(buf.String()), nil
}

// HandleClassDiagram handles the class_diagram tool
func HandleClassDiagram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, errResult := pathArgument(request)
	if errResult != nil {
		return errResult, nil
	}

	var buf bytes.Buffer
	_, err := app.NewScanUseCase().Execute(ctx, app.ScanRequest{
		Root:         path,
		OutputFormat: domain.OutputFormatMermaid,
		OutputWriter: &buf,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	return mcp.NewToolResultText(buf.String()), nil
}

// pathArgument extracts and validates the required path argument.
func pathArgument(request mcp.CallToolRequest) (string, *mcp.CallToolResult) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", mcp.NewToolResultError("invalid arguments format")
	}

	path, ok := args["path"].(string)
	if !ok {
		return "", mcp.NewToolResultError("path parameter is required and must be a string")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path))
	}

	return path, nil
}
