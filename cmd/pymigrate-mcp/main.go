package main

import (
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pymigrate/pymigrate/internal/version"
	"github.com/pymigrate/pymigrate/mcp"
)

const serverName = "pymigrate"

func main() {
	// MCP uses stdout for JSON-RPC, so logging goes to stderr
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	mcp.RegisterTools(server)

	log.Printf("Starting %s MCP server %s\n", serverName, version.Short())
	log.Println("Registered tools:")
	log.Println("  - scan_project: Full project analysis")
	log.Println("  - plan_migration: Migration plan computation")
	log.Println("  - class_diagram: Mermaid class diagram")

	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
