// Package mcpsrv provides an extensible MCP server for the French legal
// APIs published on the PISTE gateway (Légifrance and JudiLibre).
//
// This package exposes a high-level API for creating and running an MCP server
// with all builtin tools, prompts, and resources. Users can extend the
// server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server configured from the environment (PISTE_CLIENT_ID,
// PISTE_CLIENT_SECRET, PISTE_SANDBOX, ...):
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    ArticleID string `json:"article_id"`
//	}
//
//	type MyOutput struct {
//	    Title string `json:"title"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "titre_article", Description: "Article title"},
//	        func(d *mcpsrv.Deps) func(ctx context.Context, req *mcp.CallToolRequest, in MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	            return func(ctx context.Context, req *mcp.CallToolRequest, in MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	                doc, err := d.Legifrance.Article(ctx, in.ArticleID)
//	                ...
//	            }
//	        }),
//	)
//
// # Configuration
//
// Configure logging and other options:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/droitfr-mcp.log"),
//	)
package mcpsrv
