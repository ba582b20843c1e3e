package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/droitfr-mcp/internal/mcp/tools"
)

// AddTool registers a tool with the server, validating its input and output
// types first. Output types whose zero value fails the SDK's JSON schema
// check (nil slices serialized as null) and fields carrying raw JSON are
// rejected, as are input types the SDK cannot infer a schema for.
//
// AddTool panics with an actionable message when a check fails.
//
// Use this instead of [sdkmcp.AddTool] to get the additional checks.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
