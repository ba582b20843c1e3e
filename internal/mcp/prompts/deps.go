// Package prompts contains the MCP prompts guiding French legal research.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	DefaultPageSize int
	Sandbox         bool
}
