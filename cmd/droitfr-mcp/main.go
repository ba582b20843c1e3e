package main

import (
	"os"

	"github.com/usestring/droitfr-mcp/internal/cli"
)

// Without a subcommand the binary serves MCP over stdio. Configuration is
// loaded from environment variables and .env files:
// - PISTE_CLIENT_ID, PISTE_CLIENT_SECRET: PISTE application credentials
// - PISTE_SANDBOX: use the sandbox gateway (default false)
// - LOG_LEVEL, LOG_FILE, LOG_FORMAT: logging (stderr by default)
// - etc. (see internal/config for all options)
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
