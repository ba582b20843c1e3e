package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usestring/droitfr-mcp/internal/mcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	RunE:  runVersion,
}

func runVersion(_ *cobra.Command, _ []string) error {
	fmt.Println(mcp.Name, mcp.Version)
	return nil
}
