// Package cli implements the droitfr-mcp command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/usestring/droitfr-mcp/internal/config"
)

// GlobalFlags holds flags shared across all commands.
type GlobalFlags struct {
	EnvFiles []string
	Sandbox  bool
	JSON     bool
}

var globalFlags GlobalFlags

var rootCmd = &cobra.Command{
	Use:   "droitfr-mcp",
	Short: "MCP server for Légifrance and JudiLibre",
	Long: "droitfr-mcp exposes the Légifrance and JudiLibre APIs of the PISTE gateway as MCP tools.\n" +
		"Credentials come from PISTE_CLIENT_ID and PISTE_CLIENT_SECRET (PISTE_SANDBOX_* in sandbox).",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return config.LoadDotEnv(globalFlags.EnvFiles...)
	},
	// Without a subcommand, serve over stdio as MCP clients expect.
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&globalFlags.EnvFiles, "env-file", []string{".env", ".env.local"}, "dotenv files to load; variables already set win")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Sandbox, "sandbox", false, "use the PISTE sandbox (same as PISTE_SANDBOX=true)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.JSON, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(articleCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the environment, applying --sandbox.
func loadConfig() *config.Config {
	if globalFlags.Sandbox {
		return config.LoadFor(true)
	}
	return config.Load()
}
