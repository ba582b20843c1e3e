package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/usestring/droitfr-mcp/pkg/mcpsrv"
	"github.com/usestring/droitfr-mcp/pkg/piste"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Obtain a PISTE token and ping Légifrance",
	RunE:  runPing,
}

type pingReport struct {
	Environment    string `json:"environment"`
	APIURL         string `json:"api_url"`
	TokenExpiresAt string `json:"token_expires_at,omitempty"`
	Ping           string `json:"ping,omitempty"`
}

func runPing(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	deps, err := mcpsrv.BuildDeps(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.HTTPClientTimeout)
	defer cancel()

	env := cfg.Environment()
	report := pingReport{Environment: env.Name, APIURL: env.LegifranceURL()}

	tok, err := deps.Tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("obtaining token: %w", err)
	}
	if !tok.Expiry.IsZero() {
		report.TokenExpiresAt = tok.Expiry.Format(time.RFC3339)
	}

	report.Ping, err = deps.Legifrance.Ping(ctx)
	if err != nil {
		return fmt.Errorf("ping failed: %w (%s)", err, piste.SubscriptionHint)
	}

	if globalFlags.JSON {
		return json.NewEncoder(os.Stdout).Encode(report)
	}
	fmt.Println("Environment:", report.Environment)
	fmt.Println("API:", report.APIURL)
	fmt.Println("Token expires:", report.TokenExpiresAt)
	fmt.Println("Ping:", report.Ping)
	return nil
}
