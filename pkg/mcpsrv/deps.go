package mcpsrv

import (
	"github.com/usestring/droitfr-mcp/internal/config"
	"github.com/usestring/droitfr-mcp/internal/query"
	"github.com/usestring/droitfr-mcp/pkg/judilibre"
	"github.com/usestring/droitfr-mcp/pkg/legifrance"
	"github.com/usestring/droitfr-mcp/pkg/piste"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config     *config.Config
	Legifrance *legifrance.Client
	Judilibre  *judilibre.Client
	Tokens     piste.TokenSource
	Query      *query.Engine
}
