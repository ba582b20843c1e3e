package tools

import (
	"github.com/usestring/droitfr-mcp/internal/config"
	"github.com/usestring/droitfr-mcp/internal/query"
	"github.com/usestring/droitfr-mcp/pkg/judilibre"
	"github.com/usestring/droitfr-mcp/pkg/legifrance"
	"github.com/usestring/droitfr-mcp/pkg/piste"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config     *config.Config
	Legifrance *legifrance.Client
	Judilibre  *judilibre.Client
	Tokens     piste.TokenSource
	Query      *query.Engine
}

// PageSize returns n, or the configured default page size when n is zero.
func (d *Deps) PageSize(n int) int {
	if n != 0 || d.Config == nil {
		return n
	}
	return d.Config.DefaultPageSize
}
