package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Legal research workflow
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "recherche_juridique",
		Description: "RECOMMENDED: Workflow for answering a French law question: search Légifrance or JudiLibre, then fetch the full text of the relevant results and cite them.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "question",
				Description: "La question juridique à traiter (ex: 'âge minimum pour se marier', 'licenciement pendant un arrêt maladie')",
				Required:    false,
			},
			{
				Name:        "source",
				Description: "Source à privilégier: legifrance (textes), judilibre (jurisprudence) ou both (défaut)",
				Required:    false,
			},
		},
	}, HandleLegalResearch(cfg))

	// Prompt 2: Tool usage guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "guide_outils",
		Description: "Reference for the tool parameters: funds, field types, search modes, JudiLibre filters and taxonomies.",
	}, HandleToolGuide(cfg))
}
