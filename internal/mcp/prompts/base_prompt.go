package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/droitfr-mcp/internal/mcp/tools"
	"github.com/usestring/droitfr-mcp/pkg/judilibre"
	"github.com/usestring/droitfr-mcp/pkg/legifrance"
)

// HandleToolGuide serves the parameter reference. Tables are generated from
// the enum lists the tools validate against.
func HandleToolGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# Guide des outils\n\n")

		// --- Légifrance ---
		sb.WriteString("## rechercher_droit_francais\n\n")
		writeLabels(&sb, "fond", legifrance.Funds)
		writeLabels(&sb, "type_champ", legifrance.FieldTypes)
		writeLabels(&sb, "type_recherche", legifrance.SearchModes)
		writeLabels(&sb, "sort", legifrance.Sorts)

		sb.WriteString("**Règles**:\n")
		sb.WriteString("- Les valeurs sont acceptées sans tenir compte de la casse\n")
		fmt.Fprintf(&sb, "- `page_size` de 1 à %d (défaut %d); au-delà la requête est refusée\n", legifrance.MaxPageSize, cfg.DefaultPageSize)
		sb.WriteString("- `code_name` n'est pris en compte qu'avec `CODE_ETAT` et `CODE_DATE`\n")
		sb.WriteString("- `filtres_dates`: `start` + `end` pour une période, `date` seule pour un jour précis\n")
		sb.WriteString("- `format: \"clean\"` renvoie la réponse complète nettoyée au lieu du résumé\n\n")

		// --- JudiLibre ---
		sb.WriteString("## rechercher_jurisprudence_judilibre\n\n")
		sb.WriteString("**chambre** (Cour de cassation):\n\n")
		sb.WriteString("| Clé | Chambre |\n")
		sb.WriteString("|-----|---------|\n")
		for _, c := range judilibre.ChamberKeys {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", c.Key, c.Label)
		}
		fmt.Fprintf(&sb, "\n- `tri`: %s; `ordre`: %s\n", strings.Join(judilibre.Sorts, ", "), strings.Join(judilibre.Orders, ", "))
		fmt.Fprintf(&sb, "- `nombre_resultats` de 1 à %d; `page` commence à 0\n\n", judilibre.MaxPageSize)

		sb.WriteString("## obtenir_taxonomie_judilibre\n\n")
		sb.WriteString("| taxonomy_id | Contenu |\n")
		sb.WriteString("|-------------|---------|\n")
		for _, t := range judilibre.TaxonomyDescriptions {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", t.Key, t.Description)
		}
		sb.WriteString("\n`key` et `value` sont exclusifs et exigent `taxonomy_id`.\n\n")

		// --- jq ---
		sb.WriteString("## Sélection jq\n")
		sb.WriteString("`obtenir_article` et `obtenir_decision_judilibre` acceptent `jq`, appliqué avant le nettoyage:\n")
		sb.WriteString("- `.article | {num, texte, etat}` - champs principaux d'un article\n")
		sb.WriteString("- `.article.lienCitations[] | .cidTexte` - textes cités\n")
		sb.WriteString("- `{summary, themes, visa}` - résumé d'une décision\n")
		fmt.Fprintf(&sb, "\n`dedupe` supprime les valeurs en double, `max_results` (0 à %d) limite le nombre de valeurs.\n", tools.MaxSelectResults)

		return &sdkmcp.GetPromptResult{
			Description: "Parameter reference for the Légifrance and JudiLibre tools",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

func writeLabels[T ~string](sb *strings.Builder, param string, labels []legifrance.Label[T]) {
	fmt.Fprintf(sb, "**%s**:\n\n", param)
	sb.WriteString("| Valeur | Description |\n")
	sb.WriteString("|--------|-------------|\n")
	for _, l := range labels {
		fmt.Fprintf(sb, "| `%s` | %s |\n", l.Value, l.Description)
	}
	sb.WriteString("\n")
}
