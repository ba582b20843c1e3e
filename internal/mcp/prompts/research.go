package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Research sources accepted by the source argument.
const (
	SourceLegifrance = "legifrance"
	SourceJudilibre  = "judilibre"
	SourceBoth       = "both"
)

// HandleLegalResearch implements the search-then-fetch research workflow.
func HandleLegalResearch(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		question := ""
		source := SourceBoth
		if args := req.Params.Arguments; args != nil {
			question = strings.TrimSpace(args["question"])
			if v := strings.ToLower(strings.TrimSpace(args["source"])); v != "" {
				source = v
			}
		}
		switch source {
		case SourceLegifrance, SourceJudilibre, SourceBoth:
		default:
			return nil, fmt.Errorf("invalid value %q for source: must be one of %s, %s, %s",
				source, SourceLegifrance, SourceJudilibre, SourceBoth)
		}

		var sb strings.Builder

		sb.WriteString("# Recherche juridique en droit français\n\n")
		sb.WriteString("Vous êtes un juriste qui répond à partir des sources officielles uniquement. ")
		sb.WriteString("Chaque affirmation doit s'appuyer sur un texte ou une décision récupéré avec les outils ci-dessous.\n\n")

		if question != "" {
			sb.WriteString("## Question\n\n")
			sb.WriteString(question)
			sb.WriteString("\n\n")
		}

		if cfg.Sandbox {
			sb.WriteString("> Environnement PISTE sandbox: les données peuvent être incomplètes.\n\n")
		}

		sb.WriteString("## Étapes\n\n")
		step := 1
		if source != SourceJudilibre {
			fmt.Fprintf(&sb, "%d. **Rechercher les textes**: `rechercher_droit_francais(query: \"...\", fond: \"CODE_ETAT\", code_name: \"Code civil\")`\n", step)
			sb.WriteString("   - Commencez par `type_recherche: \"UN_DES_MOTS\"` et `type_champ: \"ALL\"`, puis resserrez (`ARTICLE`, `EXACTE`)\n")
			sb.WriteString("   - `fond: \"LODA_ETAT\"` pour les lois et décrets, `JURI` ou `CETAT` pour la jurisprudence Légifrance, `KALI` pour les conventions collectives\n")
			fmt.Fprintf(&sb, "   - `page_size` vaut %d par défaut (maximum 100)\n", cfg.DefaultPageSize)
			step++
			fmt.Fprintf(&sb, "%d. **Lire le texte intégral**: `obtenir_article(article_id: \"LEGIARTI...\")` pour chaque résultat pertinent\n", step)
			sb.WriteString("   - Vérifiez `etat` (VIGUEUR, ABROGE...) et les dates `dateDebut` / `dateFin`\n")
			sb.WriteString("   - `jq` réduit le document, ex: `.article | {num, texte, etat, dateDebut}`\n")
			step++
		}
		if source != SourceLegifrance {
			fmt.Fprintf(&sb, "%d. **Rechercher la jurisprudence**: `rechercher_jurisprudence_judilibre(query: \"...\", juridiction: \"cc\")`\n", step)
			sb.WriteString("   - Chambres par clé: civ1, civ2, civ3, comm, soc, cr, pl, mi\n")
			sb.WriteString("   - `obtenir_taxonomie_judilibre(taxonomy_id: \"theme\")` liste les matières, `location` les sièges\n")
			step++
			fmt.Fprintf(&sb, "%d. **Lire la décision**: `obtenir_decision_judilibre(decision_id: \"...\")`\n", step)
			sb.WriteString("   - `zones` donne le texte des motivations et du dispositif sans relire toute la décision\n")
			step++
		}
		fmt.Fprintf(&sb, "%d. **Répondre** en citant chaque source (numéro d'article, code, juridiction, date, solution)\n\n", step)

		sb.WriteString("## Règles\n\n")
		sb.WriteString("- Les résultats de recherche sont des extraits: ne concluez jamais sans le texte intégral\n")
		sb.WriteString("- Un code INVALID_INPUT indique un paramètre mal formé: le message liste les valeurs acceptées\n")
		sb.WriteString("- Un code FORBIDDEN signale un abonnement PISTE manquant: lancez `tester_connexion_legifrance`\n")

		return &sdkmcp.GetPromptResult{
			Description: "Recherche juridique: recherche puis lecture du texte intégral",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
