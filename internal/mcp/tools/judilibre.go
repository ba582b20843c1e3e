package tools

import (
	"context"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/droitfr-mcp/pkg/judilibre"
)

// SearchCaseLawInput is the input for rechercher_jurisprudence_judilibre.
type SearchCaseLawInput struct {
	Query        string `json:"query,omitempty" jsonschema:"Texte recherché"`
	Jurisdiction string `json:"juridiction,omitempty" jsonschema:"Code de juridiction: cc (Cour de cassation), ca (cours d'appel), tj (tribunaux judiciaires), tcom (tribunaux de commerce)"`
	Location     string `json:"localisation,omitempty" jsonschema:"Code du siège (ex: ca_lyon, tj06088). Liste via obtenir_taxonomie_judilibre(taxonomy_id=location)"`
	Chamber      string `json:"chambre,omitempty" jsonschema:"Clé de chambre: pl, mi, civ1, civ2, civ3, comm, soc, cr, creun, ordo, allciv, other"`
	Type         string `json:"type_decision,omitempty" jsonschema:"Type de décision: arret, ordonnance, qpc, saisie"`
	Theme        string `json:"theme,omitempty" jsonschema:"Matière (nomenclature de la Cour de cassation, via la taxonomie theme)"`
	Solution     string `json:"solution,omitempty" jsonschema:"Solution: cassation, cassation_partielle, rejet, annulation, irrecevabilite, desistement, non-lieu, qpc"`
	Publication  string `json:"publication,omitempty" jsonschema:"Niveau de publication: b (Bulletin), r (Rapport), l (Lettre), c (Communiqué)"`
	DateStart    string `json:"date_debut,omitempty" jsonschema:"Date de début ISO (ex: 2023-01-15)"`
	DateEnd      string `json:"date_fin,omitempty" jsonschema:"Date de fin ISO"`
	Sort         string `json:"tri,omitempty" jsonschema:"Tri: scorepub (défaut), score, date"`
	Order        string `json:"ordre,omitempty" jsonschema:"Ordre: desc (défaut) ou asc"`
	PageSize     int    `json:"nombre_resultats,omitempty" jsonschema:"Résultats par page, de 1 à 50 (défaut 10)"`
	Page         int    `json:"page,omitempty" jsonschema:"Numéro de page, à partir de 0"`
}

// SearchCaseLawOutput is the output for rechercher_jurisprudence_judilibre.
type SearchCaseLawOutput struct {
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Results  any    `json:"results,omitempty"`
	Hint     string `json:"hint,omitempty"`
}

// GetDecisionInput is the input for obtenir_decision_judilibre.
type GetDecisionInput struct {
	DecisionID string `json:"decision_id" jsonschema:"Identifiant de la décision (champ id des résultats de recherche)"`
	Query      string `json:"query,omitempty" jsonschema:"Termes à surligner dans le texte"`
	JQ         string `json:"jq,omitempty" jsonschema:"Expression jq optionnelle appliquée au document avant nettoyage. Ex: {id, solution, summary, themes}"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Nombre maximal de valeurs retenues parmi les sorties de jq (0 = toutes, max 1000)"`
	Dedupe     bool   `json:"dedupe,omitempty" jsonschema:"Supprime les valeurs jq en double"`
}

// GetDecisionOutput is the output for obtenir_decision_judilibre.
type GetDecisionOutput struct {
	DecisionID string               `json:"decision_id"`
	Solution   string               `json:"solution,omitempty"`
	Zones      []judilibre.ZoneText `json:"zones,omitzero"`
	Document   any                  `json:"document,omitempty"`
	Errors     []string             `json:"errors,omitzero"`
}

// TaxonomyInput is the input for obtenir_taxonomie_judilibre.
type TaxonomyInput struct {
	TaxonomyID   string `json:"taxonomy_id,omitempty" jsonschema:"Taxonomie: type, jurisdiction, chamber, formation, publication, theme, solution, field, zones, location, filetype. Vide: liste des taxonomies"`
	Key          string `json:"key,omitempty" jsonschema:"Clé dont on veut l'intitulé (ex: cc)"`
	Value        string `json:"value,omitempty" jsonschema:"Intitulé dont on veut la clé (ex: cour de cassation)"`
	ContextValue string `json:"context_value,omitempty" jsonschema:"Contexte des taxonomies chamber et location (cc, ca, tj, tcom)"`
}

// TaxonomyOutput is the output for obtenir_taxonomie_judilibre.
type TaxonomyOutput struct {
	TaxonomyID string `json:"taxonomy_id,omitempty"`
	Result     any    `json:"result,omitempty"`
}

// ToolSearchCaseLaw searches JudiLibre. Single filter values are sent as
// one-element lists and references are always resolved to labels.
func ToolSearchCaseLaw(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchCaseLawInput) (*sdkmcp.CallToolResult, SearchCaseLawOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchCaseLawInput) (*sdkmcp.CallToolResult, SearchCaseLawOutput, error) {
		params := judilibre.SearchParams{
			Query:             input.Query,
			Jurisdictions:     single(input.Jurisdiction),
			Locations:         single(input.Location),
			Chambers:          single(input.Chamber),
			Types:             single(input.Type),
			Themes:            single(input.Theme),
			Solutions:         single(input.Solution),
			Publications:      single(input.Publication),
			DateStart:         input.DateStart,
			DateEnd:           input.DateEnd,
			Sort:              input.Sort,
			Order:             input.Order,
			PageSize:          d.PageSize(input.PageSize),
			Page:              input.Page,
			ResolveReferences: true,
		}

		slog.Info("searching JudiLibre",
			slog.String("query", input.Query),
			slog.String("jurisdiction", input.Jurisdiction),
			slog.String("location", input.Location),
		)

		page, err := d.Judilibre.Search(ctx, params)
		if err != nil {
			return nil, SearchCaseLawOutput{}, WrapError(err)
		}

		output := SearchCaseLawOutput{
			Total:    page.Total,
			Page:     page.Page,
			PageSize: page.PageSize,
			Results:  valueOrNil(page.Results),
		}
		if page.Total > 0 {
			output.Hint = "Les résultats sont des aperçus: utilisez obtenir_decision_judilibre(decision_id) pour le texte intégral."
		}
		return nil, output, nil
	}
}

// ToolGetDecision fetches a JudiLibre decision with its zone texts.
func ToolGetDecision(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetDecisionInput) (*sdkmcp.CallToolResult, GetDecisionOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetDecisionInput) (*sdkmcp.CallToolResult, GetDecisionOutput, error) {
		if input.JQ != "" {
			if err := d.Query.ValidateExpression(input.JQ); err != nil {
				return nil, GetDecisionOutput{}, ErrInvalidInput(err.Error())
			}
		}
		opts, err := selectOptions(input.MaxResults, input.Dedupe)
		if err != nil {
			return nil, GetDecisionOutput{}, WrapError(err)
		}

		decision, err := d.Judilibre.Decision(ctx, judilibre.DecisionParams{
			ID:                strings.TrimSpace(input.DecisionID),
			ResolveReferences: true,
			Query:             input.Query,
		})
		if err != nil {
			return nil, GetDecisionOutput{}, WrapError(err)
		}

		sel, err := SelectAndClean(ctx, d.Query, decision.Document, input.JQ, opts)
		if err != nil {
			return nil, GetDecisionOutput{}, WrapError(err)
		}

		return nil, GetDecisionOutput{
			DecisionID: decision.ID,
			Solution:   decision.SolutionLabel,
			Zones:      decision.Zones,
			Document:   sel.Document,
			Errors:     sel.Errors,
		}, nil
	}
}

// ToolTaxonomy looks up JudiLibre taxonomies.
func ToolTaxonomy(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input TaxonomyInput) (*sdkmcp.CallToolResult, TaxonomyOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input TaxonomyInput) (*sdkmcp.CallToolResult, TaxonomyOutput, error) {
		result, err := d.Judilibre.Taxonomy(ctx, judilibre.TaxonomyParams{
			ID:           input.TaxonomyID,
			Key:          input.Key,
			Value:        input.Value,
			ContextValue: input.ContextValue,
		})
		if err != nil {
			return nil, TaxonomyOutput{}, WrapError(err)
		}
		return nil, TaxonomyOutput{
			TaxonomyID: input.TaxonomyID,
			Result:     valueOrNil(result),
		}, nil
	}
}

func single(v string) []string {
	if v = strings.TrimSpace(v); v == "" {
		return nil
	}
	return []string{v}
}
