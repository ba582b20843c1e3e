package tools

import (
	"context"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/droitfr-mcp/pkg/legifrance"
	"github.com/usestring/droitfr-mcp/pkg/piste"
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// Search output formats.
const (
	FormatSummary = "summary"
	FormatClean   = "clean"
)

// SearchLawInput is the input for rechercher_droit_francais.
type SearchLawInput struct {
	Query         string                   `json:"query" jsonschema:"Terme(s) de recherche, obligatoire. Ex: mariage, responsabilité civile"`
	Fond          string                   `json:"fond,omitempty" jsonschema:"Fonds: CODE_ETAT (défaut), CODE_DATE, LODA_ETAT, LODA_DATE, JORF, JURI, CETAT, JUFI, CONSTIT, KALI, CIRC, ACCO, CNIL, ALL"`
	TypeChamp     string                   `json:"type_champ,omitempty" jsonschema:"Champ: ALL (défaut), TITLE, ARTICLE, NUM_ARTICLE, NOR, NUM, TEXTE, RESUMES, MINISTERE, IDCC, MOTS_CLES, ..."`
	TypeRecherche string                   `json:"type_recherche,omitempty" jsonschema:"UN_DES_MOTS (défaut), EXACTE, TOUS_LES_MOTS_DANS_UN_CHAMP, AUCUN_DES_MOTS, AUCUNE_CORRESPONDANCE_A_CETTE_EXPRESSION"`
	CodeName      string                   `json:"code_name,omitempty" jsonschema:"Nom du code (fonds CODE_ETAT et CODE_DATE uniquement). Ex: Code civil"`
	ValueFilters  []legifrance.ValueFilter `json:"filtres_valeurs,omitempty" jsonschema:"Filtres par valeurs. Ex: [{facette: NATURE, valeurs: [LOI, DECRET]}]"`
	DateFilters   []legifrance.DateFilter  `json:"filtres_dates,omitempty" jsonschema:"Filtres par dates. Ex: [{facette: DATE_SIGNATURE, start: 2020-01-01, end: 2023-12-31}]"`
	PageNumber    int                      `json:"page_number,omitempty" jsonschema:"Numéro de page, à partir de 1 (défaut 1)"`
	PageSize      int                      `json:"page_size,omitempty" jsonschema:"Résultats par page, de 1 à 100 (défaut 10)"`
	Sort          string                   `json:"sort,omitempty" jsonschema:"Tri: PERTINENCE, SIGNATURE_DATE_DESC, SIGNATURE_DATE_ASC, DATE_PUBLI_DESC, DATE_PUBLI_ASC, ..."`
	Operateur     string                   `json:"operateur,omitempty" jsonschema:"Opérateur entre les champs: ET (défaut) ou OU"`
	Format        string                   `json:"format,omitempty" jsonschema:"summary (défaut): liste aplatie des résultats; clean: réponse complète nettoyée"`
}

// SearchLawOutput is the output for rechercher_droit_francais.
type SearchLawOutput struct {
	TotalResultNumber int                      `json:"total_result_number"`
	ExecutionTime     int                      `json:"execution_time,omitempty"`
	Results           []legifrance.SummaryItem `json:"results,omitzero"`
	Facets            []legifrance.Facet       `json:"facets,omitzero"`
	Response          any                      `json:"response,omitempty"`
	Hint              string                   `json:"hint,omitempty"`
}

// GetArticleInput is the input for obtenir_article.
type GetArticleInput struct {
	ArticleID  string `json:"article_id" jsonschema:"Identifiant obtenu depuis les résultats de recherche (LEGIARTI..., LEGITEXT..., JURITEXT..., CNILTEXT..., KALITEXT..., KALIARTI..., ACCOTEXT..., sinon Journal officiel)"`
	JQ         string `json:"jq,omitempty" jsonschema:"Expression jq optionnelle appliquée au document avant nettoyage. Ex: .article | {id, num, texte, etat}"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Nombre maximal de valeurs retenues parmi les sorties de jq (0 = toutes, max 1000)"`
	Dedupe     bool   `json:"dedupe,omitempty" jsonschema:"Supprime les valeurs jq en double"`
}

// GetArticleOutput is the output for obtenir_article.
type GetArticleOutput struct {
	ArticleID string   `json:"article_id"`
	Endpoint  string   `json:"endpoint"`
	Document  any      `json:"document,omitempty"`
	Errors    []string `json:"errors,omitzero"`
	Hint      string   `json:"hint,omitempty"`
}

// ConnectionTestInput is the input for tester_connexion_legifrance.
type ConnectionTestInput struct{}

// ConnectionTestOutput is the output for tester_connexion_legifrance.
type ConnectionTestOutput struct {
	Status         string `json:"status"`
	Environment    string `json:"environment"`
	APIURL         string `json:"api_url"`
	TokenObtained  bool   `json:"token_obtained"`
	TokenPreview   string `json:"token_preview,omitempty"`
	TokenExpiresAt string `json:"token_expires_at,omitempty"`
	Ping           string `json:"ping,omitempty"`
	Error          string `json:"error,omitempty"`
	Message        string `json:"message"`
}

// ToolSearchLaw searches Légifrance.
func ToolSearchLaw(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchLawInput) (*sdkmcp.CallToolResult, SearchLawOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SearchLawInput) (*sdkmcp.CallToolResult, SearchLawOutput, error) {
		params, err := input.params(d)
		if err != nil {
			return nil, SearchLawOutput{}, WrapError(err)
		}
		format := input.Format
		if format == "" {
			format = FormatSummary
		}
		if err := validate.Enum("format", format, []string{FormatSummary, FormatClean}); err != nil {
			return nil, SearchLawOutput{}, WrapError(err)
		}

		slog.Info("searching Légifrance",
			slog.String("query", params.Query),
			slog.String("fond", string(params.Fund)),
			slog.Int("page_size", params.PageSize),
		)

		result, err := d.Legifrance.Search(ctx, params)
		if err != nil {
			return nil, SearchLawOutput{}, WrapError(err)
		}

		output := SearchLawOutput{
			TotalResultNumber: result.TotalResultNumber,
			ExecutionTime:     result.ExecutionTime,
		}
		if format == FormatClean {
			output.Response = valueOrNil(result.Cleaned)
		} else {
			output.Results = result.Items
			output.Facets = result.Facets
		}
		if result.TotalResultNumber == 0 {
			output.Hint = "Aucun résultat. Élargissez la recherche: type_recherche=UN_DES_MOTS, type_champ=ALL ou fond=ALL."
		} else {
			output.Hint = "Utilisez obtenir_article(article_id) pour le texte intégral."
		}
		return nil, output, nil
	}
}

// params converts the tool input to search parameters. Enum names are
// parsed case-insensitively.
func (in SearchLawInput) params(d *Deps) (legifrance.Params, error) {
	p := legifrance.Params{
		Query:        in.Query,
		CodeName:     in.CodeName,
		ValueFilters: in.ValueFilters,
		DateFilters:  in.DateFilters,
		PageNumber:   in.PageNumber,
		PageSize:     d.PageSize(in.PageSize),
	}
	var err error
	if in.Fond != "" {
		if p.Fund, err = legifrance.ParseFund(in.Fond); err != nil {
			return p, err
		}
	}
	if in.TypeChamp != "" {
		if p.FieldType, err = legifrance.ParseFieldType(in.TypeChamp); err != nil {
			return p, err
		}
	}
	if in.TypeRecherche != "" {
		if p.SearchMode, err = legifrance.ParseSearchMode(in.TypeRecherche); err != nil {
			return p, err
		}
	}
	if in.Sort != "" {
		if p.Sort, err = legifrance.ParseSort(in.Sort); err != nil {
			return p, err
		}
	}
	if in.Operateur != "" {
		if p.Operator, err = legifrance.ParseOperator(in.Operateur); err != nil {
			return p, err
		}
	}
	return p, nil
}

// ToolGetArticle fetches a Légifrance document by identifier.
func ToolGetArticle(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetArticleInput) (*sdkmcp.CallToolResult, GetArticleOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetArticleInput) (*sdkmcp.CallToolResult, GetArticleOutput, error) {
		if input.JQ != "" {
			if err := d.Query.ValidateExpression(input.JQ); err != nil {
				return nil, GetArticleOutput{}, ErrInvalidInput(err.Error())
			}
		}
		opts, err := selectOptions(input.MaxResults, input.Dedupe)
		if err != nil {
			return nil, GetArticleOutput{}, WrapError(err)
		}

		doc, err := d.Legifrance.Article(ctx, input.ArticleID)
		if err != nil {
			return nil, GetArticleOutput{}, WrapError(err)
		}

		sel, err := SelectAndClean(ctx, d.Query, doc, input.JQ, opts)
		if err != nil {
			return nil, GetArticleOutput{}, WrapError(err)
		}

		id := strings.TrimSpace(input.ArticleID)
		endpoint, _ := legifrance.ConsultEndpoint(id)
		output := GetArticleOutput{
			ArticleID: id,
			Endpoint:  endpoint,
			Document:  sel.Document,
			Errors:    sel.Errors,
		}
		if output.Document == nil {
			output.Hint = "Le document ne contient aucune donnée exploitable."
			if input.JQ != "" {
				output.Hint = "L'expression jq n'a produit aucune valeur."
			}
		}
		return nil, output, nil
	}
}

// ToolTestConnection checks credentials and the Légifrance endpoint.
// Failures are reported in the output rather than as tool errors.
func ToolTestConnection(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ConnectionTestInput) (*sdkmcp.CallToolResult, ConnectionTestOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ConnectionTestInput) (*sdkmcp.CallToolResult, ConnectionTestOutput, error) {
		env := d.Config.Environment()
		output := ConnectionTestOutput{
			Status:      "error",
			Environment: env.Name,
			APIURL:      env.LegifranceURL(),
		}

		tok, err := d.Tokens.Token(ctx)
		if err != nil {
			output.Error = err.Error()
			output.Message = "Échec de l'obtention du token. Vérifiez les identifiants PISTE (fichier .env)."
			return nil, output, nil
		}
		output.TokenObtained = true
		output.TokenPreview = tokenPreview(tok.AccessToken)
		if !tok.Expiry.IsZero() {
			output.TokenExpiresAt = tok.Expiry.Format(time.RFC3339)
		}

		pong, err := d.Legifrance.Ping(ctx)
		if err != nil {
			output.Error = err.Error()
			output.Message = "Token obtenu mais le ping a échoué. " + piste.SubscriptionHint
			return nil, output, nil
		}
		output.Status = "success"
		output.Ping = pong
		output.Message = "Connexion à l'API Légifrance établie."
		return nil, output, nil
	}
}
