package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"

	"github.com/usestring/droitfr-mcp/internal/config"
	"github.com/usestring/droitfr-mcp/internal/query"
	"github.com/usestring/droitfr-mcp/pkg/judilibre"
	"github.com/usestring/droitfr-mcp/pkg/legifrance"
	"github.com/usestring/droitfr-mcp/pkg/piste"
)

// legifranceAPI records POST bodies and answers with a canned response.
type legifranceAPI struct {
	response string
	err      error
	pong     string
	paths    []string
	bodies   []string
}

func (f *legifranceAPI) PostJSON(_ context.Context, path string, body any) ([]byte, error) {
	f.paths = append(f.paths, path)
	b, _ := json.Marshal(body)
	f.bodies = append(f.bodies, string(b))
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.response), nil
}

func (f *legifranceAPI) GetText(_ context.Context, path string) (string, error) {
	f.paths = append(f.paths, path)
	return f.pong, f.err
}

type judilibreAPI struct {
	response string
	err      error
	paths    []string
	queries  []url.Values
}

func (f *judilibreAPI) GetJSON(_ context.Context, path string, q url.Values) ([]byte, error) {
	f.paths = append(f.paths, path)
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.response), nil
}

type staticTokens struct {
	tok *oauth2.Token
	err error
}

func (s staticTokens) Token(context.Context) (*oauth2.Token, error) { return s.tok, s.err }

func newDeps(lf *legifranceAPI, jl *judilibreAPI) *Deps {
	return &Deps{
		Config: &config.Config{
			OAuthURL:        piste.Production.TokenURL,
			APIURL:          piste.Production.APIURL,
			DefaultPageSize: 20,
		},
		Legifrance: legifrance.NewClient(lf),
		Judilibre:  judilibre.NewClient(jl),
		Tokens:     staticTokens{tok: &oauth2.Token{AccessToken: "abcdefghijKLMNOPQRSTuvwxyz", Expiry: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}},
		Query:      query.NewEngine(),
	}
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, code, coded.Code)
}

const lawSearchResponse = `{
  "totalResultNumber": 1,
  "executionTime": 12,
  "results": [{
    "titles": [{"id": "LEGITEXT000006070721", "title": "Code civil"}],
    "nature": "CODE",
    "text": "Code civil",
    "sections": [{"title": "Du mariage", "extracts": [{"id": "LEGIARTI000006422837", "num": "144", "values": ["Le <mark>mariage</mark>"]}]}]
  }],
  "facets": []
}`

func TestToolSearchLaw_Summary(t *testing.T) {
	lf := &legifranceAPI{response: lawSearchResponse}
	_, out, err := ToolSearchLaw(newDeps(lf, nil))(context.Background(), nil, SearchLawInput{
		Query:    "mariage",
		CodeName: "Code civil",
		Sort:     "pertinence",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"/search"}, lf.paths)
	body := lf.bodies[0]
	assert.Equal(t, "CODE_ETAT", gjson.Get(body, "fond").String())
	assert.Equal(t, int64(20), gjson.Get(body, "recherche.pageSize").Int())
	assert.Equal(t, "PERTINENCE", gjson.Get(body, "recherche.sort").String())
	assert.Equal(t, "TEXT_NOM_CODE", gjson.Get(body, "recherche.filtres.0.facette").String())

	assert.Equal(t, 1, out.TotalResultNumber)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "LEGIARTI000006422837", out.Results[1].ArticleID)
	assert.Equal(t, "Le mariage", out.Results[1].Content)
	assert.Nil(t, out.Response)
	assert.Contains(t, out.Hint, "obtenir_article")
}

func TestToolSearchLaw_CleanFormat(t *testing.T) {
	lf := &legifranceAPI{response: lawSearchResponse}
	_, out, err := ToolSearchLaw(newDeps(lf, nil))(context.Background(), nil, SearchLawInput{Query: "mariage", Format: "clean"})
	require.NoError(t, err)

	assert.Empty(t, out.Results)
	require.NotNil(t, out.Response)
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, "Code civil", gjson.GetBytes(data, "response.results.0.titles.0.title").String())
	assert.False(t, gjson.GetBytes(data, "response.executionTime").Exists())
}

func TestToolSearchLaw_NoResultsHint(t *testing.T) {
	lf := &legifranceAPI{response: `{"totalResultNumber": 0, "results": []}`}
	_, out, err := ToolSearchLaw(newDeps(lf, nil))(context.Background(), nil, SearchLawInput{Query: "xyzzy"})
	require.NoError(t, err)
	assert.Contains(t, out.Hint, "Aucun résultat")
}

func TestToolSearchLaw_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input SearchLawInput
		want  string
	}{
		{"empty query", SearchLawInput{Query: "  "}, "query is required"},
		{"unknown fund", SearchLawInput{Query: "x", Fond: "BOGUS"}, "fond"},
		{"unknown sort", SearchLawInput{Query: "x", Sort: "RANDOM"}, "sort"},
		{"page size", SearchLawInput{Query: "x", PageSize: 500}, "between 1 and 100"},
		{"format", SearchLawInput{Query: "x", Format: "xml"}, "format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf := &legifranceAPI{response: lawSearchResponse}
			_, _, err := ToolSearchLaw(newDeps(lf, nil))(context.Background(), nil, tt.input)
			requireCode(t, err, ErrCodeInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, lf.paths)
		})
	}
}

const articleResponse = `{
  "article": {
    "id": "LEGIARTI000006422837",
    "num": "144",
    "texte": "Le mariage ne peut être contracté avant dix-huit ans révolus.",
    "etat": "VIGUEUR",
    "nota": ""
  },
  "executionTime": 3
}`

func TestToolGetArticle(t *testing.T) {
	lf := &legifranceAPI{response: articleResponse}
	_, out, err := ToolGetArticle(newDeps(lf, nil))(context.Background(), nil, GetArticleInput{ArticleID: " LEGIARTI000006422837 "})
	require.NoError(t, err)

	assert.Equal(t, "LEGIARTI000006422837", out.ArticleID)
	assert.Equal(t, "/consult/getArticle", out.Endpoint)
	assert.JSONEq(t, `{"id":"LEGIARTI000006422837"}`, lf.bodies[0])

	data, err := json.Marshal(out.Document)
	require.NoError(t, err)
	assert.JSONEq(t, `{"article":{"id":"LEGIARTI000006422837","texte":"Le mariage ne peut être contracté avant dix-huit ans révolus."}}`, string(data))
	assert.Empty(t, out.Hint)
}

func TestToolGetArticle_JQ(t *testing.T) {
	lf := &legifranceAPI{response: articleResponse}
	_, out, err := ToolGetArticle(newDeps(lf, nil))(context.Background(), nil, GetArticleInput{
		ArticleID: "LEGIARTI000006422837",
		JQ:        ".article | {num, texte}",
	})
	require.NoError(t, err)

	data, err := json.Marshal(out.Document)
	require.NoError(t, err)
	assert.JSONEq(t, `{"texte":"Le mariage ne peut être contracté avant dix-huit ans révolus."}`, string(data))
}

func TestToolGetArticle_JQNoValues(t *testing.T) {
	lf := &legifranceAPI{response: articleResponse}
	_, out, err := ToolGetArticle(newDeps(lf, nil))(context.Background(), nil, GetArticleInput{
		ArticleID: "LEGIARTI000006422837",
		JQ:        ".missing",
	})
	require.NoError(t, err)
	assert.Nil(t, out.Document)
	assert.Contains(t, out.Hint, "jq")
}

func TestToolGetArticle_InvalidJQ(t *testing.T) {
	lf := &legifranceAPI{response: articleResponse}
	_, _, err := ToolGetArticle(newDeps(lf, nil))(context.Background(), nil, GetArticleInput{ArticleID: "LEGIARTI1", JQ: ".article["})
	requireCode(t, err, ErrCodeInvalidInput)
	assert.Empty(t, lf.paths)
}

func TestToolGetArticle_JQOptions(t *testing.T) {
	lf := &legifranceAPI{response: articleResponse}
	_, out, err := ToolGetArticle(newDeps(lf, nil))(context.Background(), nil, GetArticleInput{
		ArticleID:  "LEGIARTI000006422837",
		JQ:         ".article | .num, .id, .num, .etat",
		Dedupe:     true,
		MaxResults: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"144", "LEGIARTI000006422837"}, out.Document)

	for _, n := range []int{-1, MaxSelectResults + 1} {
		lf := &legifranceAPI{response: articleResponse}
		_, _, err := ToolGetArticle(newDeps(lf, nil))(context.Background(), nil, GetArticleInput{
			ArticleID:  "LEGIARTI000006422837",
			JQ:         ".article.num",
			MaxResults: n,
		})
		requireCode(t, err, ErrCodeInvalidInput)
		assert.Contains(t, err.Error(), "max_results")
		assert.Empty(t, lf.paths)
	}
}

func TestToolGetArticle_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"not found", &piste.APIError{StatusCode: 404, Message: "Not Found"}, ErrCodeNotFound},
		{"forbidden", &piste.APIError{StatusCode: 403, Message: "Forbidden", Hint: piste.SubscriptionHint}, ErrCodeForbidden},
		{"server", &piste.APIError{StatusCode: 500, Message: "boom"}, ErrCodeUpstreamError},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"other", errors.New("connection refused"), ErrCodeUpstreamError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lf := &legifranceAPI{err: tt.err}
			_, _, err := ToolGetArticle(newDeps(lf, nil))(context.Background(), nil, GetArticleInput{ArticleID: "JORFTEXT000000886460"})
			requireCode(t, err, tt.code)
		})
	}
}

func TestToolGetArticle_EmptyID(t *testing.T) {
	lf := &legifranceAPI{response: articleResponse}
	_, _, err := ToolGetArticle(newDeps(lf, nil))(context.Background(), nil, GetArticleInput{ArticleID: ""})
	requireCode(t, err, ErrCodeInvalidInput)
}

func TestToolSearchCaseLaw(t *testing.T) {
	jl := &judilibreAPI{response: `{"total": 1, "page": 0, "page_size": 10, "results": [{"id": "abc", "solution": "rejet", "jurisdiction": "Cour de cassation"}]}`}
	_, out, err := ToolSearchCaseLaw(newDeps(nil, jl))(context.Background(), nil, SearchCaseLawInput{
		Query:        "licenciement abusif",
		Jurisdiction: "cc",
		Chamber:      "soc",
		PageSize:     10,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"/search"}, jl.paths)
	q := jl.queries[0]
	assert.Equal(t, []string{"cc"}, q["jurisdiction"])
	assert.Equal(t, []string{"soc"}, q["chamber"])
	assert.Equal(t, "true", q.Get("resolve_references"))
	assert.Equal(t, "scorepub", q.Get("sort"))
	assert.False(t, q.Has("location"))

	assert.Equal(t, 1, out.Total)
	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, "abc", gjson.GetBytes(data, "results.0.id").String())
	assert.Contains(t, out.Hint, "obtenir_decision_judilibre")
}

func TestToolSearchCaseLaw_PageSizeCeiling(t *testing.T) {
	jl := &judilibreAPI{response: `{}`}
	_, _, err := ToolSearchCaseLaw(newDeps(nil, jl))(context.Background(), nil, SearchCaseLawInput{Query: "bail", PageSize: 51})
	requireCode(t, err, ErrCodeInvalidInput)
	assert.Empty(t, jl.paths)
}

func TestToolGetDecision(t *testing.T) {
	jl := &judilibreAPI{response: `{
	  "id": "60794cff9ba5988459c47bf2",
	  "solution": "cassation",
	  "text": "Motifs. Casse.",
	  "zones": {"motivations": [{"start": 0, "end": 7}], "dispositif": [{"start": 8, "end": 14}]}
	}`}
	_, out, err := ToolGetDecision(newDeps(nil, jl))(context.Background(), nil, GetDecisionInput{DecisionID: "60794cff9ba5988459c47bf2"})
	require.NoError(t, err)

	assert.Equal(t, "true", jl.queries[0].Get("resolve_references"))
	assert.Equal(t, "CASSATION", out.Solution)
	require.Len(t, out.Zones, 2)
	assert.Equal(t, "Motifs.", out.Zones[0].Text)
	assert.Equal(t, "Casse.", out.Zones[1].Text)
	assert.NotNil(t, out.Document)
}

func TestToolGetDecision_JQ(t *testing.T) {
	jl := &judilibreAPI{response: `{"id": "x", "solution": "rejet", "themes": ["bail", "loyer"]}`}
	_, out, err := ToolGetDecision(newDeps(nil, jl))(context.Background(), nil, GetDecisionInput{DecisionID: "x", JQ: ".themes[]"})
	require.NoError(t, err)
	assert.Equal(t, []any{"bail", "loyer"}, out.Document)
}

func TestToolGetDecision_JQOptions(t *testing.T) {
	response := `{"id": "x", "themes": ["bail", "loyer", "bail", "charges"]}`
	tests := []struct {
		name  string
		input GetDecisionInput
		want  any
	}{
		{
			name:  "all values",
			input: GetDecisionInput{DecisionID: "x", JQ: ".themes[]"},
			want:  []any{"bail", "loyer", "bail", "charges"},
		},
		{
			name:  "deduplicated",
			input: GetDecisionInput{DecisionID: "x", JQ: ".themes[]", Dedupe: true},
			want:  []any{"bail", "loyer", "charges"},
		},
		{
			name:  "limited",
			input: GetDecisionInput{DecisionID: "x", JQ: ".themes[]", MaxResults: 2},
			want:  []any{"bail", "loyer"},
		},
		{
			name:  "single value",
			input: GetDecisionInput{DecisionID: "x", JQ: ".themes[]", MaxResults: 1},
			want:  "bail",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jl := &judilibreAPI{response: response}
			_, out, err := ToolGetDecision(newDeps(nil, jl))(context.Background(), nil, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Document)
		})
	}

	jl := &judilibreAPI{response: response}
	_, _, err := ToolGetDecision(newDeps(nil, jl))(context.Background(), nil, GetDecisionInput{DecisionID: "x", JQ: ".themes[]", MaxResults: -3})
	requireCode(t, err, ErrCodeInvalidInput)
	assert.Empty(t, jl.paths)
}

func TestToolTaxonomy(t *testing.T) {
	jl := &judilibreAPI{}
	_, out, err := ToolTaxonomy(newDeps(nil, jl))(context.Background(), nil, TaxonomyInput{})
	require.NoError(t, err)
	assert.Empty(t, jl.paths)
	assert.NotNil(t, out.Result)

	_, _, err = ToolTaxonomy(newDeps(nil, jl))(context.Background(), nil, TaxonomyInput{TaxonomyID: "jurisdiction", Key: "cc", Value: "Cour de cassation"})
	requireCode(t, err, ErrCodeInvalidInput)
	assert.Empty(t, jl.paths)
}

func TestToolTestConnection(t *testing.T) {
	lf := &legifranceAPI{pong: "pong"}
	_, out, err := ToolTestConnection(newDeps(lf, nil))(context.Background(), nil, ConnectionTestInput{})
	require.NoError(t, err)

	assert.Equal(t, "success", out.Status)
	assert.Equal(t, "production", out.Environment)
	assert.Equal(t, "https://api.piste.gouv.fr/dila/legifrance/lf-engine-app", out.APIURL)
	assert.True(t, out.TokenObtained)
	assert.Equal(t, "abcdefghij...QRSTuvwxyz", out.TokenPreview)
	assert.Equal(t, "2026-10-18T12:00:00Z", out.TokenExpiresAt)
	assert.Equal(t, "pong", out.Ping)
	assert.Equal(t, []string{"/search/ping"}, lf.paths)
}

func TestToolTestConnection_Failures(t *testing.T) {
	d := newDeps(&legifranceAPI{}, nil)
	d.Tokens = staticTokens{err: errors.New("invalid_client")}
	_, out, err := ToolTestConnection(d)(context.Background(), nil, ConnectionTestInput{})
	require.NoError(t, err)
	assert.Equal(t, "error", out.Status)
	assert.False(t, out.TokenObtained)
	assert.Equal(t, "invalid_client", out.Error)

	d = newDeps(&legifranceAPI{err: &piste.APIError{StatusCode: 403, Message: "Forbidden"}}, nil)
	_, out, err = ToolTestConnection(d)(context.Background(), nil, ConnectionTestInput{})
	require.NoError(t, err)
	assert.Equal(t, "error", out.Status)
	assert.True(t, out.TokenObtained)
	assert.Contains(t, out.Message, "piste.gouv.fr")
}

func TestTokenPreview(t *testing.T) {
	assert.Equal(t, "***", tokenPreview("short"))
	assert.Equal(t, "0123456789...abcdefghij", tokenPreview("0123456789XXabcdefghij"))
}

func TestWrapError_PassesCodedErrorsThrough(t *testing.T) {
	orig := ErrInvalidInput("bad")
	assert.Same(t, orig, WrapError(orig))
	assert.NoError(t, WrapError(nil))
}
