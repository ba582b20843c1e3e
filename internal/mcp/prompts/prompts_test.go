package prompts

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func promptText(t *testing.T, res *sdkmcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, res.Messages, 1)
	text, ok := res.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func researchRequest(args map[string]string) *sdkmcp.GetPromptRequest {
	return &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{Name: "recherche_juridique", Arguments: args}}
}

func TestHandleLegalResearch_Both(t *testing.T) {
	cfg := &Config{DefaultPageSize: 10}
	res, err := HandleLegalResearch(cfg)(context.Background(), researchRequest(map[string]string{
		"question": "âge minimum pour se marier",
	}))
	require.NoError(t, err)

	text := promptText(t, res)
	assert.Contains(t, text, "âge minimum pour se marier")
	assert.Contains(t, text, "1. **Rechercher les textes**")
	assert.Contains(t, text, "3. **Rechercher la jurisprudence**")
	assert.Contains(t, text, "5. **Répondre**")
	assert.Contains(t, text, "`page_size` vaut 10")
	assert.NotContains(t, text, "sandbox")
}

func TestHandleLegalResearch_SingleSource(t *testing.T) {
	cfg := &Config{DefaultPageSize: 10, Sandbox: true}
	res, err := HandleLegalResearch(cfg)(context.Background(), researchRequest(map[string]string{"source": "JudiLibre"}))
	require.NoError(t, err)

	text := promptText(t, res)
	assert.NotContains(t, text, "rechercher_droit_francais")
	assert.Contains(t, text, "1. **Rechercher la jurisprudence**")
	assert.Contains(t, text, "3. **Répondre**")
	assert.Contains(t, text, "sandbox")
}

func TestHandleLegalResearch_InvalidSource(t *testing.T) {
	_, err := HandleLegalResearch(&Config{})(context.Background(), researchRequest(map[string]string{"source": "dalloz"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "legifrance, judilibre, both")
}

func TestHandleToolGuide(t *testing.T) {
	res, err := HandleToolGuide(&Config{DefaultPageSize: 10})(context.Background(), &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{Name: "guide_outils"}})
	require.NoError(t, err)

	text := promptText(t, res)
	assert.Contains(t, text, "| `CODE_ETAT` | Codes consolidés, par état juridique |")
	assert.Contains(t, text, "| `soc` | Chambre sociale |")
	assert.Contains(t, text, "| `chamber` |")
	assert.Contains(t, text, "de 1 à 100 (défaut 10)")
	assert.Contains(t, text, "de 1 à 50")
}
