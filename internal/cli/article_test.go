package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/droitfr-mcp/internal/query"
	"github.com/usestring/droitfr-mcp/pkg/validate"
)

func setArticleFlags(t *testing.T, args ...string) {
	t.Helper()
	for _, name := range []string{"jq", "max-results", "dedupe", "raw"} {
		f := articleCmd.Flags().Lookup(name)
		require.NotNil(t, f, name)
		require.NoError(t, f.Value.Set(f.DefValue))
	}
	require.NoError(t, articleCmd.Flags().Parse(args))
}

func TestArticleSelectOptions(t *testing.T) {
	setArticleFlags(t)
	opts, err := articleSelectOptions()
	require.NoError(t, err)
	assert.Equal(t, query.Options{}, opts)

	setArticleFlags(t, "--jq", ".article.lienCitations[].cidTexte", "--dedupe", "--max-results", "5")
	opts, err = articleSelectOptions()
	require.NoError(t, err)
	assert.Equal(t, query.Options{Deduplicate: true, MaxResults: 5}, opts)

	setArticleFlags(t, "--max-results", "-1")
	_, err = articleSelectOptions()
	assert.ErrorIs(t, err, validate.ErrValueOutOfRange)
}
