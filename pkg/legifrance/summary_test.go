package legifrance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const searchResponse = `{
  "executionTime": 42,
  "totalResultNumber": 2,
  "typePagination": "DEFAUT",
  "results": [
    {
      "titles": [{"id": "LEGITEXT000006070721", "title": "Code civil"}],
      "nature": "CODE",
      "text": "Texte principal",
      "sections": [
        {
          "title": "Du mariage",
          "extracts": [
            {
              "id": "LEGIARTI000006422837",
              "num": "144",
              "title": "Conditions",
              "values": ["Le <mark>mariage</mark> ne peut être contracté", "avant dix-huit ans [...]"],
              "dateVersion": "2013-05-18",
              "dateDebut": "2013-05-18",
              "dateFin": null
            },
            {"num": "145", "values": ["sans id, ignoré"]}
          ]
        }
      ]
    },
    {
      "titles": [],
      "sections": [
        {"title": "Sans extraits"},
        {"extracts": [{"id": "LEGIARTI2", "values": []}]}
      ]
    }
  ],
  "facets": [
    {"facetElem": "TEXT_LEGAL_STATUS", "field": "legalStatus", "values": {"VIGUEUR": 10, "ABROGE": 2}, "totalElement": 12},
    {"facetElem": "CUSTOM", "field": "custom", "totalElement": 0},
    {"field": "anonymous"}
  ]
}`

func TestSummarize(t *testing.T) {
	items := Summarize([]byte(searchResponse))
	require.Len(t, items, 3)

	assert.Equal(t, SummaryItem{
		ArticleID: "LEGITEXT000006070721",
		Title:     "Code civil",
		Nature:    "CODE",
		Text:      "Texte principal",
	}, items[0])

	assert.Equal(t, SummaryItem{
		ArticleID:    "LEGIARTI000006422837",
		Title:        "Article 144 - Conditions",
		SectionTitle: "Du mariage",
		Content:      "Le mariage ne peut être contracté avant dix-huit ans ...",
		DateVersion:  "2013-05-18",
		DateDebut:    "2013-05-18",
	}, items[1])

	assert.Equal(t, "LEGIARTI2", items[2].ArticleID)
	assert.Equal(t, "Article N/A", items[2].Title)
	assert.Equal(t, NoContent, items[2].Content)
}

func TestSummarize_NoResults(t *testing.T) {
	assert.Empty(t, Summarize([]byte(`{"results": []}`)))
	assert.Empty(t, Summarize([]byte(`{}`)))
}

func TestCleanContent(t *testing.T) {
	tests := []struct {
		name   string
		values string
		want   string
	}{
		{"joins and trims", `[" a", "b "]`, "a b"},
		{"strips marks", `["<mark>x</mark>y"]`, "xy"},
		{"normalizes elision", `["début [...] fin [..."]`, "début ... fin ..."},
		{"empty array", `[]`, NoContent},
		{"not an array", `"texte"`, NoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanContent(gjson.Parse(tt.values)))
		})
	}
}

func TestFacets(t *testing.T) {
	facets := Facets([]byte(searchResponse))
	require.Len(t, facets, 3)

	assert.Equal(t, Facet{
		ID:            "TEXT_LEGAL_STATUS",
		Title:         "Statut légal des textes",
		Field:         "legalStatus",
		Values:        map[string]int{"VIGUEUR": 10, "ABROGE": 2},
		TotalElements: 12,
	}, facets[0])

	assert.Equal(t, "CUSTOM", facets[1].Title)
	assert.Nil(t, facets[1].Values)

	assert.Equal(t, "Facette inconnue", facets[2].ID)
	assert.Equal(t, "Facette inconnue", facets[2].Title)
}
