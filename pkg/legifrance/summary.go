package legifrance

import (
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// SummaryItem is one flattened hit: either the main text of a result or one
// article extract from one of its sections.
type SummaryItem struct {
	ArticleID    string `json:"article_id"`
	Title        string `json:"title,omitempty"`
	Nature       string `json:"nature,omitempty"`
	Text         string `json:"text,omitempty"`
	SectionTitle string `json:"section_title,omitempty"`
	Content      string `json:"content,omitempty"`
	DateVersion  string `json:"date_version,omitempty"`
	DateDebut    string `json:"date_debut,omitempty"`
	DateFin      string `json:"date_fin,omitempty"`
}

// Facet summarizes one facet of a search response.
type Facet struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Field         string         `json:"field,omitempty"`
	Values        map[string]int `json:"values,omitempty"`
	TotalElements int            `json:"total_elements"`
}

// NoContent replaces the content of an extract without values.
const NoContent = "Contenu non disponible"

const unknownFacet = "Facette inconnue"

var facetTitles = map[string]string{
	"TEXT_LEGAL_STATUS":    "Statut légal des textes",
	"ARTICLE_LEGAL_STATUS": "Statut légal des articles",
	FacetCodeName:          "Codes disponibles",
}

var (
	markTags = strings.NewReplacer("<mark>", "", "</mark>", "")
	ellipsis = regexp.MustCompile(`\[\.\.\.\]*`)
)

// Summarize flattens a search response into one item per main text and one
// per section extract, in response order.
func Summarize(body []byte) []SummaryItem {
	var items []SummaryItem
	gjson.GetBytes(body, "results").ForEach(func(_, result gjson.Result) bool {
		title := result.Get("titles.0")
		id := title.Get("id")
		text := result.Get("text")
		if id.Exists() && id.Type != gjson.Null && text.Exists() && text.Type != gjson.Null {
			items = append(items, SummaryItem{
				ArticleID: id.String(),
				Title:     title.Get("title").String(),
				Nature:    result.Get("nature").String(),
				Text:      text.String(),
			})
		}

		result.Get("sections").ForEach(func(_, section gjson.Result) bool {
			section.Get("extracts").ForEach(func(_, extract gjson.Result) bool {
				eid := extract.Get("id")
				if !eid.Exists() || eid.Type == gjson.Null {
					return true
				}
				items = append(items, SummaryItem{
					ArticleID:    eid.String(),
					Title:        extractTitle(extract),
					SectionTitle: section.Get("title").String(),
					Content:      CleanContent(extract.Get("values")),
					DateVersion:  extract.Get("dateVersion").String(),
					DateDebut:    extract.Get("dateDebut").String(),
					DateFin:      extract.Get("dateFin").String(),
				})
				return true
			})
			return true
		})
		return true
	})
	return items
}

func extractTitle(extract gjson.Result) string {
	num := "N/A"
	if n := extract.Get("num"); n.Exists() && n.Type != gjson.Null {
		num = n.String()
	}
	title := "Article " + num
	if t := extract.Get("title").String(); t != "" {
		title += " - " + t
	}
	return title
}

// CleanContent joins extract values, drops highlight tags and normalizes
// elision markers.
func CleanContent(values gjson.Result) string {
	if !values.IsArray() || len(values.Array()) == 0 {
		return NoContent
	}
	parts := make([]string, 0, len(values.Array()))
	for _, v := range values.Array() {
		parts = append(parts, v.String())
	}
	content := markTags.Replace(strings.Join(parts, " "))
	content = ellipsis.ReplaceAllString(content, "...")
	return strings.TrimSpace(content)
}

// Facets lists the facets of a search response.
func Facets(body []byte) []Facet {
	var facets []Facet
	gjson.GetBytes(body, "facets").ForEach(func(_, f gjson.Result) bool {
		facet := Facet{
			ID:            unknownFacet,
			Field:         f.Get("field").String(),
			TotalElements: int(f.Get("totalElement").Int()),
		}
		if elem := f.Get("facetElem"); elem.Exists() && elem.Type != gjson.Null {
			facet.ID = elem.String()
		}
		facet.Title = facetTitle(facet.ID)

		if values := f.Get("values"); values.IsObject() {
			facet.Values = make(map[string]int)
			values.ForEach(func(k, v gjson.Result) bool {
				facet.Values[k.String()] = int(v.Int())
				return true
			})
		}
		facets = append(facets, facet)
		return true
	})
	return facets
}

func facetTitle(elem string) string {
	if t, ok := facetTitles[elem]; ok {
		return t
	}
	return elem
}
