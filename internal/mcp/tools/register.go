package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: rechercher_droit_francais
	AddTool(srv, &sdkmcp.Tool{
		Name: "rechercher_droit_francais",
		Description: "Recherche avancée dans Légifrance (codes, lois, JORF, jurisprudence, conventions collectives, CNIL). " +
			"Returns {total_result_number, results: [{article_id, title, nature, text, section_title, content, date_version, date_debut, date_fin}], facets, hint}. " +
			"Set format=clean for the whole cleaned response instead of the flat summary. " +
			"Next step: obtenir_article(article_id) for the full text.",
	}, ToolSearchLaw(d))

	// Tool 2: obtenir_article
	AddTool(srv, &sdkmcp.Tool{
		Name: "obtenir_article",
		Description: "Texte intégral d'un document Légifrance par identifiant. The consult endpoint is chosen from the id prefix " +
			"(LEGIARTI, LEGITEXT, JURITEXT, CNILTEXT, KALITEXT, KALIARTI, ACCOTEXT, otherwise JORF). " +
			"Returns the cleaned document (empty values and technical fields removed). " +
			"Pass jq to select part of the raw document before cleaning, e.g. `.article | {num, texte, etat, dateDebut}`.",
	}, ToolGetArticle(d))

	// Tool 3: rechercher_jurisprudence_judilibre
	AddTool(srv, &sdkmcp.Tool{
		Name: "rechercher_jurisprudence_judilibre",
		Description: "Recherche de décisions de justice dans JudiLibre (Cour de cassation, cours d'appel, tribunaux). " +
			"Returns {total, page, page_size, results: [{id, number, decision_date, jurisdiction, chamber, solution, summary, ...}]}. " +
			"Use chamber keys (civ1, soc, cr, ...) rather than labels; obtenir_taxonomie_judilibre lists valid values. " +
			"Results are previews: call obtenir_decision_judilibre(decision_id) for the full text.",
	}, ToolSearchCaseLaw(d))

	// Tool 4: obtenir_decision_judilibre
	AddTool(srv, &sdkmcp.Tool{
		Name: "obtenir_decision_judilibre",
		Description: "Décision JudiLibre complète par identifiant. Returns {decision_id, solution (upper-cased, e.g. CASSATION), " +
			"zones: [{zone, start, end, text}] for introduction, expose, moyens, motivations, dispositif, moyens_annexes, document}. " +
			"Pass jq to select part of the document, e.g. `{summary, themes, visa}`.",
	}, ToolGetDecision(d))

	// Tool 5: obtenir_taxonomie_judilibre
	AddTool(srv, &sdkmcp.Tool{
		Name: "obtenir_taxonomie_judilibre",
		Description: "Taxonomies JudiLibre: valid values for search filters. Without arguments, lists the taxonomies. " +
			"With taxonomy_id, returns all its entries; add key to get a label or value to get a key (not both). " +
			"context_value narrows chamber and location (cc, ca, tj, tcom).",
	}, ToolTaxonomy(d))

	// Tool 6: tester_connexion_legifrance
	AddTool(srv, &sdkmcp.Tool{
		Name:        "tester_connexion_legifrance",
		Description: "Diagnostic: obtains a PISTE token and pings Légifrance. Returns status, token preview and expiry, and the ping answer.",
	}, ToolTestConnection(d))
}
