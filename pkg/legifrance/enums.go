package legifrance

import (
	"strings"

	"github.com/usestring/droitfr-mcp/pkg/validate"
)

// Fund is a Légifrance collection ("fond").
type Fund string

const (
	FundJORF     Fund = "JORF"
	FundCNIL     Fund = "CNIL"
	FundCETAT    Fund = "CETAT"
	FundJURI     Fund = "JURI"
	FundJUFI     Fund = "JUFI"
	FundCONSTIT  Fund = "CONSTIT"
	FundKALI     Fund = "KALI"
	FundCodeDate Fund = "CODE_DATE"
	FundCodeEtat Fund = "CODE_ETAT"
	FundLODADate Fund = "LODA_DATE"
	FundLODAEtat Fund = "LODA_ETAT"
	FundALL      Fund = "ALL"
	FundCIRC     Fund = "CIRC"
	FundACCO     Fund = "ACCO"
)

// Funds lists every fund with a short French label.
var Funds = []Label[Fund]{
	{FundJORF, "Journal officiel de la République française"},
	{FundCNIL, "Délibérations de la CNIL"},
	{FundCETAT, "Jurisprudence administrative (Conseil d'État)"},
	{FundJURI, "Jurisprudence judiciaire"},
	{FundJUFI, "Jurisprudence financière"},
	{FundCONSTIT, "Conseil constitutionnel"},
	{FundKALI, "Conventions collectives"},
	{FundCodeDate, "Codes consolidés, par date de version"},
	{FundCodeEtat, "Codes consolidés, par état juridique"},
	{FundLODADate, "Lois, ordonnances, décrets, arrêtés, par date de version"},
	{FundLODAEtat, "Lois, ordonnances, décrets, arrêtés, par état juridique"},
	{FundALL, "Tous les fonds"},
	{FundCIRC, "Circulaires et instructions"},
	{FundACCO, "Accords d'entreprise"},
}

// IsCode reports whether the fund searches consolidated codes.
func (f Fund) IsCode() bool {
	return f == FundCodeDate || f == FundCodeEtat
}

// FieldType is the searched field ("typeChamp").
type FieldType string

// FieldTypes lists every field type with a short French label.
var FieldTypes = []Label[FieldType]{
	{"ALL", "Tous les champs"},
	{"TITLE", "Titre du texte"},
	{"TABLE", "Table des matières"},
	{"NOR", "Numéro NOR"},
	{"NUM", "Numéro du texte"},
	{"ADVANCED_TEXTE_ID", "Identifiant technique du texte"},
	{"NUM_DELIB", "Numéro de délibération"},
	{"NUM_DEC", "Numéro de décision"},
	{"NUM_ARTICLE", "Numéro d'article"},
	{"ARTICLE", "Contenu des articles"},
	{"MINISTERE", "Ministère émetteur"},
	{"VISA", "Visas du texte"},
	{"NOTICE", "Notice du texte"},
	{"VISA_NOTICE", "Visas et notice"},
	{"TRAVAUX_PREP", "Travaux préparatoires"},
	{"SIGNATURE", "Signataires"},
	{"NOTA", "Nota du texte"},
	{"NUM_AFFAIRE", "Numéro d'affaire"},
	{"ABSTRATS", "Abstracts"},
	{"RESUMES", "Résumés"},
	{"TEXTE", "Texte intégral"},
	{"ECLI", "Identifiant ECLI"},
	{"NUM_LOI_DEF", "Numéro de loi déférée"},
	{"TYPE_DECISION", "Type de décision"},
	{"NUMERO_INTERNE", "Numéro interne"},
	{"REF_PUBLI", "Référence de publication"},
	{"RESUME_CIRC", "Résumé de circulaire"},
	{"TEXTE_REF", "Texte de référence"},
	{"TITRE_LOI_DEF", "Titre de loi déférée"},
	{"RAISON_SOCIALE", "Raison sociale"},
	{"MOTS_CLES", "Mots-clés"},
	{"IDCC", "Identifiant de convention collective"},
}

// SearchMode is how a criterion value is matched ("typeRecherche").
type SearchMode string

const (
	ModeAnyWord      SearchMode = "UN_DES_MOTS"
	ModeExact        SearchMode = "EXACTE"
	ModeAllWords     SearchMode = "TOUS_LES_MOTS_DANS_UN_CHAMP"
	ModeNoWord       SearchMode = "AUCUN_DES_MOTS"
	ModeNoExpression SearchMode = "AUCUNE_CORRESPONDANCE_A_CETTE_EXPRESSION"
)

var SearchModes = []Label[SearchMode]{
	{ModeAnyWord, "Au moins un des mots"},
	{ModeExact, "Expression exacte"},
	{ModeAllWords, "Tous les mots dans le champ"},
	{ModeNoWord, "Aucun des mots"},
	{ModeNoExpression, "Aucune correspondance avec l'expression"},
}

// Operator joins criteria, fields or sub-criteria.
type Operator string

const (
	OpAnd Operator = "ET"
	OpOr  Operator = "OU"
)

var Operators = []Label[Operator]{
	{OpAnd, "Tous doivent correspondre"},
	{OpOr, "Au moins un doit correspondre"},
}

// Sort orders results. Availability depends on the fund.
type Sort string

const (
	SortRelevance Sort = "PERTINENCE"
	SortDateDesc  Sort = "DATE_DESC"
)

var Sorts = []Label[Sort]{
	{SortRelevance, "Pertinence"},
	{"SIGNATURE_DATE_DESC", "Date de signature décroissante"},
	{"SIGNATURE_DATE_ASC", "Date de signature croissante"},
	{"DATE_PUBLI_DESC", "Date de publication décroissante"},
	{"DATE_PUBLI_ASC", "Date de publication croissante"},
	{"DATE_VERSION_DESC", "Date de version décroissante"},
	{"DATE_VERSION_ASC", "Date de version croissante"},
	{"DATE_UPDATE", "Date de mise à jour"},
	{SortDateDesc, "Date décroissante"},
	{"DATE_ASC", "Date croissante"},
	{"ID_DESC", "Identifiant décroissant"},
	{"ID_ASC", "Identifiant croissant"},
	{"ID", "Identifiant"},
}

// PaginationType selects the paging scheme.
type PaginationType string

const (
	PaginationDefault PaginationType = "DEFAUT"
	PaginationArticle PaginationType = "ARTICLE"
)

var PaginationTypes = []Label[PaginationType]{
	{PaginationDefault, "Pagination standard"},
	{PaginationArticle, "Pagination par article d'un texte"},
}

// Label pairs an enum value with its description.
type Label[T ~string] struct {
	Value       T
	Description string
}

func values[T ~string](labels []Label[T]) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = string(l.Value)
	}
	return out
}

func parseEnum[T ~string](param, raw string, labels []Label[T]) (T, error) {
	v := strings.ToUpper(strings.TrimSpace(raw))
	for _, l := range labels {
		if string(l.Value) == v {
			return l.Value, nil
		}
	}
	return "", &validate.InvalidEnumError{Param: param, Value: raw, Valid: values(labels)}
}

// ParseFund validates a fund name.
func ParseFund(s string) (Fund, error) { return parseEnum("fond", s, Funds) }

// ParseFieldType validates a field type name.
func ParseFieldType(s string) (FieldType, error) { return parseEnum("typeChamp", s, FieldTypes) }

// ParseSearchMode validates a search mode name. AUCUNE_CORRESPONDANCE is
// accepted as the short form of AUCUNE_CORRESPONDANCE_A_CETTE_EXPRESSION.
func ParseSearchMode(s string) (SearchMode, error) {
	if strings.EqualFold(strings.TrimSpace(s), "AUCUNE_CORRESPONDANCE") {
		return ModeNoExpression, nil
	}
	return parseEnum("typeRecherche", s, SearchModes)
}

// ParseSort validates a sort name.
func ParseSort(s string) (Sort, error) { return parseEnum("sort", s, Sorts) }

// ParsePaginationType validates a pagination type.
func ParsePaginationType(s string) (PaginationType, error) {
	return parseEnum("typePagination", s, PaginationTypes)
}

// ParseOperator accepts ET/OU and their English spellings AND/OR.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ET", "AND":
		return OpAnd, nil
	case "OU", "OR":
		return OpOr, nil
	}
	return "", &validate.InvalidEnumError{Param: "operateur", Value: s, Valid: values(Operators)}
}
